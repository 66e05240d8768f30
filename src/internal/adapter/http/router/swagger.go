package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("GET /swagger/{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("GET /swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Paylio Ledger API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {"title": "Paylio Ledger API", "version": "1.0.0"},
  "paths": {
    "/transfers": {
      "post": {
        "summary": "Create transfer",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [{"$ref": "#/components/parameters/UserID"}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/CreateTransfer"}}
          }
        },
        "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "403": {"description": "Frozen, KYC or not permitted"}, "404": {"description": "Not found"}, "409": {"description": "Already processed or invalid transition"}, "422": {"description": "Insufficient balance or incorrect PIN"}, "500": {"description": "Server error"}}
      }
    },
    "/transfers/{id}/authorize": {
      "post": {
        "summary": "Authorize transfer with PIN",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {"$ref": "#/components/parameters/UserID"},
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/Authorize"}}
          }
        },
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "403": {"description": "Frozen, KYC or not permitted"}, "404": {"description": "Not found"}, "409": {"description": "Already processed or invalid transition"}, "422": {"description": "Insufficient balance or incorrect PIN"}, "423": {"description": "PIN locked"}, "500": {"description": "Server error"}}
      }
    },
    "/deposits": {
      "post": {
        "summary": "Create deposit",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [{"$ref": "#/components/parameters/UserID"}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/CreateDeposit"}}
          }
        },
        "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "403": {"description": "Frozen, KYC or not permitted"}, "500": {"description": "Server error"}}
      }
    },
    "/deposits/{id}/confirm": {
      "post": {
        "summary": "Submit deposit for approval",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {"$ref": "#/components/parameters/UserID"},
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "403": {"description": "Frozen, KYC or not permitted"}, "404": {"description": "Not found"}, "409": {"description": "Already processed or invalid transition"}, "500": {"description": "Server error"}}
      }
    },
    "/withdrawals": {
      "post": {
        "summary": "Create withdrawal",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [{"$ref": "#/components/parameters/UserID"}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/CreateWithdrawal"}}
          }
        },
        "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "403": {"description": "Frozen, KYC or not permitted"}, "422": {"description": "Insufficient balance or incorrect PIN"}, "500": {"description": "Server error"}}
      }
    },
    "/withdrawals/{id}/authorize": {
      "post": {
        "summary": "Authorize withdrawal with PIN",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {"$ref": "#/components/parameters/UserID"},
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/Authorize"}}
          }
        },
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "403": {"description": "Frozen, KYC or not permitted"}, "404": {"description": "Not found"}, "409": {"description": "Already processed or invalid transition"}, "422": {"description": "Insufficient balance or incorrect PIN"}, "423": {"description": "PIN locked"}, "500": {"description": "Server error"}}
      }
    },
    "/payment-requests": {
      "post": {
        "summary": "Request money from another account",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [{"$ref": "#/components/parameters/UserID"}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/CreatePaymentRequest"}}
          }
        },
        "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "403": {"description": "Frozen, KYC or not permitted"}, "404": {"description": "Not found"}, "500": {"description": "Server error"}}
      }
    },
    "/payment-requests/{id}/send": {
      "post": {
        "summary": "Send payment request",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {"$ref": "#/components/parameters/UserID"},
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/Authorize"}}
          }
        },
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "403": {"description": "Frozen, KYC or not permitted"}, "404": {"description": "Not found"}, "409": {"description": "Already processed or invalid transition"}, "422": {"description": "Insufficient balance or incorrect PIN"}, "423": {"description": "PIN locked"}, "500": {"description": "Server error"}}
      }
    },
    "/payment-requests/{id}/settle": {
      "post": {
        "summary": "Settle received payment request",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {"$ref": "#/components/parameters/UserID"},
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/Authorize"}}
          }
        },
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "403": {"description": "Frozen, KYC or not permitted"}, "404": {"description": "Not found"}, "409": {"description": "Already processed or invalid transition"}, "422": {"description": "Insufficient balance or incorrect PIN"}, "423": {"description": "PIN locked"}, "500": {"description": "Server error"}}
      }
    },
    "/payment-requests/{id}": {
      "delete": {
        "summary": "Delete unsent payment request",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {"$ref": "#/components/parameters/UserID"},
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "403": {"description": "Frozen, KYC or not permitted"}, "404": {"description": "Not found"}, "409": {"description": "Already processed or invalid transition"}, "500": {"description": "Server error"}}
      }
    },
    "/account": {
      "get": {
        "summary": "Get caller account",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [{"$ref": "#/components/parameters/UserID"}],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not found"}, "500": {"description": "Server error"}}
      }
    },
    "/account/pin": {
      "post": {
        "summary": "Change transaction PIN",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [{"$ref": "#/components/parameters/UserID"}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/ChangePin"}}
          }
        },
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "422": {"description": "Insufficient balance or incorrect PIN"}, "423": {"description": "PIN locked"}, "500": {"description": "Server error"}}
      }
    },
    "/accounts/{accountNumber}": {
      "get": {
        "summary": "Lookup account holder name",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {"$ref": "#/components/parameters/UserID"},
          {"name": "accountNumber", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not found"}, "500": {"description": "Server error"}}
      }
    },
    "/banks": {
      "get": {
        "summary": "List destination banks",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [{"$ref": "#/components/parameters/UserID"}],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/transactions": {
      "get": {
        "summary": "List caller transactions",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [{"$ref": "#/components/parameters/UserID"}],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/transactions/{id}": {
      "get": {
        "summary": "Get transaction",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {"$ref": "#/components/parameters/UserID"},
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "403": {"description": "Frozen, KYC or not permitted"}, "404": {"description": "Not found"}, "500": {"description": "Server error"}}
      }
    },
    "/beneficiaries": {
      "get": {
        "summary": "List saved beneficiaries",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [{"$ref": "#/components/parameters/UserID"}],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/beneficiaries/{id}": {
      "delete": {
        "summary": "Remove beneficiary",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {"$ref": "#/components/parameters/UserID"},
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not found"}, "500": {"description": "Server error"}}
      }
    },
    "/notifications": {
      "get": {
        "summary": "List notifications",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [{"$ref": "#/components/parameters/UserID"}],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/notifications/unread-count": {
      "get": {
        "summary": "Count unread notifications",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [{"$ref": "#/components/parameters/UserID"}],
        "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/notifications/read-all": {
      "post": {
        "summary": "Mark all notifications read",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [{"$ref": "#/components/parameters/UserID"}],
        "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "500": {"description": "Server error"}}
      }
    },
    "/notifications/{id}/read": {
      "post": {
        "summary": "Mark notification read",
        "security": [
          {"BasicAuth": []}
        ],
        "parameters": [
          {"$ref": "#/components/parameters/UserID"},
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not found"}, "500": {"description": "Server error"}}
      }
    },
    "/admin/accounts/freeze": {
      "post": {
        "summary": "Freeze account",
        "security": [
          {"OperatorAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/FreezeAccount"}}
          }
        },
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not found"}, "500": {"description": "Server error"}}
      }
    },
    "/admin/accounts/unfreeze": {
      "post": {
        "summary": "Lift account freeze",
        "security": [
          {"OperatorAuth": []}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/UnfreezeAccount"}}
          }
        },
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not found"}, "500": {"description": "Server error"}}
      }
    },
    "/admin/accounts/{accountNumber}/freezes": {
      "get": {
        "summary": "Freeze history",
        "security": [
          {"OperatorAuth": []}
        ],
        "parameters": [
          {"name": "accountNumber", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not found"}, "500": {"description": "Server error"}}
      }
    },
    "/admin/transactions/{id}": {
      "get": {
        "summary": "Get any transaction",
        "security": [
          {"OperatorAuth": []}
        ],
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not found"}, "500": {"description": "Server error"}}
      }
    },
    "/admin/transactions/{id}/status": {
      "post": {
        "summary": "Approve or fail a transaction",
        "security": [
          {"OperatorAuth": []}
        ],
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/TransitionTransaction"}}
          }
        },
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not found"}, "409": {"description": "Already processed or invalid transition"}, "500": {"description": "Server error"}}
      }
    },
    "/admin/deposits/{id}/complete": {
      "post": {
        "summary": "Complete deposit",
        "security": [
          {"OperatorAuth": []}
        ],
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not found"}, "409": {"description": "Already processed or invalid transition"}, "500": {"description": "Server error"}}
      }
    }
  },
  "components": {
    "securitySchemes": {"BasicAuth": {"type": "http", "scheme": "basic"}, "OperatorAuth": {"type": "http", "scheme": "basic"}},
    "parameters": {
      "UserID": {"name": "X-User-ID", "in": "header", "required": true, "schema": {"type": "string"}}
    },
    "schemas": {
      "CreateTransfer": {
        "type": "object",
        "required": ["accountNumber", "amount"],
        "properties": {"accountNumber": {"type": "string"}, "accountName": {"type": "string"}, "bankName": {"type": "string"}, "amount": {"type": "string", "example": "40.00"}, "description": {"type": "string"}, "saveBeneficiary": {"type": "boolean"}}
      },
      "Authorize": {
        "type": "object",
        "required": ["pin"],
        "properties": {"pin": {"type": "string", "pattern": "^[0-9]{4}$"}}
      },
      "CreateDeposit": {
        "type": "object",
        "required": ["amount", "method"],
        "properties": {
          "amount": {"type": "string", "example": "40.00"},
          "method": {"type": "string", "enum": ["bank_transfer", "card_payment", "saved_card"]},
          "cardId": {"type": "string"},
          "reference": {"type": "string"}
        }
      },
      "CreateWithdrawal": {
        "type": "object",
        "required": ["amount", "bankName", "accountNumber", "accountName"],
        "properties": {"amount": {"type": "string", "example": "40.00"}, "bankName": {"type": "string"}, "accountNumber": {"type": "string"}, "accountName": {"type": "string"}, "description": {"type": "string"}}
      },
      "CreatePaymentRequest": {
        "type": "object",
        "required": ["payerAccountNumber", "amount"],
        "properties": {"payerAccountNumber": {"type": "string"}, "amount": {"type": "string", "example": "40.00"}, "description": {"type": "string"}}
      },
      "ChangePin": {
        "type": "object",
        "required": ["currentPin", "newPin"],
        "properties": {"currentPin": {"type": "string"}, "newPin": {"type": "string", "pattern": "^[0-9]{4}$"}}
      },
      "FreezeAccount": {
        "type": "object",
        "required": ["accountNumber", "reason"],
        "properties": {
          "accountNumber": {"type": "string"},
          "reason": {"type": "string", "enum": ["suspicious_activity", "user_request", "compliance", "security", "other"]},
          "notes": {"type": "string"}
        }
      },
      "UnfreezeAccount": {
        "type": "object",
        "required": ["accountNumber"],
        "properties": {"accountNumber": {"type": "string"}}
      },
      "TransitionTransaction": {
        "type": "object",
        "required": ["status"],
        "properties": {
          "status": {"type": "string", "enum": ["completed", "failed"]}
        }
      }
    }
  }
}`
