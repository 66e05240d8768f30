package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	route(mux, "GET /account", c.get, authMiddleware)
	route(mux, "POST /account/pin", c.changePin, authMiddleware)
	route(mux, "GET /accounts/{accountNumber}", c.lookup, authMiddleware)
	route(mux, "GET /banks", c.banks, authMiddleware)
}

func (c *AccountController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetAccount(r.Context(), middleware.UserID(r.Context()))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) changePin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.ChangePinRequest
	if !decodeBody[models.AccountResponse](w, r, start, &req) {
		return
	}
	req.UserID = middleware.UserID(r.Context())

	response, err := c.service.ChangePin(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) lookup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.LookupAccount(r.Context(), r.PathValue("accountNumber"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) banks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListBanks(r.Context())
	respond(w, r, start, http.StatusOK, response, err)
}
