package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/usecase/service_interfaces"
)

type PaymentRequestController struct {
	service service_interfaces.PaymentRequestService
}

func NewPaymentRequestController(service service_interfaces.PaymentRequestService) *PaymentRequestController {
	return &PaymentRequestController{service: service}
}

func (c *PaymentRequestController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	route(mux, "POST /payment-requests", c.create, authMiddleware)
	route(mux, "POST /payment-requests/{id}/send", c.send, authMiddleware)
	route(mux, "POST /payment-requests/{id}/settle", c.settle, authMiddleware)
	route(mux, "DELETE /payment-requests/{id}", c.remove, authMiddleware)
}

func (c *PaymentRequestController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreatePaymentRequestRequest
	if !decodeBody[models.TransactionResponse](w, r, start, &req) {
		return
	}
	req.UserID = middleware.UserID(r.Context())

	response, err := c.service.CreatePaymentRequest(r.Context(), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *PaymentRequestController) send(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AuthorizeTransactionRequest
	if !decodeBody[models.TransactionResponse](w, r, start, &req) {
		return
	}
	req.UserID = middleware.UserID(r.Context())
	req.TransactionID = r.PathValue("id")

	response, err := c.service.SendPaymentRequest(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *PaymentRequestController) settle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AuthorizeTransactionRequest
	if !decodeBody[models.TransactionResponse](w, r, start, &req) {
		return
	}
	req.UserID = middleware.UserID(r.Context())
	req.TransactionID = r.PathValue("id")

	response, err := c.service.SettlePaymentRequest(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *PaymentRequestController) remove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	req := models.DeletePaymentRequestRequest{
		UserID:        middleware.UserID(r.Context()),
		TransactionID: r.PathValue("id"),
	}
	response, err := c.service.DeletePaymentRequest(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}
