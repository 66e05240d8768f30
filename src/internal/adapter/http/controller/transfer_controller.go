package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/usecase/service_interfaces"
)

type TransferController struct {
	service service_interfaces.TransferService
}

func NewTransferController(service service_interfaces.TransferService) *TransferController {
	return &TransferController{service: service}
}

func (c *TransferController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	route(mux, "POST /transfers", c.create, authMiddleware)
	route(mux, "POST /transfers/{id}/authorize", c.authorize, authMiddleware)
}

func (c *TransferController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateTransferRequest
	if !decodeBody[models.TransactionResponse](w, r, start, &req) {
		return
	}
	req.UserID = middleware.UserID(r.Context())

	response, err := c.service.CreateTransfer(r.Context(), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *TransferController) authorize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AuthorizeTransactionRequest
	if !decodeBody[models.AuthorizeTransferResponse](w, r, start, &req) {
		return
	}
	req.UserID = middleware.UserID(r.Context())
	req.TransactionID = r.PathValue("id")

	response, err := c.service.AuthorizeTransfer(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}
