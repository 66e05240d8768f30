package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/usecase/service_interfaces"
)

type WithdrawalController struct {
	service service_interfaces.WithdrawalService
}

func NewWithdrawalController(service service_interfaces.WithdrawalService) *WithdrawalController {
	return &WithdrawalController{service: service}
}

func (c *WithdrawalController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	route(mux, "POST /withdrawals", c.create, authMiddleware)
	route(mux, "POST /withdrawals/{id}/authorize", c.authorize, authMiddleware)
}

func (c *WithdrawalController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateWithdrawalRequest
	if !decodeBody[models.TransactionResponse](w, r, start, &req) {
		return
	}
	req.UserID = middleware.UserID(r.Context())

	response, err := c.service.CreateWithdrawal(r.Context(), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *WithdrawalController) authorize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AuthorizeTransactionRequest
	if !decodeBody[models.TransactionResponse](w, r, start, &req) {
		return
	}
	req.UserID = middleware.UserID(r.Context())
	req.TransactionID = r.PathValue("id")

	response, err := c.service.AuthorizeWithdrawal(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}
