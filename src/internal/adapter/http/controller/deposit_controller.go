package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/usecase/service_interfaces"
)

type DepositController struct {
	service service_interfaces.DepositService
}

func NewDepositController(service service_interfaces.DepositService) *DepositController {
	return &DepositController{service: service}
}

func (c *DepositController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	route(mux, "POST /deposits", c.create, authMiddleware)
	route(mux, "POST /deposits/{id}/confirm", c.confirm, authMiddleware)
}

func (c *DepositController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateDepositRequest
	if !decodeBody[models.TransactionResponse](w, r, start, &req) {
		return
	}
	req.UserID = middleware.UserID(r.Context())

	response, err := c.service.CreateDeposit(r.Context(), req)
	respond(w, r, start, http.StatusCreated, response, err)
}

func (c *DepositController) confirm(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	req := models.ConfirmDepositRequest{
		UserID:        middleware.UserID(r.Context()),
		TransactionID: r.PathValue("id"),
	}
	response, err := c.service.ConfirmDeposit(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}
