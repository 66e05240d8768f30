package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/usecase/service_interfaces"
)

type OperatorController struct {
	service service_interfaces.OperatorService
}

func NewOperatorController(service service_interfaces.OperatorService) *OperatorController {
	return &OperatorController{service: service}
}

func (c *OperatorController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	route(mux, "POST /admin/accounts/freeze", c.freeze, authMiddleware)
	route(mux, "POST /admin/accounts/unfreeze", c.unfreeze, authMiddleware)
	route(mux, "GET /admin/accounts/{accountNumber}/freezes", c.freezeHistory, authMiddleware)
	route(mux, "GET /admin/transactions/{id}", c.getTransaction, authMiddleware)
	route(mux, "POST /admin/transactions/{id}/status", c.transition, authMiddleware)
	route(mux, "POST /admin/deposits/{id}/complete", c.completeDeposit, authMiddleware)
}

func (c *OperatorController) freeze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.FreezeAccountRequest
	if !decodeBody[models.FreezeResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.FreezeAccount(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *OperatorController) unfreeze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.UnfreezeAccountRequest
	if !decodeBody[models.UnfreezeResponse](w, r, start, &req) {
		return
	}

	response, err := c.service.UnfreezeAccount(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *OperatorController) freezeHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.FreezeHistory(r.Context(), r.PathValue("accountNumber"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *OperatorController) getTransaction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetTransaction(r.Context(), r.PathValue("id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *OperatorController) transition(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TransitionTransactionRequest
	if !decodeBody[models.TransactionResponse](w, r, start, &req) {
		return
	}
	req.TransactionID = r.PathValue("id")

	response, err := c.service.TransitionTransaction(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *OperatorController) completeDeposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.CompleteDeposit(r.Context(), r.PathValue("id"))
	respond(w, r, start, http.StatusOK, response, err)
}
