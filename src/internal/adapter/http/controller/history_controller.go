package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/paylio-ledger/src/internal/commons"
	"github.com/api-sage/paylio-ledger/src/internal/usecase/service_interfaces"
)

// HistoryController serves the read side: transactions, saved
// beneficiaries and notifications.
type HistoryController struct {
	transactions  service_interfaces.TransactionService
	beneficiaries service_interfaces.BeneficiaryService
	notifications service_interfaces.NotificationService
}

func NewHistoryController(
	transactions service_interfaces.TransactionService,
	beneficiaries service_interfaces.BeneficiaryService,
	notifications service_interfaces.NotificationService,
) *HistoryController {
	return &HistoryController{
		transactions:  transactions,
		beneficiaries: beneficiaries,
		notifications: notifications,
	}
}

func (c *HistoryController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	route(mux, "GET /transactions", c.listTransactions, authMiddleware)
	route(mux, "GET /transactions/{id}", c.getTransaction, authMiddleware)
	route(mux, "GET /beneficiaries", c.listBeneficiaries, authMiddleware)
	route(mux, "DELETE /beneficiaries/{id}", c.removeBeneficiary, authMiddleware)
	route(mux, "GET /notifications", c.listNotifications, authMiddleware)
	route(mux, "GET /notifications/unread-count", c.unreadCount, authMiddleware)
	route(mux, "POST /notifications/read-all", c.markAllRead, authMiddleware)
	route(mux, "POST /notifications/{id}/read", c.markRead, authMiddleware)
}

func (c *HistoryController) listTransactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	query := r.URL.Query()
	limit, ok := queryInt[[]models.TransactionResponse](w, r, start, "limit")
	if !ok {
		return
	}
	req := models.ListTransactionsRequest{
		UserID: middleware.UserID(r.Context()),
		Kind:   query.Get("kind"),
		Status: query.Get("status"),
		Search: query.Get("q"),
		Limit:  limit,
	}

	response, err := c.transactions.ListTransactions(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *HistoryController) getTransaction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.transactions.GetTransaction(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *HistoryController) listBeneficiaries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.beneficiaries.ListBeneficiaries(r.Context(), middleware.UserID(r.Context()))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *HistoryController) removeBeneficiary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response := commons.ErrorResponse[struct{}]("validation failed", "beneficiary id must be a number")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.beneficiaries.RemoveBeneficiary(r.Context(), middleware.UserID(r.Context()), id)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *HistoryController) listNotifications(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	limit, ok := queryInt[[]models.NotificationResponse](w, r, start, "limit")
	if !ok {
		return
	}

	response, err := c.notifications.ListNotifications(r.Context(), middleware.UserID(r.Context()), limit)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *HistoryController) markRead(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.notifications.MarkRead(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *HistoryController) unreadCount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.notifications.UnreadCount(r.Context(), middleware.UserID(r.Context()))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *HistoryController) markAllRead(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.notifications.MarkAllRead(r.Context(), middleware.UserID(r.Context()))
	respond(w, r, start, http.StatusOK, response, err)
}

func queryInt[T any](w http.ResponseWriter, r *http.Request, start time.Time, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		response := commons.ErrorResponse[T]("validation failed", key+" must be a number")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return 0, false
	}
	return value, true
}
