package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/guard"
	"github.com/api-sage/paylio-ledger/src/internal/ledger"
	"github.com/api-sage/paylio-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	channelID   = "PaylioApp"
	channelKey  = "PaylioKey001"
	operatorID  = "PaylioOps"
	operatorKey = "PaylioOpsKey001"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type server struct {
	t     *testing.T
	store *memory.Store
	mux   *http.ServeMux
}

func newServer(t *testing.T) *server {
	t.Helper()

	hash, err := guard.HashPinWithCost("1234", bcrypt.MinCost)
	require.NoError(t, err)

	store := memory.NewStore()
	for i, name := range []string{"alice", "bob"} {
		store.AddUser(domain.User{ID: "user-" + name, Username: name, FullName: name, Email: name + "@example.com"})
		require.NoError(t, store.AddAccount(domain.Account{
			ID:            "acc-" + name,
			UserID:        "user-" + name,
			AccountNumber: []string{"1000000001", "1000000002"}[i],
			Balance:       decimal.NewFromInt(100),
			PinHash:       hash,
			KYCConfirmed:  true,
		}))
	}

	pinGuard := guard.New()
	engine := ledger.NewEngine(store, pinGuard, ledger.WithPinCost(bcrypt.MinCost))
	accounts, entries := store.Accounts(), store.Entries()

	customer := []router.RouteRegistrar{
		controller.NewTransferController(services.NewTransferService(engine, accounts, store.Users(), entries, store.Beneficiaries())),
		controller.NewDepositController(services.NewDepositService(engine, accounts, entries)),
		controller.NewWithdrawalController(services.NewWithdrawalService(engine, accounts, entries)),
		controller.NewPaymentRequestController(services.NewPaymentRequestService(engine, accounts, entries)),
		controller.NewAccountController(services.NewAccountService(engine, pinGuard, accounts, store.Users(), store.Freezes(), memory.NewBankDirectory())),
		controller.NewHistoryController(
			services.NewTransactionService(entries),
			services.NewBeneficiaryService(store.Beneficiaries()),
			services.NewNotificationService(store.Notifications()),
		),
	}
	operator := []router.RouteRegistrar{
		controller.NewOperatorController(services.NewOperatorService(engine, accounts, entries, store.Freezes())),
	}

	mux := router.New(
		customer,
		operator,
		middleware.Chain(middleware.BasicAuth(channelID, channelKey), middleware.RequireUser),
		middleware.BasicAuth(operatorID, operatorKey),
	)
	return &server{t: t, store: store, mux: mux}
}

func (s *server) do(method, path, userID string, body any) (int, envelope) {
	s.t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.SetBasicAuth(channelID, channelKey)
		req.Header.Set(middleware.UserIDHeader, userID)
	}

	return s.serve(req)
}

func (s *server) admin(method, path string, body any) (int, envelope) {
	s.t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.SetBasicAuth(operatorID, operatorKey)

	return s.serve(req)
}

func (s *server) serve(req *http.Request) (int, envelope) {
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)

	var env envelope
	if rr.Body.Len() > 0 {
		_ = json.Unmarshal(rr.Body.Bytes(), &env)
	}
	return rr.Code, env
}

func (s *server) createTransfer(amount int64) string {
	s.t.Helper()

	code, env := s.do(http.MethodPost, "/transfers", "user-alice", map[string]any{
		"accountNumber": "1000000002",
		"amount":        amount,
	})
	require.Equal(s.t, http.StatusCreated, code, env.Message)

	var tx struct {
		TransactionID string `json:"transactionId"`
		Status        string `json:"status"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &tx))
	assert.Equal(s.t, "processing", tx.Status)
	return tx.TransactionID
}

func TestHealthz(t *testing.T) {
	s := newServer(t)

	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTransferLifecycleOverHTTP(t *testing.T) {
	s := newServer(t)
	txID := s.createTransfer(30)

	code, env := s.do(http.MethodPost, "/transfers/"+txID+"/authorize", "user-alice", map[string]string{"pin": "9999"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, env.Success)

	code, env = s.do(http.MethodPost, "/transfers/"+txID+"/authorize", "user-alice", map[string]string{"pin": "1234"})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.True(t, env.Success)
	assert.True(t, decimal.NewFromInt(70).Equal(s.store.Balance("acc-alice")))
	assert.True(t, decimal.NewFromInt(130).Equal(s.store.Balance("acc-bob")))

	code, _ = s.do(http.MethodPost, "/transfers/"+txID+"/authorize", "user-alice", map[string]string{"pin": "1234"})
	assert.Equal(t, http.StatusConflict, code)
}

func TestTransferValidationAndNotFound(t *testing.T) {
	s := newServer(t)

	code, env := s.do(http.MethodPost, "/transfers", "user-alice", map[string]any{
		"accountNumber": "1000000002",
		"amount":        0,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, env.Errors)

	code, _ = s.do(http.MethodPost, "/transfers/TRF-UNKNOWN/authorize", "user-alice", map[string]string{"pin": "1234"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCustomerRoutesRequireIdentity(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	code, _ := s.serve(req)
	assert.Equal(t, http.StatusUnauthorized, code)

	req = httptest.NewRequest(http.MethodGet, "/account", nil)
	req.SetBasicAuth(channelID, channelKey)
	code, env := s.serve(req)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "missing user identity", env.Message)

	code, env = s.do(http.MethodGet, "/account", "user-alice", nil)
	assert.Equal(t, http.StatusOK, code, env.Message)
}

func TestOperatorRoutesRejectChannelCredentials(t *testing.T) {
	s := newServer(t)

	code, _ := s.do(http.MethodPost, "/admin/accounts/freeze", "user-alice", map[string]string{
		"accountNumber": "1000000001",
		"reason":        "security",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestFreezeBlocksTransfersOverHTTP(t *testing.T) {
	s := newServer(t)

	code, env := s.admin(http.MethodPost, "/admin/accounts/freeze", map[string]string{
		"accountNumber": "1000000001",
		"reason":        "security",
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = s.do(http.MethodPost, "/transfers", "user-alice", map[string]any{
		"accountNumber": "1000000002",
		"amount":        10,
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.admin(http.MethodPost, "/admin/accounts/unfreeze", map[string]string{"accountNumber": "1000000001"})
	require.Equal(t, http.StatusOK, code, env.Message)

	s.createTransfer(10)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	s := newServer(t)

	code, _ := s.do(http.MethodGet, "/nope", "user-alice", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestNotificationCountsOverHTTP(t *testing.T) {
	s := newServer(t)
	txID := s.createTransfer(20)

	code, env := s.do(http.MethodPost, "/transfers/"+txID+"/authorize", "user-alice", map[string]string{"pin": "1234"})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = s.do(http.MethodGet, "/notifications/unread-count", "user-bob", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.JSONEq(t, `{"unreadCount":1}`, string(env.Data))

	code, env = s.do(http.MethodPost, "/notifications/read-all", "user-bob", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.JSONEq(t, `{"updated":1}`, string(env.Data))
}

func TestOperatorCannotCompleteUnauthorizedTransfer(t *testing.T) {
	s := newServer(t)
	txID := s.createTransfer(20)

	code, _ := s.admin(http.MethodPost, "/admin/transactions/"+txID+"/status", map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusConflict, code)
	assert.True(t, decimal.NewFromInt(100).Equal(s.store.Balance("acc-alice")))
}
