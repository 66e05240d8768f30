package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/paylio-ledger/src/internal/config"
	"github.com/api-sage/paylio-ledger/src/internal/guard"
	"github.com/api-sage/paylio-ledger/src/internal/ledger"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
	"github.com/api-sage/paylio-ledger/src/internal/notify"
	"github.com/api-sage/paylio-ledger/src/internal/usecase/services"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("paylio ledger: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	notifier, closeNotifier := newNotifier(ctx, cfg)
	defer closeNotifier()

	dispatcher := notify.NewDispatcher(notify.DispatcherConfig{
		QueueSize: cfg.DispatchQueueSize,
		Workers:   cfg.DispatchWorkers,
		Operators: cfg.AdminEmails,
	}, notifier, newMailer(cfg), st.users)

	pinGuard := guard.New(
		guard.WithMaxAttempts(cfg.PinMaxAttempts),
		guard.WithLockoutDuration(cfg.PinLockout),
	)
	engine := ledger.NewEngine(st.uow, pinGuard, ledger.WithDispatcher(dispatcher))

	customer := []router.RouteRegistrar{
		controller.NewTransferController(services.NewTransferService(engine, st.accounts, st.users, st.entries, st.beneficiaries)),
		controller.NewDepositController(services.NewDepositService(engine, st.accounts, st.entries)),
		controller.NewWithdrawalController(services.NewWithdrawalService(engine, st.accounts, st.entries)),
		controller.NewPaymentRequestController(services.NewPaymentRequestService(engine, st.accounts, st.entries)),
		controller.NewAccountController(services.NewAccountService(engine, pinGuard, st.accounts, st.users, st.freezes, st.banks)),
		controller.NewHistoryController(
			services.NewTransactionService(st.entries),
			services.NewBeneficiaryService(st.beneficiaries),
			services.NewNotificationService(st.notifications),
		),
	}
	operator := []router.RouteRegistrar{
		controller.NewOperatorController(services.NewOperatorService(engine, st.accounts, st.entries, st.freezes)),
	}

	mux := router.New(
		customer,
		operator,
		middleware.Chain(middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey), middleware.RequireUser),
		middleware.BasicAuth(cfg.OperatorID, cfg.OperatorKey),
	)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return dispatcher.Run(groupCtx)
	})
	group.Go(func() error {
		logger.Info("http server listening", logger.Fields{"addr": cfg.HTTPAddr, "store": cfg.Store})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("http server shutting down", nil)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
