package main

import (
	"context"
	"fmt"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/paylio-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/paylio-ledger/src/internal/config"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/guard"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
	"github.com/api-sage/paylio-ledger/src/internal/notify"
	"github.com/redis/go-redis/v9"
	"github.com/resend/resend-go/v2"
	"github.com/shopspring/decimal"
)

type stores struct {
	uow           domain.UnitOfWork
	accounts      domain.AccountRepository
	entries       domain.EntryRepository
	freezes       domain.FreezeRepository
	notifications domain.NotificationRepository
	beneficiaries domain.BeneficiaryRepository
	users         domain.UserRepository
	banks         domain.BankDirectory
}

func openStores(ctx context.Context, cfg config.Config) (stores, func(), error) {
	if cfg.Store == config.StoreMemory {
		store := memory.NewStore()
		if err := seedDemo(store); err != nil {
			return stores{}, nil, fmt.Errorf("seed memory store: %w", err)
		}
		logger.Warn("using in-memory ledger store, data is lost on restart", nil)
		return stores{
			uow:           store,
			accounts:      store.Accounts(),
			entries:       store.Entries(),
			freezes:       store.Freezes(),
			notifications: store.Notifications(),
			beneficiaries: store.Beneficiaries(),
			users:         store.Users(),
			banks:         memory.NewBankDirectory(),
		}, func() {}, nil
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := postgres.Open(migrateCtx, cfg.DatabaseDSN, postgres.Pool{
		MaxOpen: cfg.DBMaxOpenConns,
		MaxIdle: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return stores{}, nil, fmt.Errorf("open database: %w", err)
	}
	if err := postgres.RunMigrations(migrateCtx, db, cfg.MigrationsDir); err != nil {
		_ = db.Close()
		return stores{}, nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("initial migrations completed successfully", nil)

	return stores{
		uow:           postgres.NewUnitOfWork(db),
		accounts:      postgres.NewAccountRepository(db),
		entries:       postgres.NewEntryRepository(db),
		freezes:       postgres.NewFreezeRepository(db),
		notifications: postgres.NewNotificationRepository(db),
		beneficiaries: postgres.NewBeneficiaryRepository(db),
		users:         postgres.NewUserRepository(db),
		banks:         memory.NewBankDirectory(),
	}, func() { _ = db.Close() }, nil
}

func newNotifier(ctx context.Context, cfg config.Config) (notify.Notifier, func()) {
	if cfg.RedisAddr == "" {
		return notify.LogNotifier{}, func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("redis ping failed, realtime publishes fail until it is reachable", err, logger.Fields{
			"addr": cfg.RedisAddr,
		})
	}

	return notify.NewRedisPublisher(client, cfg.RedisChannelPrefix), func() { _ = client.Close() }
}

func newMailer(cfg config.Config) notify.Mailer {
	if cfg.ResendAPIKey == "" {
		return notify.LogMailer{}
	}
	return notify.NewResendMailer(resend.NewClient(cfg.ResendAPIKey), cfg.DefaultFromEmail)
}

// seedDemo gives a memory-backed server two funded accounts with PIN 1234.
func seedDemo(store *memory.Store) error {
	hash, err := guard.HashPin("1234")
	if err != nil {
		return err
	}

	demo := []struct {
		user          domain.User
		accountNumber string
	}{
		{domain.User{ID: "demo-alice", Username: "alice", FullName: "Alice Demo", Email: "alice@paylio.test"}, "2000000001"},
		{domain.User{ID: "demo-bob", Username: "bob", FullName: "Bob Demo", Email: "bob@paylio.test"}, "2000000002"},
	}
	for _, d := range demo {
		store.AddUser(d.user)
		if err := store.AddAccount(domain.Account{
			ID:            "acc-" + d.user.ID,
			UserID:        d.user.ID,
			AccountNumber: d.accountNumber,
			Balance:       decimal.NewFromInt(1000),
			PinHash:       hash,
			KYCConfirmed:  true,
		}); err != nil {
			return err
		}
	}
	return nil
}
