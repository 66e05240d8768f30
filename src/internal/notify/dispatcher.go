// Package notify delivers committed notifications and outbound e-mail
// outside of any ledger transaction. Delivery is best effort: failures are
// logged and never reach the caller.
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultQueueSize    = 256
	DefaultWorkers      = 4
	defaultDeliveryTime = 10 * time.Second
)

// Notifier pushes a persisted notification to the user's realtime channel.
type Notifier interface {
	Publish(ctx context.Context, notification domain.Notification) error
}

// Mailer sends one e-mail to a list of addresses.
type Mailer interface {
	SendMessage(ctx context.Context, recipients []string, subject string, body string) error
}

type DispatcherConfig struct {
	QueueSize int
	Workers   int
	// Operators receive every message flagged ToOperators.
	Operators []string
}

type job struct {
	notifications []domain.Notification
	messages      []domain.Message
}

type Dispatcher struct {
	queue     chan job
	workers   int
	operators []string
	notifier  Notifier
	mailer    Mailer
	users     domain.UserRepository
}

func NewDispatcher(cfg DispatcherConfig, notifier Notifier, mailer Mailer, users domain.UserRepository) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	return &Dispatcher{
		queue:     make(chan job, cfg.QueueSize),
		workers:   cfg.Workers,
		operators: cfg.Operators,
		notifier:  notifier,
		mailer:    mailer,
		users:     users,
	}
}

// Dispatch enqueues without blocking. A full queue drops the job.
func (d *Dispatcher) Dispatch(_ context.Context, notifications []domain.Notification, messages []domain.Message) {
	select {
	case d.queue <- job{notifications: notifications, messages: messages}:
	default:
		logger.Warn("notify dispatcher queue full, dropping job", logger.Fields{
			"notifications": len(notifications),
			"messages":      len(messages),
		})
	}
}

// Run starts the workers and blocks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			d.work(ctx)
			return nil
		})
	}
	return g.Wait()
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-d.queue:
			d.deliver(ctx, j)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, j job) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultDeliveryTime)
	defer cancel()

	if d.notifier != nil {
		for _, n := range j.notifications {
			if err := d.notifier.Publish(ctx, n); err != nil {
				logger.Error("notify publish failed", err, logger.Fields{
					"notificationId": n.ID,
					"userId":         n.UserID,
					"type":           n.Type,
				})
			}
		}
	}

	if d.mailer == nil {
		return
	}
	for _, m := range j.messages {
		recipients := d.recipients(ctx, m)
		if len(recipients) == 0 {
			logger.Warn("notify message has no recipients", logger.Fields{"subject": m.Subject})
			continue
		}
		if err := d.mailer.SendMessage(ctx, recipients, m.Subject, m.Body); err != nil {
			logger.Error("notify send message failed", err, logger.Fields{
				"subject":    m.Subject,
				"recipients": len(recipients),
			})
		}
	}
}

func (d *Dispatcher) recipients(ctx context.Context, m domain.Message) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(m.UserIDs)+len(d.operators))
	add := func(address string) {
		address = strings.TrimSpace(address)
		if address == "" {
			return
		}
		key := strings.ToLower(address)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, address)
	}

	for _, userID := range m.UserIDs {
		if userID == "" || d.users == nil {
			continue
		}
		user, err := d.users.GetByID(ctx, userID)
		if err != nil {
			logger.Error("notify resolve recipient failed", err, logger.Fields{"userId": userID})
			continue
		}
		add(user.Email)
	}
	if m.ToOperators {
		for _, address := range d.operators {
			add(address)
		}
	}
	return out
}
