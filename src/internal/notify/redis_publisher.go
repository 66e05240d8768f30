package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultChannelPrefix = "paylio:notifications"
	recentLimit          = 100
)

// RedisPublisher publishes each notification on "<prefix>:<userID>" and
// keeps the most recent ones in a list under the same key.
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

type notificationPayload struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	TransactionID *string   `json:"transactionId,omitempty"`
	IsRead        bool      `json:"isRead"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

func (p *RedisPublisher) Channel(userID string) string {
	return fmt.Sprintf("%s:%s", p.prefix, userID)
}

func (p *RedisPublisher) Publish(ctx context.Context, n domain.Notification) error {
	data, err := json.Marshal(notificationPayload{
		ID:            n.ID,
		UserID:        n.UserID,
		Type:          string(n.Type),
		Amount:        n.Amount.StringFixed(2),
		TransactionID: n.TransactionID,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	key := p.Channel(n.UserID)
	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, recentLimit-1)
		pipe.Publish(ctx, key, data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// recent returns the raw payloads kept for userID, newest first.
func (p *RedisPublisher) recent(ctx context.Context, userID string, limit int64) ([]string, error) {
	if limit <= 0 || limit > recentLimit {
		limit = recentLimit
	}
	return p.client.LRange(ctx, p.Channel(userID), 0, limit-1).Result()
}
