package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"cambliss-news-backend/internal/domain"
	"cambliss-news-backend/internal/domain/model"
	"cambliss-news-backend/internal/domain/ports/repository"
)

// Ensure OrderStore implements the port
var _ repository.OrderStore = (*OrderStore)(nil)

// OrderStore keeps outstanding checkout orders in Redis under a TTL.
// Consume is a single atomic GET+DEL, so a verification callback can only
// ever redeem an order once, whichever replica it lands on.
type OrderStore struct {
	cli *redis.Client
}

func NewOrderStore(c *Client) *OrderStore {
	return &OrderStore{cli: c.cli}
}

func orderKey(orderID string) string { return "order:" + orderID }

func (s *OrderStore) Put(ctx context.Context, order *model.Order, ttl time.Duration) error {
	if order == nil || order.ID == "" {
		return domain.ErrInvalidArgument
	}
	b, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cli.Set(ctx, orderKey(order.ID), b, ttl).Err()
}

var luaConsume = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if v then
	redis.call("DEL", KEYS[1])
end
return v`)

func (s *OrderStore) Consume(ctx context.Context, orderID string) (*model.Order, error) {
	v, err := luaConsume.Run(ctx, s.cli, []string{orderKey(orderID)}).Result()
	if err == redis.Nil || v == nil {
		return nil, domain.ErrOrderNotOutstanding
	}
	if err != nil {
		return nil, err
	}
	raw, ok := v.(string)
	if !ok {
		return nil, domain.ErrOrderNotOutstanding
	}
	var order model.Order
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return nil, err
	}
	return &order, nil
}
