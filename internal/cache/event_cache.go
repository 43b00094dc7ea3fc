package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sparkmatch/internal/model"
)

// EventCache handles Redis operations for event state
type EventCache interface {
	SetMeta(ctx context.Context, code string, meta *model.EventMeta) error
	GetMeta(ctx context.Context, code string) (*model.EventMeta, error)
	SetStatus(ctx context.Context, code string, status model.EventStatus) error
	Delete(ctx context.Context, code string) error
	Exists(ctx context.Context, code string) (bool, error)
}

type eventCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventCache creates a new event cache
func NewEventCache(client *redis.Client) EventCache {
	return &eventCache{
		client: client,
		ttl:    24 * time.Hour, // events expire after 24h
	}
}

func (c *eventCache) key(code string) string {
	return fmt.Sprintf("event:%s", code)
}

func (c *eventCache) SetMeta(ctx context.Context, code string, meta *model.EventMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(code), data, c.ttl).Err()
}

func (c *eventCache) GetMeta(ctx context.Context, code string) (*model.EventMeta, error) {
	data, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta model.EventMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *eventCache) SetStatus(ctx context.Context, code string, status model.EventStatus) error {
	meta, err := c.GetMeta(ctx, code)
	if err != nil {
		return err
	}
	if meta == nil {
		return fmt.Errorf("event %s not found", code)
	}
	meta.Status = status
	return c.SetMeta(ctx, code, meta)
}

func (c *eventCache) Delete(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}

func (c *eventCache) Exists(ctx context.Context, code string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(code)).Result()
	return n > 0, err
}
