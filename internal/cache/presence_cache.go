package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PresenceCache tracks which participants are currently checked in to an
// event, as a Redis set. It backs the participants endpoint when the live
// session is not in memory (e.g. before the event opens).
type PresenceCache interface {
	Add(ctx context.Context, eventCode, participantID string) error
	Remove(ctx context.Context, eventCode, participantID string) error
	Count(ctx context.Context, eventCode string) (int64, error)
	Members(ctx context.Context, eventCode string) ([]string, error)
	Clear(ctx context.Context, eventCode string) error
}

type presenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPresenceCache creates a new presence cache
func NewPresenceCache(client *redis.Client) PresenceCache {
	return &presenceCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *presenceCache) key(eventCode string) string {
	return fmt.Sprintf("event:%s:presence", eventCode)
}

func (c *presenceCache) Add(ctx context.Context, eventCode, participantID string) error {
	key := c.key(eventCode)
	if err := c.client.SAdd(ctx, key, participantID).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *presenceCache) Remove(ctx context.Context, eventCode, participantID string) error {
	return c.client.SRem(ctx, c.key(eventCode), participantID).Err()
}

func (c *presenceCache) Count(ctx context.Context, eventCode string) (int64, error) {
	return c.client.SCard(ctx, c.key(eventCode)).Result()
}

func (c *presenceCache) Members(ctx context.Context, eventCode string) ([]string, error) {
	return c.client.SMembers(ctx, c.key(eventCode)).Result()
}

func (c *presenceCache) Clear(ctx context.Context, eventCode string) error {
	return c.client.Del(ctx, c.key(eventCode)).Err()
}
