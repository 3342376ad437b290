package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"solvextra/internal/engine"
)

// AuditSessionCache holds in-progress audit sessions in Redis. Each session
// lives under its own key and is owned by the one auditor conducting that
// audit, so there is no cross-session sharing to coordinate.
type AuditSessionCache interface {
	Set(ctx context.Context, session *engine.Session) error
	Get(ctx context.Context, id string) (*engine.Session, error)
	Delete(ctx context.Context, id string) error
}

type auditSessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAuditSessionCache creates a new audit session cache
func NewAuditSessionCache(client *redis.Client) AuditSessionCache {
	return &auditSessionCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *auditSessionCache) key(id string) string {
	return "audit:session:" + id
}

func (c *auditSessionCache) Set(ctx context.Context, session *engine.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.ID), data, c.ttl).Err()
}

func (c *auditSessionCache) Get(ctx context.Context, id string) (*engine.Session, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session engine.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *auditSessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
