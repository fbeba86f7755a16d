package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zonewarden/zonewarden/internal/core/domain"
	"github.com/zonewarden/zonewarden/internal/core/ports"
	"github.com/zonewarden/zonewarden/internal/infrastructure/metrics"
)

// InvalidationChannel carries cache invalidation events between nodes.
const InvalidationChannel = "zonewarden:invalidation"

// CachedRepository is a read-through redis cache over a ResourceRepository.
// It caches stored resources only; authorization decisions are always
// recomputed.
type CachedRepository struct {
	ports.ResourceRepository

	client *redis.Client
	ttl    time.Duration
}

// NewCachedRepository wraps inner with a redis cache at addr.
func NewCachedRepository(inner ports.ResourceRepository, addr, password string, db int, ttl time.Duration) *CachedRepository {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &CachedRepository{ResourceRepository: inner, client: rdb, ttl: ttl}
}

func zoneKey(namespace, name string) string   { return "zone:" + namespace + "/" + name }
func recordKey(namespace, name string) string { return "record:" + namespace + "/" + name }

func (c *CachedRepository) GetZone(ctx context.Context, namespace, name string) (*domain.Zone, error) {
	key := zoneKey(namespace, name)
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var zone domain.Zone
		if json.Unmarshal(data, &zone) == nil {
			metrics.CacheOperations.WithLabelValues("hit").Inc()
			return &zone, nil
		}
	}
	metrics.CacheOperations.WithLabelValues("miss").Inc()

	zone, err := c.ResourceRepository.GetZone(ctx, namespace, name)
	if err != nil || zone == nil {
		return zone, err
	}
	if data, errMarshal := json.Marshal(zone); errMarshal == nil {
		c.client.Set(ctx, key, data, c.ttl)
	}
	return zone, nil
}

func (c *CachedRepository) GetRecord(ctx context.Context, namespace, name string) (*domain.Record, error) {
	key := recordKey(namespace, name)
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var record domain.Record
		if json.Unmarshal(data, &record) == nil {
			metrics.CacheOperations.WithLabelValues("hit").Inc()
			return &record, nil
		}
	}
	metrics.CacheOperations.WithLabelValues("miss").Inc()

	record, err := c.ResourceRepository.GetRecord(ctx, namespace, name)
	if err != nil || record == nil {
		return record, err
	}
	if data, errMarshal := json.Marshal(record); errMarshal == nil {
		c.client.Set(ctx, key, data, c.ttl)
	}
	return record, nil
}

func (c *CachedRepository) UpdateZoneStatus(ctx context.Context, uid string, status domain.ZoneStatus) error {
	if err := c.ResourceRepository.UpdateZoneStatus(ctx, uid, status); err != nil {
		return err
	}
	return c.invalidate(ctx, "zone:*")
}

func (c *CachedRepository) DeleteZone(ctx context.Context, uid string) error {
	if err := c.ResourceRepository.DeleteZone(ctx, uid); err != nil {
		return err
	}
	return c.invalidate(ctx, "zone:*")
}

func (c *CachedRepository) UpdateRecordStatus(ctx context.Context, uid string, status domain.RecordStatus) error {
	if err := c.ResourceRepository.UpdateRecordStatus(ctx, uid, status); err != nil {
		return err
	}
	return c.invalidate(ctx, "record:*")
}

func (c *CachedRepository) DeleteRecord(ctx context.Context, uid string) error {
	if err := c.ResourceRepository.DeleteRecord(ctx, uid); err != nil {
		return err
	}
	return c.invalidate(ctx, "record:*")
}

// invalidate drops matching keys locally and notifies the other nodes.
func (c *CachedRepository) invalidate(ctx context.Context, pattern string) error {
	c.dropLocal(ctx, pattern)
	return c.client.Publish(ctx, InvalidationChannel, pattern).Err()
}

func (c *CachedRepository) dropLocal(ctx context.Context, pattern string) {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}

// Subscribe listens for invalidation events published by other nodes and
// applies them until ctx is cancelled.
func (c *CachedRepository) Subscribe(ctx context.Context) {
	pubsub := c.client.Subscribe(ctx, InvalidationChannel)
	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				c.dropLocal(ctx, msg.Payload)
			}
		}
	}()
}

func (c *CachedRepository) PingCache(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
