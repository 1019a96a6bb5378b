package cache

import (
	"context"
	"encoding/json"
	"time"

	"campus-booking/internal/pkg/config"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no entry exists for the key. Callers fall
// through to the database.
var ErrCacheMiss = errs.New("cache miss")

func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errs.Wrap(err, "failed to connect to redis")
	}
	return client, nil
}

// AvailabilityCache holds the public approved-booking feed per facility and
// day. TTL is short; the feed changes whenever a booking is decided, and the
// poll interval tolerates a stale entry for one cycle.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, cfg config.RedisConfig) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: cfg.CacheTTL}
}

func feedKey(facilityID uuid.UUID, day time.Time) string {
	return "availability:" + facilityID.String() + ":" + day.Format("2006-01-02")
}

func (c *AvailabilityCache) GetFeed(ctx context.Context, facilityID uuid.UUID, day time.Time) ([]*readmodel.BookingFeedRM, error) {
	raw, err := c.client.Get(ctx, feedKey(facilityID, day)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errs.Wrap(err, "failed to read availability cache")
	}

	var feed []*readmodel.BookingFeedRM
	if err := json.Unmarshal(raw, &feed); err != nil {
		return nil, errs.Wrap(err, "corrupt availability cache entry")
	}
	return feed, nil
}

func (c *AvailabilityCache) SetFeed(ctx context.Context, facilityID uuid.UUID, day time.Time, feed []*readmodel.BookingFeedRM) error {
	raw, err := json.Marshal(feed)
	if err != nil {
		return errs.Wrap(err, "failed to encode availability feed")
	}
	if err := c.client.Set(ctx, feedKey(facilityID, day), raw, c.ttl).Err(); err != nil {
		return errs.Wrap(err, "failed to write availability cache")
	}
	return nil
}

// Invalidate drops the cached feed for a facility/day after a booking on it
// changes state.
func (c *AvailabilityCache) Invalidate(ctx context.Context, facilityID uuid.UUID, day time.Time) error {
	if err := c.client.Del(ctx, feedKey(facilityID, day)).Err(); err != nil {
		return errs.Wrap(err, "failed to invalidate availability cache")
	}
	return nil
}
