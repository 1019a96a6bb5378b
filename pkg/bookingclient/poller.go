package bookingclient

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPollInterval matches the dashboard refresh cadence.
const DefaultPollInterval = 30 * time.Second

const feedKey = "feed"

// Poller refetches the booking feed at a fixed interval and hands each fresh
// snapshot to onUpdate. Responses are routed through a sequenced cache, so a
// poll that lost the race against a newer one (including a forced Refresh) is
// dropped instead of rolling the feed backwards.
type Poller struct {
	client   *Client
	cache    *SequencedCache[[]FeedEntry]
	interval time.Duration
	onUpdate func([]FeedEntry)
	logger   *slog.Logger
}

func NewPoller(client *Client, interval time.Duration, onUpdate func([]FeedEntry), logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		client:   client,
		cache:    NewSequencedCache[[]FeedEntry](),
		interval: interval,
		onUpdate: onUpdate,
		logger:   logger,
	}
}

// Run polls immediately and then once per interval until the context is
// cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh fetches the feed once, out of band. Mutation callers use it to pull
// the authoritative state right after a create or cancel instead of waiting
// for the next tick.
func (p *Poller) Refresh(ctx context.Context) {
	seq := p.cache.Begin(feedKey)

	entries, err := p.client.Feed(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("予約フィードの取得に失敗しました", "error", err)
		return
	}

	if p.cache.Commit(feedKey, seq, entries) && p.onUpdate != nil {
		p.onUpdate(entries)
	}
}

// Snapshot returns the last committed feed.
func (p *Poller) Snapshot() ([]FeedEntry, bool) {
	return p.cache.Get(feedKey)
}
