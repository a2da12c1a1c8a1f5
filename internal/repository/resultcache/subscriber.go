package resultcache

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const defaultResubscribeDelay = time.Second

// subscriber is the consumer side of the invalidation channel.
type subscriber interface {
	Subscribe(ctx context.Context, channel string, fn func(message string)) error
}

// Subscriber applies invalidations broadcast by peers to the local tier.
type Subscriber struct {
	local         *Memory
	sub           subscriber
	channel       string
	retryDelay    time.Duration
	invalidations *prometheus.CounterVec
	logger        *zap.Logger
}

// NewSubscriber creates a listener for channel.
// invalidations is a counter vec labelled (origin); it may be nil.
func NewSubscriber(
	local *Memory,
	sub subscriber,
	channel string,
	invalidations *prometheus.CounterVec,
	logger *zap.Logger,
) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{
		local:         local,
		sub:           sub,
		channel:       channel,
		retryDelay:    defaultResubscribeDelay,
		invalidations: invalidations,
		logger:        logger,
	}
}

// Run listens until ctx is done, resubscribing after connection failures.
func (s *Subscriber) Run(ctx context.Context) error {
	for {
		err := s.sub.Subscribe(ctx, s.channel, func(msg string) { s.handle(ctx, msg) })
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			s.logger.Warn("Invalidation subscription dropped", zap.String("channel", s.channel), zap.Error(err))
		}

		t := time.NewTimer(s.retryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, msg string) {
	switch {
	case msg == msgFlush:
		_ = s.local.Flush(ctx)
	case strings.HasPrefix(msg, msgOrgPrefix) && len(msg) > len(msgOrgPrefix):
		_ = s.local.InvalidateOrganization(ctx, strings.TrimPrefix(msg, msgOrgPrefix))
	default:
		s.logger.Debug("Ignoring unknown invalidation message", zap.String("message", msg))
		return
	}
	if s.invalidations != nil {
		s.invalidations.WithLabelValues("broadcast").Inc()
	}
}
