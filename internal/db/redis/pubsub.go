package redis

import (
	"context"
	"errors"

	"github.com/redis/rueidis"

	"github.com/EashcodeX/itglue-clone-sub001/internal/db"
)

// Publish sends a message to every subscriber of channel.
func (s *Store) Publish(ctx context.Context, channel, message string) error {
	cmd := s.b().Publish().Channel(channel).Message(message).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpPublish, Err: err}
	}
	return nil
}

// Subscribe blocks delivering channel messages to fn until ctx is cancelled
// or the connection drops. Cancellation is not an error.
func (s *Store) Subscribe(ctx context.Context, channel string, fn func(message string)) error {
	cmd := s.b().Subscribe().Channel(channel).Build()
	err := s.client.Receive(ctx, cmd, func(msg rueidis.PubSubMessage) {
		fn(msg.Message)
	})
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return &db.Error{Op: db.OpSubscribe, Err: err}
}
