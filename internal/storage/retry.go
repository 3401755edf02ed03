package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/robalyx/vouchbot/internal/metrics"
	"github.com/robalyx/vouchbot/internal/reputation"
	"github.com/robalyx/vouchbot/internal/setup/config"
	"go.uber.org/zap"
)

// RetryOptions contains configuration for retry behavior.
type RetryOptions struct {
	MaxElapsedTime  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
	// Retryable reports whether an error is worth another attempt.
	// Every error is retried when nil.
	Retryable func(error) bool
}

// RetryOptionsFromConfig converts the retry section of the config.
func RetryOptionsFromConfig(cfg *config.Retry) RetryOptions {
	return RetryOptions{
		MaxElapsedTime:  time.Duration(cfg.MaxElapsed) * time.Millisecond,
		InitialInterval: time.Duration(cfg.Delay) * time.Millisecond,
		MaxInterval:     time.Duration(cfg.MaxDelay) * time.Millisecond,
		MaxRetries:      cfg.MaxRetries,
	}
}

// retryStore retries failed loads and saves with exponential backoff.
type retryStore struct {
	next    reputation.Store
	backend string
	opts    RetryOptions
	logger  *zap.Logger
}

// WithRetry wraps a store so that transient failures are retried.
func WithRetry(next reputation.Store, backend string, opts RetryOptions, logger *zap.Logger) reputation.Store {
	return &retryStore{
		next:    next,
		backend: backend,
		opts:    opts,
		logger:  logger.Named("retry"),
	}
}

func (s *retryStore) Load(ctx context.Context) (*reputation.Snapshot, error) {
	var snapshot *reputation.Snapshot

	err := s.retry(ctx, "load", func() error {
		var err error
		snapshot, err = s.next.Load(ctx)
		return err
	})

	return snapshot, err
}

func (s *retryStore) Save(ctx context.Context, snapshot *reputation.Snapshot) error {
	return s.retry(ctx, "save", func() error {
		return s.next.Save(ctx, snapshot)
	})
}

func (s *retryStore) Close() error {
	return s.next.Close()
}

// retry runs operation until it succeeds, fails permanently or the budget runs out.
func (s *retryStore) retry(ctx context.Context, op string, operation func() error) error {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(s.opts.MaxElapsedTime),
		backoff.WithInitialInterval(s.opts.InitialInterval),
		backoff.WithMaxInterval(s.opts.MaxInterval),
	), s.opts.MaxRetries)

	var (
		attempts int
		lastErr  error
	)

	err := backoff.Retry(func() error {
		attempts++
		if attempts > 1 {
			metrics.StoreRetriesTotal.WithLabelValues(s.backend, op).Inc()
		}

		err := operation()
		if err == nil {
			return nil
		}

		if s.opts.Retryable != nil && !s.opts.Retryable(err) {
			return backoff.Permanent(err)
		}

		lastErr = err
		s.logger.Warn("Store operation failed, retrying",
			zap.String("backend", s.backend),
			zap.String("operation", op),
			zap.Int("attempt", attempts),
			zap.Error(err))

		return err
	}, backoff.WithContext(b, ctx))
	if err == nil {
		return nil
	}

	// A permanent error is returned unwrapped by backoff
	if lastErr != nil && errors.Is(err, lastErr) {
		return fmt.Errorf("%s failed after %d attempts: %w", op, attempts, lastErr)
	}

	return fmt.Errorf("%s failed: %w", op, err)
}
