package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhnghia2k3/lumigram/pkg/logger"
)

func fastConfig() Config {
	return Config{
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      1.5,
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	log := logger.New(logger.Opts{Env: "test"})
	attempts := 0

	err := Do(context.Background(), log, "flaky", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastConfig())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	log := logger.New(logger.Opts{Env: "test"})
	attempts := 0

	err := Do(context.Background(), log, "always-failing", func() error {
		attempts++
		return errors.New("transient")
	}, fastConfig())

	require.Error(t, err)
	assert.Equal(t, 4, attempts, "initial attempt plus three retries")
}

func TestDoStopsOnPermanentError(t *testing.T) {
	log := logger.New(logger.Opts{Env: "test"})
	attempts := 0
	permanent := errors.New("bad request")

	err := Do(context.Background(), log, "permanent", func() error {
		attempts++
		return backoff.Permanent(permanent)
	}, fastConfig())

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	log := logger.New(logger.Opts{Env: "test"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, log, "cancelled", func() error {
		return errors.New("transient")
	}, fastConfig())

	require.Error(t, err)
}
