package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRejectsInvalidSpec(t *testing.T) {
	s := New(nil)
	err := s.Add("not a cron spec", "bad", func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestJobRuns(t *testing.T) {
	s := New(nil)
	var runs atomic.Int32

	require.NoError(t, s.Add("@every 10ms", "tick", func() error {
		runs.Add(1)
		return nil
	}))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 },
		2*time.Second, 10*time.Millisecond)
}

func TestJobPanicIsContained(t *testing.T) {
	s := New(nil)
	var after atomic.Bool

	require.NoError(t, s.Add("@every 10ms", "boom", func() error {
		if !after.Load() {
			after.Store(true)
			panic("boom")
		}
		return nil
	}))
	require.NoError(t, s.Add("@every 10ms", "fails", func() error {
		return errors.New("transient")
	}))
	s.Start()
	defer s.Stop()

	// The scheduler keeps running after a panicking and a failing job.
	assert.Eventually(t, after.Load, 2*time.Second, 10*time.Millisecond)
}
