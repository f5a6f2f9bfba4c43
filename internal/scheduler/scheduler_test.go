package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCampaigns struct {
	due     atomic.Int32
	stalled atomic.Int32
	err     error
}

func (f *fakeCampaigns) SendDue(context.Context) (int, error) {
	f.due.Add(1)
	return 1, f.err
}

func (f *fakeCampaigns) ResumeStalled(context.Context) (int, error) {
	f.stalled.Add(1)
	return 0, f.err
}

func TestRunOnceCallsBothSweeps(t *testing.T) {
	f := &fakeCampaigns{}
	s := NewScheduler("@every 1h", f, logger.Discard())

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), f.due.Load())
	assert.Equal(t, int32(1), f.stalled.Load())

	f.err = errors.New("db down")
	s.RunOnce(context.Background())
	assert.Equal(t, int32(2), f.due.Load())
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler("every minute please", &fakeCampaigns{}, logger.Discard())
	assert.Error(t, s.Start())
}

func TestStartRunsOnSchedule(t *testing.T) {
	f := &fakeCampaigns{}
	s := NewScheduler("@every 1s", f, logger.Discard())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return f.due.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
