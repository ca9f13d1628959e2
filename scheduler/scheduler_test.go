package scheduler

import (
	"context"
	"io"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"frtutracker/logger"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.SetOutput(logger.ERROR, io.Discard)
	os.Exit(m.Run())
}

type countingDirectory struct {
	calls atomic.Int32
}

func (c *countingDirectory) Resolve(context.Context) []string {
	c.calls.Add(1)
	return []string{"a"}
}

func TestStartSchedulerRefreshesUntilCancelled(t *testing.T) {
	dir := &countingDirectory{}
	ctx, cancel := context.WithCancel(context.Background())

	done := StartScheduler(ctx, 10*time.Millisecond, dir)
	assert.Equal(t, int32(1), dir.calls.Load(), "runs once immediately")

	assert.Eventually(t, func() bool { return dir.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	stopped := dir.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, dir.calls.Load())
}
