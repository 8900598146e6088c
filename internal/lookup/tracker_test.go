package lookup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackerSupersedes(t *testing.T) {
	tr := NewTracker(time.Minute)

	first, ctx1 := tr.Begin(context.Background())
	second, ctx2 := tr.Begin(context.Background())

	assert.NotEqual(t, first, second)
	assert.Equal(t, second, tr.Current())
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.NoError(t, ctx2.Err())

	// Finishing a stale lookup leaves the current one alone.
	tr.Finish(first)
	assert.NoError(t, ctx2.Err())

	tr.Finish(second)
	assert.Error(t, ctx2.Err())
}

func TestTrackerTimeout(t *testing.T) {
	tr := NewTracker(20 * time.Millisecond)
	_, ctx := tr.Begin(context.Background())

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("lookup context was not bounded")
	}
}

func TestTrackerCancel(t *testing.T) {
	tr := NewTracker(0)
	_, ctx := tr.Begin(context.Background())
	tr.Cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	tr.Cancel()
}
