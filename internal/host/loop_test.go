package host

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoop_FIFO(t *testing.T) {
	l := NewLoop(discardLogger())
	var got []string
	l.Post(func() { got = append(got, "a") })
	l.Post(func() { got = append(got, "b") })

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 2, l.Drain())
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 0, l.Len())
}

func TestLoop_DrainRunsNestedPosts(t *testing.T) {
	l := NewLoop(discardLogger())
	var got []string
	l.Post(func() {
		got = append(got, "outer")
		l.Post(func() { got = append(got, "inner") })
	})
	l.Post(func() { got = append(got, "second") })

	assert.Equal(t, 3, l.Drain())
	assert.Equal(t, []string{"outer", "second", "inner"}, got)
}

func TestLoop_PanicDoesNotStopLoop(t *testing.T) {
	l := NewLoop(discardLogger())
	ran := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })

	l.Drain()
	assert.True(t, ran)
}

func TestLoop_RunOneEmpty(t *testing.T) {
	l := NewLoop(discardLogger())
	assert.False(t, l.RunOne())
}

func TestLoop_PostAfterClose(t *testing.T) {
	l := NewLoop(discardLogger())
	l.Close()
	l.Close()
	assert.False(t, l.Post(func() {}))
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	l := NewLoop(discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	ran := make(chan struct{})
	l.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLoop_RunReturnsWhenClosedAndEmpty(t *testing.T) {
	l := NewLoop(discardLogger())
	count := 0
	l.Post(func() { count++ })
	l.Close()

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, 1, count)
}
