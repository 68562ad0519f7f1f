package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestRunAppStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- runApp(ctx, fx.Options(fx.NopLogger))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runApp did not return after context cancellation")
	}
}

func TestRootCommandLayout(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "start")
	assert.Contains(t, names, "worker")
	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "seed")
}
