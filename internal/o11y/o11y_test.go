package o11y

import (
	"context"
	"testing"
)

func TestSetup_CleanupRunsAfterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	obs, cleanup, err := Setup(ctx, "")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if obs.Logger == nil || obs.Tracer == nil || obs.Registry == nil {
		t.Fatal("setup returned incomplete handles")
	}

	// The signal context is canceled before the deferred cleanup fires in
	// main; cleanup must still complete on its own deadline.
	cancel()
	cleanup()
}

func TestForTesting(t *testing.T) {
	obs := ForTesting()
	if obs.Logger == nil || obs.Registry == nil {
		t.Fatal("expected usable test handles")
	}
	obs.Logger.Info("discarded")
}
