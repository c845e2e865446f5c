package cli

import (
	"context"
	"testing"
)

func TestSetupSignalHandler(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SetupSignalHandler(parent)
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("context done before any signal")
	default:
	}

	cancel()
	<-ctx.Done()
	if ctx.Err() == nil {
		t.Error("ctx.Err() = nil after parent cancel")
	}
}

func TestSetupSignalHandlerStop(t *testing.T) {
	ctx, stop := SetupSignalHandler(context.Background())
	stop()
	<-ctx.Done()
}
