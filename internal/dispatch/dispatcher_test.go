package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"ceresmaint/internal/dispatch"
	"ceresmaint/internal/logging"
)

func TestDispatchInvokesHandlersInRegistrationOrder(t *testing.T) {
	d := dispatch.New(logging.NewNop())

	var calls []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		d.AddHandler(dispatch.DirectoryFound, name, func(ctx context.Context, p dispatch.Payload) error {
			calls = append(calls, name)
			return nil
		})
	}

	failures := d.Dispatch(context.Background(), dispatch.DirectoryFound, dispatch.Payload{Path: "/tmp/x"})
	if failures != 0 {
		t.Fatalf("unexpected failures: %d", failures)
	}
	if len(calls) != 3 || calls[0] != "first" || calls[1] != "second" || calls[2] != "third" {
		t.Fatalf("unexpected call order: %v", calls)
	}
}

func TestDispatchIsolatesFailingHandlers(t *testing.T) {
	d := dispatch.New(logging.NewNop())

	var calls []string
	d.AddHandler(dispatch.NodeFound, "errors", func(ctx context.Context, p dispatch.Payload) error {
		calls = append(calls, "errors")
		return errors.New("boom")
	})
	d.AddHandler(dispatch.NodeFound, "panics", func(ctx context.Context, p dispatch.Payload) error {
		calls = append(calls, "panics")
		panic("handler exploded")
	})
	d.AddHandler(dispatch.NodeFound, "survivor", func(ctx context.Context, p dispatch.Payload) error {
		calls = append(calls, "survivor")
		return nil
	})

	failures := d.Dispatch(context.Background(), dispatch.NodeFound, dispatch.Payload{})
	if failures != 2 {
		t.Fatalf("expected 2 failures, got %d", failures)
	}
	if len(calls) != 3 || calls[2] != "survivor" {
		t.Fatalf("later handlers must still run: %v", calls)
	}
}

func TestDispatchScopesHandlersToTheirEvent(t *testing.T) {
	d := dispatch.New(logging.NewNop())

	ran := false
	d.AddHandler(dispatch.DirectoryEmpty, "only-empty", func(ctx context.Context, p dispatch.Payload) error {
		ran = true
		return nil
	})

	d.Dispatch(context.Background(), dispatch.DirectoryFound, dispatch.Payload{Path: "/tmp/y"})
	if ran {
		t.Fatal("directory_found dispatch must not hit directory_empty handlers")
	}
	if got := d.HandlerCount(dispatch.DirectoryEmpty); got != 1 {
		t.Fatalf("unexpected handler count: %d", got)
	}
}

func TestAddHandlerRetainsDuplicatesAcrossPlugins(t *testing.T) {
	d := dispatch.New(logging.NewNop())

	count := 0
	fn := func(ctx context.Context, p dispatch.Payload) error {
		count++
		return nil
	}
	d.AddHandler(dispatch.MaintenanceStart, "a", fn)
	d.AddHandler(dispatch.MaintenanceStart, "b", fn)

	d.Dispatch(context.Background(), dispatch.MaintenanceStart, dispatch.Payload{})
	if count != 2 {
		t.Fatalf("both handlers must run, got %d calls", count)
	}
}

func TestAddHandlerIgnoresNil(t *testing.T) {
	d := dispatch.New(logging.NewNop())
	d.AddHandler(dispatch.NodeFound, "nil", nil)
	if got := d.HandlerCount(dispatch.NodeFound); got != 0 {
		t.Fatalf("nil handler must not register, got count %d", got)
	}
}
