package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/shelf/pkg/adapters/memory"
	"github.com/aretw0/shelf/pkg/core"
	"github.com/aretw0/shelf/pkg/core/coretest"
)

func TestStoreContract(t *testing.T) {
	coretest.Run(t, func(t *testing.T) core.Medium { return memory.New() })
}

func TestFaultInjection(t *testing.T) {
	ctx := context.Background()
	m := memory.New()
	boom := errors.New("boom")

	m.Fail("set", boom)
	if err := m.Set(ctx, "k", "v"); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if m.Writes() != 0 {
		t.Errorf("failed writes must not count, got %d", m.Writes())
	}

	m.Fail("set", nil)
	if err := m.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set failed after clearing fault: %v", err)
	}
	if v, ok, _ := m.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("expected stored value, got %q (%v)", v, ok)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := memory.New().Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestState(t *testing.T) {
	ctx := context.Background()
	m := memory.New()
	_ = m.Set(ctx, "a", "1")
	_ = m.Set(ctx, "b", "2")
	_ = m.Remove(ctx, "a")

	state := m.State().(memory.MediumState)
	if state.Keys != 1 || state.Writes != 2 {
		t.Errorf("unexpected state %+v", state)
	}
}
