package component

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

// stubComponent records lifecycle calls into a shared log.
type stubComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	calls    *[]string
	deadline *time.Time
}

func (s *stubComponent) Name() string { return s.name }

func (s *stubComponent) Start(context.Context) error {
	if s.calls != nil {
		*s.calls = append(*s.calls, "start:"+s.name)
	}
	return s.startErr
}

func (s *stubComponent) Stop(ctx context.Context) error {
	if s.calls != nil {
		*s.calls = append(*s.calls, "stop:"+s.name)
	}
	if s.deadline != nil {
		*s.deadline, _ = ctx.Deadline()
	}
	return s.stopErr
}

func (s *stubComponent) Health(context.Context) Health { return s.health }

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubComponent{name: "http"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&stubComponent{name: "http"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGetAndAll(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&stubComponent{name: "telemetry"})
	_ = r.Register(&stubComponent{name: "http"})

	if got := r.Get("http"); got == nil || got.Name() != "http" {
		t.Fatalf("expected http component, got %v", got)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown component")
	}

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	if !slices.Equal(names, []string{"telemetry", "http"}) {
		t.Errorf("expected registration order, got %v", names)
	}
}

func TestStartAllThenStopAllOrder(t *testing.T) {
	var calls []string
	r := NewRegistry()
	_ = r.Register(&stubComponent{name: "a", calls: &calls})
	_ = r.Register(&stubComponent{name: "b", calls: &calls})
	_ = r.Register(&stubComponent{name: "c", calls: &calls})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	want := []string{"start:a", "start:b", "start:c", "stop:c", "stop:b", "stop:a"}
	if !slices.Equal(calls, want) {
		t.Errorf("expected %v, got %v", want, calls)
	}
}

func TestStartAllSkipsStartedComponents(t *testing.T) {
	var calls []string
	r := NewRegistry()
	_ = r.Register(&stubComponent{name: "a", calls: &calls})
	_ = r.StartAll(context.Background())
	_ = r.Register(&stubComponent{name: "b", calls: &calls})
	_ = r.StartAll(context.Background())

	if !slices.Equal(calls, []string{"start:a", "start:b"}) {
		t.Errorf("expected each component started once, got %v", calls)
	}
}

func TestStartAllStopsAtFirstFailure(t *testing.T) {
	var calls []string
	boom := errors.New("port in use")
	r := NewRegistry()
	_ = r.Register(&stubComponent{name: "a", calls: &calls})
	_ = r.Register(&stubComponent{name: "b", calls: &calls, startErr: boom})
	_ = r.Register(&stubComponent{name: "c", calls: &calls})

	err := r.StartAll(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped start error, got %v", err)
	}

	calls = calls[:0]
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if !slices.Equal(calls, []string{"stop:a"}) {
		t.Errorf("expected only the started component to stop, got %v", calls)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	r := NewRegistry()
	_ = r.Register(&stubComponent{name: "a", stopErr: errA})
	_ = r.Register(&stubComponent{name: "b", stopErr: errB})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both stop errors, got %v", err)
	}
}

func TestStopAllAppliesTimeout(t *testing.T) {
	var deadline time.Time
	r := NewRegistry()
	r.SetStopTimeout(2 * time.Second)
	_ = r.Register(&stubComponent{name: "http", deadline: &deadline})
	_ = r.StartAll(context.Background())

	before := time.Now()
	_ = r.StopAll(context.Background())
	if deadline.IsZero() {
		t.Fatal("expected stop context to carry a deadline")
	}
	if deadline.Sub(before) > 3*time.Second {
		t.Errorf("expected deadline within the configured timeout, got %v", deadline.Sub(before))
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&stubComponent{name: "http", health: Health{Name: "http", Status: StatusHealthy}})
	_ = r.Register(&stubComponent{name: "telemetry", health: Health{Name: "telemetry", Status: StatusDegraded, Message: "exporter unreachable"}})

	got := r.HealthAll(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[1].Status != StatusDegraded || got[1].Message != "exporter unreachable" {
		t.Errorf("unexpected health: %+v", got[1])
	}
}
