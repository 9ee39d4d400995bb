package events

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

func TestPublishOrder(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t), nil)
	var trace []string

	record := func(label string, follow ...Event) Handler {
		return func(_ context.Context, e Event) ([]Event, error) {
			trace = append(trace, label)
			return follow, nil
		}
	}

	bus.Subscribe("a", record("a1", Event{Name: "c"}))
	bus.Subscribe("a", record("a2", Event{Name: "d"}))
	bus.Subscribe("b", record("b1"))
	bus.Subscribe("c", record("c1"))
	bus.Subscribe("d", record("d1"))

	if err := bus.Publish(context.Background(), Event{Name: "a"}, Event{Name: "b"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	// Follow-ups queue behind the events already pending.
	want := []string{"a1", "a2", "b1", "c1", "d1"}
	if !slices.Equal(trace, want) {
		t.Errorf("handler order = %v, want %v", trace, want)
	}
}

func TestPublishJoinsHandlerErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCollector("test", reg)
	bus := NewBus(zaptest.NewLogger(t), m)

	errBoom := errors.New("boom")
	ran := false
	bus.Subscribe("x", func(context.Context, Event) ([]Event, error) { return nil, errBoom })
	bus.Subscribe("x", func(context.Context, Event) ([]Event, error) { ran = true; return nil, nil })

	err := bus.Publish(context.Background(), Event{Name: "x"})
	if !errors.Is(err, errBoom) {
		t.Fatalf("Publish() error = %v, want boom", err)
	}
	if !ran {
		t.Error("second handler skipped after first failed")
	}
	if got := testutil.ToFloat64(m.EventHandlerErrors.WithLabelValues("x")); got != 1 {
		t.Errorf("handler error counter = %v, want 1", got)
	}
}

func TestPublishStopsRunawayLoops(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t), nil)
	bus.Subscribe("loop", func(_ context.Context, e Event) ([]Event, error) {
		return []Event{e}, nil
	})

	if err := bus.Publish(context.Background(), Event{Name: "loop"}); !errors.Is(err, ErrEventLoop) {
		t.Errorf("Publish() error = %v, want ErrEventLoop", err)
	}
}
