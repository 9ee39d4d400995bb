package kv

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

type instrumented struct {
	next    Store
	driver  string
	metrics *metrics.Collector
}

// Instrument records per-operation latency of s under the given driver label.
func Instrument(s Store, driver string, m *metrics.Collector) Store {
	if m == nil {
		return s
	}
	return &instrumented{next: s, driver: driver, metrics: m}
}

func (i *instrumented) observe(op string, start time.Time) {
	i.metrics.KVOpDuration.WithLabelValues(i.driver, op).Observe(time.Since(start).Seconds())
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	defer i.observe("get", time.Now())
	return i.next.Get(ctx, key)
}

func (i *instrumented) Put(ctx context.Context, key string, value []byte) error {
	defer i.observe("put", time.Now())
	return i.next.Put(ctx, key, value)
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	defer i.observe("delete", time.Now())
	return i.next.Delete(ctx, key)
}

func (i *instrumented) Update(ctx context.Context, key string, fn UpdateFunc) error {
	defer i.observe("update", time.Now())
	return i.next.Update(ctx, key, fn)
}

func (i *instrumented) Close() error { return i.next.Close() }
