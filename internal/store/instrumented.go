package store

import (
	"context"
	"time"
)

// Observer receives timing for store operations.
type Observer interface {
	ObserveStoreOperation(operation string, duration time.Duration)
}

// Instrumented decorates a KV with operation timing.
type Instrumented struct {
	inner KV
	obs   Observer
}

// NewInstrumented wraps kv; a nil observer returns kv unchanged.
func NewInstrumented(kv KV, obs Observer) KV {
	if obs == nil {
		return kv
	}
	return &Instrumented{inner: kv, obs: obs}
}

func (i *Instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := i.inner.Get(ctx, key)
	i.obs.ObserveStoreOperation("get", time.Since(start))
	return data, err
}

func (i *Instrumented) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.inner.Set(ctx, key, value)
	i.obs.ObserveStoreOperation("set", time.Since(start))
	return err
}

func (i *Instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.inner.Delete(ctx, key)
	i.obs.ObserveStoreOperation("delete", time.Since(start))
	return err
}
