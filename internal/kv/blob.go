package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"
)

// DefaultPrefix namespaces every key written by parcount.
const DefaultPrefix = "parcount_"

// Blob stores JSON values under prefixed keys. Every operation is
// best-effort: failures are logged and reported as a false result, never
// returned as errors.
type Blob struct {
	store  Store
	prefix string
	log    logrus.FieldLogger
}

// NewBlob wraps store. A nil logger discards messages.
func NewBlob(store Store, prefix string, log logrus.FieldLogger) *Blob {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(nopWriter{})
		log = discard
	}
	return &Blob{store: store, prefix: prefix, log: log}
}

// Get decodes the value at key into dest. It returns false when the key is
// missing, the store fails, or the stored value does not decode.
func (b *Blob) Get(ctx context.Context, key string, dest any) bool {
	ok, err := b.Read(ctx, key, dest)
	if err != nil {
		b.log.WithError(err).WithField("key", key).Warn("kv read failed")
		return false
	}
	return ok
}

// Read decodes the value at key into dest, which must be a non-nil
// pointer. A missing key reports false with a nil error. dest is only
// assigned when the whole value decodes.
func (b *Blob) Read(ctx context.Context, key string, dest any) (bool, error) {
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false, fmt.Errorf("kv read %s: destination must be a non-nil pointer", key)
	}
	raw, ok, err := b.store.Get(ctx, b.prefix+key)
	if err != nil {
		return false, fmt.Errorf("kv read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	fresh := reflect.New(target.Elem().Type())
	if err := json.Unmarshal([]byte(raw), fresh.Interface()); err != nil {
		return false, fmt.Errorf("kv decode %s: %w", key, err)
	}
	target.Elem().Set(fresh.Elem())
	return true, nil
}

// Set encodes value as JSON and stores it at key.
func (b *Blob) Set(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		b.log.WithError(err).WithField("key", key).Warn("kv encode failed")
		return false
	}
	if err := b.store.Set(ctx, b.prefix+key, string(data)); err != nil {
		b.log.WithError(err).WithField("key", key).Warn("kv write failed")
		return false
	}
	return true
}

// Remove deletes key.
func (b *Blob) Remove(ctx context.Context, key string) bool {
	if err := b.store.Remove(ctx, b.prefix+key); err != nil {
		b.log.WithError(err).WithField("key", key).Warn("kv remove failed")
		return false
	}
	return true
}

// Clear removes every key under the prefix.
func (b *Blob) Clear(ctx context.Context) bool {
	keys, err := b.store.Keys(ctx, b.prefix)
	if err != nil {
		b.log.WithError(err).Warn("kv key scan failed")
		return false
	}
	ok := true
	for _, key := range keys {
		if err := b.store.Remove(ctx, key); err != nil {
			b.log.WithError(err).WithField("key", key).Warn("kv remove failed")
			ok = false
		}
	}
	return ok
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
