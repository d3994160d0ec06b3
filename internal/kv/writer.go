package kv

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before buffered writes are flushed.
const DefaultDebounce = 300 * time.Millisecond

// Writer buffers writes per key and flushes them once no new write has
// arrived for the debounce delay. Only the latest value of a key is kept.
// Values must not be mutated after Put.
type Writer struct {
	blob  *Blob
	delay time.Duration

	mu      sync.Mutex
	pending map[string]any
	order   []string
	timer   *time.Timer

	// flushMu keeps batches from being written out of order when a timer
	// flush races a manual one.
	flushMu sync.Mutex
}

// NewWriter returns a writer that flushes to blob after delay.
func NewWriter(blob *Blob, delay time.Duration) *Writer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Writer{
		blob:    blob,
		delay:   delay,
		pending: make(map[string]any),
	}
}

// Put buffers value for key and restarts the debounce timer.
func (w *Writer) Put(key string, value any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.pending[key]; !ok {
		w.order = append(w.order, key)
	}
	w.pending[key] = value
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.Flush()
	})
}

// Pending reports how many keys are waiting to be written.
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// Flush writes every buffered key now. It returns false if any write failed;
// failed values are dropped, leaving the store stale.
func (w *Writer) Flush() bool {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	keys, values := w.take()
	ok := true
	for i, key := range keys {
		if !w.blob.Set(context.Background(), key, values[i]) {
			ok = false
		}
	}
	return ok
}

// Discard drops buffered writes without storing them.
func (w *Writer) Discard() {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()
	w.take()
}

func (w *Writer) take() ([]string, []any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	keys := w.order
	values := make([]any, len(keys))
	for i, key := range keys {
		values[i] = w.pending[key]
	}
	w.order = nil
	w.pending = make(map[string]any)
	return keys, values
}
