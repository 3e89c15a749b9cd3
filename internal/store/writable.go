// Package store provides reactive value containers.
//
// A Writable holds one value and fans every change out to its subscribers
// synchronously, in the order they subscribed. Notifications are serialised,
// so all subscribers observe the same sequence of values.
package store

import "sync"

// Subscriber receives the current value of a Writable.
type Subscriber[T any] func(T)

type subscription[T any] struct {
	id uint64
	fn Subscriber[T]
}

// Writable is a mutable reactive cell. The zero value is not usable; call NewWritable.
type Writable[T any] struct {
	// notify serialises Set and the initial call made by Subscribe.
	// Subscribers must not call Set or Update on the same Writable.
	notify sync.Mutex

	mu     sync.RWMutex
	value  T
	subs   []subscription[T]
	nextID uint64
}

// NewWritable returns a Writable holding initial.
func NewWritable[T any](initial T) *Writable[T] {
	return &Writable[T]{value: initial}
}

// Get returns the current value.
func (w *Writable[T]) Get() T {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.value
}

// Set replaces the value and notifies subscribers.
func (w *Writable[T]) Set(value T) {
	w.notify.Lock()
	defer w.notify.Unlock()

	w.mu.Lock()
	w.value = value
	subs := append([]subscription[T]{}, w.subs...)
	w.mu.Unlock()

	for _, sub := range subs {
		sub.fn(value)
	}
}

// Update replaces the value with fn applied to the current one.
func (w *Writable[T]) Update(fn func(T) T) {
	w.notify.Lock()
	defer w.notify.Unlock()

	w.mu.Lock()
	w.value = fn(w.value)
	value := w.value
	subs := append([]subscription[T]{}, w.subs...)
	w.mu.Unlock()

	for _, sub := range subs {
		sub.fn(value)
	}
}

// Subscribe registers fn, calls it with the current value and returns a
// function that removes the subscription. The returned function is idempotent.
func (w *Writable[T]) Subscribe(fn Subscriber[T]) (unsubscribe func()) {
	w.notify.Lock()
	defer w.notify.Unlock()

	w.mu.Lock()
	w.nextID++
	id := w.nextID
	w.subs = append(w.subs, subscription[T]{id: id, fn: fn})
	value := w.value
	w.mu.Unlock()

	fn(value)

	var once sync.Once
	return func() {
		once.Do(func() { w.remove(id) })
	}
}

func (w *Writable[T]) remove(id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, sub := range w.subs {
		if sub.id == id {
			w.subs = append(w.subs[:i:i], w.subs[i+1:]...)
			return
		}
	}
}
