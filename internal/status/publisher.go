// Package status holds the single user-facing status line and clears
// non-error messages after a delay.
package status

import (
	"sync"
	"time"

	"github.com/temirov/ctxcopy/internal/types"
)

// DefaultClearDelay is how long a non-error status stays visible.
const DefaultClearDelay = 3000 * time.Millisecond

// Timer is a scheduled clear that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules fn after delay and returns a handle that cancels it.
type AfterFunc func(delay time.Duration, fn func()) Timer

func defaultAfterFunc(delay time.Duration, fn func()) Timer {
	return time.AfterFunc(delay, fn)
}

// Option customizes a Publisher.
type Option func(*Publisher)

// WithAfterFunc replaces the timer used for auto-clear.
func WithAfterFunc(afterFunc AfterFunc) Option {
	return func(publisher *Publisher) {
		publisher.afterFunc = afterFunc
	}
}

// Publisher stores the current status. A newer status always replaces the
// older one and cancels its pending clear.
type Publisher struct {
	mutex      sync.Mutex
	current    types.Status
	delay      time.Duration
	generation uint64
	pending    Timer
	afterFunc  AfterFunc
	listeners  []func(types.Status)
}

// NewPublisher returns a Publisher that clears non-error statuses after
// delay. A non-positive delay uses DefaultClearDelay.
func NewPublisher(delay time.Duration, options ...Option) *Publisher {
	if delay <= 0 {
		delay = DefaultClearDelay
	}
	publisher := &Publisher{
		current:   types.Status{Severity: types.SeverityInfo},
		delay:     delay,
		afterFunc: defaultAfterFunc,
	}
	for _, option := range options {
		option(publisher)
	}
	return publisher
}

// Subscribe registers listener to receive every status change, including clears.
func (publisher *Publisher) Subscribe(listener func(types.Status)) {
	publisher.mutex.Lock()
	defer publisher.mutex.Unlock()
	publisher.listeners = append(publisher.listeners, listener)
}

// Publish replaces the current status.
func (publisher *Publisher) Publish(severity types.Severity, message string) {
	next := types.Status{Severity: severity, Message: message}

	publisher.mutex.Lock()
	publisher.generation++
	generation := publisher.generation
	if publisher.pending != nil {
		publisher.pending.Stop()
		publisher.pending = nil
	}
	publisher.current = next
	if severity != types.SeverityError && message != "" {
		publisher.pending = publisher.afterFunc(publisher.delay, func() {
			publisher.clearGeneration(generation)
		})
	}
	listeners := append([]func(types.Status){}, publisher.listeners...)
	publisher.mutex.Unlock()

	notify(listeners, next)
}

// Info publishes an informational status.
func (publisher *Publisher) Info(message string) {
	publisher.Publish(types.SeverityInfo, message)
}

// Success publishes a success status.
func (publisher *Publisher) Success(message string) {
	publisher.Publish(types.SeveritySuccess, message)
}

// Warning publishes a warning status.
func (publisher *Publisher) Warning(message string) {
	publisher.Publish(types.SeverityWarning, message)
}

// Error publishes an error status that stays until replaced.
func (publisher *Publisher) Error(message string) {
	publisher.Publish(types.SeverityError, message)
}

// Clear resets the status to an empty info status.
func (publisher *Publisher) Clear() {
	publisher.Publish(types.SeverityInfo, "")
}

// Current returns the visible status.
func (publisher *Publisher) Current() types.Status {
	publisher.mutex.Lock()
	defer publisher.mutex.Unlock()
	return publisher.current
}

// Stop cancels any pending clear.
func (publisher *Publisher) Stop() {
	publisher.mutex.Lock()
	defer publisher.mutex.Unlock()
	publisher.generation++
	if publisher.pending != nil {
		publisher.pending.Stop()
		publisher.pending = nil
	}
}

func (publisher *Publisher) clearGeneration(generation uint64) {
	publisher.mutex.Lock()
	if publisher.generation != generation {
		publisher.mutex.Unlock()
		return
	}
	publisher.pending = nil
	cleared := types.Status{Severity: types.SeverityInfo}
	publisher.current = cleared
	listeners := append([]func(types.Status){}, publisher.listeners...)
	publisher.mutex.Unlock()

	notify(listeners, cleared)
}

func notify(listeners []func(types.Status), status types.Status) {
	for _, listener := range listeners {
		listener(status)
	}
}
