package ser

import (
	"fmt"
	"log/slog"
	"sync"
)

// DefaultHumanReadable is the human-readable answer used when the process
// never configured one.
const DefaultHumanReadable = true

// HumanReadableError is returned when the human-readable flag was already
// fixed. Rejected is the value that was not installed.
type HumanReadableError struct {
	Rejected bool
	Current  bool
}

// Error implements the error interface.
func (e *HumanReadableError) Error() string {
	return fmt.Sprintf("human-readable flag already set to %t, rejected %t", e.Current, e.Rejected)
}

// ReadableFlag is a set-once boolean. The first Set wins; the first Get
// without a prior Set fixes the flag to DefaultHumanReadable.
type ReadableFlag struct {
	mu    sync.Mutex
	set   bool
	value bool
}

// Set installs v. It fails if the flag was already set or read.
func (f *ReadableFlag) Set(v bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.set {
		return &HumanReadableError{Rejected: v, Current: f.value}
	}
	f.set = true
	f.value = v
	return nil
}

// Get returns the flag, fixing it to the default on first use.
func (f *ReadableFlag) Get() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.set {
		f.set = true
		f.value = DefaultHumanReadable
	}
	return f.value
}

var humanReadable ReadableFlag

// SetHumanReadable fixes the process-wide human-readable flag. It must run
// before the first serialization that does not pass WithHumanReadable.
func SetHumanReadable(v bool) error {
	slog.Debug("setting human-readable flag", "value", v)
	return humanReadable.Set(v)
}

// IsHumanReadable returns the process-wide human-readable flag.
func IsHumanReadable() bool {
	return humanReadable.Get()
}
