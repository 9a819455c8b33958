package schemaeq

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/avrovalue/internal/schema"
)

// RegistrationError is returned when a comparator slot is already taken.
// Rejected is the comparator that was not installed.
type RegistrationError struct {
	Rejected Comparator
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("schema comparator already registered, rejected %T", e.Rejected)
}

// Slot holds at most one Comparator for its lifetime.
type Slot struct {
	mu         sync.RWMutex
	comparator Comparator
}

// Set installs c. It fails if the slot already holds a comparator,
// including one installed by Get.
func (s *Slot) Set(c Comparator) error {
	if c == nil {
		return errors.New("nil schema comparator")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.comparator != nil {
		return &RegistrationError{Rejected: c}
	}
	s.comparator = c
	slog.Debug("registered schema comparator", "comparator", fmt.Sprintf("%T", c))
	return nil
}

// Get returns the installed comparator, installing StructFieldEq if the
// slot is empty.
func (s *Slot) Get() Comparator {
	s.mu.RLock()
	c := s.comparator
	s.mu.RUnlock()
	if c != nil {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.comparator == nil {
		s.comparator = StructFieldEq{}
		slog.Debug("installed default schema comparator", "comparator", "StructFieldEq")
	}
	return s.comparator
}

// Compare compares a and b with the slot's comparator.
func (s *Slot) Compare(a, b schema.Schema) bool {
	return s.Get().Compare(a, b)
}

var global Slot

// SetComparator installs c as the process-wide comparator. It must run
// before the first call to Compare anywhere in the process; afterwards it
// fails with a *RegistrationError carrying c, and the active comparator is
// unchanged.
func SetComparator(c Comparator) error {
	return global.Set(c)
}

// Compare compares a and b with the process-wide comparator.
func Compare(a, b schema.Schema) bool {
	return global.Compare(a, b)
}

// Active returns the process-wide comparator, installing the default if
// none was registered.
func Active() Comparator {
	return global.Get()
}
