// File: internal/weakref/weakref.go
// Package weakref produces non-owning observation handles.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A handle wraps a weak.Pointer so the tracker can ask "is the referent
// still alive" without ever affecting collection eligibility. Ownership
// of the referent stays entirely with the application.

package weakref

import (
	"weak"

	"github.com/momentics/leakwatch/api"
)

type handle[T any] struct {
	p weak.Pointer[T]
}

// Alive reports whether the referent has not yet been reclaimed.
func (h handle[T]) Alive() bool {
	return h.p.Value() != nil
}

// Of returns a non-owning observation of ptr.
func Of[T any](ptr *T) api.WeakRef {
	return handle[T]{p: weak.Make(ptr)}
}
