// File: api/excluded.go
// Package api defines known-acceptable retention rules.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// ExcludedRef is one known-acceptable retention path. Matching is
// performed by downstream path analysis; the core only carries the
// rules through each DumpRequest.
type ExcludedRef struct {
	// Name identifies what the rule matches: a field as "Type.Field", a
	// goroutine by name, or a type by its full path.
	Name string
	// Reason documents why this retention path is acceptable.
	Reason string
	// Always excludes the path even when it is the only path to the
	// leaking object. When false the path is only excluded if another
	// path exists.
	Always bool
}

// ExcludedRefs groups retention rules by the kind of graph edge they
// match. The zero value excludes nothing.
type ExcludedRefs struct {
	Fields       []ExcludedRef
	StaticFields []ExcludedRef
	Goroutines   []ExcludedRef
	Types        []ExcludedRef
}

// Merge returns the union of e and other. Neither receiver nor argument
// is mutated.
func (e ExcludedRefs) Merge(other ExcludedRefs) ExcludedRefs {
	return ExcludedRefs{
		Fields:       append(append([]ExcludedRef(nil), e.Fields...), other.Fields...),
		StaticFields: append(append([]ExcludedRef(nil), e.StaticFields...), other.StaticFields...),
		Goroutines:   append(append([]ExcludedRef(nil), e.Goroutines...), other.Goroutines...),
		Types:        append(append([]ExcludedRef(nil), e.Types...), other.Types...),
	}
}
