// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package filter provides row predicates and their AND/OR composition.
package filter

import (
	"fmt"
	"strings"
)

// Predicate decides whether a row passes.
type Predicate[R any] interface {
	// Evaluate reports whether row passes the predicate.
	Evaluate(row R) bool

	// Description returns a human-readable form of the predicate.
	Description() string
}

// Func adapts a plain function to Predicate.
type Func[R any] struct {
	Desc string
	Fn   func(R) bool
}

// Evaluate implements the Predicate interface.
func (f Func[R]) Evaluate(row R) bool { return f.Fn(row) }

// Description implements the Predicate interface.
func (f Func[R]) Description() string { return f.Desc }

// LogicOp represents a logical operator for combining filters.
type LogicOp int

const (
	// LogicAND requires all filters to pass.
	LogicAND LogicOp = iota
	// LogicOR requires at least one filter to pass.
	LogicOR
)

// String returns the string representation of a LogicOp.
func (op LogicOp) String() string {
	switch op {
	case LogicAND:
		return "AND"
	case LogicOR:
		return "OR"
	default:
		return fmt.Sprintf("unknown(%d)", op)
	}
}

// Composite combines multiple predicates with AND or OR logic.
// An empty AND passes every row; an empty OR passes none.
type Composite[R any] struct {
	// Filters is the list of predicates to combine.
	Filters []Predicate[R]

	// Logic specifies how to combine the predicates (AND or OR).
	Logic LogicOp
}

// All returns an AND composite of filters.
func All[R any](filters ...Predicate[R]) *Composite[R] {
	return &Composite[R]{Filters: filters, Logic: LogicAND}
}

// Any returns an OR composite of filters.
func Any[R any](filters ...Predicate[R]) *Composite[R] {
	return &Composite[R]{Filters: filters, Logic: LogicOR}
}

// Add appends a predicate.
func (f *Composite[R]) Add(p Predicate[R]) {
	f.Filters = append(f.Filters, p)
}

// Evaluate implements the Predicate interface.
func (f *Composite[R]) Evaluate(row R) bool {
	switch f.Logic {
	case LogicAND:
		for _, p := range f.Filters {
			if !p.Evaluate(row) {
				return false
			}
		}
		return true

	case LogicOR:
		for _, p := range f.Filters {
			if p.Evaluate(row) {
				return true
			}
		}
		return false

	default:
		return false
	}
}

// Description implements the Predicate interface.
func (f *Composite[R]) Description() string {
	if len(f.Filters) == 0 {
		if f.Logic == LogicOR {
			return "none"
		}
		return "all"
	}

	descriptions := make([]string, len(f.Filters))
	for i, p := range f.Filters {
		descriptions[i] = p.Description()
	}

	return "(" + strings.Join(descriptions, " "+f.Logic.String()+" ") + ")"
}
