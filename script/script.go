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

// Package script builds computed columns. A computed column's value is a
// Go expression over the other cells of the row, interpreted with yaegi.
//
// Inside the expression the row is available as
//
//	row map[string]interface{}
//
// keyed by source column name. Cells hold their raw Go values (string,
// int64, float64, bool, time.Time) or nil when null.
package script

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"coachboard/datatable"
)

var (
	// ErrEmptyExpression is returned when a definition has no expression.
	ErrEmptyExpression = errors.New("empty expression")
	// ErrEvaluation wraps panics raised while evaluating an expression.
	ErrEvaluation = errors.New("expression evaluation failed")
)

// Definition describes one computed column.
type Definition struct {
	ID    string
	Label string
	// Expr is a Go expression yielding the cell value.
	Expr string
	// Imports lists standard library packages the expression uses.
	Imports []string
	Type    datatable.DataType

	Sortable   bool
	Filterable bool
	Searchable bool
}

// Computed is a compiled Definition bound to a source's column names.
type Computed struct {
	def   Definition
	names []string
	fn    func(map[string]interface{}) interface{}
	log   logrus.FieldLogger
}

// Compile interprets def. names are the source column names in column
// order; they become the keys of row.
func Compile(def Definition, names []string, log logrus.FieldLogger) (*Computed, error) {
	if strings.TrimSpace(def.Expr) == "" {
		return nil, fmt.Errorf("%w: column %q", ErrEmptyExpression, def.ID)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib: %w", err)
	}

	if _, err := i.Eval(program(def)); err != nil {
		return nil, fmt.Errorf("failed to compile column %q: %w", def.ID, err)
	}

	v, err := i.Eval("computed.Compute")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve column %q: %w", def.ID, err)
	}
	fn, ok := v.Interface().(func(map[string]interface{}) interface{})
	if !ok {
		return nil, fmt.Errorf("column %q: unexpected function type %T", def.ID, v.Interface())
	}

	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Computed{
		def:   def,
		names: append([]string(nil), names...),
		fn:    fn,
		log:   log,
	}, nil
}

func program(def Definition) string {
	var b strings.Builder
	b.WriteString("package computed\n\n")
	if len(def.Imports) > 0 {
		b.WriteString("import (\n")
		for _, imp := range def.Imports {
			fmt.Fprintf(&b, "\t%q\n", imp)
		}
		b.WriteString(")\n\n")
	}
	fmt.Fprintf(&b, "func Compute(row map[string]interface{}) interface{} {\n\treturn %s\n}\n", def.Expr)
	return b.String()
}

// Definition returns the definition c was compiled from.
func (c *Computed) Definition() Definition {
	return c.def
}

// Eval computes the value for one row of source values.
func (c *Computed) Eval(values []datatable.Value) (result interface{}, err error) {
	row := make(map[string]interface{}, len(c.names))
	for i, name := range c.names {
		if i < len(values) {
			row[name] = datatable.Raw(values[i])
		} else {
			row[name] = nil
		}
	}

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%w: column %q: %v", ErrEvaluation, c.def.ID, r)
		}
	}()
	return c.fn(row), nil
}

// Column returns a record column reading its value from c. Rows whose
// evaluation fails read as nil.
func (c *Computed) Column() datatable.Column[datatable.Record] {
	return datatable.Column[datatable.Record]{
		ID:    c.def.ID,
		Label: c.def.Label,
		Type:  c.def.Type,
		Accessor: func(r datatable.Record) any {
			v, err := c.Eval(r.Values)
			if err != nil {
				c.log.WithError(err).WithField("row", r.Index).Debug("computed column failed")
				return nil
			}
			return v
		},
		Sortable:   c.def.Sortable,
		Filterable: c.def.Filterable,
		Searchable: c.def.Searchable,
	}
}
