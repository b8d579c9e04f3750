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

package script

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sliceadapter "coachboard/adapters/slice"
	"coachboard/datatable"
)

var sessionNames = []string{"client", "minutes", "score"}

func sessionValues(client string, minutes int64, score interface{}) []datatable.Value {
	return []datatable.Value{
		datatable.NewValue(client, datatable.TypeString),
		datatable.NewValue(minutes, datatable.TypeInt),
		datatable.NewValue(score, datatable.TypeFloat),
	}
}

func TestCompileAndEval(t *testing.T) {
	cases := []struct {
		name   string
		def    Definition
		values []datatable.Value
		want   interface{}
	}{
		{
			name:   "arithmetic",
			def:    Definition{ID: "hours", Expr: `float64(row["minutes"].(int64)) / 60`},
			values: sessionValues("Alice", 90, 4.0),
			want:   1.5,
		},
		{
			name:   "imports",
			def:    Definition{ID: "upper", Expr: `strings.ToUpper(row["client"].(string))`, Imports: []string{"strings"}},
			values: sessionValues("Alice", 90, 4.0),
			want:   "ALICE",
		},
		{
			name:   "null cell",
			def:    Definition{ID: "scored", Expr: `row["score"] != nil`},
			values: sessionValues("Bob", 30, nil),
			want:   false,
		},
		{
			name:   "missing cell",
			def:    Definition{ID: "extra", Expr: `row["score"]`},
			values: sessionValues("Bob", 30, nil)[:2],
			want:   nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Compile(tc.def, sessionNames, nil)
			require.NoError(t, err)

			got, err := c.Eval(tc.values)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile(Definition{ID: "blank", Expr: "  "}, sessionNames, nil)
	assert.ErrorIs(t, err, ErrEmptyExpression)

	_, err = Compile(Definition{ID: "broken", Expr: "1 +"}, sessionNames, nil)
	assert.Error(t, err)

	_, err = Compile(Definition{ID: "undefined", Expr: "nope(row)"}, sessionNames, nil)
	assert.Error(t, err)
}

func TestEvalRecoversPanics(t *testing.T) {
	c, err := Compile(Definition{ID: "bad", Expr: `row["client"].(int64)`}, sessionNames, nil)
	require.NoError(t, err)

	_, err = c.Eval(sessionValues("Alice", 90, 4.0))
	assert.ErrorIs(t, err, ErrEvaluation)
}

func TestComputedColumnInTableModel(t *testing.T) {
	ds, err := sliceadapter.NewFromRows(sessionNames, [][]interface{}{
		{"Alice", int64(90), 4.0},
		{"Bob", int64(30), nil},
		{"Carol", int64(60), 5.0},
	})
	require.NoError(t, err)

	records, err := datatable.ReadRecords(ds)
	require.NoError(t, err)
	columns, err := datatable.SourceColumns(ds)
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	hours, err := Compile(Definition{
		ID:       "hours",
		Label:    "Hours",
		Expr:     `float64(row["minutes"].(int64)) / 60`,
		Type:     datatable.TypeFloat,
		Sortable: true,
	}, sessionNames, logger)
	require.NoError(t, err)
	assert.Equal(t, "hours", hours.Definition().ID)

	key, err := datatable.RecordKey(ds, "client")
	require.NoError(t, err)
	m, err := datatable.NewTableModel(append(columns, hours.Column()), key, records)
	require.NoError(t, err)
	require.NoError(t, m.SetSort(datatable.Desc("hours")))

	var clients []string
	for _, r := range m.View().Rows {
		clients = append(clients, r.Cell(0).Formatted)
	}
	assert.Equal(t, []string{"Alice", "Carol", "Bob"}, clients)
	assert.Empty(t, hook.AllEntries())
}
