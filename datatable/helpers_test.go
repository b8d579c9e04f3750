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

package datatable

import (
	"fmt"
	"time"
)

type person struct {
	ID     string
	Name   string
	Status string
	Email  string
	Age    int
	Joined time.Time
}

func personKey(p person) string { return p.ID }

func personColumns() []Column[person] {
	return []Column[person]{
		{ID: "name", Label: "Name", Accessor: func(p person) any { return p.Name }, Sortable: true, Searchable: true},
		{ID: "email", Label: "Email", Accessor: func(p person) any { return p.Email }, Sortable: true, Searchable: true},
		{ID: "status", Label: "Status", Accessor: func(p person) any { return p.Status }, Sortable: true, Filterable: true},
		{ID: "age", Accessor: func(p person) any { return p.Age }, Sortable: true, Filterable: true},
		{ID: "joined", Accessor: func(p person) any { return p.Joined }, Sortable: true},
		{ID: "select", Accessor: func(p person) any { return nil }},
	}
}

func mustColumns() *ColumnSet[person] {
	set, err := NewColumnSet(personColumns()...)
	if err != nil {
		panic(err)
	}
	return set
}

// samplePeople returns five rows: three active, two inactive.
func samplePeople() []person {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	return []person{
		{ID: "1", Name: "Alice Smith", Status: "active", Email: "alice@example.com", Age: 30, Joined: day(5)},
		{ID: "2", Name: "Bob Johnson", Status: "inactive", Email: "bob@example.com", Age: 25, Joined: day(3)},
		{ID: "3", Name: "Charlie Brown", Status: "active", Email: "charlie@example.com", Age: 35, Joined: day(1)},
		{ID: "4", Name: "Diana Prince", Status: "active", Email: "diana@example.com", Age: 30, Joined: day(4)},
		{ID: "5", Name: "Eve Wilson", Status: "inactive", Email: "eve@example.com", Age: 25, Joined: day(2)},
	}
}

// manyPeople returns n active rows named "Person 1".."Person n".
func manyPeople(n int) []person {
	out := make([]person, n)
	for i := range out {
		out[i] = person{
			ID:     fmt.Sprint(i + 1),
			Name:   fmt.Sprintf("Person %d", i+1),
			Status: "active",
			Email:  fmt.Sprintf("person%d@example.com", i+1),
			Age:    20 + i%5,
		}
	}
	return out
}

func ids(rows []person) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}
