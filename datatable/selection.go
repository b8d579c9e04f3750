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

import "sort"

// Selection is a set of selected row keys. It does not depend on filtering,
// sorting or paging; keys of rows that left the dataset stay in the set but
// are not counted against a snapshot.
type Selection struct {
	keys map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{keys: make(map[string]struct{})}
}

// Toggle adds key if absent, removes it if present, and reports whether key
// is selected afterwards.
func (s *Selection) Toggle(key string) bool {
	if _, ok := s.keys[key]; ok {
		delete(s.keys, key)
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// SelectAll adds every key.
func (s *Selection) SelectAll(keys ...string) {
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
}

// DeselectAll removes every key.
func (s *Selection) DeselectAll(keys ...string) {
	for _, k := range keys {
		delete(s.keys, k)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	clear(s.keys)
}

// IsSelected reports whether key is selected.
func (s *Selection) IsSelected(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of stored keys, stale ones included.
func (s *Selection) Len() int {
	return len(s.keys)
}

// CountIn returns the number of selected keys present in known.
func (s *Selection) CountIn(known map[string]struct{}) int {
	n := 0
	for k := range s.keys {
		if _, ok := known[k]; ok {
			n++
		}
	}
	return n
}

// Keys returns the stored keys in sorted order.
func (s *Selection) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
