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
	"cmp"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Stringify coerces an accessor value to the string used for search and
// facet matching. Nil, null Values and nil pointers become "".
func Stringify(v any) string {
	if x, ok := v.(Value); ok {
		return x.Formatted
	}
	switch x := unwrap(v).(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// CompareValues orders two accessor values. Numbers compare numerically,
// time values chronologically, strings bytewise and bools false-first.
// Nil sorts before everything; values of unrelated types compare by their
// string form.
func CompareValues(a, b any) int {
	a, b = unwrap(a), unwrap(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	ka, kb := kindOf(va), kindOf(vb)
	switch {
	case ka == kindInt && kb == kindInt:
		return cmp.Compare(va.Int(), vb.Int())
	case ka == kindUint && kb == kindUint:
		return cmp.Compare(va.Uint(), vb.Uint())
	case ka.numeric() && kb.numeric():
		return cmp.Compare(toFloat(va, ka), toFloat(vb, kb))
	case ka == kindString && kb == kindString:
		return cmp.Compare(va.String(), vb.String())
	case ka == kindBool && kb == kindBool:
		return compareBool(va.Bool(), vb.Bool())
	}
	return cmp.Compare(Stringify(a), Stringify(b))
}

// Raw returns the underlying Go value of an accessor result: Value
// wrappers and pointers are removed and null values become nil.
func Raw(v any) any {
	return unwrap(v)
}

// unwrap strips null Values, Value wrappers and pointers.
func unwrap(v any) any {
	for {
		switch x := v.(type) {
		case nil:
			return nil
		case Value:
			if x.IsNull {
				return nil
			}
			if x.Raw == nil {
				return x.Formatted
			}
			v = x.Raw
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
}

type valueKind int

const (
	kindOther valueKind = iota
	kindInt
	kindUint
	kindFloat
	kindString
	kindBool
)

func (k valueKind) numeric() bool {
	return k == kindInt || k == kindUint || k == kindFloat
}

func kindOf(v reflect.Value) valueKind {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return kindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return kindUint
	case reflect.Float32, reflect.Float64:
		return kindFloat
	case reflect.String:
		return kindString
	case reflect.Bool:
		return kindBool
	default:
		return kindOther
	}
}

func toFloat(v reflect.Value, k valueKind) float64 {
	switch k {
	case kindInt:
		return float64(v.Int())
	case kindUint:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
