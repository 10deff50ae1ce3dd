// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ifcval is the tagged-union value type carried on every property
// and quantity set entry in the extracted model. A resolution that produces
// a Kind mismatch against what a comparator needs yields Unknown rather than
// a runtime panic — property bags are dynamically typed by design.
package ifcval

import (
	"fmt"

	"github.com/civitas-sh/civitas/trinary"
)

type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindTrinary
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindTrinary:
		return "trinary"
	case KindDocument:
		return "document"
	default:
		return "null"
	}
}

// Value is a tagged union over the value kinds an IFC property or quantity
// can hold. Exactly one of the typed fields is meaningful for a given Kind.
type Value struct {
	Kind Kind

	i int64
	f float64
	s string
	b bool
	t trinary.Value
	d map[string]Value
}

func Null() Value                    { return Value{Kind: KindNull} }
func Int(v int64) Value              { return Value{Kind: KindInt, i: v} }
func Float(v float64) Value          { return Value{Kind: KindFloat, f: v} }
func String(v string) Value          { return Value{Kind: KindString, s: v} }
func Bool(v bool) Value              { return Value{Kind: KindBool, b: v} }
func Tri(v trinary.Value) Value      { return Value{Kind: KindTrinary, t: v} }
func Document(v map[string]Value) Value { return Value{Kind: KindDocument, d: v} }

func (v Value) IsNull() bool { return v.Kind == KindNull }

func (v Value) AsInt() (int64, bool) {
	switch v.Kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		return int64(v.f), true
	}
	return 0, false
}

// AsFloat coerces Int and Float kinds to float64. Any other kind fails.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

func (v Value) AsString() (string, bool) {
	if v.Kind == KindString {
		return v.s, true
	}
	return "", false
}

func (v Value) AsBool() (bool, bool) {
	if v.Kind == KindBool {
		return v.b, true
	}
	return false, false
}

func (v Value) AsTrinary() trinary.Value {
	switch v.Kind {
	case KindTrinary:
		return v.t
	case KindBool:
		return trinary.From(v.b)
	case KindNull:
		return trinary.Unknown
	}
	return trinary.From(v.Raw())
}

func (v Value) AsDocument() (map[string]Value, bool) {
	if v.Kind == KindDocument {
		return v.d, true
	}
	return nil, false
}

// Raw returns the underlying Go value, useful for generic coercion paths
// (template rendering, equality comparators) that don't care about Kind.
func (v Value) Raw() any {
	switch v.Kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindBool:
		return v.b
	case KindTrinary:
		return v.t
	case KindDocument:
		return v.d
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return v.s
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindTrinary:
		return v.t.String()
	case KindDocument:
		return fmt.Sprintf("%v", v.d)
	default:
		return "null"
	}
}

// Equal compares two values for the equality/inequality comparators. Int
// and Float compare numerically across the two kinds; any other Kind
// mismatch is never equal rather than an error.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		// allow numeric cross-kind comparison
		vf, vok := v.AsFloat()
		of, ook := other.AsFloat()
		if vok && ook {
			return vf == of
		}
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindBool:
		return v.b == other.b
	case KindTrinary:
		return v.t == other.t
	default:
		return false
	}
}

// FromAny wraps a raw Go value (as decoded from JSON/TOML) into a Value.
func FromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Float(t)
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case trinary.Value:
		return Tri(t)
	case map[string]any:
		doc := make(map[string]Value, len(t))
		for k, v := range t {
			doc[k] = FromAny(v)
		}
		return Document(doc)
	case map[string]Value:
		return Document(t)
	default:
		return Null()
	}
}
