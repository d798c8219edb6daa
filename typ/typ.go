// Package typ implements the query language's type algebra: a closed set
// of composable type values with structural equality, display formatting
// and the promotion/union rules the inference engine and checker build on.
package typ

import (
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the type variants.
type Kind int

const (
	KindAny Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindNumber
	KindString
	KindDatetime
	KindDuration
	KindBytes
	KindUuid
	KindNull
	KindNone
	KindUnknown
	KindNever
	KindArray
	KindSet
	KindObject
	KindRecord
	KindOption
	KindUnion
	KindLiteral
	KindEither
	KindFuture
	KindRange
	KindGeometry
)

// Type is a structural type value. Two independently constructed values
// with the same shape are equal; identity never matters.
type Type struct {
	Kind Kind

	// Elem is the element of Array/Set, the inner type of Option/Future,
	// and the bound type of Range.
	Elem *Type

	// MaxSize bounds Array length; 0 means unbounded.
	MaxSize int

	// Fields and Flexible describe Object.
	Fields   map[string]Type
	Flexible bool

	// Tables is the sorted table-name set of Record. Empty means "any
	// record".
	Tables []string

	// Members holds Union alternatives and Either's (ok, err) pair.
	Members []Type

	// Values holds Literal's rendered scalar values.
	Values []string

	// Geo names the geometry kind ("point", "polygon", ...); empty means
	// any geometry.
	Geo string
}

// Scalar singletons.
var (
	Any      = Type{Kind: KindAny}
	Bool     = Type{Kind: KindBool}
	Int      = Type{Kind: KindInt}
	Float    = Type{Kind: KindFloat}
	Decimal  = Type{Kind: KindDecimal}
	Number   = Type{Kind: KindNumber}
	String   = Type{Kind: KindString}
	Datetime = Type{Kind: KindDatetime}
	Duration = Type{Kind: KindDuration}
	Bytes    = Type{Kind: KindBytes}
	Uuid     = Type{Kind: KindUuid}
	Null     = Type{Kind: KindNull}
	None     = Type{Kind: KindNone}
	Unknown  = Type{Kind: KindUnknown}
	Never    = Type{Kind: KindNever}
)

// ArrayOf returns array<elem>; maxSize 0 means unbounded.
func ArrayOf(elem Type, maxSize int) Type {
	return Type{Kind: KindArray, Elem: &elem, MaxSize: maxSize}
}

// SetOf returns set<elem>.
func SetOf(elem Type) Type {
	return Type{Kind: KindSet, Elem: &elem}
}

// ObjectOf returns an object type over the given fields. A flexible object
// accepts undeclared fields.
func ObjectOf(fields map[string]Type, flexible bool) Type {
	return Type{Kind: KindObject, Fields: fields, Flexible: flexible}
}

// FreeObject is the schemaless object type: no declared fields, flexible.
func FreeObject() Type {
	return Type{Kind: KindObject, Flexible: true}
}

// RecordOf returns record<tables...>. Table names are sorted and deduped;
// no tables means a record of any table.
func RecordOf(tables ...string) Type {
	if len(tables) == 0 {
		return Type{Kind: KindRecord}
	}
	seen := make(map[string]bool, len(tables))
	uniq := make([]string, 0, len(tables))
	for _, t := range tables {
		if !seen[t] {
			seen[t] = true
			uniq = append(uniq, t)
		}
	}
	sort.Strings(uniq)
	return Type{Kind: KindRecord, Tables: uniq}
}

// OptionOf returns option<inner>. option<option<T>> collapses to
// option<T>, and option of Null/None is just the option of nothing more.
func OptionOf(inner Type) Type {
	if inner.Kind == KindOption {
		return inner
	}
	return Type{Kind: KindOption, Elem: &inner}
}

// UnionOf returns the flattened, deduplicated union of the members.
// A union absorbing Any collapses to Any; a single member collapses to
// itself; an empty union is Never.
func UnionOf(members ...Type) Type {
	var flat []Type
	var collect func(t Type)
	collect = func(t Type) {
		if t.Kind == KindUnion {
			for _, m := range t.Members {
				collect(m)
			}
			return
		}
		for _, seen := range flat {
			if seen.Equal(t) {
				return
			}
		}
		flat = append(flat, t)
	}
	for _, m := range members {
		collect(m)
	}
	for _, m := range flat {
		if m.Kind == KindAny {
			return Any
		}
	}
	switch len(flat) {
	case 0:
		return Never
	case 1:
		return flat[0]
	}
	return Type{Kind: KindUnion, Members: flat}
}

// LiteralOf returns a literal type over the rendered scalar values.
func LiteralOf(values ...string) Type {
	return Type{Kind: KindLiteral, Values: values}
}

// EitherOf returns either<ok, err>.
func EitherOf(ok, err Type) Type {
	return Type{Kind: KindEither, Members: []Type{ok, err}}
}

// FutureOf returns future<result>.
func FutureOf(result Type) Type {
	return Type{Kind: KindFuture, Elem: &result}
}

// RangeOf returns range<bound>.
func RangeOf(bound Type) Type {
	return Type{Kind: KindRange, Elem: &bound}
}

// GeometryOf returns geometry<kind>; empty kind means any geometry.
func GeometryOf(kind string) Type {
	return Type{Kind: KindGeometry, Geo: kind}
}

// Equal reports structural equality.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindArray:
		return t.MaxSize == o.MaxSize && elemEqual(t.Elem, o.Elem)
	case KindSet, KindOption, KindFuture, KindRange:
		return elemEqual(t.Elem, o.Elem)
	case KindObject:
		if t.Flexible != o.Flexible || len(t.Fields) != len(o.Fields) {
			return false
		}
		for name, ft := range t.Fields {
			ot, ok := o.Fields[name]
			if !ok || !ft.Equal(ot) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(t.Tables) != len(o.Tables) {
			return false
		}
		for i := range t.Tables {
			if t.Tables[i] != o.Tables[i] {
				return false
			}
		}
		return true
	case KindUnion, KindEither:
		if len(t.Members) != len(o.Members) {
			return false
		}
		if t.Kind == KindEither {
			return t.Members[0].Equal(o.Members[0]) && t.Members[1].Equal(o.Members[1])
		}
		// Unions are sets: order-insensitive comparison.
		for _, m := range t.Members {
			found := false
			for _, om := range o.Members {
				if m.Equal(om) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case KindLiteral:
		if len(t.Values) != len(o.Values) {
			return false
		}
		for i := range t.Values {
			if t.Values[i] != o.Values[i] {
				return false
			}
		}
		return true
	case KindGeometry:
		return t.Geo == o.Geo
	default:
		return true
	}
}

func elemEqual(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// String renders the type the way the language writes it.
func (t Type) String() string {
	switch t.Kind {
	case KindAny:
		return "any"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDatetime:
		return "datetime"
	case KindDuration:
		return "duration"
	case KindBytes:
		return "bytes"
	case KindUuid:
		return "uuid"
	case KindNull:
		return "null"
	case KindNone:
		return "none"
	case KindUnknown:
		return "unknown"
	case KindNever:
		return "never"
	case KindArray:
		if t.MaxSize > 0 {
			return "array<" + t.Elem.String() + ", " + strconv.Itoa(t.MaxSize) + ">"
		}
		if t.Elem == nil || t.Elem.Kind == KindAny {
			return "array"
		}
		return "array<" + t.Elem.String() + ">"
	case KindSet:
		if t.Elem == nil || t.Elem.Kind == KindAny {
			return "set"
		}
		return "set<" + t.Elem.String() + ">"
	case KindObject:
		return "object"
	case KindRecord:
		if len(t.Tables) == 0 {
			return "record"
		}
		return "record<" + strings.Join(t.Tables, " | ") + ">"
	case KindOption:
		return "option<" + t.Elem.String() + ">"
	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, " | ")
	case KindLiteral:
		return strings.Join(t.Values, " | ")
	case KindEither:
		return "either<" + t.Members[0].String() + ", " + t.Members[1].String() + ">"
	case KindFuture:
		return "future<" + t.Elem.String() + ">"
	case KindRange:
		return "range<" + t.Elem.String() + ">"
	case KindGeometry:
		if t.Geo == "" {
			return "geometry"
		}
		return "geometry<" + t.Geo + ">"
	}
	return "unknown"
}

// IsNumeric reports whether the type is a numeric scalar, looking through
// Option transparently.
func (t Type) IsNumeric() bool {
	switch t.Kind {
	case KindInt, KindFloat, KindDecimal, KindNumber:
		return true
	case KindOption:
		return t.Elem.IsNumeric()
	}
	return false
}

// IsCollection reports whether the type is array- or set-like, looking
// through Option transparently.
func (t Type) IsCollection() bool {
	switch t.Kind {
	case KindArray, KindSet, KindRange:
		return true
	case KindOption:
		return t.Elem.IsCollection()
	}
	return false
}

// ElemType returns the element type of a collection (Any for unparameterized
// collections), looking through Option. The second result reports whether
// the type is a collection at all.
func (t Type) ElemType() (Type, bool) {
	switch t.Kind {
	case KindArray, KindSet, KindRange:
		if t.Elem == nil {
			return Any, true
		}
		return *t.Elem, true
	case KindOption:
		return t.Elem.ElemType()
	}
	return Unknown, false
}

// IsNullable reports whether the type admits Null or None.
func (t Type) IsNullable() bool {
	switch t.Kind {
	case KindNull, KindNone, KindOption, KindAny, KindUnknown:
		return true
	case KindUnion:
		for _, m := range t.Members {
			if m.IsNullable() {
				return true
			}
		}
	}
	return false
}

// CommonType computes the unified type of two values appearing in the same
// position (array elements, branches of ??). Numeric types promote along
// Int < Float/Number < Decimal; Null/None against a value type yields an
// Option; anything else falls back to a flattened Union.
func CommonType(a, b Type) Type {
	if a.Equal(b) {
		return a
	}
	if a.Kind == KindUnknown || b.Kind == KindUnknown {
		return Unknown
	}
	if a.Kind == KindAny || b.Kind == KindAny {
		return Any
	}
	if a.Kind == KindNull || a.Kind == KindNone {
		return OptionOf(b)
	}
	if b.Kind == KindNull || b.Kind == KindNone {
		return OptionOf(a)
	}
	if a.IsNumeric() && b.IsNumeric() && a.Kind != KindOption && b.Kind != KindOption {
		if a.Kind == KindDecimal || b.Kind == KindDecimal {
			return Decimal
		}
		return Number
	}
	return UnionOf(a, b)
}
