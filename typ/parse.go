package typ

import (
	"strconv"
	"strings"
)

// ParseName parses a declared type name ("int", "array<string, 3>",
// "record<person | user>", "int | string") into a type value. Unparseable
// names come back as Unknown with ok=false so callers can degrade rather
// than fail.
func ParseName(name string) (Type, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Unknown, false
	}

	// Top-level unions recurse per alternative; UnionOf flattens.
	if alts := splitTopLevel(name, '|'); len(alts) > 1 {
		members := make([]Type, 0, len(alts))
		for _, alt := range alts {
			m, ok := ParseName(alt)
			if !ok {
				return Unknown, false
			}
			members = append(members, m)
		}
		return UnionOf(members...), true
	}

	// Quoted scalar: a literal type alternative.
	if len(name) >= 2 && (name[0] == '"' || name[0] == '\'') {
		return LiteralOf(strings.Trim(name, `"'`)), true
	}

	open := strings.IndexByte(name, '<')
	if open < 0 {
		return parseSimple(name)
	}
	if !strings.HasSuffix(name, ">") {
		return Unknown, false
	}

	outer := strings.ToLower(strings.TrimSpace(name[:open]))
	inner := name[open+1 : len(name)-1]
	args := splitTopLevel(inner, ',')

	switch outer {
	case "array":
		elem, ok := ParseName(args[0])
		if !ok {
			return Unknown, false
		}
		maxSize := 0
		if len(args) > 1 {
			n, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil {
				return Unknown, false
			}
			maxSize = n
		}
		return ArrayOf(elem, maxSize), true
	case "set":
		elem, ok := ParseName(args[0])
		if !ok {
			return Unknown, false
		}
		return SetOf(elem), true
	case "option":
		elem, ok := ParseName(args[0])
		if !ok {
			return Unknown, false
		}
		return OptionOf(elem), true
	case "record":
		var tables []string
		for _, arg := range splitTopLevel(inner, '|') {
			tables = append(tables, strings.TrimSpace(arg))
		}
		return RecordOf(tables...), true
	case "geometry":
		return GeometryOf(strings.ToLower(strings.TrimSpace(args[0]))), true
	case "future":
		elem, ok := ParseName(args[0])
		if !ok {
			return Unknown, false
		}
		return FutureOf(elem), true
	case "either":
		if len(args) != 2 {
			return Unknown, false
		}
		okT, ok1 := ParseName(args[0])
		errT, ok2 := ParseName(args[1])
		if !ok1 || !ok2 {
			return Unknown, false
		}
		return EitherOf(okT, errT), true
	case "range":
		bound, ok := ParseName(args[0])
		if !ok {
			return Unknown, false
		}
		return RangeOf(bound), true
	case "literal":
		values := make([]string, 0, len(args))
		for _, arg := range args {
			values = append(values, strings.Trim(strings.TrimSpace(arg), `"'`))
		}
		return LiteralOf(values...), true
	}
	return Unknown, false
}

func parseSimple(name string) (Type, bool) {
	switch strings.ToLower(name) {
	case "any":
		return Any, true
	case "bool":
		return Bool, true
	case "int":
		return Int, true
	case "float":
		return Float, true
	case "decimal":
		return Decimal, true
	case "number":
		return Number, true
	case "string", "str":
		return String, true
	case "datetime":
		return Datetime, true
	case "duration":
		return Duration, true
	case "bytes":
		return Bytes, true
	case "uuid":
		return Uuid, true
	case "null":
		return Null, true
	case "none":
		return None, true
	case "array":
		return ArrayOf(Any, 0), true
	case "set":
		return SetOf(Any), true
	case "object":
		return FreeObject(), true
	case "record":
		return RecordOf(), true
	case "geometry":
		return GeometryOf(""), true
	case "range":
		return RangeOf(Any), true
	}
	return Unknown, false
}

// splitTopLevel splits s on sep, ignoring separators nested inside angle
// brackets so array<record<a | b>> splits correctly.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}
