// Package check implements the type compatibility decisions: value
// assignability, binary operator operand checking and function argument
// checking. Every function is a pure decision returning a structured
// Result; nothing here panics or errors.
package check

import (
	"fmt"

	"github.com/surqlx/surlint/builtin"
	"github.com/surqlx/surlint/typ"
)

// Verdict classifies a compatibility decision.
type Verdict int

const (
	Compatible Verdict = iota
	CompatibleWithConversion
	Incompatible
)

// Result is the outcome of one compatibility check.
type Result struct {
	Verdict  Verdict
	Expected typ.Type
	Actual   typ.Type
	Reason   string
}

// OK reports whether the result is not Incompatible.
func (r Result) OK() bool { return r.Verdict != Incompatible }

func ok() Result { return Result{Verdict: Compatible} }

func conversion(reason string) Result {
	return Result{Verdict: CompatibleWithConversion, Reason: reason}
}

func incompatible(expected, actual typ.Type, reason string) Result {
	return Result{Verdict: Incompatible, Expected: expected, Actual: actual, Reason: reason}
}

// Assignable decides whether a value of the actual type may be assigned
// where the expected type is declared. Unknown on either side short-circuits
// to Compatible so missing information never cascades into false positives.
func Assignable(expected, actual typ.Type) Result {
	if expected.Kind == typ.KindAny || actual.Kind == typ.KindAny ||
		expected.Kind == typ.KindUnknown || actual.Kind == typ.KindUnknown {
		return ok()
	}
	if expected.Equal(actual) {
		return ok()
	}

	// an actual union must be assignable member by member
	if actual.Kind == typ.KindUnion && expected.Kind != typ.KindUnion {
		worst := ok()
		for _, m := range actual.Members {
			r := Assignable(expected, m)
			if r.Verdict == Incompatible {
				return incompatible(expected, actual,
					fmt.Sprintf("union member %s is not assignable to %s", m, expected))
			}
			if r.Verdict == CompatibleWithConversion {
				worst = r
			}
		}
		return worst
	}

	switch expected.Kind {
	case typ.KindOption:
		if actual.Kind == typ.KindNull || actual.Kind == typ.KindNone {
			return ok()
		}
		if actual.Kind == typ.KindOption {
			return Assignable(*expected.Elem, *actual.Elem)
		}
		return Assignable(*expected.Elem, actual)

	case typ.KindUnion:
		best := incompatible(expected, actual,
			fmt.Sprintf("%s is not a member of %s", actual, expected))
		for _, m := range expected.Members {
			r := Assignable(m, actual)
			if r.Verdict == Compatible {
				return ok()
			}
			if r.Verdict == CompatibleWithConversion && best.Verdict == Incompatible {
				best = r
			}
		}
		return best

	case typ.KindArray, typ.KindSet:
		if actual.Kind != typ.KindArray && actual.Kind != typ.KindSet {
			return incompatible(expected, actual,
				fmt.Sprintf("expected %s, got %s", expected, actual))
		}
		if expected.Kind == typ.KindArray && expected.MaxSize > 0 {
			if actual.MaxSize == 0 || actual.MaxSize > expected.MaxSize {
				return incompatible(expected, actual,
					fmt.Sprintf("array may exceed the maximum size %d", expected.MaxSize))
			}
		}
		ee, _ := expected.ElemType()
		ae, _ := actual.ElemType()
		r := Assignable(ee, ae)
		if r.Verdict == Incompatible {
			return incompatible(expected, actual,
				fmt.Sprintf("element type %s is not assignable to %s", ae, ee))
		}
		return r

	case typ.KindObject:
		return assignableObject(expected, actual)

	case typ.KindRecord:
		if actual.Kind != typ.KindRecord {
			return incompatible(expected, actual,
				fmt.Sprintf("expected %s, got %s", expected, actual))
		}
		if len(expected.Tables) == 0 || len(actual.Tables) == 0 {
			return ok()
		}
		for _, at := range actual.Tables {
			if !containsString(expected.Tables, at) {
				return incompatible(expected, actual,
					fmt.Sprintf("record of table %s is not allowed by %s", at, expected))
			}
		}
		return ok()

	case typ.KindInt, typ.KindFloat, typ.KindDecimal, typ.KindNumber:
		if !actual.IsNumeric() {
			return incompatible(expected, actual,
				fmt.Sprintf("expected %s, got %s", expected, actual))
		}
		if narrowing(expected.Kind, actual.Kind) {
			return conversion(fmt.Sprintf("%s is narrowed to %s", actual, expected))
		}
		return ok()

	case typ.KindString:
		if isScalar(actual) {
			return conversion(fmt.Sprintf("%s is converted to string", actual))
		}
		return incompatible(expected, actual,
			fmt.Sprintf("expected string, got %s", actual))

	case typ.KindGeometry:
		if actual.Kind != typ.KindGeometry {
			return incompatible(expected, actual,
				fmt.Sprintf("expected %s, got %s", expected, actual))
		}
		if expected.Geo == "" || expected.Geo == actual.Geo {
			return ok()
		}
		return incompatible(expected, actual,
			fmt.Sprintf("expected %s, got %s", expected, actual))

	case typ.KindLiteral:
		if actual.Kind == typ.KindLiteral {
			for _, v := range actual.Values {
				if !containsString(expected.Values, v) {
					return incompatible(expected, actual,
						fmt.Sprintf("value %s is not allowed by %s", v, expected))
				}
			}
			return ok()
		}
		return conversion(fmt.Sprintf("%s may not match the literal values of %s", actual, expected))

	case typ.KindRange:
		if actual.Kind != typ.KindRange {
			return incompatible(expected, actual,
				fmt.Sprintf("expected %s, got %s", expected, actual))
		}
		return Assignable(*expected.Elem, *actual.Elem)
	}

	return incompatible(expected, actual,
		fmt.Sprintf("expected %s, got %s", expected, actual))
}

func assignableObject(expected, actual typ.Type) Result {
	if actual.Kind != typ.KindObject {
		return incompatible(expected, actual,
			fmt.Sprintf("expected object, got %s", actual))
	}
	// a free-form expectation accepts any object
	if len(expected.Fields) == 0 {
		return ok()
	}
	worst := ok()
	for name, ft := range expected.Fields {
		at, present := actual.Fields[name]
		if !present {
			if ft.Kind == typ.KindOption || ft.IsNullable() {
				continue
			}
			if actual.Flexible && len(actual.Fields) == 0 {
				continue
			}
			return incompatible(expected, actual,
				fmt.Sprintf("missing required field %q", name))
		}
		r := Assignable(ft, at)
		if r.Verdict == Incompatible {
			return incompatible(expected, actual,
				fmt.Sprintf("field %q: %s", name, r.Reason))
		}
		if r.Verdict == CompatibleWithConversion {
			worst = r
		}
	}
	if !expected.Flexible {
		for name := range actual.Fields {
			if _, declared := expected.Fields[name]; !declared {
				return incompatible(expected, actual,
					fmt.Sprintf("unexpected field %q", name))
			}
		}
	}
	return worst
}

// narrowing reports whether assigning the actual numeric kind to the
// expected one can lose information.
func narrowing(expected, actual typ.Kind) bool {
	switch expected {
	case typ.KindInt:
		return actual != typ.KindInt
	case typ.KindFloat:
		return actual == typ.KindDecimal || actual == typ.KindNumber
	case typ.KindDecimal:
		return actual == typ.KindFloat || actual == typ.KindNumber
	case typ.KindNumber:
		return false
	}
	return false
}

func isScalar(t typ.Type) bool {
	switch t.Kind {
	case typ.KindBool, typ.KindInt, typ.KindFloat, typ.KindDecimal,
		typ.KindNumber, typ.KindString, typ.KindDatetime, typ.KindDuration,
		typ.KindUuid:
		return true
	}
	return false
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

var arithmeticOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"×": true, "÷": true, "^": true, "**": true,
}

var containmentOps = map[string]bool{
	"CONTAINS": true, "CONTAINSALL": true, "CONTAINSANY": true,
	"CONTAINSNONE": true, "CONTAINSNOT": true,
	"IN": true, "NOT IN": true, "INSIDE": true, "NOTINSIDE": true,
	"ALLINSIDE": true, "ANYINSIDE": true, "NONEINSIDE": true,
	"OUTSIDE": true, "INTERSECTS": true,
}

// BinaryOperator decides whether the operand types fit the operator.
// Comparison, logical and pattern families are always Compatible; the
// language tolerates truthy coercion there.
func BinaryOperator(op string, left, right typ.Type) Result {
	if left.Kind == typ.KindUnknown || right.Kind == typ.KindUnknown ||
		left.Kind == typ.KindAny || right.Kind == typ.KindAny {
		return ok()
	}

	switch {
	case arithmeticOps[op]:
		return checkArithmetic(op, left, right)
	case containmentOps[op]:
		// the left side must be something a member can live in
		if left.IsCollection() || left.Kind == typ.KindString ||
			left.Kind == typ.KindObject || left.Kind == typ.KindGeometry ||
			left.Kind == typ.KindUnion {
			return ok()
		}
		// x IN collection reads the other way around
		if (op == "IN" || op == "NOT IN" || op == "INSIDE" || op == "NOTINSIDE") &&
			(right.IsCollection() || right.Kind == typ.KindString || right.Kind == typ.KindObject) {
			return ok()
		}
		return incompatible(left, right,
			fmt.Sprintf("%s cannot be applied to %s", op, left))
	}
	return ok()
}

func checkArithmetic(op string, left, right typ.Type) Result {
	if op == "+" && (left.Kind == typ.KindString || right.Kind == typ.KindString) {
		return ok()
	}
	if temporalAllowed(op, left.Kind, right.Kind) {
		return ok()
	}
	if (op == "+" || op == "-") && left.IsCollection() && right.IsCollection() {
		return ok()
	}
	if left.IsNumeric() && right.IsNumeric() {
		return ok()
	}
	if !left.IsNumeric() {
		return incompatible(typ.Number, left,
			fmt.Sprintf("operator %s expects a numeric left operand, got %s", op, left))
	}
	return incompatible(typ.Number, right,
		fmt.Sprintf("operator %s expects a numeric right operand, got %s", op, right))
}

// temporalAllowed is the fixed table of permitted duration/datetime operand
// combinations.
func temporalAllowed(op string, l, r typ.Kind) bool {
	dt, dur := typ.KindDatetime, typ.KindDuration
	switch op {
	case "+":
		return (l == dt && r == dur) || (l == dur && r == dt) || (l == dur && r == dur)
	case "-":
		return (l == dt && r == dur) || (l == dt && r == dt) || (l == dur && r == dur)
	case "*", "/":
		return (l == dur && r == typ.KindInt) || (l == dur && r == typ.KindFloat) ||
			(l == dur && r == typ.KindNumber) ||
			(op == "*" && r == dur && (l == typ.KindInt || l == typ.KindFloat || l == typ.KindNumber))
	}
	return false
}

// FunctionArguments checks argument types against a builtin signature:
// count against the required/maximum arity, then each argument via
// Assignable. Variadic signatures repeat their last parameter's type.
func FunctionArguments(sig builtin.Signature, args []typ.Type) Result {
	if len(args) < sig.MinArgs {
		return Result{
			Verdict: Incompatible,
			Reason: fmt.Sprintf("%s expects at least %d argument(s), got %d",
				sig.Name, sig.MinArgs, len(args)),
		}
	}
	if !sig.Variadic && len(args) > len(sig.Params) {
		return Result{
			Verdict: Incompatible,
			Reason: fmt.Sprintf("%s expects at most %d argument(s), got %d",
				sig.Name, len(sig.Params), len(args)),
		}
	}

	worst := ok()
	for i, actual := range args {
		param := paramAt(sig, i)
		r := Assignable(param.Type, actual)
		// argument position does not coerce across kind families: passing
		// an int where a string parameter is declared is an error, while
		// numeric narrowing stays a conversion
		if r.Verdict == CompatibleWithConversion &&
			!(param.Type.IsNumeric() && actual.IsNumeric()) {
			r = Result{Verdict: Incompatible}
		}
		if r.Verdict == Incompatible {
			return Result{
				Verdict:  Incompatible,
				Expected: param.Type,
				Actual:   actual,
				Reason: fmt.Sprintf("argument %d (%s) of %s: expected %s, got %s",
					i+1, param.Name, sig.Name, param.Type, actual),
			}
		}
		if r.Verdict == CompatibleWithConversion {
			worst = r
		}
	}
	return worst
}

func paramAt(sig builtin.Signature, i int) builtin.Param {
	if i < len(sig.Params) {
		return sig.Params[i]
	}
	return sig.Params[len(sig.Params)-1]
}
