package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surqlx/surlint/builtin"
	"github.com/surqlx/surlint/typ"
)

func TestAssignableScalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		expected, actual typ.Type
		want             Verdict
	}{
		{"identical", typ.Int, typ.Int, Compatible},
		{"any expected", typ.Any, typ.Bool, Compatible},
		{"any actual", typ.Int, typ.Any, Compatible},
		{"unknown short-circuits", typ.Int, typ.Unknown, Compatible},
		{"float to int narrows", typ.Int, typ.Float, CompatibleWithConversion},
		{"int to float widens", typ.Float, typ.Int, Compatible},
		{"number accepts int", typ.Number, typ.Int, Compatible},
		{"decimal from float narrows", typ.Decimal, typ.Float, CompatibleWithConversion},
		{"string accepts int via conversion", typ.String, typ.Int, CompatibleWithConversion},
		{"string accepts bool via conversion", typ.String, typ.Bool, CompatibleWithConversion},
		{"string rejects array", typ.String, typ.ArrayOf(typ.Int, 0), Incompatible},
		{"bool rejects string", typ.Bool, typ.String, Incompatible},
		{"int rejects string", typ.Int, typ.String, Incompatible},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Assignable(tc.expected, tc.actual)
			assert.Equal(t, tc.want, r.Verdict, "reason: %s", r.Reason)
		})
	}
}

func TestAssignableOption(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Compatible, Assignable(typ.OptionOf(typ.Int), typ.Null).Verdict)
	assert.Equal(t, Compatible, Assignable(typ.OptionOf(typ.Int), typ.None).Verdict)
	assert.Equal(t, Compatible, Assignable(typ.OptionOf(typ.Int), typ.Int).Verdict)
	assert.Equal(t, Compatible, Assignable(typ.OptionOf(typ.Int), typ.OptionOf(typ.Int)).Verdict)
	assert.Equal(t, Incompatible, Assignable(typ.OptionOf(typ.Int), typ.String).Verdict)
	assert.Equal(t, Incompatible, Assignable(typ.Int, typ.Null).Verdict,
		"null needs an option or union to land in")
}

func TestAssignableUnion(t *testing.T) {
	t.Parallel()

	intOrStr := typ.UnionOf(typ.Int, typ.String)
	assert.Equal(t, Compatible, Assignable(intOrStr, typ.Int).Verdict)
	assert.Equal(t, Compatible, Assignable(intOrStr, typ.String).Verdict)
	assert.Equal(t, Incompatible, Assignable(intOrStr, typ.Bool).Verdict)

	// an actual union must fit member by member
	assert.Equal(t, Compatible, Assignable(intOrStr, typ.UnionOf(typ.Int, typ.String)).Verdict)
	r := Assignable(typ.Int, typ.UnionOf(typ.Int, typ.Bool))
	assert.Equal(t, Incompatible, r.Verdict)
	assert.Contains(t, r.Reason, "union member")
}

func TestAssignableCollections(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Compatible,
		Assignable(typ.ArrayOf(typ.Int, 0), typ.ArrayOf(typ.Int, 0)).Verdict)
	assert.Equal(t, Incompatible,
		Assignable(typ.ArrayOf(typ.Int, 0), typ.ArrayOf(typ.String, 0)).Verdict)
	assert.Equal(t, Incompatible,
		Assignable(typ.ArrayOf(typ.Int, 0), typ.Int).Verdict)

	// a bounded array only accepts arrays proven to fit
	bounded := typ.ArrayOf(typ.Int, 3)
	r := Assignable(bounded, typ.ArrayOf(typ.Int, 0))
	assert.Equal(t, Incompatible, r.Verdict)
	assert.Contains(t, r.Reason, "maximum size")
	assert.Equal(t, Compatible, Assignable(bounded, typ.ArrayOf(typ.Int, 2)).Verdict)
}

func TestAssignableObject(t *testing.T) {
	t.Parallel()

	expected := typ.ObjectOf(map[string]typ.Type{
		"name": typ.String,
		"nick": typ.OptionOf(typ.String),
	}, false)

	full := typ.ObjectOf(map[string]typ.Type{"name": typ.String, "nick": typ.String}, false)
	assert.Equal(t, Compatible, Assignable(expected, full).Verdict)

	// optional fields may be absent
	minimal := typ.ObjectOf(map[string]typ.Type{"name": typ.String}, false)
	assert.Equal(t, Compatible, Assignable(expected, minimal).Verdict)

	missing := typ.ObjectOf(map[string]typ.Type{"nick": typ.String}, false)
	r := Assignable(expected, missing)
	assert.Equal(t, Incompatible, r.Verdict)
	assert.Contains(t, r.Reason, "missing required field")

	extra := typ.ObjectOf(map[string]typ.Type{"name": typ.String, "other": typ.Int}, false)
	r = Assignable(expected, extra)
	assert.Equal(t, Incompatible, r.Verdict)
	assert.Contains(t, r.Reason, "unexpected field")

	// a flexible expectation tolerates undeclared fields
	flexible := typ.ObjectOf(map[string]typ.Type{"name": typ.String}, true)
	assert.Equal(t, Compatible, Assignable(flexible, extra).Verdict)

	// a free-form expectation accepts any object
	assert.Equal(t, Compatible, Assignable(typ.FreeObject(), full).Verdict)
}

func TestAssignableRecord(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Compatible,
		Assignable(typ.RecordOf("person", "user"), typ.RecordOf("person")).Verdict)
	assert.Equal(t, Incompatible,
		Assignable(typ.RecordOf("person"), typ.RecordOf("user")).Verdict)
	assert.Equal(t, Compatible,
		Assignable(typ.RecordOf(), typ.RecordOf("anything")).Verdict)
	assert.Equal(t, Incompatible,
		Assignable(typ.RecordOf("person"), typ.String).Verdict)
}

func TestBinaryOperator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		op          string
		left, right typ.Type
		want        Verdict
	}{
		{"int plus int", "+", typ.Int, typ.Int, Compatible},
		{"string concat", "+", typ.String, typ.Int, Compatible},
		{"datetime plus duration", "+", typ.Datetime, typ.Duration, Compatible},
		{"datetime minus datetime", "-", typ.Datetime, typ.Datetime, Compatible},
		{"duration times int", "*", typ.Duration, typ.Int, Compatible},
		{"array plus array", "+", typ.ArrayOf(typ.Int, 0), typ.ArrayOf(typ.Int, 0), Compatible},
		{"bool plus int", "+", typ.Bool, typ.Int, Incompatible},
		{"datetime times int", "*", typ.Datetime, typ.Int, Incompatible},
		{"unknown passes", "+", typ.Unknown, typ.Bool, Compatible},
		{"comparison is permissive", "<", typ.String, typ.Int, Compatible},
		{"contains needs a container", "CONTAINS", typ.Int, typ.Int, Incompatible},
		{"contains on array", "CONTAINS", typ.ArrayOf(typ.Int, 0), typ.Int, Compatible},
		{"in reads the other way", "IN", typ.Int, typ.ArrayOf(typ.Int, 0), Compatible},
		{"in without a container", "IN", typ.Int, typ.Int, Incompatible},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := BinaryOperator(tc.op, tc.left, tc.right)
			assert.Equal(t, tc.want, r.Verdict, "reason: %s", r.Reason)
		})
	}
}

func TestFunctionArguments(t *testing.T) {
	t.Parallel()

	split, ok := builtin.Lookup("string::split")
	require.True(t, ok)

	r := FunctionArguments(split, []typ.Type{typ.String, typ.String})
	assert.Equal(t, Compatible, r.Verdict)

	// the wrong argument is named by index and parameter
	r = FunctionArguments(split, []typ.Type{typ.String, typ.Int})
	assert.Equal(t, Incompatible, r.Verdict)
	assert.Contains(t, r.Reason, "argument 2 (separator) of string::split")

	r = FunctionArguments(split, []typ.Type{typ.String})
	assert.Equal(t, Incompatible, r.Verdict)
	assert.Contains(t, r.Reason, "at least 2")

	r = FunctionArguments(split, []typ.Type{typ.String, typ.String, typ.String})
	assert.Equal(t, Incompatible, r.Verdict)
	assert.Contains(t, r.Reason, "at most 2")
}

func TestFunctionArgumentsVariadic(t *testing.T) {
	t.Parallel()

	join, ok := builtin.Lookup("string::join")
	require.True(t, ok)
	require.True(t, join.Variadic)

	r := FunctionArguments(join, []typ.Type{typ.String, typ.String, typ.String, typ.String})
	assert.Equal(t, Compatible, r.Verdict)

	r = FunctionArguments(join, []typ.Type{typ.String, typ.String, typ.ArrayOf(typ.Int, 0)})
	assert.Equal(t, Incompatible, r.Verdict)
	assert.Contains(t, r.Reason, "argument 3")
}

func TestFunctionArgumentsOptional(t *testing.T) {
	t.Parallel()

	slice, ok := builtin.Lookup("array::slice")
	require.True(t, ok)

	r := FunctionArguments(slice, []typ.Type{typ.ArrayOf(typ.Any, 0), typ.Int})
	assert.Equal(t, Compatible, r.Verdict)

	r = FunctionArguments(slice, []typ.Type{typ.ArrayOf(typ.Any, 0), typ.Int, typ.Int})
	assert.Equal(t, Compatible, r.Verdict)
}

func TestResultOK(t *testing.T) {
	t.Parallel()

	assert.True(t, Result{Verdict: Compatible}.OK())
	assert.True(t, Result{Verdict: CompatibleWithConversion}.OK())
	assert.False(t, Result{Verdict: Incompatible}.OK())
}
