package typ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualIsStructural(t *testing.T) {
	t.Parallel()

	assert.True(t, ArrayOf(Int, 0).Equal(ArrayOf(Int, 0)))
	assert.False(t, ArrayOf(Int, 0).Equal(ArrayOf(String, 0)))
	assert.False(t, ArrayOf(Int, 3).Equal(ArrayOf(Int, 0)))

	a := ObjectOf(map[string]Type{"name": String, "age": Int}, false)
	b := ObjectOf(map[string]Type{"age": Int, "name": String}, false)
	assert.True(t, a.Equal(b))

	assert.True(t, RecordOf("b", "a").Equal(RecordOf("a", "b")), "table order is normalized")
	assert.False(t, RecordOf("a").Equal(RecordOf("a", "b")))
}

func TestUnionOfFlattensAndDedupes(t *testing.T) {
	t.Parallel()

	u := UnionOf(UnionOf(Int, String), String)
	assert.True(t, u.Equal(UnionOf(Int, String)))

	assert.True(t, UnionOf(Int).Equal(Int), "a single member collapses")
	assert.True(t, UnionOf().Equal(Never), "the empty union is never")
	assert.True(t, UnionOf(Int, Any, String).Equal(Any), "any absorbs the union")
	assert.True(t, UnionOf(Int, Int, Int).Equal(Int))
}

func TestOptionOfCollapses(t *testing.T) {
	t.Parallel()

	assert.True(t, OptionOf(OptionOf(Int)).Equal(OptionOf(Int)))
}

func TestCommonType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Type
		want Type
	}{
		{"identical", Int, Int, Int},
		{"int and float promote", Int, Float, Number},
		{"decimal dominates", Int, Decimal, Decimal},
		{"null makes option", Null, String, OptionOf(String)},
		{"none makes option", Int, None, OptionOf(Int)},
		{"unknown wins", Unknown, Int, Unknown},
		{"any wins", Any, Int, Any},
		{"unrelated fall back to union", String, Bool, UnionOf(String, Bool)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CommonType(tc.a, tc.b)
			assert.True(t, got.Equal(tc.want), "got %s, want %s", got, tc.want)
		})
	}
}

func TestParseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want Type
	}{
		{"int", Int},
		{"STRING", String},
		{"array<string>", ArrayOf(String, 0)},
		{"array<string, 3>", ArrayOf(String, 3)},
		{"set<int>", SetOf(Int)},
		{"option<int>", OptionOf(Int)},
		{"record<person>", RecordOf("person")},
		{"record<person | user>", RecordOf("person", "user")},
		{"record", RecordOf()},
		{"int | string", UnionOf(Int, String)},
		{"array<record<a | b>>", ArrayOf(RecordOf("a", "b"), 0)},
		{"geometry<point>", GeometryOf("point")},
		{"object", FreeObject()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseName(tc.name)
			require.True(t, ok)
			assert.True(t, got.Equal(tc.want), "got %s, want %s", got, tc.want)
		})
	}

	_, ok := ParseName("definitely_not_a_type")
	assert.False(t, ok)
	_, ok = ParseName("array<string")
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "array<string, 3>", ArrayOf(String, 3).String())
	assert.Equal(t, "record<person | user>", RecordOf("user", "person").String())
	assert.Equal(t, "option<int>", OptionOf(Int).String())
	assert.Equal(t, "int | string", UnionOf(Int, String).String())
	assert.Equal(t, "array", ArrayOf(Any, 0).String())
}

func TestElemType(t *testing.T) {
	t.Parallel()

	elem, ok := ArrayOf(Int, 0).ElemType()
	require.True(t, ok)
	assert.True(t, elem.Equal(Int))

	elem, ok = OptionOf(SetOf(String)).ElemType()
	require.True(t, ok)
	assert.True(t, elem.Equal(String), "elem access looks through option")

	_, ok = String.ElemType()
	assert.False(t, ok)
}

func TestIsNullable(t *testing.T) {
	t.Parallel()

	assert.True(t, Null.IsNullable())
	assert.True(t, OptionOf(Int).IsNullable())
	assert.True(t, UnionOf(Int, Null).IsNullable())
	assert.False(t, Int.IsNullable())
}
