package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colorEnum() *Enum {
	return NewEnum(EnumConfig{
		Name: "Color",
		Values: []EnumValueConfig{
			{Name: "RED", Value: 0},
			{Name: "GREEN", Value: 1},
			{Name: "BLUE", Value: 2},
		},
	})
}

func TestEnum_SerializeAndParse_RoundTrip(t *testing.T) {
	e := colorEnum()

	name, err := e.Serialize(1)
	require.NoError(t, err)
	assert.Equal(t, "GREEN", name)

	v, err := e.ParseValue("GREEN")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestEnum_Serialize_UnknownInternalValue(t *testing.T) {
	e := colorEnum()

	_, err := e.Serialize(99)

	require.EqualError(t, err, `Enum "Color" cannot represent value: 99`)
}

func TestEnum_ParseValue_UnknownName(t *testing.T) {
	e := colorEnum()

	_, err := e.ParseValue("MAGENTA")
	require.EqualError(t, err, `value "MAGENTA" does not exist in "Color" enum`)

	_, err = e.ParseValue(3)
	require.EqualError(t, err, `Enum "Color" cannot represent non-string value: 3`)
}

func TestEnum_NilValue_DefaultsToName(t *testing.T) {
	e := NewEnum(EnumConfig{
		Name:   "Mode",
		Values: []EnumValueConfig{{Name: "FAST"}, {Name: "SAFE"}},
	})

	v, err := e.ParseValue("FAST")
	require.NoError(t, err)
	assert.Equal(t, "FAST", v)

	name, err := e.Serialize("SAFE")
	require.NoError(t, err)
	assert.Equal(t, "SAFE", name)
}

func TestEnum_Lookup_PointerValues_UseIdentity(t *testing.T) {
	type marker struct{ tag string }
	a := &marker{"a"}
	twin := &marker{"a"}
	e := NewEnum(EnumConfig{
		Name:   "Ptr",
		Values: []EnumValueConfig{{Name: "A", Value: a}},
	})

	name, err := e.Serialize(a)
	require.NoError(t, err)
	assert.Equal(t, "A", name)

	// A structurally equal but distinct pointer is a different value.
	_, err = e.Serialize(twin)
	require.Error(t, err)
}

func TestEnum_Lookup_SliceValues_UseDeepEquality(t *testing.T) {
	e := NewEnum(EnumConfig{
		Name:   "Sl",
		Values: []EnumValueConfig{{Name: "ONE_TWO", Value: []int{1, 2}}},
	})

	name, err := e.Serialize([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "ONE_TWO", name)

	_, err = e.Serialize([]int{2, 1})
	require.Error(t, err)
}

func TestEnum_Lookup_StructValues_UseDeepEquality(t *testing.T) {
	type point struct{ X, Y int }
	e := NewEnum(EnumConfig{
		Name:   "St",
		Values: []EnumValueConfig{{Name: "ORIGIN", Value: point{0, 0}}},
	})

	name, err := e.Serialize(point{0, 0})
	require.NoError(t, err)
	assert.Equal(t, "ORIGIN", name)
}

func TestEnum_CustomValueEqual(t *testing.T) {
	// Case-insensitive equality for string internals.
	e := NewEnum(EnumConfig{
		Name:   "Ci",
		Values: []EnumValueConfig{{Name: "YES", Value: "yes"}},
		ValueEqual: func(a, b any) bool {
			as, aok := a.(string)
			bs, bok := b.(string)
			return aok && bok && len(as) == len(bs) && (as == bs || as == "yes" && bs == "YES" || as == "yes" && bs == "Yes")
		},
	})

	name, err := e.Serialize("Yes")
	require.NoError(t, err)
	assert.Equal(t, "YES", name)
}

func TestEnum_ParseLiteral_FailureHasNoMessage(t *testing.T) {
	e := colorEnum()

	_, err := e.ParseLiteral(nil)

	require.Error(t, err)
	assert.Empty(t, err.Error())
}
