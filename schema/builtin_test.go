package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt_Serialize(t *testing.T) {
	cases := []struct {
		name    string
		in      any
		want    any
		wantErr string
	}{
		{name: "int", in: 42, want: int32(42)},
		{name: "int32", in: int32(-7), want: int32(-7)},
		{name: "int64 in range", in: int64(123), want: int32(123)},
		{name: "bool true", in: true, want: int32(1)},
		{name: "bool false", in: false, want: int32(0)},
		{name: "integral float", in: 5.0, want: int32(5)},
		{name: "numeric string", in: "12", want: int32(12)},
		{name: "max", in: int64(math.MaxInt32), want: int32(math.MaxInt32)},
		{name: "min", in: int64(math.MinInt32), want: int32(math.MinInt32)},
		{name: "overflow", in: int64(math.MaxInt32) + 1, wantErr: "Int cannot represent non 32-bit signed integer value"},
		{name: "underflow", in: int64(math.MinInt32) - 1, wantErr: "Int cannot represent non 32-bit signed integer value"},
		{name: "fractional float", in: 1.5, wantErr: "Int cannot represent non-integer value"},
		{name: "non numeric string", in: "abc", wantErr: "Int cannot represent non-integer value"},
		{name: "nil", in: nil, wantErr: "Int cannot represent non-integer value"},
		{name: "slice", in: []any{1}, wantErr: "Int cannot represent non-integer value"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Int.Serialize(tc.in)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInt_ErrorMessages_DistinguishRangeFromKind(t *testing.T) {
	_, overflowErr := Int.Serialize(int64(1) << 40)
	require.EqualError(t, overflowErr, "Int cannot represent non 32-bit signed integer value: 1099511627776")

	_, kindErr := Int.Serialize("oops")
	require.EqualError(t, kindErr, `Int cannot represent non-integer value: "oops"`)
}

func TestFloat_Serialize(t *testing.T) {
	cases := []struct {
		name    string
		in      any
		want    any
		wantErr bool
	}{
		{name: "float64", in: 1.25, want: 1.25},
		{name: "int", in: 3, want: 3.0},
		{name: "bool", in: true, want: 1.0},
		{name: "numeric string", in: "2.5", want: 2.5},
		{name: "NaN", in: math.NaN(), wantErr: true},
		{name: "Inf", in: math.Inf(1), wantErr: true},
		{name: "non numeric string", in: "x", wantErr: true},
		{name: "nil", in: nil, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Float.Serialize(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Float cannot represent non numeric value")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestString_Serialize(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{name: "string", in: "hello", want: "hello"},
		{name: "nil", in: nil, want: ""},
		{name: "true", in: true, want: "1"},
		{name: "false", in: false, want: ""},
		{name: "int", in: 12, want: "12"},
		{name: "float", in: 1.5, want: "1.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := String.Serialize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := String.Serialize([]any{})
	require.Error(t, err)
}

func TestBoolean_Serialize(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want bool
	}{
		{name: "true", in: true, want: true},
		{name: "false", in: false, want: false},
		{name: "zero int", in: 0, want: false},
		{name: "nonzero int", in: 7, want: true},
		{name: "zero float", in: 0.0, want: false},
		{name: "empty string", in: "", want: false},
		{name: "zero string", in: "0", want: false},
		{name: "other string", in: "false", want: true},
		{name: "nil", in: nil, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Boolean.Serialize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := Boolean.Serialize(map[string]any{})
	require.EqualError(t, err, "Boolean cannot represent a non scalar value: map[]")
}

func TestID_Serialize(t *testing.T) {
	got, err := ID.Serialize("user:1")
	require.NoError(t, err)
	assert.Equal(t, "user:1", got)

	got, err = ID.Serialize(42)
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	_, err = ID.Serialize(1.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ID cannot represent value")

	_, err = ID.Serialize(true)
	require.Error(t, err)
}

func TestInt_ParseValue_JSONNumbers(t *testing.T) {
	got, err := Int.ParseValue(7.0)
	require.NoError(t, err)
	assert.Equal(t, int32(7), got)

	_, err = Int.ParseValue(7.5)
	require.Error(t, err)

	// Runtime coercion is stricter than serialization: strings are rejected.
	_, err = Int.ParseValue("7")
	require.Error(t, err)
}

func TestString_ParseValue_RejectsNonStrings(t *testing.T) {
	_, err := String.ParseValue(3)
	require.EqualError(t, err, "String cannot represent a non string value: 3")
}

func TestID_ParseValue(t *testing.T) {
	got, err := ID.ParseValue(7.0)
	require.NoError(t, err)
	assert.Equal(t, "7", got)

	_, err = ID.ParseValue(7.5)
	require.Error(t, err)

	_, err = ID.ParseValue(true)
	require.Error(t, err)
}
