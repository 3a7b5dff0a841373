package schema

import (
	"fmt"
	"math"
	"strconv"

	language "github.com/verdantgql/verdant/language"
)

const (
	// MaxInt and MinInt bound the GraphQL Int scalar to signed 32 bits.
	MaxInt = math.MaxInt32
	MinInt = math.MinInt32
)

// Int is the built-in 32-bit signed integer scalar.
var Int = NewScalar(ScalarConfig{
	Name:        "Int",
	Description: "The `Int` scalar type represents non-fractional signed whole numeric values.",
	Serialize:   serializeInt,
	ParseValue:  parseIntValue,
	ParseLiteral: func(v *language.Value) (any, error) {
		if v == nil || v.Kind != language.IntValue {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %s", rawLiteral(v))
		}
		iv, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil || iv > MaxInt || iv < MinInt {
			return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %s", v.Raw)
		}
		return int32(iv), nil
	},
})

// Float is the built-in double-precision scalar.
var Float = NewScalar(ScalarConfig{
	Name:        "Float",
	Description: "The `Float` scalar type represents signed double-precision fractional values.",
	Serialize:   serializeFloat,
	ParseValue:  parseFloatValue,
	ParseLiteral: func(v *language.Value) (any, error) {
		if v == nil || (v.Kind != language.FloatValue && v.Kind != language.IntValue) {
			return nil, fmt.Errorf("Float cannot represent non numeric value: %s", rawLiteral(v))
		}
		fv, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			return nil, fmt.Errorf("Float cannot represent non numeric value: %s", v.Raw)
		}
		return fv, nil
	},
})

// String is the built-in UTF-8 string scalar.
var String = NewScalar(ScalarConfig{
	Name:        "String",
	Description: "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
	Serialize:   serializeString,
	ParseValue: func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("String cannot represent a non string value: %v", printValue(v))
		}
		return s, nil
	},
	ParseLiteral: func(v *language.Value) (any, error) {
		if v == nil || (v.Kind != language.StringValue && v.Kind != language.BlockValue) {
			return nil, fmt.Errorf("String cannot represent a non string value: %s", rawLiteral(v))
		}
		return v.Raw, nil
	},
})

// Boolean is the built-in true/false scalar.
var Boolean = NewScalar(ScalarConfig{
	Name:        "Boolean",
	Description: "The `Boolean` scalar type represents `true` or `false`.",
	Serialize:   serializeBoolean,
	ParseValue: func(v any) (any, error) {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", printValue(v))
		}
		return b, nil
	},
	ParseLiteral: func(v *language.Value) (any, error) {
		if v == nil || v.Kind != language.BooleanValue {
			return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %s", rawLiteral(v))
		}
		return v.Raw == "true", nil
	},
})

// ID is the built-in opaque identifier scalar, serialized as a string.
var ID = NewScalar(ScalarConfig{
	Name:        "ID",
	Description: "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.",
	Serialize:   serializeID,
	ParseValue:  parseIDValue,
	ParseLiteral: func(v *language.Value) (any, error) {
		if v == nil || (v.Kind != language.StringValue && v.Kind != language.IntValue) {
			return nil, fmt.Errorf("ID cannot represent value: %s", rawLiteral(v))
		}
		return v.Raw, nil
	},
})

// IncludeDirective directs the executor to include this field or fragment
// only when the `if` argument is true.
var IncludeDirective = &Directive{
	Name:        "include",
	Description: "Directs the executor to include this field or fragment only when the `if` argument is true.",
	Args: []*Argument{
		{Name: "if", Description: "Included when true.", Type: NonNullOf(Boolean)},
	},
	Locations: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
}

// SkipDirective directs the executor to skip this field or fragment when the
// `if` argument is true.
var SkipDirective = &Directive{
	Name:        "skip",
	Description: "Directs the executor to skip this field or fragment when the `if` argument is true.",
	Args: []*Argument{
		{Name: "if", Description: "Skipped when true.", Type: NonNullOf(Boolean)},
	},
	Locations: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
}

func serializeInt(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		if v {
			return int32(1), nil
		}
		return int32(0), nil
	case int:
		return intInRange(int64(v), value)
	case int8:
		return int32(v), nil
	case int16:
		return int32(v), nil
	case int32:
		return v, nil
	case int64:
		return intInRange(v, value)
	case uint:
		return intInRange(int64(v), value)
	case uint8:
		return int32(v), nil
	case uint16:
		return int32(v), nil
	case uint32:
		return intInRange(int64(v), value)
	case uint64:
		if v > uint64(MaxInt) {
			return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %v", value)
		}
		return int32(v), nil
	case float32:
		return floatToInt(float64(v), value)
	case float64:
		return floatToInt(v, value)
	case string:
		fv, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %v", printValue(value))
		}
		return floatToInt(fv, value)
	default:
		return nil, fmt.Errorf("Int cannot represent non-integer value: %v", printValue(value))
	}
}

func floatToInt(f float64, orig any) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("Int cannot represent non-integer value: %v", printValue(orig))
	}
	return intInRange(int64(f), orig)
}

func intInRange(i int64, orig any) (any, error) {
	if i > MaxInt || i < MinInt {
		return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %v", printValue(orig))
	}
	return int32(i), nil
}

func parseIntValue(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return intInRange(int64(v), value)
	case int32:
		return v, nil
	case int64:
		return intInRange(v, value)
	case float64:
		// JSON numbers decode as float64; integral values are accepted.
		return floatToInt(v, value)
	default:
		return nil, fmt.Errorf("Int cannot represent non-integer value: %v", printValue(value))
	}
}

func serializeFloat(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		if v {
			return float64(1), nil
		}
		return float64(0), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return finiteFloat(float64(v), value)
	case float64:
		return finiteFloat(v, value)
	case string:
		fv, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("Float cannot represent non numeric value: %v", printValue(value))
		}
		return finiteFloat(fv, value)
	default:
		return nil, fmt.Errorf("Float cannot represent non numeric value: %v", printValue(value))
	}
}

func finiteFloat(f float64, orig any) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("Float cannot represent non numeric value: %v", printValue(orig))
	}
	return f, nil
}

func parseFloatValue(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return finiteFloat(float64(v), value)
	case float64:
		return finiteFloat(v, value)
	default:
		return nil, fmt.Errorf("Float cannot represent non numeric value: %v", printValue(value))
	}
}

func serializeString(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		// Matches loose scalar-to-string conversion: true is "1", false is "".
		if v {
			return "1", nil
		}
		return "", nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("String cannot represent value: %v", printValue(value))
	}
}

func serializeBoolean(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int8:
		return v != 0, nil
	case int16:
		return v != 0, nil
	case int32:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case uint:
		return v != 0, nil
	case uint8:
		return v != 0, nil
	case uint16:
		return v != 0, nil
	case uint32:
		return v != 0, nil
	case uint64:
		return v != 0, nil
	case float32:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		// Loose scalar truthiness: "" and "0" are false, any other string true.
		return v != "" && v != "0", nil
	default:
		return nil, fmt.Errorf("Boolean cannot represent a non scalar value: %v", printValue(value))
	}
}

func serializeID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("ID cannot represent value: %v", printValue(value))
	}
}

func parseIDValue(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return nil, fmt.Errorf("ID cannot represent value: %v", printValue(value))
	default:
		return nil, fmt.Errorf("ID cannot represent value: %v", printValue(value))
	}
}

// printValue renders an offending value for error messages, quoting strings
// so empty and whitespace values stay visible.
func printValue(v any) string {
	switch s := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func rawLiteral(v *language.Value) string {
	if v == nil {
		return "null"
	}
	return v.String()
}
