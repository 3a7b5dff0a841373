package schema

import (
	"fmt"
	"reflect"

	language "github.com/verdantgql/verdant/language"
)

// EnumValueConfig declares a single enum value. Value is the internal
// representation; when nil the name itself is used.
type EnumValueConfig struct {
	Name              string
	Description       string
	Value             any
	DeprecationReason string
}

// EnumValue is a declared member of an enum type.
type EnumValue struct {
	Name              string
	Description       string
	Value             any
	DeprecationReason string
}

// EnumConfig configures an enum type. ValueEqual overrides the equality
// strategy used by the internal-value reverse lookup.
type EnumConfig struct {
	Name        string
	Description string
	Values      []EnumValueConfig
	ValueEqual  func(a, b any) bool
}

// Enum is a leaf type whose external representation is one of a fixed set of
// names. Internal values are arbitrary; the reverse lookup (internal value to
// name) therefore cannot rely on map keys and instead scans declared values
// with an equality strategy: identity for pointer-like values, structural
// equality for slices, arrays and structs, native equality otherwise.
type Enum struct {
	name        string
	description string
	values      []*EnumValue
	byName      map[string]*EnumValue
	valueEqual  func(a, b any) bool
}

func NewEnum(cfg EnumConfig) *Enum {
	t := &Enum{
		name:        cfg.Name,
		description: cfg.Description,
		byName:      make(map[string]*EnumValue, len(cfg.Values)),
		valueEqual:  cfg.ValueEqual,
	}
	if t.valueEqual == nil {
		t.valueEqual = sameInternalValue
	}
	for _, vc := range cfg.Values {
		v := &EnumValue{
			Name:              vc.Name,
			Description:       vc.Description,
			Value:             vc.Value,
			DeprecationReason: vc.DeprecationReason,
		}
		if v.Value == nil {
			v.Value = v.Name
		}
		t.values = append(t.values, v)
		t.byName[v.Name] = v
	}
	return t
}

func (t *Enum) isType() {}

func (t *Enum) TypeName() string     { return t.name }
func (t *Enum) String() string       { return t.name }
func (t *Enum) Description() string  { return t.description }
func (t *Enum) Values() []*EnumValue { return t.values }

// Value returns the declared enum value with the given name, or nil.
func (t *Enum) Value(name string) *EnumValue { return t.byName[name] }

// Lookup finds the declared enum value whose internal value equals v.
func (t *Enum) Lookup(v any) *EnumValue {
	for _, ev := range t.values {
		if t.valueEqual(ev.Value, v) {
			return ev
		}
	}
	return nil
}

// Serialize maps an outgoing internal value to its enum name.
func (t *Enum) Serialize(value any) (any, error) {
	if ev := t.Lookup(value); ev != nil {
		return ev.Name, nil
	}
	return nil, fmt.Errorf("Enum %q cannot represent value: %v", t.name, value)
}

// ParseValue maps an enum name supplied as input to its internal value.
func (t *Enum) ParseValue(value any) (any, error) {
	name, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("Enum %q cannot represent non-string value: %v", t.name, value)
	}
	if ev := t.byName[name]; ev != nil {
		return ev.Value, nil
	}
	return nil, fmt.Errorf("value %q does not exist in %q enum", name, t.name)
}

// ParseLiteral maps an enum literal to its internal value. A failure carries
// no message; the caller wraps it with location context.
func (t *Enum) ParseLiteral(value *language.Value) (any, error) {
	if value == nil || value.Kind != language.EnumValue {
		return nil, errInvalidEnumLiteral
	}
	if ev := t.byName[value.Raw]; ev != nil {
		return ev.Value, nil
	}
	return nil, errInvalidEnumLiteral
}

var errInvalidEnumLiteral = fmt.Errorf("")

func sameInternalValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ra.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rb.Kind() == ra.Kind() && ra.Pointer() == rb.Pointer()
	case reflect.Slice, reflect.Array, reflect.Struct:
		return reflect.DeepEqual(a, b)
	default:
		if ra.Type() == rb.Type() && ra.Type().Comparable() {
			return a == b
		}
		return reflect.DeepEqual(a, b)
	}
}
