package schema

import (
	"strconv"
	"sync"

	language "github.com/verdantgql/verdant/language"
)

// Type is any GraphQL type reference: a named type, a List/NonNull wrapper,
// or a lazy reference created with Lazy.
type Type interface {
	String() string
	isType()
}

// NamedType is a uniquely named schema type: Scalar, Enum, Object, Interface,
// Union or InputObject.
type NamedType interface {
	Type
	TypeName() string
}

// Lazy defers a type reference so mutually recursive definitions can be
// declared in any order. The thunk runs at most once; its result is cached,
// so repeated resolution is cheap and always yields the identical type value.
func Lazy(fn func() Type) Type {
	return &lazyType{fn: fn}
}

type lazyType struct {
	once sync.Once
	fn   func() Type
	t    Type
}

func (l *lazyType) isType() {}

func (l *lazyType) String() string { return l.resolve().String() }

func (l *lazyType) resolve() Type {
	l.once.Do(func() {
		l.t = Resolve(l.fn())
		l.fn = nil
	})
	return l.t
}

// Resolve evaluates lazy references until a concrete type is reached.
// Passing a concrete type returns it unchanged.
func Resolve(t Type) Type {
	for {
		l, ok := t.(*lazyType)
		if !ok {
			return t
		}
		t = l.resolve()
	}
}

// List is a structural wrapper holding an ordered collection of its inner type.
type List struct {
	ofType Type
}

// ListOf returns a List wrapping t.
func ListOf(t Type) *List { return &List{ofType: t} }

func (t *List) isType() {}

func (t *List) OfType() Type { return Resolve(t.ofType) }

func (t *List) String() string { return "[" + t.OfType().String() + "]" }

// NonNull is a structural wrapper declaring that its inner type never
// resolves to null. Wrapping another NonNull is a schema validation error.
type NonNull struct {
	ofType Type
}

// NonNullOf returns a NonNull wrapping t.
func NonNullOf(t Type) *NonNull { return &NonNull{ofType: t} }

func (t *NonNull) isType() {}

func (t *NonNull) OfType() Type { return Resolve(t.ofType) }

func (t *NonNull) String() string { return t.OfType().String() + "!" }

// SerializeFn converts an internal leaf value to its external representation.
type SerializeFn func(value any) (any, error)

// ParseValueFn converts an externally supplied value (e.g. a variable) to the
// internal representation.
type ParseValueFn func(value any) (any, error)

// ParseLiteralFn converts a query literal to the internal representation.
type ParseLiteralFn func(value *language.Value) (any, error)

// ScalarConfig configures a scalar type.
type ScalarConfig struct {
	Name         string
	Description  string
	Serialize    SerializeFn
	ParseValue   ParseValueFn
	ParseLiteral ParseLiteralFn
}

// Scalar is a leaf type serialized directly to and from external values.
type Scalar struct {
	name         string
	description  string
	serialize    SerializeFn
	parseValue   ParseValueFn
	parseLiteral ParseLiteralFn
}

func NewScalar(cfg ScalarConfig) *Scalar {
	return &Scalar{
		name:         cfg.Name,
		description:  cfg.Description,
		serialize:    cfg.Serialize,
		parseValue:   cfg.ParseValue,
		parseLiteral: cfg.ParseLiteral,
	}
}

func (t *Scalar) isType() {}

func (t *Scalar) TypeName() string    { return t.name }
func (t *Scalar) String() string      { return t.name }
func (t *Scalar) Description() string { return t.description }

func (t *Scalar) Serialize(value any) (any, error) {
	if t.serialize == nil {
		return value, nil
	}
	return t.serialize(value)
}

func (t *Scalar) ParseValue(value any) (any, error) {
	if t.parseValue == nil {
		return value, nil
	}
	return t.parseValue(value)
}

func (t *Scalar) ParseLiteral(value *language.Value) (any, error) {
	if t.parseLiteral == nil {
		return literalToGo(value), nil
	}
	return t.parseLiteral(value)
}

// ObjectConfig configures an object type. Fields and FieldsFn are mutually
// exclusive; FieldsFn defers field construction for cyclic schemas.
type ObjectConfig struct {
	Name        string
	Description string
	Fields      Fields
	FieldsFn    func() Fields
	Interfaces  []*Interface
}

// Object is a concrete composite type with a non-empty ordered field set.
type Object struct {
	name        string
	description string
	interfaces  []*Interface

	fieldsOnce sync.Once
	fieldsFn   func() Fields
	fields     Fields
	fieldIndex map[string]*Field
}

func NewObject(cfg ObjectConfig) *Object {
	t := &Object{name: cfg.Name, description: cfg.Description, interfaces: cfg.Interfaces}
	if cfg.FieldsFn != nil {
		t.fieldsFn = cfg.FieldsFn
	} else {
		fields := cfg.Fields
		t.fieldsFn = func() Fields { return fields }
	}
	return t
}

func (t *Object) isType() {}

func (t *Object) TypeName() string          { return t.name }
func (t *Object) String() string            { return t.name }
func (t *Object) Description() string       { return t.description }
func (t *Object) Interfaces() []*Interface  { return t.interfaces }

// Fields returns the ordered field set, invoking the deferred constructor on
// first use.
func (t *Object) Fields() Fields {
	t.resolveFields()
	return t.fields
}

// Field returns the field definition with the given name, or nil.
func (t *Object) Field(name string) *Field {
	t.resolveFields()
	return t.fieldIndex[name]
}

func (t *Object) resolveFields() {
	t.fieldsOnce.Do(func() {
		t.fields = t.fieldsFn()
		t.fieldsFn = nil
		t.fieldIndex = make(map[string]*Field, len(t.fields))
		for _, f := range t.fields {
			t.fieldIndex[f.Name] = f
		}
	})
}

// InterfaceConfig configures an interface type.
type InterfaceConfig struct {
	Name        string
	Description string
	Fields      Fields
	FieldsFn    func() Fields
	ResolveType TypeResolver
}

// Interface is an abstract type resolved to a concrete Object at runtime.
type Interface struct {
	name        string
	description string
	resolveType TypeResolver

	fieldsOnce sync.Once
	fieldsFn   func() Fields
	fields     Fields
	fieldIndex map[string]*Field
}

func NewInterface(cfg InterfaceConfig) *Interface {
	t := &Interface{name: cfg.Name, description: cfg.Description, resolveType: cfg.ResolveType}
	if cfg.FieldsFn != nil {
		t.fieldsFn = cfg.FieldsFn
	} else {
		fields := cfg.Fields
		t.fieldsFn = func() Fields { return fields }
	}
	return t
}

func (t *Interface) isType() {}

func (t *Interface) TypeName() string          { return t.name }
func (t *Interface) String() string            { return t.name }
func (t *Interface) Description() string       { return t.description }
func (t *Interface) ResolveType() TypeResolver { return t.resolveType }

func (t *Interface) Fields() Fields {
	t.resolveFields()
	return t.fields
}

func (t *Interface) Field(name string) *Field {
	t.resolveFields()
	return t.fieldIndex[name]
}

func (t *Interface) resolveFields() {
	t.fieldsOnce.Do(func() {
		t.fields = t.fieldsFn()
		t.fieldsFn = nil
		t.fieldIndex = make(map[string]*Field, len(t.fields))
		for _, f := range t.fields {
			t.fieldIndex[f.Name] = f
		}
	})
}

// UnionConfig configures a union type.
type UnionConfig struct {
	Name        string
	Description string
	Types       []*Object
	TypesFn     func() []*Object
	ResolveType TypeResolver
}

// Union is an abstract type whose value is exactly one of its member objects.
type Union struct {
	name        string
	description string
	resolveType TypeResolver

	typesOnce sync.Once
	typesFn   func() []*Object
	types     []*Object
}

func NewUnion(cfg UnionConfig) *Union {
	t := &Union{name: cfg.Name, description: cfg.Description, resolveType: cfg.ResolveType}
	if cfg.TypesFn != nil {
		t.typesFn = cfg.TypesFn
	} else {
		types := cfg.Types
		t.typesFn = func() []*Object { return types }
	}
	return t
}

func (t *Union) isType() {}

func (t *Union) TypeName() string          { return t.name }
func (t *Union) String() string            { return t.name }
func (t *Union) Description() string       { return t.description }
func (t *Union) ResolveType() TypeResolver { return t.resolveType }

func (t *Union) Types() []*Object {
	t.typesOnce.Do(func() {
		t.types = t.typesFn()
		t.typesFn = nil
	})
	return t.types
}

// HasMember reports whether obj is one of the union's member types.
func (t *Union) HasMember(obj *Object) bool {
	for _, m := range t.Types() {
		if m == obj {
			return true
		}
	}
	return false
}

// InputField is a named member of an input object.
type InputField struct {
	Name        string
	Description string
	Type        Type
	// DefaultValue is the internal value used when the field is absent.
	// nil means no default.
	DefaultValue any
}

// InputObjectConfig configures an input object type.
type InputObjectConfig struct {
	Name        string
	Description string
	Fields      []*InputField
	FieldsFn    func() []*InputField
}

// InputObject is a composite input-only type.
type InputObject struct {
	name        string
	description string

	fieldsOnce sync.Once
	fieldsFn   func() []*InputField
	fields     []*InputField
	fieldIndex map[string]*InputField
}

func NewInputObject(cfg InputObjectConfig) *InputObject {
	t := &InputObject{name: cfg.Name, description: cfg.Description}
	if cfg.FieldsFn != nil {
		t.fieldsFn = cfg.FieldsFn
	} else {
		fields := cfg.Fields
		t.fieldsFn = func() []*InputField { return fields }
	}
	return t
}

func (t *InputObject) isType() {}

func (t *InputObject) TypeName() string    { return t.name }
func (t *InputObject) String() string      { return t.name }
func (t *InputObject) Description() string { return t.description }

func (t *InputObject) Fields() []*InputField {
	t.resolveFields()
	return t.fields
}

func (t *InputObject) Field(name string) *InputField {
	t.resolveFields()
	return t.fieldIndex[name]
}

func (t *InputObject) resolveFields() {
	t.fieldsOnce.Do(func() {
		t.fields = t.fieldsFn()
		t.fieldsFn = nil
		t.fieldIndex = make(map[string]*InputField, len(t.fields))
		for _, f := range t.fields {
			t.fieldIndex[f.Name] = f
		}
	})
}

// literalToGo converts an AST literal to a plain Go value without type
// direction. Used by custom scalars that do not supply ParseLiteral.
func literalToGo(value *language.Value) any {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case language.IntValue:
		iv, err := strconv.ParseInt(value.Raw, 10, 64)
		if err != nil {
			return value.Raw
		}
		return iv
	case language.FloatValue:
		fv, err := strconv.ParseFloat(value.Raw, 64)
		if err != nil {
			return value.Raw
		}
		return fv
	case language.StringValue, language.BlockValue, language.EnumValue:
		return value.Raw
	case language.BooleanValue:
		return value.Raw == "true"
	case language.NullValue:
		return nil
	case language.ListValue:
		out := make([]any, len(value.Children))
		for i, c := range value.Children {
			out[i] = literalToGo(c.Value)
		}
		return out
	case language.ObjectValue:
		m := make(map[string]any, len(value.Children))
		for _, c := range value.Children {
			m[c.Name] = literalToGo(c.Value)
		}
		return m
	default:
		return nil
	}
}
