// Package schema models the GraphQL type graph: named types, List/NonNull
// wrappers, built-in scalar coercion, and the resolver contracts the
// executor invokes. A Schema is immutable after construction and safe for
// concurrent use across requests.
package schema

import (
	"fmt"
)

// Config configures a schema. Query is required; everything reachable from
// the root types is collected into the type map. Types lists named types that
// are only reachable at runtime (e.g. object types behind an interface that
// no field references directly).
type Config struct {
	Query        *Object
	Mutation     *Object
	Subscription *Object
	Types        []NamedType
	Directives   []*Directive
	Description  string
}

// Schema is a validated, immutable type graph plus root operation types.
type Schema struct {
	query        *Object
	mutation     *Object
	subscription *Object
	typeMap      map[string]NamedType
	directives   []*Directive
	description  string

	possible map[string][]*Object // abstract type name -> concrete members
}

// New collects every type reachable from the configured roots, verifies the
// structural invariants of the graph, and returns the schema. A non-nil error
// is a configuration fault and should be treated as fatal.
func New(cfg Config) (*Schema, error) {
	if cfg.Query == nil {
		return nil, fmt.Errorf("schema: query root type must be provided")
	}
	s := &Schema{
		query:        cfg.Query,
		mutation:     cfg.Mutation,
		subscription: cfg.Subscription,
		typeMap:      make(map[string]NamedType),
		description:  cfg.Description,
		possible:     make(map[string][]*Object),
	}

	s.directives = append(s.directives, cfg.Directives...)
	if s.directive("skip") == nil {
		s.directives = append(s.directives, SkipDirective)
	}
	if s.directive("include") == nil {
		s.directives = append(s.directives, IncludeDirective)
	}

	roots := []Type{Int, Float, String, Boolean, ID, cfg.Query}
	if cfg.Mutation != nil {
		roots = append(roots, cfg.Mutation)
	}
	if cfg.Subscription != nil {
		roots = append(roots, cfg.Subscription)
	}
	for _, t := range cfg.Types {
		roots = append(roots, t)
	}
	for _, d := range s.directives {
		for _, a := range d.Args {
			roots = append(roots, a.Type)
		}
	}
	for _, t := range roots {
		if err := s.collect(t); err != nil {
			return nil, err
		}
	}

	for _, t := range s.typeMap {
		if err := validateType(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustNew is New, panicking on configuration errors. Intended for schemas
// built from static definitions at program start.
func MustNew(cfg Config) *Schema {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) QueryType() *Object        { return s.query }
func (s *Schema) MutationType() *Object     { return s.mutation }
func (s *Schema) SubscriptionType() *Object { return s.subscription }
func (s *Schema) Description() string       { return s.description }

// Type returns the named type registered under name, or nil.
func (s *Schema) Type(name string) NamedType { return s.typeMap[name] }

// Types returns the full type map keyed by name.
func (s *Schema) Types() map[string]NamedType { return s.typeMap }

// Directives returns the directive list, always including skip and include.
func (s *Schema) Directives() []*Directive { return s.directives }

func (s *Schema) directive(name string) *Directive {
	for _, d := range s.directives {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// PossibleTypes returns the concrete object types a value of the given
// abstract type may resolve to.
func (s *Schema) PossibleTypes(abstract NamedType) []*Object {
	return s.possible[abstract.TypeName()]
}

// Implements reports whether obj declares the given interface.
func (s *Schema) Implements(obj *Object, iface *Interface) bool {
	for _, candidate := range s.possible[iface.TypeName()] {
		if candidate == obj {
			return true
		}
	}
	return false
}

// collect walks a type reference, registering every named type it reaches.
// Two references to the same name must resolve to the identical type value.
func (s *Schema) collect(t Type) error {
	switch tt := Resolve(t).(type) {
	case nil:
		return fmt.Errorf("schema: nil type reference")
	case *List:
		return s.collect(tt.OfType())
	case *NonNull:
		if _, ok := tt.OfType().(*NonNull); ok {
			return fmt.Errorf("schema: non-null cannot wrap another non-null type (%s)", tt)
		}
		return s.collect(tt.OfType())
	case NamedType:
		name := tt.TypeName()
		if prev, ok := s.typeMap[name]; ok {
			if prev != tt {
				return fmt.Errorf("schema: duplicate type name %q registered by two distinct types", name)
			}
			return nil
		}
		s.typeMap[name] = tt
		return s.collectNamed(tt)
	default:
		return fmt.Errorf("schema: unexpected type reference %T", t)
	}
}

func (s *Schema) collectNamed(t NamedType) error {
	switch tt := t.(type) {
	case *Scalar, *Enum:
		return nil
	case *Object:
		for _, iface := range tt.Interfaces() {
			s.possible[iface.TypeName()] = append(s.possible[iface.TypeName()], tt)
			if err := s.collect(iface); err != nil {
				return err
			}
		}
		return s.collectFieldSet(tt.Fields())
	case *Interface:
		return s.collectFieldSet(tt.Fields())
	case *Union:
		for _, m := range tt.Types() {
			s.possible[tt.TypeName()] = append(s.possible[tt.TypeName()], m)
			if err := s.collect(m); err != nil {
				return err
			}
		}
		return nil
	case *InputObject:
		for _, f := range tt.Fields() {
			if err := s.collect(f.Type); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("schema: unexpected named type %T", t)
	}
}

func (s *Schema) collectFieldSet(fields Fields) error {
	for _, f := range fields {
		if err := s.collect(f.Type); err != nil {
			return err
		}
		for _, a := range f.Args {
			if err := s.collect(a.Type); err != nil {
				return err
			}
		}
	}
	return nil
}
