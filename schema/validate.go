package schema

import (
	"fmt"
	"regexp"
)

var nameRe = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// validateType enforces the structural invariants of one named type.
// Violations are configuration errors, raised once at schema build time.
func validateType(t NamedType) error {
	if !nameRe.MatchString(t.TypeName()) {
		return fmt.Errorf("schema: invalid type name %q", t.TypeName())
	}
	switch tt := t.(type) {
	case *Scalar, *Enum:
		if e, ok := tt.(*Enum); ok && len(e.Values()) == 0 {
			return fmt.Errorf("schema: enum %q must define at least one value", e.TypeName())
		}
		if e, ok := tt.(*Enum); ok {
			seen := make(map[string]struct{}, len(e.Values()))
			for _, v := range e.Values() {
				if !nameRe.MatchString(v.Name) {
					return fmt.Errorf("schema: enum %q has invalid value name %q", e.TypeName(), v.Name)
				}
				if _, dup := seen[v.Name]; dup {
					return fmt.Errorf("schema: enum %q declares value %q more than once", e.TypeName(), v.Name)
				}
				seen[v.Name] = struct{}{}
			}
		}
		return nil
	case *Object:
		return validateFieldSet(t.TypeName(), tt.Fields())
	case *Interface:
		return validateFieldSet(t.TypeName(), tt.Fields())
	case *Union:
		members := tt.Types()
		if len(members) == 0 {
			return fmt.Errorf("schema: union %q must list at least one member type", t.TypeName())
		}
		seen := make(map[*Object]struct{}, len(members))
		for _, m := range members {
			if m == nil {
				return fmt.Errorf("schema: union %q has a nil member", t.TypeName())
			}
			if _, dup := seen[m]; dup {
				return fmt.Errorf("schema: union %q lists member %q more than once", t.TypeName(), m.TypeName())
			}
			seen[m] = struct{}{}
		}
		return nil
	case *InputObject:
		if len(tt.Fields()) == 0 {
			return fmt.Errorf("schema: input object %q must define at least one field", t.TypeName())
		}
		for _, f := range tt.Fields() {
			if !nameRe.MatchString(f.Name) {
				return fmt.Errorf("schema: input object %q has invalid field name %q", t.TypeName(), f.Name)
			}
			if !IsInputType(f.Type) {
				return fmt.Errorf("schema: input field %s.%s must have an input type, got %s", t.TypeName(), f.Name, typeLabel(f.Type))
			}
		}
		return nil
	default:
		return fmt.Errorf("schema: unexpected named type %T", t)
	}
}

func validateFieldSet(owner string, fields Fields) error {
	if len(fields) == 0 {
		return fmt.Errorf("schema: type %q must define at least one field", owner)
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if !nameRe.MatchString(f.Name) {
			return fmt.Errorf("schema: type %q has invalid field name %q", owner, f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("schema: type %q declares field %q more than once", owner, f.Name)
		}
		seen[f.Name] = struct{}{}
		if !IsOutputType(f.Type) {
			return fmt.Errorf("schema: field %s.%s must have an output type, got %s", owner, f.Name, typeLabel(f.Type))
		}
		argSeen := make(map[string]struct{}, len(f.Args))
		for _, a := range f.Args {
			if !nameRe.MatchString(a.Name) {
				return fmt.Errorf("schema: argument %s.%s(%s) has an invalid name", owner, f.Name, a.Name)
			}
			if _, dup := argSeen[a.Name]; dup {
				return fmt.Errorf("schema: field %s.%s declares argument %q more than once", owner, f.Name, a.Name)
			}
			argSeen[a.Name] = struct{}{}
			if !IsInputType(a.Type) {
				return fmt.Errorf("schema: argument %s.%s(%s) must have an input type, got %s", owner, f.Name, a.Name, typeLabel(a.Type))
			}
		}
	}
	return nil
}

func typeLabel(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return Resolve(t).String()
}
