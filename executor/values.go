package executor

import (
	"fmt"
	"strconv"

	language "github.com/verdantgql/verdant/language"
	schema "github.com/verdantgql/verdant/schema"
)

// coerceVariableValues validates and coerces the raw variable map against the
// operation's variable definitions. A failure here is a request error that
// stops execution before any resolver runs.
func coerceVariableValues(s *schema.Schema, operation *language.OperationDefinition, variableValues map[string]any) (map[string]any, error) {
	coerced := make(map[string]any, len(operation.VariableDefinitions))
	for _, varDef := range operation.VariableDefinitions {
		name := varDef.Variable
		varType, err := typeFromAST(s, varDef.Type)
		if err != nil {
			return nil, fmt.Errorf("variable $%s: %v", name, err)
		}
		if !schema.IsInputType(varType) {
			return nil, fmt.Errorf("variable $%s must have an input type, got %s", name, varDef.Type.String())
		}

		value, provided := variableValues[name]
		if !provided {
			if varDef.DefaultValue != nil {
				dv, err := valueFromLiteral(varDef.DefaultValue, varType, nil)
				if err != nil {
					return nil, fmt.Errorf("variable $%s has invalid default value: %v", name, err)
				}
				coerced[name] = dv
				continue
			}
			if schema.IsNonNull(varType) {
				return nil, fmt.Errorf("variable $%s of required type %s was not provided", name, varDef.Type.String())
			}
			continue
		}
		if value == nil && schema.IsNonNull(varType) {
			return nil, fmt.Errorf("variable $%s of non-null type %s must not be null", name, varDef.Type.String())
		}
		cv, err := coerceInputValue(value, varType)
		if err != nil {
			return nil, fmt.Errorf("variable $%s got invalid value: %v", name, err)
		}
		coerced[name] = cv
	}
	return coerced, nil
}

// coerceArgumentValues produces the native argument map for one field
// invocation, applying defaults and required checks per argument definition.
// Coercion failures are recorded as located errors at path and reported via
// the second return value.
func (st *executionState) coerceArgumentValues(fieldDef *schema.Field, fieldNodes []*language.Field, path Path) (map[string]any, bool) {
	args := make(map[string]any, len(fieldDef.Args))
	argNodes := fieldNodes[0].Arguments
	ok := true
	for _, argDef := range fieldDef.Args {
		node := argNodes.ForName(argDef.Name)
		if node == nil {
			if argDef.DefaultValue != nil {
				args[argDef.Name] = argDef.DefaultValue
			} else if argDef.Required() {
				st.addError(GraphQLError{
					Message:   fmt.Sprintf("argument %q of required type %s was not provided", argDef.Name, schema.Resolve(argDef.Type)),
					Path:      path,
					Locations: fieldLocations(fieldNodes),
				})
				ok = false
			}
			continue
		}

		// A variable that was not provided behaves like an absent argument.
		if node.Value != nil && node.Value.Kind == language.Variable {
			if _, provided := st.variableValues[node.Value.Raw]; !provided {
				if argDef.DefaultValue != nil {
					args[argDef.Name] = argDef.DefaultValue
				} else if argDef.Required() {
					st.addError(GraphQLError{
						Message:   fmt.Sprintf("argument %q of required type %s was provided the unset variable $%s", argDef.Name, schema.Resolve(argDef.Type), node.Value.Raw),
						Path:      path,
						Locations: fieldLocations(fieldNodes),
					})
					ok = false
				}
				continue
			}
		}

		value, err := valueFromLiteral(node.Value, argDef.Type, st.variableValues)
		if err != nil {
			st.addError(GraphQLError{
				Message:   fmt.Sprintf("argument %q cannot be coerced: %v", argDef.Name, coercionMessage(err, node.Value)),
				Path:      path,
				Locations: fieldLocations(fieldNodes),
			})
			ok = false
			continue
		}
		args[argDef.Name] = value
	}
	return args, ok
}

// coercionMessage fills in location context for failures that deliberately
// carry no message of their own, such as enum literal lookups.
func coercionMessage(err error, literal *language.Value) string {
	if err.Error() != "" {
		return err.Error()
	}
	return fmt.Sprintf("invalid value %s", literal.String())
}

// valueFromLiteral converts an AST literal (or variable reference) into the
// internal value for the given input type.
func valueFromLiteral(value *language.Value, t schema.Type, variables map[string]any) (any, error) {
	if value != nil && value.Kind == language.Variable {
		// Variables were coerced up front; use them as-is. A null or unset
		// variable still has to satisfy the non-null check of its position.
		v := variables[value.Raw]
		if v == nil && schema.IsNonNull(t) {
			return nil, fmt.Errorf("cannot provide null for non-null type %s", schema.Resolve(t))
		}
		return v, nil
	}

	switch tt := schema.Resolve(t).(type) {
	case *schema.NonNull:
		if value == nil || value.Kind == language.NullValue {
			return nil, fmt.Errorf("cannot provide null for non-null type %s", tt)
		}
		return valueFromLiteral(value, tt.OfType(), variables)
	case *schema.List:
		if value == nil || value.Kind == language.NullValue {
			return nil, nil
		}
		if value.Kind != language.ListValue {
			// A single value is treated as a list of one.
			item, err := valueFromLiteral(value, tt.OfType(), variables)
			if err != nil {
				return nil, err
			}
			return []any{item}, nil
		}
		out := make([]any, len(value.Children))
		for i, c := range value.Children {
			item, err := valueFromLiteral(c.Value, tt.OfType(), variables)
			if err != nil {
				return nil, fmt.Errorf("at index %d: %v", i, coercionMessage(err, c.Value))
			}
			out[i] = item
		}
		return out, nil
	case *schema.InputObject:
		if value == nil || value.Kind == language.NullValue {
			return nil, nil
		}
		if value.Kind != language.ObjectValue {
			return nil, fmt.Errorf("expected input object %s, got %s", tt, value.String())
		}
		provided := make(map[string]*language.Value, len(value.Children))
		for _, c := range value.Children {
			if tt.Field(c.Name) == nil {
				return nil, fmt.Errorf("field %q is not defined by input object %s", c.Name, tt)
			}
			provided[c.Name] = c.Value
		}
		out := make(map[string]any, len(tt.Fields()))
		for _, f := range tt.Fields() {
			fv, ok := provided[f.Name]
			if ok && fv != nil && fv.Kind == language.Variable {
				if _, set := variables[fv.Raw]; !set {
					// An unset variable leaves the field unprovided.
					ok = false
				}
			}
			if !ok {
				if f.DefaultValue != nil {
					out[f.Name] = f.DefaultValue
				} else if schema.IsNonNull(f.Type) {
					return nil, fmt.Errorf("field %s.%s of required type %s was not provided", tt, f.Name, schema.Resolve(f.Type))
				}
				continue
			}
			v, err := valueFromLiteral(fv, f.Type, variables)
			if err != nil {
				return nil, fmt.Errorf("at field %q: %v", f.Name, coercionMessage(err, fv))
			}
			out[f.Name] = v
		}
		return out, nil
	case *schema.Scalar:
		if value == nil || value.Kind == language.NullValue {
			return nil, nil
		}
		return tt.ParseLiteral(value)
	case *schema.Enum:
		if value == nil || value.Kind == language.NullValue {
			return nil, nil
		}
		return tt.ParseLiteral(value)
	default:
		return nil, fmt.Errorf("unexpected input type %T", t)
	}
}

// coerceInputValue converts an externally supplied runtime value (a variable)
// into the internal representation for the given input type.
func coerceInputValue(value any, t schema.Type) (any, error) {
	switch tt := schema.Resolve(t).(type) {
	case *schema.NonNull:
		if value == nil {
			return nil, fmt.Errorf("cannot provide null for non-null type %s", tt)
		}
		return coerceInputValue(value, tt.OfType())
	case *schema.List:
		if value == nil {
			return nil, nil
		}
		items, ok := value.([]any)
		if !ok {
			// A single value is treated as a list of one.
			item, err := coerceInputValue(value, tt.OfType())
			if err != nil {
				return nil, err
			}
			return []any{item}, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			cv, err := coerceInputValue(item, tt.OfType())
			if err != nil {
				return nil, fmt.Errorf("at index %d: %v", i, err)
			}
			out[i] = cv
		}
		return out, nil
	case *schema.InputObject:
		if value == nil {
			return nil, nil
		}
		m, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected input object %s, got %T", tt, value)
		}
		for name := range m {
			if tt.Field(name) == nil {
				return nil, fmt.Errorf("field %q is not defined by input object %s", name, tt)
			}
		}
		out := make(map[string]any, len(tt.Fields()))
		for _, f := range tt.Fields() {
			fv, provided := m[f.Name]
			if !provided {
				if f.DefaultValue != nil {
					out[f.Name] = f.DefaultValue
				} else if schema.IsNonNull(f.Type) {
					return nil, fmt.Errorf("field %s.%s of required type %s was not provided", tt, f.Name, schema.Resolve(f.Type))
				}
				continue
			}
			cv, err := coerceInputValue(fv, f.Type)
			if err != nil {
				return nil, fmt.Errorf("at field %q: %v", f.Name, err)
			}
			out[f.Name] = cv
		}
		return out, nil
	case *schema.Scalar:
		if value == nil {
			return nil, nil
		}
		return tt.ParseValue(value)
	case *schema.Enum:
		if value == nil {
			return nil, nil
		}
		return tt.ParseValue(value)
	default:
		return nil, fmt.Errorf("unexpected input type %T", t)
	}
}

// typeFromAST resolves an AST type reference against the schema.
func typeFromAST(s *schema.Schema, t *language.Type) (schema.Type, error) {
	if t == nil {
		return nil, fmt.Errorf("missing type reference")
	}
	var build func(t *language.Type) (schema.Type, error)
	build = func(t *language.Type) (schema.Type, error) {
		var inner schema.Type
		switch {
		case t.NamedType != "":
			named := s.Type(t.NamedType)
			if named == nil {
				return nil, fmt.Errorf("unknown type %q", t.NamedType)
			}
			inner = named
		case t.Elem != nil:
			elem, err := build(t.Elem)
			if err != nil {
				return nil, err
			}
			inner = schema.ListOf(elem)
		default:
			return nil, fmt.Errorf("malformed type reference")
		}
		if t.NonNull {
			return schema.NonNullOf(inner), nil
		}
		return inner, nil
	}
	return build(t)
}

// literalToGo converts an AST literal to a plain Go value without type
// direction. Used for directive arguments.
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
