package executor

import (
	"fmt"

	language "github.com/verdantgql/verdant/language"
	schema "github.com/verdantgql/verdant/schema"
)

// checkOperationBounds walks the operation before any resolver runs and
// rejects it when it nests deeper than maxDepth or its estimated cost
// exceeds maxCost. A limit of 0 disables that check.
func (st *executionState) checkOperationBounds(rootType *schema.Object, operation *language.OperationDefinition, maxDepth, maxCost int) error {
	depth, cost := st.measureSelectionSet(rootType, operation.SelectionSet, make(map[string]bool))
	if maxDepth > 0 && depth > maxDepth {
		return fmt.Errorf("operation depth %d exceeds the limit of %d", depth, maxDepth)
	}
	if maxCost > 0 && cost > maxCost {
		return fmt.Errorf("operation cost %d exceeds the limit of %d", cost, maxCost)
	}
	return nil
}

// measureSelectionSet returns the nesting depth and estimated cost of a
// selection set against the composite type it selects on. Fields without a
// cost estimator count as 1 plus the cost of their children.
func (st *executionState) measureSelectionSet(parent schema.NamedType, selectionSet language.SelectionSet, visitedFragments map[string]bool) (depth, cost int) {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			fieldDepth, fieldCost := st.measureField(parent, sel, visitedFragments)
			depth = max(depth, fieldDepth)
			cost += fieldCost

		case *language.InlineFragment:
			condType := parent
			if sel.TypeCondition != "" {
				if named := st.schema.Type(sel.TypeCondition); named != nil {
					condType = named
				}
			}
			fragDepth, fragCost := st.measureSelectionSet(condType, sel.SelectionSet, visitedFragments)
			depth = max(depth, fragDepth)
			cost += fragCost

		case *language.FragmentSpread:
			if visitedFragments[sel.Name] {
				continue
			}
			visitedFragments[sel.Name] = true
			fragmentDef := st.document.Fragments.ForName(sel.Name)
			if fragmentDef == nil {
				continue
			}
			condType := parent
			if named := st.schema.Type(fragmentDef.TypeCondition); named != nil {
				condType = named
			}
			fragDepth, fragCost := st.measureSelectionSet(condType, fragmentDef.SelectionSet, visitedFragments)
			depth = max(depth, fragDepth)
			cost += fragCost
		}
	}
	return depth, cost
}

func (st *executionState) measureField(parent schema.NamedType, field *language.Field, visitedFragments map[string]bool) (depth, cost int) {
	if field.Name == "__typename" {
		return 1, 0
	}
	fieldDef := compositeField(parent, field.Name)
	if fieldDef == nil {
		// Execution reports unknown fields; they add nothing here.
		return 1, 1
	}

	childDepth, childCost := 0, 0
	if len(field.SelectionSet) > 0 {
		childDepth, childCost = st.measureSelectionSet(schema.Named(fieldDef.Type), field.SelectionSet, visitedFragments)
	}

	if fieldDef.Cost != nil {
		args := st.bestEffortArguments(fieldDef, field)
		return 1 + childDepth, fieldDef.Cost(args, childCost)
	}
	return 1 + childDepth, 1 + childCost
}

// bestEffortArguments binds argument literals for cost estimation only.
// Coercion failures surface later during execution, so they are ignored
// here and the argument is simply absent from the map.
func (st *executionState) bestEffortArguments(fieldDef *schema.Field, field *language.Field) map[string]any {
	args := make(map[string]any, len(fieldDef.Args))
	for _, argDef := range fieldDef.Args {
		node := field.Arguments.ForName(argDef.Name)
		if node == nil {
			if argDef.DefaultValue != nil {
				args[argDef.Name] = argDef.DefaultValue
			}
			continue
		}
		if node.Value != nil && node.Value.Kind == language.Variable {
			if v, present := st.variableValues[node.Value.Raw]; present {
				args[argDef.Name] = v
			}
			continue
		}
		if v, err := valueFromLiteral(node.Value, argDef.Type, st.variableValues); err == nil {
			args[argDef.Name] = v
		}
	}
	return args
}

func compositeField(t schema.NamedType, name string) *schema.Field {
	switch tt := t.(type) {
	case *schema.Object:
		return tt.Field(name)
	case *schema.Interface:
		return tt.Field(name)
	default:
		return nil
	}
}
