package executor

import (
	language "github.com/verdantgql/verdant/language"
	schema "github.com/verdantgql/verdant/schema"
)

// collectedFieldMap groups fields by response key while preserving the order
// in which keys first appear in the query.
type collectedFieldMap struct {
	fields []collectedField
	index  map[string]int
}

type collectedField struct {
	ResponseKey string
	Fields      []*language.Field
}

func newCollectedFieldMap() *collectedFieldMap {
	return &collectedFieldMap{index: make(map[string]int)}
}

func (cfm *collectedFieldMap) add(responseKey string, field *language.Field) {
	if idx, exists := cfm.index[responseKey]; exists {
		cfm.fields[idx].Fields = append(cfm.fields[idx].Fields, field)
		return
	}
	cfm.index[responseKey] = len(cfm.fields)
	cfm.fields = append(cfm.fields, collectedField{ResponseKey: responseKey, Fields: []*language.Field{field}})
}

func (cfm *collectedFieldMap) orderedFields() []collectedField {
	return cfm.fields
}

// collectFields merges the fields requested on objectType across the
// selection set, fragment spreads and inline fragments, honoring skip and
// include directives and fragment type conditions.
func collectFields(st *executionState, objectType *schema.Object, selectionSet language.SelectionSet) *collectedFieldMap {
	grouped := newCollectedFieldMap()
	collectFieldsImpl(st, objectType, selectionSet, grouped, make(map[string]bool))
	return grouped
}

func collectFieldsImpl(st *executionState, objectType *schema.Object, selectionSet language.SelectionSet, grouped *collectedFieldMap, visitedFragments map[string]bool) {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			if !shouldIncludeNode(st, sel.Directives) {
				continue
			}
			responseKey := sel.Alias
			if responseKey == "" {
				responseKey = sel.Name
			}
			grouped.add(responseKey, sel)

		case *language.InlineFragment:
			if !shouldIncludeNode(st, sel.Directives) {
				continue
			}
			if !fragmentConditionMatches(st, objectType, sel.TypeCondition) {
				continue
			}
			collectFieldsImpl(st, objectType, sel.SelectionSet, grouped, visitedFragments)

		case *language.FragmentSpread:
			if !shouldIncludeNode(st, sel.Directives) {
				continue
			}
			if visitedFragments[sel.Name] {
				continue
			}
			visitedFragments[sel.Name] = true

			fragmentDef := st.document.Fragments.ForName(sel.Name)
			if fragmentDef == nil {
				continue
			}
			if !fragmentConditionMatches(st, objectType, fragmentDef.TypeCondition) {
				continue
			}
			if !shouldIncludeNode(st, fragmentDef.Directives) {
				continue
			}
			collectFieldsImpl(st, objectType, fragmentDef.SelectionSet, grouped, visitedFragments)
		}
	}
}

// fragmentConditionMatches reports whether a fragment with the given type
// condition applies to the runtime object type: the condition names the type
// itself, an interface it implements, or a union it belongs to.
func fragmentConditionMatches(st *executionState, objectType *schema.Object, condition string) bool {
	if condition == "" || condition == objectType.TypeName() {
		return true
	}
	switch cond := st.schema.Type(condition).(type) {
	case *schema.Interface:
		return st.schema.Implements(objectType, cond)
	case *schema.Union:
		return cond.HasMember(objectType)
	default:
		return false
	}
}

// shouldIncludeNode evaluates @skip and @include on a selection node.
func shouldIncludeNode(st *executionState, directives language.DirectiveList) bool {
	if skip := directives.ForName("skip"); skip != nil {
		if cond, ok := directiveIfArgument(st, skip); ok && cond {
			return false
		}
	}
	if include := directives.ForName("include"); include != nil {
		if cond, ok := directiveIfArgument(st, include); ok && !cond {
			return false
		}
	}
	return true
}

func directiveIfArgument(st *executionState, directive *language.Directive) (bool, bool) {
	arg := directive.Arguments.ForName("if")
	if arg == nil {
		return false, false
	}
	var raw any
	if arg.Value != nil && arg.Value.Kind == language.Variable {
		raw = st.variableValues[arg.Value.Raw]
	} else {
		raw = literalToGo(arg.Value)
	}
	b, ok := raw.(bool)
	return b, ok
}

// mergeSelectionSets concatenates the sub-selections of merged field nodes.
func mergeSelectionSets(fields []*language.Field) language.SelectionSet {
	if len(fields) == 1 {
		return fields[0].SelectionSet
	}
	var merged language.SelectionSet
	for _, f := range fields {
		merged = append(merged, f.SelectionSet...)
	}
	return merged
}
