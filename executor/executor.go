package executor

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	language "github.com/verdantgql/verdant/language"
	schema "github.com/verdantgql/verdant/schema"
)

// Options control per-request execution behavior.
type Options struct {
	// MaxConcurrency caps the number of resolvers running at once within one
	// request. 0 means the default of 1000.
	MaxConcurrency int64

	// MaxDepth rejects operations nested deeper than this before execution
	// begins. 0 disables the check.
	MaxDepth int

	// MaxCost rejects operations whose estimated cost exceeds this before
	// execution begins. Fields without a cost estimator count as 1 plus the
	// cost of their children. 0 disables the check.
	MaxCost int
}

type Option func(*Options)

func WithMaxConcurrency(n int64) Option { return func(o *Options) { o.MaxConcurrency = n } }
func WithMaxDepth(n int) Option         { return func(o *Options) { o.MaxDepth = n } }
func WithMaxCost(n int) Option          { return func(o *Options) { o.MaxCost = n } }

// Executor runs validated query documents against one schema. It is
// stateless between requests and safe for concurrent use.
type Executor struct {
	schema *schema.Schema
	opt    Options
}

func New(s *schema.Schema, opts ...Option) *Executor {
	op := Options{MaxConcurrency: 1000}
	for _, f := range opts {
		f(&op)
	}
	return &Executor{schema: s, opt: op}
}

// executionState holds the mutable state of one request: the accumulated
// error list and the resolver concurrency limiter. Everything else is
// read-only for the duration of the request.
type executionState struct {
	schema         *schema.Schema
	document       *language.QueryDocument
	variableValues map[string]any
	rootValue      any
	limiter        *semaphore.Weighted

	mu     sync.Mutex
	errors []GraphQLError
}

// ExecuteRequest executes one operation from the document and returns the
// assembled data tree plus every error recorded along the way. Per-field
// failures never abort the request; only a request-level problem (unknown
// operation, variable coercion) yields a result with no data at all.
func (e *Executor) ExecuteRequest(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variableValues map[string]any,
	rootValue any,
) *ExecutionResult {
	operation := getOperation(document, operationName)
	if operation == nil {
		return &ExecutionResult{Errors: []GraphQLError{{Message: "operation not found"}}}
	}

	coercedVariableValues, err := coerceVariableValues(e.schema, operation, variableValues)
	if err != nil {
		return &ExecutionResult{Errors: []GraphQLError{{Message: err.Error()}}}
	}

	var rootType *schema.Object
	switch operation.Operation {
	case language.Query:
		rootType = e.schema.QueryType()
	case language.Mutation:
		rootType = e.schema.MutationType()
	case language.Subscription:
		rootType = e.schema.SubscriptionType()
	default:
		return &ExecutionResult{Errors: []GraphQLError{{Message: fmt.Sprintf("unsupported operation type: %s", operation.Operation)}}}
	}
	if rootType == nil {
		return &ExecutionResult{Errors: []GraphQLError{{Message: fmt.Sprintf("schema is not configured for %s operations", operation.Operation)}}}
	}

	st := &executionState{
		schema:         e.schema,
		document:       document,
		variableValues: coercedVariableValues,
		rootValue:      rootValue,
		limiter:        semaphore.NewWeighted(e.opt.MaxConcurrency),
		errors:         []GraphQLError{},
	}

	if e.opt.MaxDepth > 0 || e.opt.MaxCost > 0 {
		if err := st.checkOperationBounds(rootType, operation, e.opt.MaxDepth, e.opt.MaxCost); err != nil {
			return &ExecutionResult{Errors: []GraphQLError{{Message: err.Error()}}}
		}
	}

	// The mutation root runs its fields one at a time; everything else
	// resolves sibling fields concurrently.
	var data any
	if operation.Operation == language.Mutation {
		if m := st.executeSelectionSetSerially(ctx, rootType, operation.SelectionSet, rootValue, Path{}); m != nil {
			data = m
		}
	} else {
		if m := st.executeSelectionSet(ctx, rootType, operation.SelectionSet, rootValue, Path{}); m != nil {
			data = m
		}
	}
	return &ExecutionResult{Data: data, Errors: st.errors}
}

// fieldSlot is one response position of a selection set, filled in by a
// resolver goroutine and read back in declaration order after the join.
type fieldSlot struct {
	key     string
	value   any
	nonNull bool
	omit    bool
}

// executeSelectionSet resolves every field of the selection set
// concurrently, joins them, and assembles the keyed result in declaration
// order. A nil return means a non-null field resolved to null and the whole
// object is discarded (the null bubbles to the caller).
func (st *executionState) executeSelectionSet(ctx context.Context, objectType *schema.Object, selectionSet language.SelectionSet, source any, path Path) *OrderedMap {
	grouped := collectFields(st, objectType, selectionSet).orderedFields()
	slots := make([]fieldSlot, len(grouped))

	var wg sync.WaitGroup
	for i, cf := range grouped {
		if done := st.prepareSlot(&slots[i], objectType, cf, path); done {
			continue
		}
		fieldDef := objectType.Field(cf.Fields[0].Name)
		wg.Add(1)
		go func(slot *fieldSlot, cf collectedField) {
			defer wg.Done()
			slot.value = st.resolveAndComplete(ctx, objectType, fieldDef, cf.Fields, source, appendPath(path, cf.ResponseKey))
		}(&slots[i], cf)
	}
	wg.Wait()

	return assembleSlots(slots)
}

// executeSelectionSetSerially resolves fields strictly one at a time, fully
// completing each subtree (including any nested concurrent work) before the
// next sibling starts.
func (st *executionState) executeSelectionSetSerially(ctx context.Context, objectType *schema.Object, selectionSet language.SelectionSet, source any, path Path) *OrderedMap {
	grouped := collectFields(st, objectType, selectionSet).orderedFields()
	slots := make([]fieldSlot, len(grouped))

	for i, cf := range grouped {
		if done := st.prepareSlot(&slots[i], objectType, cf, path); done {
			continue
		}
		fieldDef := objectType.Field(cf.Fields[0].Name)
		slots[i].value = st.resolveAndComplete(ctx, objectType, fieldDef, cf.Fields, source, appendPath(path, cf.ResponseKey))
		// A non-null failure stops the remaining root fields from running.
		if slots[i].nonNull && isNullish(slots[i].value) {
			return nil
		}
	}

	return assembleSlots(slots)
}

// prepareSlot handles the cases that need no resolver: __typename and
// unknown fields. It returns true when the slot is already settled.
func (st *executionState) prepareSlot(slot *fieldSlot, objectType *schema.Object, cf collectedField, path Path) bool {
	slot.key = cf.ResponseKey
	field := cf.Fields[0]

	if field.Name == "__typename" {
		slot.value = objectType.TypeName()
		return true
	}

	fieldDef := objectType.Field(field.Name)
	if fieldDef == nil {
		st.addError(GraphQLError{
			Message:   fmt.Sprintf("cannot query field %q on type %q", field.Name, objectType.TypeName()),
			Path:      appendPath(path, cf.ResponseKey),
			Locations: fieldLocations(cf.Fields),
		})
		slot.omit = true
		return true
	}
	slot.nonNull = schema.IsNonNull(fieldDef.Type)
	return false
}

// assembleSlots builds the ordered result, or returns nil when a non-null
// field came back null so the enclosing position must be discarded.
func assembleSlots(slots []fieldSlot) *OrderedMap {
	result := NewOrderedMap()
	for _, slot := range slots {
		if slot.omit {
			continue
		}
		if slot.nonNull && isNullish(slot.value) {
			return nil
		}
		if isNullish(slot.value) {
			result.Set(slot.key, nil)
			continue
		}
		result.Set(slot.key, slot.value)
	}
	return result
}

// resolveAndComplete binds arguments, invokes the resolver, and completes
// the returned value against the field's declared type. Panics inside
// resolvers become located errors; the field's value is null.
func (st *executionState) resolveAndComplete(ctx context.Context, objectType *schema.Object, fieldDef *schema.Field, fields []*language.Field, source any, path Path) (value any) {
	defer func() {
		if r := recover(); r != nil {
			st.addError(GraphQLError{
				Message:   fmt.Sprintf("panic occurred: %v", r),
				Path:      path,
				Locations: fieldLocations(fields),
			})
			value = nil
		}
	}()

	args, ok := st.coerceArgumentValues(fieldDef, fields, path)
	if !ok {
		return nil
	}

	info := &schema.ResolveInfo{
		FieldName:      fieldDef.Name,
		FieldNodes:     fields,
		ReturnType:     fieldDef.Type,
		ParentType:     objectType,
		Path:           pathValues(path),
		Schema:         st.schema,
		Document:       st.document,
		VariableValues: st.variableValues,
		RootValue:      st.rootValue,
	}

	resolved, err := st.resolveFieldValue(ctx, fieldDef, source, args, info)
	if err != nil {
		st.addError(resolverError(err, fields, path))
		return nil
	}
	return st.completeValue(ctx, fieldDef.Type, fields, resolved, path, info)
}

// resolveFieldValue invokes the field's resolver under the concurrency
// limiter. The limiter covers only the resolver call itself; awaiting a
// deferred value or completing children never holds a slot.
func (st *executionState) resolveFieldValue(ctx context.Context, fieldDef *schema.Field, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
	if err := st.limiter.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer st.limiter.Release(1)

	if fieldDef.Resolve == nil {
		return defaultResolve(fieldDef.Name, source), nil
	}
	return fieldDef.Resolve(ctx, source, args, info)
}

// completeValue completes a resolved value against its declared type,
// recursing through wrappers and composites per the value completion rules.
func (st *executionState) completeValue(ctx context.Context, t schema.Type, fields []*language.Field, value any, path Path, info *schema.ResolveInfo) any {
	if nn, ok := schema.Resolve(t).(*schema.NonNull); ok {
		completed := st.completeValue(ctx, nn.OfType(), fields, value, path, info)
		if isNullish(completed) {
			if !st.hasErrorAt(path) {
				st.addError(GraphQLError{
					Message:   fmt.Sprintf("cannot return null for non-nullable field %s", pathString(path)),
					Path:      path,
					Locations: fieldLocations(fields),
				})
			}
			return nil
		}
		return completed
	}

	// Suspend this field's subtree until pending work settles.
	if d, ok := value.(*Deferred); ok {
		v, err := d.Await(ctx)
		if err != nil {
			st.addError(resolverError(err, fields, path))
			return nil
		}
		value = v
	}

	if isNullish(value) {
		return nil
	}

	switch tt := schema.Resolve(t).(type) {
	case *schema.List:
		return st.completeListValue(ctx, tt, fields, value, path, info)
	case *schema.Scalar:
		serialized, err := tt.Serialize(value)
		if err != nil {
			st.addError(GraphQLError{Message: err.Error(), Path: path, Locations: fieldLocations(fields)})
			return nil
		}
		return serialized
	case *schema.Enum:
		serialized, err := tt.Serialize(value)
		if err != nil {
			st.addError(GraphQLError{Message: err.Error(), Path: path, Locations: fieldLocations(fields)})
			return nil
		}
		return serialized
	case *schema.Object:
		if m := st.executeSelectionSet(ctx, tt, mergeSelectionSets(fields), value, path); m != nil {
			return m
		}
		return nil
	case *schema.Interface:
		return st.completeAbstractValue(ctx, tt, tt.ResolveType(), fields, value, path, info)
	case *schema.Union:
		return st.completeAbstractValue(ctx, tt, tt.ResolveType(), fields, value, path, info)
	default:
		st.addError(GraphQLError{
			Message:   fmt.Sprintf("cannot complete value of unexpected type %T", t),
			Path:      path,
			Locations: fieldLocations(fields),
		})
		return nil
	}
}

// completeListValue completes every element concurrently at an index-aware
// path. A null element of a non-null inner type nullifies the whole list.
func (st *executionState) completeListValue(ctx context.Context, listType *schema.List, fields []*language.Field, value any, path Path, info *schema.ResolveInfo) any {
	items, ok := asList(value)
	if !ok {
		st.addError(GraphQLError{
			Message:   fmt.Sprintf("expected list value for field %s, got %T", pathString(path), value),
			Path:      path,
			Locations: fieldLocations(fields),
		})
		return nil
	}

	inner := listType.OfType()
	completed := make([]any, len(items))
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			elemPath := appendPath(path, i)
			// Completion may call user code (Serialize, ResolveType).
			defer func() {
				if r := recover(); r != nil {
					st.addError(GraphQLError{
						Message:   fmt.Sprintf("panic occurred: %v", r),
						Path:      elemPath,
						Locations: fieldLocations(fields),
					})
					completed[i] = nil
				}
			}()
			completed[i] = st.completeValue(ctx, inner, fields, items[i], elemPath, info)
		}(i)
	}
	wg.Wait()

	if schema.IsNonNull(inner) {
		for i := range completed {
			if isNullish(completed[i]) {
				// Error already recorded at the element's path.
				return nil
			}
		}
	}
	for i := range completed {
		if isNullish(completed[i]) {
			completed[i] = nil
		}
	}
	return completed
}

// completeAbstractValue resolves the concrete object type for a value of an
// interface or union, verifies it is a possible type, and completes it as an
// object.
func (st *executionState) completeAbstractValue(ctx context.Context, abstract schema.NamedType, resolveType schema.TypeResolver, fields []*language.Field, value any, path Path, info *schema.ResolveInfo) any {
	var obj *schema.Object
	if resolveType != nil {
		o, err := resolveType(ctx, value, info)
		if err != nil {
			st.addError(resolverError(err, fields, path))
			return nil
		}
		obj = o
	} else {
		obj = st.defaultResolveType(value)
	}
	if obj == nil {
		st.addError(GraphQLError{
			Message:   fmt.Sprintf("abstract type %q must resolve to an object type at runtime, value of type %T did not match any", abstract.TypeName(), value),
			Path:      path,
			Locations: fieldLocations(fields),
		})
		return nil
	}

	possible := false
	switch at := abstract.(type) {
	case *schema.Interface:
		possible = st.schema.Implements(obj, at)
	case *schema.Union:
		possible = at.HasMember(obj)
	}
	if !possible {
		st.addError(GraphQLError{
			Message:   fmt.Sprintf("runtime object type %q is not a possible type for %q", obj.TypeName(), abstract.TypeName()),
			Path:      path,
			Locations: fieldLocations(fields),
		})
		return nil
	}

	if m := st.executeSelectionSet(ctx, obj, mergeSelectionSets(fields), value, path); m != nil {
		return m
	}
	return nil
}

// defaultResolveType picks a concrete type when the abstract type has no
// resolver: a "__typename" entry on map values, else the Go type name of the
// value matched against the schema's object types.
func (st *executionState) defaultResolveType(value any) *schema.Object {
	if m, ok := value.(map[string]any); ok {
		if name, ok := m["__typename"].(string); ok {
			if obj, ok := st.schema.Type(name).(*schema.Object); ok {
				return obj
			}
		}
		return nil
	}
	rt := reflect.TypeOf(value)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt != nil && rt.Name() != "" {
		if obj, ok := st.schema.Type(rt.Name()).(*schema.Object); ok {
			return obj
		}
	}
	return nil
}

// defaultResolve reads the field's value straight off the source: a map key,
// or an exported struct field matched by json tag or case-insensitive name.
func defaultResolve(fieldName string, source any) any {
	switch src := source.(type) {
	case nil:
		return nil
	case map[string]any:
		return src[fieldName]
	}
	v := reflect.ValueOf(source)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if idx := strings.IndexByte(tag, ','); idx >= 0 {
			tag = tag[:idx]
		}
		if tag == fieldName || (tag == "" && strings.EqualFold(f.Name, fieldName)) {
			return v.Field(i).Interface()
		}
	}
	return nil
}

func (st *executionState) addError(err GraphQLError) {
	st.mu.Lock()
	st.errors = append(st.errors, err)
	st.mu.Unlock()
}

// hasErrorAt reports whether an error at or beneath the given path already
// exists. Non-null propagation records a new error only for nulls that no
// recorded failure explains.
func (st *executionState) hasErrorAt(path Path) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, err := range st.errors {
		if pathHasPrefix(err.Path, path) {
			return true
		}
	}
	return false
}

func pathHasPrefix(p, prefix Path) bool {
	if len(p) < len(prefix) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// resolverError converts an error returned by a resolver into a located
// GraphQL error, preserving structured extensions when the error carries
// them.
func resolverError(err error, fields []*language.Field, path Path) GraphQLError {
	ge := GraphQLError{Message: err.Error(), Path: path, Locations: fieldLocations(fields)}
	if ex, ok := err.(interface{ Extensions() map[string]any }); ok {
		ge.Extensions = ex.Extensions()
	}
	return ge
}

func fieldLocations(fields []*language.Field) []Location {
	var locs []Location
	for _, f := range fields {
		if f.Position != nil {
			locs = append(locs, Location{Line: f.Position.Line, Column: f.Position.Column})
		}
	}
	return locs
}

func getOperation(document *language.QueryDocument, operationName string) *language.OperationDefinition {
	if operationName == "" && len(document.Operations) == 1 {
		return document.Operations[0]
	}
	for _, op := range document.Operations {
		if op.Name == operationName {
			return op
		}
	}
	return nil
}

// pathValues copies a Path into the plain []any that ResolveInfo carries.
func pathValues(path Path) []any {
	out := make([]any, len(path))
	for i, elem := range path {
		out[i] = elem
	}
	return out
}

func appendPath(path Path, elem PathElement) Path {
	next := make(Path, len(path)+1)
	copy(next, path)
	next[len(path)] = elem
	return next
}

func pathString(path Path) string {
	var b strings.Builder
	for i, elem := range path {
		switch v := elem.(type) {
		case string:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(v)
		case int:
			fmt.Fprintf(&b, "[%d]", v)
		}
	}
	return b.String()
}

// asList normalizes the resolved value of a list-typed field to []any.
func asList(value any) ([]any, bool) {
	if direct, ok := value.([]any); ok {
		return direct, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// isNullish reports nil interfaces and typed nils.
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
