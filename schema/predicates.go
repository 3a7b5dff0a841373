package schema

// Named returns the innermost named type of t, unwrapping List and NonNull.
func Named(t Type) NamedType {
	for {
		switch tt := Resolve(t).(type) {
		case *List:
			t = tt.OfType()
		case *NonNull:
			t = tt.OfType()
		case NamedType:
			return tt
		default:
			return nil
		}
	}
}

// Nullable strips at most one outer NonNull wrapper.
func Nullable(t Type) Type {
	if nn, ok := Resolve(t).(*NonNull); ok {
		return nn.OfType()
	}
	return Resolve(t)
}

// IsNonNull reports whether t's outermost wrapper is NonNull.
func IsNonNull(t Type) bool {
	_, ok := Resolve(t).(*NonNull)
	return ok
}

// IsInputType reports whether t may appear in input positions
// (arguments, variables, input object fields).
func IsInputType(t Type) bool {
	switch Named(t).(type) {
	case *Scalar, *Enum, *InputObject:
		return true
	default:
		return false
	}
}

// IsOutputType reports whether t may appear in output positions (field types).
func IsOutputType(t Type) bool {
	switch Named(t).(type) {
	case *Scalar, *Enum, *Object, *Interface, *Union:
		return true
	default:
		return false
	}
}

// IsLeafType reports whether t serializes directly to an external value.
func IsLeafType(t Type) bool {
	switch Resolve(t).(type) {
	case *Scalar, *Enum:
		return true
	default:
		return false
	}
}

// IsCompositeType reports whether t has selectable sub-fields.
func IsCompositeType(t Type) bool {
	switch Resolve(t).(type) {
	case *Object, *Interface, *Union:
		return true
	default:
		return false
	}
}

// IsAbstractType reports whether t requires runtime resolution to a
// concrete object type.
func IsAbstractType(t Type) bool {
	switch Resolve(t).(type) {
	case *Interface, *Union:
		return true
	default:
		return false
	}
}
