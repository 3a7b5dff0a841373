// Package executor evaluates parsed query documents against a schema.
//
// Sibling fields of a selection set resolve concurrently and join before the
// parent's result is assembled, so response field order always follows the
// query text. The mutation root is the one exception and runs its fields
// serially. Field failures become located errors in the result while the
// rest of the response survives, with non-null constraints propagating nulls
// toward the nearest nullable ancestor.
package executor
