// Package language exposes the query AST consumed by the executor.
//
// It is a thin alias layer over gqlparser's ast package so that the rest of
// the module never imports gqlparser directly. Callers are expected to hand
// the executor an already-validated document; ParseQuery only performs
// syntactic parsing.
package language

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
)

// Error is a located parse or request error, compatible with the GraphQL
// response error shape.
type Error = gqlerror.Error

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
