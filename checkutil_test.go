package main

import (
	"testing"

	"github.com/nalgeon/be"
)

// checkSource decodes, collects and type-checks a whole program.
func checkSource(t *testing.T, source string) (*ASTNode, *ErrorCollection) {
	t.Helper()
	ast, err := DecodeProgram(source)
	be.Err(t, err, nil)

	st, err := BuildSymbolTable(ast)
	be.Err(t, err, nil)

	errs := CheckProgram(ast, st)
	be.Equal(t, st.PushCount(), st.PopCount())
	be.Equal(t, st.Current(), st.Global())
	return ast, errs
}

// checkExprSource type-checks one expression in a main-block scope holding the given
// variables.
func checkExprSource(t *testing.T, source string, vars map[string]*TypeNode) (*ASTNode, *ErrorCollection) {
	t.Helper()
	expr, err := DecodeExpression(source)
	be.Err(t, err, nil)

	st := NewSymbolTable()
	st.PushScope(st.Global())
	for name, typ := range vars {
		st.DeclareVariable(name, typ)
	}
	tc := NewTypeChecker(st)
	_ = CheckExpression(expr, tc)
	return expr, tc.Errors
}

// findNode returns the first node of kind in traversal order.
func findNode(ast *ASTNode, kind NodeKind) *ASTNode {
	var found *ASTNode
	Walk(ast, func(n *ASTNode) {
		if found == nil && n.Kind == kind {
			found = n
		}
	})
	return found
}
