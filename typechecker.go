package main

import "errors"

// checkMode selects which statements are legal. Entering a function, setter, getter or
// the main block replaces the mode for that sub-tree.
type checkMode int

const (
	modeGlobal checkMode = iota
	modeMain
	modeSetter
	modeGetter
)

// checkContext is copied into every recursive call. A nested construct derives its own
// context and the caller's is left untouched.
type checkContext struct {
	function   *Symbol
	strct      *Symbol
	mode       checkMode
	getterType *TypeNode
}

func (c checkContext) inFunction(fn *Symbol) checkContext {
	return checkContext{function: fn, mode: modeGlobal}
}

func (c checkContext) inStruct(s *Symbol) checkContext {
	return checkContext{strct: s, mode: modeGlobal}
}

func (c checkContext) inSetter() checkContext {
	c.function = nil
	c.mode = modeSetter
	c.getterType = nil
	return c
}

func (c checkContext) inGetter(t *TypeNode) checkContext {
	c.function = nil
	c.mode = modeGetter
	c.getterType = t
	return c
}

func mainContext() checkContext {
	return checkContext{mode: modeMain}
}

// TypeChecker holds the state of one type-checking run. It is not safe for concurrent use;
// create one per program.
type TypeChecker struct {
	st     *SymbolTable
	Errors *ErrorCollection
}

func NewTypeChecker(st *SymbolTable) *TypeChecker {
	return &TypeChecker{st: st, Errors: NewErrorCollection()}
}

func (tc *TypeChecker) SymbolTable() *SymbolTable {
	return tc.st
}

// report records a diagnostic on node and in the run's collection.
func (tc *TypeChecker) report(node *ASTNode, kind DiagnosticKind, names ...string) {
	d := &Diagnostic{Kind: kind, Line: node.Line, Node: node, Names: names}
	node.Diagnostics = append(node.Diagnostics, d)
	tc.Errors.Add(d)
}

// since returns the diagnostics reported after the collection held n entries, joined into
// one error, or nil.
func (tc *TypeChecker) since(n int) error {
	var errs []error
	for _, d := range tc.Errors.Errors()[n:] {
		errs = append(errs, d)
	}
	return errors.Join(errs...)
}

// inNewScope runs body in a fresh scope under parent. The scope is popped on every exit.
func (tc *TypeChecker) inNewScope(parent *Scope, body func(scope *Scope)) {
	scope := tc.st.PushScope(parent)
	defer tc.st.PopScope()
	body(scope)
}

// inScope runs body with an existing scope made current.
func (tc *TypeChecker) inScope(scope *Scope, body func()) {
	tc.st.EnterScope(scope)
	defer tc.st.PopScope()
	body()
}

// CheckProgram type-checks program against the declarations already registered in st and
// returns every diagnostic found. Structs are checked first, then functions, then main.
func CheckProgram(program *ASTNode, st *SymbolTable) *ErrorCollection {
	tc := NewTypeChecker(st)
	tc.checkProgram(program)
	return tc.Errors
}

// CheckStatement type-checks a single statement as if it appeared in the main block,
// binding any declared variables in the current scope.
func CheckStatement(node *ASTNode, tc *TypeChecker) error {
	before := tc.Errors.Len()
	tc.checkStatement(node, mainContext())
	return tc.since(before)
}

func (tc *TypeChecker) checkProgram(program *ASTNode) {
	for _, kind := range []NodeKind{NodeStruct, NodeFunc, NodeMain} {
		for _, decl := range program.Children {
			if decl.Kind != kind {
				continue
			}
			switch kind {
			case NodeStruct:
				tc.checkStruct(decl)
			case NodeFunc:
				tc.checkFunc(decl)
			case NodeMain:
				tc.checkMain(decl)
			}
		}
	}
}

func (tc *TypeChecker) checkStruct(node *ASTNode) {
	sym := tc.st.LookupStruct(node.String)
	if sym == nil {
		sym = &Symbol{Name: node.String, Kind: SymbolStruct, Scope: NewScope(tc.st.Global()), Decl: node}
	}
	node.Scope = sym.Scope
	ctx := checkContext{}.inStruct(sym)

	tc.inScope(sym.Scope, func() {
		for _, member := range node.Children {
			switch member.Kind {
			case NodeVar:
				tc.checkVarDecl(member, ctx)
			case NodeProperty:
				tc.checkProperty(member, ctx)
			}
		}
	})
}

func (tc *TypeChecker) checkProperty(node *ASTNode, ctx checkContext) {
	propType := node.DeclType
	if name, ok := undeclaredStruct(propType, tc.st.LookupStruct); ok {
		tc.report(node, StructNotDeclared, name)
		propType = TypeNone
	}
	tc.st.DeclareVariable(node.String, propType)

	setter := ctx.inSetter()
	tc.inNewScope(tc.st.Current(), func(*Scope) {
		for _, param := range node.Params {
			tc.checkVarDecl(param, setter)
		}
		for _, stmt := range node.Setter {
			tc.checkStatement(stmt, setter)
		}
	})

	getter := ctx.inGetter(propType)
	for _, stmt := range node.Getter {
		tc.checkStatement(stmt, getter)
	}
}

func (tc *TypeChecker) checkFunc(node *ASTNode) {
	fn := tc.st.LookupFunction(node.String)
	if fn == nil || fn.Decl != node {
		params := make([]*TypeNode, len(node.Params))
		for i, param := range node.Params {
			params[i] = param.DeclType
		}
		fn = &Symbol{Name: node.String, Kind: SymbolFunction, Params: params, Return: node.DeclType, Decl: node}
	}

	if name, ok := undeclaredStruct(node.DeclType, tc.st.LookupStruct); ok {
		tc.report(node, StructNotDeclared, name)
	}

	ctx := checkContext{}.inFunction(fn)
	tc.inNewScope(tc.st.Global(), func(scope *Scope) {
		fn.Scope = scope
		node.Scope = scope
		for _, param := range node.Params {
			tc.checkVarDecl(param, ctx)
		}
		for _, stmt := range node.Children {
			tc.checkStatement(stmt, ctx)
		}
	})
}

func (tc *TypeChecker) checkMain(node *ASTNode) {
	ctx := mainContext()
	tc.inNewScope(tc.st.Global(), func(scope *Scope) {
		node.Scope = scope
		for _, stmt := range node.Children {
			tc.checkStatement(stmt, ctx)
		}
	})
}

func (tc *TypeChecker) checkStatement(node *ASTNode, ctx checkContext) {
	switch node.Kind {
	case NodeVars, NodeVar:
		if ctx.mode == modeSetter || ctx.mode == modeGetter {
			tc.report(node, CannotUseDefineVar)
			return
		}
		if node.Kind == NodeVar {
			tc.checkVarDecl(node, ctx)
			return
		}
		for _, decl := range node.Children {
			tc.checkVarDecl(decl, ctx)
		}

	case NodeAssign:
		tc.checkAssign(node, ctx)

	case NodeBlock:
		tc.inNewScope(tc.st.Current(), func(*Scope) {
			for _, stmt := range node.Children {
				tc.checkStatement(stmt, ctx)
			}
		})

	case NodeIf:
		tc.checkCondition(node, node.Children[0], ctx)
		for _, branch := range node.Children[1:] {
			tc.inNewScope(tc.st.Current(), func(*Scope) {
				tc.checkStatement(branch, ctx)
			})
		}

	case NodeWhile:
		tc.checkCondition(node, node.Children[0], ctx)
		tc.inNewScope(tc.st.Current(), func(*Scope) {
			tc.checkStatement(node.Children[1], ctx)
		})

	case NodeDisplay:
		t := tc.typeOf(node.Children[0], ctx, false)
		switch t.Kind {
		case KindInt, KindBool, KindList, KindNoType:
		default:
			tc.report(node, UnsupportedTypeForDisplay)
		}

	case NodeReturn:
		tc.checkReturn(node, ctx)

	case NodeExprStmt:
		tc.typeOf(node.Children[0], ctx, true)

	default:
		if node.IsExpression() {
			tc.typeOf(node, ctx, true)
		}
	}
}

func (tc *TypeChecker) checkCondition(stmt, cond *ASTNode, ctx checkContext) {
	t := tc.typeOf(cond, ctx, false)
	if !IsNoType(t) && t.Kind != KindBool {
		tc.report(stmt, ConditionNotBool)
	}
}

func (tc *TypeChecker) checkVarDecl(node *ASTNode, ctx checkContext) {
	declType := node.DeclType
	if len(node.Children) > 0 {
		initType := tc.typeOf(node.Children[0], ctx, false)
		if !TypesCompatible(declType, initType) {
			tc.report(node, UnsupportedOperandType, "assign")
		}
	}
	if name, ok := undeclaredStruct(declType, tc.st.LookupStruct); ok {
		tc.report(node, StructNotDeclared, name)
		declType = TypeNone
	}
	tc.st.DeclareVariable(node.String, declType)
}

func (tc *TypeChecker) checkAssign(node *ASTNode, ctx checkContext) {
	lhs, rhs := node.Children[0], node.Children[1]
	lhsType := tc.typeOf(lhs, ctx, false)
	rhsType := tc.typeOf(rhs, ctx, false)

	switch lhs.Kind {
	case NodeIdent, NodeAccess, NodeIndex:
	default:
		tc.report(node, LeftSideNotLvalue)
		return
	}
	if !TypesCompatible(lhsType, rhsType) {
		tc.report(node, UnsupportedOperandType, "assign")
	}
}

func (tc *TypeChecker) checkReturn(node *ASTNode, ctx checkContext) {
	t := TypeVoid
	if len(node.Children) > 0 {
		t = tc.typeOf(node.Children[0], ctx, false)
	}

	switch {
	case ctx.mode == modeGetter:
		if !TypesCompatible(ctx.getterType, t) {
			tc.report(node, ReturnValueNotMatchFunctionReturnType)
		}
	case ctx.mode == modeMain || ctx.mode == modeSetter || ctx.function == nil:
		tc.report(node, CannotUseReturn)
	default:
		if !TypesCompatible(ctx.function.Return, t) {
			tc.report(node, ReturnValueNotMatchFunctionReturnType)
		}
	}
}
