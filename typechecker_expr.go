package main

// operatorNames are the operator spellings used in diagnostics.
var operatorNames = map[string]string{
	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mult",
	OpDiv: "div",
	OpAnd: "and",
	OpOr:  "or",
	OpEq:  "eq",
	OpGt:  "gt",
	OpLt:  "lt",
	OpNot: "not",
}

func operatorName(node *ASTNode) string {
	if node.Kind == NodeUnary && node.Op == OpNeg {
		return "minus"
	}
	if name, ok := operatorNames[node.Op]; ok {
		return name
	}
	return node.Op
}

// CheckExpression computes the type of node and everything below it as if it appeared in
// the main block. The computed types are stored in TypeAST; the returned error joins the
// diagnostics reported for this expression.
func CheckExpression(node *ASTNode, tc *TypeChecker) error {
	before := tc.Errors.Len()
	tc.typeOf(node, mainContext(), false)
	return tc.since(before)
}

// typeOf computes and records the type of an expression. asStatement is set for the
// outermost expression of an expression statement, where a void call is legal.
func (tc *TypeChecker) typeOf(node *ASTNode, ctx checkContext, asStatement bool) *TypeNode {
	t := tc.exprType(node, ctx, asStatement)
	node.TypeAST = t
	return t
}

func (tc *TypeChecker) exprType(node *ASTNode, ctx checkContext, asStatement bool) *TypeNode {
	switch node.Kind {
	case NodeInteger:
		return TypeInt
	case NodeBoolean:
		return TypeBool
	case NodeParen:
		return tc.typeOf(node.Children[0], ctx, false)
	case NodeIdent:
		return tc.identType(node, ctx)
	case NodeBinary:
		return tc.binaryType(node, ctx)
	case NodeUnary:
		operand := tc.typeOf(node.Children[0], ctx, false)
		if node.Op == OpNot {
			return tc.operandsOfKind(node, KindBool, TypeBool, operand)
		}
		return tc.operandsOfKind(node, KindInt, TypeInt, operand)
	case NodeCall:
		return tc.callType(node, ctx, asStatement)
	case NodeIndex:
		return tc.indexType(node, ctx)
	case NodeAccess:
		return tc.accessType(node, ctx)
	case NodeSize:
		list := tc.typeOf(node.Children[0], ctx, false)
		if IsNoType(list) {
			return TypeNone
		}
		if list.Kind != KindList {
			tc.report(node, GetSizeOfNonList)
			return TypeNone
		}
		return TypeInt
	case NodeAppend:
		return tc.appendType(node, ctx)
	default:
		return TypeNone
	}
}

// identType resolves a name as a function first, then through the scope chain, then
// through the fields of the enclosing struct.
func (tc *TypeChecker) identType(node *ASTNode, ctx checkContext) *TypeNode {
	if fn := tc.st.LookupFunction(node.String); fn != nil {
		return fn.FptrType()
	}
	if sym := tc.st.LookupVariable(node.String); sym != nil {
		return sym.Type
	}
	if ctx.strct != nil && ctx.strct.Scope != nil {
		if sym := ctx.strct.Scope.LookupLocal(SymbolVariable, node.String); sym != nil {
			return sym.Type
		}
	}
	tc.report(node, VarNotDeclared, node.String)
	return TypeNone
}

func (tc *TypeChecker) binaryType(node *ASTNode, ctx checkContext) *TypeNode {
	left := tc.typeOf(node.Children[0], ctx, false)
	right := tc.typeOf(node.Children[1], ctx, false)

	switch node.Op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return tc.operandsOfKind(node, KindInt, TypeInt, left, right)
	case OpAnd, OpOr:
		return tc.operandsOfKind(node, KindBool, TypeBool, left, right)
	case OpGt, OpLt:
		return tc.operandsOfKind(node, KindInt, TypeBool, left, right)
	case OpEq:
		// Lists are not comparable.
		if left.Kind == KindList || right.Kind == KindList {
			tc.report(node, UnsupportedOperandType, operatorName(node))
			return TypeNone
		}
		if IsNoType(left) || IsNoType(right) {
			return TypeNone
		}
		if !TypesCompatible(left, right) {
			tc.report(node, UnsupportedOperandType, operatorName(node))
			return TypeNone
		}
		return TypeBool
	default:
		tc.report(node, UnsupportedOperandType, operatorName(node))
		return TypeNone
	}
}

// operandsOfKind requires every operand to be of kind want. A NoType operand makes the
// result NoType without a new diagnostic.
func (tc *TypeChecker) operandsOfKind(node *ASTNode, want TypeKind, result *TypeNode, operands ...*TypeNode) *TypeNode {
	sawNoType := false
	for _, operand := range operands {
		if IsNoType(operand) {
			sawNoType = true
			continue
		}
		if operand.Kind != want {
			tc.report(node, UnsupportedOperandType, operatorName(node))
			return TypeNone
		}
	}
	if sawNoType {
		return TypeNone
	}
	return result
}

func (tc *TypeChecker) callType(node *ASTNode, ctx checkContext, asStatement bool) *TypeNode {
	callee := tc.typeOf(node.Children[0], ctx, false)
	args := make([]*TypeNode, len(node.Children)-1)
	for i, arg := range node.Children[1:] {
		args[i] = tc.typeOf(arg, ctx, false)
	}

	if IsNoType(callee) {
		return TypeNone
	}
	if callee.Kind != KindFptr {
		tc.report(node, CallOnNoneFptrType)
		return TypeNone
	}
	if len(args) != len(callee.Params) {
		tc.report(node, ArgsInFunctionCallNotMatchDefinition)
		return TypeNone
	}
	for i, param := range callee.Params {
		if !TypesCompatible(param, args[i]) {
			tc.report(node, ArgsInFunctionCallNotMatchDefinition)
			return TypeNone
		}
	}
	if callee.Child.Kind == KindVoid && !asStatement {
		tc.report(node, CantUseValueOfVoidFunction)
		return TypeNone
	}
	return callee.Child
}

func (tc *TypeChecker) indexType(node *ASTNode, ctx checkContext) *TypeNode {
	list := tc.typeOf(node.Children[0], ctx, false)
	index := tc.typeOf(node.Children[1], ctx, false)

	indexOK := true
	if !IsNoType(index) && index.Kind != KindInt {
		tc.report(node, ListIndexNotInt)
		indexOK = false
	}
	if IsNoType(list) {
		return TypeNone
	}
	if list.Kind != KindList {
		tc.report(node, AccessByIndexOnNonList)
		return TypeNone
	}
	if !indexOK {
		return TypeNone
	}
	return list.Child
}

func (tc *TypeChecker) accessType(node *ASTNode, ctx checkContext) *TypeNode {
	instance := tc.typeOf(node.Children[0], ctx, false)
	if IsNoType(instance) {
		return TypeNone
	}
	if instance.Kind != KindStruct {
		tc.report(node, AccessOnNonStruct)
		return TypeNone
	}
	// An undeclared struct was reported where the instance was declared.
	sym := tc.st.LookupStruct(instance.String)
	if sym == nil {
		return TypeNone
	}
	member := sym.Scope.LookupLocal(SymbolVariable, node.String)
	if member == nil {
		tc.report(node, StructMemberNotFound, instance.String, node.String)
		return TypeNone
	}
	return member.Type
}

func (tc *TypeChecker) appendType(node *ASTNode, ctx checkContext) *TypeNode {
	list := tc.typeOf(node.Children[0], ctx, false)
	elem := tc.typeOf(node.Children[1], ctx, false)

	if IsNoType(list) {
		return TypeNone
	}
	if list.Kind != KindList {
		tc.report(node, AppendToNonList)
		return TypeNone
	}
	if !TypesCompatible(list.Child, elem) {
		tc.report(node, NewElementTypeNotMatchListType)
		return TypeNone
	}
	return TypeVoid
}
