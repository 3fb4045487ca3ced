package main

import (
	"fmt"
	"strconv"

	"github.com/plumelang/plume/sexy"
)

var binaryOps = map[string]string{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv,
	"and": OpAnd, "&": OpAnd,
	"or": OpOr, "|": OpOr,
	"eq": OpEq, "==": OpEq,
	"gt": OpGt, ">": OpGt,
	"lt": OpLt, "<": OpLt,
}

var unaryOps = map[string]string{
	"not": OpNot, "!": OpNot,
	"-": OpNeg, "minus": OpNeg,
}

// DecodeProgram reads a program written in the AST interchange syntax:
//
//	(program (struct "N" members...) (func "f" [params] T [body]) (main [body]))
func DecodeProgram(input string) (*ASTNode, error) {
	root, err := sexy.Parse(input)
	if err != nil {
		return nil, err
	}
	return decodeProgram(root)
}

// DecodeExpression reads a single expression.
func DecodeExpression(input string) (*ASTNode, error) {
	root, err := sexy.Parse(input)
	if err != nil {
		return nil, err
	}
	return decodeExpr(root)
}

// DecodeStatement reads a single statement. A bare expression that is legal as a statement
// (call, append, size) is wrapped in NodeExprStmt.
func DecodeStatement(input string) (*ASTNode, error) {
	root, err := sexy.Parse(input)
	if err != nil {
		return nil, err
	}
	return decodeStmt(root)
}

func errorAt(n *sexy.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", n.Line, fmt.Sprintf(format, args...))
}

// expectList checks that n is a list headed by head with between lo and hi items after
// the head. hi < 0 means unbounded.
func expectList(n *sexy.Node, head string, lo, hi int) error {
	if n.Head() != head {
		return errorAt(n, "expected (%s ...), got %s", head, n)
	}
	args := len(n.Items) - 1
	switch {
	case hi < 0 && args < lo:
		return errorAt(n, "%s expects at least %d arguments, got %d", head, lo, args)
	case lo == hi && args != lo:
		return errorAt(n, "%s expects %d arguments, got %d", head, lo, args)
	case args < lo || (hi >= 0 && args > hi):
		return errorAt(n, "%s expects %d to %d arguments, got %d", head, lo, hi, args)
	}
	return nil
}

func decodeName(n *sexy.Node) (string, error) {
	if n.Type != sexy.NodeString {
		return "", errorAt(n, "expected a quoted name, got %s", n)
	}
	return n.Text, nil
}

func decodeArray(n *sexy.Node, what string) ([]*sexy.Node, error) {
	if n.Type != sexy.NodeArray {
		return nil, errorAt(n, "expected [%s...], got %s", what, n)
	}
	return n.Items, nil
}

func decodeProgram(n *sexy.Node) (*ASTNode, error) {
	if err := expectList(n, "program", 0, -1); err != nil {
		return nil, err
	}
	program := &ASTNode{Kind: NodeProgram, Line: n.Line}
	for _, item := range n.Items[1:] {
		var decl *ASTNode
		var err error
		switch item.Head() {
		case "struct":
			decl, err = decodeStruct(item)
		case "func":
			decl, err = decodeFunc(item)
		case "main":
			decl, err = decodeMain(item)
		default:
			err = errorAt(item, "unexpected declaration %s", item)
		}
		if err != nil {
			return nil, err
		}
		program.Children = append(program.Children, decl)
	}
	return program, nil
}

func decodeStruct(n *sexy.Node) (*ASTNode, error) {
	if err := expectList(n, "struct", 1, -1); err != nil {
		return nil, err
	}
	name, err := decodeName(n.Items[1])
	if err != nil {
		return nil, err
	}
	node := &ASTNode{Kind: NodeStruct, Line: n.Line, String: name}
	for _, item := range n.Items[2:] {
		var member *ASTNode
		switch item.Head() {
		case "var":
			member, err = decodeVar(item)
		case "property":
			member, err = decodeProperty(item)
		default:
			err = errorAt(item, "unexpected struct member %s", item)
		}
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, member)
	}
	return node, nil
}

// (property "p" T [params] [setter] [getter])
func decodeProperty(n *sexy.Node) (*ASTNode, error) {
	if err := expectList(n, "property", 5, 5); err != nil {
		return nil, err
	}
	name, err := decodeName(n.Items[1])
	if err != nil {
		return nil, err
	}
	declType, err := decodeType(n.Items[2])
	if err != nil {
		return nil, err
	}
	params, err := decodeParams(n.Items[3])
	if err != nil {
		return nil, err
	}
	setter, err := decodeBody(n.Items[4])
	if err != nil {
		return nil, err
	}
	getter, err := decodeBody(n.Items[5])
	if err != nil {
		return nil, err
	}
	return &ASTNode{
		Kind:     NodeProperty,
		Line:     n.Line,
		String:   name,
		DeclType: declType,
		Params:   params,
		Setter:   setter,
		Getter:   getter,
	}, nil
}

// (func "f" [params] T [body])
func decodeFunc(n *sexy.Node) (*ASTNode, error) {
	if err := expectList(n, "func", 4, 4); err != nil {
		return nil, err
	}
	name, err := decodeName(n.Items[1])
	if err != nil {
		return nil, err
	}
	params, err := decodeParams(n.Items[2])
	if err != nil {
		return nil, err
	}
	ret, err := decodeType(n.Items[3])
	if err != nil {
		return nil, err
	}
	body, err := decodeBody(n.Items[4])
	if err != nil {
		return nil, err
	}
	return &ASTNode{Kind: NodeFunc, Line: n.Line, String: name, Params: params, DeclType: ret, Children: body}, nil
}

func decodeMain(n *sexy.Node) (*ASTNode, error) {
	if err := expectList(n, "main", 1, 1); err != nil {
		return nil, err
	}
	body, err := decodeBody(n.Items[1])
	if err != nil {
		return nil, err
	}
	return &ASTNode{Kind: NodeMain, Line: n.Line, Children: body}, nil
}

func decodeParams(n *sexy.Node) ([]*ASTNode, error) {
	items, err := decodeArray(n, "(var ...)")
	if err != nil {
		return nil, err
	}
	params := make([]*ASTNode, len(items))
	for i, item := range items {
		if params[i], err = decodeVar(item); err != nil {
			return nil, err
		}
		if len(params[i].Children) > 0 {
			return nil, errorAt(item, "parameter '%s' cannot have a default value", params[i].String)
		}
	}
	return params, nil
}

func decodeBody(n *sexy.Node) ([]*ASTNode, error) {
	items, err := decodeArray(n, "statement ")
	if err != nil {
		return nil, err
	}
	stmts := make([]*ASTNode, len(items))
	for i, item := range items {
		if stmts[i], err = decodeStmt(item); err != nil {
			return nil, err
		}
	}
	return stmts, nil
}

// (var "x" T [init])
func decodeVar(n *sexy.Node) (*ASTNode, error) {
	if err := expectList(n, "var", 2, 3); err != nil {
		return nil, err
	}
	name, err := decodeName(n.Items[1])
	if err != nil {
		return nil, err
	}
	declType, err := decodeType(n.Items[2])
	if err != nil {
		return nil, err
	}
	node := &ASTNode{Kind: NodeVar, Line: n.Line, String: name, DeclType: declType}
	if len(n.Items) == 4 {
		value, err := decodeExpr(n.Items[3])
		if err != nil {
			return nil, err
		}
		node.Children = []*ASTNode{value}
	}
	return node, nil
}

func decodeType(n *sexy.Node) (*TypeNode, error) {
	if n.Type == sexy.NodeSymbol {
		switch n.Text {
		case "int":
			return TypeInt, nil
		case "bool":
			return TypeBool, nil
		case "void":
			return TypeVoid, nil
		}
		return nil, errorAt(n, "unknown type '%s'", n.Text)
	}

	switch n.Head() {
	case "list":
		if err := expectList(n, "list", 1, 1); err != nil {
			return nil, err
		}
		elem, err := decodeType(n.Items[1])
		if err != nil {
			return nil, err
		}
		return NewListType(elem), nil
	case "struct":
		if err := expectList(n, "struct", 1, 1); err != nil {
			return nil, err
		}
		name, err := decodeName(n.Items[1])
		if err != nil {
			return nil, err
		}
		return NewStructType(name), nil
	case "fptr":
		if err := expectList(n, "fptr", 2, 2); err != nil {
			return nil, err
		}
		items, err := decodeArray(n.Items[1], "type ")
		if err != nil {
			return nil, err
		}
		params := make([]*TypeNode, len(items))
		for i, item := range items {
			if params[i], err = decodeType(item); err != nil {
				return nil, err
			}
		}
		ret, err := decodeType(n.Items[2])
		if err != nil {
			return nil, err
		}
		return NewFptrType(params, ret), nil
	}
	return nil, errorAt(n, "expected a type, got %s", n)
}

func decodeStmt(n *sexy.Node) (*ASTNode, error) {
	head := n.Head()
	switch head {
	case "var":
		decl, err := decodeVar(n)
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeVars, Line: n.Line, Children: []*ASTNode{decl}}, nil

	case "vars":
		node := &ASTNode{Kind: NodeVars, Line: n.Line}
		for _, item := range n.Items[1:] {
			decl, err := decodeVar(item)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, decl)
		}
		if len(node.Children) == 0 {
			return nil, errorAt(n, "vars expects at least one declaration")
		}
		return node, nil

	case "assign":
		if err := expectList(n, "assign", 2, 2); err != nil {
			return nil, err
		}
		children, err := decodeExprs(n.Items[1:])
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeAssign, Line: n.Line, Children: children}, nil

	case "block":
		node := &ASTNode{Kind: NodeBlock, Line: n.Line}
		for _, item := range n.Items[1:] {
			stmt, err := decodeStmt(item)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, stmt)
		}
		return node, nil

	case "if", "while":
		hi, kind := 3, NodeIf
		if head == "while" {
			hi, kind = 2, NodeWhile
		}
		if err := expectList(n, head, 2, hi); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(n.Items[1])
		if err != nil {
			return nil, err
		}
		node := &ASTNode{Kind: kind, Line: n.Line, Children: []*ASTNode{cond}}
		for _, item := range n.Items[2:] {
			stmt, err := decodeStmt(item)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, stmt)
		}
		return node, nil

	case "display":
		if err := expectList(n, "display", 1, 1); err != nil {
			return nil, err
		}
		expr, err := decodeExpr(n.Items[1])
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeDisplay, Line: n.Line, Children: []*ASTNode{expr}}, nil

	case "return":
		if err := expectList(n, "return", 0, 1); err != nil {
			return nil, err
		}
		children, err := decodeExprs(n.Items[1:])
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeReturn, Line: n.Line, Children: children}, nil

	case "call", "append", "size":
		expr, err := decodeExpr(n)
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeExprStmt, Line: n.Line, Children: []*ASTNode{expr}}, nil
	}
	return nil, errorAt(n, "unexpected statement %s", n)
}

func decodeExprs(items []*sexy.Node) ([]*ASTNode, error) {
	exprs := make([]*ASTNode, len(items))
	for i, item := range items {
		var err error
		if exprs[i], err = decodeExpr(item); err != nil {
			return nil, err
		}
	}
	return exprs, nil
}

func decodeOp(n *sexy.Node, ops map[string]string) (string, error) {
	if n.Type != sexy.NodeString && n.Type != sexy.NodeSymbol {
		return "", errorAt(n, "expected an operator, got %s", n)
	}
	op, ok := ops[n.Text]
	if !ok {
		return "", errorAt(n, "unknown operator '%s'", n.Text)
	}
	return op, nil
}

func decodeExpr(n *sexy.Node) (*ASTNode, error) {
	switch n.Type {
	case sexy.NodeInteger:
		value, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			return nil, errorAt(n, "invalid integer %s: %v", n.Text, err)
		}
		return &ASTNode{Kind: NodeInteger, Line: n.Line, Integer: value}, nil
	case sexy.NodeSymbol:
		switch n.Text {
		case "true", "false":
			return &ASTNode{Kind: NodeBoolean, Line: n.Line, Boolean: n.Text == "true"}, nil
		}
		return nil, errorAt(n, "unexpected symbol '%s' in expression", n.Text)
	case sexy.NodeList:
	default:
		return nil, errorAt(n, "expected an expression, got %s", n)
	}

	head := n.Head()
	switch head {
	case "ident":
		if err := expectList(n, head, 1, 1); err != nil {
			return nil, err
		}
		name, err := decodeName(n.Items[1])
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeIdent, Line: n.Line, String: name}, nil

	case "binary":
		if err := expectList(n, head, 3, 3); err != nil {
			return nil, err
		}
		op, err := decodeOp(n.Items[1], binaryOps)
		if err != nil {
			return nil, err
		}
		children, err := decodeExprs(n.Items[2:])
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeBinary, Line: n.Line, Op: op, Children: children}, nil

	case "unary":
		if err := expectList(n, head, 2, 2); err != nil {
			return nil, err
		}
		op, err := decodeOp(n.Items[1], unaryOps)
		if err != nil {
			return nil, err
		}
		children, err := decodeExprs(n.Items[2:])
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeUnary, Line: n.Line, Op: op, Children: children}, nil

	case "access":
		if err := expectList(n, head, 2, 2); err != nil {
			return nil, err
		}
		instance, err := decodeExpr(n.Items[1])
		if err != nil {
			return nil, err
		}
		member, err := decodeName(n.Items[2])
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeAccess, Line: n.Line, String: member, Children: []*ASTNode{instance}}, nil
	}

	kinds := map[string]struct {
		kind   NodeKind
		lo, hi int
	}{
		"call":   {NodeCall, 1, -1},
		"index":  {NodeIndex, 2, 2},
		"size":   {NodeSize, 1, 1},
		"append": {NodeAppend, 2, 2},
		"paren":  {NodeParen, 1, 1},
	}
	shape, ok := kinds[head]
	if !ok {
		return nil, errorAt(n, "unexpected expression %s", n)
	}
	if err := expectList(n, head, shape.lo, shape.hi); err != nil {
		return nil, err
	}
	children, err := decodeExprs(n.Items[1:])
	if err != nil {
		return nil, err
	}
	return &ASTNode{Kind: shape.kind, Line: n.Line, Children: children}, nil
}
