package main

import (
	"strconv"
	"strings"

	"github.com/plumelang/plume/sexy"
)

// NodeKind represents different types of AST nodes
type NodeKind string

const (
	// Declarations
	NodeProgram  NodeKind = "NodeProgram"
	NodeStruct   NodeKind = "NodeStruct"
	NodeFunc     NodeKind = "NodeFunc"
	NodeMain     NodeKind = "NodeMain"
	NodeVar      NodeKind = "NodeVar"
	NodeProperty NodeKind = "NodeProperty"

	// Statements
	NodeVars     NodeKind = "NodeVars"
	NodeAssign   NodeKind = "NodeAssign"
	NodeBlock    NodeKind = "NodeBlock"
	NodeIf       NodeKind = "NodeIf"
	NodeWhile    NodeKind = "NodeWhile"
	NodeDisplay  NodeKind = "NodeDisplay"
	NodeReturn   NodeKind = "NodeReturn"
	NodeExprStmt NodeKind = "NodeExprStmt"

	// Expressions
	NodeInteger NodeKind = "NodeInteger"
	NodeBoolean NodeKind = "NodeBoolean"
	NodeIdent   NodeKind = "NodeIdent"
	NodeBinary  NodeKind = "NodeBinary"
	NodeUnary   NodeKind = "NodeUnary"
	NodeCall    NodeKind = "NodeCall"
	NodeIndex   NodeKind = "NodeIndex"
	NodeAccess  NodeKind = "NodeAccess"
	NodeSize    NodeKind = "NodeSize"
	NodeAppend  NodeKind = "NodeAppend"
	NodeParen   NodeKind = "NodeParen"
)

// Operators as they appear in NodeBinary.Op and NodeUnary.Op.
const (
	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "/"
	OpAnd = "and"
	OpOr  = "or"
	OpEq  = "eq"
	OpGt  = "gt"
	OpLt  = "lt"
	OpNot = "not"
	OpNeg = "-"
)

// ASTNode represents a node in the Abstract Syntax Tree
type ASTNode struct {
	Kind NodeKind
	// 1-based source line.
	Line int

	// NodeIdent: identifier. NodeAccess: member name.
	// NodeStruct, NodeFunc, NodeVar, NodeProperty: declared name.
	String string
	// NodeInteger:
	Integer int64
	// NodeBoolean:
	Boolean bool
	// NodeBinary, NodeUnary:
	Op string

	// NodeBinary: [left right]. NodeUnary, NodeParen, NodeSize, NodeAccess: [operand].
	// NodeCall: [callee args...]. NodeIndex: [list index]. NodeAppend: [list element].
	// NodeVar: [init] or empty. NodeVars: NodeVar children. NodeAssign: [lhs rhs].
	// NodeBlock, NodeMain, NodeFunc: body statements. NodeIf: [cond then else?].
	// NodeWhile: [cond body]. NodeDisplay, NodeExprStmt: [expr]. NodeReturn: [expr?].
	// NodeStruct: NodeVar and NodeProperty members. NodeProgram: declarations.
	Children []*ASTNode

	// NodeFunc, NodeProperty: parameter NodeVars.
	Params []*ASTNode
	// NodeProperty:
	Setter []*ASTNode
	Getter []*ASTNode

	// NodeVar, NodeProperty: declared type. NodeFunc: return type.
	DeclType *TypeNode

	// Filled in by the type checker.
	TypeAST     *TypeNode     // expressions: computed type
	Scope       *Scope        // NodeFunc, NodeStruct: the scope holding locals or fields
	Diagnostics []*Diagnostic // violations found at this node
}

// IsExpression reports whether the node kind produces a value.
func (n *ASTNode) IsExpression() bool {
	switch n.Kind {
	case NodeInteger, NodeBoolean, NodeIdent, NodeBinary, NodeUnary, NodeCall,
		NodeIndex, NodeAccess, NodeSize, NodeAppend, NodeParen:
		return true
	}
	return false
}

// Walk calls visit for n and every node below it, parents first.
func Walk(n *ASTNode, visit func(*ASTNode)) {
	if n == nil {
		return
	}
	visit(n)
	for _, group := range [][]*ASTNode{n.Params, n.Children, n.Setter, n.Getter} {
		for _, child := range group {
			Walk(child, visit)
		}
	}
}

// ToSExpr converts an AST node to s-expression string representation
func ToSExpr(node *ASTNode) string {
	switch node.Kind {
	case NodeProgram:
		return list("program", sexprs(node.Children)...)
	case NodeStruct:
		return list("struct", append([]string{quote(node.String)}, sexprs(node.Children)...)...)
	case NodeFunc:
		return list("func", quote(node.String), array(node.Params), typeToSExpr(node.DeclType), array(node.Children))
	case NodeMain:
		return list("main", array(node.Children))
	case NodeVar:
		parts := []string{quote(node.String), typeToSExpr(node.DeclType)}
		return list("var", append(parts, sexprs(node.Children)...)...)
	case NodeProperty:
		return list("property", quote(node.String), typeToSExpr(node.DeclType),
			array(node.Params), array(node.Setter), array(node.Getter))
	case NodeVars:
		if len(node.Children) == 1 {
			return ToSExpr(node.Children[0])
		}
		return list("vars", sexprs(node.Children)...)
	case NodeAssign:
		return list("assign", sexprs(node.Children)...)
	case NodeBlock:
		return list("block", sexprs(node.Children)...)
	case NodeIf:
		return list("if", sexprs(node.Children)...)
	case NodeWhile:
		return list("while", sexprs(node.Children)...)
	case NodeDisplay:
		return list("display", sexprs(node.Children)...)
	case NodeReturn:
		return list("return", sexprs(node.Children)...)
	case NodeExprStmt:
		// Expression statements print as their expression.
		return ToSExpr(node.Children[0])
	case NodeInteger:
		return strconv.FormatInt(node.Integer, 10)
	case NodeBoolean:
		return strconv.FormatBool(node.Boolean)
	case NodeIdent:
		return list("ident", quote(node.String))
	case NodeBinary:
		return list("binary", append([]string{quote(node.Op)}, sexprs(node.Children)...)...)
	case NodeUnary:
		return list("unary", append([]string{quote(node.Op)}, sexprs(node.Children)...)...)
	case NodeCall:
		return list("call", sexprs(node.Children)...)
	case NodeIndex:
		return list("index", sexprs(node.Children)...)
	case NodeAccess:
		return list("access", ToSExpr(node.Children[0]), quote(node.String))
	case NodeSize:
		return list("size", sexprs(node.Children)...)
	case NodeAppend:
		return list("append", sexprs(node.Children)...)
	case NodeParen:
		return list("paren", sexprs(node.Children)...)
	default:
		return ""
	}
}

func sexprs(nodes []*ASTNode) []string {
	parts := make([]string, len(nodes))
	for i, node := range nodes {
		parts[i] = ToSExpr(node)
	}
	return parts
}

func list(head string, parts ...string) string {
	return "(" + strings.Join(append([]string{head}, parts...), " ") + ")"
}

func array(nodes []*ASTNode) string {
	return "[" + strings.Join(sexprs(nodes), " ") + "]"
}

func quote(s string) string {
	return sexy.NewString(s).String()
}
