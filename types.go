package main

import "strings"

// TypeKind identifies which variant a TypeNode is.
type TypeKind string

const (
	KindInt    TypeKind = "KindInt"
	KindBool   TypeKind = "KindBool"
	KindVoid   TypeKind = "KindVoid"
	KindList   TypeKind = "KindList"
	KindStruct TypeKind = "KindStruct"
	KindFptr   TypeKind = "KindFptr"
	// KindNoType marks a value whose error was already reported.
	KindNoType TypeKind = "KindNoType"
)

// TypeNode is a Plume type.
type TypeNode struct {
	Kind TypeKind
	// KindStruct: struct name
	String string
	// KindList: element type. KindFptr: return type.
	Child *TypeNode
	// KindFptr: parameter types
	Params []*TypeNode
}

var (
	TypeInt  = &TypeNode{Kind: KindInt}
	TypeBool = &TypeNode{Kind: KindBool}
	TypeVoid = &TypeNode{Kind: KindVoid}
	TypeNone = &TypeNode{Kind: KindNoType}
)

func NewListType(elem *TypeNode) *TypeNode {
	return &TypeNode{Kind: KindList, Child: elem}
}

func NewStructType(name string) *TypeNode {
	return &TypeNode{Kind: KindStruct, String: name}
}

func NewFptrType(params []*TypeNode, ret *TypeNode) *TypeNode {
	return &TypeNode{Kind: KindFptr, Params: params, Child: ret}
}

// IsNoType reports whether t suppresses further diagnostics.
func IsNoType(t *TypeNode) bool {
	return t != nil && t.Kind == KindNoType
}

// TypesCompatible reports whether a value of type actual fits where expected is required.
// NoType fits everything in both directions. Lists and function pointers compare
// structurally, structs by name.
func TypesCompatible(expected, actual *TypeNode) bool {
	if expected == nil || actual == nil {
		return expected == actual
	}
	if expected.Kind == KindNoType || actual.Kind == KindNoType {
		return true
	}
	if expected.Kind != actual.Kind {
		return false
	}

	switch expected.Kind {
	case KindInt, KindBool, KindVoid:
		return true
	case KindList:
		return TypesCompatible(expected.Child, actual.Child)
	case KindStruct:
		return expected.String == actual.String
	case KindFptr:
		if !TypesCompatible(expected.Child, actual.Child) {
			return false
		}
		if len(expected.Params) != len(actual.Params) {
			return false
		}
		for i := range expected.Params {
			if !TypesCompatible(expected.Params[i], actual.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// TypeToString renders t the way diagnostics and the types command print it.
func TypeToString(t *TypeNode) string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	case KindVoid:
		return "Void"
	case KindNoType:
		return "NoType"
	case KindList:
		return "List<" + TypeToString(t.Child) + ">"
	case KindStruct:
		return "Struct<" + t.String + ">"
	case KindFptr:
		params := make([]string, len(t.Params))
		for i, param := range t.Params {
			params[i] = TypeToString(param)
		}
		return "Fptr<(" + strings.Join(params, ", ") + ") -> " + TypeToString(t.Child) + ">"
	default:
		return "Unknown"
	}
}

// typeToSExpr renders t in the AST interchange syntax understood by decodeType.
func typeToSExpr(t *TypeNode) string {
	switch t.Kind {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindNoType:
		return "notype"
	case KindList:
		return "(list " + typeToSExpr(t.Child) + ")"
	case KindStruct:
		return "(struct " + quote(t.String) + ")"
	case KindFptr:
		params := make([]string, len(t.Params))
		for i, param := range t.Params {
			params[i] = typeToSExpr(param)
		}
		return "(fptr [" + strings.Join(params, " ") + "] " + typeToSExpr(t.Child) + ")"
	default:
		return "unknown"
	}
}

// undeclaredStruct returns the first struct name inside t that lookup cannot find.
func undeclaredStruct(t *TypeNode, lookup func(name string) *Symbol) (string, bool) {
	switch t.Kind {
	case KindStruct:
		if lookup(t.String) == nil {
			return t.String, true
		}
	case KindList:
		return undeclaredStruct(t.Child, lookup)
	case KindFptr:
		for _, param := range t.Params {
			if name, ok := undeclaredStruct(param, lookup); ok {
				return name, true
			}
		}
		return undeclaredStruct(t.Child, lookup)
	}
	return "", false
}
