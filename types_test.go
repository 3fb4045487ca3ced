package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestTypesCompatible(t *testing.T) {
	point := NewStructType("Point")
	tests := []struct {
		name     string
		a, b     *TypeNode
		expected bool
	}{
		{
			name:     "same builtin types",
			a:        TypeInt,
			b:        &TypeNode{Kind: KindInt},
			expected: true,
		},
		{
			name:     "different builtin types",
			a:        TypeInt,
			b:        TypeBool,
			expected: false,
		},
		{
			name:     "void matches void",
			a:        TypeVoid,
			b:        TypeVoid,
			expected: true,
		},
		{
			name:     "different kinds",
			a:        TypeInt,
			b:        NewListType(TypeInt),
			expected: false,
		},
		{
			name:     "same list types",
			a:        NewListType(TypeInt),
			b:        NewListType(TypeInt),
			expected: true,
		},
		{
			name:     "different list types",
			a:        NewListType(TypeInt),
			b:        NewListType(TypeBool),
			expected: false,
		},
		{
			name:     "nested list types",
			a:        NewListType(NewListType(TypeBool)),
			b:        NewListType(NewListType(TypeBool)),
			expected: true,
		},
		{
			name:     "list of notype",
			a:        NewListType(TypeInt),
			b:        NewListType(TypeNone),
			expected: true,
		},
		{
			name:     "structs by name",
			a:        point,
			b:        NewStructType("Point"),
			expected: true,
		},
		{
			name:     "structs with different names",
			a:        point,
			b:        NewStructType("Line"),
			expected: false,
		},
		{
			name:     "same fptr types",
			a:        NewFptrType([]*TypeNode{TypeInt, TypeBool}, TypeVoid),
			b:        NewFptrType([]*TypeNode{TypeInt, TypeBool}, TypeVoid),
			expected: true,
		},
		{
			name:     "fptr return differs",
			a:        NewFptrType([]*TypeNode{TypeInt}, TypeInt),
			b:        NewFptrType([]*TypeNode{TypeInt}, TypeBool),
			expected: false,
		},
		{
			name:     "fptr arity differs",
			a:        NewFptrType([]*TypeNode{TypeInt}, TypeInt),
			b:        NewFptrType([]*TypeNode{TypeInt, TypeInt}, TypeInt),
			expected: false,
		},
		{
			name:     "fptr parameter differs",
			a:        NewFptrType([]*TypeNode{TypeInt, TypeBool}, TypeInt),
			b:        NewFptrType([]*TypeNode{TypeInt, TypeInt}, TypeInt),
			expected: false,
		},
		{
			name:     "fptr with notype parameter",
			a:        NewFptrType([]*TypeNode{TypeInt}, TypeInt),
			b:        NewFptrType([]*TypeNode{TypeNone}, TypeInt),
			expected: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			be.Equal(t, TypesCompatible(test.a, test.b), test.expected)
		})
	}
}

func TestNoTypeIsCompatibleWithEverything(t *testing.T) {
	types := []*TypeNode{
		TypeInt,
		TypeBool,
		TypeVoid,
		TypeNone,
		NewListType(TypeInt),
		NewStructType("Point"),
		NewFptrType([]*TypeNode{TypeBool}, TypeVoid),
	}
	for _, typ := range types {
		be.True(t, TypesCompatible(TypeNone, typ))
		be.True(t, TypesCompatible(typ, TypeNone))
	}
}

func TestListCompatibilityFollowsElements(t *testing.T) {
	types := []*TypeNode{TypeInt, TypeBool, TypeNone, NewStructType("A"), NewStructType("B"), NewListType(TypeInt)}
	for _, a := range types {
		for _, b := range types {
			be.Equal(t, TypesCompatible(NewListType(a), NewListType(b)), TypesCompatible(a, b))
		}
	}
}

func TestTypeToString(t *testing.T) {
	tests := []struct {
		typ      *TypeNode
		expected string
	}{
		{TypeInt, "Int"},
		{TypeBool, "Bool"},
		{TypeVoid, "Void"},
		{TypeNone, "NoType"},
		{NewListType(NewListType(TypeInt)), "List<List<Int>>"},
		{NewStructType("Point"), "Struct<Point>"},
		{NewFptrType(nil, TypeVoid), "Fptr<() -> Void>"},
		{NewFptrType([]*TypeNode{TypeInt, TypeBool}, NewListType(TypeInt)), "Fptr<(Int, Bool) -> List<Int>>"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			be.Equal(t, TypeToString(test.typ), test.expected)
		})
	}
}

func TestTypeToSExprRoundTrip(t *testing.T) {
	types := []*TypeNode{
		TypeInt,
		NewListType(TypeBool),
		NewStructType("Point"),
		NewFptrType([]*TypeNode{TypeInt, NewStructType("P")}, TypeVoid),
	}
	for _, typ := range types {
		source := `(var "x" ` + typeToSExpr(typ) + `)`
		node, err := DecodeStatement(source)
		be.Err(t, err, nil)
		be.True(t, TypesCompatible(typ, node.Children[0].DeclType))
		be.Equal(t, ToSExpr(node), source)
	}
}

func TestUndeclaredStruct(t *testing.T) {
	declared := map[string]*Symbol{"Point": {Name: "Point", Kind: SymbolStruct}}
	lookup := func(name string) *Symbol { return declared[name] }

	tests := []struct {
		name     string
		typ      *TypeNode
		missing  string
		expected bool
	}{
		{"builtin", TypeInt, "", false},
		{"declared struct", NewStructType("Point"), "", false},
		{"undeclared struct", NewStructType("Ghost"), "Ghost", true},
		{"list element", NewListType(NewListType(NewStructType("Ghost"))), "Ghost", true},
		{"fptr parameter", NewFptrType([]*TypeNode{NewStructType("Ghost")}, TypeVoid), "Ghost", true},
		{"fptr return", NewFptrType([]*TypeNode{TypeInt}, NewStructType("Other")), "Other", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			missing, ok := undeclaredStruct(test.typ, lookup)
			be.Equal(t, ok, test.expected)
			be.Equal(t, missing, test.missing)
		})
	}
}
