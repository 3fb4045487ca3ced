package main

import (
	"errors"
	"fmt"
)

// SymbolKind separates the namespaces of a scope. A function and a variable may share a
// name.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
	SymbolStruct
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	case SymbolStruct:
		return "struct"
	default:
		return fmt.Sprintf("SymbolKind(%d)", int(k))
	}
}

// Symbol is a binding in a scope.
type Symbol struct {
	Name string
	Kind SymbolKind

	// SymbolVariable:
	Type *TypeNode

	// SymbolFunction:
	Params []*TypeNode
	Return *TypeNode

	// SymbolFunction: parameters and top-level locals, set by the type checker.
	// SymbolStruct: fields and properties.
	Scope *Scope

	// SymbolFunction, SymbolStruct: the declaration.
	Decl *ASTNode
}

// FptrType is the type of a function symbol used as a value.
func (s *Symbol) FptrType() *TypeNode {
	return NewFptrType(s.Params, s.Return)
}

type symbolKey struct {
	kind SymbolKind
	name string
}

// Scope is one level of the scope chain.
type Scope struct {
	parent  *Scope
	symbols map[symbolKey]*Symbol
	order   []*Symbol
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: make(map[symbolKey]*Symbol)}
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

// DeclareVariable binds name in s only. An existing binding in s is retyped rather than
// rejected.
func (s *Scope) DeclareVariable(name string, t *TypeNode) *Symbol {
	if sym := s.LookupLocal(SymbolVariable, name); sym != nil {
		sym.Type = t
		return sym
	}
	sym := &Symbol{Name: name, Kind: SymbolVariable, Type: t}
	s.insert(sym)
	return sym
}

func (s *Scope) insert(sym *Symbol) {
	s.symbols[symbolKey{sym.Kind, sym.Name}] = sym
	s.order = append(s.order, sym)
}

// LookupLocal finds a binding in s without consulting parents.
func (s *Scope) LookupLocal(kind SymbolKind, name string) *Symbol {
	return s.symbols[symbolKey{kind, name}]
}

// LookupVariable walks from s through its parents.
func (s *Scope) LookupVariable(name string) *Symbol {
	for cur := s; cur != nil; cur = cur.parent {
		if sym := cur.LookupLocal(SymbolVariable, name); sym != nil {
			return sym
		}
	}
	return nil
}

// Variables returns the variables bound directly in s, in declaration order.
func (s *Scope) Variables() []*Symbol {
	var vars []*Symbol
	for _, sym := range s.order {
		if sym.Kind == SymbolVariable {
			vars = append(vars, sym)
		}
	}
	return vars
}

// SymbolTable owns the global scope and the stack of active scopes.
type SymbolTable struct {
	global *Scope
	stack  []*Scope

	pushes int
	pops   int
}

func NewSymbolTable() *SymbolTable {
	global := NewScope(nil)
	return &SymbolTable{global: global, stack: []*Scope{global}}
}

func (st *SymbolTable) Global() *Scope {
	return st.global
}

// Current returns the innermost active scope.
func (st *SymbolTable) Current() *Scope {
	return st.stack[len(st.stack)-1]
}

// PushScope creates a scope under parent and makes it current.
func (st *SymbolTable) PushScope(parent *Scope) *Scope {
	scope := NewScope(parent)
	st.EnterScope(scope)
	return scope
}

// EnterScope makes an existing scope current, such as a struct's field scope.
func (st *SymbolTable) EnterScope(scope *Scope) {
	st.stack = append(st.stack, scope)
	st.pushes++
}

// PopScope discards the current scope. Calls must nest with PushScope/EnterScope.
func (st *SymbolTable) PopScope() {
	if len(st.stack) == 1 {
		panic("PopScope: cannot pop the global scope")
	}
	st.stack = st.stack[:len(st.stack)-1]
	st.pops++
}

func (st *SymbolTable) PushCount() int {
	return st.pushes
}

func (st *SymbolTable) PopCount() int {
	return st.pops
}

// DeclareVariable binds name in the current scope.
func (st *SymbolTable) DeclareVariable(name string, t *TypeNode) *Symbol {
	return st.Current().DeclareVariable(name, t)
}

// LookupVariable resolves name from the current scope outwards.
func (st *SymbolTable) LookupVariable(name string) *Symbol {
	return st.Current().LookupVariable(name)
}

func (st *SymbolTable) DeclareFunction(name string, params []*TypeNode, ret *TypeNode, decl *ASTNode) (*Symbol, error) {
	if st.LookupFunction(name) != nil {
		return nil, fmt.Errorf("function '%s' already declared", name)
	}
	sym := &Symbol{Name: name, Kind: SymbolFunction, Params: params, Return: ret, Decl: decl}
	st.global.insert(sym)
	return sym, nil
}

func (st *SymbolTable) DeclareStruct(name string, fields *Scope, decl *ASTNode) (*Symbol, error) {
	if st.LookupStruct(name) != nil {
		return nil, fmt.Errorf("struct '%s' already declared", name)
	}
	sym := &Symbol{Name: name, Kind: SymbolStruct, Scope: fields, Decl: decl}
	st.global.insert(sym)
	return sym, nil
}

func (st *SymbolTable) LookupFunction(name string) *Symbol {
	return st.global.LookupLocal(SymbolFunction, name)
}

func (st *SymbolTable) LookupStruct(name string) *Symbol {
	return st.global.LookupLocal(SymbolStruct, name)
}

// BuildSymbolTable registers every struct and function signature of program in a fresh
// global table. Struct field scopes hold the fields and properties with their declared
// types.
func BuildSymbolTable(program *ASTNode) (*SymbolTable, error) {
	st := NewSymbolTable()
	var errs []error

	for _, decl := range program.Children {
		switch decl.Kind {
		case NodeStruct:
			fields := NewScope(st.global)
			for _, member := range decl.Children {
				fields.DeclareVariable(member.String, member.DeclType)
			}
			if _, err := st.DeclareStruct(decl.String, fields, decl); err != nil {
				errs = append(errs, fmt.Errorf("line %d: %w", decl.Line, err))
			}
		case NodeFunc:
			params := make([]*TypeNode, len(decl.Params))
			for i, param := range decl.Params {
				params[i] = param.DeclType
			}
			if _, err := st.DeclareFunction(decl.String, params, decl.DeclType, decl); err != nil {
				errs = append(errs, fmt.Errorf("line %d: %w", decl.Line, err))
			}
		}
	}

	return st, errors.Join(errs...)
}
