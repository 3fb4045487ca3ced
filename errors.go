package main

import (
	"fmt"
	"strings"
)

// DiagnosticKind names a type-checking rule violation.
type DiagnosticKind string

const (
	UnsupportedOperandType                DiagnosticKind = "UnsupportedOperandType"
	ArgsInFunctionCallNotMatchDefinition  DiagnosticKind = "ArgsInFunctionCallNotMatchDefinition"
	CallOnNoneFptrType                    DiagnosticKind = "CallOnNoneFptrType"
	CantUseValueOfVoidFunction            DiagnosticKind = "CantUseValueOfVoidFunction"
	VarNotDeclared                        DiagnosticKind = "VarNotDeclared"
	StructMemberNotFound                  DiagnosticKind = "StructMemberNotFound"
	StructNotDeclared                     DiagnosticKind = "StructNotDeclared"
	AccessByIndexOnNonList                DiagnosticKind = "AccessByIndexOnNonList"
	AccessOnNonStruct                     DiagnosticKind = "AccessOnNonStruct"
	ListIndexNotInt                       DiagnosticKind = "ListIndexNotInt"
	GetSizeOfNonList                      DiagnosticKind = "GetSizeOfNonList"
	AppendToNonList                       DiagnosticKind = "AppendToNonList"
	NewElementTypeNotMatchListType        DiagnosticKind = "NewElementTypeNotMatchListType"
	ConditionNotBool                      DiagnosticKind = "ConditionNotBool"
	UnsupportedTypeForDisplay             DiagnosticKind = "UnsupportedTypeForDisplay"
	CannotUseReturn                       DiagnosticKind = "CannotUseReturn"
	CannotUseDefineVar                    DiagnosticKind = "CannotUseDefineVar"
	ReturnValueNotMatchFunctionReturnType DiagnosticKind = "ReturnValueNotMatchFunctionReturnType"
	LeftSideNotLvalue                     DiagnosticKind = "LeftSideNotLvalue"
)

// diagnosticMessages holds one format per kind. The %s verbs are filled from
// Diagnostic.Names in order.
var diagnosticMessages = map[DiagnosticKind]string{
	UnsupportedOperandType:                "unsupported operand type for %s",
	ArgsInFunctionCallNotMatchDefinition:  "arguments do not match the function definition",
	CallOnNoneFptrType:                    "cannot call a value that is not a function pointer",
	CantUseValueOfVoidFunction:            "cannot use the value of a void function",
	VarNotDeclared:                        "variable '%s' is not declared",
	StructMemberNotFound:                  "struct '%s' has no member '%s'",
	StructNotDeclared:                     "struct '%s' is not declared",
	AccessByIndexOnNonList:                "cannot index a value that is not a list",
	AccessOnNonStruct:                     "cannot access a member of a value that is not a struct",
	ListIndexNotInt:                       "list index must be an int",
	GetSizeOfNonList:                      "cannot take the size of a value that is not a list",
	AppendToNonList:                       "cannot append to a value that is not a list",
	NewElementTypeNotMatchListType:        "appended element does not match the list element type",
	ConditionNotBool:                      "condition must be a bool",
	UnsupportedTypeForDisplay:             "unsupported type for display",
	CannotUseReturn:                       "return is not allowed here",
	CannotUseDefineVar:                    "variable definitions are not allowed in setters and getters",
	ReturnValueNotMatchFunctionReturnType: "returned value does not match the declared return type",
	LeftSideNotLvalue:                     "left side of assignment is not assignable",
}

// Diagnostic is one rule violation found at a node.
type Diagnostic struct {
	Kind  DiagnosticKind
	Line  int
	Node  *ASTNode
	Names []string // operator, variable, struct or member names used in the message
}

func (d *Diagnostic) Message() string {
	format, ok := diagnosticMessages[d.Kind]
	if !ok {
		return string(d.Kind)
	}
	args := make([]any, len(d.Names))
	for i, name := range d.Names {
		args[i] = name
	}
	return fmt.Sprintf(format, args...)
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Message())
}

// ErrorCollection accumulates diagnostics in the order they were found.
type ErrorCollection struct {
	diagnostics []*Diagnostic
}

func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{}
}

func (ec *ErrorCollection) Add(d *Diagnostic) {
	ec.diagnostics = append(ec.diagnostics, d)
}

func (ec *ErrorCollection) HasErrors() bool {
	return len(ec.diagnostics) > 0
}

func (ec *ErrorCollection) Len() int {
	return len(ec.diagnostics)
}

// Errors returns the diagnostics in traversal order.
func (ec *ErrorCollection) Errors() []*Diagnostic {
	return ec.diagnostics
}

// Kinds returns the kind of every diagnostic, in traversal order.
func (ec *ErrorCollection) Kinds() []DiagnosticKind {
	var kinds []DiagnosticKind
	for _, d := range ec.diagnostics {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

// String renders one diagnostic per line.
func (ec *ErrorCollection) String() string {
	lines := make([]string, len(ec.diagnostics))
	for i, d := range ec.diagnostics {
		lines[i] = "error: " + d.Error()
	}
	return strings.Join(lines, "\n")
}
