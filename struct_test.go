package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestStructDeclarationDecoding(t *testing.T) {
	source := `(struct "Point" (var "x" int) (var "y" int))`
	ast, err := DecodeProgram(`(program ` + source + `)`)
	be.Err(t, err, nil)

	be.Equal(t, ToSExpr(ast.Children[0]), source)
	be.Equal(t, NodeStruct, ast.Children[0].Kind)
	be.Equal(t, 2, len(ast.Children[0].Children))
}

func TestStructPropertyDecoding(t *testing.T) {
	source := `(property "area" int [(var "v" int)] [(assign (ident "w") (ident "v"))] [(return (binary "*" (ident "w") (ident "h")))])`
	ast, err := DecodeProgram(`(program (struct "Rect" (var "w" int) (var "h" int) ` + source + `))`)
	be.Err(t, err, nil)

	prop := ast.Children[0].Children[2]
	be.Equal(t, NodeProperty, prop.Kind)
	be.Equal(t, "area", prop.String)
	be.Equal(t, 1, len(prop.Params))
	be.Equal(t, 1, len(prop.Setter))
	be.Equal(t, 1, len(prop.Getter))
	be.Equal(t, ToSExpr(prop), source)
}

func TestStructTypeInVariableDeclaration(t *testing.T) {
	_, errs := checkSource(t, `
(program
  (struct "Point" (var "x" int))
  (main [(var "p" (struct "Point"))]))`)

	be.Equal(t, 0, errs.Len())
}

func TestFieldAccessType(t *testing.T) {
	ast, errs := checkSource(t, `
(program
  (struct "Point" (var "x" int) (var "ok" bool))
  (main [
    (var "p" (struct "Point"))
    (if (access (ident "p") "ok") (display (access (ident "p") "x")))]))`)
	be.Equal(t, 0, errs.Len())

	access := findNode(ast, NodeAccess)
	be.Equal(t, TypeBool, access.TypeAST)
}

func TestFieldAssignment(t *testing.T) {
	_, errs := checkSource(t, `
(program
  (struct "Point" (var "x" int))
  (main [
    (var "p" (struct "Point"))
    (assign (access (ident "p") "x") 42)
    (assign (access (ident "p") "x") false)]))`)

	be.Equal(t, []DiagnosticKind{UnsupportedOperandType}, errs.Kinds())
	be.Equal(t, 7, errs.Errors()[0].Line)
}

func TestNestedStructs(t *testing.T) {
	_, errs := checkSource(t, `
(program
  (struct "Inner" (var "v" int))
  (struct "Outer" (var "in" (struct "Inner")) (var "all" (list (struct "Inner"))))
  (main [
    (var "o" (struct "Outer"))
    (display (access (access (ident "o") "in") "v"))
    (display (access (index (access (ident "o") "all") 0) "v"))
    (append (access (ident "o") "all") (access (ident "o") "in"))
    (display (access (access (ident "o") "in") "w"))]))`)

	be.Equal(t, []DiagnosticKind{StructMemberNotFound}, errs.Kinds())
	be.Equal(t, "line 10: struct 'Inner' has no member 'w'", errs.Errors()[0].Error())
}

func TestStructFieldWithUndeclaredType(t *testing.T) {
	ast, errs := checkSource(t, `
(program
  (struct "Holder" (var "thing" (struct "Missing")) (var "n" int))
  (main [
    (var "h" (struct "Holder"))
    (display (access (access (ident "h") "thing") "anything"))]))`)

	be.Equal(t, []DiagnosticKind{StructNotDeclared}, errs.Kinds())
	be.Equal(t, "line 3: struct 'Missing' is not declared", errs.Errors()[0].Error())

	holder := ast.Children[0]
	be.Equal(t, TypeNone, holder.Scope.LookupLocal(SymbolVariable, "thing").Type)
	be.Equal(t, TypeInt, holder.Scope.LookupLocal(SymbolVariable, "n").Type)
}

func TestPropertyWithUndeclaredType(t *testing.T) {
	_, errs := checkSource(t, `
(program
  (struct "S" (property "p" (struct "Missing") [] [] [(return 1)]))
  (main [
    (var "s" (struct "S"))
    (display (access (ident "s") "p"))]))`)

	// The getter return and the access both see NoType.
	be.Equal(t, []DiagnosticKind{StructNotDeclared}, errs.Kinds())
}

func TestSetterSeesParametersAndFields(t *testing.T) {
	_, errs := checkSource(t, `
(program
  (struct "Temp"
    (var "celsius" int)
    (property "fahrenheit" int [(var "f" int) (var "round" bool)]
      [(if (ident "round")
         (assign (ident "celsius") (binary "/" (binary "-" (ident "f") 32) 2))
         (assign (ident "celsius") (ident "f")))]
      [(return (binary "+" (binary "*" (ident "celsius") 2) 32))]))
  (main []))`)

	be.Equal(t, 0, errs.Len())
}

func TestSetterParametersAreNotVisibleInGetter(t *testing.T) {
	_, errs := checkSource(t, `
(program
  (struct "S"
    (var "v" int)
    (property "p" int [(var "arg" int)]
      [(assign (ident "v") (ident "arg"))]
      [(return (ident "arg"))]))
  (main []))`)

	be.Equal(t, []DiagnosticKind{VarNotDeclared}, errs.Kinds())
	be.Equal(t, 7, errs.Errors()[0].Line)
}

func TestSetterAndGetterCannotDefineVariables(t *testing.T) {
	_, errs := checkSource(t, `
(program
  (struct "S"
    (property "p" int []
      [(block (var "a" int))]
      [(if true (vars (var "b" int) (var "c" int))) (return 0)]))
  (main []))`)

	be.Equal(t, []DiagnosticKind{CannotUseDefineVar, CannotUseDefineVar}, errs.Kinds())
	be.Equal(t, 5, errs.Errors()[0].Line)
	be.Equal(t, 6, errs.Errors()[1].Line)
}

func TestStructEqualityIsNominal(t *testing.T) {
	_, errs := checkSource(t, `
(program
  (struct "A" (var "x" int))
  (struct "B" (var "x" int))
  (func "takesA" [(var "a" (struct "A"))] void [])
  (main [
    (var "a" (struct "A"))
    (var "b" (struct "B"))
    (call (ident "takesA") (ident "a"))
    (call (ident "takesA") (ident "b"))
    (assign (ident "a") (ident "b"))]))`)

	be.Equal(t, []DiagnosticKind{ArgsInFunctionCallNotMatchDefinition, UnsupportedOperandType}, errs.Kinds())
}

func TestStructFieldScopeDoesNotLeak(t *testing.T) {
	_, errs := checkSource(t, `
(program
  (struct "S" (var "field" int))
  (main [(display (ident "field"))]))`)

	be.Equal(t, []DiagnosticKind{VarNotDeclared}, errs.Kinds())
}
