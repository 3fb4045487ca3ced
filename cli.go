package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Plume - semantic analysis for the Plume language

Usage:
    plume <command> [arguments]

Commands:
    check <file>    Type-check a program AST
    types <file>    Type-check a program AST and print the type of every expression
    repl [file]     Type-check expressions and statements interactively
    help            Show this help message

Examples:
    plume check examples/points.plume.sexp
    plume types -v examples/points.plume.sexp
    plume repl examples/points.plume.sexp

Use "plume <command> -h" for more information about a command.
`)
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose checking details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: plume check [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Type-check a program AST\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	filename := parseFileArg(fs, args)

	if *verbose {
		fmt.Printf("Checking %s...\n", filename)
	}

	ast, typeErrors := checkFile(filename)

	if *verbose {
		fmt.Printf("AST: %s\n", ToSExpr(ast))
	}

	if typeErrors.HasErrors() {
		fmt.Printf("Type checking errors in %s:\n%s\n", filename, typeErrors.String())
		os.Exit(1)
	}

	fmt.Printf("%s: no errors found\n", filename)
}

func typesCommand(args []string) {
	fs := flag.NewFlagSet("types", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Also print statements and declarations")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: plume types [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Type-check a program AST and print the type of every expression\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	filename := parseFileArg(fs, args)
	ast, typeErrors := checkFile(filename)

	for _, line := range expressionTypes(ast, *verbose) {
		fmt.Println(line)
	}

	if typeErrors.HasErrors() {
		fmt.Printf("Type checking errors in %s:\n%s\n", filename, typeErrors.String())
		os.Exit(1)
	}
}

func parseFileArg(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	return fs.Arg(0)
}

// checkFile reads, collects and type-checks a program, exiting on driver errors.
func checkFile(filename string) (*ASTNode, *ErrorCollection) {
	ast, err := readProgram(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Build symbol table for type checking
	symbolTable, err := BuildSymbolTable(ast)
	if err != nil {
		fmt.Printf("Symbol resolution errors in %s:\n%v\n", filename, err)
		os.Exit(1)
	}

	return ast, CheckProgram(ast, symbolTable)
}

func readProgram(filename string) (*ASTNode, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	ast, err := DecodeProgram(string(source))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	return ast, nil
}

// expressionTypes lists every typed node in traversal order as
// "line N: <sexpr> : <type>". With statements set, declarations and statements are
// listed too, without a type.
func expressionTypes(ast *ASTNode, statements bool) []string {
	var lines []string
	Walk(ast, func(node *ASTNode) {
		switch {
		case node.TypeAST != nil:
			lines = append(lines, fmt.Sprintf("line %d: %s : %s", node.Line, ToSExpr(node), TypeToString(node.TypeAST)))
		case statements && node.Kind != NodeProgram:
			sexpr := ToSExpr(node)
			if i := strings.IndexByte(sexpr, ' '); i >= 0 {
				sexpr = sexpr[:i] + " ...)"
			}
			lines = append(lines, fmt.Sprintf("line %d: %s", node.Line, sexpr))
		}
	})
	return lines
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "check":
		checkCommand(args)
	case "types":
		typesCommand(args)
	case "repl":
		replCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
