package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/plumelang/plume/sexy"
)

const (
	historyFile = ".plume_history"
	promptMain  = "plume> "
	promptCont  = "  ...> "
)

// statementHeads are the forms the REPL checks as statements rather than expressions.
var statementHeads = map[string]bool{
	"var": true, "vars": true, "assign": true, "block": true,
	"if": true, "while": true, "display": true, "return": true,
}

// replSession checks input one form at a time as if it were appended to the main block.
// Variables declared by earlier inputs stay visible.
type replSession struct {
	tc *TypeChecker
}

// replResult is the outcome of one input. Type is nil for statements.
type replResult struct {
	Type        *TypeNode
	Diagnostics []*Diagnostic
}

func newReplSession(program *ASTNode) (*replSession, *ErrorCollection, error) {
	st, err := BuildSymbolTable(program)
	if err != nil {
		return nil, nil, err
	}
	tc := NewTypeChecker(st)
	tc.checkProgram(program)
	programErrors := tc.Errors

	tc.Errors = NewErrorCollection()
	st.PushScope(st.Global())
	return &replSession{tc: tc}, programErrors, nil
}

func (s *replSession) Eval(src string) (*replResult, error) {
	root, err := sexy.Parse(src)
	if err != nil {
		return nil, err
	}

	before := s.tc.Errors.Len()
	result := &replResult{}
	if statementHeads[root.Head()] {
		stmt, err := decodeStmt(root)
		if err != nil {
			return nil, err
		}
		s.tc.checkStatement(stmt, mainContext())
	} else {
		expr, err := decodeExpr(root)
		if err != nil {
			return nil, err
		}
		result.Type = s.tc.typeOf(expr, mainContext(), true)
	}
	result.Diagnostics = s.tc.Errors.Errors()[before:]
	return result, nil
}

func (r *replResult) String() string {
	var lines []string
	if r.Type != nil {
		lines = append(lines, TypeToString(r.Type))
	}
	for _, d := range r.Diagnostics {
		lines = append(lines, "error: "+d.Error())
	}
	if len(lines) == 0 {
		return "ok"
	}
	return strings.Join(lines, "\n")
}

func replCommand(args []string) {
	program := &ASTNode{Kind: NodeProgram}
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Usage: plume repl [file]\n")
		os.Exit(1)
	}
	if len(args) == 1 {
		var err error
		program, err = readProgram(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	session, programErrors, err := newReplSession(program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Symbol resolution errors:\n%v\n", err)
		os.Exit(1)
	}
	if programErrors.HasErrors() {
		fmt.Printf("Type checking errors in program:\n%s\n", programErrors.String())
	}

	fmt.Println("Plume type checker. Enter an expression or statement, :quit to exit.")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath, ok := historyPath(); ok {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)
	done := make(chan struct{})
	defer close(done)
	go onSignal(sigc, done, func() {
		ln.Close()
		os.Exit(130)
	})

	for {
		src, ok := readForm(ln)
		if !ok {
			fmt.Println()
			return
		}
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		if src == ":quit" {
			return
		}

		result, err := session.Eval(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Println(result.String())
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// historyPath returns the history file in the user's home directory. There is no
// history when the home directory is unknown.
func historyPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", false
	}
	return filepath.Join(home, historyFile), true
}

// onSignal calls handle when a signal arrives on sigc. It returns without calling handle
// once done is closed.
func onSignal(sigc <-chan os.Signal, done <-chan struct{}, handle func()) {
	select {
	case <-sigc:
		handle()
	case <-done:
	}
}

// readForm reads lines until they form a complete S-expression or a parse error other
// than running out of input.
func readForm(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		trimmed := strings.TrimSpace(src)
		if trimmed == "" || strings.HasPrefix(trimmed, ":") {
			return src, true
		}
		if _, err := sexy.Parse(src); errors.Is(err, sexy.ErrIncomplete) {
			continue
		}
		return src, true
	}
}
