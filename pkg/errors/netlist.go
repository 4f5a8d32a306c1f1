package errors

import (
	"fmt"
	"strings"
)

// SyntaxError reports a netlist line that matches no declaration grammar.
type SyntaxError struct {
	Line   int    // 1-based line number
	Text   string // Offending line, trimmed
	Reason string // Optional detail (e.g. "unknown gate type XYZ")
}

func (e *SyntaxError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("line %d: syntax error: %s: %q", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("line %d: syntax error: %q", e.Line, e.Text)
}

// Code returns ErrCodeSyntax.
func (e *SyntaxError) Code() Code { return ErrCodeSyntax }

// UnresolvedReferenceError reports a gate argument that names a signal with
// no INPUT, OUTPUT or gate declaration anywhere in the file.
type UnresolvedReferenceError struct {
	Signal string // Undeclared signal name
	Line   int    // Line of the referencing gate
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("line %d: unresolved reference to signal %q", e.Line, e.Signal)
}

// Code returns ErrCodeUnresolvedReference.
func (e *UnresolvedReferenceError) Code() Code { return ErrCodeUnresolvedReference }

// Site locates a declaration in the netlist.
type Site struct {
	Line int    // 1-based line number
	Kind string // "INPUT", "OUTPUT", "gate NAND", "constant"...
}

func (s Site) String() string { return fmt.Sprintf("%s at line %d", s.Kind, s.Line) }

// DuplicateDeclarationError reports a signal declared incompatibly twice.
type DuplicateDeclarationError struct {
	Signal string
	First  Site
	Second Site
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("signal %q declared twice: %s, %s", e.Signal, e.First, e.Second)
}

// Code returns ErrCodeDuplicateDeclaration.
func (e *DuplicateDeclarationError) Code() Code { return ErrCodeDuplicateDeclaration }

// CyclicGraphError reports a dependency cycle found during analysis.
// From -> To is the edge that closed the cycle; Nodes lists the cycle in
// dependency order starting and ending at To.
type CyclicGraphError struct {
	From  string
	To    string
	Nodes []string
}

func (e *CyclicGraphError) Error() string {
	return fmt.Sprintf("dependency cycle closed by %s -> %s: %s", e.From, e.To, strings.Join(e.Nodes, " -> "))
}

// Code returns ErrCodeCyclicGraph.
func (e *CyclicGraphError) Code() Code { return ErrCodeCyclicGraph }
