// Package mdtest extracts end-to-end test cases from Markdown documents.
//
// A case starts at a heading whose text begins with "Test: " and runs until
// the next such heading. Inside a case, fenced code blocks carry the source
// program and the expectations:
//
//	fala         the program (exactly one)
//	input        text fed to leia
//	output       what mostra prints
//	diagnostics  one "kind: message" line per diagnostic
//	ir           the lowered module, one statement per line
//	error        text that the compile or run error must contain
//
// Code blocks without an info string are prose and ignored.
package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const headingPrefix = "Test: "

// Fence is the info string of a code block inside a test case.
type Fence string

// Recognized fences.
const (
	FenceSource      Fence = "fala"
	FenceInput       Fence = "input"
	FenceOutput      Fence = "output"
	FenceDiagnostics Fence = "diagnostics"
	FenceIR          Fence = "ir"
	FenceError       Fence = "error"
)

// IsAssertion reports whether f holds an expectation.
func (f Fence) IsAssertion() bool {
	switch f {
	case FenceOutput, FenceDiagnostics, FenceIR, FenceError:
		return true
	}

	return false
}

func (f Fence) known() bool {
	return f == FenceSource || f == FenceInput || f.IsAssertion()
}

// Assertion is one expectation of a test case.
type Assertion struct {
	Fence   Fence
	Content string
	Line    int
}

// Case is one test case extracted from a document.
type Case struct {
	Name       string
	Line       int
	Source     string
	Input      string
	Assertions []Assertion
}

// Assertion returns the first assertion of the given fence.
func (c Case) Assertion(f Fence) (Assertion, bool) {
	for _, a := range c.Assertions {
		if a.Fence == f {
			return a, true
		}
	}

	return Assertion{}, false
}

// Extract parses a Markdown document and returns its test cases in order.
func Extract(doc []byte) ([]Case, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(doc))

	var (
		cases []Case
		cur   *Case
	)

	flush := func() error {
		if cur == nil {
			return nil
		}

		if err := cur.validate(); err != nil {
			return err
		}

		cases = append(cases, *cur)
		cur = nil

		return nil
	}

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			title := headingText(n, doc)

			name, ok := strings.CutPrefix(title, headingPrefix)
			if !ok {
				return ast.WalkContinue, nil
			}

			if err := flush(); err != nil {
				return ast.WalkStop, err
			}

			cur = &Case{Name: strings.TrimSpace(name), Line: lineOf(n, doc)}

			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			return ast.WalkSkipChildren, cur.add(n, doc)
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return cases, nil
}

func (c *Case) add(n *ast.FencedCodeBlock, doc []byte) error {
	fence := Fence(n.Language(doc))
	line := lineOf(n, doc)

	if fence == "" {
		return nil
	}

	if c == nil {
		return fmt.Errorf("line %d: %s fence outside of a test case", line, fence)
	}

	if !fence.known() {
		return fmt.Errorf("line %d: unknown fence %q in test %q", line, fence, c.Name)
	}

	content := blockText(n, doc)

	switch fence {
	case FenceSource:
		if c.Source != "" {
			return fmt.Errorf("line %d: multiple %s fences in test %q", line, fence, c.Name)
		}

		c.Source = strings.TrimRight(content, "\n")

	case FenceInput:
		c.Input += content

	default:
		c.Assertions = append(c.Assertions, Assertion{
			Fence:   fence,
			Content: strings.TrimRight(content, "\n"),
			Line:    line,
		})
	}

	return nil
}

func (c *Case) validate() error {
	if c.Source == "" {
		return fmt.Errorf("line %d: test %q has no %s fence", c.Line, c.Name, FenceSource)
	}

	if len(c.Assertions) == 0 {
		return fmt.Errorf("line %d: test %q has no assertions", c.Line, c.Name)
	}

	return nil
}

func headingText(n ast.Node, doc []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(doc))
		}

		return ast.WalkContinue, nil
	})

	return buf.String()
}

func blockText(n *ast.FencedCodeBlock, doc []byte) string {
	var buf bytes.Buffer

	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(doc))
	}

	return buf.String()
}

// lineOf returns the 1-based line of the first content line of n.
func lineOf(n ast.Node, doc []byte) int {
	if n.Lines().Len() == 0 {
		return 1
	}

	start := n.Lines().At(0).Start

	return 1 + bytes.Count(doc[:min(start, len(doc))], []byte("\n"))
}
