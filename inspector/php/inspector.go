// Package php inspects the primary scripting dialect. It drives a
// tree-sitter parser behind the TreeParser interface and visits the syntax
// tree with a single pass that tracks enclosing branch conditions; when the
// formal parse fails it degrades to the lexical fallback extractor.
package php

import (
	"context"
	"errors"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	"github.com/codelens/webaudit/inspector/graph"
	"github.com/codelens/webaudit/inspector/sqlnorm"
)

// ErrSyntax signals that the formal parse failed and the returned file was
// produced by the lexical fallback instead.
var ErrSyntax = errors.New("syntax parse failure")

// TreeParser produces a syntax tree for the primary dialect. Any conformant
// parser implementation can be substituted for the default tree-sitter one.
type TreeParser interface {
	Parse(ctx context.Context, source []byte) (*sitter.Tree, error)
}

type sitterParser struct {
	language *sitter.Language
}

func (p *sitterParser) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.language)
	return parser.ParseCtx(ctx, nil, source)
}

// Inspector extracts declarations and branch-conditioned queries from PHP
// source.
type Inspector struct {
	config *graph.Config
	parser TreeParser
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithParser substitutes the syntax-tree parser.
func WithParser(parser TreeParser) Option {
	return func(i *Inspector) {
		i.parser = parser
	}
}

// NewInspector creates a PHP Inspector with the provided configuration.
func NewInspector(config *graph.Config, opts ...Option) *Inspector {
	if config == nil {
		config = graph.DefaultConfig()
	}
	inspector := &Inspector{
		config: config,
		parser: &sitterParser{language: php.GetLanguage()},
	}
	for _, opt := range opts {
		opt(inspector)
	}
	return inspector
}

// InspectFile parses a PHP source file and extracts declarations and queries.
func (i *Inspector) InspectFile(filename string) (*graph.File, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	file, err := i.InspectSource(src)
	if file != nil {
		file.Path = filename
		for _, fn := range file.Functions {
			fn.File = filename
		}
		for idx := range file.Conditionals {
			file.Conditionals[idx].File = filename
		}
	}
	return file, err
}

// InspectSource parses PHP source from a byte slice. On parse failure the
// lexical fallback still produces a best-effort file, returned together with
// ErrSyntax so the caller can record the degradation.
func (i *Inspector) InspectSource(src []byte) (*graph.File, error) {
	file := &graph.File{Dialect: graph.DialectPHP, Success: true}

	tree, err := i.parser.Parse(context.Background(), src)
	if err != nil || tree == nil || tree.RootNode() == nil || tree.RootNode().HasError() {
		fallback(src, file)
		return file, ErrSyntax
	}

	v := &visitor{source: src, file: file}
	v.walk(tree.RootNode())
	return file, nil
}

// visitor is the single-pass tree walker. It maintains the stack of
// enclosing condition expressions and the current function context.
type visitor struct {
	source       []byte
	file         *graph.File
	conditions   []string
	currentFunc  *graph.Function
	currentClass *graph.Class
}

func (v *visitor) walk(n *sitter.Node) {
	switch n.Type() {
	case "class_declaration":
		v.handleClass(n)
		return
	case "function_definition", "method_declaration":
		v.handleFunction(n)
		return
	case "if_statement":
		v.handleIf(n)
		return
	case "assignment_expression":
		v.handleAssignment(n)
		return
	}
	for idx := 0; idx < int(n.ChildCount()); idx++ {
		v.walk(n.Child(idx))
	}
}

func (v *visitor) handleClass(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	class := &graph.Class{Name: nameNode.Content(v.source)}
	v.file.AddClass(class)

	prev := v.currentClass
	v.currentClass = class
	if body := n.ChildByFieldName("body"); body != nil {
		v.walk(body)
	}
	v.currentClass = prev
}

func (v *visitor) handleFunction(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	fn := &graph.Function{
		Name:   nameNode.Content(v.source),
		Params: v.parameterNames(n.ChildByFieldName("parameters")),
	}
	v.file.AddFunction(fn)
	if v.currentClass != nil {
		v.currentClass.AddMethod(fn.Name)
	}

	prev := v.currentFunc
	v.currentFunc = fn
	if body := n.ChildByFieldName("body"); body != nil {
		v.walk(body)
	}
	v.currentFunc = prev
}

func (v *visitor) parameterNames(params *sitter.Node) []string {
	if params == nil {
		return nil
	}
	var names []string
	for idx := 0; idx < int(params.NamedChildCount()); idx++ {
		param := params.NamedChild(idx)
		if nameNode := param.ChildByFieldName("name"); nameNode != nil {
			names = append(names, nameNode.Content(v.source))
		}
	}
	return names
}

// handleIf pushes the rendered condition while walking the consequence and
// the literal else tag while walking the alternative, popping on exit.
func (v *visitor) handleIf(n *sitter.Node) {
	condition := renderCondition(n.ChildByFieldName("condition"), v.source)

	v.conditions = append(v.conditions, condition)
	if body := n.ChildByFieldName("body"); body != nil {
		v.walk(body)
	}
	v.conditions = v.conditions[:len(v.conditions)-1]

	for idx := 0; idx < int(n.NamedChildCount()); idx++ {
		child := n.NamedChild(idx)
		switch child.Type() {
		case "else_if_clause":
			v.conditions = append(v.conditions, renderCondition(child.ChildByFieldName("condition"), v.source))
			if body := child.ChildByFieldName("body"); body != nil {
				v.walk(body)
			}
			v.conditions = v.conditions[:len(v.conditions)-1]
		case "else_clause":
			v.conditions = append(v.conditions, elseTag)
			if body := child.ChildByFieldName("body"); body != nil {
				v.walk(body)
			}
			v.conditions = v.conditions[:len(v.conditions)-1]
		}
	}
}

// handleAssignment emits a conditional query variant when the right-hand
// side is a string literal carrying SQL.
func (v *visitor) handleAssignment(n *sitter.Node) {
	right := n.ChildByFieldName("right")
	if right == nil || !isStringLiteral(right) {
		return
	}
	literal := stripQuotes(right.Content(v.source))
	if !sqlnorm.ContainsSQL(literal) {
		return
	}
	query := sqlnorm.Parse(literal)
	v.file.AddQuery(query)
	v.file.Conditionals = append(v.file.Conditionals, graph.ConditionalQueryVariant{
		Conditions: snapshot(v.conditions),
		Query:      query,
	})
}

func isStringLiteral(n *sitter.Node) bool {
	switch n.Type() {
	case "string", "encapsed_string", "heredoc":
		return true
	}
	return false
}

func stripQuotes(text string) string {
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return text[1 : len(text)-1]
		}
	}
	return text
}

func snapshot(conditions []string) []string {
	if len(conditions) == 0 {
		return nil
	}
	out := make([]string, len(conditions))
	copy(out, conditions)
	return out
}
