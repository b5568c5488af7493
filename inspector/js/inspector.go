// Package js inspects the sub-script dialect: structural extraction of
// function and class declarations from client-side script.
package js

import (
	"context"
	"fmt"
	"os"
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/codelens/webaudit/inspector/graph"
)

// Inspector extracts structural facts from JavaScript source.
type Inspector struct {
	config *graph.Config
}

// NewInspector creates a JavaScript Inspector with the provided configuration.
func NewInspector(config *graph.Config) *Inspector {
	if config == nil {
		config = graph.DefaultConfig()
	}
	return &Inspector{config: config}
}

// InspectFile parses a JavaScript source file and extracts declarations.
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
	}
	return file, err
}

// InspectSource parses JavaScript source from a byte slice. Parse failure
// degrades to keyword-adjacent lexical extraction.
func (i *Inspector) InspectSource(src []byte) (*graph.File, error) {
	file := &graph.File{Dialect: graph.DialectJS, Success: true}

	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil || tree == nil || tree.RootNode() == nil {
		lexicalFallback(src, file)
		return file, nil
	}

	walk(tree.RootNode(), src, file)
	return file, nil
}

func walk(n *sitter.Node, src []byte, file *graph.File) {
	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			file.AddFunction(&graph.Function{
				Name:   nameNode.Content(src),
				Params: parameterNames(n.ChildByFieldName("parameters"), src),
			})
		}
	case "class_declaration":
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			class := &graph.Class{Name: nameNode.Content(src)}
			collectMethods(n.ChildByFieldName("body"), src, class)
			file.AddClass(class)
		}
		return
	case "variable_declarator":
		// const handler = function () {} / arrow assignments
		value := n.ChildByFieldName("value")
		name := n.ChildByFieldName("name")
		if value != nil && name != nil {
			switch value.Type() {
			case "arrow_function", "function_expression", "function":
				file.AddFunction(&graph.Function{
					Name:   name.Content(src),
					Params: parameterNames(value.ChildByFieldName("parameters"), src),
				})
			}
		}
	}
	for idx := 0; idx < int(n.ChildCount()); idx++ {
		walk(n.Child(idx), src, file)
	}
}

func collectMethods(body *sitter.Node, src []byte, class *graph.Class) {
	if body == nil {
		return
	}
	for idx := 0; idx < int(body.NamedChildCount()); idx++ {
		member := body.NamedChild(idx)
		if member.Type() != "method_definition" {
			continue
		}
		if nameNode := member.ChildByFieldName("name"); nameNode != nil {
			class.AddMethod(nameNode.Content(src))
		}
	}
}

func parameterNames(params *sitter.Node, src []byte) []string {
	if params == nil {
		return nil
	}
	var names []string
	for idx := 0; idx < int(params.NamedChildCount()); idx++ {
		names = append(names, params.NamedChild(idx).Content(src))
	}
	return names
}

var (
	functionRe = regexp.MustCompile(`\bfunction\s+(\w+)\s*\(([^)]*)\)`)
	classRe    = regexp.MustCompile(`\bclass\s+(\w+)`)
	identRe    = regexp.MustCompile(`\w+`)
)

func lexicalFallback(src []byte, file *graph.File) {
	text := string(src)
	for _, match := range functionRe.FindAllStringSubmatch(text, -1) {
		file.AddFunction(&graph.Function{
			Name:   match[1],
			Params: identRe.FindAllString(match[2], -1),
		})
	}
	for _, match := range classRe.FindAllStringSubmatch(text, -1) {
		file.AddClass(&graph.Class{Name: match[1]})
	}
}
