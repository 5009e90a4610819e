package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/OguzhanUmutlu/helium/helium"
)

func tokensCommand(args []string) error {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("helium tokens: script path required")
	}
	source, err := readScript(fs.Arg(0))
	if err != nil {
		return err
	}
	tokens, err := helium.Tokenize(source)
	if err != nil {
		newTheme(os.Stderr, useColor("auto", os.Stderr)).renderError(os.Stderr, err)
		return errReported
	}
	return writeTokens(os.Stdout, source, tokens)
}

func writeTokens(w io.Writer, source string, tokens []helium.Node) error {
	for _, n := range tokens {
		tok, ok := n.(*helium.Token)
		if !ok {
			continue
		}
		pos := helium.PositionOf(source, tok.Pos().Start)
		line := fmt.Sprintf("%d:%d\t%s", pos.Line, pos.Column, tok)
		var flags []string
		if tok.Unary {
			flags = append(flags, "unary")
		}
		if tok.Postfix {
			flags = append(flags, "postfix")
		}
		if tok.Kind == helium.TokenString && tok.Mode != helium.StringPlain {
			flags = append(flags, tok.Mode.String())
		}
		if len(flags) > 0 {
			line += "\t" + strings.Join(flags, ",")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func treeCommand(args []string) error {
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	format := fs.String("format", "text", "output format: text or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("helium tree: script path required")
	}
	if *format != "text" && *format != "yaml" {
		return fmt.Errorf("helium tree: unknown format %q", *format)
	}
	source, err := readScript(fs.Arg(0))
	if err != nil {
		return err
	}
	script, err := helium.MustNewEngine(helium.Config{}).Compile(source)
	if err != nil {
		newTheme(os.Stderr, useColor("auto", os.Stderr)).renderError(os.Stderr, err)
		return errReported
	}
	tree := statementsTree(source, script.Statements())
	if *format == "yaml" {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	}
	return writeTree(os.Stdout, tree, 0)
}

// treeNode is the dump form of a statement or expression node.
type treeNode struct {
	Type     string      `yaml:"type"`
	Value    string      `yaml:"value,omitempty"`
	Children []*treeNode `yaml:"children,omitempty"`
}

func statementsTree(source string, stmts []helium.Statement) []*treeNode {
	out := make([]*treeNode, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, nodeTree(source, stmt))
	}
	return out
}

func nodeTree(source string, n helium.Node) *treeNode {
	switch node := n.(type) {
	case *helium.Token:
		return &treeNode{Type: node.Kind.String(), Value: node.Literal}
	case *helium.Group:
		return &treeNode{Type: "group", Children: readyTree(source, node.Ready)}
	case *helium.ListLiteral:
		return &treeNode{Type: "list", Children: exprsTree(source, node.Items)}
	case *helium.ObjectLiteral:
		t := &treeNode{Type: "object"}
		for _, entry := range node.Entries {
			child := &treeNode{Type: "entry", Value: entry.Key, Children: readyTree(source, entry.Ready)}
			switch {
			case entry.Spread:
				child.Type = "spread"
			case entry.Pointer:
				child.Type = "pointer"
				child.Children = append([]*treeNode{{Type: "key", Children: readyTree(source, entry.KeyExpr)}}, child.Children...)
			}
			t.Children = append(t.Children, child)
		}
		return t
	case *helium.Prop:
		t := &treeNode{Type: "prop", Children: []*treeNode{nodeTree(source, node.Base)}}
		for _, acc := range node.Accessors {
			if acc.IsComputed() {
				t.Children = append(t.Children, &treeNode{Type: "index", Children: readyTree(source, acc.Computed)})
				continue
			}
			t.Children = append(t.Children, &treeNode{Type: "field", Value: acc.Name})
		}
		return t
	case *helium.FunctionCall:
		return &treeNode{Type: "call", Value: node.Name, Children: exprsTree(source, node.Args)}
	case *helium.SetVariable:
		kind := "set"
		if !node.After {
			kind = "set-postfix"
		}
		return &treeNode{
			Type:     kind,
			Value:    node.Operator,
			Children: append([]*treeNode{nodeTree(source, node.Target)}, readyTree(source, node.Ready)...),
		}
	case *helium.Return:
		return &treeNode{Type: "return", Children: readyTree(source, node.Ready)}
	case *helium.ExecutionStmt:
		return &treeNode{Type: "expression", Children: readyTree(source, node.Ready)}
	case *helium.FunctionDecl:
		t := &treeNode{Type: "function", Value: node.Name}
		for _, param := range node.Params {
			p := &treeNode{Type: "param", Value: param.Name, Children: readyTree(source, param.Default)}
			if param.Variadic {
				p.Type = "variadic"
			}
			t.Children = append(t.Children, p)
		}
		t.Children = append(t.Children, &treeNode{Type: "body", Children: statementsTree(source, node.Body)})
		return t
	default:
		return &treeNode{Type: fmt.Sprintf("%T", n), Value: n.Pos().Text(source)}
	}
}

// readyTree lists a postfix sequence in evaluation order.
func readyTree(source string, ready []helium.Node) []*treeNode {
	out := make([]*treeNode, 0, len(ready))
	for _, n := range ready {
		if tok, ok := n.(*helium.Token); ok && tok.Kind == helium.TokenOperator && tok.Unary {
			out = append(out, &treeNode{Type: "unary", Value: tok.Literal})
			continue
		}
		out = append(out, nodeTree(source, n))
	}
	return out
}

func exprsTree(source string, exprs []helium.Expr) []*treeNode {
	out := make([]*treeNode, 0, len(exprs))
	for _, expr := range exprs {
		t := &treeNode{Type: "arg", Children: readyTree(source, expr.Ready)}
		if expr.Spread {
			t.Type = "spread"
		}
		out = append(out, t)
	}
	return out
}

func writeTree(w io.Writer, nodes []*treeNode, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		line := indent + n.Type
		if n.Value != "" {
			line += " " + n.Value
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if err := writeTree(w, n.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}
