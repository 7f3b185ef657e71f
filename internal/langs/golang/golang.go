// Package golang is the exemplar Grammar Adapter: it walks a Go source file
// with tree-sitter and emits declaration and usage records in the shape
// internal/grammar.Adapter requires.
package golang

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/standardbeagle/lci/internal/grammar"
)

// Adapter parses Go source. One Adapter is constructed per parse call; it
// owns its own *sitter.Parser and is never shared across goroutines.
type Adapter struct {
	parser *sitter.Parser
}

// New constructs a Go grammar adapter, or returns an error if the tree-sitter
// grammar library could not be loaded (adapter_internal, per spec §4.1).
func New() (grammar.Adapter, error) {
	parser := sitter.NewParser()
	lang := sitter.NewLanguage(tree_sitter_go.Language())
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("go grammar adapter: %w", err)
	}
	return &Adapter{parser: parser}, nil
}

func (a *Adapter) Language() string { return "go" }

func (a *Adapter) ParseDeclarations(text []byte, filePath string, read grammar.ContentReader) (map[string]grammar.Declaration, error) {
	tree := a.parser.Parse(text, nil)
	if tree == nil {
		return nil, fmt.Errorf("go grammar adapter: parser returned no tree for %s", filePath)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("go grammar adapter: empty parse tree for %s", filePath)
	}

	out := make(map[string]grammar.Declaration)
	var walk func(node *sitter.Node, scope []string)
	walk = func(node *sitter.Node, scope []string) {
		if node == nil {
			return
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "function_declaration":
				name := childText(child, "identifier", text)
				if name != "" {
					addDeclaration(out, scope, name, grammar.KindFunction, child, filePath, read)
				}
				walk(child, append(append([]string{}, scope...), name))
			case "method_declaration":
				recv := receiverType(child, text)
				name := childText(child, "field_identifier", text)
				if name != "" {
					methodScope := scope
					if recv != "" {
						methodScope = append(append([]string{}, scope...), recv)
					}
					addDeclaration(out, methodScope, name, grammar.KindMethod, child, filePath, read)
					walk(child, append(append([]string{}, methodScope...), name))
					continue
				}
				walk(child, scope)
			case "type_declaration":
				for j := uint(0); j < child.ChildCount(); j++ {
					spec := child.Child(j)
					if spec == nil || spec.Kind() != "type_spec" {
						continue
					}
					name := childText(spec, "type_identifier", text)
					if name == "" {
						continue
					}
					kind := grammar.KindStruct
					if hasDescendantKind(spec, "interface_type") {
						kind = grammar.KindStruct // interfaces reported as struct-shaped type declarations
					}
					addDeclaration(out, scope, name, kind, spec, filePath, read)
					walk(spec, append(append([]string{}, scope...), name))
				}
			case "var_declaration", "const_declaration":
				for j := uint(0); j < child.ChildCount(); j++ {
					spec := child.Child(j)
					if spec == nil || (spec.Kind() != "var_spec" && spec.Kind() != "const_spec") {
						continue
					}
					for k := uint(0); k < spec.ChildCount(); k++ {
						ident := spec.Child(k)
						if ident == nil || ident.Kind() != "identifier" {
							continue
						}
						name := nodeText(ident, text)
						addDeclaration(out, scope, name, grammar.KindGlobalVariable, spec, filePath, read)
					}
				}
			default:
				walk(child, scope)
			}
		}
	}
	walk(root, nil)
	return out, nil
}

func (a *Adapter) ParseUsages(text []byte) ([]grammar.Usage, error) {
	tree := a.parser.Parse(text, nil)
	if tree == nil {
		return nil, fmt.Errorf("go grammar adapter: parser returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("go grammar adapter: empty parse tree")
	}

	var usages []grammar.Usage
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child == nil {
				continue
			}
			if child.Kind() == "call_expression" {
				fn := child.Child(0)
				name := ""
				if fn != nil {
					switch fn.Kind() {
					case "identifier":
						name = nodeText(fn, text)
					case "selector_expression":
						if field := FindChildByType(fn, "field_identifier"); field != nil {
							name = nodeText(field, text)
						}
					}
				}
				if name != "" {
					r := rangeOf(child)
					usages = append(usages, grammar.Usage{
						SymbolPath:      fmt.Sprintf("usage@%d:%d#%s", r.Start.Row, r.Start.Column, name),
						OccurrenceRange: r,
						ReferencedName:  name,
					})
				}
			}
			walk(child)
		}
	}
	walk(root)
	return usages, nil
}

func addDeclaration(out map[string]grammar.Declaration, scope []string, name string, kind grammar.Kind, node *sitter.Node, filePath string, read grammar.ContentReader) {
	path := joinPath(scope, name)
	r := rangeOf(node)
	out[path] = grammar.Declaration{
		SymbolPath:     path,
		Name:           name,
		Kind:           kind,
		DefinitionInfo: grammar.NewDefinitionInfo(filePath, r, contentReaderFor(r, read)),
	}
}

func contentReaderFor(r grammar.Range, read grammar.ContentReader) grammar.ContentReader {
	if read == nil {
		return nil
	}
	return func() (string, error) {
		full, err := read()
		if err != nil {
			return "", err
		}
		if int(r.EndByte) > len(full) || r.StartByte > r.EndByte {
			return "", fmt.Errorf("declaration range out of bounds")
		}
		return full[r.StartByte:r.EndByte], nil
	}
}

func joinPath(scope []string, leaf string) string {
	path := leaf
	for i := len(scope) - 1; i >= 0; i-- {
		path = scope[i] + "::" + path
	}
	return path
}

func rangeOf(node *sitter.Node) grammar.Range {
	start := node.StartPosition()
	end := node.EndPosition()
	return grammar.Range{
		StartByte: node.StartByte(),
		EndByte:   node.EndByte(),
		Start:     grammar.Position{Row: int(start.Row), Column: int(start.Column)},
		End:       grammar.Position{Row: int(end.Row), Column: int(end.Column)},
	}
}

func nodeText(node *sitter.Node, text []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start > uint(len(text)) || end > uint(len(text)) || start > end {
		return ""
	}
	return string(text[start:end])
}

func childText(node *sitter.Node, kind string, text []byte) string {
	child := FindChildByType(node, kind)
	return nodeText(child, text)
}

// FindChildByType returns the first direct child of node with the given
// tree-sitter node kind, or nil.
func FindChildByType(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func hasDescendantKind(node *sitter.Node, kind string) bool {
	if node == nil {
		return false
	}
	if node.Kind() == kind {
		return true
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if hasDescendantKind(node.Child(i), kind) {
			return true
		}
	}
	return false
}

func receiverType(methodDecl *sitter.Node, text []byte) string {
	params := FindChildByType(methodDecl, "parameter_list")
	if params == nil {
		return ""
	}
	param := FindChildByType(params, "parameter_declaration")
	if param == nil {
		return ""
	}
	for i := uint(0); i < param.ChildCount(); i++ {
		child := param.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "type_identifier":
			return nodeText(child, text)
		case "pointer_type":
			if inner := FindChildByType(child, "type_identifier"); inner != nil {
				return nodeText(inner, text)
			}
		}
	}
	return ""
}
