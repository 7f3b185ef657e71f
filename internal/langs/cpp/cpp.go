// Package cpp is the second Grammar Adapter. Its declaration walk is a
// direct Go port of original_source/src/ast/treesitter/parsers/cpp.rs
// (get_namespace, get_function_name_and_scope, get_enum_name_and_all_values),
// adapted to internal/grammar's contract and go-tree-sitter's API.
package cpp

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/standardbeagle/lci/internal/grammar"
)

// Adapter parses C++ source. One instance per parse call.
type Adapter struct {
	parser *sitter.Parser
}

// New constructs a C++ grammar adapter.
func New() (grammar.Adapter, error) {
	parser := sitter.NewParser()
	lang := sitter.NewLanguage(tree_sitter_cpp.Language())
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("cpp grammar adapter: %w", err)
	}
	return &Adapter{parser: parser}, nil
}

func (a *Adapter) Language() string { return "cpp" }

func (a *Adapter) ParseDeclarations(text []byte, filePath string, read grammar.ContentReader) (map[string]grammar.Declaration, error) {
	tree := a.parser.Parse(text, nil)
	if tree == nil {
		return nil, fmt.Errorf("cpp grammar adapter: parser returned no tree for %s", filePath)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("cpp grammar adapter: empty parse tree for %s", filePath)
	}

	out := make(map[string]grammar.Declaration)
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
			switch child.Kind() {
			case "namespace_definition":
				walk(child)
				continue
			case "declaration_list":
				walk(child)
				continue
			case "function_definition":
				if decl := FindChildByType(child, "function_declarator"); decl != nil {
					name, localScope := getFunctionNameAndScope(child, text)
					if name != "" {
						scope := append(getNamespace(child.Parent(), text), localScope...)
						addDeclaration(out, scope, name, grammar.KindFunction, child, filePath, read)
					}
				}
			case "class_specifier", "struct_specifier":
				kind := grammar.KindClass
				if child.Kind() == "struct_specifier" {
					kind = grammar.KindStruct
				}
				name := childText(child, "type_identifier", text)
				if name != "" {
					scope := getNamespace(child.Parent(), text)
					addDeclaration(out, scope, name, kind, child, filePath, read)
				}
				walk(child)
			case "enum_specifier":
				name := childText(child, "type_identifier", text)
				if name != "" {
					scope := getNamespace(child, text)
					_, values := getEnumNameAndAllValues(child, text)
					decl := newDeclaration(scope, name, grammar.KindEnum, child, filePath, read)
					decl.EnumValues = values
					out[decl.SymbolPath] = decl
				}
			case "declaration":
				if enumType := FindChildByType(child, "enum_specifier"); enumType != nil && childText(enumType, "type_identifier", text) == "" {
					// Anonymous enum type with a declarator naming the variable:
					// `enum { A, B } name;`
					name := declaratorName(child, text)
					if name != "" {
						scope := getNamespace(child, text)
						_, values := getEnumNameAndAllValues(enumType, text)
						decl := newDeclaration(scope, name, grammar.KindEnum, child, filePath, read)
						decl.EnumValues = values
						out[decl.SymbolPath] = decl
					}
					continue
				}
				if FindChildByType(child, "init_declarator") != nil {
					name := declaratorName(child, text)
					if name != "" {
						scope := getNamespace(child, text)
						addDeclaration(out, scope, name, grammar.KindGlobalVariable, child, filePath, read)
					}
				}
			default:
				walk(child)
			}
		}
	}
	walk(root)
	return out, nil
}

func (a *Adapter) ParseUsages(text []byte) ([]grammar.Usage, error) {
	tree := a.parser.Parse(text, nil)
	if tree == nil {
		return nil, fmt.Errorf("cpp grammar adapter: parser returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("cpp grammar adapter: empty parse tree")
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
					case "field_expression":
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

// getNamespace walks up from parent collecting enclosing namespace_definition
// and class/struct_specifier identifiers, outermost first. Ported from
// CppParser::get_namespace in original_source/.../cpp.rs.
func getNamespace(parent *sitter.Node, text []byte) []string {
	var namespaces []string
	for node := parent; node != nil; node = node.Parent() {
		switch node.Kind() {
		case "namespace_definition":
			if ident := FindChildByType(node, "namespace_identifier"); ident != nil {
				namespaces = append(namespaces, nodeText(ident, text))
			}
		case "class_specifier", "struct_specifier":
			if ident := FindChildByType(node, "type_identifier"); ident != nil {
				namespaces = append(namespaces, nodeText(ident, text))
			}
		}
	}
	reverse(namespaces)
	return namespaces
}

// getFunctionNameAndScope mirrors CppParser::get_function_name_and_scope: it
// looks inside the function_declarator child for a plain identifier or a
// qualified_identifier (Scope::name), recursing for nested scopes.
func getFunctionNameAndScope(functionDefinition *sitter.Node, text []byte) (string, []string) {
	declarator := FindChildByType(functionDefinition, "function_declarator")
	if declarator == nil {
		return "", nil
	}
	for i := uint(0); i < declarator.ChildCount(); i++ {
		child := declarator.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			return nodeText(child, text), nil
		case "qualified_identifier":
			return qualifiedNameAndScope(child, text)
		}
	}
	return "", nil
}

func qualifiedNameAndScope(node *sitter.Node, text []byte) (string, []string) {
	var scope []string
	var name string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			name = nodeText(child, text)
		case "qualified_identifier", "template_type":
			n, s := qualifiedNameAndScope(child, text)
			scope = append(scope, s...)
			name = n
		case "type_identifier", "namespace_identifier":
			scope = append(scope, nodeText(child, text))
		}
	}
	return name, scope
}

// getEnumNameAndAllValues mirrors CppParser::get_enum_name_and_all_values,
// handling both the named-enum shape and the anonymous-enum-with-declarator
// shape by taking the enum_specifier node either way.
func getEnumNameAndAllValues(enumSpecifier *sitter.Node, text []byte) (string, []string) {
	name := childText(enumSpecifier, "type_identifier", text)
	var values []string
	if enumerators := FindChildByType(enumSpecifier, "enumerator_list"); enumerators != nil {
		for i := uint(0); i < enumerators.ChildCount(); i++ {
			enumerator := enumerators.Child(i)
			if enumerator == nil || enumerator.Kind() != "enumerator" {
				continue
			}
			if ident := FindChildByType(enumerator, "identifier"); ident != nil {
				values = append(values, nodeText(ident, text))
			}
		}
	}
	return name, values
}

// declaratorName extracts the variable name out of a `declaration`'s
// init_declarator (or bare declarator, for the anonymous-enum-typed form).
func declaratorName(declaration *sitter.Node, text []byte) string {
	if init := FindChildByType(declaration, "init_declarator"); init != nil {
		if ident := FindChildByType(init, "identifier"); ident != nil {
			return nodeText(ident, text)
		}
	}
	if ident := FindChildByType(declaration, "identifier"); ident != nil {
		return nodeText(ident, text)
	}
	return ""
}

func addDeclaration(out map[string]grammar.Declaration, scope []string, name string, kind grammar.Kind, node *sitter.Node, filePath string, read grammar.ContentReader) {
	decl := newDeclaration(scope, name, kind, node, filePath, read)
	out[decl.SymbolPath] = decl
}

func newDeclaration(scope []string, name string, kind grammar.Kind, node *sitter.Node, filePath string, read grammar.ContentReader) grammar.Declaration {
	path := name
	for i := len(scope) - 1; i >= 0; i-- {
		path = scope[i] + "::" + path
	}
	r := rangeOf(node)
	return grammar.Declaration{
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
	return nodeText(FindChildByType(node, kind), text)
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

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
