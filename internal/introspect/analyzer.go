package introspect

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// clickCommandDecorator is the attribute-style decorator that marks a
// function as a CLI command entry point.
const clickCommandDecorator = "click.command"

// syntaxFacts holds everything the syntax analyzer extracts from a parsed
// script. All slices are non-nil and preserve source declaration order.
type syntaxFacts struct {
	docstring   *string
	description *string
	functions   []FunctionInfo
	classes     []ClassInfo
	imports     []ImportInfo
	entryPoints []EntryPointInfo
}

func pythonLanguage() *sitter.Language {
	return sitter.NewLanguage(python.Language())
}

// analyzeSyntax parses script source into a tree and walks it once. On a
// syntax error it returns a SyntaxError record with the offending line; no
// partial structural metadata is produced in that case. Any panic raised
// during extraction is recovered at this boundary and reported as a single
// RuntimeError record, discarding this component's partial results.
func analyzeSyntax(source []byte) (facts *syntaxFacts, errRec *ErrorRecord) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(pythonLanguage())

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &ErrorRecord{Kind: ErrKindSyntax, Message: "failed to parse script"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line := firstErrorLine(root)
		return nil, &ErrorRecord{
			Kind:    ErrKindSyntax,
			Message: fmt.Sprintf("invalid syntax (line %d)", line),
			Line:    &line,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			facts = nil
			errRec = &ErrorRecord{
				Kind:    ErrKindRuntime,
				Message: fmt.Sprintf("introspection failed: %v", r),
			}
		}
	}()

	a := &analyzer{source: source}
	return a.extract(root), nil
}

// firstErrorLine finds the 1-based line of the first error or missing node.
func firstErrorLine(root *sitter.Node) int {
	line := 1
	found := false
	walkTree(root, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.IsError() || n.IsMissing() {
			line = nodeLine(n)
			found = true
			return false
		}
		return true
	})
	return line
}

type analyzer struct {
	source []byte
}

func (a *analyzer) extract(root *sitter.Node) *syntaxFacts {
	facts := &syntaxFacts{
		functions:   []FunctionInfo{},
		classes:     []ClassInfo{},
		imports:     []ImportInfo{},
		entryPoints: []EntryPointInfo{},
	}

	facts.docstring = a.moduleDocstring(root)
	facts.description = describeDocstring(facts.docstring)

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_definition":
			fn := a.extractFunction(n)
			facts.functions = append(facts.functions, fn)
			if ep := entryPointFor(fn); ep != nil {
				facts.entryPoints = append(facts.entryPoints, *ep)
			}
		case "class_definition":
			facts.classes = append(facts.classes, a.extractClass(n))
		case "import_statement":
			facts.imports = append(facts.imports, a.extractImports(n)...)
		case "import_from_statement":
			facts.imports = append(facts.imports, a.extractFromImport(n))
		}
		return true
	})

	return facts
}

// moduleDocstring returns the unquoted value of a bare string-expression
// statement that is the first statement of the module body, if any.
func (a *analyzer) moduleDocstring(root *sitter.Node) *string {
	return a.docstringOf(root)
}

// docstringOf extracts the docstring of a body node (module or block):
// the first non-comment statement must be an expression statement wrapping
// a string literal.
func (a *analyzer) docstringOf(body *sitter.Node) *string {
	if body == nil {
		return nil
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child.Kind() == "comment" {
			continue
		}
		if child.Kind() != "expression_statement" || child.NamedChildCount() == 0 {
			return nil
		}
		str := child.NamedChild(0)
		if str.Kind() != "string" {
			return nil
		}
		value := a.unquoteString(str)
		return &value
	}
	return nil
}

// unquoteString strips the quote delimiters (and any prefix letters) off a
// string node by slicing between its start and end tokens.
func (a *analyzer) unquoteString(str *sitter.Node) string {
	var start, end *sitter.Node
	for i := uint(0); i < str.ChildCount(); i++ {
		switch c := str.Child(i); c.Kind() {
		case "string_start":
			start = c
		case "string_end":
			end = c
		}
	}
	if start == nil || end == nil {
		return nodeText(str, a.source)
	}
	return string(a.source[start.EndByte():end.StartByte()])
}

// describeDocstring derives a one-line description: the stripped first line
// of the docstring, provided it does not itself look like a string-literal
// delimiter.
func describeDocstring(docstring *string) *string {
	if docstring == nil {
		return nil
	}
	first := *docstring
	if idx := strings.IndexByte(first, '\n'); idx >= 0 {
		first = first[:idx]
	}
	first = strings.TrimSpace(first)
	if first == "" || strings.HasPrefix(first, `"""`) || strings.HasPrefix(first, "'''") {
		return nil
	}
	return &first
}

func (a *analyzer) extractFunction(n *sitter.Node) FunctionInfo {
	fn := FunctionInfo{
		Name:       nodeText(n.ChildByFieldName("name"), a.source),
		Line:       nodeLine(n),
		Docstring:  a.docstringOf(n.ChildByFieldName("body")),
		Parameters: a.extractParameters(n.ChildByFieldName("parameters")),
		Decorators: a.extractDecorators(n),
		IsAsync:    n.ChildCount() > 0 && n.Child(0).Kind() == "async",
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		text := renderExpr(ret, a.source)
		fn.Returns = &text
	}
	return fn
}

// extractParameters reads the declared parameter list in left-to-right
// order. Each default-carrying parameter shape carries its own default
// expression, so defaults align with their parameters positionally. Splat
// parameters (*args, **kwargs) and bare separators are skipped.
func (a *analyzer) extractParameters(params *sitter.Node) []ParameterInfo {
	out := []ParameterInfo{}
	if params == nil {
		return out
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		switch p.Kind() {
		case "identifier":
			out = append(out, ParameterInfo{Name: nodeText(p, a.source)})
		case "typed_parameter":
			param := ParameterInfo{Name: nodeText(p.NamedChild(0), a.source)}
			if ty := p.ChildByFieldName("type"); ty != nil {
				text := renderExpr(ty, a.source)
				param.TypeHint = &text
			}
			out = append(out, param)
		case "default_parameter":
			param := ParameterInfo{Name: nodeText(p.ChildByFieldName("name"), a.source)}
			if val := p.ChildByFieldName("value"); val != nil {
				text := renderExpr(val, a.source)
				param.Default = &text
				param.HasDefault = true
			}
			out = append(out, param)
		case "typed_default_parameter":
			param := ParameterInfo{Name: nodeText(p.ChildByFieldName("name"), a.source)}
			if ty := p.ChildByFieldName("type"); ty != nil {
				text := renderExpr(ty, a.source)
				param.TypeHint = &text
			}
			if val := p.ChildByFieldName("value"); val != nil {
				text := renderExpr(val, a.source)
				param.Default = &text
				param.HasDefault = true
			}
			out = append(out, param)
		}
	}
	return out
}

// extractDecorators collects decorator expressions from an enclosing
// decorated_definition, rendered without the leading @.
func (a *analyzer) extractDecorators(def *sitter.Node) []string {
	out := []string{}
	parent := def.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return out
	}
	for i := uint(0); i < parent.ChildCount(); i++ {
		c := parent.Child(i)
		if c.Kind() != "decorator" {
			continue
		}
		if expr := c.NamedChild(0); expr != nil {
			out = append(out, renderExpr(expr, a.source))
		}
	}
	return out
}

// entryPointFor classifies a function as an entry point. A function named
// main is always a MainFunction entry. A function carrying the fixed
// command decorator is a CliCommand entry; the comparison is made on the
// decorator's rendered attribute chain (callee chain for call-shaped
// decorators such as @click.command()).
func entryPointFor(fn FunctionInfo) *EntryPointInfo {
	if fn.Name == "main" {
		return &EntryPointInfo{Name: "main", Callable: "main", Kind: EntryMainFunction}
	}
	for _, dec := range fn.Decorators {
		target := dec
		if idx := strings.IndexByte(target, '('); idx >= 0 {
			target = target[:idx]
		}
		if target == clickCommandDecorator {
			return &EntryPointInfo{Name: fn.Name, Callable: fn.Name, Kind: EntryCliCommand}
		}
	}
	return nil
}

func (a *analyzer) extractClass(n *sitter.Node) ClassInfo {
	cls := ClassInfo{
		Name:        nodeText(n.ChildByFieldName("name"), a.source),
		Line:        nodeLine(n),
		Docstring:   a.docstringOf(n.ChildByFieldName("body")),
		Methods:     []FunctionInfo{},
		BaseClasses: []string{},
	}

	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for i := uint(0); i < supers.NamedChildCount(); i++ {
			base := supers.NamedChild(i)
			// Keyword arguments (metaclass=...) are not base classes.
			if base.Kind() == "keyword_argument" {
				continue
			}
			cls.BaseClasses = append(cls.BaseClasses, renderExpr(base, a.source))
		}
	}

	if body := n.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.NamedChildCount(); i++ {
			child := body.NamedChild(i)
			if child.Kind() == "decorated_definition" {
				child = child.ChildByFieldName("definition")
			}
			if child != nil && child.Kind() == "function_definition" {
				cls.Methods = append(cls.Methods, a.extractFunction(child))
			}
		}
	}

	return cls
}

// extractImports handles the plain `import a.b, c as d` form: one ImportInfo
// per imported name, with an empty names list.
func (a *analyzer) extractImports(n *sitter.Node) []ImportInfo {
	line := nodeLine(n)
	out := []ImportInfo{}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "dotted_name":
			out = append(out, ImportInfo{
				Module: nodeText(c, a.source),
				Names:  []string{},
				Line:   line,
			})
		case "aliased_import":
			imp := ImportInfo{
				Module: nodeText(c.ChildByFieldName("name"), a.source),
				Names:  []string{},
				Line:   line,
			}
			if alias := c.ChildByFieldName("alias"); alias != nil {
				text := nodeText(alias, a.source)
				imp.Alias = &text
			}
			out = append(out, imp)
		}
	}
	return out
}

// extractFromImport handles `from x import a, b as c`. A bare relative
// import (`from . import x`) records an empty module path; a dotted relative
// import keeps its leading dots.
func (a *analyzer) extractFromImport(n *sitter.Node) ImportInfo {
	imp := ImportInfo{
		Names:        []string{},
		IsFromImport: true,
		Line:         nodeLine(n),
	}

	if mod := n.ChildByFieldName("module_name"); mod != nil {
		text := nodeText(mod, a.source)
		if mod.Kind() == "relative_import" && strings.Trim(text, ".") == "" {
			text = ""
		}
		imp.Module = text
	}

	seenKeyword := false
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if !seenKeyword {
			if c.Kind() == "import" {
				seenKeyword = true
			}
			continue
		}
		switch c.Kind() {
		case "dotted_name":
			imp.Names = append(imp.Names, nodeText(c, a.source))
		case "aliased_import":
			imp.Names = append(imp.Names, nodeText(c.ChildByFieldName("name"), a.source))
		case "wildcard_import":
			imp.Names = append(imp.Names, "*")
		}
	}

	return imp
}
