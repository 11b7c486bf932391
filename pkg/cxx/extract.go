package cxx

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/search-rug/cpptool-lib-metrics/pkg/decl"
	"github.com/search-rug/cpptool-lib-metrics/pkg/parser"
)

// fileDecls holds the declarations found in one file, unlinked.
type fileDecls struct {
	records []*decl.Record
	types   []*decl.TypeDecl
}

// builtinTypedefs are standard scalar aliases treated like builtin types.
var builtinTypedefs = map[string]bool{
	"size_t": true, "ssize_t": true, "ptrdiff_t": true, "intptr_t": true, "uintptr_t": true,
	"int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
	"std::size_t": true, "std::ptrdiff_t": true, "std::nullptr_t": true,
	"std::int8_t": true, "std::int16_t": true, "std::int32_t": true, "std::int64_t": true,
	"std::uint8_t": true, "std::uint16_t": true, "std::uint32_t": true, "std::uint64_t": true,
}

var declaratorTypes = map[string]bool{
	"identifier":               true,
	"field_identifier":         true,
	"type_identifier":          true,
	"qualified_identifier":     true,
	"operator_name":            true,
	"destructor_name":          true,
	"pointer_declarator":       true,
	"reference_declarator":     true,
	"array_declarator":         true,
	"function_declarator":      true,
	"init_declarator":          true,
	"parenthesized_declarator": true,
	"attributed_declarator":    true,
}

type extractor struct {
	src  []byte
	path string
	out  fileDecls
}

func extractTree(result *parser.ParseResult) fileDecls {
	e := &extractor{src: result.Source, path: result.Path}
	e.visit(result.Tree.RootNode(), "", nil)
	return e.out
}

func (e *extractor) text(n *sitter.Node) string {
	return strings.Join(strings.Fields(parser.GetNodeText(n, e.src)), " ")
}

func (e *extractor) location(n *sitter.Node) decl.Location {
	return decl.Location{File: e.path, Line: parser.Line(n)}
}

func qualify(prefix, name string) string {
	if name == "" {
		return prefix
	}
	if prefix == "" {
		return name
	}
	return prefix + "::" + name
}

// visit walks namespace-level declarations. Function bodies are not entered,
// so local classes are ignored.
func (e *extractor) visit(node *sitter.Node, ns string, tparams map[string]bool) {
	for _, c := range parser.NamedChildren(node) {
		switch c.Type() {
		case "namespace_definition":
			name := e.text(c.ChildByFieldName("name"))
			e.visit(c.ChildByFieldName("body"), qualify(ns, name), tparams)
		case "linkage_specification":
			if body := c.ChildByFieldName("body"); body != nil {
				e.visit(body, ns, tparams)
			}
		case "template_declaration":
			e.visit(c, ns, e.templateParams(c, tparams))
		case "class_specifier", "struct_specifier", "union_specifier":
			if rec := e.record(c, ns, "", tparams); rec != nil {
				e.out.records = append(e.out.records, rec)
			}
		case "declaration", "type_definition":
			e.typeSpecifier(c, ns, tparams, func(rec *decl.Record) {
				e.out.records = append(e.out.records, rec)
			})
		case "enum_specifier":
			e.enum(c, ns)
		case "alias_declaration":
			e.alias(c, ns)
		case "preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif", "preproc_elifdef":
			e.visit(c, ns, tparams)
		}
	}
}

// typeSpecifier handles a declaration whose type may itself define a
// record or an enum, such as "struct S { ... } s;" or a typedef.
func (e *extractor) typeSpecifier(c *sitter.Node, prefix string, tparams map[string]bool, add func(*decl.Record)) *decl.Record {
	typeNode := c.ChildByFieldName("type")
	if typeNode == nil {
		return nil
	}
	isTypedef := c.Type() == "type_definition"
	var aliases []string
	if isTypedef {
		for _, d := range e.declarators(c) {
			if name := e.declaratorName(d); name != "" {
				aliases = append(aliases, name)
			}
		}
	}

	switch typeNode.Type() {
	case "class_specifier", "struct_specifier", "union_specifier":
		alias := ""
		if len(aliases) > 0 {
			alias = aliases[0]
		}
		rec := e.record(typeNode, prefix, alias, tparams)
		if rec == nil {
			break
		}
		add(rec)
		// typedef struct { ... } Name; names the record itself.
		if len(aliases) > 0 && rec.Name == qualify(prefix, aliases[0]) {
			aliases = aliases[1:]
		}
		for _, a := range aliases {
			e.typeDecl(qualify(prefix, a), decl.KindTypedef, c)
		}
		return rec
	case "enum_specifier":
		e.enum(typeNode, prefix)
	}
	for _, a := range aliases {
		e.typeDecl(qualify(prefix, a), decl.KindTypedef, c)
	}
	return nil
}

func (e *extractor) typeDecl(name string, kind decl.Kind, n *sitter.Node) {
	e.out.types = append(e.out.types, &decl.TypeDecl{Name: name, Kind: kind, Location: e.location(n)})
}

func (e *extractor) enum(n *sitter.Node, prefix string) {
	if n.ChildByFieldName("body") == nil {
		return
	}
	if name := e.text(n.ChildByFieldName("name")); name != "" {
		e.typeDecl(qualify(prefix, name), decl.KindEnum, n)
	}
}

func (e *extractor) alias(n *sitter.Node, prefix string) {
	if name := e.text(n.ChildByFieldName("name")); name != "" {
		e.typeDecl(qualify(prefix, name), decl.KindTypedef, n)
	}
}

func (e *extractor) templateParams(n *sitter.Node, outer map[string]bool) map[string]bool {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return outer
	}
	out := make(map[string]bool, len(outer)+2)
	for k := range outer {
		out[k] = true
	}
	for _, p := range parser.NamedChildren(params) {
		switch p.Type() {
		case "type_parameter_declaration", "variadic_type_parameter_declaration",
			"optional_type_parameter_declaration", "template_template_parameter_declaration":
			parser.WalkTyped(p, e.src, func(node *sitter.Node, t string, _ []byte) bool {
				if t == "template_parameter_list" {
					return false
				}
				if t == "type_identifier" {
					out[e.text(node)] = true
				}
				return true
			})
		}
	}
	return out
}

// record builds a record from a class-like specifier. Forward declarations
// (no body) yield nil.
func (e *extractor) record(n *sitter.Node, prefix, alias string, tparams map[string]bool) *decl.Record {
	body := n.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	name := e.text(n.ChildByFieldName("name"))
	if name == "" {
		name = alias
	}
	if name == "" {
		name = "(anonymous)"
	}

	rec := &decl.Record{
		Name:     qualify(prefix, name),
		Variant:  variantOf(n.Type()),
		Location: e.location(n),
		Scope:    &decl.Scope{},
	}
	for i := range int(n.ChildCount()) {
		if c := n.Child(i); c.Type() == "base_class_clause" {
			e.bases(c, rec, tparams)
		}
	}

	access := rec.Variant.DefaultAccess()
	e.members(body, rec, &access, tparams)
	return rec
}

func variantOf(nodeType string) decl.Variant {
	switch nodeType {
	case "struct_specifier":
		return decl.VariantStruct
	case "union_specifier":
		return decl.VariantUnion
	default:
		return decl.VariantClass
	}
}

func (e *extractor) bases(clause *sitter.Node, rec *decl.Record, tparams map[string]bool) {
	def := rec.Variant.DefaultAccess()
	access := def
	for i := range int(clause.ChildCount()) {
		c := clause.Child(i)
		switch c.Type() {
		case "access_specifier", "public", "protected", "private":
			if a, err := decl.ParseAccess(e.text(c)); err == nil {
				access = a
			}
		case "type_identifier", "qualified_identifier", "qualified_type_identifier", "template_type":
			rec.Parents = append(rec.Parents, decl.ParentEdge{Type: e.typeRef(c, tparams), Access: access})
			access = def
		case ",":
			access = def
		}
	}
}

func (e *extractor) members(body *sitter.Node, rec *decl.Record, access *decl.Access, tparams map[string]bool) {
	for _, c := range parser.NamedChildren(body) {
		switch c.Type() {
		case "access_specifier":
			if a, err := decl.ParseAccess(strings.TrimSuffix(e.text(c), ":")); err == nil {
				*access = a
			}
		case "field_declaration", "declaration":
			e.member(c, rec, *access, tparams)
		case "function_definition":
			e.inlineMethod(c, rec, *access, tparams)
		case "template_declaration":
			e.members(c, rec, access, e.templateParams(c, tparams))
		case "type_definition":
			e.typeSpecifier(c, rec.Name, tparams, func(nested *decl.Record) {
				rec.Scope.Records = append(rec.Scope.Records, nested)
			})
		case "alias_declaration":
			e.alias(c, rec.Name)
		case "enum_specifier":
			e.enum(c, rec.Name)
		case "class_specifier", "struct_specifier", "union_specifier":
			if nested := e.record(c, rec.Name, "", tparams); nested != nil {
				rec.Scope.Records = append(rec.Scope.Records, nested)
			}
		case "preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif", "preproc_elifdef":
			e.members(c, rec, access, tparams)
		}
	}
}

// member handles a field_declaration or declaration inside a class body:
// data members, method declarations, nested types, or a mix.
func (e *extractor) member(c *sitter.Node, rec *decl.Record, access decl.Access, tparams map[string]bool) {
	typeNode := c.ChildByFieldName("type")
	virtual := e.hasVirtual(c)
	static := e.hasStatic(c)

	var fieldType *decl.TypeRef
	if typeNode != nil {
		switch typeNode.Type() {
		case "class_specifier", "struct_specifier", "union_specifier":
			if nested := e.record(typeNode, rec.Name, "", tparams); nested != nil {
				rec.Scope.Records = append(rec.Scope.Records, nested)
				t := decl.TypeRef{Name: nested.Name, Ref: decl.ResolvedRecord(nested)}
				fieldType = &t
			}
		case "enum_specifier":
			e.enum(typeNode, rec.Name)
		}
	}

	for _, d := range e.declarators(c) {
		if fn := functionDeclarator(d); fn != nil {
			rec.Scope.Methods = append(rec.Scope.Methods, e.method(fn, access, virtual || e.hasVirtualSpecifier(c), static, tparams))
			continue
		}
		name := e.declaratorName(d)
		if name == "" || typeNode == nil {
			continue
		}
		t := fieldType
		if t == nil {
			ref := e.typeRef(typeNode, tparams)
			t = &ref
		}
		rec.Scope.Fields = append(rec.Scope.Fields, &decl.Field{Name: name, Access: access, Type: *t})
	}
}

func (e *extractor) inlineMethod(c *sitter.Node, rec *decl.Record, access decl.Access, tparams map[string]bool) {
	fn := functionDeclarator(c.ChildByFieldName("declarator"))
	if fn == nil {
		return
	}
	virtual := e.hasVirtual(c) || e.hasVirtualSpecifier(c)
	rec.Scope.Methods = append(rec.Scope.Methods, e.method(fn, access, virtual, e.hasStatic(c), tparams))
}

func (e *extractor) method(fn *sitter.Node, access decl.Access, virtual, static bool, tparams map[string]bool) *decl.Method {
	m := &decl.Method{
		Name:    e.text(fn.ChildByFieldName("declarator")),
		Access:  access,
		Virtual: virtual || e.hasVirtualSpecifier(fn),
		Static:  static,
	}
	params := fn.ChildByFieldName("parameters")
	for _, p := range parser.NamedChildren(params) {
		switch p.Type() {
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
		default:
			continue
		}
		typeNode := p.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		// f(void) declares no parameters.
		if e.text(typeNode) == "void" && p.ChildByFieldName("declarator") == nil {
			continue
		}
		m.Params = append(m.Params, e.typeRef(typeNode, tparams))
	}
	return m
}

// declarators returns the declarator children of a declaration node.
func (e *extractor) declarators(c *sitter.Node) []*sitter.Node {
	typeNode := c.ChildByFieldName("type")
	var out []*sitter.Node
	for _, d := range parser.NamedChildren(c) {
		if typeNode != nil && sameNode(d, typeNode) {
			continue
		}
		if declaratorTypes[d.Type()] {
			out = append(out, d)
		}
	}
	return out
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func functionDeclarator(d *sitter.Node) *sitter.Node {
	for d != nil {
		switch d.Type() {
		case "function_declarator":
			return d
		case "pointer_declarator", "reference_declarator", "parenthesized_declarator", "attributed_declarator":
			d = innerDeclarator(d)
		default:
			return nil
		}
	}
	return nil
}

func innerDeclarator(d *sitter.Node) *sitter.Node {
	if next := d.ChildByFieldName("declarator"); next != nil {
		return next
	}
	if n := d.NamedChildCount(); n > 0 {
		return d.NamedChild(int(n) - 1)
	}
	return nil
}

func (e *extractor) declaratorName(d *sitter.Node) string {
	for d != nil {
		switch d.Type() {
		case "identifier", "field_identifier", "type_identifier":
			return e.text(d)
		case "pointer_declarator", "reference_declarator", "array_declarator",
			"init_declarator", "parenthesized_declarator", "attributed_declarator":
			d = innerDeclarator(d)
		default:
			return ""
		}
	}
	return ""
}

func (e *extractor) hasVirtual(n *sitter.Node) bool {
	for i := range int(n.ChildCount()) {
		switch n.Child(i).Type() {
		case "virtual", "virtual_function_specifier":
			return true
		}
	}
	return false
}

// hasVirtualSpecifier reports an override or final specifier, which only
// virtual functions may carry.
func (e *extractor) hasVirtualSpecifier(n *sitter.Node) bool {
	for i := range int(n.ChildCount()) {
		if n.Child(i).Type() == "virtual_specifier" {
			return true
		}
	}
	return false
}

func (e *extractor) hasStatic(n *sitter.Node) bool {
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if c.Type() == "storage_class_specifier" && e.text(c) == "static" {
			return true
		}
	}
	return false
}

// typeRef records a type use. Builtins are external right away; everything
// else is left unbuilt for the linker.
func (e *extractor) typeRef(n *sitter.Node, tparams map[string]bool) decl.TypeRef {
	switch n.Type() {
	case "primitive_type", "sized_type_specifier", "placeholder_type_specifier", "auto", "decltype":
		return builtinRef(e.text(n))
	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		// Elaborated specifier without a body: "struct Foo x;".
		if name := n.ChildByFieldName("name"); name != nil {
			return decl.TypeRef{Name: e.text(name)}
		}
	}
	name := e.text(n)
	if tparams[name] || builtinTypedefs[strings.TrimPrefix(name, "::")] {
		return builtinRef(name)
	}
	return decl.TypeRef{Name: name}
}

func builtinRef(name string) decl.TypeRef {
	return decl.TypeRef{Name: name, Builtin: true, Ref: decl.Ref{Status: decl.External}}
}
