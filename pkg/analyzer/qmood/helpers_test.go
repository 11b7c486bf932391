package qmood

import (
	"github.com/search-rug/cpptool-lib-metrics/pkg/decl"
)

func class(name string, members ...any) *decl.Record {
	rec := &decl.Record{
		Name:     name,
		Variant:  decl.VariantClass,
		Location: decl.Location{File: name + ".h", Line: 1},
		Scope:    &decl.Scope{},
	}
	for _, m := range members {
		switch v := m.(type) {
		case *decl.Method:
			rec.Scope.Methods = append(rec.Scope.Methods, v)
		case *decl.Field:
			rec.Scope.Fields = append(rec.Scope.Fields, v)
		case *decl.Record:
			rec.Scope.Records = append(rec.Scope.Records, v)
		}
	}
	return rec
}

func method(name string, params ...decl.TypeRef) *decl.Method {
	return &decl.Method{Name: name, Access: decl.Public, Params: params}
}

func virtual(name string, params ...decl.TypeRef) *decl.Method {
	m := method(name, params...)
	m.Virtual = true
	return m
}

func field(name string, access decl.Access, t decl.TypeRef) *decl.Field {
	return &decl.Field{Name: name, Access: access, Type: t}
}

func builtin(name string) decl.TypeRef {
	return decl.TypeRef{Name: name, Builtin: true, Ref: decl.Ref{Status: decl.External}}
}

func absent(name string) decl.TypeRef {
	return decl.TypeRef{Name: name, Ref: decl.Ref{Status: decl.Absent}}
}

func external(name string) decl.TypeRef {
	return decl.TypeRef{Name: name, Ref: decl.Ref{Status: decl.External}}
}

func recordType(rec *decl.Record) decl.TypeRef {
	return decl.TypeRef{Name: rec.Name, Ref: decl.ResolvedRecord(rec)}
}

func inherit(child, parent *decl.Record, access decl.Access) {
	child.Parents = append(child.Parents, decl.ParentEdge{Type: recordType(parent), Access: access})
}

func inheritedNames(n *ClassNode) []string {
	var out []string
	for _, m := range n.Inherited() {
		out = append(out, m.Name)
	}
	return out
}
