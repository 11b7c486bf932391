package cxx

import (
	"strings"

	"github.com/search-rug/cpptool-lib-metrics/pkg/decl"
)

// linker resolves type names against every declaration extracted from the
// analyzed files. Resolution is name based: a qualified name is looked up
// from the innermost enclosing scope outwards, then a unique unqualified
// match is accepted.
type linker struct {
	records map[string][]*decl.Record
	types   map[string][]*decl.TypeDecl
	simple  map[string]int
	// bySimple holds the single declaration with a given last name
	// component; ambiguous names are absent.
	bySimpleRecord map[string]*decl.Record
	bySimpleType   map[string]*decl.TypeDecl
}

func newLinker(set *decl.Set) *linker {
	l := &linker{
		records:        make(map[string][]*decl.Record),
		types:          make(map[string][]*decl.TypeDecl),
		simple:         make(map[string]int),
		bySimpleRecord: make(map[string]*decl.Record),
		bySimpleType:   make(map[string]*decl.TypeDecl),
	}
	for _, r := range set.Records() {
		l.records[r.Name] = append(l.records[r.Name], r)
		s := lastComponent(r.Name)
		l.simple[s]++
		l.bySimpleRecord[s] = r
	}
	for _, t := range set.Types {
		l.types[t.Name] = append(l.types[t.Name], t)
		s := lastComponent(t.Name)
		l.simple[s]++
		l.bySimpleType[s] = t
	}
	return l
}

// link resolves every unbuilt type reference in the set in place.
func link(set *decl.Set) {
	l := newLinker(set)
	for _, rec := range set.Records() {
		for i := range rec.Parents {
			l.resolve(&rec.Parents[i].Type, scopeOf(rec.Name), rec)
		}
		if rec.Scope == nil {
			continue
		}
		for _, m := range rec.Scope.Methods {
			for i := range m.Params {
				l.resolve(&m.Params[i], rec.Name, nil)
			}
		}
		for _, f := range rec.Scope.Fields {
			l.resolve(&f.Type, rec.Name, nil)
		}
	}
}

// resolve fills t.Ref. self, when set, is never accepted as a match so a
// base named like its derived class resolves elsewhere.
func (l *linker) resolve(t *decl.TypeRef, scope string, self *decl.Record) {
	if t.Ref.Status != decl.Unbuilt {
		return
	}
	key := normalizeTypeName(t.Name)
	if key == "" {
		t.Ref = decl.Ref{Status: decl.Absent}
		return
	}

	for prefix := scope; ; prefix = scopeOf(prefix) {
		if ref, ok := l.lookup(qualify(prefix, key), self); ok {
			t.Ref = ref
			return
		}
		if prefix == "" {
			break
		}
	}

	if strings.HasPrefix(key, "std::") {
		t.Ref = decl.Ref{Status: decl.External}
		return
	}

	s := lastComponent(key)
	if l.simple[s] == 1 {
		if r := l.bySimpleRecord[s]; r != nil && r != self {
			t.Ref = decl.ResolvedRecord(r)
			return
		}
		if d := l.bySimpleType[s]; d != nil {
			t.Ref = decl.ResolvedDecl(d)
			return
		}
	}
	t.Ref = decl.Ref{Status: decl.Absent}
}

func (l *linker) lookup(name string, self *decl.Record) (decl.Ref, bool) {
	for _, r := range l.records[name] {
		if r != self {
			return decl.ResolvedRecord(r), true
		}
	}
	if ds := l.types[name]; len(ds) > 0 {
		return decl.ResolvedDecl(ds[0]), true
	}
	return decl.Ref{}, false
}

// normalizeTypeName reduces a type spelling to a lookup key: qualifiers,
// elaborated-type keywords, template arguments and a leading global scope
// are removed.
func normalizeTypeName(name string) string {
	n := strings.TrimSpace(name)
	for _, kw := range []string{"const ", "volatile ", "typename ", "struct ", "class ", "union ", "enum "} {
		n = strings.TrimPrefix(n, kw)
	}
	if i := strings.IndexByte(n, '<'); i >= 0 {
		n = n[:i]
	}
	n = strings.TrimRight(n, " &*")
	n = strings.TrimPrefix(n, "::")
	return strings.TrimSpace(n)
}

func scopeOf(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[:i]
	}
	return ""
}

func lastComponent(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}
