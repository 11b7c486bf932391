package decl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidDump is returned when a dump does not match the dump schema.
	ErrInvalidDump = errors.New("invalid declaration dump")
	// ErrDuplicateID is returned when two declarations in a dump share an id.
	ErrDuplicateID = errors.New("duplicate declaration id")
)

// Format is the encoding of a declaration dump.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the dump format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type dumpDoc struct {
	Records []dumpRecord `json:"records" yaml:"records"`
	Types   []dumpType   `json:"types,omitempty" yaml:"types,omitempty"`
}

type dumpRecord struct {
	ID      string       `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string       `json:"name" yaml:"name"`
	Variant string       `json:"variant,omitempty" yaml:"variant,omitempty"`
	File    string       `json:"file,omitempty" yaml:"file,omitempty"`
	Line    int          `json:"line,omitempty" yaml:"line,omitempty"`
	Parents []dumpParent `json:"parents,omitempty" yaml:"parents,omitempty"`
	Scope   *dumpScope   `json:"scope,omitempty" yaml:"scope,omitempty"`
}

type dumpScope struct {
	Methods []dumpMethod `json:"methods,omitempty" yaml:"methods,omitempty"`
	Fields  []dumpField  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Records []dumpRecord `json:"records,omitempty" yaml:"records,omitempty"`
}

type dumpParent struct {
	Type   dumpTypeRef `json:"type" yaml:"type"`
	Access string      `json:"access,omitempty" yaml:"access,omitempty"`
}

type dumpTypeRef struct {
	Name     string `json:"name" yaml:"name"`
	Builtin  bool   `json:"builtin,omitempty" yaml:"builtin,omitempty"`
	Ref      string `json:"ref,omitempty" yaml:"ref,omitempty"`
	External bool   `json:"external,omitempty" yaml:"external,omitempty"`
}

type dumpMethod struct {
	Name    string        `json:"name" yaml:"name"`
	Access  string        `json:"access,omitempty" yaml:"access,omitempty"`
	Virtual bool          `json:"virtual,omitempty" yaml:"virtual,omitempty"`
	Static  bool          `json:"static,omitempty" yaml:"static,omitempty"`
	Params  []dumpTypeRef `json:"params,omitempty" yaml:"params,omitempty"`
}

type dumpField struct {
	Name   string      `json:"name" yaml:"name"`
	Access string      `json:"access,omitempty" yaml:"access,omitempty"`
	Type   dumpTypeRef `json:"type" yaml:"type"`
}

type dumpType struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	Line int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// Load reads, validates and links a declaration dump file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}
	set, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Decode validates and links a dump document.
func Decode(data []byte, format Format) (*Set, error) {
	var doc dumpDoc
	if format == FormatYAML {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
		}
		// Validation runs on the JSON form so both encodings share one schema.
		normalized, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		data = normalized
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	if format != FormatYAML {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
		}
	}
	return fromDump(&doc)
}

// Encode writes the set as a dump document.
func Encode(w io.Writer, s *Set, format Format) error {
	doc := toDump(s)
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// linker resolves dump ids into declaration pointers.
type linker struct {
	records map[string]*Record
	types   map[string]*TypeDecl
}

func fromDump(doc *dumpDoc) (*Set, error) {
	l := &linker{
		records: make(map[string]*Record),
		types:   make(map[string]*TypeDecl),
	}
	set := &Set{}

	for _, dt := range doc.Types {
		if _, dup := l.types[dt.ID]; dup {
			return nil, fmt.Errorf("%w: type %q", ErrDuplicateID, dt.ID)
		}
		td := &TypeDecl{
			ID:       dt.ID,
			Name:     dt.Name,
			Kind:     Kind(dt.Kind),
			Location: Location{File: dt.File, Line: dt.Line},
		}
		l.types[dt.ID] = td
		set.Types = append(set.Types, td)
	}

	// Records are created before any reference is linked so that forward
	// references and references into nested scopes resolve.
	pending := make(map[*Record]*dumpRecord)
	var build func(dr *dumpRecord) (*Record, error)
	build = func(dr *dumpRecord) (*Record, error) {
		rec := &Record{
			ID:       dr.ID,
			Name:     dr.Name,
			Variant:  Variant(dr.Variant),
			Location: Location{File: dr.File, Line: dr.Line},
		}
		if rec.Variant == "" {
			rec.Variant = VariantClass
		}
		if dr.ID != "" {
			if _, dup := l.records[dr.ID]; dup {
				return nil, fmt.Errorf("%w: record %q", ErrDuplicateID, dr.ID)
			}
			if _, dup := l.types[dr.ID]; dup {
				return nil, fmt.Errorf("%w: record %q", ErrDuplicateID, dr.ID)
			}
			l.records[dr.ID] = rec
		}
		pending[rec] = dr
		if dr.Scope != nil {
			rec.Scope = &Scope{}
			for i := range dr.Scope.Records {
				nested, err := build(&dr.Scope.Records[i])
				if err != nil {
					return nil, err
				}
				rec.Scope.Records = append(rec.Scope.Records, nested)
			}
		}
		return rec, nil
	}
	for i := range doc.Records {
		rec, err := build(&doc.Records[i])
		if err != nil {
			return nil, err
		}
		set.Top = append(set.Top, rec)
	}

	for _, rec := range set.Records() {
		if err := l.linkRecord(rec, pending[rec]); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (l *linker) linkRecord(rec *Record, dr *dumpRecord) error {
	def := rec.Variant.DefaultAccess()
	for _, dp := range dr.Parents {
		access, err := accessOr(dp.Access, def)
		if err != nil {
			return fmt.Errorf("record %s parent %s: %w", rec.Name, dp.Type.Name, err)
		}
		rec.Parents = append(rec.Parents, ParentEdge{Type: l.typeRef(dp.Type), Access: access})
	}
	if dr.Scope == nil {
		return nil
	}
	for _, dm := range dr.Scope.Methods {
		access, err := accessOr(dm.Access, def)
		if err != nil {
			return fmt.Errorf("record %s method %s: %w", rec.Name, dm.Name, err)
		}
		m := &Method{Name: dm.Name, Access: access, Virtual: dm.Virtual, Static: dm.Static}
		for _, p := range dm.Params {
			m.Params = append(m.Params, l.typeRef(p))
		}
		rec.Scope.Methods = append(rec.Scope.Methods, m)
	}
	for _, df := range dr.Scope.Fields {
		access, err := accessOr(df.Access, def)
		if err != nil {
			return fmt.Errorf("record %s field %s: %w", rec.Name, df.Name, err)
		}
		rec.Scope.Fields = append(rec.Scope.Fields, &Field{Name: df.Name, Access: access, Type: l.typeRef(df.Type)})
	}
	return nil
}

func (l *linker) typeRef(dt dumpTypeRef) TypeRef {
	tr := TypeRef{Name: dt.Name, Builtin: dt.Builtin}
	switch {
	case dt.Builtin, dt.External:
		tr.Ref = Ref{Status: External}
	case dt.Ref != "":
		if rec, ok := l.records[dt.Ref]; ok {
			tr.Ref = ResolvedRecord(rec)
		} else if td, ok := l.types[dt.Ref]; ok {
			tr.Ref = ResolvedDecl(td)
		} else {
			tr.Ref = Ref{Status: Absent}
		}
	default:
		tr.Ref = Ref{Status: Absent}
	}
	return tr
}

func accessOr(s string, def Access) (Access, error) {
	if s == "" {
		return def, nil
	}
	return ParseAccess(s)
}

// toDump converts a set to its dump form. Records and types without an id
// get a positional one so references survive the round trip.
func toDump(s *Set) *dumpDoc {
	doc := &dumpDoc{Records: []dumpRecord{}}
	if s == nil {
		return doc
	}
	ids := make(map[*Record]string)
	for i, rec := range s.Records() {
		if rec.ID != "" {
			ids[rec] = rec.ID
		} else {
			ids[rec] = "r" + strconv.Itoa(i)
		}
	}
	typeIDs := make(map[*TypeDecl]string)
	for i, td := range s.Types {
		id := td.ID
		if id == "" {
			id = "t" + strconv.Itoa(i)
		}
		typeIDs[td] = id
		doc.Types = append(doc.Types, dumpType{
			ID:   id,
			Name: td.Name,
			Kind: string(td.Kind),
			File: td.Location.File,
			Line: td.Location.Line,
		})
	}

	ref := func(tr TypeRef) dumpTypeRef {
		dt := dumpTypeRef{Name: tr.Name, Builtin: tr.Builtin}
		switch {
		case tr.Builtin:
		case tr.Ref.Record != nil:
			dt.Ref = ids[tr.Ref.Record]
		case tr.Ref.Decl != nil:
			dt.Ref = typeIDs[tr.Ref.Decl]
		case tr.Ref.Status == External:
			dt.External = true
		}
		return dt
	}

	var conv func(rec *Record) dumpRecord
	conv = func(rec *Record) dumpRecord {
		dr := dumpRecord{
			ID:      ids[rec],
			Name:    rec.Name,
			Variant: string(rec.Variant),
			File:    rec.Location.File,
			Line:    rec.Location.Line,
		}
		for _, p := range rec.Parents {
			dr.Parents = append(dr.Parents, dumpParent{Type: ref(p.Type), Access: string(p.Access)})
		}
		if rec.Scope == nil {
			return dr
		}
		dr.Scope = &dumpScope{}
		for _, m := range rec.Scope.Methods {
			dm := dumpMethod{Name: m.Name, Access: string(m.Access), Virtual: m.Virtual, Static: m.Static}
			for _, p := range m.Params {
				dm.Params = append(dm.Params, ref(p))
			}
			dr.Scope.Methods = append(dr.Scope.Methods, dm)
		}
		for _, f := range rec.Scope.Fields {
			dr.Scope.Fields = append(dr.Scope.Fields, dumpField{Name: f.Name, Access: string(f.Access), Type: ref(f.Type)})
		}
		for _, nested := range rec.Scope.Records {
			dr.Scope.Records = append(dr.Scope.Records, conv(nested))
		}
		return dr
	}
	for _, rec := range s.Top {
		doc.Records = append(doc.Records, conv(rec))
	}
	return doc
}
