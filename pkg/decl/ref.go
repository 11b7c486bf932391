package decl

// Status describes how far a reference has been resolved.
type Status int

const (
	// Unbuilt is the zero value: the reference has not been linked yet.
	Unbuilt Status = iota
	// Resolved references point at a declaration in the analyzed set.
	Resolved
	// External references name a declaration outside the analyzed code,
	// such as a standard library type or a base from a header that was not
	// provided.
	External
	// Absent references could not be matched to any declaration.
	Absent
)

func (s Status) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case External:
		return "external"
	case Absent:
		return "absent"
	default:
		return "unbuilt"
	}
}

// Kind is the kind of declaration a reference resolved to.
type Kind string

const (
	KindRecord  Kind = "record"
	KindEnum    Kind = "enum"
	KindTypedef Kind = "typedef"
	KindOther   Kind = "other"
)

// Ref is the resolution state of a TypeRef.
type Ref struct {
	Status Status
	Kind   Kind
	// Record is set when the reference resolved to a record.
	Record *Record
	// Decl is set when the reference resolved to a non-record declaration.
	Decl *TypeDecl
}

// ResolvedRecord returns a reference to rec.
func ResolvedRecord(rec *Record) Ref {
	return Ref{Status: Resolved, Kind: KindRecord, Record: rec}
}

// ResolvedDecl returns a reference to a non-record declaration.
func ResolvedDecl(d *TypeDecl) Ref {
	return Ref{Status: Resolved, Kind: d.Kind, Decl: d}
}

// IsRecord reports whether the reference resolved to a record.
func (r Ref) IsRecord() bool {
	return r.Status == Resolved && r.Record != nil
}

// Reason explains why a reference is not resolved. It is empty for
// resolved references.
func (r Ref) Reason() string {
	switch r.Status {
	case Resolved:
		return ""
	case External:
		return "declared outside the analyzed sources"
	case Absent:
		return "no declaration found"
	default:
		return "reference was never linked"
	}
}
