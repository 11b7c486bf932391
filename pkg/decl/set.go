package decl

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/zeebo/blake3"
)

// Set is a fully assembled declaration tree.
type Set struct {
	// Top holds the top-level records; nested records live in their
	// parent's scope.
	Top []*Record
	// Types holds non-record declarations types may resolve to.
	Types []*TypeDecl
}

// NewSet creates a set from top-level records.
func NewSet(records ...*Record) *Set {
	return &Set{Top: records}
}

// Records returns every record in the set, nested records included, in
// declaration order (a record precedes the records nested in it).
func (s *Set) Records() []*Record {
	if s == nil {
		return nil
	}
	var out []*Record
	var walk func(recs []*Record)
	walk = func(recs []*Record) {
		for _, r := range recs {
			out = append(out, r)
			if r.Scope != nil {
				walk(r.Scope.Records)
			}
		}
	}
	walk(s.Top)
	return out
}

// Digest returns a hex blake3 digest of the set's canonical dump encoding.
// Two sets with the same digest produce identical analysis results.
func (s *Set) Digest() string {
	data, err := json.Marshal(toDump(s))
	if err != nil {
		return ""
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// stringLike lists spellings of standard string types after qualifier
// stripping.
var stringLike = map[string]bool{
	"string":                 true,
	"wstring":                true,
	"u8string":               true,
	"u16string":              true,
	"u32string":              true,
	"string_view":            true,
	"wstring_view":           true,
	"basic_string":           true,
	"basic_string_view":      true,
	"std::string":            true,
	"std::wstring":           true,
	"std::u8string":          true,
	"std::u16string":         true,
	"std::u32string":         true,
	"std::string_view":       true,
	"std::wstring_view":      true,
	"std::basic_string":      true,
	"std::basic_string_view": true,
}

// IsStringLike reports whether a type name denotes a standard string type,
// including libc++ and libstdc++ inline namespace spellings such as
// "::std::__1::string" and "std::__cxx11::basic_string<char>".
func IsStringLike(name string) bool {
	n := strings.TrimSpace(name)
	n = strings.TrimPrefix(n, "const ")
	n = strings.TrimSuffix(n, "&")
	n = strings.TrimSuffix(n, "*")
	n = strings.TrimSpace(n)
	n = strings.TrimPrefix(n, "::")
	n = strings.Replace(n, "std::__1::", "std::", 1)
	n = strings.Replace(n, "std::__cxx11::", "std::", 1)
	if i := strings.IndexByte(n, '<'); i >= 0 {
		n = n[:i]
	}
	return stringLike[strings.TrimSpace(n)]
}
