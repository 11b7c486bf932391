package decl

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shapesJSON = `{
  "types": [{"id": "Color", "name": "Color", "kind": "enum"}],
  "records": [
    {
      "id": "Shape", "name": "Shape", "file": "shape.hpp", "line": 3,
      "scope": {
        "methods": [
          {"name": "area", "access": "public", "virtual": true},
          {"name": "paint", "access": "public", "params": [{"name": "Color", "ref": "Color"}]}
        ],
        "fields": [
          {"name": "color_", "access": "protected", "type": {"name": "Color", "ref": "Color"}},
          {"name": "label_", "type": {"name": "std::string", "external": true}}
        ],
        "records": [
          {"id": "Shape::Cache", "name": "Cache", "variant": "struct", "scope": {}}
        ]
      }
    },
    {
      "id": "Circle", "name": "Circle",
      "parents": [{"type": {"name": "Shape", "ref": "Shape"}, "access": "public"}],
      "scope": {"fields": [{"name": "r", "type": {"name": "double", "builtin": true}}]}
    },
    {
      "id": "Widget", "name": "Widget",
      "parents": [{"type": {"name": "QObject", "external": true}}, {"type": {"name": "Gone", "ref": "Gone"}}]
    }
  ]
}`

func TestDecode_JSON(t *testing.T) {
	set, err := Decode([]byte(shapesJSON), FormatJSON)
	require.NoError(t, err)

	recs := set.Records()
	require.Len(t, recs, 4)
	assert.Equal(t, []string{"Shape", "Cache", "Circle", "Widget"}, []string{recs[0].Name, recs[1].Name, recs[2].Name, recs[3].Name})

	shape, cache, circle, widget := recs[0], recs[1], recs[2], recs[3]

	assert.Equal(t, VariantClass, shape.Variant)
	assert.Equal(t, "shape.hpp:3", shape.Location.String())
	require.NotNil(t, shape.Scope)
	assert.Len(t, shape.Scope.Methods, 2)
	assert.True(t, shape.Scope.Methods[0].Virtual)

	color := shape.Scope.Fields[0].Type
	assert.Equal(t, Resolved, color.Ref.Status)
	assert.Equal(t, KindEnum, color.Ref.Kind)
	assert.False(t, color.Ref.IsRecord())

	// Class members default to private access.
	assert.Equal(t, Private, shape.Scope.Fields[1].Access)
	assert.Equal(t, External, shape.Scope.Fields[1].Type.Ref.Status)

	assert.Equal(t, VariantStruct, cache.Variant)
	assert.NotNil(t, cache.Scope)

	require.Len(t, circle.Parents, 1)
	assert.Equal(t, Public, circle.Parents[0].Access)
	assert.Same(t, shape, circle.Parents[0].Type.Ref.Record)
	assert.True(t, circle.Scope.Fields[0].Type.Builtin)

	// No scope in the dump means the member scope is unavailable.
	assert.Nil(t, widget.Scope)
	require.Len(t, widget.Parents, 2)
	assert.Equal(t, Private, widget.Parents[0].Access)
	assert.Equal(t, External, widget.Parents[0].Type.Ref.Status)
	assert.Equal(t, Absent, widget.Parents[1].Type.Ref.Status)
	assert.NotEmpty(t, widget.Parents[1].Type.Ref.Reason())
}

func TestDecode_YAML(t *testing.T) {
	doc := `
records:
  - id: A
    name: A
    variant: struct
    scope:
      methods:
        - name: run
          virtual: true
  - id: B
    name: B
    parents:
      - type: {name: A, ref: A}
        access: private
    scope: {}
`
	set, err := Decode([]byte(doc), FormatYAML)
	require.NoError(t, err)
	recs := set.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, Public, recs[0].Scope.Methods[0].Access, "struct members default to public")
	assert.Equal(t, Private, recs[1].Parents[0].Access)
	assert.Same(t, recs[0], recs[1].Parents[0].Type.Ref.Record)
}

func TestDecode_SchemaViolation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing records", `{}`},
		{"empty name", `{"records": [{"name": ""}]}`},
		{"bad access", `{"records": [{"name": "A", "scope": {"methods": [{"name": "f", "access": "friend"}]}}]}`},
		{"bad variant", `{"records": [{"name": "A", "variant": "enum"}]}`},
		{"not json", `records: [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDump), "got %v", err)
		})
	}
}

func TestDecode_DuplicateID(t *testing.T) {
	doc := `{"records": [{"id": "A", "name": "A"}, {"id": "A", "name": "A"}]}`
	_, err := Decode([]byte(doc), FormatJSON)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestDecode_SameNameStaysDistinct(t *testing.T) {
	doc := `{"records": [{"id": "a::Node", "name": "Node", "scope": {}}, {"id": "b::Node", "name": "Node", "scope": {}}]}`
	set, err := Decode([]byte(doc), FormatJSON)
	require.NoError(t, err)
	recs := set.Records()
	require.Len(t, recs, 2)
	assert.NotSame(t, recs[0], recs[1])
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "decls.json")
	require.NoError(t, os.WriteFile(path, []byte(shapesJSON), 0o644))

	set, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, set.Records(), 4)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestEncode_PreservesLinks(t *testing.T) {
	set, err := Decode([]byte(shapesJSON), FormatJSON)
	require.NoError(t, err)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, set, format))

		again, err := Decode(buf.Bytes(), format)
		require.NoError(t, err, "format %s", format)
		assert.Equal(t, set.Digest(), again.Digest(), "format %s", format)

		recs := again.Records()
		assert.Same(t, recs[0], recs[2].Parents[0].Type.Ref.Record)
		assert.Nil(t, recs[3].Scope)
	}
}

func TestEncode_AssignsIDs(t *testing.T) {
	base := &Record{Name: "Base", Variant: VariantClass, Scope: &Scope{}}
	derived := &Record{
		Name:    "Derived",
		Variant: VariantClass,
		Scope:   &Scope{},
		Parents: []ParentEdge{{Type: TypeRef{Name: "Base", Ref: ResolvedRecord(base)}, Access: Public}},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, NewSet(base, derived), FormatJSON))
	again, err := Decode(buf.Bytes(), FormatJSON)
	require.NoError(t, err)
	recs := again.Records()
	assert.Same(t, recs[0], recs[1].Parents[0].Type.Ref.Record)
}

func TestDigest_Changes(t *testing.T) {
	a := NewSet(&Record{Name: "A", Variant: VariantClass, Scope: &Scope{}})
	b := NewSet(&Record{Name: "A", Variant: VariantClass, Scope: &Scope{}})
	c := NewSet(&Record{Name: "A", Variant: VariantStruct, Scope: &Scope{}})

	assert.Equal(t, a.Digest(), b.Digest())
	assert.NotEqual(t, a.Digest(), c.Digest())
	assert.Len(t, a.Digest(), 64)
}

func TestIsStringLike(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"std::string", true},
		{"string", true},
		{"::std::__1::string", true},
		{"std::__cxx11::basic_string<char>", true},
		{"const std::string&", true},
		{"std::string_view", true},
		{"std::vector<int>", false},
		{"Shape", false},
		{"int", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStringLike(tt.name))
		})
	}
}

func TestParseAccess(t *testing.T) {
	a, err := ParseAccess(" Protected ")
	require.NoError(t, err)
	assert.Equal(t, Protected, a)

	_, err = ParseAccess("friend")
	assert.Error(t, err)
}

func TestRefReason(t *testing.T) {
	assert.Empty(t, ResolvedRecord(&Record{Name: "A"}).Reason())
	assert.Equal(t, "reference was never linked", Ref{}.Reason())
	assert.Equal(t, "unbuilt", Unbuilt.String())
	assert.Equal(t, "absent", Absent.String())
}
