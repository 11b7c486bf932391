package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/search-rug/cpptool-lib-metrics/pkg/analyzer"
	"github.com/search-rug/cpptool-lib-metrics/pkg/config"
)

const shapesHeader = `
class Shape {
public:
    virtual double area() const = 0;
    int id() const;
private:
    int id_;
};

class Circle : public Shape {
public:
    double area() const override;
private:
    double radius_;
};
`

const shapesDump = `{
  "records": [
    {"id": "Shape", "name": "Shape", "variant": "class", "scope": {
      "methods": [{"name": "area", "access": "public", "virtual": true}, {"name": "id", "access": "public"}],
      "fields": [{"name": "id_", "access": "private", "type": {"name": "int", "builtin": true}}]
    }},
    {"id": "Circle", "name": "Circle", "variant": "class",
     "parents": [{"type": {"name": "Shape", "ref": "Shape"}, "access": "public"}],
     "scope": {"methods": [{"name": "area", "access": "public", "virtual": true}]}}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	svc := New()
	if svc.config == nil {
		t.Error("config should not be nil")
	}
	if svc.logger == nil {
		t.Error("logger should not be nil")
	}

	cfg := config.DefaultConfig()
	if got := New(WithConfig(cfg)).Config(); got != cfg {
		t.Error("WithConfig did not set config")
	}
	if New(WithConfig(nil), WithLogger(nil)).config == nil {
		t.Error("nil options should keep the defaults")
	}
}

func TestAnalyzePaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shapes.h", shapesHeader)
	writeFile(t, dir, "README.md", "not C++")

	cfg := config.DefaultConfig()
	cfg.Output.Sort = "reusability"
	result, err := New(WithConfig(cfg)).AnalyzePaths(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Files)
	assert.Empty(t, result.FileErrors)
	a := result.Analysis
	require.Len(t, a.Classes, 2)
	assert.Equal(t, 2, a.DSC)
	assert.Equal(t, 1, a.NOH)

	circle := a.Class("Circle")
	require.NotNil(t, circle)
	assert.Equal(t, []string{"Shape"}, circle.Parents)
	assert.Equal(t, []string{"id"}, circle.Inherited)
	assert.GreaterOrEqual(t, a.Classes[0].Quality.Reusability, a.Classes[1].Quality.Reusability)
}

func TestAnalyzePaths_NoSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "nothing")

	_, err := New(WithConfig(config.DefaultConfig())).AnalyzePaths(context.Background(), []string{dir})
	assert.True(t, errors.Is(err, ErrNoSources))
}

func TestAnalyzePaths_MissingPath(t *testing.T) {
	_, err := New(WithConfig(config.DefaultConfig())).AnalyzePaths(context.Background(), []string{"/nonexistent/src"})
	assert.Error(t, err)
}

func TestExtract_TicksTracker(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.h", "class A {};\n"),
		writeFile(t, dir, "b.h", "class B : public A {};\n"),
	}

	var calls int
	tracker := analyzer.NewTracker(func(_, _ int, _ string) { calls++ })
	ctx := analyzer.WithTracker(context.Background(), tracker)

	cfg := config.DefaultConfig()
	cfg.Analysis.Workers = 1
	result, err := New(WithConfig(cfg)).Extract(ctx, files)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, tracker.Total())
}

func TestAnalyzeDump(t *testing.T) {
	path := writeFile(t, t.TempDir(), "decls.json", shapesDump)

	a, err := New(WithConfig(config.DefaultConfig())).AnalyzeDump(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, a.Classes, 2)
	assert.Equal(t, "Circle", a.Classes[0].Name, "sorted by name")
	assert.Equal(t, []string{"id"}, a.Classes[0].Inherited)
}

func TestAnalyzeDump_Invalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "decls.json", `{"records": [{"name": ""}]}`)

	_, err := New(WithConfig(config.DefaultConfig())).AnalyzeDump(context.Background(), path)
	assert.Error(t, err)
}
