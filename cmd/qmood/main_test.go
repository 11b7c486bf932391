package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/search-rug/cpptool-lib-metrics/pkg/analyzer/qmood"
	"github.com/search-rug/cpptool-lib-metrics/pkg/config"
	"github.com/search-rug/cpptool-lib-metrics/pkg/decl"
)

const shapesDump = `{
  "records": [
    {"id": "Shape", "name": "Shape", "variant": "class", "scope": {
      "methods": [{"name": "area", "access": "public", "virtual": true}]
    }},
    {"id": "Circle", "name": "Circle", "variant": "class",
     "parents": [{"type": {"name": "Shape", "ref": "Shape"}, "access": "public"}],
     "scope": {"methods": [{"name": "area", "access": "public", "virtual": true}]}}
  ]
}`

const shapesHeader = `class Shape {
public:
    virtual double area() const = 0;
};

class Square : public Shape {
public:
    double area() const override;
private:
    double side_;
};
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runApp runs the CLI and returns what it wrote to stdout and stderr.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("QMOOD_CONFIG", "")
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"qmood"}, args...))
	return out.String(), errOut.String(), err
}

func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{"no args defaults to current dir", []string{}, []string{"."}},
		{"single path", []string{"/foo/bar"}, []string{"/foo/bar"}},
		{"multiple paths", []string{"/foo", "/bar"}, []string{"/foo", "/bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			app := &cli.App{
				Action: func(c *cli.Context) error {
					got = getPaths(c)
					return nil
				},
			}
			require.NoError(t, app.Run(append([]string{"test"}, tt.args...)))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidateSort(t *testing.T) {
	for _, key := range []string{"name", "reusability", "effectiveness"} {
		assert.NoError(t, validateSort(key), key)
	}
	for _, key := range []string{"", "dsc", "Name"} {
		assert.Error(t, validateSort(key), key)
	}
}

func TestNewApp(t *testing.T) {
	app := newApp()
	assert.Equal(t, "qmood", app.Name)

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"analyze", "decls", "dump", "config", "init", "mcp"}, names)

	var flags []string
	for _, f := range app.Flags {
		flags = append(flags, f.Names()[0])
	}
	assert.Equal(t, []string{"config", "format", "output", "verbose"}, flags)
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, source, err := loadConfig("")
	require.NoError(t, err)
	assert.Empty(t, source)
	assert.Equal(t, config.DefaultConfig(), cfg)

	writeFile(t, ".", "qmood.toml", "[output]\nsort = \"reusability\"\n")
	cfg, source, err = loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "qmood.toml", source)
	assert.Equal(t, "reusability", cfg.Output.Sort)

	_, _, err = loadConfig("missing.toml")
	assert.Error(t, err)
}

func TestThresholds(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Thresholds.Functionality = 1.5

	levels := thresholds(cfg)
	assert.Len(t, levels, len(qmood.Attributes()))
	assert.Equal(t, 1.5, levels[qmood.Functionality])
	assert.Equal(t, -10.0, levels[qmood.Understandability])
}

func TestDeclsCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dump := writeFile(t, dir, "decls.json", shapesDump)
	out := filepath.Join(dir, "report.json")

	_, _, err := runApp(t, "-f", "json", "-o", out, "decls", "--no-progress", "--sort", "name", dump)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var report struct {
		NOH     int `json:"noh"`
		Classes []struct {
			Name string `json:"name"`
		} `json:"classes"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 1, report.NOH)
	require.Len(t, report.Classes, 2)
	assert.Equal(t, "Circle", report.Classes[0].Name)
	assert.Equal(t, "Shape", report.Classes[1].Name)
}

func TestDeclsCommandErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := runApp(t, "decls")
	assert.Error(t, err)

	_, _, err = runApp(t, "decls", "--sort", "size", "decls.json")
	assert.Error(t, err)

	_, _, err = runApp(t, "decls", "--no-progress", "missing.json")
	assert.Error(t, err)
}

func TestDumpCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	src := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(src, 0o755))
	writeFile(t, src, "shapes.h", shapesHeader)
	out := filepath.Join(dir, "decls.yaml")

	_, _, err := runApp(t, "-o", out, "dump", src)
	require.NoError(t, err)

	set, err := decl.Load(out)
	require.NoError(t, err)
	var names []string
	for _, r := range set.Records() {
		names = append(names, r.Name)
	}
	assert.ElementsMatch(t, []string{"Shape", "Square"}, names)
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, ".qmood", "qmood.toml")

	out, _, err := runApp(t, "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# qmood configuration")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	def := config.DefaultConfig()
	assert.Equal(t, def.Analysis, cfg.Analysis)
	assert.Equal(t, def.Thresholds, cfg.Thresholds)
	assert.Equal(t, def.Output, cfg.Output)
	assert.Equal(t, def.Exclude.Patterns, cfg.Exclude.Patterns)
	assert.Equal(t, def.Exclude.Dirs, cfg.Exclude.Dirs)

	_, _, err = runApp(t, "init", "-o", path)
	assert.Error(t, err, "existing file without --force")

	_, _, err = runApp(t, "init", "-o", path, "--force")
	assert.NoError(t, err)
}

func TestConfigCommands(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := runApp(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Default configuration")
	assert.Contains(t, out, "[output]")

	out, _, err = runApp(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Default configuration is valid.")

	writeFile(t, ".", "qmood.toml", "[output]\nformat = \"html\"\n")
	out, _, err = runApp(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Configuration from: qmood.toml")

	out, _, err = runApp(t, "config", "validate")
	assert.Error(t, err)
	assert.Contains(t, out, "Configuration validation failed:")
	assert.Contains(t, out, `output.format "html"`)
}

func TestAnalyzeCommand_NoSources(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "README.md", "no C++ here")

	out, errOut, err := runApp(t, "analyze", "--no-progress", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "No C++ source files found")
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "shapes.h", shapesHeader)

	out, errOut, err := runApp(t, "-f", "markdown", "analyze", "--no-progress", "--sort", "name", dir)
	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.Contains(t, out, "# QMOOD Analysis")
	assert.Contains(t, out, "| Shape |")
	assert.Contains(t, out, "| Square |")
}

func TestMCPManifest(t *testing.T) {
	out, _, err := runApp(t, "mcp", "--manifest")
	require.NoError(t, err)

	var manifest map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &manifest))
	assert.Equal(t, "io.github.search-rug/qmood", manifest["name"])
}
