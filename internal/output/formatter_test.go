package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatTOON},
		{"TOON", FormatTOON},
		{"", FormatText},
		{"invalid", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseFormat(tt.input)
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter(FormatMarkdown, "", true)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}
	defer f.Close()

	if f.format != FormatMarkdown {
		t.Errorf("format = %q, want %q", f.format, FormatMarkdown)
	}
	if !f.colored {
		t.Error("colored = false, want true")
	}
	if f.file != nil {
		t.Error("file should be nil for stdout")
	}
	if f.writer != os.Stdout {
		t.Error("writer should be stdout")
	}
}

func TestNewFormatterWithFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "output.json")

	f, err := NewFormatter(FormatJSON, outputPath, true)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}
	if f.colored {
		t.Error("colored should be false when writing to file")
	}
	if err := f.Output(map[string]int{"dsc": 3}); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"dsc": 3`) {
		t.Errorf("file content = %q", data)
	}
}

func TestNewFormatterInvalidPath(t *testing.T) {
	_, err := NewFormatter(FormatText, "/nonexistent/directory/file.txt", false)
	if err == nil {
		t.Error("NewFormatter() should error for invalid path")
	}
}

func TestTableRenderText(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
		want  []string
	}{
		{
			name: "simple_table",
			table: NewTable(
				"Classes",
				[]string{"Class", "NOM"},
				[][]string{
					{"Shape", "4"},
					{"Circle", "2"},
				},
				nil,
				nil,
			),
			want: []string{"Classes", "CLASS", "NOM", "Shape", "Circle", "4"},
		},
		{
			name: "table_with_footer",
			table: NewTable(
				"Summary",
				[]string{"Metric", "Value"},
				[][]string{{"DSC", "3"}},
				[]string{"NOH", "1"},
				nil,
			),
			want: []string{"Summary", "METRIC", "DSC", "NOH"},
		},
		{
			name:  "empty_table",
			table: NewTable("Empty", []string{"Col1", "Col2"}, [][]string{}, nil, nil),
			want:  []string{"Empty", "COL 1", "COL 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.table.RenderText(&buf, false); err != nil {
				t.Fatalf("RenderText() error: %v", err)
			}

			output := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("RenderText() missing %q in output:\n%s", want, output)
				}
			}
		})
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable("Results", []string{"Name", "Value"}, [][]string{{"foo", "bar"}}, []string{"Total", "1"}, nil)

	var buf bytes.Buffer
	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"## Results", "| Name | Value |", "| --- | --- |", "| foo | bar |", "| Total | 1 |"} {
		if !strings.Contains(output, want) {
			t.Errorf("RenderMarkdown() missing %q in output:\n%s", want, output)
		}
	}
}

func TestTableRenderData(t *testing.T) {
	t.Run("with_data_field", func(t *testing.T) {
		data := map[string]any{"custom": "data"}
		table := NewTable("Title", []string{"H1"}, [][]string{{"R1"}}, nil, data)

		resultMap, ok := table.RenderData().(map[string]any)
		if !ok || resultMap["custom"] != "data" {
			t.Error("RenderData() should return the Data field when set")
		}
	})

	t.Run("without_data_field", func(t *testing.T) {
		table := NewTable("Test", []string{"Name", "Value"}, [][]string{{"foo", "100"}, {"bar"}}, nil, nil)

		rows, ok := table.RenderData().([]map[string]string)
		if !ok {
			t.Fatalf("RenderData() should return []map[string]string, got %T", table.RenderData())
		}
		if len(rows) != 2 {
			t.Fatalf("RenderData() returned %d rows, want 2", len(rows))
		}
		if rows[0]["Name"] != "foo" || rows[0]["Value"] != "100" {
			t.Errorf("row 0 = %v", rows[0])
		}
		if len(rows[1]) != 1 {
			t.Errorf("short row should only map present columns, got %v", rows[1])
		}
	})
}

func TestSectionRender(t *testing.T) {
	section := &Section{
		Title:   "Parent",
		Content: "Parent content",
		Sections: []Section{
			{Title: "Child", Content: "Child content"},
		},
	}

	var text bytes.Buffer
	if err := section.RenderText(&text, false); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Parent", "===", "Parent content", "Child", "---", "Child content"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("RenderText() missing %q in output:\n%s", want, text.String())
		}
	}

	var md bytes.Buffer
	if err := section.RenderMarkdown(&md); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"## Parent", "### Child", "Child content"} {
		if !strings.Contains(md.String(), want) {
			t.Errorf("RenderMarkdown() missing %q in output:\n%s", want, md.String())
		}
	}
}

func TestReportRender(t *testing.T) {
	report := &Report{
		Title: "Full Report",
		Sections: []Renderable{
			&Section{Title: "Overview", Content: "Summary here"},
			NewTable("Data", []string{"A"}, [][]string{{"1"}}, nil, nil),
		},
	}

	var text bytes.Buffer
	if err := report.RenderText(&text, false); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Full Report", "Overview", "Summary here", "Data"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("RenderText() missing %q in output:\n%s", want, text.String())
		}
	}

	var md bytes.Buffer
	if err := report.RenderMarkdown(&md); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(md.String(), "# Full Report") {
		t.Errorf("RenderMarkdown() = %q", md.String())
	}

	data, ok := report.RenderData().(map[string]any)
	if !ok {
		t.Fatalf("RenderData() returned %T", report.RenderData())
	}
	if data["title"] != "Full Report" {
		t.Errorf("title = %v", data["title"])
	}
	if parts := data["sections"].([]any); len(parts) != 2 {
		t.Errorf("sections = %d, want 2", len(parts))
	}
}

func TestFormatterOutput(t *testing.T) {
	table := NewTable("T", []string{"Name"}, [][]string{{"Shape"}}, nil, []map[string]string{{"name": "Shape"}})

	t.Run("json_renderable", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewWriterFormatter(FormatJSON, &buf, false).Output(table); err != nil {
			t.Fatal(err)
		}
		var got []map[string]string
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
		}
		if got[0]["name"] != "Shape" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("toon_renderable", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewWriterFormatter(FormatTOON, &buf, false).Output(table); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "Shape") {
			t.Errorf("TOON output missing data:\n%s", buf.String())
		}
	})

	t.Run("markdown_raw", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewWriterFormatter(FormatMarkdown, &buf, false).Output(map[string]int{"noh": 1}); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(buf.String(), "```json\n") || !strings.HasSuffix(buf.String(), "```\n") {
			t.Errorf("markdown raw output not fenced:\n%s", buf.String())
		}
	})

	t.Run("text_raw_falls_back_to_json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewWriterFormatter(FormatText, &buf, false).Output(map[string]int{"noh": 1}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"noh": 1`) {
			t.Errorf("got %q", buf.String())
		}
	})
}

func TestMessageHelpers(t *testing.T) {
	var buf bytes.Buffer
	f := NewWriterFormatter(FormatText, &buf, false)

	f.Success("done %d", 1)
	f.Warning("careful")
	f.Error("broken")

	output := buf.String()
	for _, want := range []string{"done 1\n", "WARNING: careful\n", "ERROR: broken\n"} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in %q", want, output)
		}
	}
}
