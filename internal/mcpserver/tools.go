package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/search-rug/cpptool-lib-metrics/internal/output"
	"github.com/search-rug/cpptool-lib-metrics/internal/service/analysis"
	"github.com/search-rug/cpptool-lib-metrics/pkg/analyzer/qmood"
)

// ViewInput holds the presentation options shared by all tools.
type ViewInput struct {
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
	Top    int    `json:"top,omitempty" jsonschema:"Show only the first N classes after sorting. Default all."`
	Sort   string `json:"sort,omitempty" jsonschema:"Sort classes by a quality attribute (reusability, flexibility, understandability, functionality, extendibility, effectiveness), highest first, or by name. Default name."`
}

// AnalyzeInput is the input of analyze_qmood.
type AnalyzeInput struct {
	ViewInput
	Paths []string `json:"paths,omitempty" jsonschema:"Files or directories of C++ sources to analyze. Defaults to current directory if empty."`
}

// DumpInput is the input of analyze_qmood_dump.
type DumpInput struct {
	ViewInput
	Path string `json:"path" jsonschema:"Path to a JSON or YAML declaration dump."`
}

// Helper functions

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(input ViewInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(view *output.AnalysisView, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(view.RenderData(), "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		var buf bytes.Buffer
		if err := view.RenderMarkdown(&buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return output.MarshalTOON(view.RenderData())
	}
}

func toolResult(a *qmood.Analysis, input ViewInput) (*mcp.CallToolResult, any, error) {
	if input.Sort != "" {
		a.SortBy(input.Sort)
	}
	view := output.NewAnalysisView(a, output.AnalysisOptions{Top: input.Top, Diagnostics: true})
	text, err := formatOutput(view, getFormat(input))
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func validSort(key string) bool {
	if key == "" || key == "name" {
		return true
	}
	_, ok := qmood.ParseAttribute(key)
	return ok
}

// Tool handlers

func handleAnalyzeQMOOD(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	if !validSort(input.Sort) {
		return toolError("unknown sort key " + input.Sort)
	}

	result, err := analysis.New().AnalyzePaths(ctx, getPaths(input))
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(result.Analysis, input.ViewInput)
}

func handleAnalyzeQMOODDump(ctx context.Context, req *mcp.CallToolRequest, input DumpInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required")
	}
	if !validSort(input.Sort) {
		return toolError("unknown sort key " + input.Sort)
	}

	a, err := analysis.New().AnalyzeDump(ctx, input.Path)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(a, input.ViewInput)
}
