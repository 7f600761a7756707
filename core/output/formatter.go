// Package output provides output formatting for estimates.
// This package produces human and machine-readable outputs.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"solar-estimate/core/estimate"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable terminal table
	FormatCLI Format = "cli"

	// FormatJSON is the machine-readable estimate record
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"

	// FormatXLSX is an Excel workbook
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name, case-insensitive. "md" and "excel" are
// accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cli", "table", "":
		return FormatCLI, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Binary reports whether the format is not plain text
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// ContentType is the MIME type used when serving the format over HTTP
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension is the file extension for the format, with the dot
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatMarkdown:
		return ".md"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".txt"
	}
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given document
	Render(w io.Writer, doc *Document) error
}

// Company is the issuer block printed on the estimate
type Company struct {
	Name       string `json:"name"`
	PostalCode string `json:"postal_code,omitempty"`
	Address    string `json:"address,omitempty"`
	Tel        string `json:"tel,omitempty"`
	Fax        string `json:"fax,omitempty"`
}

// Document is everything a renderer needs
type Document struct {
	Estimate *estimate.Estimate
	Company  Company

	// ShowReasoning adds the reasoning list to human-readable formats
	ShowReasoning bool
}

// NewDocument wraps est for rendering
func NewDocument(est *estimate.Estimate, company Company) *Document {
	return &Document{Estimate: est, Company: company, ShowReasoning: true}
}

// Registry holds formatters by format
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry returns a registry with every built-in formatter
func NewRegistry(color bool) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(&CLIFormatter{Color: color})
	r.Register(&JSONFormatter{Indent: true})
	r.Register(&MarkdownFormatter{})
	r.Register(&XLSXFormatter{})
	return r
}

// Register adds or replaces a formatter
func (r *Registry) Register(f Formatter) {
	r.formatters[f.Format()] = f
}

// Get returns the formatter for format
func (r *Registry) Get(format Format) (Formatter, bool) {
	f, ok := r.formatters[format]
	return f, ok
}

// Formats lists the registered formats, sorted
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Render looks up format and renders doc with it
func (r *Registry) Render(w io.Writer, format Format, doc *Document) error {
	f, ok := r.Get(format)
	if !ok {
		return fmt.Errorf("no formatter for %q", format)
	}
	if doc == nil || doc.Estimate == nil {
		return fmt.Errorf("nothing to render")
	}
	return f.Render(w, doc)
}
