// Package output provides formatted output rendering for generation reports
// and identifier listings. It supports text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bimmerbailey/clpack/internal/alias"
	"github.com/bimmerbailey/clpack/internal/generator"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w        io.Writer
	format   Format
	colorize bool
}

// New creates a new output Writer. Color is decided from mode and whether w
// is a terminal.
func New(w io.Writer, format Format, mode ColorMode) *Writer {
	return &Writer{w: w, format: format, colorize: shouldColorize(mode, w)}
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteResults outputs one line (or row) per generated kernel.
func (wr *Writer) WriteResults(results []*generator.Result) error {
	switch wr.format {
	case FormatJSON:
		if results == nil {
			results = []*generator.Result{}
		}
		return wr.WriteJSON(results)
	case FormatTable:
		return wr.writeResultTable(results)
	default:
		for _, r := range results {
			if err := wr.WriteResult(r); err != nil {
				return err
			}
		}
		return nil
	}
}

// WriteResult outputs a single kernel result as a text line. JSON output
// encodes the result on its own.
func (wr *Writer) WriteResult(r *generator.Result) error {
	if wr.format == FormatJSON {
		enc := json.NewEncoder(wr.w)
		return enc.Encode(r)
	}

	status := StatusGenerated
	target := r.Definition
	if !r.Written {
		status = StatusChecked
		target = r.Symbol
	}

	_, err := fmt.Fprintf(wr.w, "%s %s -> %s (%d -> %d bytes, %.0f%%, %d chunks, %d passes)\n",
		wr.status(status), r.Kernel, target,
		r.SourceBytes, r.MinifiedBytes, r.Ratio()*100, r.Chunks, r.Passes)
	return err
}

// WriteFailure reports a kernel that could not be generated.
func (wr *Writer) WriteFailure(kernel string, failure error) error {
	if wr.format == FormatJSON {
		return json.NewEncoder(wr.w).Encode(map[string]string{
			"kernel": kernel,
			"error":  failure.Error(),
		})
	}
	_, err := fmt.Fprintf(wr.w, "%s %s: %v\n", wr.status(StatusFailed), kernel, failure)
	return err
}

func (wr *Writer) writeResultTable(results []*generator.Result) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KERNEL\tSYMBOL\tSOURCE\tMINIFIED\tRATIO\tCHUNKS\tPASSES\tALIASES")
	fmt.Fprintln(tw, "------\t------\t------\t--------\t-----\t------\t------\t-------")

	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.0f%%\t%d\t%d\t%d\n",
			r.Kernel, r.Symbol, r.SourceBytes, r.MinifiedBytes, r.Ratio()*100, r.Chunks, r.Passes, r.Aliases)
	}

	return tw.Flush()
}

// WriteIdents outputs identifier counts.
func (wr *Writer) WriteIdents(idents []alias.Ident) error {
	switch wr.format {
	case FormatJSON:
		if idents == nil {
			idents = []alias.Ident{}
		}
		return wr.WriteJSON(idents)
	case FormatTable:
		tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "IDENTIFIER\tCOUNT\tSAVED")
		fmt.Fprintln(tw, "----------\t-----\t-----")
		for _, id := range idents {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", id.Name, id.Count, savedBytes(id))
		}
		return tw.Flush()
	default:
		for _, id := range idents {
			fmt.Fprintf(wr.w, "%6d  %s\n", id.Count, id.Name)
		}
		return nil
	}
}

// savedBytes estimates what renaming id to a two-character alias saves.
func savedBytes(id alias.Ident) int {
	if len(id.Name) <= 2 {
		return 0
	}
	return (len(id.Name) - 2) * id.Count
}
