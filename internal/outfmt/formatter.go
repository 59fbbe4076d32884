package outfmt

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Formatter renders command results: tables in text mode, the raw document
// in JSON or YAML mode or when a jq query is set.
type Formatter struct {
	ctx    context.Context
	out    io.Writer
	errOut io.Writer
	table  *tablewriter.Table
}

// NewFormatter creates a new Formatter
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{ctx: ctx, out: out, errOut: errOut}
}

// Structured reports whether Output should be used instead of a table.
func (f *Formatter) Structured() bool {
	return ModeFromContext(f.ctx) != Text || GetQuery(f.ctx) != ""
}

// Output writes data in the context's format after applying the context's
// jq query. Text mode with a query prints the result as JSON.
func (f *Formatter) Output(data any) error {
	filtered, err := ApplyQuery(data, GetQuery(f.ctx))
	if err != nil {
		return err
	}
	if ModeFromContext(f.ctx) == YAML {
		return WriteYAML(f.out, filtered)
	}
	return WriteJSON(f.out, filtered, IsCompact(f.ctx))
}

// StartTable begins a table with the given headers. It returns false when
// the output is structured and no table should be drawn.
func (f *Formatter) StartTable(headers ...string) bool {
	if f.Structured() {
		return false
	}
	f.table = tablewriter.NewWriter(f.out)
	f.table.Header(headers)
	return true
}

// Row appends a row to the current table.
func (f *Formatter) Row(columns ...string) {
	if f.table == nil {
		return
	}
	_ = f.table.Append(columns)
}

// EndTable renders the table.
func (f *Formatter) EndTable() error {
	if f.table == nil {
		return nil
	}
	err := f.table.Render()
	f.table = nil
	return err
}

// Properties renders label/value pairs as a two-column table.
func (f *Formatter) Properties(pairs ...[2]string) error {
	if !f.StartTable("Property", "Value") {
		return nil
	}
	for _, p := range pairs {
		f.Row(p[0], p[1])
	}
	return f.EndTable()
}

// Message writes a line to stdout in text mode.
func (f *Formatter) Message(format string, args ...any) {
	if f.Structured() {
		return
	}
	_, _ = fmt.Fprintf(f.out, format+"\n", args...)
}

// Empty writes a message to stderr indicating no results.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}
