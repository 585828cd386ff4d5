// Package query answers ban lookups read one key per line.
package query

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/INLOpen/scapegoat"
)

// ErrUnknownFormat is returned by NewFormatter for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Output format names.
const (
	FormatText  = "text"
	FormatTable = "table"
)

// Searcher looks up the aggregate ban record for a key. *scapegoat.Tree satisfies it.
type Searcher interface {
	Lookup(key string) (scapegoat.BanRecord, bool)
}

// Formatter renders lookup answers.
type Formatter interface {
	// Found writes the answer for a key with a record.
	Found(w io.Writer, rec scapegoat.BanRecord) error
	// NotFound writes the answer for a key without a record.
	NotFound(w io.Writer, key string) error
	// Flush writes anything buffered. Called once after the last query.
	Flush(w io.Writer) error
	// Streaming reports whether answers are written as they come.
	Streaming() bool
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case FormatText, "":
		return TextFormatter{}, nil
	case FormatTable:
		return NewTableFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// TextFormatter writes one sentence per answer.
type TextFormatter struct{}

// Found implements Formatter.
func (TextFormatter) Found(w io.Writer, rec scapegoat.BanRecord) error {
	_, err := fmt.Fprintf(w, "%s was banned from %d servers. most recently on %d\n", rec.Key, rec.BanCount, rec.LastBan)

	return err
}

// NotFound implements Formatter.
func (TextFormatter) NotFound(w io.Writer, key string) error {
	_, err := fmt.Fprintf(w, "%s is not currently banned from any servers.\n", key)

	return err
}

// Flush implements Formatter.
func (TextFormatter) Flush(io.Writer) error { return nil }

// Streaming implements Formatter.
func (TextFormatter) Streaming() bool { return true }

// TableFormatter collects answers and renders them as a single table.
type TableFormatter struct {
	tbl table.Writer
}

// NewTableFormatter creates an empty table formatter.
func NewTableFormatter() *TableFormatter {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"User", "Banned", "Servers", "Most recent"})

	return &TableFormatter{tbl: tbl}
}

// Found implements Formatter.
func (f *TableFormatter) Found(_ io.Writer, rec scapegoat.BanRecord) error {
	f.tbl.AppendRow(table.Row{rec.Key, "yes", rec.BanCount, rec.LastBan})

	return nil
}

// NotFound implements Formatter.
func (f *TableFormatter) NotFound(_ io.Writer, key string) error {
	f.tbl.AppendRow(table.Row{key, "no", 0, "-"})

	return nil
}

// Flush implements Formatter.
func (f *TableFormatter) Flush(w io.Writer) error {
	_, err := fmt.Fprintln(w, f.tbl.Render())

	return err
}

// Streaming implements Formatter.
func (*TableFormatter) Streaming() bool { return false }

// Stats summarizes a query run.
type Stats struct {
	Queries int
	Hits    int
	Misses  int
}

// Run reads one key per line from in, looks each up in s and writes the
// answers to out through f. Keys are trimmed and blank lines are skipped.
// Streaming formatters have their output flushed after every answer so the
// loop can be driven interactively.
func Run(ctx context.Context, in io.Reader, out io.Writer, s Searcher, f Formatter) (Stats, error) {
	var stats Stats

	buffered := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("query loop interrupted: %w", err)
		}

		key := strings.TrimSpace(scanner.Text())
		if key == "" {
			continue
		}

		stats.Queries++

		var err error

		if rec, ok := s.Lookup(key); ok {
			stats.Hits++
			err = f.Found(buffered, rec)
		} else {
			stats.Misses++
			err = f.NotFound(buffered, key)
		}

		if err != nil {
			return stats, fmt.Errorf("write answer for %q: %w", key, err)
		}

		if f.Streaming() {
			if err := buffered.Flush(); err != nil {
				return stats, fmt.Errorf("flush answer: %w", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read queries: %w", err)
	}

	if err := f.Flush(buffered); err != nil {
		return stats, fmt.Errorf("flush formatter: %w", err)
	}

	if err := buffered.Flush(); err != nil {
		return stats, fmt.Errorf("flush output: %w", err)
	}

	return stats, nil
}
