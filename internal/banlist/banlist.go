// Package banlist parses ban-list files and bulk-loads them into a tree.
//
// A ban-list file holds one ban per line as whitespace-separated fields:
//
//	<user> <server-id> <date>
//
// The server id must fit in 16 bits and the date in 32 bits. Fields after
// the third are ignored.
package banlist

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sentinel parse errors.
var (
	ErrBlankLine     = errors.New("blank line")
	ErrMissingField  = errors.New("missing field")
	ErrInvalidServer = errors.New("invalid server id")
	ErrInvalidDate   = errors.New("invalid ban date")
)

// maxLineSize bounds a single line; user keys are short, this is generous.
const maxLineSize = 1 << 20

// Record is a single parsed ban.
type Record struct {
	Key    string
	Server uint16
	Date   uint32
}

// LineError reports a malformed line and its 1-based line number.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseLine parses one "<user> <server-id> <date>" line.
func ParseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Record{}, ErrBlankLine
	}

	if len(fields) < 3 {
		return Record{}, fmt.Errorf("%w: expected <user> <server> <date>, got %d field(s)", ErrMissingField, len(fields))
	}

	server, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return Record{}, fmt.Errorf("%w %q: %w", ErrInvalidServer, fields[1], err)
	}

	date, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return Record{}, fmt.Errorf("%w %q: %w", ErrInvalidDate, fields[2], err)
	}

	return Record{Key: fields[0], Server: uint16(server), Date: uint32(date)}, nil
}

// Inserter receives parsed bans. *scapegoat.Tree satisfies it.
type Inserter interface {
	Insert(key string, server uint16, date uint32) bool
}

// Stats summarizes a load.
type Stats struct {
	Lines   int // lines read, including blank and skipped ones
	Created int // bans that created a new key
	Merged  int // bans merged into an existing key
	Skipped int // malformed lines skipped in lenient mode
	Elapsed time.Duration
}

// Loader streams ban lines into an Inserter.
type Loader struct {
	// Strict makes Load stop at the first malformed line. Otherwise
	// malformed lines are logged and skipped.
	Strict bool
	Logger *slog.Logger
}

// Load inserts every ban read from r into dst, in input order.
// Cancellation of ctx is checked between lines.
func (l *Loader) Load(ctx context.Context, r io.Reader, dst Inserter) (stats Stats, err error) {
	start := time.Now()
	defer func() { stats.Elapsed = time.Since(start) }()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("load interrupted after %d lines: %w", stats.Lines, err)
		}

		stats.Lines++

		rec, err := ParseLine(scanner.Text())
		if errors.Is(err, ErrBlankLine) {
			continue
		}

		if err != nil {
			lineErr := &LineError{Line: stats.Lines, Err: err}
			if l.Strict {
				return stats, lineErr
			}

			stats.Skipped++
			l.logger().Warn("skipping malformed ban line", "line", stats.Lines, "error", err)

			continue
		}

		if dst.Insert(rec.Key, rec.Server, rec.Date) {
			stats.Created++
		} else {
			stats.Merged++
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read ban list: %w", err)
	}

	return stats, nil
}

// LoadFile opens path and loads it with Load.
func (l *Loader) LoadFile(ctx context.Context, path string, dst Inserter) (Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("open ban list: %w", err)
	}

	defer file.Close()

	stats, err := l.Load(ctx, file, dst)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", path, err)
	}

	l.logger().Debug("ban list loaded",
		"path", path,
		"lines", stats.Lines,
		"created", stats.Created,
		"merged", stats.Merged,
		"skipped", stats.Skipped,
		"elapsed", stats.Elapsed,
	)

	return stats, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
