// internal/dump/processor.go

// Package dump implements the single-pass stream transducer that rewrites
// COPY data blocks of a plain-SQL dump through a compiled rule catalog.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/solatis/dumpscrub/internal/rules"
)

/*
 * Dump stream transducer.
 *
 * A two-state machine over the input line sequence:
 *
 *   SearchingForBlock: lines are tested against the COPY header grammar.
 *   On a match the qualified name becomes the current table, the optional
 *   column list is captured, the header is emitted unchanged, and the
 *   state flips to InBlock. Everything else passes through verbatim.
 *
 *   InBlock: a terminator line (\.) is emitted unchanged and resets the
 *   state. Any other line is a data row: split on tabs, cells rewritten
 *   through the catalog, rejoined, emitted.
 *
 * Dual original/working arrays: a rule may consult other columns'
 * pre-transformation values while the row is rewritten left to right. The
 * row context is built over a separate copy of the original cells so an
 * earlier rewrite can never leak into a later column's conditional logic.
 *
 * Output is 1:1 with input: no line is dropped, duplicated, or reordered.
 * Memory is bounded by one line plus one row's cell list; the catalog is
 * the only long-lived state and is never written.
 */

type parserState int

const (
	searchingForBlock parserState = iota
	inBlock
)

// Initial scanner buffer 64KiB, growable to 64MiB. COPY rows with bytea or
// large text cells routinely exceed bufio's default token limit.
const (
	scannerInitialBuffer = 64 * 1024
	scannerMaxBuffer     = 64 * 1024 * 1024
)

const fieldDelimiter = "\t"

// Stats counts what one run did, for the completion summary.
type Stats struct {
	LinesRead       int
	RowsTransformed int
	CellsRewritten  int
}

// Processor drives a dump through the rule catalog. Safe to reuse across
// runs; all per-run state lives on the stack of Process.
type Processor struct {
	catalog rules.Catalog
}

// New creates a processor over a compiled catalog. The catalog is
// referenced, not copied, and must not be mutated afterwards.
func New(catalog rules.Catalog) *Processor {
	return &Processor{catalog: catalog}
}

// Process streams the dump from r to w, rewriting data rows of tables that
// have catalog entries. I/O errors are fatal and returned wrapped; rule
// evaluation never fails, so a run either completes or stops at the point
// of an I/O failure.
func (p *Processor) Process(r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, scannerInitialBuffer), scannerMaxBuffer)

	out := bufio.NewWriter(w)

	state := searchingForBlock
	currentTable := ""
	var columns []string

	for scanner.Scan() {
		line := scanner.Text()
		stats.LinesRead++

		switch state {
		case searchingForBlock:
			if m := copyStartPattern.FindStringSubmatch(line); m != nil {
				currentTable = m[1]
				columns = parseCopyColumns(m[2])
				state = inBlock
			}
			if err := writeLine(out, line); err != nil {
				return stats, err
			}

		case inBlock:
			if copyEndPattern.MatchString(line) {
				columns = nil
				state = searchingForBlock
				if err := writeLine(out, line); err != nil {
					return stats, err
				}
				break
			}

			tableRules := p.catalog[currentTable]
			if len(tableRules) == 0 || len(columns) == 0 {
				// No rules or no known column list: byte-for-byte pass-through.
				if err := writeLine(out, line); err != nil {
					return stats, err
				}
				break
			}

			rewritten, cells := p.transformRow(line, columns, tableRules)
			stats.RowsTransformed++
			stats.CellsRewritten += cells
			if err := writeLine(out, rewritten); err != nil {
				return stats, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read dump: %w", err)
	}
	if err := out.Flush(); err != nil {
		return stats, fmt.Errorf("failed to write dump: %w", err)
	}
	return stats, nil
}

// transformRow rewrites one data row. Rules apply by index only where the
// index has both a known column name and a catalog entry; cells beyond the
// known column count pass through unrewritten. Returns the rejoined line
// and the number of cells rewritten.
func (p *Processor) transformRow(line string, columns []string, tableRules map[string]rules.Rule) (string, int) {
	original := strings.Split(line, fieldDelimiter)

	// Working values accumulate transformations; the row context reads the
	// untouched originals.
	working := make([]string, len(original))
	copy(working, original)
	ctx := rules.NewRowContext(columns, original)

	rewritten := 0
	for i := range working {
		if i >= len(columns) {
			break
		}
		rule, ok := tableRules[columns[i]]
		if !ok {
			continue
		}
		working[i] = rule.Evaluate(working[i], ctx)
		rewritten++
	}

	return strings.Join(working, fieldDelimiter), rewritten
}

func writeLine(out *bufio.Writer, line string) error {
	if _, err := out.WriteString(line); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	if err := out.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	return nil
}
