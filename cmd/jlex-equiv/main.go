// Command jlex-equiv parses one JSON document with both the recursive
// and stackless event parsers and fails loudly at the first event where
// their traces diverge. It exists to gate the claim that the two
// parsers emit identical event sequences for identical input, without
// requiring a full test binary.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jerr"
	"github.com/lattice-substrate/inplace-json/jevent"
	"github.com/lattice-substrate/inplace-json/jfile"
	"github.com/lattice-substrate/inplace-json/jleaf"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h") {
		if err := writeUsage(stdout); err != nil {
			return 1
		}
		return 0
	}
	if len(args) != 1 {
		if err := writeUsage(stderr); err != nil {
			return 1
		}
		return jerr.CLIUsage.ExitCode()
	}

	buf, err := jfile.ReadForParse(args[0])
	if err != nil {
		if writeErr := writef(stderr, "error: %v\n", err); writeErr != nil {
			return 1
		}
		return jerr.InternalIO.ExitCode()
	}

	recTrace, recErr := traceOf(buf, jevent.ParseRecursive)
	stkTrace, stkErr := traceOf(buf, jevent.ParseStackless)

	if recErr != nil || stkErr != nil {
		if recErr != nil {
			if writeErr := writef(stderr, "recursive parser failed: %v\n", recErr); writeErr != nil {
				return 1
			}
		}
		if stkErr != nil {
			if writeErr := writef(stderr, "stackless parser failed: %v\n", stkErr); writeErr != nil {
				return 1
			}
		}
		if (recErr == nil) != (stkErr == nil) {
			if writeErr := writeLine(stderr, "parsers disagree on whether the input is valid"); writeErr != nil {
				return 1
			}
			return jerr.Structural.ExitCode()
		}
		return 0
	}

	if idx, ok := firstDivergence(recTrace, stkTrace); !ok {
		if writeErr := writeLine(stdout, "ok: event traces match"); writeErr != nil {
			return 1
		}
		return 0
	} else {
		writeErr := writef(stderr, "event traces diverge at index %d:\n  recursive: %s\n  stackless: %s\n",
			idx, traceEventAt(recTrace, idx), traceEventAt(stkTrace, idx))
		if writeErr != nil {
			return 1
		}
		return jerr.Structural.ExitCode()
	}
}

// event is one recorded call into a jevent.Handler.
type event struct {
	kind string
	key  string
}

func traceOf(buf []byte, parse func(*jcursor.Cursor, jevent.Handler, jleaf.NumberPolicy) error) ([]event, error) {
	c := jcursor.New(append([]byte(nil), buf...))
	rec := &recorder{}
	err := parse(c, rec, nil)
	return rec.events, err
}

type recorder struct {
	events []event
}

func (r *recorder) Leaf(kind jleaf.Kind, v jleaf.Leaf) error {
	r.events = append(r.events, event{kind: fmt.Sprintf("leaf(%d)", kind)})
	return nil
}

func (r *recorder) Begin(inArray bool) error {
	r.events = append(r.events, event{kind: fmt.Sprintf("begin(array=%v)", inArray)})
	return nil
}

func (r *recorder) ArrayEntry() error {
	r.events = append(r.events, event{kind: "array_entry"})
	return nil
}

func (r *recorder) ObjectEntry(key jcursor.Slice) error {
	r.events = append(r.events, event{kind: "object_entry", key: key.String()})
	return nil
}

func (r *recorder) End(inArray bool) error {
	r.events = append(r.events, event{kind: fmt.Sprintf("end(array=%v)", inArray)})
	return nil
}

func firstDivergence(a, b []event) (int, bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i, true
		}
	}
	if len(a) != len(b) {
		return n, true
	}
	return 0, false
}

func traceEventAt(trace []event, idx int) string {
	if idx >= len(trace) {
		return "<end of trace>"
	}
	e := trace[idx]
	if e.key != "" {
		return fmt.Sprintf("%s %q", e.kind, e.key)
	}
	return e.kind
}

func writeUsage(w io.Writer) error {
	return writeLine(w, "usage: jlex-equiv FILE")
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
