package jevent_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jevent"
	"github.com/lattice-substrate/inplace-json/jleaf"
)

// recordingHandler records a textual trace of every event so the two
// parser variants can be compared call-by-call.
type recordingHandler struct {
	trace []string
}

func (h *recordingHandler) Leaf(kind jleaf.Kind, v jleaf.Leaf) error {
	h.trace = append(h.trace, fmt.Sprintf("leaf(%d)", kind))
	return nil
}

func (h *recordingHandler) Begin(inArray bool) error {
	h.trace = append(h.trace, fmt.Sprintf("begin(%v)", inArray))
	return nil
}

func (h *recordingHandler) ArrayEntry() error {
	h.trace = append(h.trace, "array_entry")
	return nil
}

func (h *recordingHandler) ObjectEntry(key jcursor.Slice) error {
	h.trace = append(h.trace, "object_entry:"+key.String())
	return nil
}

func (h *recordingHandler) End(inArray bool) error {
	h.trace = append(h.trace, fmt.Sprintf("end(%v)", inArray))
	return nil
}

func traceFor(t *testing.T, doc string, parse func(*jcursor.Cursor, jevent.Handler, jleaf.NumberPolicy) error) []string {
	t.Helper()
	buf := append([]byte(doc), 0)
	c := jcursor.New(buf)
	h := &recordingHandler{}
	require.NoError(t, parse(c, h, nil))
	return h.trace
}

var equivalenceFixtures = []string{
	`{"a":[1,-2,3]}`,
	`["a","b"]`,
	`[[]]`,
	`42`,
	`{}`,
	`[]`,
	`{"x":{"y":{"z":[1,2,[3,4],{"w":5}]}}}`,
	`[{"a":1},{"b":2},{"c":3}]`,
}

func TestRecursiveAndStacklessEmitIdenticalTraces(t *testing.T) {
	for _, doc := range equivalenceFixtures {
		doc := doc
		t.Run(doc, func(t *testing.T) {
			rec := traceFor(t, doc, jevent.ParseRecursive)
			stk := traceFor(t, doc, jevent.ParseStackless)
			require.Equal(t, rec, stk)
		})
	}
}

func TestObjectEntryEmittedForEachDuplicateKey(t *testing.T) {
	trace := traceFor(t, `{"a":1,"a":2}`, jevent.ParseRecursive)
	require.Contains(t, trace, "object_entry:a")
	count := 0
	for _, e := range trace {
		if e == "object_entry:a" {
			count++
		}
	}
	require.Equal(t, 2, count)
}

func TestStacklessDeepNesting(t *testing.T) {
	const depth = 5000
	doc := ""
	for i := 0; i < depth; i++ {
		doc += "["
	}
	for i := 0; i < depth; i++ {
		doc += "]"
	}
	buf := append([]byte(doc), 0)
	c := jcursor.New(buf)
	h := &recordingHandler{}
	require.NoError(t, jevent.ParseStackless(c, h, nil))
	require.Equal(t, depth, countPrefix(h.trace, "begin"))
}

// nullHandler discards every event; used to measure the parsers' own
// allocation behavior without a recording handler's slice growth in the
// way.
type nullHandler struct{}

func (nullHandler) Leaf(jleaf.Kind, jleaf.Leaf) error  { return nil }
func (nullHandler) Begin(bool) error                   { return nil }
func (nullHandler) ArrayEntry() error                  { return nil }
func (nullHandler) ObjectEntry(jcursor.Slice) error    { return nil }
func (nullHandler) End(bool) error                     { return nil }

func TestEventParsersAllocateNoHeapMemory(t *testing.T) {
	const doc = `{"a":[1,-2,3,true,false,null,"xyz"],"b":{"c":1,"d":2}}`

	for _, tc := range []struct {
		name  string
		parse func(*jcursor.Cursor, jevent.Handler, jleaf.NumberPolicy) error
	}{
		{"recursive", jevent.ParseRecursive},
		{"stackless", jevent.ParseStackless},
	} {
		t.Run(tc.name, func(t *testing.T) {
			buf := append([]byte(doc), 0)
			c := jcursor.New(buf)
			h := nullHandler{}

			allocs := testing.AllocsPerRun(200, func() {
				// Each parse NUL-terminates strings in place, so restore
				// the original bytes before every run.
				copy(buf, doc)
				c.Pos = 0
				if err := tc.parse(c, h, nil); err != nil {
					t.Fatal(err)
				}
			})
			require.Equal(t, float64(0), allocs)
		})
	}
}

func countPrefix(trace []string, prefix string) int {
	n := 0
	for _, e := range trace {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
