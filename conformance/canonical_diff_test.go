// Package conformance_test cross-checks jtree against an independent
// third-party JSON implementation on a battery of well-formed documents:
// if cyberphone's canonicalizer accepts a document, this in-place parser
// must accept it too. The two disagree by design on some malformed
// inputs (cyberphone's Transform silently repairs lone surrogates and
// a few non-standard number spellings rather than rejecting them), so
// this is a well-formedness agreement check on valid input, not a
// byte-for-byte canonical-output comparison.
package conformance_test

import (
	"testing"

	cyberphone "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jtree"
)

func TestWellFormedAgreement(t *testing.T) {
	docs := []string{
		`null`,
		`true`,
		`false`,
		`0`,
		`-17`,
		`3.14159`,
		`1e10`,
		`-2.5e-3`,
		`""`,
		`"hello, world"`,
		`"éè"`,
		`[]`,
		`{}`,
		`[1,2,3]`,
		`{"a":1,"b":[true,false,null]}`,
		`{"nested":{"deeper":{"deepest":[1,2,3]}}}`,
		`["𝄞"]`,
	}

	for _, doc := range docs {
		doc := doc
		t.Run(doc, func(t *testing.T) {
			if _, err := cyberphone.Transform([]byte(doc)); err != nil {
				t.Fatalf("cyberphone rejected a well-formed fixture: %v", err)
			}

			buf := append([]byte(doc), 0)
			c := jcursor.New(buf)
			tree, err := jtree.Parse(c)
			defer jtree.Finalise(tree)
			if err != nil {
				t.Fatalf("jtree.Parse rejected a well-formed fixture %q: %v", doc, err)
			}
			if _, err := tree.Root(); err != nil {
				t.Fatalf("tree has no root after a successful parse of %q: %v", doc, err)
			}
		})
	}
}
