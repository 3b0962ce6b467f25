// Package render turns inventory trees into text dumps and serialisable
// node trees. Output order is deterministic: attributes in insertion order,
// contents by name then ID, slots by name.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/inventory/pkg/types"
)

// DefaultIndent is the per-level indent of Dump.
const DefaultIndent = "   "

// emptyMarker is printed under a slot with no installed item.
const emptyMarker = "<empty>"

// Options controls Dump output.
type Options struct {
	// Indent is repeated once per tree level. Empty means DefaultIndent.
	Indent string

	// HideAttributes suppresses the attribute lines under each item.
	HideAttributes bool
}

// dumper writes lines until the first write error and then stops.
type dumper struct {
	w      io.Writer
	indent string
	attrs  bool
	err    error
}

// Dump writes the tree rooted at root to w.
func Dump(w io.Writer, root *types.Item, opts Options) error {
	d := &dumper{w: w, indent: opts.Indent, attrs: !opts.HideAttributes}
	if d.indent == "" {
		d.indent = DefaultIndent
	}
	d.item(root, 0)
	return d.err
}

// DumpString returns Dump output as a string.
func DumpString(root *types.Item, opts Options) string {
	var b strings.Builder
	_ = Dump(&b, root, opts)
	return b.String()
}

func (d *dumper) line(level int, text string) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat(d.indent, level), text)
}

func (d *dumper) item(it *types.Item, level int) {
	d.line(level, it.Label())
	if d.attrs {
		attrs := it.Attributes()
		for _, k := range attrs.Keys() {
			v, _ := attrs.Get(k)
			d.line(level+1, "* "+k+": "+v.String())
		}
	}
	for _, c := range it.Contents() {
		d.item(c, level+1)
	}
	for _, s := range it.Slots() {
		d.line(level+1, s.String())
		if occ := s.Installed(); occ != nil {
			d.item(occ, level+2)
		} else {
			d.line(level+2, emptyMarker)
		}
	}
}
