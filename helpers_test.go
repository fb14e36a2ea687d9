package floorplan

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/tdewolff/floorplan/transact"
	"github.com/tdewolff/test"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestEditor(t *testing.T, cfg Config) *Editor {
	t.Helper()
	ed, err := NewEditor(NewDocument(), cfg, discard)
	test.Error(t, err)
	return ed
}

// addLayer adds a layer directly to the document, outside of the history.
func addLayer(t *testing.T, ed *Editor, boundary Polyline) *Layer {
	t.Helper()
	l := NewLayer("ground", 60, 250)
	l.Boundary = boundary
	test.Error(t, ed.Doc.Add(l))
	return l
}

// mustAddWall commits a request that adds a wall to the layer.
func mustAddWall(t *testing.T, ed *Editor, l *Layer, from, to Point, width float64) *Wall {
	t.Helper()
	req := NewAddWallRequest(ed, l.ID(), from, to, width, 250)
	test.Error(t, ed.Commit(req))
	w, err := ed.Doc.Wall(req.Operation().(*addWall).Wall())
	test.Error(t, err)
	return w
}

// polylinesString returns one line per polyline.
func polylinesString(ps []Polyline) string {
	lines := make([]string, len(ps))
	for i, p := range ps {
		lines[i] = p.String()
	}
	return strings.Join(lines, "\n")
}

// dumpString returns the CBOR encoding of the document as a string, to compare documents bit for bit.
func dumpString(t *testing.T, doc *Document) string {
	t.Helper()
	b, err := transact.Marshal(doc.Dump())
	test.Error(t, err)
	return string(b)
}
