package strokeio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flux3dp/strokefit"
)

var zigzag = []strokefit.Point{
	strokefit.Pt(0, 0),
	strokefit.Pt(40, 60),
	strokefit.Pt(-50, 90),
	strokefit.Pt(0, 200),
}

func TestDecodeJSON(t *testing.T) {
	in := `{"strokes":[{"id":"a","points":[{"x":0,"y":0},{"x":40,"y":60}]},{"points":[{"x":1,"y":2},{"x":3,"y":4}]}]}`
	doc, err := Decode(strings.NewReader(in), JSON)
	require.NoError(t, err)
	require.Len(t, doc.Strokes, 2)
	assert.Equal(t, "a", doc.Strokes[0].ID)
	assert.Equal(t, []strokefit.Point{strokefit.Pt(0, 0), strokefit.Pt(40, 60)}, doc.Strokes[0].Points)

	_, err = uuid.Parse(doc.Strokes[1].ID)
	assert.NoError(t, err, "anonymous stroke should get a UUID")
}

func TestDecodeYAML(t *testing.T) {
	in := `
strokes:
  - id: pen-1
    points:
      - {x: 0, y: 0}
      - {x: 40, y: 60}
      - {x: -50, y: 90}
      - {x: 0, y: 200}
`
	doc, err := Decode(strings.NewReader(in), YAML)
	require.NoError(t, err)
	require.Len(t, doc.Strokes, 1)
	assert.Equal(t, "pen-1", doc.Strokes[0].ID)
	assert.Equal(t, zigzag, doc.Strokes[0].Points)
}

func TestDecodeEmpty(t *testing.T) {
	for _, f := range []Format{JSON, YAML, MsgPack} {
		_, err := Decode(strings.NewReader(""), f)
		assert.Error(t, err, string(f))
	}
	_, err := Decode(strings.NewReader("{}"), Format("xml"))
	assert.Error(t, err)
}

func TestResultsRoundTrip(t *testing.T) {
	segs := strokefit.FitPath(zigzag)
	segs = append(segs, strokefit.CubicBez{
		P0: strokefit.Pt(0, 200),
		P1: strokefit.Pt(10, 210),
		P2: strokefit.Pt(20, 210),
		P3: strokefit.Pt(30, 200),
	}.Seg())
	res := NewResult("s1", segs, strokefit.SVGOptions{})
	assert.Equal(t, "M0,0 L40,60 L-50,90 L0,200 C10,210 20,210 30,200", res.D)
	assert.Equal(t, "C", res.Segments[3].Type)

	for _, f := range []Format{JSON, YAML, MsgPack} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, f, ResultDocument{Results: []Result{res}}), string(f))
		doc, err := DecodeResults(&buf, f)
		require.NoError(t, err, string(f))
		require.Len(t, doc.Results, 1)
		assert.Equal(t, res, doc.Results[0], string(f))

		got, err := doc.Results[0].PathSegments()
		require.NoError(t, err)
		assert.Equal(t, segs, got, string(f))
	}
}

func TestPathSegmentsInvalid(t *testing.T) {
	res := Result{ID: "x", Segments: []Segment{{Type: "L", Points: zigzag[:1]}}}
	_, err := res.PathSegments()
	assert.Error(t, err)
}

func TestFormats(t *testing.T) {
	for path, want := range map[string]Format{
		"a.json":    JSON,
		"a.YAML":    YAML,
		"a.yml":     YAML,
		"a.msgpack": MsgPack,
	} {
		got, ok := FormatFromPath(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}
	_, ok := FormatFromPath("strokes")
	assert.False(t, ok)
	_, ok = FormatFromPath("a.txt")
	assert.False(t, ok)
}
