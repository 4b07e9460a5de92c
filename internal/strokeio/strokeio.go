// Package strokeio reads stroke documents and writes fitting results in
// JSON, YAML or MessagePack.
package strokeio

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/flux3dp/strokefit"
)

type Format string

const (
	JSON    Format = "json"
	YAML    Format = "yaml"
	MsgPack Format = "msgpack"
)

// ParseFormat parses a format name as accepted on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "msgpack", "mpk":
		return MsgPack, nil
	default:
		return "", errors.Errorf("unknown format %q", s)
	}
}

// FormatFromPath guesses the format from a file extension. It reports false
// for unknown extensions.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// Stroke is one pointer gesture.
type Stroke struct {
	ID     string            `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id,omitempty"`
	Points []strokefit.Point `json:"points" yaml:"points" msgpack:"points"`
}

// Document is the input of the strokefit command.
type Document struct {
	Strokes []Stroke `json:"strokes" yaml:"strokes" msgpack:"strokes"`
}

// Segment is the serialized form of a [strokefit.PathSegment].
type Segment struct {
	Type   string            `json:"type" yaml:"type" msgpack:"type"`
	Points []strokefit.Point `json:"points" yaml:"points" msgpack:"points"`
}

// Result is the fitted form of one stroke.
type Result struct {
	ID       string    `json:"id" yaml:"id" msgpack:"id"`
	Segments []Segment `json:"segments" yaml:"segments" msgpack:"segments"`
	// D is the SVG path data of the segments.
	D string `json:"d" yaml:"d" msgpack:"d"`
}

// ResultDocument is the output of the strokefit command.
type ResultDocument struct {
	Results []Result `json:"results" yaml:"results" msgpack:"results"`
}

// NewResult serializes the fitted segments of the stroke with the given ID.
func NewResult(id string, segs []strokefit.PathSegment, opts strokefit.SVGOptions) Result {
	res := Result{
		ID:       id,
		Segments: make([]Segment, len(segs)),
		D:        strokefit.SVG(segs, opts),
	}
	for i, seg := range segs {
		res.Segments[i] = Segment{Type: seg.Type(), Points: seg.Points()}
	}
	return res
}

// PathSegments converts the result back into path segments.
func (r Result) PathSegments() ([]strokefit.PathSegment, error) {
	segs := make([]strokefit.PathSegment, len(r.Segments))
	for i, s := range r.Segments {
		seg, err := strokefit.NewSegment(s.Type, s.Points)
		if err != nil {
			return nil, errors.Wrapf(err, "result %s segment %d", r.ID, i)
		}
		segs[i] = seg
	}
	return segs, nil
}

// Decode reads a stroke document. Strokes without an ID are assigned a
// random UUID.
func Decode(r io.Reader, f Format) (*Document, error) {
	var doc Document
	if err := decode(r, f, &doc); err != nil {
		return nil, err
	}
	for i := range doc.Strokes {
		if doc.Strokes[i].ID == "" {
			doc.Strokes[i].ID = uuid.NewString()
		}
	}
	return &doc, nil
}

// DecodeResults reads a result document as written by [Encode].
func DecodeResults(r io.Reader, f Format) (*ResultDocument, error) {
	var doc ResultDocument
	if err := decode(r, f, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func decode(r io.Reader, f Format, v any) error {
	var err error
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(v)
	case YAML:
		err = yaml.NewDecoder(r).Decode(v)
	case MsgPack:
		err = msgpack.NewDecoder(r).Decode(v)
	default:
		return errors.Errorf("unknown format %q", f)
	}
	if err == io.EOF {
		return errors.Errorf("empty %s document", f)
	}
	return errors.Wrapf(err, "decoding %s", f)
}

// Encode writes v in the given format.
func Encode(w io.Writer, f Format, v any) error {
	var err error
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(v); err == nil {
			err = enc.Close()
		}
	case MsgPack:
		err = msgpack.NewEncoder(w).Encode(v)
	default:
		return errors.Errorf("unknown format %q", f)
	}
	return errors.Wrapf(err, "encoding %s", f)
}
