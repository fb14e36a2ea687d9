package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/tdewolff/argp"
	"github.com/tdewolff/floorplan/clip"
	"gopkg.in/yaml.v3"
)

// Rings are the subject and clip polygon sets of a boolean operation. In YAML, every ring is a list of [x, y] pairs:
//
//	subject:
//	  - [[0, 0], [10, 0], [10, 10], [0, 10]]
//	clip:
//	  - [[5, 5], [15, 5], [15, 15], [5, 15]]
type Rings struct {
	Subject [][][2]float64 `yaml:"subject"`
	Clip    [][][2]float64 `yaml:"clip,omitempty"`
}

func ringsFromPairs(pairs [][][2]float64) []clip.Ring {
	rs := make([]clip.Ring, 0, len(pairs))
	for _, ps := range pairs {
		coords := make([]float64, 0, 2*len(ps))
		for _, p := range ps {
			coords = append(coords, p[0], p[1])
		}
		rs = append(rs, clip.RingFromFloats(coords...))
	}
	return rs
}

// readRings reads rings from YAML, or from GeoJSON where features with the property "role" set to "clip" form the clip set and all other features the subject set.
func readRings(r io.Reader, geoJSON bool) ([]clip.Ring, []clip.Ring, error) {
	if geoJSON {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, nil, err
		}
		fc, err := geojson.UnmarshalFeatureCollection(b)
		if err != nil {
			return nil, nil, err
		}
		var subject, clipping []clip.Ring
		for _, f := range fc.Features {
			if f.Properties.MustString("role", "subject") == "clip" {
				clipping = append(clipping, clip.RingsFromOrb(f.Geometry)...)
			} else {
				subject = append(subject, clip.RingsFromOrb(f.Geometry)...)
			}
		}
		return subject, clipping, nil
	}

	rings := Rings{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rings); err != nil && err != io.EOF {
		return nil, nil, err
	}
	return ringsFromPairs(rings.Subject), ringsFromPairs(rings.Clip), nil
}

func boolean(subject, clipping []clip.Ring, mode clip.ClipMode, fillRule clip.FillRule) (*clip.PolyTree, error) {
	opts := clip.DefaultOptions
	opts.SubjectFill, opts.ClipFill = fillRule, fillRule
	return clip.Boolean(subject, clipping, mode, opts)
}

// clipYAML runs the boolean operation and returns the resulting rings as the subject set, so that the output can be used as input again.
func clipYAML(subject, clipping []clip.Ring, mode clip.ClipMode, fillRule clip.FillRule) ([]byte, error) {
	tree, err := boolean(subject, clipping, mode, fillRule)
	if err != nil {
		return nil, err
	}
	rings := Rings{}
	for _, r := range tree.Rings() {
		rings.Subject = append(rings.Subject, r.Floats())
	}
	return yaml.Marshal(rings)
}

// clipGeoJSON runs the boolean operation and returns the result as a feature collection with a single multi polygon.
func clipGeoJSON(subject, clipping []clip.Ring, mode clip.ClipMode, fillRule clip.FillRule) ([]byte, error) {
	tree, err := boolean(subject, clipping, mode, fillRule)
	if err != nil {
		return nil, err
	}

	f := geojson.NewFeature(tree.ToOrb())
	f.Properties["mode"] = mode.String()
	f.Properties["fill"] = fillRule.String()
	f.Properties["area"] = tree.Area()
	f.Properties["contours"] = tree.Total()
	fc := geojson.NewFeatureCollection()
	fc.Append(f)
	return fc.MarshalJSON()
}

func (cmd *Clip) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	mode, err := clip.ParseClipMode(cmd.Mode)
	if err != nil {
		return err
	}
	fillRule, err := clip.ParseFillRule(cmd.Fill)
	if err != nil {
		return err
	}

	f, err := os.Open(cmd.Input)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(cmd.Input))
	subject, clipping, err := readRings(f, ext == ".geojson" || ext == ".json")
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Input, err)
	}

	encode := clipGeoJSON
	if isYAML(cmd.Output) {
		encode = clipYAML
	}
	b, err := encode(subject, clipping, mode, fillRule)
	if err != nil {
		return err
	}
	if cmd.Output == "" || cmd.Output == "-" {
		_, err = fmt.Println(string(b))
		return err
	}
	return os.WriteFile(cmd.Output, b, 0644)
}
