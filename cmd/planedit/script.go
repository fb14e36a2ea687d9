package main

import (
	"fmt"
	"io"
	"os"

	"github.com/tdewolff/floorplan"
	"github.com/tdewolff/floorplan/transact"
	"gopkg.in/yaml.v3"
)

// Script is a named list of requests that run in one session, for example:
//
//	session: widen hallway
//	requests:
//	  - type: fp.request.MoveWall
//	    args: {wall: w1, delta: {x: 0, y: 0.5}}
//	  - type: fp.request.RebuildHoles
//	    args: {layer: ground}
type Script struct {
	Session  string          `yaml:"session"`
	Requests []ScriptRequest `yaml:"requests"`
}

type ScriptRequest struct {
	Type floorplan.RequestType `yaml:"type"`
	Args map[string]any        `yaml:"args"`
}

func readScript(filename string) (Script, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Script{}, err
	}
	defer f.Close()
	return parseScript(f)
}

func parseScript(r io.Reader) (Script, error) {
	script := Script{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil && err != io.EOF {
		return script, err
	}
	if script.Session == "" {
		script.Session = "script"
	}
	return script, nil
}

// Run creates all requests before committing any, so that a malformed script leaves the plan untouched.
func (script Script) Run(ed *floorplan.Editor) error {
	reqs := make([]*transact.Request, 0, len(script.Requests))
	for i, sr := range script.Requests {
		req, err := ed.CreateRequest(sr.Type, sr.Args)
		if err != nil {
			return fmt.Errorf("request %d: %w", i, err)
		}
		reqs = append(reqs, req)
	}
	return ed.Apply(script.Session, reqs...)
}
