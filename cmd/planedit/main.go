package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tdewolff/argp"
	"github.com/tdewolff/floorplan"
	"github.com/tdewolff/floorplan/transact"
	"gopkg.in/yaml.v3"
)

type Info struct {
	Config string `short:"c" desc:"Configuration file"`
	Input  string `index:"0" desc:"Plan file, YAML or CBOR"`
}

type Apply struct {
	Config  string `short:"c" desc:"Configuration file"`
	Output  string `short:"o" desc:"Output plan file, YAML or CBOR"`
	Metrics bool   `short:"m" desc:"Print history metrics"`
	Input   string `index:"0" desc:"Plan file, YAML or CBOR"`
	Script  string `index:"1" desc:"Request script, YAML"`
}

type Clip struct {
	Mode   string `short:"m" default:"union" desc:"Clip mode: intersection, union, difference or xor"`
	Fill   string `short:"f" default:"nonzero" desc:"Fill rule: evenodd, nonzero, positive or negative"`
	Output string `short:"o" desc:"Output file, GeoJSON or YAML"`
	Input  string `index:"0" desc:"Rings, YAML or GeoJSON"`
}

func main() {
	root := argp.NewCmd(&Info{}, "Floor plan editing toolkit")
	root.AddCmd(&Apply{}, "apply", "Run a request script on a plan in one session")
	root.AddCmd(&Clip{}, "clip", "Boolean operation on rings")
	root.Parse()
	root.PrintHelp()
}

func loadConfig(filename string) (floorplan.Config, *slog.Logger, error) {
	cfg := floorplan.DefaultConfig()
	if filename != "" {
		var err error
		if cfg, err = floorplan.LoadConfig(filename); err != nil {
			return cfg, nil, err
		}
	}
	level, err := cfg.Level()
	if err != nil {
		return cfg, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}

func (cmd *Info) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	cfg, logger, err := loadConfig(cmd.Config)
	if err != nil {
		return err
	}
	doc, err := readPlan(cmd.Input)
	if err != nil {
		return err
	}
	ed, err := floorplan.NewEditor(doc, cfg, logger)
	if err != nil {
		return err
	}

	counts := map[string]int{}
	for _, e := range doc.Entities() {
		counts[e.Type()]++
	}
	fmt.Println("File name:", filepath.Base(cmd.Input))
	fmt.Println("Entities:", doc.Len())
	for _, tp := range floorplan.EntityTypes() {
		if counts[tp] != 0 {
			fmt.Printf("  %-8s %d\n", tp, counts[tp])
		}
	}
	fmt.Println("Bounds:", doc.Bounds())
	return printTopology(os.Stdout, ed)
}

func (cmd *Apply) Run() error {
	if cmd.Input == "" || cmd.Script == "" {
		return argp.ShowUsage
	}
	cfg, logger, err := loadConfig(cmd.Config)
	if err != nil {
		return err
	}
	doc, err := readPlan(cmd.Input)
	if err != nil {
		return err
	}
	script, err := readScript(cmd.Script)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	ed, err := floorplan.NewEditor(doc, cfg, logger, transact.WithRegisterer(reg))
	if err != nil {
		return err
	}
	if err := script.Run(ed); err != nil {
		return err
	}
	if err := printTopology(os.Stdout, ed); err != nil {
		return err
	}
	if cmd.Metrics {
		if err := printMetrics(os.Stdout, reg); err != nil {
			return err
		}
	}
	if cmd.Output != "" {
		return writePlan(cmd.Output, doc)
	}
	return nil
}

// printTopology rebuilds all layers and roofs and prints their faces and holes.
func printTopology(w io.Writer, ed *floorplan.Editor) error {
	for _, l := range ed.Doc.Layers() {
		if err := ed.Topology.RebuildLayer(l); err != nil {
			return err
		}
		fmt.Fprintf(w, "Layer %s (%s): %d members, %d faces, %d holes, area %g\n", l.ID(), l.Name, len(l.Members), len(l.Faces), len(l.Holes), l.Area())
		for _, face := range l.Faces {
			fmt.Fprintf(w, "  face %s\n", face)
		}
		for _, hole := range l.Holes {
			fmt.Fprintf(w, "  hole %s\n", hole)
		}
	}
	for _, r := range ed.Doc.Roofs() {
		if err := ed.Topology.RebuildRoof(r); err != nil {
			return err
		}
		fmt.Fprintf(w, "Roof %s: pitch %g, %d faces, %d holes\n", r.ID(), r.Pitch, len(r.Faces), len(r.Holes))
	}
	return nil
}

func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			labels := []string{}
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(labels)

			v := m.GetGauge().GetValue()
			if m.GetCounter() != nil {
				v = m.GetCounter().GetValue()
			}
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), v)
		}
	}
	return nil
}

////////////////////////////////////////////////////////////////

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

// readPlan reads a plan from a YAML list of entity dumps or from a CBOR file written by Document.Save.
func readPlan(filename string) (*floorplan.Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !isYAML(filename) {
		return floorplan.Open(f)
	}
	dumps := []floorplan.Fields{}
	if err := yaml.NewDecoder(f).Decode(&dumps); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	doc := floorplan.NewDocument()
	if err := doc.Load(dumps); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return doc, nil
}

func writePlan(filename string, doc *floorplan.Document) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if isYAML(filename) {
		enc := yaml.NewEncoder(f)
		err = enc.Encode(doc.Dump())
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	} else {
		err = doc.Save(f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
