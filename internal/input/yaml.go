package input

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"gantt2img/pkg/model"
)

// timestamp is a YAML scalar holding a date string or epoch milliseconds.
// Resolution against a location happens after decoding.
type timestamp struct {
	raw string
	set bool
}

func (t *timestamp) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: timestamp must be a scalar", node.Line)
	}
	t.raw, t.set = node.Value, node.Value != ""
	return nil
}

func (t timestamp) resolve(loc *time.Location) (int64, error) {
	return ParseTimestamp(t.raw, loc)
}

type yamlOccurrence struct {
	Instance string    `yaml:"instance"`
	Start    timestamp `yaml:"start"`
	End      timestamp `yaml:"end"`
}

type yamlElement struct {
	ID         string           `yaml:"id"`
	Name       string           `yaml:"name"`
	Kind       string           `yaml:"kind"` // task, milestone or group
	Start      timestamp        `yaml:"start"`
	End        timestamp        `yaml:"end"`
	Color      string           `yaml:"color"`
	Label      string           `yaml:"label"`
	Children   []string         `yaml:"children"`
	SubProcess bool             `yaml:"sub_process"`
	Loop       bool             `yaml:"loop"`
	LoopCut    bool             `yaml:"loop_cut"`
	Instance   int              `yaml:"instance"`
	Instances  int              `yaml:"instances"`
	Ghosts     []yamlOccurrence `yaml:"ghosts"`
	DependsOn  []string         `yaml:"depends_on"` // "id" or "id:SS"
}

type yamlDependency struct {
	ID             string `yaml:"id"`
	Source         string `yaml:"source"`
	Target         string `yaml:"target"`
	Type           string `yaml:"type"` // FS, SS, FF, SF or the long names
	Flow           string `yaml:"flow"`
	Ghost          bool   `yaml:"ghost"`
	SourceInstance string `yaml:"source_instance"`
	TargetInstance string `yaml:"target_instance"`
}

type yamlChart struct {
	Title        string           `yaml:"title"`
	Elements     []yamlElement    `yaml:"elements"`
	Dependencies []yamlDependency `yaml:"dependencies"`
}

func readYAML(r io.Reader, loc *time.Location) (Chart, error) {
	var doc yamlChart
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Chart{}, fmt.Errorf("error parsing YAML: %w", err)
	}

	chart := Chart{Title: doc.Title}
	for i, ye := range doc.Elements {
		e, err := ye.element(loc)
		if err != nil {
			return Chart{}, fmt.Errorf("element %d: %w", i+1, err)
		}
		if e.ID == "" {
			e.ID = strconv.Itoa(i + 1)
		}
		chart.Elements = append(chart.Elements, e)
		for _, dep := range ye.DependsOn {
			chart.Dependencies = append(chart.Dependencies, parseLink(dep, e.ID))
		}
	}
	for _, yd := range doc.Dependencies {
		d := model.Dependency{
			ID:       yd.ID,
			Source:   yd.Source,
			Target:   yd.Target,
			Relation: model.ParseRelation(yd.Type),
			Flow:     yd.Flow,

			Ghost:          yd.Ghost || yd.SourceInstance != "" || yd.TargetInstance != "",
			SourceInstance: yd.SourceInstance,
			TargetInstance: yd.TargetInstance,
		}
		if d.ID == "" {
			d.ID = d.Source + "->" + d.Target
		}
		chart.Dependencies = append(chart.Dependencies, d)
	}
	return chart, nil
}

func (ye yamlElement) element(loc *time.Location) (model.Element, error) {
	e := model.Element{
		ID:             ye.ID,
		Name:           ye.Name,
		Kind:           model.ParseKind(ye.Kind),
		Color:          ye.Color,
		TypeLabel:      ye.Label,
		Children:       ye.Children,
		SubProcess:     ye.SubProcess,
		IsLoop:         ye.Loop || ye.LoopCut,
		IsLoopCut:      ye.LoopCut,
		InstanceNumber: ye.Instance,
		TotalInstances: ye.Instances,
		HasEnd:         ye.End.set,
	}

	var err error
	if e.Start, err = ye.Start.resolve(loc); err != nil {
		return model.Element{}, err
	}
	if e.End, err = ye.End.resolve(loc); err != nil {
		return model.Element{}, err
	}
	if e.Kind == model.KindTask && !e.HasEnd {
		e.End = e.Start
	}

	for _, g := range ye.Ghosts {
		start, err := g.Start.resolve(loc)
		if err != nil {
			return model.Element{}, err
		}
		end, err := g.End.resolve(loc)
		if err != nil {
			return model.Element{}, err
		}
		e.Ghosts = append(e.Ghosts, model.Occurrence{InstanceID: g.Instance, Start: start, End: end})
	}
	return e, nil
}
