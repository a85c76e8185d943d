// Package lifecycle provides the lifecycle-template and version-schema
// policy oracles, loaded from a YAML policy file.
package lifecycle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"plm-registry-service/internal/core/domain"
	"plm-registry-service/internal/core/ports/output"
)

type policyFile struct {
	Templates []templateSpec `yaml:"templates"`
	Schemas   []schemaSpec   `yaml:"schemas"`
}

type templateSpec struct {
	Name    string   `yaml:"name"`
	Initial string   `yaml:"initial"`
	States  []string `yaml:"states"`
	Final   []string `yaml:"final"`
}

type schemaSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// Registry holds every template and schema the policy file declares. It is
// immutable after load and safe for concurrent use.
type Registry struct {
	templates map[string]ports.LifeCycleTemplate
	schemas   map[string]ports.VersionSchema
}

var (
	_ ports.TemplateRegistry = (*Registry)(nil)
	_ ports.SchemaRegistry   = (*Registry)(nil)
)

func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lifecycle policy: %w", err)
	}
	return ParseRegistry(data)
}

func ParseRegistry(data []byte) (*Registry, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse lifecycle policy: %w", err)
	}

	r := &Registry{
		templates: make(map[string]ports.LifeCycleTemplate, len(file.Templates)),
		schemas:   make(map[string]ports.VersionSchema, len(file.Schemas)),
	}

	for _, spec := range file.Templates {
		tpl, err := newTemplate(spec)
		if err != nil {
			return nil, err
		}
		if _, ok := r.templates[spec.Name]; ok {
			return nil, fmt.Errorf("duplicate lifecycle template %q", spec.Name)
		}
		r.templates[spec.Name] = tpl
	}

	for _, spec := range file.Schemas {
		schema, err := newSchema(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", spec.Name, err)
		}
		if _, ok := r.schemas[spec.Name]; ok {
			return nil, fmt.Errorf("duplicate version schema %q", spec.Name)
		}
		r.schemas[spec.Name] = schema
	}

	return r, nil
}

func (r *Registry) Template(name string) (ports.LifeCycleTemplate, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTemplate, name)
	}
	return tpl, nil
}

func (r *Registry) Schema(name string) (ports.VersionSchema, error) {
	schema, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSchema, name)
	}
	return schema, nil
}

type template struct {
	initial string
	known   map[string]bool
	final   map[string]bool
}

func newTemplate(spec templateSpec) (*template, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("lifecycle template requires a name")
	}
	if len(spec.States) == 0 {
		return nil, fmt.Errorf("template %q declares no states", spec.Name)
	}

	t := &template{
		initial: spec.Initial,
		known:   make(map[string]bool, len(spec.States)),
		final:   make(map[string]bool, len(spec.Final)),
	}
	for _, state := range spec.States {
		t.known[state] = true
	}
	if t.initial == "" {
		t.initial = spec.States[0]
	}
	if !t.known[t.initial] {
		return nil, fmt.Errorf("template %q: initial state %q is not declared", spec.Name, t.initial)
	}
	for _, state := range spec.Final {
		if !t.known[state] {
			return nil, fmt.Errorf("template %q: final state %q is not declared", spec.Name, state)
		}
		t.final[state] = true
	}
	return t, nil
}

func (t *template) IsKnown(state string) bool { return t.known[state] }
func (t *template) IsFinal(state string) bool { return t.final[state] }
func (t *template) InitialState() string      { return t.initial }
