package testutil

import (
	"context"
	"fmt"

	"plm-registry-service/internal/core/domain"
	"plm-registry-service/internal/core/ports/output"
)

// PassthroughTx is a TxManager that just runs fn; atomicity is the
// production adapter's concern, not the engine logic under test.
type PassthroughTx struct{}

func (PassthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// FakeTemplate is a deterministic lifecycle template for tests.
type FakeTemplate struct {
	Initial string
	Known   []string
	Final   []string
}

func (t FakeTemplate) IsKnown(state string) bool {
	for _, s := range t.Known {
		if s == state {
			return true
		}
	}
	return false
}

func (t FakeTemplate) IsFinal(state string) bool {
	for _, s := range t.Final {
		if s == state {
			return true
		}
	}
	return false
}

func (t FakeTemplate) InitialState() string { return t.Initial }

// FakeSchema advances single uppercase letters: A -> B -> C.
type FakeSchema struct{}

func (FakeSchema) NextVersionLabel(current string) (string, error) {
	if len(current) != 1 || current[0] < 'A' || current[0] > 'Z' {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownVersion, current)
	}
	return string(current[0] + 1), nil
}

// FakeRegistry serves a fixed set of templates and schemas by name.
type FakeRegistry struct {
	Templates map[string]ports.LifeCycleTemplate
	Schemas   map[string]ports.VersionSchema
}

// NewFakeRegistry returns a registry with a "default" template
// (InWork/InReview initial InWork, final Released/Obsolete) and a "letters"
// schema, the shape most engine tests need.
func NewFakeRegistry() *FakeRegistry {
	return &FakeRegistry{
		Templates: map[string]ports.LifeCycleTemplate{
			"default": FakeTemplate{
				Initial: "InWork",
				Known:   []string{"InWork", "InReview", "Released", "Obsolete"},
				Final:   []string{"Released", "Obsolete"},
			},
		},
		Schemas: map[string]ports.VersionSchema{
			"letters": FakeSchema{},
		},
	}
}

func (r *FakeRegistry) Template(name string) (ports.LifeCycleTemplate, error) {
	tpl, ok := r.Templates[name]
	if !ok {
		return nil, domain.ErrUnknownTemplate
	}
	return tpl, nil
}

func (r *FakeRegistry) Schema(name string) (ports.VersionSchema, error) {
	schema, ok := r.Schemas[name]
	if !ok {
		return nil, domain.ErrUnknownSchema
	}
	return schema, nil
}
