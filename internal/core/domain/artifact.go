package domain

import (
	"fmt"
	"strings"
	"time"
)

// ArtifactFields carries the lifecycle state shared by every versioned
// artifact kind. The reservation invariant holds at all times:
// Reserved == (ReservedBy != nil). All mutation goes through the methods
// below so no caller can break it.
type ArtifactFields struct {
	Reserved          bool       `json:"reserved"`
	ReservedBy        *string    `json:"reserved_by"`
	LifeCycleState    string     `json:"life_cycle_state"`
	LifeCycleTemplate string     `json:"life_cycle_template"`
	VersionSchema     string     `json:"version_schema"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func newArtifactFields(template, schema, state string) (ArtifactFields, error) {
	if strings.TrimSpace(template) == "" {
		return ArtifactFields{}, ErrUnknownTemplate
	}
	if strings.TrimSpace(schema) == "" {
		return ArtifactFields{}, ErrUnknownSchema
	}
	if strings.TrimSpace(state) == "" {
		return ArtifactFields{}, ErrBlankState
	}
	return ArtifactFields{
		LifeCycleState:    state,
		LifeCycleTemplate: template,
		VersionSchema:     schema,
	}, nil
}

// Reserve marks the artifact checked out by userID.
func (f *ArtifactFields) Reserve(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrBlankUserID
	}
	f.Reserved = true
	f.ReservedBy = &userID
	return nil
}

// Release clears the reservation. It is valid on an unreserved artifact;
// cascade free relies on that.
func (f *ArtifactFields) Release() {
	f.Reserved = false
	f.ReservedBy = nil
}

// IsReservedBy reports whether the artifact is currently checked out by
// the given user.
func (f *ArtifactFields) IsReservedBy(userID string) bool {
	return f.Reserved && f.ReservedBy != nil && *f.ReservedBy == userID
}

// SetState overwrites the lifecycle state label. Whether the label is known
// to the artifact's template is the engine's check, not the model's.
func (f *ArtifactFields) SetState(state string) error {
	if strings.TrimSpace(state) == "" {
		return ErrBlankState
	}
	f.LifeCycleState = state
	return nil
}

// Assembly is an artifact that owns links to attachments. Lifecycle
// operations on an assembly cascade to every linked attachment.
type Assembly struct {
	Identity
	ArtifactFields
	Designation string `json:"designation"`
	Material    string `json:"material"`
}

// NewAssembly builds a fully valid assembly row or fails; a partially valid
// assembly is never observable.
func NewAssembly(id Identity, template, schema, state, designation, material string) (*Assembly, error) {
	if _, err := NewIdentity(id.Reference, id.Version, id.Iteration); err != nil {
		return nil, err
	}
	fields, err := newArtifactFields(template, schema, state)
	if err != nil {
		return nil, err
	}
	a := &Assembly{Identity: id, ArtifactFields: fields}
	if err := a.SetAttributes(designation, material); err != nil {
		return nil, err
	}
	return a, nil
}

// SetAttributes overwrites the domain attributes. Both are required
// non-blank once set.
func (a *Assembly) SetAttributes(designation, material string) error {
	if strings.TrimSpace(designation) == "" {
		return fmt.Errorf("%w: designation", ErrBlankAttribute)
	}
	if strings.TrimSpace(material) == "" {
		return fmt.Errorf("%w: material", ErrBlankAttribute)
	}
	a.Designation = designation
	a.Material = material
	return nil
}

// NextIteration returns the row created by checking out this assembly:
// same reference and version, iteration advanced by one, reserved by
// userID, everything else copied unchanged.
func (a *Assembly) NextIteration(userID string) (*Assembly, error) {
	next := *a
	next.Identity = a.Identity.NextIteration()
	if err := next.Reserve(userID); err != nil {
		return nil, err
	}
	return &next, nil
}

// NextVersion returns the row created by revising this assembly: version
// advanced to label, iteration reset to 1, unreserved, lifecycle state reset
// to initialState, attributes copied unchanged.
func (a *Assembly) NextVersion(label, initialState string) (*Assembly, error) {
	if strings.TrimSpace(label) == "" {
		return nil, ErrBlankVersion
	}
	next := *a
	next.Identity = a.Identity.NextVersion(label)
	next.Release()
	if err := next.SetState(initialState); err != nil {
		return nil, err
	}
	return &next, nil
}

// Attachment is an artifact linked to an assembly by reference. Its
// lifecycle tracks the assembly's cascaded operations but it remains a
// full artifact in its own right.
type Attachment struct {
	Identity
	ArtifactFields
	Title  string `json:"title"`
	Format string `json:"format"`
}

func NewAttachment(id Identity, template, schema, state, title, format string) (*Attachment, error) {
	if _, err := NewIdentity(id.Reference, id.Version, id.Iteration); err != nil {
		return nil, err
	}
	fields, err := newArtifactFields(template, schema, state)
	if err != nil {
		return nil, err
	}
	att := &Attachment{Identity: id, ArtifactFields: fields}
	if err := att.SetAttributes(title, format); err != nil {
		return nil, err
	}
	return att, nil
}

func (a *Attachment) SetAttributes(title, format string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title", ErrBlankAttribute)
	}
	if strings.TrimSpace(format) == "" {
		return fmt.Errorf("%w: format", ErrBlankAttribute)
	}
	a.Title = title
	a.Format = format
	return nil
}

func (a *Attachment) NextIteration(userID string) (*Attachment, error) {
	next := *a
	next.Identity = a.Identity.NextIteration()
	if err := next.Reserve(userID); err != nil {
		return nil, err
	}
	return &next, nil
}

func (a *Attachment) NextVersion(label, initialState string) (*Attachment, error) {
	if strings.TrimSpace(label) == "" {
		return nil, ErrBlankVersion
	}
	next := *a
	next.Identity = a.Identity.NextVersion(label)
	next.Release()
	if err := next.SetState(initialState); err != nil {
		return nil, err
	}
	return &next, nil
}
