package ports

// LifeCycleTemplate is the policy oracle for lifecycle state labels.
type LifeCycleTemplate interface {
	IsKnown(state string) bool
	IsFinal(state string) bool
	InitialState() string
}

// VersionSchema maps a version label to its successor. It returns
// domain.ErrUnknownVersion when the label cannot be advanced under the
// schema.
type VersionSchema interface {
	NextVersionLabel(current string) (string, error)
}

// TemplateRegistry resolves the template an artifact row names. Returns
// domain.ErrUnknownTemplate for unregistered names.
type TemplateRegistry interface {
	Template(name string) (LifeCycleTemplate, error)
}

// SchemaRegistry resolves the version schema an artifact row names. Returns
// domain.ErrUnknownSchema for unregistered names.
type SchemaRegistry interface {
	Schema(name string) (VersionSchema, error)
}
