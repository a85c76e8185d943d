package ports

import (
	"context"

	"plm-registry-service/internal/core/domain"
)

// AssemblyRepository persists assembly rows keyed by identity.
//
// Get returns domain.ErrAssemblyNotFound when no row exists. GetForUpdate
// additionally locks the row for the duration of the surrounding
// transaction so the reserve/free precondition check and the write land on
// the same snapshot. Create fails with domain.ErrIdentityConflict when the
// identity already exists.
type AssemblyRepository interface {
	Get(ctx context.Context, id domain.Identity) (*domain.Assembly, error)
	GetForUpdate(ctx context.Context, id domain.Identity) (*domain.Assembly, error)
	Create(ctx context.Context, assembly *domain.Assembly) error
	Update(ctx context.Context, assembly *domain.Assembly) error
}

// AttachmentRepository persists attachment rows keyed by identity, with the
// same contract as AssemblyRepository.
type AttachmentRepository interface {
	Get(ctx context.Context, id domain.Identity) (*domain.Attachment, error)
	GetForUpdate(ctx context.Context, id domain.Identity) (*domain.Attachment, error)
	Create(ctx context.Context, attachment *domain.Attachment) error
	Update(ctx context.Context, attachment *domain.Attachment) error
}

// LinkRepository resolves the assembly-attachment relation. Links are keyed
// by reference only; LinkedAttachments resolves each linked reference to the
// identity of its latest persisted row, a point-in-time snapshot rather
// than a stored foreign key.
type LinkRepository interface {
	Link(ctx context.Context, assemblyRef, attachmentRef string) error
	Unlink(ctx context.Context, assemblyRef, attachmentRef string) error
	LinkedAttachments(ctx context.Context, assembly domain.Identity) ([]domain.Identity, error)
}

// TxManager runs fn as a single atomic unit of work. Repository calls made
// with the context passed to fn join the same transaction; either every
// write commits or none do. Nested calls join the enclosing transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
