package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"plm-registry-service/internal/core/domain"
	"plm-registry-service/internal/core/ports/output"
)

// AssemblyService is the lifecycle engine for assemblies. Every operation
// loads the target row, evaluates its preconditions, and commits the
// resulting creates/updates — including the cascade to linked attachments —
// as one transaction. A failure anywhere aborts the whole unit.
type AssemblyService struct {
	assemblies  ports.AssemblyRepository
	attachments ports.AttachmentRepository
	links       ports.LinkRepository
	templates   ports.TemplateRegistry
	schemas     ports.SchemaRegistry
	tx          ports.TxManager
}

func NewAssemblyService(
	assemblies ports.AssemblyRepository,
	attachments ports.AttachmentRepository,
	links ports.LinkRepository,
	templates ports.TemplateRegistry,
	schemas ports.SchemaRegistry,
	tx ports.TxManager,
) *AssemblyService {
	return &AssemblyService{
		assemblies:  assemblies,
		attachments: attachments,
		links:       links,
		templates:   templates,
		schemas:     schemas,
		tx:          tx,
	}
}

// Create seeds the first version/iteration of an assembly. This is the
// external entry point that exists outside the five lifecycle operations;
// subsequent rows are only ever produced by Reserve and Revise.
func (s *AssemblyService) Create(ctx context.Context, id domain.Identity, template, schema, state, designation, material string) (*domain.Assembly, error) {
	tpl, err := s.templates.Template(template)
	if err != nil {
		return nil, err
	}
	if _, err := s.schemas.Schema(schema); err != nil {
		return nil, err
	}
	if state == "" {
		state = tpl.InitialState()
	}
	if !tpl.IsKnown(state) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownState, state)
	}

	assembly, err := domain.NewAssembly(id, template, schema, state, designation, material)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	assembly.CreatedAt = now
	assembly.UpdatedAt = now

	if err := s.assemblies.Create(ctx, assembly); err != nil {
		return nil, err
	}
	return assembly, nil
}

func (s *AssemblyService) Get(ctx context.Context, id domain.Identity) (*domain.Assembly, error) {
	return s.assemblies.Get(ctx, id)
}

// Reserve checks out the assembly at id for userID: it creates the next
// iteration reserved by that user and cascades the same check-out to every
// linked attachment, each at its own next iteration.
func (s *AssemblyService) Reserve(ctx context.Context, userID string, id domain.Identity) (*domain.Assembly, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrBlankUserID
	}

	var next *domain.Assembly
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		assembly, err := s.assemblies.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		tpl, err := s.templates.Template(assembly.LifeCycleTemplate)
		if err != nil {
			return err
		}
		if assembly.Reserved {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyReserved, id)
		}
		if tpl.IsFinal(assembly.LifeCycleState) {
			return fmt.Errorf("%w: %s is %s", domain.ErrStateFinal, id, assembly.LifeCycleState)
		}

		next, err = assembly.NextIteration(userID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		next.CreatedAt = now
		next.UpdatedAt = now
		if err := s.assemblies.Create(ctx, next); err != nil {
			return err
		}

		return s.cascade(ctx, assembly.Identity, func(att *domain.Attachment) error {
			nextAtt, err := att.NextIteration(userID)
			if err != nil {
				return err
			}
			nextAtt.CreatedAt = now
			nextAtt.UpdatedAt = now
			return s.attachments.Create(ctx, nextAtt)
		})
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"assembly": next.Identity.String(), "user": userID}).Info("assembly reserved")
	return next, nil
}

// Update overwrites the domain attributes of a row checked out by userID.
func (s *AssemblyService) Update(ctx context.Context, userID string, id domain.Identity, designation, material string) (*domain.Assembly, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrBlankUserID
	}

	var assembly *domain.Assembly
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		assembly, err = s.assemblies.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := requireReservedBy(&assembly.ArtifactFields, userID, id); err != nil {
			return err
		}
		if err := assembly.SetAttributes(designation, material); err != nil {
			return err
		}
		assembly.UpdatedAt = time.Now().UTC()
		return s.assemblies.Update(ctx, assembly)
	})
	if err != nil {
		return nil, err
	}
	return assembly, nil
}

// Free checks the assembly back in and unconditionally releases every
// linked attachment, whoever reserved it. The assembly-level ownership
// check gates the whole cascade.
func (s *AssemblyService) Free(ctx context.Context, userID string, id domain.Identity) (*domain.Assembly, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrBlankUserID
	}

	var assembly *domain.Assembly
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		assembly, err = s.assemblies.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := requireReservedBy(&assembly.ArtifactFields, userID, id); err != nil {
			return err
		}

		assembly.Release()
		assembly.UpdatedAt = time.Now().UTC()
		if err := s.assemblies.Update(ctx, assembly); err != nil {
			return err
		}

		return s.cascade(ctx, assembly.Identity, func(att *domain.Attachment) error {
			att.Release()
			att.UpdatedAt = time.Now().UTC()
			return s.attachments.Update(ctx, att)
		})
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"assembly": id.String(), "user": userID}).Info("assembly freed")
	return assembly, nil
}

// SetState transitions an unreserved assembly to newState and propagates
// the same label verbatim to every linked attachment. Attachment labels are
// not re-validated against their own templates: a cascaded transition
// inherits the assembly's.
func (s *AssemblyService) SetState(ctx context.Context, userID string, id domain.Identity, newState string) (*domain.Assembly, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrBlankUserID
	}

	var assembly *domain.Assembly
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		assembly, err = s.assemblies.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		tpl, err := s.templates.Template(assembly.LifeCycleTemplate)
		if err != nil {
			return err
		}
		if assembly.Reserved {
			return fmt.Errorf("%w: %s", domain.ErrArtifactReserved, id)
		}
		if !tpl.IsKnown(newState) {
			return fmt.Errorf("%w: %q", domain.ErrUnknownState, newState)
		}

		if err := assembly.SetState(newState); err != nil {
			return err
		}
		assembly.UpdatedAt = time.Now().UTC()
		if err := s.assemblies.Update(ctx, assembly); err != nil {
			return err
		}

		return s.cascade(ctx, assembly.Identity, func(att *domain.Attachment) error {
			if err := att.SetState(newState); err != nil {
				return err
			}
			att.UpdatedAt = time.Now().UTC()
			return s.attachments.Update(ctx, att)
		})
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"assembly": id.String(), "state": newState}).Info("assembly state changed")
	return assembly, nil
}

// Revise promotes a final-state assembly to its next version at iteration 1
// and revises every linked attachment the same way, each under its own
// version schema and its own template's initial state.
func (s *AssemblyService) Revise(ctx context.Context, userID string, id domain.Identity) (*domain.Assembly, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrBlankUserID
	}

	var next *domain.Assembly
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		assembly, err := s.assemblies.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		tpl, err := s.templates.Template(assembly.LifeCycleTemplate)
		if err != nil {
			return err
		}
		if assembly.Reserved {
			return fmt.Errorf("%w: %s", domain.ErrArtifactReserved, id)
		}
		if !tpl.IsFinal(assembly.LifeCycleState) {
			return fmt.Errorf("%w: %s is %s", domain.ErrStateNotFinal, id, assembly.LifeCycleState)
		}

		schema, err := s.schemas.Schema(assembly.VersionSchema)
		if err != nil {
			return err
		}
		label, err := schema.NextVersionLabel(assembly.Version)
		if err != nil {
			return err
		}

		next, err = assembly.NextVersion(label, tpl.InitialState())
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		next.CreatedAt = now
		next.UpdatedAt = now
		if err := s.assemblies.Create(ctx, next); err != nil {
			return err
		}

		return s.cascade(ctx, assembly.Identity, func(att *domain.Attachment) error {
			attTpl, err := s.templates.Template(att.LifeCycleTemplate)
			if err != nil {
				return err
			}
			attSchema, err := s.schemas.Schema(att.VersionSchema)
			if err != nil {
				return err
			}
			attLabel, err := attSchema.NextVersionLabel(att.Version)
			if err != nil {
				return err
			}
			nextAtt, err := att.NextVersion(attLabel, attTpl.InitialState())
			if err != nil {
				return err
			}
			nextAtt.CreatedAt = now
			nextAtt.UpdatedAt = now
			return s.attachments.Create(ctx, nextAtt)
		})
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"assembly": next.Identity.String(), "user": userID}).Info("assembly revised")
	return next, nil
}

// Link records that the attachment reference belongs to the assembly
// reference. The relation is by reference only; it binds whatever row of
// the attachment is latest at the time a cascade resolves it.
func (s *AssemblyService) Link(ctx context.Context, assemblyRef, attachmentRef string) error {
	if strings.TrimSpace(assemblyRef) == "" || strings.TrimSpace(attachmentRef) == "" {
		return domain.ErrBlankReference
	}
	return s.links.Link(ctx, assemblyRef, attachmentRef)
}

func (s *AssemblyService) Unlink(ctx context.Context, assemblyRef, attachmentRef string) error {
	if strings.TrimSpace(assemblyRef) == "" || strings.TrimSpace(attachmentRef) == "" {
		return domain.ErrBlankReference
	}
	return s.links.Unlink(ctx, assemblyRef, attachmentRef)
}

// Attachments returns the attachment rows currently linked to the assembly
// at id, resolved as a point-in-time snapshot.
func (s *AssemblyService) Attachments(ctx context.Context, id domain.Identity) ([]*domain.Attachment, error) {
	if _, err := s.assemblies.Get(ctx, id); err != nil {
		return nil, err
	}
	linked, err := s.links.LinkedAttachments(ctx, id)
	if err != nil {
		return nil, err
	}
	attachments := make([]*domain.Attachment, 0, len(linked))
	for _, attID := range linked {
		att, err := s.attachments.Get(ctx, attID)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, att)
	}
	return attachments, nil
}

// cascade resolves the attachments linked to the assembly, locks each row,
// and applies fn. Runs inside the caller's transaction so a failing
// attachment aborts the assembly's own write too.
func (s *AssemblyService) cascade(ctx context.Context, id domain.Identity, fn func(att *domain.Attachment) error) error {
	linked, err := s.links.LinkedAttachments(ctx, id)
	if err != nil {
		return err
	}
	for _, attID := range linked {
		att, err := s.attachments.GetForUpdate(ctx, attID)
		if err != nil {
			return err
		}
		if err := fn(att); err != nil {
			return err
		}
	}
	return nil
}

// requireReservedBy enforces the check-in/update precondition. "Not
// reserved" and "reserved by someone else" reject identically; the two
// sentinels only sharpen diagnostics.
func requireReservedBy(f *domain.ArtifactFields, userID string, id domain.Identity) error {
	if !f.Reserved {
		return fmt.Errorf("%w: %s", domain.ErrNotReserved, id)
	}
	if !f.IsReservedBy(userID) {
		return fmt.Errorf("%w: %s", domain.ErrReservedByOther, id)
	}
	return nil
}
