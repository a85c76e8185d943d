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

// AttachmentService is the lifecycle engine for attachments addressed
// directly, outside any assembly cascade. The preconditions are identical
// to the assembly's; there is simply nothing to cascade to.
type AttachmentService struct {
	attachments ports.AttachmentRepository
	templates   ports.TemplateRegistry
	schemas     ports.SchemaRegistry
	tx          ports.TxManager
}

func NewAttachmentService(
	attachments ports.AttachmentRepository,
	templates ports.TemplateRegistry,
	schemas ports.SchemaRegistry,
	tx ports.TxManager,
) *AttachmentService {
	return &AttachmentService{
		attachments: attachments,
		templates:   templates,
		schemas:     schemas,
		tx:          tx,
	}
}

// Create seeds the first version/iteration of an attachment.
func (s *AttachmentService) Create(ctx context.Context, id domain.Identity, template, schema, state, title, format string) (*domain.Attachment, error) {
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

	attachment, err := domain.NewAttachment(id, template, schema, state, title, format)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	attachment.CreatedAt = now
	attachment.UpdatedAt = now

	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *AttachmentService) Get(ctx context.Context, id domain.Identity) (*domain.Attachment, error) {
	return s.attachments.Get(ctx, id)
}

// Reserve checks out the attachment at id for userID, creating its next
// iteration.
func (s *AttachmentService) Reserve(ctx context.Context, userID string, id domain.Identity) (*domain.Attachment, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrBlankUserID
	}

	var next *domain.Attachment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		attachment, err := s.attachments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		tpl, err := s.templates.Template(attachment.LifeCycleTemplate)
		if err != nil {
			return err
		}
		if attachment.Reserved {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyReserved, id)
		}
		if tpl.IsFinal(attachment.LifeCycleState) {
			return fmt.Errorf("%w: %s is %s", domain.ErrStateFinal, id, attachment.LifeCycleState)
		}

		next, err = attachment.NextIteration(userID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		next.CreatedAt = now
		next.UpdatedAt = now
		return s.attachments.Create(ctx, next)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"attachment": next.Identity.String(), "user": userID}).Info("attachment reserved")
	return next, nil
}

func (s *AttachmentService) Update(ctx context.Context, userID string, id domain.Identity, title, format string) (*domain.Attachment, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrBlankUserID
	}

	var attachment *domain.Attachment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		attachment, err = s.attachments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := requireReservedBy(&attachment.ArtifactFields, userID, id); err != nil {
			return err
		}
		if err := attachment.SetAttributes(title, format); err != nil {
			return err
		}
		attachment.UpdatedAt = time.Now().UTC()
		return s.attachments.Update(ctx, attachment)
	})
	if err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *AttachmentService) Free(ctx context.Context, userID string, id domain.Identity) (*domain.Attachment, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrBlankUserID
	}

	var attachment *domain.Attachment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		attachment, err = s.attachments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := requireReservedBy(&attachment.ArtifactFields, userID, id); err != nil {
			return err
		}
		attachment.Release()
		attachment.UpdatedAt = time.Now().UTC()
		return s.attachments.Update(ctx, attachment)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"attachment": id.String(), "user": userID}).Info("attachment freed")
	return attachment, nil
}

func (s *AttachmentService) SetState(ctx context.Context, userID string, id domain.Identity, newState string) (*domain.Attachment, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrBlankUserID
	}

	var attachment *domain.Attachment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		attachment, err = s.attachments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		tpl, err := s.templates.Template(attachment.LifeCycleTemplate)
		if err != nil {
			return err
		}
		if attachment.Reserved {
			return fmt.Errorf("%w: %s", domain.ErrArtifactReserved, id)
		}
		if !tpl.IsKnown(newState) {
			return fmt.Errorf("%w: %q", domain.ErrUnknownState, newState)
		}
		if err := attachment.SetState(newState); err != nil {
			return err
		}
		attachment.UpdatedAt = time.Now().UTC()
		return s.attachments.Update(ctx, attachment)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"attachment": id.String(), "state": newState}).Info("attachment state changed")
	return attachment, nil
}

func (s *AttachmentService) Revise(ctx context.Context, userID string, id domain.Identity) (*domain.Attachment, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrBlankUserID
	}

	var next *domain.Attachment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		attachment, err := s.attachments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		tpl, err := s.templates.Template(attachment.LifeCycleTemplate)
		if err != nil {
			return err
		}
		if attachment.Reserved {
			return fmt.Errorf("%w: %s", domain.ErrArtifactReserved, id)
		}
		if !tpl.IsFinal(attachment.LifeCycleState) {
			return fmt.Errorf("%w: %s is %s", domain.ErrStateNotFinal, id, attachment.LifeCycleState)
		}

		schema, err := s.schemas.Schema(attachment.VersionSchema)
		if err != nil {
			return err
		}
		label, err := schema.NextVersionLabel(attachment.Version)
		if err != nil {
			return err
		}

		next, err = attachment.NextVersion(label, tpl.InitialState())
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		next.CreatedAt = now
		next.UpdatedAt = now
		return s.attachments.Create(ctx, next)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"attachment": next.Identity.String(), "user": userID}).Info("attachment revised")
	return next, nil
}
