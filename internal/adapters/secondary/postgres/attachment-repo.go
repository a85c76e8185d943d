package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"plm-registry-service/internal/core/domain"
	"plm-registry-service/internal/core/ports/output"
)

type attachmentRepo struct {
	pool *pgxpool.Pool
}

func NewAttachmentRepository(pool *pgxpool.Pool) ports.AttachmentRepository {
	return &attachmentRepo{pool: pool}
}

const attachmentColumns = `
	reference, version, iteration, reserved, reserved_by,
	life_cycle_state, life_cycle_template, version_schema,
	title, format, created_at, updated_at
`

func (r *attachmentRepo) Get(ctx context.Context, id domain.Identity) (*domain.Attachment, error) {
	return r.get(ctx, id, false)
}

func (r *attachmentRepo) GetForUpdate(ctx context.Context, id domain.Identity) (*domain.Attachment, error) {
	return r.get(ctx, id, true)
}

func (r *attachmentRepo) get(ctx context.Context, id domain.Identity, lock bool) (*domain.Attachment, error) {
	query := `
		SELECT ` + attachmentColumns + `
		FROM attachment
		WHERE reference = $1 AND version = $2 AND iteration = $3
	`
	if lock {
		query += " FOR UPDATE"
	}
	row := querierFrom(ctx, r.pool).QueryRow(ctx, query, id.Reference, id.Version, id.Iteration)

	a, err := scanAttachment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, mapStoreError(err, "get attachment")
	}
	return a, nil
}

func (r *attachmentRepo) Create(ctx context.Context, a *domain.Attachment) error {
	query := `
		INSERT INTO attachment (` + attachmentColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		a.Reference, a.Version, a.Iteration, a.Reserved, a.ReservedBy,
		a.LifeCycleState, a.LifeCycleTemplate, a.VersionSchema,
		a.Title, a.Format, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapStoreError(err, "create attachment")
	}
	return nil
}

func (r *attachmentRepo) Update(ctx context.Context, a *domain.Attachment) error {
	query := `
		UPDATE attachment
		SET reserved=$1, reserved_by=$2, life_cycle_state=$3,
			title=$4, format=$5, updated_at=$6
		WHERE reference=$7 AND version=$8 AND iteration=$9
	`
	result, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		a.Reserved, a.ReservedBy, a.LifeCycleState,
		a.Title, a.Format, a.UpdatedAt,
		a.Reference, a.Version, a.Iteration,
	)
	if err != nil {
		return mapStoreError(err, "update attachment")
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAttachmentNotFound
	}
	return nil
}

func scanAttachment(row pgx.Row) (*domain.Attachment, error) {
	var a domain.Attachment
	err := row.Scan(
		&a.Reference, &a.Version, &a.Iteration, &a.Reserved, &a.ReservedBy,
		&a.LifeCycleState, &a.LifeCycleTemplate, &a.VersionSchema,
		&a.Title, &a.Format, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
