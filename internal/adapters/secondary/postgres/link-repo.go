package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"plm-registry-service/internal/core/domain"
	"plm-registry-service/internal/core/ports/output"
)

type linkRepo struct {
	pool *pgxpool.Pool
}

func NewLinkRepository(pool *pgxpool.Pool) ports.LinkRepository {
	return &linkRepo{pool: pool}
}

func (r *linkRepo) Link(ctx context.Context, assemblyRef, attachmentRef string) error {
	query := `
		INSERT INTO assembly_attachment_link (assembly_reference, attachment_reference, created_at)
		VALUES ($1, $2, NOW())
	`
	_, err := querierFrom(ctx, r.pool).Exec(ctx, query, assemblyRef, attachmentRef)
	if err != nil {
		err = mapStoreError(err, "link attachment")
		if errors.Is(err, domain.ErrIdentityConflict) {
			return domain.ErrLinkConflict
		}
		return err
	}
	return nil
}

func (r *linkRepo) Unlink(ctx context.Context, assemblyRef, attachmentRef string) error {
	query := `
		DELETE FROM assembly_attachment_link
		WHERE assembly_reference = $1 AND attachment_reference = $2
	`
	result, err := querierFrom(ctx, r.pool).Exec(ctx, query, assemblyRef, attachmentRef)
	if err != nil {
		return mapStoreError(err, "unlink attachment")
	}
	if result.RowsAffected() == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

// LinkedAttachments resolves each reference linked to the assembly to the
// identity of its latest persisted attachment row. The result is a
// point-in-time snapshot: cascades operate on whatever rows this query saw.
func (r *linkRepo) LinkedAttachments(ctx context.Context, assembly domain.Identity) ([]domain.Identity, error) {
	query := `
		SELECT a.reference, a.version, a.iteration
		FROM assembly_attachment_link l
		JOIN LATERAL (
			SELECT reference, version, iteration
			FROM attachment
			WHERE reference = l.attachment_reference
			ORDER BY created_at DESC, iteration DESC
			LIMIT 1
		) a ON true
		WHERE l.assembly_reference = $1
		ORDER BY a.reference
	`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, assembly.Reference)
	if err != nil {
		return nil, mapStoreError(err, "resolve linked attachments")
	}
	defer rows.Close()

	var linked []domain.Identity
	for rows.Next() {
		var id domain.Identity
		if err := rows.Scan(&id.Reference, &id.Version, &id.Iteration); err != nil {
			return nil, mapStoreError(err, "scan linked attachment")
		}
		linked = append(linked, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err, "resolve linked attachments")
	}
	return linked, nil
}
