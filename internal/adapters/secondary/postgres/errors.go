package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"plm-registry-service/internal/core/domain"
)

// mapStoreError translates driver-level failures into the domain taxonomy.
// Deadline and cancellation surface as Unavailable so callers can retry
// with backoff; everything else is wrapped with the failing operation.
func mapStoreError(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return domain.ErrIdentityConflict
		case "57014", "55P03": // statement timeout, lock not available
			return fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, op)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
