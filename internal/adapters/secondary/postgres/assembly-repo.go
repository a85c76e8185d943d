package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"plm-registry-service/internal/core/domain"
	"plm-registry-service/internal/core/ports/output"
)

type assemblyRepo struct {
	pool *pgxpool.Pool
}

func NewAssemblyRepository(pool *pgxpool.Pool) ports.AssemblyRepository {
	return &assemblyRepo{pool: pool}
}

const assemblyColumns = `
	reference, version, iteration, reserved, reserved_by,
	life_cycle_state, life_cycle_template, version_schema,
	designation, material, created_at, updated_at
`

func (r *assemblyRepo) Get(ctx context.Context, id domain.Identity) (*domain.Assembly, error) {
	return r.get(ctx, id, false)
}

func (r *assemblyRepo) GetForUpdate(ctx context.Context, id domain.Identity) (*domain.Assembly, error) {
	return r.get(ctx, id, true)
}

func (r *assemblyRepo) get(ctx context.Context, id domain.Identity, lock bool) (*domain.Assembly, error) {
	query := `
		SELECT ` + assemblyColumns + `
		FROM assembly
		WHERE reference = $1 AND version = $2 AND iteration = $3
	`
	if lock {
		query += " FOR UPDATE"
	}
	row := querierFrom(ctx, r.pool).QueryRow(ctx, query, id.Reference, id.Version, id.Iteration)

	a, err := scanAssembly(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssemblyNotFound
		}
		return nil, mapStoreError(err, "get assembly")
	}
	return a, nil
}

func (r *assemblyRepo) Create(ctx context.Context, a *domain.Assembly) error {
	query := `
		INSERT INTO assembly (` + assemblyColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		a.Reference, a.Version, a.Iteration, a.Reserved, a.ReservedBy,
		a.LifeCycleState, a.LifeCycleTemplate, a.VersionSchema,
		a.Designation, a.Material, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapStoreError(err, "create assembly")
	}
	return nil
}

func (r *assemblyRepo) Update(ctx context.Context, a *domain.Assembly) error {
	query := `
		UPDATE assembly
		SET reserved=$1, reserved_by=$2, life_cycle_state=$3,
			designation=$4, material=$5, updated_at=$6
		WHERE reference=$7 AND version=$8 AND iteration=$9
	`
	result, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		a.Reserved, a.ReservedBy, a.LifeCycleState,
		a.Designation, a.Material, a.UpdatedAt,
		a.Reference, a.Version, a.Iteration,
	)
	if err != nil {
		return mapStoreError(err, "update assembly")
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAssemblyNotFound
	}
	return nil
}

func scanAssembly(row pgx.Row) (*domain.Assembly, error) {
	var a domain.Assembly
	err := row.Scan(
		&a.Reference, &a.Version, &a.Iteration, &a.Reserved, &a.ReservedBy,
		&a.LifeCycleState, &a.LifeCycleTemplate, &a.VersionSchema,
		&a.Designation, &a.Material, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
