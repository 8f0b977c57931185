package requirement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/patsapolpro/web-starter-kit-ai/internal/apperror"
	"github.com/patsapolpro/web-starter-kit-ai/internal/db"
	"github.com/patsapolpro/web-starter-kit-ai/internal/metrics"
	"github.com/patsapolpro/web-starter-kit-ai/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

const (
	table = "requirements"

	// totalPlaces is the precision of reported effort totals.
	totalPlaces = 2
)

type Repository interface {
	// List returns the project's requirements in creation order.
	List(ctx context.Context, projectID int) ([]Requirement, error)
	GetByID(ctx context.Context, id int) (*Requirement, error)
	Create(ctx context.Context, projectID int, description string, effort any) (*Requirement, error)
	Update(ctx context.Context, id int, patch Patch) (*Requirement, error)
	ToggleStatus(ctx context.Context, id int) (*Requirement, error)
	Delete(ctx context.Context, id int) (bool, error)
	DeleteAllForProject(ctx context.Context, projectID int) (int, error)
	TotalActiveEffort(ctx context.Context, projectID int) (decimal.Decimal, error)
	Summary(ctx context.Context, projectID int) (*Summary, error)
}

type repository struct {
	db      bun.IDB
	metrics *metrics.DatabaseMetrics
}

func NewRepository(db bun.IDB, dbMetrics *metrics.DatabaseMetrics) Repository {
	return &repository{db: db, metrics: dbMetrics}
}

func (r *repository) List(ctx context.Context, projectID int) ([]Requirement, error) {
	start := time.Now()
	requirements := make([]Requirement, 0)
	err := r.db.NewSelect().
		Model(&requirements).
		Where("r.project_id = ?", projectID).
		OrderExpr("r.created_at ASC, r.id ASC").
		Scan(ctx)
	r.record(ctx, "select", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements of project %d: %w", projectID, db.MapError(err))
	}
	return requirements, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Requirement, error) {
	start := time.Now()
	requirement := new(Requirement)
	err := r.db.NewSelect().Model(requirement).Where("r.id = ?", id).Scan(ctx)
	r.record(ctx, "select", start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequirementNotFound
		}
		return nil, fmt.Errorf("failed to get requirement %d: %w", id, db.MapError(err))
	}
	return requirement, nil
}

// Create validates and stores a new active requirement. A projectID with no
// matching project fails with db.ErrForeignKeyViolation.
func (r *repository) Create(ctx context.Context, projectID int, description string, effort any) (*Requirement, error) {
	desc := validation.Description(description)
	if !desc.Valid {
		return nil, apperror.Validation(desc.Error)
	}
	eff := validation.Effort(effort)
	if !eff.Valid {
		return nil, apperror.Validation(eff.Error)
	}

	start := time.Now()
	requirement := &Requirement{
		ProjectID:   projectID,
		Description: desc.Value,
		Effort:      eff.Value,
		IsActive:    true,
	}
	err := r.db.NewInsert().Model(requirement).Returning("*").Scan(ctx)
	r.record(ctx, "insert", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create requirement: %w", db.MapError(err))
	}
	return requirement, nil
}

// Update applies the supplied fields of patch. An empty patch returns the
// current row untouched.
func (r *repository) Update(ctx context.Context, id int, patch Patch) (*Requirement, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	requirement := &Requirement{ID: id}
	q := r.db.NewUpdate().Model(requirement)

	if patch.Description != nil {
		res := validation.Description(*patch.Description)
		if !res.Valid {
			return nil, apperror.Validation(res.Error)
		}
		q = q.Set("description = ?", res.Value)
	}
	if patch.Effort != nil {
		res := validation.Effort(*patch.Effort)
		if !res.Valid {
			return nil, apperror.Validation(res.Error)
		}
		q = q.Set("effort = ?", res.Value)
	}
	if patch.IsActive != nil {
		q = q.Set("is_active = ?", *patch.IsActive)
	}

	start := time.Now()
	err := q.WherePK().Returning("*").Scan(ctx)
	r.record(ctx, "update", start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequirementNotFound
		}
		return nil, fmt.Errorf("failed to update requirement %d: %w", id, db.MapError(err))
	}
	return requirement, nil
}

func (r *repository) ToggleStatus(ctx context.Context, id int) (*Requirement, error) {
	start := time.Now()
	requirement := &Requirement{ID: id}
	err := r.db.NewUpdate().
		Model(requirement).
		Set("is_active = NOT is_active").
		WherePK().
		Returning("*").
		Scan(ctx)
	r.record(ctx, "update", start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequirementNotFound
		}
		return nil, fmt.Errorf("failed to toggle requirement %d: %w", id, db.MapError(err))
	}
	return requirement, nil
}

func (r *repository) Delete(ctx context.Context, id int) (bool, error) {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Requirement)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	r.record(ctx, "delete", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to delete requirement %d: %w", id, db.MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (r *repository) DeleteAllForProject(ctx context.Context, projectID int) (int, error) {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Requirement)(nil)).
		Where("project_id = ?", projectID).
		Exec(ctx)
	r.record(ctx, "delete", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete requirements of project %d: %w", projectID, db.MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rowsAffected), nil
}

// TotalActiveEffort sums the effort of active requirements, rounded half
// away from zero to two places. Zero when there are none.
func (r *repository) TotalActiveEffort(ctx context.Context, projectID int) (decimal.Decimal, error) {
	start := time.Now()
	var total decimal.Decimal
	err := r.db.NewSelect().
		Model((*Requirement)(nil)).
		ColumnExpr("COALESCE(SUM(r.effort), 0)").
		Where("r.project_id = ?", projectID).
		Where("r.is_active").
		Scan(ctx, &total)
	r.record(ctx, "select", start, err)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum effort of project %d: %w", projectID, db.MapError(err))
	}
	return total.Round(totalPlaces), nil
}

func (r *repository) Summary(ctx context.Context, projectID int) (*Summary, error) {
	start := time.Now()
	var (
		total       decimal.Decimal
		activeCount int
		totalCount  int
	)
	err := r.db.NewSelect().
		Model((*Requirement)(nil)).
		ColumnExpr("COALESCE(SUM(r.effort) FILTER (WHERE r.is_active), 0)").
		ColumnExpr("COUNT(*) FILTER (WHERE r.is_active)").
		ColumnExpr("COUNT(*)").
		Where("r.project_id = ?", projectID).
		Scan(ctx, &total, &activeCount, &totalCount)
	r.record(ctx, "select", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize project %d: %w", projectID, db.MapError(err))
	}

	return &Summary{
		TotalActiveEffort: total.Round(totalPlaces).InexactFloat64(),
		ActiveCount:       activeCount,
		TotalCount:        totalCount,
	}, nil
}

func (r *repository) record(ctx context.Context, operation string, start time.Time, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	r.metrics.RecordQuery(ctx, operation, table, time.Since(start), err)
}
