package project

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

	"github.com/uptrace/bun"
)

const table = "projects"

type Repository interface {
	// GetCurrent returns the most recently created project.
	GetCurrent(ctx context.Context) (*Project, error)
	GetByID(ctx context.Context, id int) (*Project, error)
	Create(ctx context.Context, name string) (*Project, error)
	Update(ctx context.Context, id int, name string) (*Project, error)
	Delete(ctx context.Context, id int) (bool, error)
	DeleteAll(ctx context.Context) (int, error)
}

type repository struct {
	db      bun.IDB
	metrics *metrics.DatabaseMetrics
}

func NewRepository(db bun.IDB, dbMetrics *metrics.DatabaseMetrics) Repository {
	return &repository{db: db, metrics: dbMetrics}
}

func (r *repository) GetCurrent(ctx context.Context) (*Project, error) {
	start := time.Now()
	project := new(Project)
	err := r.db.NewSelect().
		Model(project).
		OrderExpr("p.id DESC").
		Limit(1).
		Scan(ctx)
	r.record(ctx, "select", start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoProject
		}
		return nil, fmt.Errorf("failed to get current project: %w", db.MapError(err))
	}
	return project, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Project, error) {
	start := time.Now()
	project := new(Project)
	err := r.db.NewSelect().Model(project).Where("p.id = ?", id).Scan(ctx)
	r.record(ctx, "select", start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project %d: %w", id, db.MapError(err))
	}
	return project, nil
}

// Create stores a project named name. A blank name becomes
// validation.DefaultProjectName.
func (r *repository) Create(ctx context.Context, name string) (*Project, error) {
	res := validation.ProjectName(name)
	if !res.Valid {
		return nil, apperror.Validation(res.Error)
	}

	start := time.Now()
	project := &Project{Name: res.Value}
	err := r.db.NewInsert().Model(project).Returning("*").Scan(ctx)
	r.record(ctx, "insert", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", db.MapError(err))
	}
	return project, nil
}

// Update renames the project. lastModifiedAt is maintained by the
// projects_set_last_modified_at trigger.
func (r *repository) Update(ctx context.Context, id int, name string) (*Project, error) {
	res := validation.RequiredProjectName(name)
	if !res.Valid {
		return nil, apperror.Validation(res.Error)
	}

	start := time.Now()
	project := &Project{ID: id, Name: res.Value}
	err := r.db.NewUpdate().
		Model(project).
		Column("name").
		WherePK().
		Returning("*").
		Scan(ctx)
	r.record(ctx, "update", start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project %d: %w", id, db.MapError(err))
	}
	return project, nil
}

// Delete removes the project and, through the foreign key, its requirements.
func (r *repository) Delete(ctx context.Context, id int) (bool, error) {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Project)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	r.record(ctx, "delete", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to delete project %d: %w", id, db.MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (r *repository) DeleteAll(ctx context.Context) (int, error) {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Project)(nil)).
		Where("TRUE").
		Exec(ctx)
	r.record(ctx, "delete", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete projects: %w", db.MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rowsAffected), nil
}

func (r *repository) record(ctx context.Context, operation string, start time.Time, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	r.metrics.RecordQuery(ctx, operation, table, time.Since(start), err)
}
