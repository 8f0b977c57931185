package preference

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

const table = "preferences"

type Repository interface {
	// Get returns the stored preferences, creating the default row on first
	// use.
	Get(ctx context.Context) (*Preferences, error)
	Update(ctx context.Context, patch Patch) (*Preferences, error)
	Reset(ctx context.Context) (*Preferences, error)
}

type repository struct {
	db      bun.IDB
	metrics *metrics.DatabaseMetrics
}

func NewRepository(db bun.IDB, dbMetrics *metrics.DatabaseMetrics) Repository {
	return &repository{db: db, metrics: dbMetrics}
}

func (r *repository) Get(ctx context.Context) (*Preferences, error) {
	prefs, err := r.latest(ctx)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		return prefs, nil
	}

	defaults := Defaults()
	return r.insert(ctx, &defaults)
}

// Update applies the supplied fields. Without a stored row the patch is
// merged over the defaults and inserted.
func (r *repository) Update(ctx context.Context, patch Patch) (*Preferences, error) {
	if patch.Language != nil {
		if res := validation.Language(*patch.Language); !res.Valid {
			return nil, apperror.Validation(msgInvalidLanguage)
		}
	}
	if patch.IsEmpty() {
		return r.Get(ctx)
	}

	current, err := r.latest(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		prefs := Defaults()
		patch.apply(&prefs)
		return r.insert(ctx, &prefs)
	}

	prefs := &Preferences{ID: current.ID}
	q := r.db.NewUpdate().Model(prefs)
	if patch.EffortColumnVisible != nil {
		q = q.Set("effort_column_visible = ?", *patch.EffortColumnVisible)
	}
	if patch.ShowTotalWhenEffortHidden != nil {
		q = q.Set("show_total_when_effort_hidden = ?", *patch.ShowTotalWhenEffortHidden)
	}
	if patch.Language != nil {
		q = q.Set("language = ?", *patch.Language)
	}

	start := time.Now()
	err = q.WherePK().Returning("*").Scan(ctx)
	r.record(ctx, "update", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", db.MapError(err))
	}
	return prefs, nil
}

// Reset restores the default values.
func (r *repository) Reset(ctx context.Context) (*Preferences, error) {
	defaults := Defaults()
	return r.Update(ctx, Patch{
		EffortColumnVisible:       &defaults.EffortColumnVisible,
		ShowTotalWhenEffortHidden: &defaults.ShowTotalWhenEffortHidden,
		Language:                  &defaults.Language,
	})
}

func (r *repository) latest(ctx context.Context) (*Preferences, error) {
	start := time.Now()
	prefs := new(Preferences)
	err := r.db.NewSelect().
		Model(prefs).
		OrderExpr("pr.id DESC").
		Limit(1).
		Scan(ctx)
	r.record(ctx, "select", start, err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preferences: %w", db.MapError(err))
	}
	return prefs, nil
}

func (r *repository) insert(ctx context.Context, prefs *Preferences) (*Preferences, error) {
	start := time.Now()
	err := r.db.NewInsert().Model(prefs).Returning("*").Scan(ctx)
	r.record(ctx, "insert", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create preferences: %w", db.MapError(err))
	}
	return prefs, nil
}

func (r *repository) record(ctx context.Context, operation string, start time.Time, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	r.metrics.RecordQuery(ctx, operation, table, time.Since(start), err)
}
