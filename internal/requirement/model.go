package requirement

import (
	"time"

	"github.com/patsapolpro/web-starter-kit-ai/internal/apperror"

	"github.com/uptrace/bun"
)

var ErrRequirementNotFound = apperror.NotFound("Requirement not found")

// Requirement is one line item of the current project. Effort is stored as
// NUMERIC so submitted decimals come back exactly.
type Requirement struct {
	bun.BaseModel `bun:"table:requirements,alias:r"`

	ID             int       `bun:"id,pk,autoincrement" json:"id"`
	ProjectID      int       `bun:"project_id,notnull" json:"projectId"`
	Description    string    `bun:"description,notnull" json:"description"`
	Effort         float64   `bun:"effort,type:numeric,notnull" json:"effort"`
	IsActive       bool      `bun:"is_active,notnull,default:true" json:"isActive"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	LastModifiedAt time.Time `bun:"last_modified_at,nullzero,notnull,default:current_timestamp" json:"lastModifiedAt"`
}

// Patch carries the fields of a partial update. Nil fields are left as they
// are.
type Patch struct {
	Description *string  `json:"description"`
	Effort      *float64 `json:"effort"`
	IsActive    *bool    `json:"isActive"`
}

func (p Patch) IsEmpty() bool {
	return p.Description == nil && p.Effort == nil && p.IsActive == nil
}

// Summary backs the total card: active effort plus counts.
type Summary struct {
	TotalActiveEffort float64 `json:"totalActiveEffort"`
	ActiveCount       int     `json:"activeCount"`
	TotalCount        int     `json:"totalCount"`
}
