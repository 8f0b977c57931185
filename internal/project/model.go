package project

import (
	"time"

	"github.com/patsapolpro/web-starter-kit-ai/internal/apperror"

	"github.com/uptrace/bun"
)

var (
	ErrNoProject       = apperror.NotFound("No project found")
	ErrProjectNotFound = apperror.NotFound("Project not found")
)

type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID             int       `bun:"id,pk,autoincrement" json:"id"`
	Name           string    `bun:"name,notnull" json:"name"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	LastModifiedAt time.Time `bun:"last_modified_at,nullzero,notnull,default:current_timestamp" json:"lastModifiedAt"`
}
