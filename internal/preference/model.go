package preference

import (
	"time"

	"github.com/patsapolpro/web-starter-kit-ai/internal/validation"

	"github.com/uptrace/bun"
)

const msgInvalidLanguage = `Invalid language. Must be "en" or "th"`

type Preferences struct {
	bun.BaseModel `bun:"table:preferences,alias:pr"`

	ID                        int       `bun:"id,pk,autoincrement" json:"id"`
	EffortColumnVisible       bool      `bun:"effort_column_visible,notnull" json:"effortColumnVisible"`
	ShowTotalWhenEffortHidden bool      `bun:"show_total_when_effort_hidden,notnull" json:"showTotalWhenEffortHidden"`
	Language                  string    `bun:"language,notnull" json:"language"`
	LastUpdatedAt             time.Time `bun:"last_updated_at,nullzero,notnull,default:current_timestamp" json:"lastUpdatedAt"`
}

// Defaults returns the preferences a fresh install starts with.
func Defaults() Preferences {
	return Preferences{
		EffortColumnVisible:       true,
		ShowTotalWhenEffortHidden: true,
		Language:                  validation.LanguageEnglish,
	}
}

type Patch struct {
	EffortColumnVisible       *bool   `json:"effortColumnVisible"`
	ShowTotalWhenEffortHidden *bool   `json:"showTotalWhenEffortHidden"`
	Language                  *string `json:"language"`
}

func (p Patch) IsEmpty() bool {
	return p.EffortColumnVisible == nil && p.ShowTotalWhenEffortHidden == nil && p.Language == nil
}

// apply overlays the supplied fields of p onto prefs.
func (p Patch) apply(prefs *Preferences) {
	if p.EffortColumnVisible != nil {
		prefs.EffortColumnVisible = *p.EffortColumnVisible
	}
	if p.ShowTotalWhenEffortHidden != nil {
		prefs.ShowTotalWhenEffortHidden = *p.ShowTotalWhenEffortHidden
	}
	if p.Language != nil {
		prefs.Language = *p.Language
	}
}
