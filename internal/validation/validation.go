// Package validation holds the input rules shared by the repositories and
// HTTP handlers. Every function is pure and reports failures through Result
// instead of an error so callers decide how to surface them.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	DescriptionMaxLength = 500
	ProjectNameMaxLength = 100
	EffortMin            = 0.1
	EffortMax            = 1000

	DefaultProjectName = "Untitled Project"

	LanguageEnglish = "en"
	LanguageThai    = "th"
)

const (
	MsgDescriptionRequired = "Requirement description is required"
	MsgDescriptionTooLong  = "Description must not exceed 500 characters"
	MsgEffortRequired      = "Effort value is required"
	MsgEffortNotNumber     = "Effort must be a number"
	MsgProjectNameRequired = "Project name is required"
	MsgProjectNameTooLong  = "Project name must not exceed 100 characters"
	MsgLanguageInvalid     = `Language must be "en" or "th"`
)

// MsgEffortOutOfRange is kept in sync with EffortMin/EffortMax.
var MsgEffortOutOfRange = fmt.Sprintf("Effort must be between %g and %d", EffortMin, EffortMax)

// Result is the outcome of a single validation. Value is only meaningful
// when Valid is true.
type Result[T any] struct {
	Valid bool
	Value T
	Error string
}

func ok[T any](v T) Result[T] { return Result[T]{Valid: true, Value: v} }

func fail[T any](msg string) Result[T] { return Result[T]{Error: msg} }

var validate = validator.New()

// Description trims s and checks it is non-empty and at most 500 characters.
func Description(s string) Result[string] {
	trimmed := strings.TrimSpace(s)
	if validate.Var(trimmed, "required") != nil {
		return fail[string](MsgDescriptionRequired)
	}
	if validate.Var(trimmed, fmt.Sprintf("max=%d", DescriptionMaxLength)) != nil {
		return fail[string](MsgDescriptionTooLong)
	}
	return ok(trimmed)
}

// Effort coerces v to a number and checks it lies in [0.1, 1000].
// Accepted inputs are Go numeric types and numeric strings.
func Effort(v any) Result[float64] {
	var n float64
	switch val := v.(type) {
	case nil:
		return fail[float64](MsgEffortRequired)
	case float64:
		n = val
	case float32:
		n = float64(val)
	case int:
		n = float64(val)
	case int64:
		n = float64(val)
	case int32:
		n = float64(val)
	case *float64:
		if val == nil {
			return fail[float64](MsgEffortRequired)
		}
		n = *val
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return fail[float64](MsgEffortRequired)
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fail[float64](MsgEffortNotNumber)
		}
		n = parsed
	default:
		return fail[float64](MsgEffortNotNumber)
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return fail[float64](MsgEffortNotNumber)
	}
	if n < EffortMin || n > EffortMax {
		return fail[float64](MsgEffortOutOfRange)
	}
	return ok(n)
}

// ProjectName trims s and enforces the length limit. An empty name is valid
// and normalizes to DefaultProjectName.
func ProjectName(s string) Result[string] {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ok(DefaultProjectName)
	}
	if validate.Var(trimmed, fmt.Sprintf("max=%d", ProjectNameMaxLength)) != nil {
		return fail[string](MsgProjectNameTooLong)
	}
	return ok(trimmed)
}

// RequiredProjectName is ProjectName for renames, where an empty name is
// rejected instead of defaulted.
func RequiredProjectName(s string) Result[string] {
	if strings.TrimSpace(s) == "" {
		return fail[string](MsgProjectNameRequired)
	}
	return ProjectName(s)
}

// Language accepts exactly "en" or "th".
func Language(s string) Result[string] {
	if validate.Var(s, "required,oneof=en th") != nil {
		return fail[string](MsgLanguageInvalid)
	}
	return ok(s)
}
