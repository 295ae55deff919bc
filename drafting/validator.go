package drafting

import (
	"context"
	"regexp"
	"strings"

	"plaintdraft-backend/draft"
)

// Result reports whether a generated draft may be rendered
type Result struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Validator checks a generated draft before it is rendered
type Validator interface {
	ValidateDraft(ctx context.Context, text string) (Result, error)
}

// StubValidator accepts every draft
type StubValidator struct{}

// ValidateDraft implements Validator
func (StubValidator) ValidateDraft(ctx context.Context, _ string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return Result{IsValid: true, Errors: []string{}}, nil
}

var placeholderPattern = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_.]*\}`)

// StructureValidator checks that every required section heading is present
// and that no template placeholder was left unfilled.
type StructureValidator struct {
	headings []string
}

// NewStructureValidator creates a validator for the given headings.
// With no headings it checks draft.RequiredHeadings.
func NewStructureValidator(headings ...string) *StructureValidator {
	if len(headings) == 0 {
		headings = draft.RequiredHeadings
	}
	return &StructureValidator{headings: headings}
}

// ValidateDraft implements Validator
func (v *StructureValidator) ValidateDraft(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	errs := []string{}
	if strings.TrimSpace(text) == "" {
		errs = append(errs, "draft is empty")
		return Result{IsValid: false, Errors: errs}, nil
	}

	lines := make(map[string]bool)
	for _, l := range strings.Split(text, "\n") {
		lines[strings.TrimSpace(l)] = true
	}
	for _, h := range v.headings {
		if !lines[h] {
			errs = append(errs, "missing section: "+h)
		}
	}

	for _, p := range placeholderPattern.FindAllString(text, -1) {
		errs = append(errs, "unfilled placeholder: "+p)
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}, nil
}
