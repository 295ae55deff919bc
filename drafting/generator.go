// Package drafting holds the pluggable steps that turn a case record into
// plaint text and check the result before it is rendered.
package drafting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"plaintdraft-backend/draft"
	"plaintdraft-backend/models"
)

// ErrGenerationFailed is returned when a generator produced no usable text
var ErrGenerationFailed = errors.New("failed to generate draft")

// StubOutput is the constant body returned by StubGenerator
const StubOutput = "Dummy draft output"

// ProvisionsHeading introduces the statutory provisions appended to a draft
const ProvisionsHeading = "PROVISIONS RELIED UPON"

// Generator produces the body of a plaint. retrieved carries statutory
// provisions found for the record and may be empty.
type Generator interface {
	GenerateDraft(ctx context.Context, rec models.CaseRecord, retrieved []models.LegalProvision) (string, error)
}

// StubGenerator returns StubOutput for every record
type StubGenerator struct{}

// GenerateDraft implements Generator
func (StubGenerator) GenerateDraft(ctx context.Context, _ models.CaseRecord, _ []models.LegalProvision) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return StubOutput, nil
}

// TemplateGenerator fills the fixed plaint template
type TemplateGenerator struct {
	composer *draft.Composer
}

// NewTemplateGenerator creates a template generator. A nil composer uses the default one.
func NewTemplateGenerator(composer *draft.Composer) *TemplateGenerator {
	if composer == nil {
		composer = draft.NewComposer()
	}
	return &TemplateGenerator{composer: composer}
}

// GenerateDraft implements Generator
func (g *TemplateGenerator) GenerateDraft(ctx context.Context, rec models.CaseRecord, retrieved []models.LegalProvision) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body := g.composer.Compose(rec).Body
	return body + FormatProvisions(retrieved), nil
}

// FormatProvisions renders provisions as a headed list. It returns "" when
// there are none.
func FormatProvisions(provisions []models.LegalProvision) string {
	if len(provisions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n" + ProvisionsHeading + "\n")
	for _, p := range provisions {
		if p.Title != "" {
			fmt.Fprintf(&b, "%s: %s\n", p.Citation(), p.Title)
		} else {
			b.WriteString(p.Citation() + "\n")
		}
	}
	return b.String()
}
