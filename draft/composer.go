// Package draft composes the plain-text civil plaint from a case record.
package draft

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"plaintdraft-backend/courtfee"
	"plaintdraft-backend/models"
)

// Draft is the fully substituted, unpaginated pleading.
type Draft struct {
	// Body runs from the court caption to the last numbered section.
	Body string
	// Verification is the footer laid out after the list of documents.
	Verification string
	// Documents holds the valid rows of the list of documents, cleaned.
	Documents []models.DocumentEntry
	Fee       courtfee.Fee
}

// String returns the whole draft as one text blob
func (d Draft) String() string {
	if d.Verification == "" {
		return d.Body
	}
	return d.Body + "\n" + d.Verification
}

// Composer substitutes case record fields into the fixed plaint template
type Composer struct {
	sanitizer *Sanitizer
}

// ComposerOption is a functional option for Composer
type ComposerOption func(*Composer)

// WithSanitizer sets the sanitizer applied to every field
func WithSanitizer(s *Sanitizer) ComposerOption {
	return func(c *Composer) {
		c.sanitizer = s
	}
}

// NewComposer creates a composer. Field content is substituted verbatim
// unless WithSanitizer is given.
func NewComposer(opts ...ComposerOption) *Composer {
	c := &Composer{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Section headings of a composed plaint.
const (
	HeadingFacts         = "I. FACTS OF THE CASE"
	HeadingCauseOfAction = "II. CAUSE OF ACTION"
	HeadingJurisdiction  = "III. JURISDICTION"
	HeadingValuation     = "IV. VALUATION AND COURT FEE"
	HeadingClaim         = "V. CLAIM"
	HeadingRelief        = "VI. RELIEF SOUGHT"
	HeadingSchedule      = "VII. SCHEDULE OF PROPERTY"
	HeadingVerification  = "VERIFICATION"
)

// RequiredHeadings appear in every plaint regardless of the record. The
// property schedule is optional.
var RequiredHeadings = []string{
	HeadingFacts,
	HeadingCauseOfAction,
	HeadingJurisdiction,
	HeadingValuation,
	HeadingClaim,
	HeadingRelief,
}

func (c *Composer) clean(v string) string {
	if c.sanitizer == nil {
		return v
	}
	return c.sanitizer.Clean(v)
}

// amount cleans a money field and drops a typed currency marker, since the
// template prints its own "Rs.".
func (c *Composer) amount(v string) string {
	return courtfee.TrimCurrency(c.clean(v))
}

// Compose renders rec into a Draft. It does not modify rec.
func (c *Composer) Compose(rec models.CaseRecord) Draft {
	fee := courtfee.Calculate(rec.ClaimAmount)

	var b strings.Builder

	fmt.Fprintf(&b, "IN THE HON'BLE COURT OF %s, %s\n\n",
		strings.ToUpper(c.clean(rec.CourtName)), strings.ToUpper(c.clean(rec.CourtLocation)))

	suit := c.clean(rec.SuitType)
	if suit == "" {
		suit = models.DefaultSuitType
	}
	b.WriteString(strings.ToUpper(suit) + "\n\n")

	b.WriteString("PLAINTIFF:\n")
	c.writeParty(&b, rec.Plaintiff)
	b.WriteString("\nVERSUS\n\n")
	b.WriteString("DEFENDANT:\n")
	c.writeParty(&b, rec.Defendant)

	fmt.Fprintf(&b, "\nFiled by: %s, Advocate (Enrolment No. %s)\n",
		c.clean(rec.Advocate.Name), c.clean(rec.Advocate.EnrolmentNumber))
	if addr := c.clean(rec.Advocate.Address); addr != "" {
		b.WriteString(addr + "\n")
	}

	b.WriteString("\nThe plaintiff above named respectfully submits as follows:\n\n")

	b.WriteString(HeadingFacts + "\n")
	b.WriteString(c.contractRecital(rec.Contract) + "\n")
	b.WriteString(c.FormatFacts(rec.Facts))

	b.WriteString("\n" + HeadingCauseOfAction + "\n")
	if breach := rec.Contract.BreachDate.Display(); breach != "" {
		fmt.Fprintf(&b, "The cause of action arose on %s when the defendant committed breach of contract.\n", breach)
	} else {
		b.WriteString("The cause of action arose when the defendant committed breach of contract.\n")
	}

	b.WriteString("\n" + HeadingJurisdiction + "\n")
	fmt.Fprintf(&b, "This Hon'ble Court has jurisdiction because %s.\n",
		strings.TrimSuffix(c.clean(rec.JurisdictionReason), "."))

	claim := c.amount(rec.ClaimAmount)
	b.WriteString("\n" + HeadingValuation + "\n")
	if fee.Valid {
		fmt.Fprintf(&b, "The suit is valued at Rs. %s for the purpose of jurisdiction and court fee. "+
			"Court fee of Rs. %.2f computed at %s%% of the claim is paid herewith.\n",
			claim, fee.Amount, formatPercent(fee.Rate))
	} else {
		fmt.Fprintf(&b, "The suit is valued at Rs. %s for the purpose of jurisdiction and court fee.\n", claim)
	}

	b.WriteString("\n" + HeadingClaim + "\n")
	fmt.Fprintf(&b, "The plaintiff claims Rs. %s along with interest at %s%% per annum.\n",
		claim, strings.TrimSuffix(c.clean(rec.InterestRate), "%"))

	b.WriteString("\n" + HeadingRelief + "\n")
	b.WriteString("The plaintiff therefore prays that this Hon'ble Court may be pleased to:\n")
	b.WriteString(c.clean(rec.ReliefRequested) + "\n")

	if rec.Property != nil {
		b.WriteString("\n" + HeadingSchedule + "\n")
		c.writeSchedule(&b, *rec.Property)
	}

	return Draft{
		Body:         b.String(),
		Verification: c.verification(rec),
		Documents:    c.documents(rec.Documents),
		Fee:          fee,
	}
}

// FormatFacts numbers the non-blank facts contiguously from 1
func (c *Composer) FormatFacts(facts []string) string {
	var b strings.Builder
	n := 1
	for _, fact := range facts {
		text := strings.Join(strings.Fields(c.clean(fact)), " ")
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "%d. %s\n", n, text)
		n++
	}
	return b.String()
}

func (c *Composer) writeParty(b *strings.Builder, p models.Party) {
	fmt.Fprintf(b, "%s, Aged about %s years,", c.clean(p.Name), c.clean(p.Age))
	if occ := c.clean(p.Occupation); occ != "" {
		fmt.Fprintf(b, " Occupation: %s,", occ)
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "Residing at %s\n", c.clean(p.Address))
}

func (c *Composer) contractRecital(k models.Contract) string {
	var b strings.Builder
	b.WriteString("The plaintiff and the defendant entered into a contract")
	if t := c.clean(k.Type); t != "" {
		fmt.Fprintf(&b, " for %s", t)
	}
	if d := k.AgreementDate.Display(); d != "" {
		fmt.Fprintf(&b, " on %s", d)
	}
	if total := c.amount(k.TotalAmount); total != "" {
		fmt.Fprintf(&b, " for a total consideration of Rs. %s", total)
	}
	b.WriteString(".")
	if adv := c.amount(k.AdvancePaid); adv != "" {
		fmt.Fprintf(&b, " The plaintiff paid an advance of Rs. %s under the contract.", adv)
	}
	return b.String()
}

func (c *Composer) writeSchedule(b *strings.Builder, p models.PropertySchedule) {
	line := func(label, v string) {
		if v = c.clean(v); v != "" {
			fmt.Fprintf(b, "%s: %s\n", label, v)
		}
	}
	line("District", p.District)
	line("Taluk", p.Taluk)
	line("Village", p.Village)
	line("Survey No.", p.SurveyNumber)
	line("Extent", p.Extent)
	if desc := c.clean(p.Description); desc != "" {
		b.WriteString(desc + "\n")
	}
	if p.HasBoundaries() {
		b.WriteString("\nBOUNDARIES\n")
		line("North", p.BoundaryNorth)
		line("South", p.BoundarySouth)
		line("East", p.BoundaryEast)
		line("West", p.BoundaryWest)
	}
}

func (c *Composer) verification(rec models.CaseRecord) string {
	var b strings.Builder
	b.WriteString(HeadingVerification + "\n")
	fmt.Fprintf(&b, "I, %s, the plaintiff above named, verify that the contents of this plaint are true to my knowledge.\n\n",
		c.clean(rec.Plaintiff.Name))
	fmt.Fprintf(&b, "Verified at %s\n", c.clean(rec.VerificationPlace))
	fmt.Fprintf(&b, "On %s\n\n", rec.VerificationDate.Display())
	b.WriteString("PLAINTIFF\n\n")
	b.WriteString("ADVOCATE FOR PLAINTIFF\n")
	return b.String()
}

func (c *Composer) documents(entries []models.DocumentEntry) []models.DocumentEntry {
	var out []models.DocumentEntry
	for _, e := range entries {
		cleaned := models.DocumentEntry{
			Date:        c.clean(e.Date),
			ExecutedBy:  c.clean(e.ExecutedBy),
			ExecutedTo:  c.clean(e.ExecutedTo),
			Description: c.clean(e.Description),
			Purpose:     c.clean(e.Purpose),
		}
		if cleaned.Valid() {
			out = append(out, cleaned)
		}
	}
	return out
}

func formatPercent(rate float64) string {
	return strconv.FormatFloat(math.Round(rate*10000)/100, 'f', -1, 64)
}
