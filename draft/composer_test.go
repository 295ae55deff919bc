package draft

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plaintdraft-backend/testsupport"
)

func TestFormatFacts_RenumbersSkippingBlanks(t *testing.T) {
	c := NewComposer()
	got := c.FormatFacts([]string{"", "A", "  ", "B"})
	assert.Equal(t, "1. A\n2. B\n", got)
}

func TestCompose_FactsEnumeratedInOrder(t *testing.T) {
	rec := testsupport.CaseRecord()
	rec.Facts = []string{"", "A", "  ", "B"}

	d := NewComposer().Compose(rec)

	var numbered []string
	for _, line := range strings.Split(d.Body, "\n") {
		if len(line) > 1 && line[0] >= '0' && line[0] <= '9' {
			numbered = append(numbered, line)
		}
	}
	assert.Equal(t, []string{"1. A", "2. B"}, numbered)
}

func TestCompose_Sections(t *testing.T) {
	rec := testsupport.CaseRecord()
	d := NewComposer().Compose(rec)

	for _, heading := range []string{
		"IN THE HON'BLE COURT OF PRINCIPAL DISTRICT JUDGE, BENGALURU",
		"CIVIL SUIT FOR BREACH OF CONTRACT",
		"PLAINTIFF:",
		"DEFENDANT:",
		"I. FACTS OF THE CASE",
		"II. CAUSE OF ACTION",
		"III. JURISDICTION",
		"IV. VALUATION AND COURT FEE",
		"V. CLAIM",
		"VI. RELIEF SOUGHT",
	} {
		assert.Contains(t, d.Body, heading+"\n")
	}
	assert.NotContains(t, d.Body, "SCHEDULE OF PROPERTY")

	assert.Contains(t, d.Body, "Ravi Kumar, Aged about 42 years, Occupation: Business,\nResiding at No. 12, 4th Cross")
	assert.Contains(t, d.Body, "The cause of action arose on 15-09-2023 when the defendant committed breach of contract.")
	assert.Contains(t, d.Body, "Court fee of Rs. 7500.00 computed at 5% of the claim")
	assert.Contains(t, d.Body, "The plaintiff claims Rs. 1,50,000 along with interest at 12% per annum.")

	assert.True(t, strings.HasPrefix(d.Verification, "VERIFICATION\n"))
	assert.Contains(t, d.Verification, "I, Ravi Kumar, the plaintiff above named")
	assert.Contains(t, d.Verification, "Verified at Bengaluru\nOn 10-01-2024\n")
	assert.Equal(t, d.Body+"\n"+d.Verification, d.String())
}

func TestCompose_PropertyScheduleAndDocuments(t *testing.T) {
	rec := testsupport.CaseRecordWithSchedule()
	d := NewComposer().Compose(rec)

	assert.Contains(t, d.Body, "VII. SCHEDULE OF PROPERTY\nDistrict: Bengaluru Urban\nTaluk: Bengaluru South\n")
	assert.Contains(t, d.Body, "BOUNDARIES\nNorth: Road\nSouth: Property of Lakshmi\n")

	require.Len(t, d.Documents, 3)
	assert.Equal(t, "Original agreement", d.Documents[0].Description)
	assert.Equal(t, "Legal notice dated 01-10-2023", d.Documents[2].Description)
}

func TestCompose_InvalidFeeOmitsFeeSentence(t *testing.T) {
	rec := testsupport.CaseRecord()
	rec.ClaimAmount = "unknown"

	d := NewComposer().Compose(rec)
	assert.False(t, d.Fee.Valid)
	assert.NotContains(t, d.Body, "Court fee of Rs.")
}

func TestCompose_DoesNotMutateInput(t *testing.T) {
	rec := testsupport.CaseRecordWithSchedule()
	before := rec.Clone()

	NewComposer().Compose(rec)
	assert.Equal(t, before, rec)
}

func TestCompose_Deterministic(t *testing.T) {
	rec := testsupport.CaseRecordWithSchedule()
	c := NewComposer()
	assert.Equal(t, c.Compose(rec), c.Compose(rec))
}

func TestCompose_SubstitutesFieldsVerbatim(t *testing.T) {
	rec := testsupport.CaseRecord()
	rec.Facts = []string{
		"Notice was emailed to the defendant <defendant@example.com> on 1 March.",
		"Clause <b>7</b> applies if amount<5000 and x <y.",
		"a <b> c",
	}
	rec.Defendant.Name = "M/s Rao & Sons"

	d := NewComposer().Compose(rec)
	assert.Contains(t, d.Body, "1. Notice was emailed to the defendant <defendant@example.com> on 1 March.")
	assert.Contains(t, d.Body, "2. Clause <b>7</b> applies if amount<5000 and x <y.")
	assert.Contains(t, d.Body, "3. a <b> c")
	assert.Contains(t, d.Body, "M/s Rao & Sons, Aged about")
}

func TestCompose_WithSanitizer(t *testing.T) {
	rec := testsupport.CaseRecord()
	rec.Plaintiff.Name = "<b>Ravi</b> Kumar\x07"
	rec.Facts = []string{"Reply sent to <x@y.z>.\r\nNo response."}

	d := NewComposer(WithSanitizer(NewSanitizer())).Compose(rec)
	assert.Contains(t, d.Body, "<b>Ravi</b> Kumar, Aged about")
	assert.Contains(t, d.Body, "1. Reply sent to <x@y.z>. No response.")

	stripped := NewComposer(WithSanitizer(NewSanitizer(StripMarkup()))).Compose(rec)
	assert.Contains(t, stripped.Body, "Ravi Kumar, Aged about")
	assert.NotContains(t, stripped.Body, "<b>")
}

func TestCompose_ClaimCurrencyPrefixNotDoubled(t *testing.T) {
	rec := testsupport.CaseRecord()
	rec.ClaimAmount = "Rs. 50,000"
	rec.Contract.TotalAmount = "INR 2,00,000"
	rec.Contract.AdvancePaid = "₹50,000"

	d := NewComposer().Compose(rec)
	require.True(t, d.Fee.Valid)
	assert.Contains(t, d.Body, "valued at Rs. 50,000 for the purpose")
	assert.Contains(t, d.Body, "claims Rs. 50,000 along")
	assert.Contains(t, d.Body, "total consideration of Rs. 2,00,000")
	assert.Contains(t, d.Body, "advance of Rs. 50,000 under")
	assert.NotContains(t, d.Body, "Rs. Rs.")
	assert.NotContains(t, d.Body, "Rs. INR")
}

func TestSanitizer_Clean(t *testing.T) {
	s := NewSanitizer()
	assert.Equal(t, "line one\nline two", s.Clean("  line one\r\nline two  "))
	assert.Equal(t, "a <b> c", s.Clean("a <b> c"))
	assert.Equal(t, "<x@y.z>", s.Clean("<x@y.z>"))
	assert.Equal(t, "tab separated", s.Clean("tab\tseparated"))
	assert.Equal(t, "bell", s.Clean("bell\x07"))

	strip := NewSanitizer(StripMarkup())
	assert.Equal(t, "a < b", strip.Clean("a < b"))
	assert.Equal(t, "", strip.Clean("<i></i>"))
	assert.Equal(t, "M/s A & B", strip.Clean("M/s A & B"))
}
