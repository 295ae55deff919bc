// Package validation checks that a case record carries every field a plaint needs.
package validation

import (
	"strings"

	"plaintdraft-backend/courtfee"
	"plaintdraft-backend/models"
)

// Labels reported for missing or invalid input.
const (
	LabelCourtName          = "Name of the Court"
	LabelCourtLocation      = "Court Location"
	LabelPlaintiffName      = "Plaintiff Name"
	LabelPlaintiffAge       = "Plaintiff Age"
	LabelPlaintiffAddress   = "Plaintiff Address"
	LabelDefendantName      = "Defendant Name"
	LabelDefendantAge       = "Defendant Age"
	LabelDefendantAddress   = "Defendant Address"
	LabelAdvocateName       = "Advocate Name"
	LabelAdvocateEnrolment  = "Advocate Enrolment Number"
	LabelContractType       = "Type of Contract"
	LabelContractAmount     = "Total Contract Amount"
	LabelClaimAmount        = "Claim Amount"
	LabelInterestRate       = "Interest Rate (%)"
	LabelJurisdictionReason = "Reason for Jurisdiction"
	LabelReliefRequested    = "Relief Requested"
	LabelVerificationPlace  = "Place of Verification"
	LabelFacts              = "Facts of the Case (at least one)"
	LabelInvalidClaimAmount = "Claim Amount (invalid number)"
)

// RequiredField pairs a label with the accessor for its value.
type RequiredField struct {
	Label string
	Value func(models.CaseRecord) string
}

// RequiredFields is the fixed, ordered list of required scalar fields.
var RequiredFields = []RequiredField{
	{LabelCourtName, func(r models.CaseRecord) string { return r.CourtName }},
	{LabelCourtLocation, func(r models.CaseRecord) string { return r.CourtLocation }},
	{LabelPlaintiffName, func(r models.CaseRecord) string { return r.Plaintiff.Name }},
	{LabelPlaintiffAge, func(r models.CaseRecord) string { return r.Plaintiff.Age }},
	{LabelPlaintiffAddress, func(r models.CaseRecord) string { return r.Plaintiff.Address }},
	{LabelDefendantName, func(r models.CaseRecord) string { return r.Defendant.Name }},
	{LabelDefendantAge, func(r models.CaseRecord) string { return r.Defendant.Age }},
	{LabelDefendantAddress, func(r models.CaseRecord) string { return r.Defendant.Address }},
	{LabelAdvocateName, func(r models.CaseRecord) string { return r.Advocate.Name }},
	{LabelAdvocateEnrolment, func(r models.CaseRecord) string { return r.Advocate.EnrolmentNumber }},
	{LabelContractType, func(r models.CaseRecord) string { return r.Contract.Type }},
	{LabelContractAmount, func(r models.CaseRecord) string { return r.Contract.TotalAmount }},
	{LabelClaimAmount, func(r models.CaseRecord) string { return r.ClaimAmount }},
	{LabelInterestRate, func(r models.CaseRecord) string { return r.InterestRate }},
	{LabelJurisdictionReason, func(r models.CaseRecord) string { return r.JurisdictionReason }},
	{LabelReliefRequested, func(r models.CaseRecord) string { return r.ReliefRequested }},
	{LabelVerificationPlace, func(r models.CaseRecord) string { return r.VerificationPlace }},
}

// Validate returns the labels of every missing or invalid field, in form order.
// The result is empty iff the record can be rendered.
//
// An invalid fee is only reported when a claim amount was entered; a blank
// amount is already reported as missing.
func Validate(rec models.CaseRecord, fee courtfee.Fee) []string {
	var missing []string
	for _, f := range RequiredFields {
		if strings.TrimSpace(f.Value(rec)) == "" {
			missing = append(missing, f.Label)
		}
	}

	if !HasFacts(rec.Facts) {
		missing = append(missing, LabelFacts)
	}

	if !fee.Valid && strings.TrimSpace(rec.ClaimAmount) != "" {
		missing = append(missing, LabelInvalidClaimAmount)
	}

	return missing
}

// HasFacts reports whether at least one fact line is non-blank
func HasFacts(facts []string) bool {
	for _, f := range facts {
		if strings.TrimSpace(f) != "" {
			return true
		}
	}
	return false
}
