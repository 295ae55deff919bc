// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"time"

	"plaintdraft-backend/models"
)

// CaseRecord returns a fully populated record that passes field validation.
func CaseRecord() models.CaseRecord {
	return models.CaseRecord{
		CourtName:     "PRINCIPAL DISTRICT JUDGE",
		CourtLocation: "BENGALURU",
		Plaintiff: models.Party{
			Name:       "Ravi Kumar",
			Age:        "42",
			Occupation: "Business",
			Address:    "No. 12, 4th Cross, Jayanagar, Bengaluru 560011",
		},
		Defendant: models.Party{
			Name:    "Suresh Rao",
			Age:     "50",
			Address: "No. 7, MG Road, Mysuru 570001",
		},
		Advocate: models.Advocate{
			Name:            "A. Narayan",
			EnrolmentNumber: "KAR/1234/2005",
			Address:         "Advocate Chambers, City Civil Court Complex, Bengaluru",
		},
		Contract: models.Contract{
			Type:          "Supply of construction material",
			AgreementDate: models.NewDate(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)),
			TotalAmount:   "5,00,000",
			AdvancePaid:   "1,50,000",
			BreachDate:    models.NewDate(time.Date(2023, 9, 15, 0, 0, 0, 0, time.UTC)),
		},
		Facts: []string{
			"The plaintiff and the defendant entered into a written agreement for supply of material.",
			"The plaintiff paid an advance of Rs. 1,50,000 to the defendant.",
			"The defendant failed to supply the material within the agreed time despite repeated demands.",
		},
		JurisdictionReason: "the agreement was executed and the advance was paid within the jurisdiction of this Court",
		ClaimAmount:        "1,50,000",
		InterestRate:       "12",
		ReliefRequested:    "Direct the defendant to pay Rs. 1,50,000 with interest and costs of the suit.",
		VerificationPlace:  "Bengaluru",
		VerificationDate:   models.NewDate(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
	}
}

// CaseRecordWithSchedule adds a property schedule and a list of documents.
func CaseRecordWithSchedule() models.CaseRecord {
	rec := CaseRecord()
	rec.Property = &models.PropertySchedule{
		District:      "Bengaluru Urban",
		Taluk:         "Bengaluru South",
		Village:       "Uttarahalli",
		SurveyNumber:  "45/2",
		Extent:        "30 x 40 feet",
		BoundaryNorth: "Road",
		BoundarySouth: "Property of Lakshmi",
		BoundaryEast:  "Conservancy lane",
		BoundaryWest:  "Property of Venkatesh",
		Description:   "Vacant site bearing Khata No. 118",
	}
	rec.Documents = []models.DocumentEntry{
		{Date: "01-03-2023", ExecutedBy: "Defendant", ExecutedTo: "Plaintiff", Description: "Original agreement", Purpose: "To prove the contract"},
		{},
		{Date: "02-03-2023", ExecutedBy: "Defendant", ExecutedTo: "Plaintiff", Description: "Receipt for advance", Purpose: "To prove payment"},
		{Description: "Legal notice dated 01-10-2023", Purpose: "To prove demand"},
	}
	return rec
}
