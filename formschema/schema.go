// Package formschema describes the intake form a client renders to collect a
// case record.
package formschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"plaintdraft-backend/validation"
)

// Field types understood by clients.
const (
	TypeText     = "text"
	TypeNumber   = "number"
	TypeDate     = "date"
	TypeTextarea = "textarea"
)

var knownTypes = map[string]bool{
	TypeText:     true,
	TypeNumber:   true,
	TypeDate:     true,
	TypeTextarea: true,
}

// ErrInvalidSchema wraps every schema validation failure
var ErrInvalidSchema = errors.New("invalid form schema")

// Field is one input. Name is the dotted JSON path into the case record.
type Field struct {
	Name       string `json:"name" yaml:"name"`
	Label      string `json:"label" yaml:"label"`
	Type       string `json:"type" yaml:"type"`
	Required   bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Repeatable bool   `json:"repeatable,omitempty" yaml:"repeatable,omitempty"`
}

// Section groups related fields under a title
type Section struct {
	Title  string  `json:"title" yaml:"title"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Schema is the full intake form
type Schema struct {
	Title    string    `json:"title" yaml:"title"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Load reads a schema from a .json, .yaml or .yml file and validates it
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formschema: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data according to the extension of source
func Parse(data []byte, source string) (*Schema, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("formschema: file %s is empty", source)
	}

	var s Schema
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		dec := json.NewDecoder(strings.NewReader(string(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("formschema: parse %s: %w", source, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("formschema: parse %s: %w", source, err)
		}
	default:
		return nil, fmt.Errorf("formschema: %s is not a JSON or YAML file", source)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("formschema: %s: %w", source, err)
	}
	return &s, nil
}

// Validate rejects empty or duplicate field names and unknown field types
func (s *Schema) Validate() error {
	if len(s.Sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalidSchema)
	}
	seen := make(map[string]bool)
	for i, sec := range s.Sections {
		if strings.TrimSpace(sec.Title) == "" {
			return fmt.Errorf("%w: section %d has no title", ErrInvalidSchema, i+1)
		}
		for _, f := range sec.Fields {
			name := strings.TrimSpace(f.Name)
			if name == "" {
				return fmt.Errorf("%w: section %q has a field without a name", ErrInvalidSchema, sec.Title)
			}
			if seen[name] {
				return fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, name)
			}
			seen[name] = true
			if !knownTypes[f.Type] {
				return fmt.Errorf("%w: field %q has unknown type %q", ErrInvalidSchema, name, f.Type)
			}
		}
	}
	return nil
}

// Field looks a field up by name
func (s *Schema) Field(name string) (Field, bool) {
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return Field{}, false
}

// RequiredLabels lists the labels of required fields in form order
func (s *Schema) RequiredLabels() []string {
	var out []string
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			if f.Required {
				out = append(out, f.Label)
			}
		}
	}
	return out
}

func req(name, label, typ string) Field {
	return Field{Name: name, Label: label, Type: typ, Required: true}
}

func opt(name, label, typ string) Field {
	return Field{Name: name, Label: label, Type: typ}
}

// Default returns the built-in breach of contract intake form
func Default() *Schema {
	return &Schema{
		Title: "Civil Plaint: Breach of Contract",
		Sections: []Section{
			{Title: "Court", Fields: []Field{
				req("court_name", validation.LabelCourtName, TypeText),
				req("court_location", validation.LabelCourtLocation, TypeText),
				opt("suit_type", "Suit Title", TypeText),
			}},
			{Title: "Plaintiff", Fields: []Field{
				req("plaintiff.name", validation.LabelPlaintiffName, TypeText),
				req("plaintiff.age", validation.LabelPlaintiffAge, TypeNumber),
				opt("plaintiff.occupation", "Plaintiff Occupation", TypeText),
				req("plaintiff.address", validation.LabelPlaintiffAddress, TypeTextarea),
			}},
			{Title: "Defendant", Fields: []Field{
				req("defendant.name", validation.LabelDefendantName, TypeText),
				req("defendant.age", validation.LabelDefendantAge, TypeNumber),
				opt("defendant.occupation", "Defendant Occupation", TypeText),
				req("defendant.address", validation.LabelDefendantAddress, TypeTextarea),
			}},
			{Title: "Advocate", Fields: []Field{
				req("advocate.name", validation.LabelAdvocateName, TypeText),
				req("advocate.enrolment_number", validation.LabelAdvocateEnrolment, TypeText),
				opt("advocate.address", "Advocate Address", TypeTextarea),
				opt("advocate.phone", "Advocate Phone", TypeText),
			}},
			{Title: "Contract", Fields: []Field{
				req("contract.type", validation.LabelContractType, TypeText),
				opt("contract.agreement_date", "Date of Agreement", TypeDate),
				req("contract.total_amount", validation.LabelContractAmount, TypeNumber),
				opt("contract.advance_paid", "Advance Paid", TypeNumber),
				opt("contract.breach_date", "Date of Breach", TypeDate),
			}},
			{Title: "Facts", Fields: []Field{
				{Name: "facts", Label: validation.LabelFacts, Type: TypeTextarea, Required: true, Repeatable: true},
			}},
			{Title: "Jurisdiction and Relief", Fields: []Field{
				req("claim_amount", validation.LabelClaimAmount, TypeNumber),
				req("interest_rate", validation.LabelInterestRate, TypeNumber),
				req("jurisdiction_reason", validation.LabelJurisdictionReason, TypeTextarea),
				req("relief_requested", validation.LabelReliefRequested, TypeTextarea),
			}},
			{Title: "Verification", Fields: []Field{
				req("verification_place", validation.LabelVerificationPlace, TypeText),
				opt("verification_date", "Date of Verification", TypeDate),
			}},
			{Title: "Schedule of Property", Fields: []Field{
				opt("property.district", "District", TypeText),
				opt("property.taluk", "Taluk", TypeText),
				opt("property.village", "Village", TypeText),
				opt("property.survey_number", "Survey Number", TypeText),
				opt("property.extent", "Extent", TypeText),
				opt("property.boundary_north", "North Boundary", TypeText),
				opt("property.boundary_south", "South Boundary", TypeText),
				opt("property.boundary_east", "East Boundary", TypeText),
				opt("property.boundary_west", "West Boundary", TypeText),
				opt("property.description", "Property Description", TypeTextarea),
			}},
			{Title: "List of Documents", Fields: []Field{
				{Name: "documents.date", Label: "Document Date", Type: TypeText, Repeatable: true},
				{Name: "documents.executed_by", Label: "Executed By", Type: TypeText, Repeatable: true},
				{Name: "documents.executed_to", Label: "Executed To", Type: TypeText, Repeatable: true},
				{Name: "documents.description", Label: "Description", Type: TypeTextarea, Repeatable: true},
				{Name: "documents.purpose", Label: "Purpose", Type: TypeText, Repeatable: true},
			}},
		},
	}
}
