package repository

import (
	"context"
	"fmt"

	"plaintdraft-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Statement is one named DDL statement
type Statement struct {
	Name string
	SQL  string
}

// Tables creates every table the service uses, in dependency order
var Tables = []Statement{
	{"advocates", `
CREATE TABLE IF NOT EXISTS advocates (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL,
    enrolment_number TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"plaints", `
CREATE TABLE IF NOT EXISTS plaints (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    advocate_id UUID NOT NULL REFERENCES advocates(id) ON DELETE CASCADE,
    status VARCHAR(20) NOT NULL DEFAULT 'draft'
        CHECK (status IN ('draft', 'submitted', 'generated', 'archived')),
    case_record JSONB NOT NULL DEFAULT '{}'::jsonb,
    court_fee NUMERIC(14, 2),
    generated_content TEXT,
    document_file_id UUID,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
)`},
	{"files", `
CREATE TABLE IF NOT EXISTS files (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    advocate_id UUID NOT NULL REFERENCES advocates(id) ON DELETE CASCADE,
    plaint_id UUID NOT NULL REFERENCES plaints(id) ON DELETE CASCADE,
    filename TEXT NOT NULL,
    mime_type TEXT NOT NULL,
    size BIGINT NOT NULL,
    page_count INTEGER NOT NULL DEFAULT 0,
    storage_path TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"generation_jobs", `
CREATE TABLE IF NOT EXISTS generation_jobs (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    plaint_id UUID NOT NULL REFERENCES plaints(id) ON DELETE CASCADE,
    status VARCHAR(20) NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'in_progress', 'completed', 'failed')),
    current_step TEXT,
    steps JSONB NOT NULL DEFAULT '[]'::jsonb,
    file_id UUID,
    error_message TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
)`},
	{"legal_provisions", `
CREATE TABLE IF NOT EXISTS legal_provisions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    act TEXT NOT NULL,
    section TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    topics TEXT[] NOT NULL DEFAULT '{}',
    search_vector TSVECTOR GENERATED ALWAYS AS (
        to_tsvector('english', coalesce(title, '') || ' ' || coalesce(body, ''))
    ) STORED,
    CONSTRAINT legal_provision_unique UNIQUE (act, section)
)`},
}

// Indexes are created after the tables. A failing index is not fatal.
var Indexes = []Statement{
	{"Plaints by advocate", "CREATE INDEX IF NOT EXISTS idx_plaints_advocate ON plaints(advocate_id, created_at DESC)"},
	{"Plaints by status", "CREATE INDEX IF NOT EXISTS idx_plaints_status ON plaints(status)"},
	{"Files by plaint", "CREATE INDEX IF NOT EXISTS idx_files_plaint ON files(plaint_id, created_at DESC)"},
	{"Jobs by plaint", "CREATE INDEX IF NOT EXISTS idx_jobs_plaint ON generation_jobs(plaint_id, created_at DESC)"},
	{"Provision full-text search", "CREATE INDEX IF NOT EXISTS idx_provisions_search ON legal_provisions USING gin (search_vector)"},
	{"Provision topics", "CREATE INDEX IF NOT EXISTS idx_provisions_topics ON legal_provisions USING gin (topics)"},
}

// ApplySchema creates all tables and indexes. Index failures are returned
// by name in skipped rather than as an error.
func ApplySchema(ctx context.Context, db *pgxpool.Pool) (skipped []string, err error) {
	for _, t := range Tables {
		if _, err := db.Exec(ctx, t.SQL); err != nil {
			return nil, fmt.Errorf("failed to create %s table: %w", t.Name, err)
		}
	}
	for _, idx := range Indexes {
		if _, err := db.Exec(ctx, idx.SQL); err != nil {
			skipped = append(skipped, idx.Name)
		}
	}
	return skipped, nil
}

// DefaultProvisions seeds the provisions most breach of contract plaints rely on
func DefaultProvisions() []models.LegalProvision {
	return []models.LegalProvision{
		{
			Act:     "Indian Contract Act, 1872",
			Section: "73",
			Title:   "Compensation for loss or damage caused by breach of contract",
			Text:    "When a contract has been broken, the party who suffers by such breach is entitled to receive, from the party who has broken the contract, compensation for any loss or damage caused to him thereby.",
			Topics:  []string{"breach", "compensation", "damages"},
		},
		{
			Act:     "Indian Contract Act, 1872",
			Section: "74",
			Title:   "Compensation for breach of contract where penalty stipulated for",
			Text:    "When a contract has been broken, if a sum is named in the contract as the amount to be paid in case of such breach, the party complaining of the breach is entitled to receive reasonable compensation not exceeding the amount so named.",
			Topics:  []string{"breach", "penalty", "liquidated damages"},
		},
		{
			Act:     "Indian Contract Act, 1872",
			Section: "55",
			Title:   "Effect of failure to perform at fixed time, in contract in which time is essential",
			Text:    "When a party to a contract promises to do a certain thing at or before a specified time, and fails to do so, the contract becomes voidable at the option of the promisee if time was of the essence.",
			Topics:  []string{"breach", "time", "performance"},
		},
		{
			Act:     "Specific Relief Act, 1963",
			Section: "10",
			Title:   "Specific performance in respect of contracts",
			Text:    "The specific performance of a contract shall be enforced by the court subject to the provisions of the Act.",
			Topics:  []string{"specific performance", "relief"},
		},
		{
			Act:     "Code of Civil Procedure, 1908",
			Section: "20",
			Title:   "Other suits to be instituted where defendants reside or cause of action arises",
			Text:    "Every suit shall be instituted in a court within the local limits of whose jurisdiction the defendant resides or carries on business, or the cause of action, wholly or in part, arises.",
			Topics:  []string{"jurisdiction"},
		},
		{
			Act:     "Code of Civil Procedure, 1908",
			Section: "Order VII Rule 1",
			Title:   "Particulars to be contained in plaint",
			Text:    "The plaint shall contain the name of the court, the parties, the facts constituting the cause of action and when it arose, the facts showing jurisdiction, the relief claimed and a statement of the value of the subject matter for purposes of jurisdiction and court fees.",
			Topics:  []string{"plaint", "jurisdiction", "valuation"},
		},
		{
			Act:     "Limitation Act, 1963",
			Section: "Article 55",
			Title:   "Compensation for breach of any contract",
			Text:    "For compensation for the breach of any contract the period of limitation is three years from when the contract is broken.",
			Topics:  []string{"breach", "limitation"},
		},
	}
}
