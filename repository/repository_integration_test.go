package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"plaintdraft-backend/models"
	"plaintdraft-backend/testsupport"
)

// testPool connects to DATABASE_URL, or starts a Postgres container when
// PLAINTDRAFT_TESTCONTAINERS=1. Otherwise the test is skipped.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		if os.Getenv("PLAINTDRAFT_TESTCONTAINERS") != "1" {
			t.Skip("set DATABASE_URL or PLAINTDRAFT_TESTCONTAINERS=1 to run database tests")
		}
		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("plaintdraft"),
			postgres.WithUsername("plaintdraft"),
			postgres.WithPassword("plaintdraft"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
		t.Cleanup(func() { _ = container.Terminate(context.Background()) })

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = ApplySchema(ctx, pool)
	require.NoError(t, err)
	return pool
}

func createAdvocate(t *testing.T, repo *AdvocateRepository) *models.AdvocateAccount {
	t.Helper()
	a := &models.AdvocateAccount{
		Email:           uuid.NewString() + "@Example.com",
		PasswordHash:    "hash",
		Name:            "A. Narayan",
		EnrolmentNumber: "KAR/1234/2005",
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestRepositories(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	advocates := NewAdvocateRepository(pool)
	plaints := NewPlaintRepository(pool)
	files := NewFileRepository(pool)
	jobs := NewGenerationJobRepository(pool)

	t.Run("advocates", func(t *testing.T) {
		a := createAdvocate(t, advocates)
		assert.NotEqual(t, uuid.Nil, a.ID)

		got, err := advocates.GetByEmail(ctx, "  "+a.Email+" ")
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)

		dup := &models.AdvocateAccount{Email: a.Email, PasswordHash: "x", Name: "Other"}
		assert.ErrorIs(t, advocates.Create(ctx, dup), ErrDuplicate)

		_, err = advocates.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("plaint lifecycle", func(t *testing.T) {
		a := createAdvocate(t, advocates)
		fee := 7500.0
		p := &models.Plaint{
			AdvocateID: a.ID,
			Status:     models.StatusDraft,
			CaseRecord: testsupport.CaseRecordWithSchedule(),
			CourtFee:   &fee,
		}
		require.NoError(t, plaints.Create(ctx, p))

		got, err := plaints.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.CaseRecord, got.CaseRecord)
		require.NotNil(t, got.CourtFee)
		assert.InDelta(t, 7500.0, *got.CourtFee, 0.001)

		got.CaseRecord.ClaimAmount = "2,00,000"
		got.Status = models.StatusSubmitted
		require.NoError(t, plaints.Update(ctx, got))

		list, err := plaints.ListByAdvocateID(ctx, a.ID, nil, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "2,00,000", list[0].CaseRecord.ClaimAmount)

		draft := models.StatusDraft
		list, err = plaints.ListByAdvocateID(ctx, a.ID, &draft, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, list)

		f := &models.File{
			AdvocateID:  a.ID,
			PlaintID:    p.ID,
			Filename:    models.PlaintFilename,
			MimeType:    "application/pdf",
			Size:        1024,
			PageCount:   2,
			StoragePath: "plaints/ab/x.pdf",
		}
		require.NoError(t, files.Create(ctx, f))
		gotFile, err := files.GetByID(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, gotFile.PageCount)

		assert.ErrorIs(t, plaints.UpdateStatus(ctx, p.ID, models.StatusArchived, models.StatusDraft, models.StatusGenerated), ErrStatusConflict)
		assert.ErrorIs(t, plaints.UpdateStatus(ctx, uuid.New(), models.StatusArchived, models.StatusDraft), ErrNotFound)

		require.NoError(t, plaints.SetGenerated(ctx, p.ID, "body", f.ID))
		assert.ErrorIs(t, plaints.SetGenerated(ctx, p.ID, "again", f.ID), ErrStatusConflict)
		got, err = plaints.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusGenerated, got.Status)
		require.NotNil(t, got.DocumentFileID)
		assert.Equal(t, f.ID, *got.DocumentFileID)
		assert.NotNil(t, got.CompletedAt)

		got.Status = models.StatusDraft
		require.NoError(t, plaints.Update(ctx, got, models.StatusDraft, models.StatusGenerated))
		require.NoError(t, plaints.UpdateStatus(ctx, p.ID, models.StatusArchived, models.StatusDraft, models.StatusGenerated))
		got.Status = models.StatusDraft
		assert.ErrorIs(t, plaints.Update(ctx, got, models.StatusDraft, models.StatusGenerated), ErrStatusConflict)
		assert.ErrorIs(t, plaints.UpdateStatus(ctx, uuid.New(), models.StatusArchived), ErrNotFound)
	})

	t.Run("generation jobs", func(t *testing.T) {
		a := createAdvocate(t, advocates)
		p := &models.Plaint{AdvocateID: a.ID, Status: models.StatusDraft, CaseRecord: testsupport.CaseRecord()}
		require.NoError(t, plaints.Create(ctx, p))

		job := &models.GenerationJob{
			PlaintID: p.ID,
			Status:   models.JobStatusPending,
			Steps:    models.GenerationSteps{{Name: "Rendering PDF", Status: models.StepPending}},
		}
		require.NoError(t, jobs.Create(ctx, job))

		job.Steps[0].Status = models.StepInProgress
		require.NoError(t, jobs.UpdateProgress(ctx, job.ID, "Rendering PDF", job.Steps))
		require.NoError(t, jobs.UpdateStatus(ctx, job.ID, models.JobStatusInProgress))

		fileID := uuid.New()
		require.NoError(t, jobs.Complete(ctx, job.ID, fileID))

		got, err := jobs.GetLatestByPlaintID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusCompleted, got.Status)
		require.NotNil(t, got.CurrentStep)
		assert.Equal(t, "Rendering PDF", *got.CurrentStep)
		assert.Equal(t, models.StepInProgress, got.Steps[0].Status)
		require.NotNil(t, got.FileID)
		assert.Equal(t, fileID, *got.FileID)
		assert.WithinDuration(t, time.Now(), *got.CompletedAt, time.Minute)

		assert.ErrorIs(t, jobs.Fail(ctx, uuid.New(), "x"), ErrNotFound)
	})

	t.Run("legal provisions", func(t *testing.T) {
		provisions := NewLegalProvisionRepository(pool)
		for _, p := range DefaultProvisions() {
			p := p
			require.NoError(t, provisions.Upsert(ctx, &p))
		}
		// upserting again keeps one row per section
		again := DefaultProvisions()[0]
		require.NoError(t, provisions.Upsert(ctx, &again))

		got, err := provisions.SearchByTopic(ctx, "jurisdiction", 10)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Contains(t, got[0].Topics, "jurisdiction")

		got, err = provisions.SearchByTopic(ctx, "compensation", 2)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), 2)
		assert.NotEmpty(t, got)

		got, err = provisions.SearchByTopic(ctx, " ", 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
