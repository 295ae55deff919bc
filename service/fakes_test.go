package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/goleak"

	"plaintdraft-backend/models"
	"plaintdraft-backend/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakePlaints struct {
	mu      sync.Mutex
	plaints map[uuid.UUID]models.Plaint
}

func newFakePlaints() *fakePlaints {
	return &fakePlaints{plaints: map[uuid.UUID]models.Plaint{}}
}

func (f *fakePlaints) Create(_ context.Context, p *models.Plaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.plaints[p.ID] = *p
	return nil
}

func (f *fakePlaints) GetByID(_ context.Context, id uuid.UUID) (*models.Plaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plaints[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.CaseRecord = p.CaseRecord.Clone()
	return &p, nil
}

func (f *fakePlaints) Update(_ context.Context, p *models.Plaint, from ...models.PlaintStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.plaints[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if !statusIn(cur.Status, from) {
		return repository.ErrStatusConflict
	}
	p.UpdatedAt = time.Now()
	f.plaints[p.ID] = *p
	return nil
}

func (f *fakePlaints) UpdateStatus(_ context.Context, id uuid.UUID, status models.PlaintStatus, from ...models.PlaintStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plaints[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !statusIn(p.Status, from) {
		return repository.ErrStatusConflict
	}
	p.Status = status
	f.plaints[id] = p
	return nil
}

func (f *fakePlaints) SetGenerated(_ context.Context, id uuid.UUID, content string, fileID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plaints[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Status != models.StatusSubmitted {
		return repository.ErrStatusConflict
	}
	now := time.Now()
	p.Status = models.StatusGenerated
	p.GeneratedContent = &content
	p.DocumentFileID = &fileID
	p.CompletedAt = &now
	f.plaints[id] = p
	return nil
}

func statusIn(status models.PlaintStatus, from []models.PlaintStatus) bool {
	if len(from) == 0 {
		return true
	}
	for _, s := range from {
		if s == status {
			return true
		}
	}
	return false
}

func (f *fakePlaints) ListByAdvocateID(_ context.Context, advocateID uuid.UUID, status *models.PlaintStatus, limit, offset int) ([]*models.Plaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Plaint, 0)
	for _, p := range f.plaints {
		if p.AdvocateID != advocateID || (status != nil && p.Status != *status) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePlaints) get(id uuid.UUID) models.Plaint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plaints[id]
}

type fakeJobs struct {
	mu        sync.Mutex
	jobs      map[uuid.UUID]models.GenerationJob
	createErr error
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{jobs: map[uuid.UUID]models.GenerationJob{}}
}

func copyJob(j models.GenerationJob) *models.GenerationJob {
	j.Steps = append(models.GenerationSteps(nil), j.Steps...)
	return &j
}

func (f *fakeJobs) Create(_ context.Context, job *models.GenerationJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	job.ID = uuid.New()
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	f.jobs[job.ID] = *copyJob(*job)
	return nil
}

func (f *fakeJobs) GetByID(_ context.Context, id uuid.UUID) (*models.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyJob(j), nil
}

func (f *fakeJobs) update(id uuid.UUID, fn func(*models.GenerationJob)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&j)
	f.jobs[id] = j
	return nil
}

func (f *fakeJobs) UpdateStatus(_ context.Context, id uuid.UUID, status models.GenerationJobStatus) error {
	return f.update(id, func(j *models.GenerationJob) { j.Status = status })
}

func (f *fakeJobs) UpdateProgress(_ context.Context, id uuid.UUID, currentStep string, steps models.GenerationSteps) error {
	return f.update(id, func(j *models.GenerationJob) {
		j.CurrentStep = &currentStep
		j.Steps = append(models.GenerationSteps(nil), steps...)
	})
}

func (f *fakeJobs) Complete(_ context.Context, id uuid.UUID, fileID uuid.UUID) error {
	return f.update(id, func(j *models.GenerationJob) {
		now := time.Now()
		j.Status = models.JobStatusCompleted
		j.FileID = &fileID
		j.CompletedAt = &now
	})
}

func (f *fakeJobs) Fail(_ context.Context, id uuid.UUID, msg string) error {
	return f.update(id, func(j *models.GenerationJob) {
		j.Status = models.JobStatusFailed
		j.ErrorMessage = &msg
	})
}

type fakeFiles struct {
	mu    sync.Mutex
	files map[uuid.UUID]models.File
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{files: map[uuid.UUID]models.File{}}
}

func (f *fakeFiles) Create(_ context.Context, file *models.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	file.CreatedAt = time.Now()
	f.files[file.ID] = *file
	return nil
}

func (f *fakeFiles) GetByID(_ context.Context, id uuid.UUID) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &file, nil
}

type fakeProvisions struct {
	mu       sync.Mutex
	byTopic  map[string][]models.LegalProvision
	searched []string
	err      error
}

func (f *fakeProvisions) SearchByTopic(_ context.Context, topic string, _ int) ([]models.LegalProvision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searched = append(f.searched, topic)
	if f.err != nil {
		return nil, f.err
	}
	return f.byTopic[topic], nil
}

var errSearchDown = errors.New("search unavailable")
