package jobs

import (
	"context"

	"staffready/internal/domain/candidates"
	"staffready/internal/domain/catalog"
	"staffready/internal/domain/documents"
	"staffready/internal/domain/readiness"
	"staffready/internal/domain/wallet"
)

type Service struct {
	Store      *Store
	Candidates *candidates.Store
	Documents  *documents.Store
	Catalog    *catalog.Store
}

func NewService(store *Store, cand *candidates.Store, docs *documents.Store, cat *catalog.Store) *Service {
	return &Service{Store: store, Candidates: cand, Documents: docs, Catalog: cat}
}

// EvaluateFor computes the readiness verdict a candidate would get for a job.
// The job's own requirement list wins; when the posting carries none, the
// requirements fall back to the resolver output for the candidate's
// occupation and specialties.
func (s *Service) EvaluateFor(ctx context.Context, candidateID string, job *Job) (readiness.Verdict, error) {
	cand, err := s.Candidates.Get(ctx, candidateID)
	if err != nil {
		return readiness.Verdict{}, err
	}
	docs, err := s.Documents.ListByCandidate(ctx, candidateID)
	if err != nil {
		return readiness.Verdict{}, err
	}

	required := job.Requirements
	if len(required) == 0 {
		snap, err := s.Catalog.LoadSnapshot(ctx)
		if err != nil {
			return readiness.Verdict{}, err
		}
		required = wallet.Resolve(snap, cand.OccupationCode, cand.SpecialtyCodes)
	}

	return readiness.Evaluate(candidates.OnboardingFor(*cand), docs, required), nil
}

// Apply gates the application on readiness: anything short of Ready is
// rejected and the verdict is handed back so the caller can show what is
// missing.
func (s *Service) Apply(ctx context.Context, candidateID, jobID string) (string, readiness.Verdict, error) {
	job, err := s.Store.Get(ctx, jobID)
	if err != nil {
		return "", readiness.Verdict{}, err
	}
	if job.Status != JobStatusOpen {
		return "", readiness.Verdict{}, ErrJobClosed
	}

	applied, err := s.Store.HasApplication(ctx, jobID, candidateID)
	if err != nil {
		return "", readiness.Verdict{}, err
	}
	if applied {
		return "", readiness.Verdict{}, ErrAlreadyApplied
	}

	verdict, err := s.EvaluateFor(ctx, candidateID, job)
	if err != nil {
		return "", readiness.Verdict{}, err
	}
	if verdict.Status != readiness.StatusReady {
		return "", verdict, ErrNotReady
	}

	appID, err := s.Store.CreateApplication(ctx, jobID, candidateID, verdict.Score)
	if err != nil {
		return "", verdict, err
	}
	return appID, verdict, nil
}
