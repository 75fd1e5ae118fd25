package documents

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Upload(ctx context.Context, candidateID, name, docType, issuer string, issuedOn, expiresOn *time.Time) (string, error) {
	doc := Document{
		CandidateID: candidateID,
		Name:        strings.TrimSpace(name),
		Type:        strings.TrimSpace(docType),
		Status:      StatusPendingVerification,
		Issuer:      strings.TrimSpace(issuer),
		IssuedOn:    issuedOn,
		ExpiresOn:   expiresOn,
	}
	return s.Store.Create(ctx, doc)
}

func (s *Service) Verify(ctx context.Context, candidateID, documentID string) error {
	doc, err := s.Store.Get(ctx, candidateID, documentID)
	if err != nil {
		return err
	}
	if !CanVerify(doc.Status) {
		return ErrInvalidTransition
	}
	return s.Store.UpdateStatus(ctx, documentID, StatusCompleted, "")
}

func (s *Service) Reject(ctx context.Context, candidateID, documentID, reason string) error {
	doc, err := s.Store.Get(ctx, candidateID, documentID)
	if err != nil {
		return err
	}
	if !CanReject(doc.Status) {
		return ErrInvalidTransition
	}
	return s.Store.UpdateStatus(ctx, documentID, StatusValidationFailed, strings.TrimSpace(reason))
}

func (s *Service) Replace(ctx context.Context, candidateID, documentID, name, issuer string, issuedOn, expiresOn *time.Time) error {
	doc, err := s.Store.Get(ctx, candidateID, documentID)
	if err != nil {
		return err
	}
	if !CanReplace(doc.Status) {
		return ErrInvalidTransition
	}
	return s.Store.Replace(ctx, documentID, strings.TrimSpace(name), Document{
		Issuer:    strings.TrimSpace(issuer),
		IssuedOn:  issuedOn,
		ExpiresOn: expiresOn,
	})
}

func (s *Service) Delete(ctx context.Context, candidateID, documentID string) error {
	return s.Store.Delete(ctx, candidateID, documentID)
}
