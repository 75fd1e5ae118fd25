package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"staffready/internal/domain/candidates"
	"staffready/internal/domain/catalog"
	"staffready/internal/domain/documents"
	"staffready/internal/domain/readiness"
	"staffready/internal/domain/wallet"
	cryptoutil "staffready/internal/platform/crypto"
)

type Service struct {
	Candidates *candidates.Store
	Documents  *documents.Store
	Catalog    *catalog.Store
	Crypto     *cryptoutil.Service
	Dir        string
}

func NewService(cand *candidates.Store, docs *documents.Store, cat *catalog.Store, crypto *cryptoutil.Service) *Service {
	return &Service{Candidates: cand, Documents: docs, Catalog: cat, Crypto: crypto, Dir: "storage/reports"}
}

// GenerateReadinessPDF renders a candidate's readiness report and returns the
// file path. Reports are encrypted at rest when a data key is configured.
func (s *Service) GenerateReadinessPDF(ctx context.Context, candidateID string) (string, error) {
	cand, err := s.Candidates.Get(ctx, candidateID)
	if err != nil {
		return "", err
	}
	docs, err := s.Documents.ListByCandidate(ctx, candidateID)
	if err != nil {
		return "", err
	}
	snap, err := s.Catalog.LoadSnapshot(ctx)
	if err != nil {
		return "", err
	}

	required := wallet.Resolve(snap, cand.OccupationCode, cand.SpecialtyCodes)
	verdict := readiness.Evaluate(candidates.OnboardingFor(*cand), docs, required)
	progress := wallet.Progress(required, docs)

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.Dir, candidateID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Readiness Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Candidate: %s %s", cand.FirstName, cand.LastName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Occupation: %s", cand.OccupationCode))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("2006-01-02 15:04 MST")))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s (%d%%)", verdict.Status, verdict.Score))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, verdict.Message)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Required documents (%d/%d complete)", progress.Completed, progress.Total))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, entry := range progress.Entries {
		pdf.Cell(0, 6, fmt.Sprintf("- %s: %s", entry.Name, entry.State))
		pdf.Ln(6)
	}

	if len(verdict.Missing.Onboarding) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Onboarding items outstanding")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, label := range verdict.Missing.Onboarding {
			pdf.Cell(0, 6, "- "+label)
			pdf.Ln(6)
		}
	}

	if len(verdict.Missing.Compliance) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Compliance issues")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, issue := range verdict.Missing.Compliance {
			pdf.Cell(0, 6, "- "+issue)
			pdf.Ln(6)
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}

	if s.Crypto != nil && s.Crypto.Configured() {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
		encrypted, err := s.Crypto.Encrypt(data)
		if err != nil {
			return "", err
		}
		encryptedPath := filePath + ".enc"
		if err := os.WriteFile(encryptedPath, encrypted, 0o600); err != nil {
			return "", err
		}
		if err := os.Remove(filePath); err != nil {
			return "", err
		}
		return encryptedPath, nil
	}

	return filePath, nil
}

// ReadReport loads a generated report from disk, decrypting it when the file
// was written with a data key.
func (s *Service) ReadReport(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) != ".enc" {
		return data, nil
	}
	if s.Crypto == nil || !s.Crypto.Configured() {
		return nil, fmt.Errorf("report %s is encrypted but no data key is configured", filepath.Base(path))
	}
	return s.Crypto.Decrypt(data)
}

// ReportPath returns the on-disk location of a candidate's report, preferring
// the encrypted variant, or "" when none has been generated.
func (s *Service) ReportPath(candidateID string) string {
	encrypted := filepath.Join(s.Dir, candidateID+".pdf.enc")
	if _, err := os.Stat(encrypted); err == nil {
		return encrypted
	}
	plain := filepath.Join(s.Dir, candidateID+".pdf")
	if _, err := os.Stat(plain); err == nil {
		return plain
	}
	return ""
}
