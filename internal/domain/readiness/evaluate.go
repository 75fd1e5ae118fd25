package readiness

import (
	"math"
	"time"

	"staffready/internal/domain/documents"
)

type Option func(*evaluator)

type evaluator struct {
	now func() time.Time
}

// WithClock makes the evaluator treat any document whose expiry date is
// before the clock's now as expired, regardless of its stored status. Without
// it only the persisted status counts; the ledger's sweep job keeps that
// current.
func WithClock(now func() time.Time) Option {
	return func(e *evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// Evaluate combines onboarding presence checks, required-document coverage,
// and a compliance scan over every document into a single verdict. It is a
// pure function of its inputs and never fails.
func Evaluate(onb Onboarding, docs []documents.Document, required []string, opts ...Option) Verdict {
	var ev evaluator
	for _, opt := range opts {
		opt(&ev)
	}

	var verdict Verdict

	checks := []struct {
		ok    bool
		label string
	}{
		{onb.PersonalInfo, LabelPersonalInfo},
		{onb.Specialty, LabelSpecialty},
		{onb.Skills, LabelSkills},
		{onb.WorkPreferences, LabelWorkPreferences},
	}
	verdict.OnboardingComplete = true
	for _, check := range checks {
		if !check.ok {
			verdict.OnboardingComplete = false
			verdict.Missing.Onboarding = append(verdict.Missing.Onboarding, check.label)
		}
	}

	for _, name := range required {
		satisfied := false
		for _, doc := range docs {
			if doc.Type == name && ev.effectiveStatus(doc) == documents.StatusCompleted {
				satisfied = true
				break
			}
		}
		if !satisfied {
			verdict.Missing.Documents = append(verdict.Missing.Documents, name)
		}
	}
	// An empty requirement list never counts as complete: zero requirements
	// means the catalog has nothing for this candidate yet, not that they are
	// cleared.
	verdict.DocumentsComplete = len(required) > 0 && len(verdict.Missing.Documents) == 0

	for _, doc := range docs {
		if reason := ev.issueReason(doc); reason != "" {
			verdict.Missing.Compliance = append(verdict.Missing.Compliance, doc.Type+" ("+reason+")")
		}
	}
	verdict.ComplianceComplete = len(verdict.Missing.Compliance) == 0

	trueCount := 0
	for _, ok := range []bool{verdict.OnboardingComplete, verdict.DocumentsComplete, verdict.ComplianceComplete} {
		if ok {
			trueCount++
		}
	}
	verdict.Score = int(math.Round(100 * float64(trueCount) / 3))

	switch trueCount {
	case 3:
		verdict.Status = StatusReady
		verdict.Message = MessageReady
	case 2:
		verdict.Status = StatusPartiallyReady
		verdict.Message = MessagePartiallyReady
	default:
		verdict.Status = StatusNotReady
		verdict.Message = MessageNotReady
	}

	return verdict
}

func (e *evaluator) effectiveStatus(doc documents.Document) string {
	if e.now != nil && doc.ExpiresOn != nil && doc.ExpiresOn.Before(e.now()) {
		return documents.StatusExpired
	}
	return doc.Status
}

func (e *evaluator) issueReason(doc documents.Document) string {
	switch e.effectiveStatus(doc) {
	case documents.StatusExpired:
		return "expired"
	case documents.StatusPendingUpload:
		return "pending upload"
	case documents.StatusPendingVerification:
		return "pending verification"
	case documents.StatusValidationFailed:
		return "validation failed"
	}
	return ""
}
