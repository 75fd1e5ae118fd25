package readiness

import (
	"testing"
	"time"

	"staffready/internal/domain/documents"
)

func completeOnboarding() Onboarding {
	return Onboarding{PersonalInfo: true, Specialty: true, Skills: true, WorkPreferences: true}
}

func TestEvaluateAllComplete(t *testing.T) {
	docs := []documents.Document{{Type: "RN License", Status: documents.StatusCompleted}}
	verdict := Evaluate(completeOnboarding(), docs, []string{"RN License"})

	if verdict.Status != StatusReady {
		t.Fatalf("expected Ready, got %s", verdict.Status)
	}
	if verdict.Score != 100 {
		t.Fatalf("expected score 100, got %d", verdict.Score)
	}
	if verdict.Message != MessageReady {
		t.Fatalf("unexpected message: %s", verdict.Message)
	}
	if !verdict.OnboardingComplete || !verdict.DocumentsComplete || !verdict.ComplianceComplete {
		t.Fatalf("expected all flags true: %+v", verdict)
	}
}

func TestEvaluatePendingDocumentFailsTwoChecks(t *testing.T) {
	docs := []documents.Document{{Type: "RN License", Status: documents.StatusPendingVerification}}
	verdict := Evaluate(completeOnboarding(), docs, []string{"RN License"})

	if verdict.DocumentsComplete {
		t.Fatal("pending document should not satisfy the requirement")
	}
	if verdict.ComplianceComplete {
		t.Fatal("pending document should be a compliance issue")
	}
	if verdict.Status != StatusNotReady || verdict.Score != 33 {
		t.Fatalf("expected Not Ready / 33, got %s / %d", verdict.Status, verdict.Score)
	}
	if len(verdict.Missing.Compliance) != 1 || verdict.Missing.Compliance[0] != "RN License (pending verification)" {
		t.Fatalf("unexpected compliance issues: %v", verdict.Missing.Compliance)
	}
}

func TestEvaluateEmptyRequirementsNeverComplete(t *testing.T) {
	verdict := Evaluate(completeOnboarding(), nil, nil)

	if verdict.DocumentsComplete {
		t.Fatal("empty requirement list must not count as complete")
	}
	if len(verdict.Missing.Documents) != 0 {
		t.Fatalf("nothing is technically missing: %v", verdict.Missing.Documents)
	}
	if verdict.Status != StatusPartiallyReady || verdict.Score != 67 {
		t.Fatalf("expected Partially Ready / 67, got %s / %d", verdict.Status, verdict.Score)
	}
}

func TestEvaluateComplianceScansAllDocuments(t *testing.T) {
	docs := []documents.Document{
		{Type: "RN License", Status: documents.StatusCompleted},
		{Type: "Background Check", Status: documents.StatusExpired},
	}
	verdict := Evaluate(completeOnboarding(), docs, []string{"RN License"})

	if !verdict.DocumentsComplete {
		t.Fatal("required document is completed")
	}
	if verdict.ComplianceComplete {
		t.Fatal("expired unrequired document must still flag compliance")
	}
	if verdict.Missing.Compliance[0] != "Background Check (expired)" {
		t.Fatalf("unexpected issue label: %v", verdict.Missing.Compliance)
	}
	if verdict.Status != StatusPartiallyReady || verdict.Score != 67 {
		t.Fatalf("expected Partially Ready / 67, got %s / %d", verdict.Status, verdict.Score)
	}
}

func TestEvaluateOnboardingLabels(t *testing.T) {
	onb := Onboarding{PersonalInfo: true, Skills: true}
	verdict := Evaluate(onb, nil, nil)

	if verdict.OnboardingComplete {
		t.Fatal("missing specialty and preferences should fail onboarding")
	}
	want := []string{LabelSpecialty, LabelWorkPreferences}
	if len(verdict.Missing.Onboarding) != len(want) {
		t.Fatalf("expected %v, got %v", want, verdict.Missing.Onboarding)
	}
	for i, label := range want {
		if verdict.Missing.Onboarding[i] != label {
			t.Fatalf("expected %v, got %v", want, verdict.Missing.Onboarding)
		}
	}
	if verdict.Status != StatusNotReady || verdict.Score != 0 {
		t.Fatalf("expected Not Ready / 0, got %s / %d", verdict.Status, verdict.Score)
	}
}

func TestEvaluateScoreBounds(t *testing.T) {
	allowed := map[int]bool{0: true, 33: true, 67: true, 100: true}

	cases := []struct {
		onb      Onboarding
		docs     []documents.Document
		required []string
	}{
		{Onboarding{}, nil, nil},
		{completeOnboarding(), nil, nil},
		{completeOnboarding(), []documents.Document{{Type: "BLS", Status: documents.StatusCompleted}}, []string{"BLS"}},
		{Onboarding{PersonalInfo: true}, []documents.Document{{Type: "BLS", Status: documents.StatusValidationFailed}}, []string{"BLS"}},
	}
	for i, tc := range cases {
		verdict := Evaluate(tc.onb, tc.docs, tc.required)
		if !allowed[verdict.Score] {
			t.Fatalf("case %d: score %d outside {0,33,67,100}", i, verdict.Score)
		}
	}
}

func TestEvaluateWithClockDerivesExpiry(t *testing.T) {
	expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	docs := []documents.Document{{Type: "BLS", Status: documents.StatusCompleted, ExpiresOn: &expiry}}

	// Default: stored status wins.
	verdict := Evaluate(completeOnboarding(), docs, []string{"BLS"})
	if !verdict.DocumentsComplete || !verdict.ComplianceComplete {
		t.Fatalf("without a clock the stored status should stand: %+v", verdict)
	}

	// Clock after expiry: document is treated as expired.
	after := func() time.Time { return expiry.AddDate(0, 0, 1) }
	verdict = Evaluate(completeOnboarding(), docs, []string{"BLS"}, WithClock(after))
	if verdict.DocumentsComplete {
		t.Fatal("expired document should no longer satisfy the requirement")
	}
	if verdict.Missing.Compliance[0] != "BLS (expired)" {
		t.Fatalf("unexpected issue label: %v", verdict.Missing.Compliance)
	}

	// Clock before expiry: nothing changes.
	before := func() time.Time { return expiry.AddDate(0, 0, -1) }
	verdict = Evaluate(completeOnboarding(), docs, []string{"BLS"}, WithClock(before))
	if !verdict.DocumentsComplete || !verdict.ComplianceComplete {
		t.Fatalf("unexpired document should still count: %+v", verdict)
	}
}

func TestEvaluateUnknownStatusIsNotSatisfied(t *testing.T) {
	docs := []documents.Document{{Type: "BLS", Status: "Archived"}}
	verdict := Evaluate(completeOnboarding(), docs, []string{"BLS"})

	if verdict.DocumentsComplete {
		t.Fatal("unknown status must not satisfy a requirement")
	}
	if !verdict.ComplianceComplete {
		t.Fatal("unknown status is not a compliance issue either")
	}
}
