package documents

import "testing"

func TestCanVerify(t *testing.T) {
	if !CanVerify(StatusPendingVerification) || !CanVerify(StatusPendingUpload) {
		t.Fatal("pending documents should be verifiable")
	}
	if CanVerify(StatusCompleted) || CanVerify(StatusExpired) || CanVerify(StatusValidationFailed) {
		t.Fatal("settled documents should not be verifiable")
	}
}

func TestCanReject(t *testing.T) {
	if !CanReject(StatusPendingVerification) {
		t.Fatal("pending documents should be rejectable")
	}
	if CanReject(StatusCompleted) {
		t.Fatal("completed documents should not be rejectable")
	}
}

func TestCanReplace(t *testing.T) {
	for _, status := range []string{StatusPendingVerification, StatusCompleted, StatusExpired, StatusValidationFailed} {
		if !CanReplace(status) {
			t.Fatalf("%s should be replaceable", status)
		}
	}
	if CanReplace(StatusPendingUpload) {
		t.Fatal("a document with no upload yet has nothing to replace")
	}
	if CanReplace("Archived") {
		t.Fatal("unknown status should not be replaceable")
	}
}
