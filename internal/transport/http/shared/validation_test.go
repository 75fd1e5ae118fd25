package shared

import "testing"

func TestValidatorCollectsSortedIssues(t *testing.T) {
	v := NewValidator()
	v.Required("title", "", "is required")
	v.Enum("status", "archived", []string{"Open", "Closed"}, "must be Open or Closed")
	v.Required("occupationCode", "RN", "is required")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
	if issues[0].Field != "status" || issues[1].Field != "title" {
		t.Fatalf("expected issues sorted by field, got %+v", issues)
	}
}

func TestValidatorDate(t *testing.T) {
	v := NewValidator()
	if _, ok := v.Date("issuedOn", "2026-03-15"); !ok {
		t.Fatal("expected valid date to parse")
	}
	if _, ok := v.Date("expiresOn", "15/03/2026"); ok {
		t.Fatal("expected invalid date to be rejected")
	}
	if !v.HasIssues() {
		t.Fatal("expected an issue for the invalid date")
	}
}
