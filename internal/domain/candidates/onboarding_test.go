package candidates

import "testing"

func TestOnboardingForCompleteProfile(t *testing.T) {
	c := Candidate{
		FirstName:       "Dana",
		LastName:        "Reyes",
		Email:           "dana@example.com",
		OccupationCode:  "RN",
		SpecialtyCodes:  []string{"ICU"},
		SkillsSummary:   "10 years critical care",
		ShiftPreference: "nights",
	}
	onb := OnboardingFor(c)
	if !onb.PersonalInfo || !onb.Specialty || !onb.Skills || !onb.WorkPreferences {
		t.Fatalf("expected all flags set, got %+v", onb)
	}
}

func TestOnboardingForPartialProfile(t *testing.T) {
	c := Candidate{FirstName: "Dana", Email: "dana@example.com"}
	onb := OnboardingFor(c)
	if onb.PersonalInfo {
		t.Fatal("missing last name should fail the personal check")
	}
	if onb.Specialty || onb.Skills || onb.WorkPreferences {
		t.Fatalf("expected remaining flags unset, got %+v", onb)
	}
}

func TestOnboardingForWhitespaceOnly(t *testing.T) {
	c := Candidate{FirstName: " ", LastName: "Reyes", Email: "dana@example.com", SkillsSummary: "  "}
	onb := OnboardingFor(c)
	if onb.PersonalInfo {
		t.Fatal("whitespace first name should not count as present")
	}
	if onb.Skills {
		t.Fatal("whitespace skills summary should not count as present")
	}
}

func TestOnboardingSpecialtyEitherSourceCounts(t *testing.T) {
	if onb := OnboardingFor(Candidate{OccupationCode: "RN"}); !onb.Specialty {
		t.Fatal("occupation alone should satisfy the specialty check")
	}
	if onb := OnboardingFor(Candidate{SpecialtyCodes: []string{"ICU"}}); !onb.Specialty {
		t.Fatal("specialty alone should satisfy the specialty check")
	}
}
