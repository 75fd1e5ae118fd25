package candidates

import (
	"strings"

	"staffready/internal/domain/readiness"
)

// OnboardingFor derives the four presence flags from a profile. Presence only:
// a filled field counts even if its content is nonsense, matching how the
// portals gate on "did you fill this in".
func OnboardingFor(c Candidate) readiness.Onboarding {
	return readiness.Onboarding{
		PersonalInfo: strings.TrimSpace(c.FirstName) != "" &&
			strings.TrimSpace(c.LastName) != "" &&
			strings.TrimSpace(c.Email) != "",
		Specialty:       strings.TrimSpace(c.OccupationCode) != "" || len(c.SpecialtyCodes) > 0,
		Skills:          strings.TrimSpace(c.SkillsSummary) != "",
		WorkPreferences: strings.TrimSpace(c.ShiftPreference) != "" || strings.TrimSpace(c.LocationPref) != "",
	}
}
