package candidates

import "time"

type Candidate struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	OccupationCode  string    `json:"occupationCode,omitempty"`
	SpecialtyCodes  []string  `json:"specialtyCodes,omitempty"`
	SkillsSummary   string    `json:"skillsSummary,omitempty"`
	ShiftPreference string    `json:"shiftPreference,omitempty"`
	LocationPref    string    `json:"locationPreference,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
