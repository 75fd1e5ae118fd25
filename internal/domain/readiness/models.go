package readiness

const (
	StatusReady          = "Ready"
	StatusPartiallyReady = "Partially Ready"
	StatusNotReady       = "Not Ready"

	MessageReady          = "You're ready to apply! All requirements are met."
	MessagePartiallyReady = "Almost there! Complete the remaining items to apply."
	MessageNotReady       = "Please complete onboarding and upload required documents before applying."

	LabelPersonalInfo    = "Personal information"
	LabelSpecialty       = "Specialty selection"
	LabelSkills          = "Skills assessment"
	LabelWorkPreferences = "Work preferences"
)

// Onboarding carries the four presence checks derived from a candidate's
// profile. Each flag means "something was provided", not "it is valid".
type Onboarding struct {
	PersonalInfo    bool `json:"personalInfo"`
	Specialty       bool `json:"specialty"`
	Skills          bool `json:"skills"`
	WorkPreferences bool `json:"workPreferences"`
}

type MissingItems struct {
	Onboarding []string `json:"onboarding"`
	Documents  []string `json:"documents"`
	Compliance []string `json:"compliance"`
}

type Verdict struct {
	Status             string       `json:"status"`
	Score              int          `json:"score"`
	OnboardingComplete bool         `json:"onboardingComplete"`
	DocumentsComplete  bool         `json:"documentsComplete"`
	ComplianceComplete bool         `json:"complianceComplete"`
	Missing            MissingItems `json:"missingItems"`
	Message            string       `json:"message"`
}
