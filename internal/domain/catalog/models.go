package catalog

import "time"

type ComplianceItem struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	ExpirationType     string    `json:"expirationType"`
	ExpirationValue    int       `json:"expirationRuleValue,omitempty"`
	ExpirationInterval string    `json:"expirationRuleInterval,omitempty"`
	IssuerRequired     bool      `json:"issuerRequirement"`
	Issuer             string    `json:"issuer,omitempty"`
	ResponseStyle      string    `json:"responseStyle"`
	DisplayToCandidate bool      `json:"displayToCandidate"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type Occupation struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	IsActive bool   `json:"isActive"`
}

type Specialty struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	IsActive bool   `json:"isActive"`
}

type OccupationSpecialty struct {
	ID             string `json:"id"`
	OccupationID   string `json:"occupationId"`
	SpecialtyID    string `json:"specialtyId"`
	OccupationCode string `json:"occupationCode"`
	SpecialtyCode  string `json:"specialtyCode"`
	DisplayName    string `json:"displayName"`
}

type WalletTemplate struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	OccupationCode string    `json:"occupationCode"`
	SpecialtyCode  string    `json:"specialtyCode,omitempty"`
	ListItemIDs    []string  `json:"listItemIds"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Snapshot is a read-only view of the active catalog, loaded once and handed
// to the resolver so it never touches storage itself.
type Snapshot struct {
	Occupations []Occupation
	Specialties []Specialty
	Templates   []WalletTemplate
	Items       []ComplianceItem
}

func (s Snapshot) OccupationByCode(code string) (Occupation, bool) {
	for _, occ := range s.Occupations {
		if occ.Code == code {
			return occ, true
		}
	}
	return Occupation{}, false
}

func (s Snapshot) ItemByID(id string) (ComplianceItem, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return ComplianceItem{}, false
}
