package documents

import "time"

type Document struct {
	ID          string     `json:"id"`
	CandidateID string     `json:"candidateId"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Issuer      string     `json:"issuer,omitempty"`
	IssuedOn    *time.Time `json:"issuedOn,omitempty"`
	ExpiresOn   *time.Time `json:"expiresOn,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	LastUpdated time.Time  `json:"lastUpdated"`
	CreatedAt   time.Time  `json:"createdAt"`
}
