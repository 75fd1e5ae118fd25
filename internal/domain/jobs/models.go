package jobs

import "time"

type Job struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	OccupationCode string    `json:"occupationCode"`
	SpecialtyCode  string    `json:"specialtyCode,omitempty"`
	Facility       string    `json:"facility"`
	Location       string    `json:"location,omitempty"`
	PayRate        float64   `json:"payRate,omitempty"`
	Requirements   []string  `json:"requirements"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	CandidateID string    `json:"candidateId"`
	Score       int       `json:"score"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
