package wallet

import "staffready/internal/domain/documents"

const (
	StateCompleted = "completed"
	StatePending   = "pending"
	StateExpired   = "expired"
	StateFailed    = "failed"
	StateMissing   = "missing"
)

type ProgressEntry struct {
	Name       string `json:"name"`
	State      string `json:"state"`
	DocumentID string `json:"documentId,omitempty"`
}

type ProgressSummary struct {
	Entries   []ProgressEntry `json:"entries"`
	Completed int             `json:"completed"`
	Total     int             `json:"total"`
}

// Progress classifies each required item name against the candidate's
// documents for the wallet display. When several documents share a type the
// best one wins: completed beats pending, pending beats expired or failed.
func Progress(required []string, docs []documents.Document) ProgressSummary {
	summary := ProgressSummary{Total: len(required)}
	for _, name := range required {
		entry := ProgressEntry{Name: name, State: StateMissing}
		for _, doc := range docs {
			if doc.Type != name {
				continue
			}
			state := stateFor(doc.Status)
			if rank(state) > rank(entry.State) {
				entry.State = state
				entry.DocumentID = doc.ID
			}
		}
		if entry.State == StateCompleted {
			summary.Completed++
		}
		summary.Entries = append(summary.Entries, entry)
	}
	return summary
}

func stateFor(status string) string {
	switch status {
	case documents.StatusCompleted:
		return StateCompleted
	case documents.StatusPendingUpload, documents.StatusPendingVerification:
		return StatePending
	case documents.StatusExpired:
		return StateExpired
	case documents.StatusValidationFailed:
		return StateFailed
	}
	return StateMissing
}

func rank(state string) int {
	switch state {
	case StateCompleted:
		return 4
	case StatePending:
		return 3
	case StateExpired:
		return 2
	case StateFailed:
		return 1
	}
	return 0
}
