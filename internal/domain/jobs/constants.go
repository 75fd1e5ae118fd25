package jobs

const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"

	ApplicationStatusSubmitted = "submitted"
)
