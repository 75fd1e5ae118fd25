package documents

const (
	StatusPendingUpload       = "Pending Upload"
	StatusPendingVerification = "Pending Verification"
	StatusCompleted           = "Completed"
	StatusExpired             = "Expired"
	StatusValidationFailed    = "Validation Failed"
)

var Statuses = []string{
	StatusPendingUpload,
	StatusPendingVerification,
	StatusCompleted,
	StatusExpired,
	StatusValidationFailed,
}
