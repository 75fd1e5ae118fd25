package documents

// CanVerify reports whether a document may move to Completed. Only documents
// awaiting review are verifiable.
func CanVerify(status string) bool {
	return status == StatusPendingUpload || status == StatusPendingVerification
}

// CanReject reports whether a document may move to Validation Failed.
func CanReject(status string) bool {
	return status == StatusPendingUpload || status == StatusPendingVerification
}

// CanReplace reports whether a new file may supersede the current one.
// Anything but a fresh pending upload can be replaced.
func CanReplace(status string) bool {
	switch status {
	case StatusPendingVerification, StatusCompleted, StatusExpired, StatusValidationFailed:
		return true
	}
	return false
}
