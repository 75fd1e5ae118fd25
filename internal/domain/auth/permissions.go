package auth

const (
	RoleAdmin     = "Admin"
	RoleRecruiter = "Recruiter"
	RoleCandidate = "Candidate"
)

const (
	PermCatalogRead     = "catalog.read"
	PermCatalogWrite    = "catalog.write"
	PermCandidatesRead  = "candidates.read"
	PermCandidatesWrite = "candidates.write"
	PermDocumentsRead   = "documents.read"
	PermDocumentsWrite  = "documents.write"
	PermDocumentsVerify = "documents.verify"
	PermJobsRead        = "jobs.read"
	PermJobsWrite       = "jobs.write"
	PermJobsApply       = "jobs.apply"
	PermReportsRead     = "reports.read"
	PermAuditRead       = "audit.read"
)

var DefaultPermissions = []string{
	PermCatalogRead,
	PermCatalogWrite,
	PermCandidatesRead,
	PermCandidatesWrite,
	PermDocumentsRead,
	PermDocumentsWrite,
	PermDocumentsVerify,
	PermJobsRead,
	PermJobsWrite,
	PermJobsApply,
	PermReportsRead,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleAdmin: {
		PermCatalogRead,
		PermCatalogWrite,
		PermCandidatesRead,
		PermCandidatesWrite,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermDocumentsVerify,
		PermJobsRead,
		PermJobsWrite,
		PermReportsRead,
		PermAuditRead,
	},
	RoleRecruiter: {
		PermCatalogRead,
		PermCandidatesRead,
		PermDocumentsRead,
		PermDocumentsVerify,
		PermJobsRead,
		PermJobsWrite,
		PermReportsRead,
	},
	RoleCandidate: {
		PermCatalogRead,
		PermCandidatesRead,
		PermCandidatesWrite,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermJobsRead,
		PermJobsApply,
	},
}
