package catalog

const (
	CategoryBackground    = "Background and Identification"
	CategoryEducation     = "Education and Assessments"
	CategoryImmigration   = "Immigration"
	CategoryLicenses      = "Licenses"
	CategoryCertification = "Certifications"
	CategoryHealth        = "Employee Health"
	CategoryHR            = "Human Resources"
	CategoryOtherQuals    = "Other Qualifications"
	CategoryOther         = "Other"

	ExpirationDate = "Expiration Date"
	ExpirationNone = "Non-Expirable"
	ExpirationRule = "Expiration Rule"

	IntervalDays   = "Days"
	IntervalWeeks  = "Weeks"
	IntervalMonths = "Months"
	IntervalYears  = "Years"

	ResponseUpload      = "upload"
	ResponseAttestation = "attestation"
	ResponseSignature   = "signature"
)

var Categories = []string{
	CategoryBackground,
	CategoryEducation,
	CategoryImmigration,
	CategoryLicenses,
	CategoryCertification,
	CategoryHealth,
	CategoryHR,
	CategoryOtherQuals,
	CategoryOther,
}

var ExpirationTypes = []string{
	ExpirationDate,
	ExpirationNone,
	ExpirationRule,
}

var ExpirationIntervals = []string{
	IntervalDays,
	IntervalWeeks,
	IntervalMonths,
	IntervalYears,
}

var ResponseStyles = []string{
	ResponseUpload,
	ResponseAttestation,
	ResponseSignature,
}
