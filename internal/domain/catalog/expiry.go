package catalog

import "time"

// ExpiryFor computes the expiry date of a document satisfying item, given the
// date it was issued. Returns false when the item never expires or when the
// expiry cannot be derived (rule items carry their own value and interval;
// date items get their expiry from the document itself).
func ExpiryFor(item ComplianceItem, issuedOn time.Time) (time.Time, bool) {
	if item.ExpirationType != ExpirationRule {
		return time.Time{}, false
	}
	if item.ExpirationValue <= 0 || issuedOn.IsZero() {
		return time.Time{}, false
	}
	switch item.ExpirationInterval {
	case IntervalDays:
		return issuedOn.AddDate(0, 0, item.ExpirationValue), true
	case IntervalWeeks:
		return issuedOn.AddDate(0, 0, 7*item.ExpirationValue), true
	case IntervalMonths:
		return issuedOn.AddDate(0, item.ExpirationValue, 0), true
	case IntervalYears:
		return issuedOn.AddDate(item.ExpirationValue, 0, 0), true
	}
	return time.Time{}, false
}
