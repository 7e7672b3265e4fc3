package domain

import "time"

// maxRangeDays caps a saved date range; a range starting and ending on the
// same day counts as zero days.
const maxRangeDays = 5

// ValidateDateRange checks whether [dateFrom, dateTo] is acceptable for a
// saved record. Checks run in order and the first failure wins:
//  1. dateFrom after dateTo
//  2. dateTo before today
//  3. range longer than maxRangeDays
//
// A zero-length range starting today is valid; a range ending today is the
// earliest one accepted.
func ValidateDateRange(dateFrom, dateTo, today time.Time) (bool, string) {
	if dateFrom.After(dateTo) {
		return false, "Start date must be before end date"
	}
	if dateTo.Before(today) {
		return false, "End date cannot be in the past"
	}
	if int(dateTo.Sub(dateFrom).Hours()/24) > maxRangeDays {
		return false, "Date range cannot exceed 5 days"
	}
	return true, ""
}
