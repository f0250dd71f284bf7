package normalize

import "time"

// ageBuckets defines the fixed age bins; see AgeGroup for the boundary
// rules.
var ageBuckets = []struct {
	lo    int64
	hi    int64 // exclusive
	label string
}{
	{0, 18, "0-18"},
	{18, 30, "19-30"},
	{30, 45, "31-45"},
	{45, 60, "46-60"},
	{60, 75, "61-75"},
	{75, 90, "76-90"},
	{90, 120, "90+"},
}

// Age returns whole years from date of birth to the reference time,
// using the 365-day-year convention of the analytic tables.
func Age(dob, ref time.Time) int64 {
	return DaysBetween(dob, ref) / 365
}

// AgeGroup buckets an age into the fixed bins. Bins are right-open except
// the first, which includes its upper bound, so 18 lands in "0-18" and 19
// in "19-30". Out-of-range ages return "".
func AgeGroup(age int64) string {
	if age >= 0 && age <= 18 {
		return "0-18"
	}
	for _, b := range ageBuckets[1:] {
		if age > b.lo && age <= b.hi {
			return b.label
		}
	}
	return ""
}
