// Package calendar provides month arithmetic for billing-cycle projection.
package calendar

import "time"

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	if month == time.February && IsLeap(year) {
		return 29
	}
	return monthDays[month-1]
}

// ValidDay reports whether day exists in the given month.
func ValidDay(year int, month time.Month, day int) bool {
	if month < time.January || month > time.December {
		return false
	}
	return day >= 1 && day <= DaysIn(year, month)
}

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds months to d, clamping the day to the last valid day of the
// target month. Jan 31 + 1 month is Feb 28 (or 29), never Mar 3.
func AddMonths(d time.Time, months int) time.Time {
	m := int(d.Month()) - 1 + months
	year := d.Year() + floorDiv(m, 12)
	month := time.Month(m-floorDiv(m, 12)*12) + 1

	day := d.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
