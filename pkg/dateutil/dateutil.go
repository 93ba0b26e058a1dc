package dateutil

import (
	"time"
)

// AddMonths adds a specified number of calendar months to a date.
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// AddYears adds a specified number of years to a date.
func AddYears(date time.Time, years int) time.Time {
	return date.AddDate(years, 0, 0)
}

// MonthsUntilAge returns the number of whole months between two whole-year
// ages. Negative when the target age lies in the past.
func MonthsUntilAge(currentAge, targetAge int) int {
	return (targetAge - currentAge) * 12
}

// MonthsBetween counts the whole calendar months from one date to another,
// ignoring the day of month. Negative when to precedes from.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// YearsBetween calculates the fractional years between two dates.
func YearsBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24 / 365.25
}

// IsLeapYear checks if a year is a leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns the number of days in a given year.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}
