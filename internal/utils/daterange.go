package utils

import (
	"fmt"
	"time"

	"hotelcore/internal/domain"
)

const DateLayout = "2006-01-02"

// DateRange is the half-open stay interval [CheckIn, CheckOut).
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewDateRange truncates both ends to calendar dates and requires CheckOut > CheckIn.
func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return DateRange{}, domain.ErrInvalidDateRange
	}
	dr := DateRange{CheckIn: TruncateDate(checkIn), CheckOut: TruncateDate(checkOut)}
	if !dr.CheckOut.After(dr.CheckIn) {
		return DateRange{}, domain.ErrInvalidDateRange
	}
	return dr, nil
}

// ParseDate converts a yyyy-mm-dd string into a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd: %w", s, domain.ErrInvalidArgument)
	}
	return t, nil
}

// FormatDate renders a date as yyyy-mm-dd.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateDate drops the clock part, keeping the calendar date as seen in t's location.
func TruncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights is the number of dates in the range.
func (dr DateRange) Nights() int {
	n := 0
	for d := dr.CheckIn; d.Before(dr.CheckOut); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// Dates lists every night of the stay: inclusive start, exclusive end.
func (dr DateRange) Dates() []time.Time {
	var dates []time.Time
	for d := dr.CheckIn; d.Before(dr.CheckOut); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Overlaps is the half-open test startA < endB && startB < endA.
func (dr DateRange) Overlaps(other DateRange) bool {
	return Overlaps(dr.CheckIn, dr.CheckOut, other.CheckIn, other.CheckOut)
}

func (dr DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", FormatDate(dr.CheckIn), FormatDate(dr.CheckOut))
}

// Overlaps compares two half-open ranges. A checkout on day D and a check-in on D do not overlap.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}
