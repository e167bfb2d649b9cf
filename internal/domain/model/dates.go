package model

import "time"

const (
	isoDateLayout     = "2006-01-02"
	isoDateTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Ambient carries the context that date helpers and record constructors
// would otherwise look up globally: the acting user and a clock.
type Ambient struct {
	UserID ID
	Clock  Clock
}

// CurrentUserID returns the acting user's ID.
func (a Ambient) CurrentUserID() ID {
	return a.UserID
}

// Now returns the current time from the ambient clock, falling back to the
// system clock when none was supplied.
func (a Ambient) Now() time.Time {
	if a.Clock == nil {
		return time.Now()
	}
	return a.Clock.Now()
}

// CurrentISODate returns today's date as YYYY-MM-DD.
func (a Ambient) CurrentISODate() string {
	return ToISODate(a.Now())
}

// ToISODate formats t as a calendar date (YYYY-MM-DD) in t's location.
func ToISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// ToISODateTime formats t in UTC with millisecond precision,
// e.g. 2024-03-01T09:30:00.000Z.
func ToISODateTime(t time.Time) string {
	return t.UTC().Format(isoDateTimeLayout)
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddWorkdays returns t shifted by n days. Despite its name it does not skip
// weekends; it behaves exactly like AddDays.
func AddWorkdays(t time.Time, n int) time.Time {
	return AddDays(t, n)
}
