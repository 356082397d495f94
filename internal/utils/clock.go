package utils

import "time"

// Clock supplies the wall clock used for every "today" decision.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// SystemClock reads time.Now in a fixed location.
type SystemClock struct {
	loc *time.Location
}

func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return &SystemClock{loc: loc}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *SystemClock) Location() *time.Location {
	return c.loc
}

// FixedClock always returns the same instant. It is used by tests and by
// commands that evaluate views "as of" a given moment.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

func (c FixedClock) Location() *time.Location {
	return c.T.Location()
}
