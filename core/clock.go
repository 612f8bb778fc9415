// Package core models the calendar, alarm and clock-source state of a
// single real-time-clock peripheral. It keeps an in-memory shadow of the
// hardware time, date and alarm registers, resynchronizing from the backend
// on every read and writing whole records back on every mutation, so callers
// never observe stale or half-updated state.
package core

// ClockSource selects the oscillator driving the RTC counter.
type ClockSource uint8

const (
	SourceLSI ClockSource = iota // low-speed internal oscillator
	SourceLSE                    // low-speed external crystal
	SourceHSE                    // high-speed external oscillator, divided
)

func (s ClockSource) String() string {
	switch s {
	case SourceLSI:
		return "LSI"
	case SourceLSE:
		return "LSE"
	case SourceHSE:
		return "HSE"
	}
	return "unknown"
}

// valid reports whether s names a recognized oscillator.
func (s ClockSource) valid() bool {
	return s == SourceLSI || s == SourceLSE || s == SourceHSE
}

// HourFormat selects 24-hour or 12-hour time keeping. It is fixed when the
// peripheral is initialized.
type HourFormat uint8

const (
	Hour24 HourFormat = iota
	Hour12
)

// Period is the AM/PM half of the day. It is meaningful only in 12-hour
// mode; in 24-hour mode it is carried through unchanged but ignored.
type Period uint8

const (
	AM Period = iota
	PM
)

// Time is the broken-down time-of-day register image. SubSeconds are
// milliseconds within the current second.
type Time struct {
	Hours      uint8  // 0-23 (1-12 in 12-hour mode)
	Minutes    uint8  // 0-59
	Seconds    uint8  // 0-59
	SubSeconds uint32 // 0-999
	Period     Period
}

// Date is the broken-down calendar register image. Year counts from 2000.
type Date struct {
	WeekDay uint8 // 1-7, Monday first
	Day     uint8 // 1-31
	Month   uint8 // 1-12
	Year    uint8 // 0-99
}

// WeekDaySunday is the weekday register value for Sunday. The calendar runs
// Monday=1 through Sunday=7.
const WeekDaySunday = 7
