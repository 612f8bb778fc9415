// Package sim provides a deterministic in-memory RTC backend. It behaves
// like the real peripheral at the register level (power-on calendar
// defaults, fresh-versus-noop initialization, an alarm comparator with
// match granularity), but time only moves when the caller advances it, so
// tests and host-side runs are fully reproducible. Alarm and seconds
// callbacks fire synchronously from Advance.
package sim

import (
	"time"

	"gortc/core"
)

// Backend implements core.Backend and core.SecondsTicker.
type Backend struct {
	running bool
	format  core.HourFormat
	source  core.ClockSource

	time core.Time
	date core.Date

	alarm core.AlarmState
	armed bool

	prescaler core.Prescaler

	alarmFn  func()
	secondFn func()
}

var _ core.Backend = (*Backend)(nil)
var _ core.SecondsTicker = (*Backend)(nil)

// New returns a powered-off simulator holding power-on defaults.
func New() *Backend {
	b := &Backend{
		prescaler: core.Prescaler{Layout: core.PrescalerDual, Async: -1, Sync: -1},
	}
	b.reset()
	return b
}

// reset loads the power-on calendar: 2000-01-01 (a Saturday), midnight.
// The prescaler is untouched: dividers are configured before
// initialization and must survive it.
func (b *Backend) reset() {
	b.time = core.Time{}
	b.date = core.Date{WeekDay: 6, Day: 1, Month: 1, Year: 0}
	b.alarm = core.AlarmState{}
	b.armed = false
}

// Init brings the peripheral up. The initialization is fresh, resetting
// calendar and alarm to power-on defaults, when forced by reset, when the
// peripheral is not running, or when the requested configuration differs
// from the active one.
func (b *Backend) Init(format core.HourFormat, source core.ClockSource, reset bool) (bool, error) {
	fresh := reset || !b.running || b.format != format || b.source != source
	b.format = format
	b.source = source
	b.running = true
	if fresh {
		b.reset()
		if format == core.Hour12 {
			b.time.Hours = 12 // midnight reads as 12 AM
		}
	}
	return fresh, nil
}

func (b *Backend) Deinit() error {
	b.running = false
	return nil
}

func (b *Backend) SetTime(t core.Time) error {
	b.time = t
	return nil
}

func (b *Backend) GetTime() (core.Time, error) {
	return b.time, nil
}

func (b *Backend) SetDate(d core.Date) error {
	b.date = d
	return nil
}

func (b *Backend) GetDate() (core.Date, error) {
	return b.date, nil
}

func (b *Backend) StartAlarm(a core.AlarmState) error {
	b.alarm = a
	b.armed = true
	return nil
}

func (b *Backend) StopAlarm() error {
	b.armed = false
	return nil
}

func (b *Backend) GetAlarm() (core.AlarmState, error) {
	return b.alarm, nil
}

func (b *Backend) AlarmArmed() (bool, error) {
	return b.armed, nil
}

func (b *Backend) Prescaler() (core.Prescaler, error) {
	return b.prescaler, nil
}

func (b *Backend) SetPrescaler(p core.Prescaler) error {
	b.prescaler = p
	return nil
}

func (b *Backend) AttachAlarmCallback(fn func()) { b.alarmFn = fn }
func (b *Backend) DetachAlarmCallback()          { b.alarmFn = nil }

func (b *Backend) AttachSecondsCallback(fn func()) { b.secondFn = fn }
func (b *Backend) DetachSecondsCallback()          { b.secondFn = nil }

// Running reports whether the peripheral is initialized.
func (b *Backend) Running() bool { return b.running }

// Advance moves the simulated clock forward, firing the seconds callback
// on every second boundary and the alarm callback whenever the armed
// comparator matches. Durations below a millisecond are lost.
func (b *Backend) Advance(d time.Duration) {
	if !b.running {
		return
	}
	for ms := d.Milliseconds(); ms > 0; {
		step := int64(1000 - b.time.SubSeconds)
		if step > ms {
			b.time.SubSeconds += uint32(ms)
			return
		}
		ms -= step
		b.time.SubSeconds = 0
		b.tickSecond()
		if b.secondFn != nil {
			b.secondFn()
		}
		if b.armed && b.alarmMatches() && b.alarmFn != nil {
			b.alarmFn()
		}
	}
}

func (b *Backend) tickSecond() {
	t := &b.time
	t.Seconds++
	if t.Seconds < 60 {
		return
	}
	t.Seconds = 0
	t.Minutes++
	if t.Minutes < 60 {
		return
	}
	t.Minutes = 0
	if b.format == core.Hour12 {
		switch t.Hours {
		case 11:
			// 11:59 rolls to 12:00 of the other half; midnight starts a
			// new day.
			t.Hours = 12
			if t.Period == core.AM {
				t.Period = core.PM
			} else {
				t.Period = core.AM
				b.nextDay()
			}
		case 12:
			t.Hours = 1
		default:
			t.Hours++
		}
		return
	}
	t.Hours++
	if t.Hours == 24 {
		t.Hours = 0
		b.nextDay()
	}
}

func (b *Backend) nextDay() {
	d := &b.date
	d.WeekDay++
	if d.WeekDay > 7 {
		d.WeekDay = 1
	}
	d.Day++
	if d.Day <= daysInMonth(d.Month, d.Year) {
		return
	}
	d.Day = 1
	d.Month++
	if d.Month <= 12 {
		return
	}
	d.Month = 1
	d.Year++
	if d.Year > 99 {
		d.Year = 0
	}
}

// daysInMonth covers 2000-2099, where every fourth year is a leap year.
func daysInMonth(month, year uint8) uint8 {
	switch month {
	case 2:
		if year%4 == 0 {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}

// alarmMatches evaluates the comparator against the current time. The two
// legacy month/year-qualified codes behave exactly like the day-qualified
// one: the comparator has no month or year inputs.
func (b *Backend) alarmMatches() bool {
	m := core.DecodeMatch(b.alarm.MatchCode)
	a, t := b.alarm.Time, b.time

	switch m {
	case core.MatchDHHMMSS, core.MatchMMDDHHMMSS, core.MatchYYMMDDHHMMSS:
		if b.alarm.Day != b.date.Day {
			return false
		}
		fallthrough
	case core.MatchHHMMSS:
		if a.Hours != t.Hours {
			return false
		}
		if b.format == core.Hour12 && a.Period != t.Period {
			return false
		}
		fallthrough
	case core.MatchMMSS:
		if a.Minutes != t.Minutes {
			return false
		}
		fallthrough
	case core.MatchSS:
		return a.Seconds == t.Seconds
	}
	return false
}
