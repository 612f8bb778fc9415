package core

import "time"

// Y2kEpochOffset is 2000-01-01T00:00:00Z in Unix time, the earliest instant
// the hardware can represent: the year register counts from 2000.
const Y2kEpochOffset int64 = 946684800

// Epoch returns the current calendar as Unix time plus the milliseconds
// within the second. The calendar is naive UTC: no timezone or DST
// adjustment is applied, and in 12-hour mode the raw hour register feeds
// the conversion unchanged.
func (d *Device) Epoch() (int64, uint32, error) {
	if err := d.syncDate(); err != nil {
		return 0, 0, err
	}
	if err := d.syncTime(); err != nil {
		return 0, 0, err
	}
	t := time.Date(2000+int(d.date.Year), time.Month(d.date.Month), int(d.date.Day),
		int(d.time.Hours), int(d.time.Minutes), int(d.time.Seconds), 0, time.UTC)
	return t.Unix(), d.time.SubSeconds, nil
}

// Y2kEpoch returns the current calendar as seconds since
// 2000-01-01T00:00:00Z, the hardware's native reference.
func (d *Device) Y2kEpoch() (int64, error) {
	ts, _, err := d.Epoch()
	if err != nil {
		return 0, err
	}
	return ts - Y2kEpochOffset, nil
}

// SetEpoch sets the calendar from Unix time. Timestamps before
// 2000-01-01T00:00:00Z are clamped up to that instant. The week day
// register follows the Monday=1 convention, so a calendar Sunday (0) is
// stored as 7.
func (d *Device) SetEpoch(ts int64, subSeconds uint32) error {
	if ts < Y2kEpochOffset {
		ts = Y2kEpochOffset
	}
	t := time.Unix(ts, 0).UTC()

	d.date.Year = uint8(t.Year() - 2000)
	d.date.Month = uint8(t.Month())
	d.date.Day = uint8(t.Day())
	if t.Weekday() == time.Sunday {
		d.date.WeekDay = WeekDaySunday
	} else {
		d.date.WeekDay = uint8(t.Weekday())
	}
	d.time.Hours = uint8(t.Hour())
	d.time.Minutes = uint8(t.Minute())
	d.time.Seconds = uint8(t.Second())
	if subSeconds < 1000 {
		d.time.SubSeconds = subSeconds
	}

	if err := d.commitDate(); err != nil {
		return err
	}
	return d.commitTime()
}

// SetY2kEpoch sets the calendar from seconds since 2000-01-01T00:00:00Z.
func (d *Device) SetY2kEpoch(ts int64) error {
	return d.SetEpoch(ts+Y2kEpochOffset, 0)
}

// SetAlarmEpoch stages the alarm from Unix time and arms it with the given
// match granularity. Timestamps before 2000-01-01T00:00:00Z are clamped.
// Only the day and time-of-day of the instant are used; the hardware cannot
// match month or year.
func (d *Device) SetAlarmEpoch(ts int64, match Match, subSeconds uint32) error {
	if ts < Y2kEpochOffset {
		ts = Y2kEpochOffset
	}
	t := time.Unix(ts, 0).UTC()

	d.SetAlarmDay(uint8(t.Day()))
	d.SetAlarmHours(uint8(t.Hour()), AM)
	d.SetAlarmMinutes(uint8(t.Minute()))
	d.SetAlarmSeconds(uint8(t.Second()))
	d.SetAlarmSubSeconds(subSeconds)
	return d.EnableAlarm(match)
}
