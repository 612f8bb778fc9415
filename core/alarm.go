package core

import "fmt"

// Alarm setters stage values in the local shadow only; nothing reaches the
// hardware until EnableAlarm commits the whole record. Alarm getters
// resynchronize from the backend first, because once armed the hardware is
// the authority: a prior session (or code bypassing this model) may have
// programmed the comparator directly.

// EnableAlarm stores the match granularity and commits the staged alarm to
// the hardware. MatchOff stops the comparator instead. Unrecognized values
// leave the hardware untouched.
func (d *Device) EnableAlarm(match Match) error {
	d.alarmMatch = match
	switch match {
	case MatchOff:
		if err := d.backend.StopAlarm(); err != nil {
			return fmt.Errorf("rtc: stop alarm: %w", err)
		}
		d.tracef("alarm off")
	case MatchSS, MatchMMSS, MatchHHMMSS,
		MatchDHHMMSS, MatchMMDDHHMMSS, MatchYYMMDDHHMMSS:
		st := AlarmState{Day: d.alarmDay, Time: d.alarmTime, MatchCode: uint8(match)}
		if err := d.backend.StartAlarm(st); err != nil {
			return fmt.Errorf("rtc: start alarm: %w", err)
		}
		d.tracef("alarm armed day=%d %02d:%02d:%02d match=%s",
			st.Day, st.Time.Hours, st.Time.Minutes, st.Time.Seconds, match)
	}
	return nil
}

// DisableAlarm stops the alarm comparator. The staged shadow values are
// kept for a later re-enable.
func (d *Device) DisableAlarm() error {
	if err := d.backend.StopAlarm(); err != nil {
		return fmt.Errorf("rtc: stop alarm: %w", err)
	}
	d.tracef("alarm off")
	return nil
}

// AlarmEnabled reports whether the hardware comparator is armed.
func (d *Device) AlarmEnabled() (bool, error) {
	return d.backend.AlarmArmed()
}

/*
 * Alarm get functions
 */

// AlarmSubSeconds returns the alarm milliseconds within the second.
func (d *Device) AlarmSubSeconds() (uint32, error) {
	if err := d.syncAlarm(); err != nil {
		return 0, err
	}
	return d.alarmTime.SubSeconds, nil
}

// AlarmSeconds returns the alarm seconds.
func (d *Device) AlarmSeconds() (uint8, error) {
	if err := d.syncAlarm(); err != nil {
		return 0, err
	}
	return d.alarmTime.Seconds, nil
}

// AlarmMinutes returns the alarm minutes.
func (d *Device) AlarmMinutes() (uint8, error) {
	if err := d.syncAlarm(); err != nil {
		return 0, err
	}
	return d.alarmTime.Minutes, nil
}

// AlarmHours returns the alarm hours and, for 12-hour mode, the half of
// day.
func (d *Device) AlarmHours() (uint8, Period, error) {
	if err := d.syncAlarm(); err != nil {
		return 0, AM, err
	}
	return d.alarmTime.Hours, d.alarmTime.Period, nil
}

// AlarmDay returns the alarm day of month.
func (d *Device) AlarmDay() (uint8, error) {
	if err := d.syncAlarm(); err != nil {
		return 0, err
	}
	return d.alarmDay, nil
}

// AlarmMatch returns the match granularity last read back from the
// hardware, decoded with the MatchOff fallback.
func (d *Device) AlarmMatch() (Match, error) {
	if err := d.syncAlarm(); err != nil {
		return MatchOff, err
	}
	return d.alarmMatch, nil
}

// AlarmMonth always returns 0: the hardware cannot bind an alarm to a
// month. Kept for interface compatibility with generic date/time APIs.
func (d *Device) AlarmMonth() uint8 { return 0 }

// AlarmYear always returns 0: the hardware cannot bind an alarm to a year.
func (d *Device) AlarmYear() uint8 { return 0 }

/*
 * Alarm set functions
 */

// SetAlarmSubSeconds stages the alarm milliseconds, 0-999.
func (d *Device) SetAlarmSubSeconds(subSeconds uint32) {
	if subSeconds < 1000 {
		d.alarmTime.SubSeconds = subSeconds
	}
}

// SetAlarmSeconds stages the alarm seconds, 0-59.
func (d *Device) SetAlarmSeconds(seconds uint8) {
	if seconds < 60 {
		d.alarmTime.Seconds = seconds
	}
}

// SetAlarmMinutes stages the alarm minutes, 0-59.
func (d *Device) SetAlarmMinutes(minutes uint8) {
	if minutes < 60 {
		d.alarmTime.Minutes = minutes
	}
}

// SetAlarmHours stages the alarm hours, 0-23. The period is applied only
// in 12-hour mode.
func (d *Device) SetAlarmHours(hours uint8, period Period) {
	if hours < 24 {
		d.alarmTime.Hours = hours
	}
	if d.format == Hour12 {
		d.alarmTime.Period = period
	}
}

// SetAlarmTime stages the full alarm time of day.
func (d *Device) SetAlarmTime(hours, minutes, seconds uint8, subSeconds uint32, period Period) {
	d.SetAlarmHours(hours, period)
	d.SetAlarmMinutes(minutes)
	d.SetAlarmSeconds(seconds)
	d.SetAlarmSubSeconds(subSeconds)
}

// SetAlarmDay stages the alarm day of month, 1-31.
func (d *Device) SetAlarmDay(day uint8) {
	if day >= 1 && day <= 31 {
		d.alarmDay = day
	}
}

// SetAlarmMonth is accepted for compatibility and ignored: the hardware
// cannot bind an alarm to a month.
func (d *Device) SetAlarmMonth(month uint8) {}

// SetAlarmYear is accepted for compatibility and ignored: the hardware
// cannot bind an alarm to a year.
func (d *Device) SetAlarmYear(year uint8) {}

// SetAlarmDate stages the alarm date. Month and year are ignored, see
// SetAlarmMonth and SetAlarmYear.
func (d *Device) SetAlarmDate(day, month, year uint8) {
	d.SetAlarmDay(day)
}

func (d *Device) syncAlarm() error {
	st, err := d.backend.GetAlarm()
	if err != nil {
		return fmt.Errorf("rtc: read alarm: %w", err)
	}
	d.alarmDay = st.Day
	d.alarmTime = st.Time
	d.alarmMatch = DecodeMatch(st.MatchCode)
	return nil
}
