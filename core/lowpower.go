package core

// ConfigForLowPower switches the peripheral to the given oscillator for
// low-power operation. The hardware cannot change its clock source in
// place, so the full calendar and alarm state is snapshotted, the backend
// is deinitialized and brought back up on the new source with the original
// hour format, and the snapshot is restored. The alarm is re-armed only if
// it was armed before the switch.
//
// If the wall clock was never explicitly set, the time is seeded to noon so
// downstream wake logic starts from a defined instant instead of a
// power-on default.
func (d *Device) ConfigForLowPower(source ClockSource) error {
	if err := d.Begin(d.format); err != nil {
		return err
	}

	if d.source != source {
		alarmDay := d.alarmDay
		alarmTime := d.alarmTime
		alarmMatch := d.alarmMatch

		date, err := d.Date()
		if err != nil {
			return err
		}
		t, err := d.Time()
		if err != nil {
			return err
		}
		armed, err := d.backend.AlarmArmed()
		if err != nil {
			return err
		}

		if err := d.End(); err != nil {
			return err
		}
		d.source = source
		if err := d.Begin(d.format); err != nil {
			return err
		}

		if err := d.SetTime(t.Hours, t.Minutes, t.Seconds, t.SubSeconds, t.Period); err != nil {
			return err
		}
		if err := d.SetFullDate(date.WeekDay, date.Day, date.Month, date.Year); err != nil {
			return err
		}
		d.SetAlarmTime(alarmTime.Hours, alarmTime.Minutes, alarmTime.Seconds, alarmTime.SubSeconds, alarmTime.Period)
		d.SetAlarmDay(alarmDay)
		if armed {
			if err := d.EnableAlarm(alarmMatch); err != nil {
				return err
			}
		}
	}

	if !d.IsTimeSet() {
		// Arbitrary but defined starting point.
		return d.SetTime(12, 0, 0, 0, AM)
	}
	return nil
}
