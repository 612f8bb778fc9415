package core

import (
	"errors"
	"fmt"
)

// ErrNoSecondsInterrupt is returned when the backend has no once-per-second
// interrupt line.
var ErrNoSecondsInterrupt = errors.New("rtc: backend has no seconds interrupt")

// Device is the logical model of one physical RTC peripheral. It shadows
// the hardware time, date and alarm registers, validates mutations, and
// commits whole records through the backend. One Device per peripheral;
// construct it once and pass it around.
//
// All methods run to completion on the caller's flow of execution. Alarm
// and seconds callbacks are delivered from interrupt (or backend-poll)
// context and must treat the shadow state as possibly stale: re-query
// through the getters instead of assuming freshness.
type Device struct {
	backend Backend
	trace   TraceWriter

	source  ClockSource
	format  HourFormat
	timeSet bool

	time Time
	date Date

	alarmDay   uint8
	alarmTime  Time
	alarmMatch Match
}

// New creates a Device bound to the given backend. The clock source
// defaults to the internal low-speed oscillator; change it with
// SetClockSource before Begin.
func New(backend Backend) *Device {
	return &Device{
		backend: backend,
		trace:   func(string) {},
		source:  SourceLSI,
		format:  Hour24,
	}
}

// Begin initializes the peripheral with the given hour format, keeping
// whatever calendar the backup domain already holds when the peripheral was
// running compatibly.
func (d *Device) Begin(format HourFormat) error {
	return d.BeginReset(false, format)
}

// BeginDefault initializes the peripheral in 24-hour mode.
func (d *Device) BeginDefault() error {
	return d.Begin(Hour24)
}

// BeginReset initializes the peripheral. With reset=true the backend is
// forced through a full reconfiguration even if it was already running.
//
// On a fresh initialization the time-set flag is cleared, the shadow cache
// is pulled from the backend's power-on calendar, and the alarm shadow is
// seeded from the current time so an alarm armed without explicit
// configuration fires at a sane default. When the peripheral was already
// running the prior configuration is trusted and the time counts as set.
func (d *Device) BeginReset(reset bool, format HourFormat) error {
	if reset {
		d.timeSet = false
	}
	d.format = format
	fresh, err := d.backend.Init(format, d.source, reset)
	if err != nil {
		return fmt.Errorf("rtc: init: %w", err)
	}
	d.tracef("init source=%s fresh=%v", d.source, fresh)
	if !fresh {
		d.timeSet = true
		return nil
	}
	d.timeSet = false
	if err := d.syncTime(); err != nil {
		return err
	}
	if err := d.syncDate(); err != nil {
		return err
	}
	// Seed the alarm shadow from the current time.
	d.alarmDay = d.date.Day
	d.alarmTime = d.time
	return nil
}

// End deinitializes and stops the peripheral. The shadow cache is invalid
// until the next Begin.
func (d *Device) End() error {
	d.timeSet = false
	if err := d.backend.Deinit(); err != nil {
		return fmt.Errorf("rtc: deinit: %w", err)
	}
	d.tracef("deinit")
	return nil
}

// ClockSource returns the oscillator selected for the peripheral.
func (d *Device) ClockSource() ClockSource {
	return d.source
}

// SetClockSource selects the oscillator used at the next initialization.
// It must be called before Begin; switching the source of a running
// peripheral requires ConfigForLowPower. Values outside the recognized set
// are ignored and the previous source stays active.
func (d *Device) SetClockSource(source ClockSource) {
	if source.valid() {
		d.source = source
	}
}

// HourFormat returns the hour format the peripheral was initialized with.
func (d *Device) HourFormat() HourFormat {
	return d.format
}

// IsTimeSet reports whether wall-clock time has been explicitly set since
// the last reset, as opposed to still counting from a power-on default.
func (d *Device) IsTimeSet() bool {
	return d.timeSet
}

// Prescaler returns the current divider chain configuration.
func (d *Device) Prescaler() (Prescaler, error) {
	return d.backend.Prescaler()
}

// SetPrescaler hands a divider chain configuration to the backend. It must
// be called before Begin.
func (d *Device) SetPrescaler(p Prescaler) error {
	return d.backend.SetPrescaler(p)
}

// AttachInterrupt registers fn to be called when the alarm comparator
// fires. fn runs in interrupt context.
func (d *Device) AttachInterrupt(fn func()) {
	d.backend.AttachAlarmCallback(fn)
}

// DetachInterrupt removes the alarm callback.
func (d *Device) DetachInterrupt() {
	d.backend.DetachAlarmCallback()
}

// AttachSecondsInterrupt registers fn to be called once per second.
// Backends without a seconds interrupt line return ErrNoSecondsInterrupt.
func (d *Device) AttachSecondsInterrupt(fn func()) error {
	t, ok := d.backend.(SecondsTicker)
	if !ok {
		return ErrNoSecondsInterrupt
	}
	t.AttachSecondsCallback(fn)
	return nil
}

// DetachSecondsInterrupt removes the seconds callback.
func (d *Device) DetachSecondsInterrupt() {
	if t, ok := d.backend.(SecondsTicker); ok {
		t.DetachSecondsCallback()
	}
}

// StandbyMode is a compatibility shim; entering standby is the job of a
// low-power library layered on top of this one.
func (d *Device) StandbyMode() {}

/*
 * Get functions
 */

// SubSeconds returns the current milliseconds within the second.
func (d *Device) SubSeconds() (uint32, error) {
	if err := d.syncTime(); err != nil {
		return 0, err
	}
	return d.time.SubSeconds, nil
}

// Seconds returns the current seconds.
func (d *Device) Seconds() (uint8, error) {
	if err := d.syncTime(); err != nil {
		return 0, err
	}
	return d.time.Seconds, nil
}

// Minutes returns the current minutes.
func (d *Device) Minutes() (uint8, error) {
	if err := d.syncTime(); err != nil {
		return 0, err
	}
	return d.time.Minutes, nil
}

// Hours returns the current hours and, for 12-hour mode, the half of day.
func (d *Device) Hours() (uint8, Period, error) {
	if err := d.syncTime(); err != nil {
		return 0, AM, err
	}
	return d.time.Hours, d.time.Period, nil
}

// Time returns the full broken-down time of day.
func (d *Device) Time() (Time, error) {
	if err := d.syncTime(); err != nil {
		return Time{}, err
	}
	return d.time, nil
}

// WeekDay returns the current week day, Monday=1 through Sunday=7.
func (d *Device) WeekDay() (uint8, error) {
	if err := d.syncDate(); err != nil {
		return 0, err
	}
	return d.date.WeekDay, nil
}

// Day returns the current day of month.
func (d *Device) Day() (uint8, error) {
	if err := d.syncDate(); err != nil {
		return 0, err
	}
	return d.date.Day, nil
}

// Month returns the current month.
func (d *Device) Month() (uint8, error) {
	if err := d.syncDate(); err != nil {
		return 0, err
	}
	return d.date.Month, nil
}

// Year returns the current year counted from 2000.
func (d *Device) Year() (uint8, error) {
	if err := d.syncDate(); err != nil {
		return 0, err
	}
	return d.date.Year, nil
}

// Date returns the full broken-down calendar date.
func (d *Device) Date() (Date, error) {
	if err := d.syncDate(); err != nil {
		return Date{}, err
	}
	return d.date, nil
}

/*
 * Set functions
 *
 * Every setter refreshes the shadow record from the backend first so fields
 * not being changed are not clobbered, applies only the in-range inputs
 * (out-of-range values are dropped and the prior cached value is kept), and
 * writes the whole record back.
 */

// SetSubSeconds sets the milliseconds within the second, 0-999.
func (d *Device) SetSubSeconds(subSeconds uint32) error {
	if err := d.syncTime(); err != nil {
		return err
	}
	if subSeconds < 1000 {
		d.time.SubSeconds = subSeconds
	}
	return d.commitTime()
}

// SetSeconds sets the seconds, 0-59.
func (d *Device) SetSeconds(seconds uint8) error {
	if err := d.syncTime(); err != nil {
		return err
	}
	if seconds < 60 {
		d.time.Seconds = seconds
	}
	return d.commitTime()
}

// SetMinutes sets the minutes, 0-59.
func (d *Device) SetMinutes(minutes uint8) error {
	if err := d.syncTime(); err != nil {
		return err
	}
	if minutes < 60 {
		d.time.Minutes = minutes
	}
	return d.commitTime()
}

// SetHours sets the hours, 0-23. The period is applied only in 12-hour
// mode.
func (d *Device) SetHours(hours uint8, period Period) error {
	if err := d.syncTime(); err != nil {
		return err
	}
	if hours < 24 {
		d.time.Hours = hours
	}
	if d.format == Hour12 {
		d.time.Period = period
	}
	return d.commitTime()
}

// SetTime sets the full time of day in one commit. Each out-of-range
// component is dropped individually; the remaining components still apply.
func (d *Device) SetTime(hours, minutes, seconds uint8, subSeconds uint32, period Period) error {
	if err := d.syncTime(); err != nil {
		return err
	}
	if subSeconds < 1000 {
		d.time.SubSeconds = subSeconds
	}
	if seconds < 60 {
		d.time.Seconds = seconds
	}
	if minutes < 60 {
		d.time.Minutes = minutes
	}
	if hours < 24 {
		d.time.Hours = hours
	}
	if d.format == Hour12 {
		d.time.Period = period
	}
	return d.commitTime()
}

// SetWeekDay sets the week day, Monday=1 through Sunday=7.
func (d *Device) SetWeekDay(weekDay uint8) error {
	if err := d.syncDate(); err != nil {
		return err
	}
	if weekDay >= 1 && weekDay <= 7 {
		d.date.WeekDay = weekDay
	}
	return d.commitDate()
}

// SetDay sets the day of month, 1-31.
func (d *Device) SetDay(day uint8) error {
	if err := d.syncDate(); err != nil {
		return err
	}
	if day >= 1 && day <= 31 {
		d.date.Day = day
	}
	return d.commitDate()
}

// SetMonth sets the month, 1-12.
func (d *Device) SetMonth(month uint8) error {
	if err := d.syncDate(); err != nil {
		return err
	}
	if month >= 1 && month <= 12 {
		d.date.Month = month
	}
	return d.commitDate()
}

// SetYear sets the year counted from 2000, 0-99.
func (d *Device) SetYear(year uint8) error {
	if err := d.syncDate(); err != nil {
		return err
	}
	if year < 100 {
		d.date.Year = year
	}
	return d.commitDate()
}

// SetDate sets the calendar date, leaving the week day untouched.
func (d *Device) SetDate(day, month, year uint8) error {
	if err := d.syncDate(); err != nil {
		return err
	}
	d.applyDate(day, month, year)
	return d.commitDate()
}

// SetFullDate sets the calendar date including the week day.
func (d *Device) SetFullDate(weekDay, day, month, year uint8) error {
	if err := d.syncDate(); err != nil {
		return err
	}
	if weekDay >= 1 && weekDay <= 7 {
		d.date.WeekDay = weekDay
	}
	d.applyDate(day, month, year)
	return d.commitDate()
}

func (d *Device) applyDate(day, month, year uint8) {
	if day >= 1 && day <= 31 {
		d.date.Day = day
	}
	if month >= 1 && month <= 12 {
		d.date.Month = month
	}
	if year < 100 {
		d.date.Year = year
	}
}

/*
 * Shadow cache synchronization
 */

func (d *Device) syncTime() error {
	t, err := d.backend.GetTime()
	if err != nil {
		return fmt.Errorf("rtc: read time: %w", err)
	}
	d.time = t
	return nil
}

func (d *Device) syncDate() error {
	dt, err := d.backend.GetDate()
	if err != nil {
		return fmt.Errorf("rtc: read date: %w", err)
	}
	d.date = dt
	return nil
}

func (d *Device) commitTime() error {
	if err := d.backend.SetTime(d.time); err != nil {
		return fmt.Errorf("rtc: write time: %w", err)
	}
	d.tracef("commit time %02d:%02d:%02d.%03d", d.time.Hours, d.time.Minutes, d.time.Seconds, d.time.SubSeconds)
	d.timeSet = true
	return nil
}

func (d *Device) commitDate() error {
	if err := d.backend.SetDate(d.date); err != nil {
		return fmt.Errorf("rtc: write date: %w", err)
	}
	d.tracef("commit date 20%02d-%02d-%02d wd=%d", d.date.Year, d.date.Month, d.date.Day, d.date.WeekDay)
	d.timeSet = true
	return nil
}
