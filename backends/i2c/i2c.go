// Package i2c implements core.Backend for an external companion RTC chip
// on an I2C bus, in the manner of the classic BCD register-map clock chips.
// Interrupt flags are polled from the status register rather than wired to
// a GPIO line; call Poll from the application loop to dispatch callbacks.
package i2c

import (
	"tinygo.org/x/drivers"

	"gortc/core"
)

// Backend wraps an I2C connection to the RTC chip.
type Backend struct {
	bus    drivers.I2C
	addr   uint8
	format core.HourFormat

	alarmFn  func()
	secondFn func()
}

var _ core.Backend = (*Backend)(nil)
var _ core.SecondsTicker = (*Backend)(nil)

// New creates a backend on the given bus. The bus must already be
// configured. addr 0 selects the default chip address.
func New(bus drivers.I2C, addr uint8) *Backend {
	if addr == 0 {
		addr = Address
	}
	return &Backend{bus: bus, addr: addr}
}

func (b *Backend) controlByte(format core.HourFormat, source core.ClockSource) uint8 {
	ctrl := uint8(ctrlRun)
	if format == core.Hour12 {
		ctrl |= ctrlFormat12
	}
	switch source {
	case core.SourceLSE:
		ctrl |= ctrlSourceLSE
	case core.SourceHSE:
		ctrl |= ctrlSourceHSE
	}
	return ctrl
}

// Init configures the oscillator and hour format. When the chip is already
// running with the wanted control byte the calendar is left alone and the
// initialization reports as a no-op; otherwise the control byte is written
// and the calendar reset to the power-on default (2000-01-01, midnight).
func (b *Backend) Init(format core.HourFormat, source core.ClockSource, reset bool) (bool, error) {
	buf := [1]byte{}
	if err := b.bus.ReadRegister(b.addr, RegControl, buf[:]); err != nil {
		return false, err
	}
	b.format = format
	want := b.controlByte(format, source)
	if !reset && buf[0] == want {
		return false, nil
	}

	if err := b.bus.WriteRegister(b.addr, RegControl, []byte{want}); err != nil {
		return false, err
	}
	if err := b.bus.WriteRegister(b.addr, RegStatus, []byte{0}); err != nil {
		return false, err
	}
	powerOn := core.Time{}
	if format == core.Hour12 {
		powerOn.Hours = 12 // midnight reads as 12 AM
	}
	if err := b.SetTime(powerOn); err != nil {
		return false, err
	}
	if err := b.SetDate(core.Date{WeekDay: 6, Day: 1, Month: 1, Year: 0}); err != nil {
		return false, err
	}
	return true, nil
}

// Deinit stops the oscillator.
func (b *Backend) Deinit() error {
	return b.bus.WriteRegister(b.addr, RegControl, []byte{0})
}

func (b *Backend) SetTime(t core.Time) error {
	buf := []byte{
		decToBcd(t.Seconds),
		decToBcd(t.Minutes),
		b.encodeHours(t.Hours, t.Period),
		byte(t.SubSeconds),
		byte(t.SubSeconds >> 8),
	}
	return b.bus.WriteRegister(b.addr, RegTime, buf)
}

func (b *Backend) GetTime() (core.Time, error) {
	buf := [5]byte{}
	if err := b.bus.ReadRegister(b.addr, RegTime, buf[:]); err != nil {
		return core.Time{}, err
	}
	hours, period := b.decodeHours(buf[2])
	return core.Time{
		Seconds:    bcdToDec(buf[0] & 0x7F),
		Minutes:    bcdToDec(buf[1] & 0x7F),
		Hours:      hours,
		SubSeconds: uint32(buf[3]) | uint32(buf[4])<<8,
		Period:     period,
	}, nil
}

func (b *Backend) SetDate(d core.Date) error {
	buf := []byte{
		decToBcd(d.WeekDay),
		decToBcd(d.Day),
		decToBcd(d.Month),
		decToBcd(d.Year),
	}
	return b.bus.WriteRegister(b.addr, RegDate, buf)
}

func (b *Backend) GetDate() (core.Date, error) {
	buf := [4]byte{}
	if err := b.bus.ReadRegister(b.addr, RegDate, buf[:]); err != nil {
		return core.Date{}, err
	}
	return core.Date{
		WeekDay: bcdToDec(buf[0] & 0x07),
		Day:     bcdToDec(buf[1] & 0x3F),
		Month:   bcdToDec(buf[2] & 0x1F),
		Year:    bcdToDec(buf[3]),
	}, nil
}

func (b *Backend) StartAlarm(a core.AlarmState) error {
	buf := []byte{
		decToBcd(a.Day),
		b.encodeHours(a.Time.Hours, a.Time.Period),
		decToBcd(a.Time.Minutes),
		decToBcd(a.Time.Seconds),
		byte(a.Time.SubSeconds),
		byte(a.Time.SubSeconds >> 8),
		a.MatchCode,
	}
	if err := b.bus.WriteRegister(b.addr, RegAlarm, buf); err != nil {
		return err
	}
	return b.setStatusBit(statusAlarmArmed, true)
}

func (b *Backend) StopAlarm() error {
	return b.setStatusBit(statusAlarmArmed, false)
}

func (b *Backend) GetAlarm() (core.AlarmState, error) {
	buf := [7]byte{}
	if err := b.bus.ReadRegister(b.addr, RegAlarm, buf[:]); err != nil {
		return core.AlarmState{}, err
	}
	hours, period := b.decodeHours(buf[1])
	return core.AlarmState{
		Day: bcdToDec(buf[0] & 0x3F),
		Time: core.Time{
			Hours:      hours,
			Minutes:    bcdToDec(buf[2] & 0x7F),
			Seconds:    bcdToDec(buf[3] & 0x7F),
			SubSeconds: uint32(buf[4]) | uint32(buf[5])<<8,
			Period:     period,
		},
		MatchCode: buf[6],
	}, nil
}

func (b *Backend) AlarmArmed() (bool, error) {
	buf := [1]byte{}
	if err := b.bus.ReadRegister(b.addr, RegStatus, buf[:]); err != nil {
		return false, err
	}
	return buf[0]&statusAlarmArmed != 0, nil
}

func (b *Backend) Prescaler() (core.Prescaler, error) {
	buf := [9]byte{}
	if err := b.bus.ReadRegister(b.addr, RegPrescaler, buf[:]); err != nil {
		return core.Prescaler{}, err
	}
	return core.Prescaler{
		Layout: core.PrescalerLayout(buf[0]),
		Async:  int32(uint32(buf[1]) | uint32(buf[2])<<8 | uint32(buf[3])<<16 | uint32(buf[4])<<24),
		Sync:   int32(uint32(buf[5]) | uint32(buf[6])<<8 | uint32(buf[7])<<16 | uint32(buf[8])<<24),
	}, nil
}

func (b *Backend) SetPrescaler(p core.Prescaler) error {
	buf := []byte{
		byte(p.Layout),
		byte(p.Async), byte(p.Async >> 8), byte(p.Async >> 16), byte(p.Async >> 24),
		byte(p.Sync), byte(p.Sync >> 8), byte(p.Sync >> 16), byte(p.Sync >> 24),
	}
	return b.bus.WriteRegister(b.addr, RegPrescaler, buf)
}

func (b *Backend) AttachAlarmCallback(fn func()) { b.alarmFn = fn }
func (b *Backend) DetachAlarmCallback()          { b.alarmFn = nil }

func (b *Backend) AttachSecondsCallback(fn func()) { b.secondFn = fn }
func (b *Backend) DetachSecondsCallback()          { b.secondFn = nil }

// Poll reads the interrupt flags, clears any that are set and dispatches
// the registered callbacks.
func (b *Backend) Poll() error {
	buf := [1]byte{}
	if err := b.bus.ReadRegister(b.addr, RegStatus, buf[:]); err != nil {
		return err
	}
	flags := buf[0] & (statusAlarmFlag | statusSecondFlag)
	if flags == 0 {
		return nil
	}
	if err := b.bus.WriteRegister(b.addr, RegStatus, []byte{buf[0] &^ flags}); err != nil {
		return err
	}
	if flags&statusAlarmFlag != 0 && b.alarmFn != nil {
		b.alarmFn()
	}
	if flags&statusSecondFlag != 0 && b.secondFn != nil {
		b.secondFn()
	}
	return nil
}

func (b *Backend) setStatusBit(bit uint8, on bool) error {
	buf := [1]byte{}
	if err := b.bus.ReadRegister(b.addr, RegStatus, buf[:]); err != nil {
		return err
	}
	if on {
		buf[0] |= bit
	} else {
		buf[0] &^= bit
	}
	return b.bus.WriteRegister(b.addr, RegStatus, buf[:])
}

func (b *Backend) encodeHours(hours uint8, period core.Period) uint8 {
	v := decToBcd(hours)
	if b.format == core.Hour12 && period == core.PM {
		v |= hoursPM
	}
	return v
}

func (b *Backend) decodeHours(raw uint8) (uint8, core.Period) {
	if b.format == core.Hour12 {
		period := core.AM
		if raw&hoursPM != 0 {
			period = core.PM
		}
		return bcdToDec(raw & 0x1F), period
	}
	return bcdToDec(raw & 0x3F), core.AM
}
