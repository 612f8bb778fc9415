package core

// Backend is the hardware access layer for one physical RTC peripheral.
// It is implemented by a register-level adapter in production (see the
// backends directory) and by a deterministic simulator in tests. All calls
// are synchronous; only callback delivery is asynchronous from the caller's
// point of view.
type Backend interface {
	// Init powers up the peripheral for the given hour format and clock
	// source. It reports fresh=true when the peripheral was not already
	// running with a compatible configuration (or reset forced a
	// reconfiguration) and its calendar holds power-on defaults.
	Init(format HourFormat, source ClockSource, reset bool) (fresh bool, err error)

	// Deinit stops the peripheral and releases the backup domain.
	Deinit() error

	SetTime(t Time) error
	GetTime() (Time, error)

	SetDate(d Date) error
	GetDate() (Date, error)

	// StartAlarm programs and arms the single hardware alarm comparator.
	// The match code in the alarm state is the raw wire value.
	StartAlarm(a AlarmState) error
	StopAlarm() error
	GetAlarm() (AlarmState, error)
	AlarmArmed() (bool, error)

	// Prescaler access is an opaque pass-through; the divider chain layout
	// depends on the part (see Prescaler).
	Prescaler() (Prescaler, error)
	SetPrescaler(p Prescaler) error

	AttachAlarmCallback(fn func())
	DetachAlarmCallback()
}

// SecondsTicker is the optional once-per-second interrupt capability. A
// backend exposes it only when the underlying part has a seconds IRQ; the
// Device probes for it with a type assertion.
type SecondsTicker interface {
	AttachSecondsCallback(fn func())
	DetachSecondsCallback()
}

// AlarmState is the alarm register image exchanged with the backend. The
// match code travels as the raw hardware value; DecodeMatch maps it back to
// a Match, defaulting to MatchOff for anything unrecognized.
type AlarmState struct {
	Day       uint8
	Time      Time
	MatchCode uint8
}

// PrescalerLayout selects which divider fields of a Prescaler are
// meaningful for the attached part.
type PrescalerLayout uint8

const (
	// PrescalerDual is the common layout: separate asynchronous and
	// synchronous divider stages.
	PrescalerDual PrescalerLayout = iota
	// PrescalerSingle is the legacy layout with one asynchronous divider
	// and no synchronous stage.
	PrescalerSingle
)

// Prescaler holds the RTC divider chain configuration. Legacy parts carry a
// single asynchronous divider; newer ones split the chain into asynchronous
// and synchronous stages. Sync is ignored when Layout is PrescalerSingle.
type Prescaler struct {
	Layout PrescalerLayout
	Async  int32
	Sync   int32
}
