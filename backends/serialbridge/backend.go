package serialbridge

import (
	"fmt"
	"io"

	"gortc/core"
)

// Backend drives the RTC registers through the bridge link.
type Backend struct {
	port Port

	alarmFn  func()
	secondFn func()
}

var _ core.Backend = (*Backend)(nil)
var _ core.SecondsTicker = (*Backend)(nil)

// NewBackend wraps an open port.
func NewBackend(port Port) *Backend {
	return &Backend{port: port}
}

// Dial opens the serial device described by cfg and returns a backend on
// it.
func Dial(cfg *Config) (*Backend, error) {
	port, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return NewBackend(port), nil
}

// Close closes the underlying port.
func (b *Backend) Close() error {
	return b.port.Close()
}

// request sends one register operation and waits for its response. Event
// frames arriving in between are dispatched, not dropped.
func (b *Backend) request(op byte, payload []byte) ([]byte, error) {
	frame, err := encodeFrame(op, payload)
	if err != nil {
		return nil, err
	}
	if _, err := b.port.Write(frame); err != nil {
		return nil, fmt.Errorf("serialbridge: write op %#02x: %w", op, err)
	}
	for {
		respOp, resp, err := readFrame(b.port)
		if err != nil {
			return nil, fmt.Errorf("serialbridge: read response to op %#02x: %w", op, err)
		}
		if b.dispatchEvent(respOp) {
			continue
		}
		if respOp != op {
			return nil, fmt.Errorf("%w: response op %#02x for request %#02x", ErrFraming, respOp, op)
		}
		if len(resp) < 1 {
			return nil, fmt.Errorf("%w: empty response", ErrFraming)
		}
		if resp[0] != statusOK {
			return nil, fmt.Errorf("serialbridge: op %#02x failed with status %d", op, resp[0])
		}
		return resp[1:], nil
	}
}

func (b *Backend) dispatchEvent(op byte) bool {
	switch op {
	case opEventAlarm:
		if b.alarmFn != nil {
			b.alarmFn()
		}
	case opEventSecond:
		if b.secondFn != nil {
			b.secondFn()
		}
	default:
		return false
	}
	return true
}

// Poll drains pending event frames from the bridge and dispatches the
// registered callbacks. It returns once the link goes idle; call it from
// the application loop. On a port without a read timeout Poll blocks until
// a frame arrives.
func (b *Backend) Poll() error {
	var lenByte [1]byte
	for {
		n, err := b.port.Read(lenByte[:])
		if err == io.EOF || (err == nil && n == 0) {
			return nil // timeout, nothing pending
		}
		if err != nil {
			return fmt.Errorf("serialbridge: poll: %w", err)
		}
		op, _, err := readFrameAfterLen(b.port, lenByte[0])
		if err != nil {
			return fmt.Errorf("serialbridge: poll: %w", err)
		}
		b.dispatchEvent(op)
	}
}

func (b *Backend) Init(format core.HourFormat, source core.ClockSource, reset bool) (bool, error) {
	req := []byte{byte(format), byte(source), 0}
	if reset {
		req[2] = 1
	}
	resp, err := b.request(opInit, req)
	if err != nil {
		return false, err
	}
	if len(resp) != 1 {
		return false, fmt.Errorf("%w: init response length %d", ErrFraming, len(resp))
	}
	return resp[0] != 0, nil
}

func (b *Backend) Deinit() error {
	_, err := b.request(opDeinit, nil)
	return err
}

func (b *Backend) SetTime(t core.Time) error {
	_, err := b.request(opSetTime, encodeTime(t))
	return err
}

func (b *Backend) GetTime() (core.Time, error) {
	resp, err := b.request(opGetTime, nil)
	if err != nil {
		return core.Time{}, err
	}
	return decodeTime(resp)
}

func (b *Backend) SetDate(d core.Date) error {
	_, err := b.request(opSetDate, []byte{d.WeekDay, d.Day, d.Month, d.Year})
	return err
}

func (b *Backend) GetDate() (core.Date, error) {
	resp, err := b.request(opGetDate, nil)
	if err != nil {
		return core.Date{}, err
	}
	if len(resp) != 4 {
		return core.Date{}, fmt.Errorf("%w: date response length %d", ErrFraming, len(resp))
	}
	return core.Date{WeekDay: resp[0], Day: resp[1], Month: resp[2], Year: resp[3]}, nil
}

func (b *Backend) StartAlarm(a core.AlarmState) error {
	req := append([]byte{a.Day}, encodeTime(a.Time)...)
	req = append(req, a.MatchCode)
	_, err := b.request(opStartAlarm, req)
	return err
}

func (b *Backend) StopAlarm() error {
	_, err := b.request(opStopAlarm, nil)
	return err
}

func (b *Backend) GetAlarm() (core.AlarmState, error) {
	resp, err := b.request(opGetAlarm, nil)
	if err != nil {
		return core.AlarmState{}, err
	}
	if len(resp) != 8 {
		return core.AlarmState{}, fmt.Errorf("%w: alarm response length %d", ErrFraming, len(resp))
	}
	t, err := decodeTime(resp[1:7])
	if err != nil {
		return core.AlarmState{}, err
	}
	return core.AlarmState{Day: resp[0], Time: t, MatchCode: resp[7]}, nil
}

func (b *Backend) AlarmArmed() (bool, error) {
	resp, err := b.request(opAlarmArmed, nil)
	if err != nil {
		return false, err
	}
	if len(resp) != 1 {
		return false, fmt.Errorf("%w: armed response length %d", ErrFraming, len(resp))
	}
	return resp[0] != 0, nil
}

func (b *Backend) Prescaler() (core.Prescaler, error) {
	resp, err := b.request(opGetPrescaler, nil)
	if err != nil {
		return core.Prescaler{}, err
	}
	if len(resp) != 9 {
		return core.Prescaler{}, fmt.Errorf("%w: prescaler response length %d", ErrFraming, len(resp))
	}
	return core.Prescaler{
		Layout: core.PrescalerLayout(resp[0]),
		Async:  int32(le32(resp[1:5])),
		Sync:   int32(le32(resp[5:9])),
	}, nil
}

func (b *Backend) SetPrescaler(p core.Prescaler) error {
	req := make([]byte, 9)
	req[0] = byte(p.Layout)
	putLE32(req[1:5], uint32(p.Async))
	putLE32(req[5:9], uint32(p.Sync))
	_, err := b.request(opSetPrescaler, req)
	return err
}

func (b *Backend) AttachAlarmCallback(fn func()) { b.alarmFn = fn }
func (b *Backend) DetachAlarmCallback()          { b.alarmFn = nil }

func (b *Backend) AttachSecondsCallback(fn func()) { b.secondFn = fn }
func (b *Backend) DetachSecondsCallback()          { b.secondFn = nil }

// encodeTime packs a time record as [hours minutes seconds subLo subHi
// period]; sub-seconds fit a uint16 (0-999).
func encodeTime(t core.Time) []byte {
	return []byte{
		t.Hours, t.Minutes, t.Seconds,
		byte(t.SubSeconds), byte(t.SubSeconds >> 8),
		byte(t.Period),
	}
}

func decodeTime(p []byte) (core.Time, error) {
	if len(p) != 6 {
		return core.Time{}, fmt.Errorf("%w: time record length %d", ErrFraming, len(p))
	}
	return core.Time{
		Hours:      p[0],
		Minutes:    p[1],
		Seconds:    p[2],
		SubSeconds: uint32(p[3]) | uint32(p[4])<<8,
		Period:     core.Period(p[5]),
	}, nil
}

func le32(p []byte) uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
}

func putLE32(p []byte, v uint32) {
	p[0] = byte(v)
	p[1] = byte(v >> 8)
	p[2] = byte(v >> 16)
	p[3] = byte(v >> 24)
}
