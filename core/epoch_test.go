package core_test

import (
	"testing"

	"gortc/backends/sim"
	"gortc/core"
)

func newStartedDevice(t *testing.T) *core.Device {
	t.Helper()
	rtc := core.New(sim.New())
	if err := rtc.Begin(core.Hour24); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	return rtc
}

func TestSetEpochRoundTrip(t *testing.T) {
	rtc := newStartedDevice(t)

	// 2021-03-14T01:59:26Z
	const ts = 1615687166
	if err := rtc.SetEpoch(ts, 250); err != nil {
		t.Fatalf("SetEpoch failed: %v", err)
	}
	got, sub, err := rtc.Epoch()
	if err != nil {
		t.Fatalf("Epoch failed: %v", err)
	}
	if got != ts {
		t.Errorf("epoch round trip: got %d, want %d", got, ts)
	}
	if sub != 250 {
		t.Errorf("sub-seconds: got %d, want 250", sub)
	}

	// Idempotence: setting the epoch we just read must not move it.
	if err := rtc.SetEpoch(got, 0); err != nil {
		t.Fatalf("SetEpoch failed: %v", err)
	}
	again, _, err := rtc.Epoch()
	if err != nil {
		t.Fatalf("Epoch failed: %v", err)
	}
	if again != got {
		t.Errorf("second read: got %d, want %d", again, got)
	}
}

func TestSetEpochBrokenDownFields(t *testing.T) {
	rtc := newStartedDevice(t)

	// 2027-12-31T23:59:59Z, a Friday.
	if err := rtc.SetEpoch(1830297599, 0); err != nil {
		t.Fatalf("SetEpoch failed: %v", err)
	}
	d, err := rtc.Date()
	if err != nil {
		t.Fatalf("Date failed: %v", err)
	}
	tm, err := rtc.Time()
	if err != nil {
		t.Fatalf("Time failed: %v", err)
	}
	if d.Year != 27 || d.Month != 12 || d.Day != 31 {
		t.Errorf("date: got 20%02d-%02d-%02d, want 2027-12-31", d.Year, d.Month, d.Day)
	}
	if d.WeekDay != 5 {
		t.Errorf("weekday: got %d, want 5 (Friday)", d.WeekDay)
	}
	if tm.Hours != 23 || tm.Minutes != 59 || tm.Seconds != 59 {
		t.Errorf("time: got %02d:%02d:%02d, want 23:59:59", tm.Hours, tm.Minutes, tm.Seconds)
	}
}

func TestSetEpochClampsPre2000(t *testing.T) {
	rtc := newStartedDevice(t)
	if err := rtc.SetEpoch(core.Y2kEpochOffset-1, 0); err != nil {
		t.Fatalf("SetEpoch failed: %v", err)
	}
	got, _, err := rtc.Epoch()
	if err != nil {
		t.Fatalf("Epoch failed: %v", err)
	}
	if got != core.Y2kEpochOffset {
		t.Errorf("clamp: got %d, want %d", got, core.Y2kEpochOffset)
	}
}

func TestSetEpochSundayRemap(t *testing.T) {
	rtc := newStartedDevice(t)
	// 2000-01-02 was a Sunday.
	if err := rtc.SetEpoch(core.Y2kEpochOffset+86400, 0); err != nil {
		t.Fatalf("SetEpoch failed: %v", err)
	}
	wd, err := rtc.WeekDay()
	if err != nil {
		t.Fatalf("WeekDay failed: %v", err)
	}
	if wd != core.WeekDaySunday {
		t.Errorf("Sunday weekday: got %d, want %d", wd, core.WeekDaySunday)
	}
}

func TestY2kEpoch(t *testing.T) {
	rtc := newStartedDevice(t)
	if err := rtc.SetEpoch(1700000000, 0); err != nil {
		t.Fatalf("SetEpoch failed: %v", err)
	}
	ts, _, err := rtc.Epoch()
	if err != nil {
		t.Fatalf("Epoch failed: %v", err)
	}
	y2k, err := rtc.Y2kEpoch()
	if err != nil {
		t.Fatalf("Y2kEpoch failed: %v", err)
	}
	if y2k != ts-core.Y2kEpochOffset {
		t.Errorf("Y2kEpoch: got %d, want %d", y2k, ts-core.Y2kEpochOffset)
	}

	if err := rtc.SetY2kEpoch(y2k); err != nil {
		t.Fatalf("SetY2kEpoch failed: %v", err)
	}
	again, _, err := rtc.Epoch()
	if err != nil {
		t.Fatalf("Epoch failed: %v", err)
	}
	if again != ts {
		t.Errorf("SetY2kEpoch round trip: got %d, want %d", again, ts)
	}
}

func TestSetAlarmEpoch(t *testing.T) {
	b := sim.New()
	rtc := core.New(b)
	if err := rtc.Begin(core.Hour24); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	// 2026-06-15T07:45:30Z.
	if err := rtc.SetAlarmEpoch(1781509530, core.MatchDHHMMSS, 0); err != nil {
		t.Fatalf("SetAlarmEpoch failed: %v", err)
	}
	armed, err := rtc.AlarmEnabled()
	if err != nil {
		t.Fatalf("AlarmEnabled failed: %v", err)
	}
	if !armed {
		t.Fatal("SetAlarmEpoch must arm the alarm")
	}
	day, err := rtc.AlarmDay()
	if err != nil {
		t.Fatalf("AlarmDay failed: %v", err)
	}
	h, _, err := rtc.AlarmHours()
	if err != nil {
		t.Fatalf("AlarmHours failed: %v", err)
	}
	m, err := rtc.AlarmMinutes()
	if err != nil {
		t.Fatalf("AlarmMinutes failed: %v", err)
	}
	s, err := rtc.AlarmSeconds()
	if err != nil {
		t.Fatalf("AlarmSeconds failed: %v", err)
	}
	if day != 15 || h != 7 || m != 45 || s != 30 {
		t.Errorf("alarm fields: got day=%d %02d:%02d:%02d, want day=15 07:45:30", day, h, m, s)
	}
}
