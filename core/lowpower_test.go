package core_test

import (
	"testing"

	"gortc/backends/sim"
	"gortc/core"
)

func TestConfigForLowPowerMigratesState(t *testing.T) {
	b := sim.New()
	rtc := core.New(b)
	rtc.SetClockSource(core.SourceLSI)
	if err := rtc.Begin(core.Hour24); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	if err := rtc.SetTime(8, 30, 0, 0, core.AM); err != nil {
		t.Fatalf("SetTime failed: %v", err)
	}
	if err := rtc.SetFullDate(3, 24, 9, 25); err != nil {
		t.Fatalf("SetFullDate failed: %v", err)
	}
	rtc.SetAlarmTime(9, 0, 0, 0, core.AM)
	rtc.SetAlarmDay(24)
	if err := rtc.EnableAlarm(core.MatchDHHMMSS); err != nil {
		t.Fatalf("EnableAlarm failed: %v", err)
	}

	if err := rtc.ConfigForLowPower(core.SourceLSE); err != nil {
		t.Fatalf("ConfigForLowPower failed: %v", err)
	}
	if rtc.ClockSource() != core.SourceLSE {
		t.Fatalf("clock source: got %v, want LSE", rtc.ClockSource())
	}

	tm, err := rtc.Time()
	if err != nil {
		t.Fatalf("Time failed: %v", err)
	}
	wantTime := core.Time{Hours: 8, Minutes: 30}
	if tm != wantTime {
		t.Errorf("time after migration: got %+v, want %+v", tm, wantTime)
	}
	d, err := rtc.Date()
	if err != nil {
		t.Fatalf("Date failed: %v", err)
	}
	wantDate := core.Date{WeekDay: 3, Day: 24, Month: 9, Year: 25}
	if d != wantDate {
		t.Errorf("date after migration: got %+v, want %+v", d, wantDate)
	}

	armed, err := rtc.AlarmEnabled()
	if err != nil {
		t.Fatalf("AlarmEnabled failed: %v", err)
	}
	if !armed {
		t.Fatal("armed alarm must survive the migration")
	}
	day, err := rtc.AlarmDay()
	if err != nil {
		t.Fatalf("AlarmDay failed: %v", err)
	}
	h, _, err := rtc.AlarmHours()
	if err != nil {
		t.Fatalf("AlarmHours failed: %v", err)
	}
	match, err := rtc.AlarmMatch()
	if err != nil {
		t.Fatalf("AlarmMatch failed: %v", err)
	}
	if day != 24 || h != 9 || match != core.MatchDHHMMSS {
		t.Errorf("alarm after migration: got day=%d hours=%d match=%v, want day=24 hours=9 match=DHHMMSS", day, h, match)
	}
}

func TestConfigForLowPowerDisarmedAlarmStaysDisarmed(t *testing.T) {
	b := sim.New()
	rtc := core.New(b)
	if err := rtc.Begin(core.Hour24); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := rtc.SetTime(6, 0, 0, 0, core.AM); err != nil {
		t.Fatalf("SetTime failed: %v", err)
	}
	rtc.SetAlarmTime(7, 0, 0, 0, core.AM)

	if err := rtc.ConfigForLowPower(core.SourceHSE); err != nil {
		t.Fatalf("ConfigForLowPower failed: %v", err)
	}
	armed, err := rtc.AlarmEnabled()
	if err != nil {
		t.Fatalf("AlarmEnabled failed: %v", err)
	}
	if armed {
		t.Error("alarm was never armed, migration must not arm it")
	}
}

func TestConfigForLowPowerSeedsNoonWhenTimeNeverSet(t *testing.T) {
	// Cold peripheral, no prior Begin: the reconfiguration does the fresh
	// initialization itself and must leave a defined wall clock behind.
	rtc := core.New(sim.New())
	if err := rtc.ConfigForLowPower(core.SourceLSI); err != nil {
		t.Fatalf("ConfigForLowPower failed: %v", err)
	}
	if !rtc.IsTimeSet() {
		t.Fatal("seeding must mark time as set")
	}
	tm, err := rtc.Time()
	if err != nil {
		t.Fatalf("Time failed: %v", err)
	}
	want := core.Time{Hours: 12}
	if tm != want {
		t.Errorf("seeded time: got %+v, want noon %+v", tm, want)
	}
}

func TestConfigForLowPowerKeepsExplicitTime(t *testing.T) {
	rtc := core.New(sim.New())
	if err := rtc.Begin(core.Hour24); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := rtc.SetTime(4, 5, 6, 0, core.AM); err != nil {
		t.Fatalf("SetTime failed: %v", err)
	}
	if err := rtc.ConfigForLowPower(core.SourceLSI); err != nil {
		t.Fatalf("ConfigForLowPower failed: %v", err)
	}
	tm, err := rtc.Time()
	if err != nil {
		t.Fatalf("Time failed: %v", err)
	}
	want := core.Time{Hours: 4, Minutes: 5, Seconds: 6}
	if tm != want {
		t.Errorf("explicit time overwritten: got %+v, want %+v", tm, want)
	}
}
