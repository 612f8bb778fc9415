package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"periph.io/x/conn/v3/driver/driverreg"
	periphi2c "periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"gortc/backends/i2c"
	"gortc/backends/serialbridge"
	"gortc/backends/sim"
	"gortc/config"
	"gortc/core"
)

var (
	configPath = flag.String("config", "rtc.yaml", "Configuration file path")
	verbose    = flag.Bool("verbose", false, "Trace backend transactions")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	backend, simulated, err := buildBackend(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rtc := core.New(backend)
	if *verbose {
		rtc.SetTraceWriter(func(s string) { fmt.Println("[trace] " + s) })
	}
	rtc.SetClockSource(cfg.Source())
	if p, ok := cfg.CorePrescaler(); ok {
		if err := rtc.SetPrescaler(p); err != nil {
			fmt.Fprintf(os.Stderr, "Error: set prescaler: %v\n", err)
			os.Exit(1)
		}
	}
	if err := rtc.Begin(cfg.Format()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	rtc.AttachInterrupt(func() { fmt.Println("! alarm fired") })

	fmt.Printf("rtcctl - backend=%s source=%s\n", cfg.Backend, rtc.ClockSource())
	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)

		switch parts[0] {
		case "quit", "exit", "q":
			return
		case "help", "?":
			printHelp()
		case "time":
			showTime(rtc)
		case "epoch":
			showEpoch(rtc)
		case "status":
			showStatus(rtc)
		case "set-epoch":
			runSetEpoch(rtc, parts[1:])
		case "set-time":
			runSetTime(rtc, parts[1:])
		case "alarm":
			runAlarm(rtc, parts[1:])
		case "alarm-off":
			report(rtc.DisableAlarm())
		case "lowpower":
			runLowPower(rtc, parts[1:])
		case "advance":
			runAdvance(simulated, parts[1:])
		case "poll":
			runPoll(backend)
		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", parts[0])
		}
	}
}

func buildBackend(cfg *config.Config) (core.Backend, *sim.Backend, error) {
	switch cfg.Backend {
	case "sim":
		b := sim.New()
		return b, b, nil
	case "serial":
		b, err := serialbridge.Dial(&serialbridge.Config{
			Device:      cfg.Serial.Device,
			Baud:        cfg.Serial.Baud,
			ReadTimeout: cfg.Serial.ReadTimeout,
		})
		return b, nil, err
	case "i2c":
		if _, err := driverreg.Init(); err != nil {
			return nil, nil, fmt.Errorf("periph init: %w", err)
		}
		bus, err := i2creg.Open(cfg.I2C.Bus)
		if err != nil {
			return nil, nil, fmt.Errorf("open i2c bus %q: %w", cfg.I2C.Bus, err)
		}
		addr := cfg.I2C.Address
		if addr == 0 {
			addr = i2c.Address
		}
		dev := &periphi2c.Dev{Addr: uint16(addr), Bus: bus}
		return i2c.New(i2c.NewPeriphBus(dev), addr), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func showTime(rtc *core.Device) {
	t, err := rtc.Time()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	d, err := rtc.Date()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	suffix := ""
	if rtc.HourFormat() == core.Hour12 {
		suffix = " AM"
		if t.Period == core.PM {
			suffix = " PM"
		}
	}
	fmt.Printf("20%02d-%02d-%02d (wd %d) %02d:%02d:%02d.%03d%s\n",
		d.Year, d.Month, d.Day, d.WeekDay,
		t.Hours, t.Minutes, t.Seconds, t.SubSeconds, suffix)
}

func showEpoch(rtc *core.Device) {
	ts, sub, err := rtc.Epoch()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	y2k, err := rtc.Y2kEpoch()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Printf("epoch=%d.%03d y2k=%d\n", ts, sub, y2k)
}

func showStatus(rtc *core.Device) {
	armed, err := rtc.AlarmEnabled()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Printf("source=%s timeSet=%v alarmArmed=%v\n", rtc.ClockSource(), rtc.IsTimeSet(), armed)
}

func runSetEpoch(rtc *core.Device, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: set-epoch <unix-seconds>")
		return
	}
	ts, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	report(rtc.SetEpoch(ts, 0))
}

func runSetTime(rtc *core.Device, args []string) {
	if len(args) != 3 {
		fmt.Println("usage: set-time <hours> <minutes> <seconds>")
		return
	}
	v, ok := parseFields(args)
	if !ok {
		return
	}
	report(rtc.SetTime(v[0], v[1], v[2], 0, core.AM))
}

func runAlarm(rtc *core.Device, args []string) {
	if len(args) != 4 {
		fmt.Println("usage: alarm <hours> <minutes> <seconds> <match: ss|mmss|hhmmss|dhhmmss>")
		return
	}
	v, ok := parseFields(args[:3])
	if !ok {
		return
	}
	var match core.Match
	switch args[3] {
	case "ss":
		match = core.MatchSS
	case "mmss":
		match = core.MatchMMSS
	case "hhmmss":
		match = core.MatchHHMMSS
	case "dhhmmss":
		match = core.MatchDHHMMSS
	default:
		fmt.Printf("Unknown match granularity: %s\n", args[3])
		return
	}
	rtc.SetAlarmTime(v[0], v[1], v[2], 0, core.AM)
	report(rtc.EnableAlarm(match))
}

func runLowPower(rtc *core.Device, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: lowpower <lsi|lse|hse>")
		return
	}
	var source core.ClockSource
	switch args[0] {
	case "lsi":
		source = core.SourceLSI
	case "lse":
		source = core.SourceLSE
	case "hse":
		source = core.SourceHSE
	default:
		fmt.Printf("Unknown clock source: %s\n", args[0])
		return
	}
	report(rtc.ConfigForLowPower(source))
}

func runAdvance(simulated *sim.Backend, args []string) {
	if simulated == nil {
		fmt.Println("advance is only available on the sim backend")
		return
	}
	if len(args) != 1 {
		fmt.Println("usage: advance <seconds>")
		return
	}
	secs, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	simulated.Advance(time.Duration(secs) * time.Second)
}

// runPoll drains pending interrupt events on pollable backends.
func runPoll(backend core.Backend) {
	type poller interface{ Poll() error }
	p, ok := backend.(poller)
	if !ok {
		fmt.Println("this backend delivers callbacks without polling")
		return
	}
	report(p.Poll())
}

func parseFields(args []string) ([]uint8, bool) {
	out := make([]uint8, len(args))
	for i, a := range args {
		v, err := strconv.ParseUint(a, 10, 8)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return nil, false
		}
		out[i] = uint8(v)
	}
	return out, true
}

func report(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  time                     - Show current date and time")
	fmt.Println("  epoch                    - Show Unix and Y2K epoch")
	fmt.Println("  status                   - Show clock source, time-set flag, alarm state")
	fmt.Println("  set-epoch <secs>         - Set calendar from Unix time")
	fmt.Println("  set-time <h> <m> <s>     - Set time of day")
	fmt.Println("  alarm <h> <m> <s> <gran> - Arm the alarm (ss, mmss, hhmmss, dhhmmss)")
	fmt.Println("  alarm-off                - Disarm the alarm")
	fmt.Println("  lowpower <src>           - Switch oscillator (lsi, lse, hse)")
	fmt.Println("  advance <secs>           - Advance simulated time (sim backend)")
	fmt.Println("  poll                     - Drain pending interrupt events")
	fmt.Println("  quit/exit/q              - Exit the program")
	fmt.Println()
}
