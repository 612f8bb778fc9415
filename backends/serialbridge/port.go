// Package serialbridge implements core.Backend for an RTC sitting behind a
// USB/UART bridge MCU. The bridge exposes the peripheral's registers over a
// small framed request/response protocol; alarm and second interrupts
// arrive as unsolicited event frames drained by Poll, matching the
// cooperative single-threaded model of the rest of the library.
package serialbridge

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Port is the byte stream to the bridge. Abstracting it keeps the backend
// testable against an in-memory implementation.
type Port interface {
	io.ReadWriteCloser
}

// Config holds serial link configuration.
type Config struct {
	// Device path (e.g. "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (ignored for USB CDC)
	Baud int

	// Read timeout in milliseconds; bounds how long Poll blocks when no
	// event is pending. 0 = blocking.
	ReadTimeout int
}

// DefaultConfig returns the standard bridge link settings.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}

// nativePort wraps a tarm/serial port.
type nativePort struct {
	port *serial.Port
}

// Open opens the serial device described by cfg.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("serialbridge: config cannot be nil")
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("serialbridge: open %s: %w", cfg.Device, err)
	}
	return &nativePort{port: port}, nil
}

func (p *nativePort) Read(b []byte) (int, error)  { return p.port.Read(b) }
func (p *nativePort) Write(b []byte) (int, error) { return p.port.Write(b) }

func (p *nativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}
