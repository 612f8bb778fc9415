package serialbridge

import (
	"errors"
	"fmt"
	"io"
)

// Wire framing for the bridge link. Every frame is
//
//	[len][op][payload...][crc hi][crc lo][sync]
//
// where len counts the whole frame and the CRC covers len, op and payload.
// The trailing sync byte lets either end resynchronize after noise.
const (
	frameHeaderSize  = 2
	frameTrailerSize = 3
	frameLenMin      = frameHeaderSize + frameTrailerSize
	frameLenMax      = 64
	frameSync        = 0x7E
)

// Register operations. Responses echo the request op; the two event ops are
// sent unsolicited by the bridge when an interrupt fired.
const (
	opInit         = 0x01
	opDeinit       = 0x02
	opGetTime      = 0x03
	opSetTime      = 0x04
	opGetDate      = 0x05
	opSetDate      = 0x06
	opStartAlarm   = 0x07
	opStopAlarm    = 0x08
	opGetAlarm     = 0x09
	opAlarmArmed   = 0x0A
	opGetPrescaler = 0x0B
	opSetPrescaler = 0x0C

	opEventAlarm  = 0x40
	opEventSecond = 0x41
)

// Response status byte, first byte of every response payload.
const (
	statusOK    = 0
	statusBadOp = 1
	statusError = 2
)

// ErrFraming reports a malformed frame on the wire.
var ErrFraming = errors.New("serialbridge: bad frame")

// crc16 is the checksum used on the link, the same polynomial arrangement
// common on MCU serial protocols.
func crc16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b = b ^ uint8(crc&0xFF)
		b = b ^ (b << 4)
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}

// encodeFrame builds a complete frame for op with the given payload.
func encodeFrame(op byte, payload []byte) ([]byte, error) {
	n := frameHeaderSize + len(payload) + frameTrailerSize
	if n > frameLenMax {
		return nil, fmt.Errorf("serialbridge: payload too long (%d bytes)", len(payload))
	}
	frame := make([]byte, 0, n)
	frame = append(frame, byte(n), op)
	frame = append(frame, payload...)
	crc := crc16(frame)
	frame = append(frame, byte(crc>>8), byte(crc), frameSync)
	return frame, nil
}

// readFrame reads one complete frame from r and returns its op and payload.
func readFrame(r io.Reader) (byte, []byte, error) {
	var lenByte [1]byte
	if _, err := io.ReadFull(r, lenByte[:]); err != nil {
		return 0, nil, err
	}
	return readFrameAfterLen(r, lenByte[0])
}

// readFrameAfterLen finishes reading a frame whose length byte has already
// been consumed.
func readFrameAfterLen(r io.Reader, length byte) (byte, []byte, error) {
	n := int(length)
	if n < frameLenMin || n > frameLenMax {
		return 0, nil, fmt.Errorf("%w: length %d", ErrFraming, n)
	}
	rest := make([]byte, n-1)
	if _, err := io.ReadFull(r, rest); err != nil {
		return 0, nil, err
	}
	if rest[n-2] != frameSync {
		return 0, nil, fmt.Errorf("%w: missing sync byte", ErrFraming)
	}
	op := rest[0]
	payload := rest[1 : n-4]
	covered := append([]byte{length}, rest[:n-4]...)
	wantCRC := uint16(rest[n-4])<<8 | uint16(rest[n-3])
	gotCRC := crc16(covered)
	if gotCRC != wantCRC {
		return 0, nil, fmt.Errorf("%w: crc mismatch (got %04x, want %04x)", ErrFraming, gotCRC, wantCRC)
	}
	return op, payload, nil
}
