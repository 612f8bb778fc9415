package i2c

// Register map of the companion RTC chip. Calendar and alarm values are
// BCD; sub-seconds are a binary little-endian millisecond pair.
const (
	Address = 0x51 // default I2C address

	RegControl   = 0x00 // oscillator source, hour format, run bit
	RegStatus    = 0x01 // alarm/second interrupt flags, armed bit
	RegTime      = 0x02 // seconds, minutes, hours (3 bytes, BCD)
	RegSubSec    = 0x05 // milliseconds within second (2 bytes, binary)
	RegDate      = 0x07 // weekday, day, month, year (4 bytes, BCD)
	RegAlarm     = 0x0B // day, hours, minutes, seconds (4 bytes, BCD)
	RegAlarmSub  = 0x0F // alarm milliseconds (2 bytes, binary)
	RegAlarmCfg  = 0x11 // match code
	RegPrescaler = 0x12 // layout, async div, sync div (9 bytes, binary)
)

// Control register bits.
const (
	ctrlRun        = 1 << 0 // oscillator running
	ctrlFormat12   = 1 << 1 // 12-hour mode
	ctrlSourceLSE  = 1 << 2
	ctrlSourceHSE  = 1 << 3
	ctrlSourceMask = ctrlSourceLSE | ctrlSourceHSE
)

// Status register bits.
const (
	statusAlarmArmed = 1 << 0
	statusAlarmFlag  = 1 << 1 // comparator fired, write 0 to clear
	statusSecondFlag = 1 << 2 // second boundary, write 0 to clear
)

// Hours register bits, 12-hour mode only.
const hoursPM = 1 << 5

// decToBcd converts int to BCD
func decToBcd(dec uint8) uint8 {
	return dec + 6*(dec/10)
}

// bcdToDec converts BCD to int
func bcdToDec(bcd uint8) uint8 {
	return bcd - 6*(bcd>>4)
}
