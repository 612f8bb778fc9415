package core

// Match selects which alarm fields the hardware comparator checks before
// firing, ordered from disabled through exact. Month and year cannot be
// matched by the hardware, so the two widest settings are aliases kept for
// source compatibility: they behave exactly like MatchDHHMMSS.
type Match uint8

const (
	MatchOff          Match = iota // alarm disabled
	MatchSS                        // seconds match: fires every minute
	MatchMMSS                      // minutes+seconds: fires every hour
	MatchHHMMSS                    // hours+minutes+seconds: fires every day
	MatchDHHMMSS                   // day+hours+minutes+seconds: fires every month
	MatchMMDDHHMMSS                // legacy alias, behaves as MatchDHHMMSS
	MatchYYMMDDHHMMSS              // legacy alias, behaves as MatchDHHMMSS
)

func (m Match) String() string {
	switch m {
	case MatchOff:
		return "OFF"
	case MatchSS:
		return "SS"
	case MatchMMSS:
		return "MMSS"
	case MatchHHMMSS:
		return "HHMMSS"
	case MatchDHHMMSS:
		return "DHHMMSS"
	case MatchMMDDHHMMSS:
		return "MMDDHHMMSS"
	case MatchYYMMDDHHMMSS:
		return "YYMMDDHHMMSS"
	}
	return "unknown"
}

// DecodeMatch maps a raw match code read back from the hardware to a Match.
// Any code outside the seven known values decodes to MatchOff: a corrupted
// backup domain or a firmware protocol drift must not masquerade as a
// recognized granularity.
func DecodeMatch(code uint8) Match {
	switch m := Match(code); m {
	case MatchOff, MatchSS, MatchMMSS, MatchHHMMSS,
		MatchDHHMMSS, MatchMMDDHHMMSS, MatchYYMMDDHHMMSS:
		return m
	}
	return MatchOff
}
