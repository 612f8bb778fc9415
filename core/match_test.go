package core_test

import (
	"testing"

	"gortc/core"
)

func TestDecodeMatch(t *testing.T) {
	cases := []struct {
		code uint8
		want core.Match
	}{
		{0, core.MatchOff},
		{1, core.MatchSS},
		{2, core.MatchMMSS},
		{3, core.MatchHHMMSS},
		{4, core.MatchDHHMMSS},
		{5, core.MatchMMDDHHMMSS},
		{6, core.MatchYYMMDDHHMMSS},
		// Anything else is treated as corruption and decodes to OFF.
		{7, core.MatchOff},
		{8, core.MatchOff},
		{0x7F, core.MatchOff},
		{0xFF, core.MatchOff},
	}
	for _, tc := range cases {
		if got := core.DecodeMatch(tc.code); got != tc.want {
			t.Errorf("DecodeMatch(%#02x): got %v, want %v", tc.code, got, tc.want)
		}
	}
}
