package domain

import (
	"testing"
	"unicode/utf8"
)

func FuzzParseCheckID(f *testing.F) {
	for _, seed := range []string{
		"",
		"550e8400-e29b-41d4-a716-446655440000",
		"00000000-0000-0000-0000-000000000000",
		"{550e8400-e29b-41d4-a716-446655440000}",
		"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
		string([]byte{0xff, 0xfe}),
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		checkID, err := ParseCheckID(input)
		_, stationErr := ParseStationID(input)
		if (err == nil) != (stationErr == nil) {
			t.Fatalf("check and station parsers disagree on %q", input)
		}
		if err != nil {
			return
		}
		if checkID.IsNil() {
			t.Fatalf("accepted nil id from %q", input)
		}
		if !utf8.ValidString(input) {
			t.Fatalf("accepted non-UTF8 input %q", input)
		}
		again, err := ParseCheckID(checkID.String())
		if err != nil || again != checkID {
			t.Fatalf("round trip of %q failed: %v", input, err)
		}
	})
}
