package linekey

import "testing"

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"v/q101/0012.vo",
		"judy/q203/0440.vo_holocall",
		"panam/sq027/0001.vo_helmet",
	}
	for _, raw := range cases {
		key, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		if key.String() != raw {
			t.Fatalf("round trip mismatch: got %q, want %q", key.String(), raw)
		}
	}
}

func TestParseDefaultsChannel(t *testing.T) {
	key, err := Parse("v/q101/0012.vo")
	if err != nil {
		t.Fatal(err)
	}
	if key.Channel != ChannelDefault {
		t.Fatalf("unexpected channel %q", key.Channel)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "v/q101", "v//0012.vo", "v/q101/0012.vo_nope"} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestUnmarshalText(t *testing.T) {
	var key Key
	if err := key.UnmarshalText([]byte("river/q105/0220.vo")); err != nil {
		t.Fatal(err)
	}
	if key.Speaker != "river" || key.Scene != "q105" || key.Line != "0220" {
		t.Fatalf("unexpected key %+v", key)
	}
}

func TestSortKeys(t *testing.T) {
	keys := []Key{
		MustParse("v/q102/0001.vo"),
		MustParse("judy/q101/0001.vo"),
		MustParse("v/q101/0001.vo"),
	}
	SortKeys(keys)
	if keys[0].Speaker != "judy" || keys[1].Scene != "q101" || keys[2].Scene != "q102" {
		t.Fatalf("unexpected order: %v", keys)
	}
}
