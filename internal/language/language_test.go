package language

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"jp":       "jp",
		"JP":       "jp",
		"jp-jp":    "jp",
		"jpn":      "jp",
		"Japanese": "jp",
		"es-mx":    "mx",
		"mex":      "mx",
		"bogus":    "",
		"":         "",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLocale(t *testing.T) {
	if got := Locale("br"); got != "pt-br" {
		t.Fatalf("Locale(br) = %q", got)
	}
	if got := Locale("weird"); got != "weird" {
		t.Fatalf("unrecognized input should pass through, got %q", got)
	}
}

func TestEffectCode(t *testing.T) {
	if got := EffectCode("jp"); got != "jpn" {
		t.Fatalf("EffectCode(jp) = %q", got)
	}
	if got := EffectCode("??"); got != "und" {
		t.Fatalf("EffectCode(??) = %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("mx"); got != "Latin American Spanish" {
		t.Fatalf("DisplayName(mx) = %q", got)
	}
	if got := DisplayName(""); got != "Unknown" {
		t.Fatalf("DisplayName(empty) = %q", got)
	}
	if got := DisplayName("xx"); got != "XX" {
		t.Fatalf("DisplayName(xx) = %q", got)
	}
}

func TestNormalizeList(t *testing.T) {
	got := NormalizeList([]string{"JP", "jpn", "french", "nonsense", "fr-fr"})
	if len(got) != 2 || got[0] != "jp" || got[1] != "fr" {
		t.Fatalf("unexpected list: %v", got)
	}
}
