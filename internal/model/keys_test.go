package model

import "testing"

func TestKeyNameKnownCodes(t *testing.T) {
	cases := map[uint32]string{
		0x00: "A",
		0x01: "S",
		0x31: "Space",
		0x24: "Return",
		0x33: "Backspace",
	}
	for code, want := range cases {
		if got := KeyName(code); got != want {
			t.Fatalf("KeyName(0x%02X) = %q, want %q", code, got, want)
		}
	}
}

func TestKeyNameUnknownCode(t *testing.T) {
	if got := KeyName(0xFF); got != "Unknown(0xFF)" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

func TestBigramDisplay(t *testing.T) {
	if got := BigramDisplay(0x00, 0x01); got != "A -> S" {
		t.Fatalf("unexpected bigram display: %q", got)
	}
}

func TestTrigramDisplay(t *testing.T) {
	if got := TrigramDisplay(0x00, 0x01, 0x02); got != "A -> S -> D" {
		t.Fatalf("unexpected trigram display: %q", got)
	}
}
