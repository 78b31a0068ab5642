package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hiveboardgame/hive/hive/state"
)

func TestEncodeDecodeHistoryRoundTrips(t *testing.T) {
	h := []state.HistoryEntry{
		{Piece: "wS1", Destination: "."},
		{Piece: "bA1", Destination: "wS1-"},
		{Piece: "pass"},
		{Piece: "wQ", Destination: "wS1\\"},
	}
	encoded := encodeHistory(h)
	if want := "wS1 .;bA1 wS1-;pass ;wQ wS1\\"; encoded != want {
		t.Fatalf("encodeHistory = %q, want %q", encoded, want)
	}
	decoded, err := decodeHistory(encoded)
	if err != nil {
		t.Fatalf("decodeHistory: %v", err)
	}
	if diff := cmp.Diff(h, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeHistoryEmptyString(t *testing.T) {
	decoded, err := decodeHistory("")
	if err != nil {
		t.Fatalf("decodeHistory: %v", err)
	}
	if decoded != nil {
		t.Fatalf("decodeHistory(\"\") = %v, want nil", decoded)
	}
}

func TestDecodeHistoryRejectsMalformedEntry(t *testing.T) {
	if _, err := decodeHistory("wS1"); err == nil {
		t.Fatal("expected error for malformed entry with no destination")
	}
}
