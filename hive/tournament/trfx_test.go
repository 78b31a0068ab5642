package tournament

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateTRFHeaderFields(t *testing.T) {
	var buf bytes.Buffer
	players := []TRFPlayer{
		{Number: 1, Name: "alice", Points: 1.0, Games: []TRFGame{{OpponentNumber: 2, Color: "w", Result: "1"}}},
		{Number: 2, Name: "bob", Points: 0.0, Games: []TRFGame{{OpponentNumber: 1, Color: "b", Result: "0"}}},
	}
	if err := GenerateTRF(&buf, "Spring Open", "2026-07-30", players, 2, SeedingStandard); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"012 Spring Open", "062 2", "XXR 2", "092 IndividualDutch FIDE (JaVaFo)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected TRFx output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "XXA") {
		t.Errorf("standard seeding should not emit XXA lines")
	}
}

func TestGenerateTRFAcceleratedSeedingSplitsTopHalf(t *testing.T) {
	var buf bytes.Buffer
	players := []TRFPlayer{
		{Number: 1, Name: "a"}, {Number: 2, Name: "b"}, {Number: 3, Name: "c"}, {Number: 4, Name: "d"},
	}
	if err := GenerateTRF(&buf, "Accel", "2026-07-30", players, 1, SeedingAccelerated); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "XXA    1  1.0") || !strings.Contains(out, "XXA    2  1.0") {
		t.Errorf("expected top half to get 1.0 fictitious points, got:\n%s", out)
	}
	if !strings.Contains(out, "XXA    3  0.0") || !strings.Contains(out, "XXA    4  0.0") {
		t.Errorf("expected bottom half to get 0.0 fictitious points, got:\n%s", out)
	}
}

func TestParsePairingFileHandlesByes(t *testing.T) {
	input := "2\n1 2\n3 0\n"
	lines, err := ParsePairingFile(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 pairing lines, got %d", len(lines))
	}
	if lines[1].BlackNumber != 0 {
		t.Fatalf("expected a bye (black number 0), got %+v", lines[1])
	}
}

func TestParsePairingFileRejectsCountMismatch(t *testing.T) {
	input := "2\n1 2\n"
	if _, err := ParsePairingFile(strings.NewReader(input)); err == nil {
		t.Fatal("expected an error when fewer pairing lines are present than declared")
	}
}

func TestResolvePairingsMapsSeedsAndByes(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	seeding := []uuid.UUID{a, b, c}
	lines := []PairingLine{{WhiteNumber: 1, BlackNumber: 2}, {WhiteNumber: 3, BlackNumber: 0}}
	resolved, err := ResolvePairings(lines, seeding)
	if err != nil {
		t.Fatal(err)
	}
	if resolved[0].White != a || resolved[0].Black != b || resolved[0].Bye {
		t.Fatalf("unexpected first pairing: %+v", resolved[0])
	}
	if resolved[1].White != c || !resolved[1].Bye {
		t.Fatalf("expected a bye for seed 3, got %+v", resolved[1])
	}
}
