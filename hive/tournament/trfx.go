package tournament

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SeedingMode controls whether a fictitious-points XXA line is emitted.
type SeedingMode int

const (
	SeedingStandard SeedingMode = iota
	SeedingAccelerated
)

// TRFPlayer is one seeded player's running tournament record, as needed to
// render their TRFx player-data line.
type TRFPlayer struct {
	Number int // 1-based seed position
	Name   string
	Points float64
	// Games, in round order, against the opponent's seed Number;
	// OpponentNumber==0 denotes a bye/unplayed round, omitted from the line.
	Games []TRFGame
}

// TRFGame is one played round's opponent and result from this player's side.
type TRFGame struct {
	OpponentNumber int
	Color          string // "w" or "b"
	Result         string // "1", "0", or "="
}

// GenerateTRF renders a FIDE-style TRFx file for round-robin/Swiss pairing
// software, matching generate_trfx's exact header and player-line layout.
// today must be formatted "YYYY-MM-DD" by the caller (time.Time isn't
// usable in this package's deterministic context).
func GenerateTRF(w io.Writer, name, today string, players []TRFPlayer, round int, seeding SeedingMode) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "012 %s\n", name)
	fmt.Fprintf(bw, "022 Hivegame.com\n")
	fmt.Fprintf(bw, "032 Hiveystan\n")
	fmt.Fprintf(bw, "042 %s\n", today)
	fmt.Fprintf(bw, "052 %s\n", today)
	fmt.Fprintf(bw, "062 %d\n", len(players))
	fmt.Fprintf(bw, "072 0\n")
	fmt.Fprintf(bw, "082 0\n")
	fmt.Fprintf(bw, "092 IndividualDutch FIDE (JaVaFo)\n")
	fmt.Fprintf(bw, "102 IA Tournament Director\n")
	fmt.Fprintf(bw, "112 Tournament Director\n")
	fmt.Fprintf(bw, "122 300+3\n")
	fmt.Fprintf(bw, "XXR %d\n", round)
	fmt.Fprintf(bw, "XXC %s1\n", startingColor(name))

	for _, p := range players {
		fmt.Fprintf(bw, "001 %4d      %-33s 0000 %-11s %10s %4.1f %4d",
			p.Number, p.Name, "", "", p.Points, p.Number)
		for _, g := range p.Games {
			if g.OpponentNumber == 0 {
				continue
			}
			fmt.Fprintf(bw, "  %4d %s %s", g.OpponentNumber, g.Color, g.Result)
		}
		fmt.Fprintln(bw)
	}

	if seeding == SeedingAccelerated {
		top := (len(players) + 1) / 2
		for i, p := range players {
			points := 0.0
			if i < top {
				points = 1.0
			}
			fmt.Fprintf(bw, "XXA %4d  %3.1f\n", p.Number, points)
		}
	}

	return bw.Flush()
}

// startingColor derives round-1 white/black from the tournament's nanoid the
// same way generate_trfx does: first_char.to_digit(10).unwrap_or(0) % 2 == 0
// picks white. A non-digit first character (the common case for a base62
// nanoid) therefore defaults to digit 0, which is even, and so also picks
// white — it does not fall through to black.
func startingColor(name string) string {
	digit := 0
	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		digit = int(name[0] - '0')
	}
	if digit%2 == 0 {
		return "white"
	}
	return "black"
}

// SaveTRF writes a generated TRFx file under dir, named the way save_trfx
// names it: {year}_{month}_{day}_{id}_round_{round}.trfx.
func SaveTRF(dir, year, month, day, id string, round int, content []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s_%s_round_%d.trfx", year, month, day, id, round))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// PairingLine is one parsed pairing-file line: two 1-based seed numbers, or a
// bye (BlackNumber == 0).
type PairingLine struct {
	WhiteNumber int
	BlackNumber int
}

// RunPairer invokes the external Dutch-system pairer the same way
// generate_pairings does: `pairerPath --dutch trfxPath -p outputPath`. The
// reference hard-codes an OS-specific absolute path to the pairer binary;
// here pairerPath is passed in explicitly (the caller resolves it from the
// HIVE_PAIRER_PATH environment variable — see DESIGN.md).
func RunPairer(pairerPath, trfxPath, outputPath string) error {
	cmd := exec.Command(pairerPath, "--dutch", trfxPath, "-p", outputPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tournament: pairer invocation failed: %w: %s", err, stderr.String())
	}
	return nil
}

// ParsePairingFile reads the pairer's output format: the first line is the
// pairing count, followed by that many "white# black#" lines. A
// black-number of 0 denotes a bye for that round (create_games_from_pairing_file
// skips game creation for it).
func ParsePairingFile(r io.Reader) ([]PairingLine, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("tournament: empty pairing file")
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("tournament: invalid pairing count: %w", err)
	}
	out := make([]PairingLine, 0, count)
	for scanner.Scan() && len(out) < count {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			return nil, fmt.Errorf("tournament: malformed pairing line %q", scanner.Text())
		}
		white, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("tournament: invalid white seed %q: %w", fields[0], err)
		}
		black, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("tournament: invalid black seed %q: %w", fields[1], err)
		}
		out = append(out, PairingLine{WhiteNumber: white, BlackNumber: black})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(out) != count {
		return nil, fmt.Errorf("tournament: expected %d pairings, got %d", count, len(out))
	}
	return out, nil
}

// ResolvedPairing is one pairing-file line with its seed numbers resolved
// back to player identities.
type ResolvedPairing struct {
	White, Black uuid.UUID
	Bye          bool
}

// ResolvePairings maps 1-based seed numbers back to player UUIDs using the
// same initial-seeding slice the TRFx file's player numbers were drawn from.
// A black number of 0 produces a bye with no opponent.
func ResolvePairings(lines []PairingLine, seeding []uuid.UUID) ([]ResolvedPairing, error) {
	out := make([]ResolvedPairing, 0, len(lines))
	for _, l := range lines {
		if l.WhiteNumber < 1 || l.WhiteNumber > len(seeding) {
			return nil, fmt.Errorf("tournament: white seed %d out of range", l.WhiteNumber)
		}
		white := seeding[l.WhiteNumber-1]
		if l.BlackNumber == 0 {
			out = append(out, ResolvedPairing{White: white, Bye: true})
			continue
		}
		if l.BlackNumber < 1 || l.BlackNumber > len(seeding) {
			return nil, fmt.Errorf("tournament: black seed %d out of range", l.BlackNumber)
		}
		black := seeding[l.BlackNumber-1]
		out = append(out, ResolvedPairing{White: white, Black: black})
	}
	return out, nil
}
