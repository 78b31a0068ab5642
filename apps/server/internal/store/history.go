package store

import (
	"fmt"
	"strings"

	"github.com/hiveboardgame/hive/hive/state"
)

// encodeHistory renders a move history the way spec §6 persists it: each
// entry as "<piece> <destination>" (a bare "pass " for a pass), joined by
// ";" — the exact persisted/wire move-notation format, not a generic
// marshaling format, so existing tooling that reads the column directly
// keeps working.
func encodeHistory(h []state.HistoryEntry) string {
	parts := make([]string, len(h))
	for i, e := range h {
		if e.Piece == "pass" {
			parts[i] = "pass "
			continue
		}
		parts[i] = fmt.Sprintf("%s %s", e.Piece, e.Destination)
	}
	return strings.Join(parts, ";")
}

// decodeHistory parses the ";"-joined persisted format back into entries.
func decodeHistory(s string) ([]state.HistoryEntry, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	rawEntries := strings.Split(s, ";")
	out := make([]state.HistoryEntry, 0, len(rawEntries))
	for _, raw := range rawEntries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if raw == "pass" {
			out = append(out, state.HistoryEntry{Piece: "pass"})
			continue
		}
		fields := strings.SplitN(raw, " ", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("store: malformed history entry %q", raw)
		}
		out = append(out, state.HistoryEntry{Piece: fields[0], Destination: fields[1]})
	}
	return out, nil
}
