package botrelay

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const engineTimeout = 15 * time.Second

// runEngine spawns the bot's configured engine binary, writes gameString
// followed by the configured bestmove arguments to its stdin, and returns
// its first line of stdout as the chosen move. Grounded on hive-hydra's
// ai::spawn_process + ai::run_commands, and on hive/tournament's
// os/exec.Command usage for the external pairer (trfx.go's RunPairer) —
// both are the pack's only precedent for shelling out to a collaborator
// binary, so this reuses the same stderr-capturing shape.
func runEngine(ctx context.Context, command string, bestmoveArgs []string, gameString string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, engineTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command)
	cmd.Stdin = strings.NewReader(gameString + "\n" + strings.Join(bestmoveArgs, " ") + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("botrelay: engine %q failed: %w: %s", command, err, stderr.String())
	}

	line := firstLine(stdout.String())
	if line == "" {
		return "", fmt.Errorf("botrelay: engine %q produced no output", command)
	}
	return line, nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
