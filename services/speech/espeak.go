package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// Speech rate passed to espeak; slower than the default for comprehension
// in a noisy hall.
const espeakRate = 150

// EspeakEngine is the always-available local synthesis tier. It shells out
// to the espeak binary, so it works without network access.
type EspeakEngine struct {
	binary string
	rate   int
}

// NewEspeakEngine verifies the espeak binary exists. A missing binary is a
// startup failure: without it the kiosk has no offline voice at all.
func NewEspeakEngine() (*EspeakEngine, error) {
	path, err := exec.LookPath("espeak")
	if err != nil {
		return nil, fmt.Errorf("espeak not found in system PATH: %w", err)
	}
	return &EspeakEngine{binary: path, rate: espeakRate}, nil
}

// Say speaks the text synchronously through the default audio device.
func (e *EspeakEngine) Say(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	cmd := exec.CommandContext(ctx, e.binary, "-s", strconv.Itoa(e.rate), text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("espeak failed: %s: %w", stderr.String(), err)
	}
	return nil
}
