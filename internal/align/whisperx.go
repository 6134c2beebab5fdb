package align

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"coursebuild/internal/services"
)

// WhisperX shells out to the whisperx binary for forced alignment. Callers
// must treat every error as recoverable and fall back to Uniform.
type WhisperX struct {
	Binary   string
	Language string
	Timeout  time.Duration
}

// NewWhisperX builds a subprocess-backed aligner.
func NewWhisperX(binary, language string, timeout time.Duration) *WhisperX {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &WhisperX{Binary: binary, Language: language, Timeout: timeout}
}

// Available probes for the binary on PATH.
func (w *WhisperX) Available() bool {
	if strings.TrimSpace(w.Binary) == "" {
		return false
	}
	_, err := exec.LookPath(w.Binary)
	return err == nil
}

type whisperxOutput struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (w *WhisperX) Align(ctx context.Context, req Request) ([]Segment, error) {
	if !w.Available() {
		return nil, services.Wrap(services.ErrExternalTool, "align", "probe",
			fmt.Sprintf("whisperx binary %q not found", w.Binary), nil)
	}

	runCtx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()

	language := req.Language
	if language == "" {
		language = w.Language
	}

	cmd := exec.CommandContext(runCtx, w.Binary,
		"--language", language,
		"--output_format", "json",
		"--stdout",
		req.MediaPath,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "align", "run",
				fmt.Sprintf("whisperx timed out after %s", w.Timeout), err)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, services.Wrap(services.ErrExternalTool, "align", "run", detail, err)
	}

	var parsed whisperxOutput
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "align", "parse",
			"whisperx produced unparseable output", err)
	}

	segments := make([]Segment, len(parsed.Segments))
	for i, seg := range parsed.Segments {
		segments[i] = Segment{Start: seg.Start, End: seg.End, Text: strings.TrimSpace(seg.Text)}
	}
	return segments, nil
}
