// Package render extracts the text layer from an invoice document by
// shelling out to pdftotext.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const defaultCommand = "pdftotext"

// PDFToText renders a PDF invoice to layout-preserving text via the
// pdftotext binary. The command name can be overridden, mainly for tests
// and non-standard installations.
type PDFToText struct {
	Command string
}

func NewPDFToText(command string) *PDFToText {
	if command == "" {
		command = defaultCommand
	}
	return &PDFToText{Command: command}
}

// Render runs `pdftotext -layout FILE -` and returns its stdout. A
// non-zero exit code or any output on stderr is treated as a fatal
// rendering failure.
func (r *PDFToText) Render(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, r.Command, "-layout", path, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("render %s: %w: %s", path, err, msg)
		}
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return "", fmt.Errorf("render %s: %s", path, msg)
	}
	return stdout.String(), nil
}
