package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// fakeRenderer writes an executable stand-in for pdftotext that runs the
// given shell body with the usual `-layout FILE -` arguments.
func fakeRenderer(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-pdftotext")
	script := "#!/bin/sh\nshift\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderCapturesStdout(t *testing.T) {
	dir := t.TempDir()
	invoice := filepath.Join(dir, "invoice.txt")
	if err := os.WriteFile(invoice, []byte("Rechnungsdatum: 15.03.2011\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewPDFToText(fakeRenderer(t, `cat "$1"`))
	text, err := r.Render(context.Background(), invoice)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if text != "Rechnungsdatum: 15.03.2011\n" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestRenderFailsOnNonZeroExit(t *testing.T) {
	r := NewPDFToText(fakeRenderer(t, `exit 3`))
	if _, err := r.Render(context.Background(), "invoice.pdf"); err == nil {
		t.Fatalf("expected error for non-zero exit")
	}
}

func TestRenderFailsOnStderrOutput(t *testing.T) {
	// pdftotext reports some corrupt documents on stderr but still exits zero
	r := NewPDFToText(fakeRenderer(t, `echo "Syntax Error: damaged stream" >&2`))
	if _, err := r.Render(context.Background(), "invoice.pdf"); err == nil {
		t.Fatalf("expected error for stderr output")
	}
}

func TestRenderFailsOnMissingCommand(t *testing.T) {
	r := NewPDFToText("definitely-not-installed-renderer")
	if _, err := r.Render(context.Background(), "invoice.pdf"); err == nil {
		t.Fatalf("expected error for missing command")
	}
}

func TestNewPDFToTextDefault(t *testing.T) {
	if NewPDFToText("").Command != defaultCommand {
		t.Fatalf("empty command must fall back to %q", defaultCommand)
	}
}
