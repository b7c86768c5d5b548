package common

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/utils"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeListing(t *testing.T) {
	tests := []struct {
		name      string
		file      InputFile
		wantTitle string
		wantErr   bool
	}{
		{
			name:      "json listing",
			file:      InputFile{Name: "a.json", Kind: utils.InputJSON, Content: []byte(`{"title":"Engineer","company":"Acme"}`)},
			wantTitle: "Engineer",
		},
		{
			name:    "broken json",
			file:    InputFile{Name: "b.json", Kind: utils.InputJSON, Content: []byte(`{"title":`)},
			wantErr: true,
		},
		{
			name:      "html page",
			file:      InputFile{Name: "c.html", Kind: utils.InputHTML, Content: []byte(`<html><body><h1 class="job-title">Data Analyst</h1></body></html>`)},
			wantTitle: "Data Analyst",
		},
		{
			name:      "plain text",
			file:      InputFile{Name: "d.txt", Kind: utils.InputText, Content: []byte("  Nurse\nNight shifts available.\n")},
			wantTitle: "Nurse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := DecodeListing(tt.file, "https://jobs.example.com/1")
			if tt.wantErr {
				if !errors.IsType(err, errors.ErrorTypeValidation) {
					t.Errorf("Expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if l.Title != tt.wantTitle {
				t.Errorf("Expected title %q, got %q", tt.wantTitle, l.Title)
			}
			if l.SourceURL != "https://jobs.example.com/1" {
				t.Errorf("Expected source URL to be set, got %q", l.SourceURL)
			}
		})
	}
}

func TestValidateAndReadFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "listing.json", `{"title":"x"}`)

	fp := NewFileProcessor(nil, 0)
	files, err := fp.ValidateAndReadFiles(jsonPath)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if files[0].Kind != utils.InputJSON {
		t.Errorf("Expected json kind, got %s", files[0].Kind)
	}

	if _, err := fp.ValidateAndReadFiles(filepath.Join(dir, "missing.json")); !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Errorf("Expected validation error for missing file, got %v", err)
	}

	limited := NewFileProcessor(nil, 4)
	if _, err := limited.ValidateAndReadFiles(jsonPath); err == nil {
		t.Error("Expected size limit to reject the file")
	}
}

func TestReadStdin(t *testing.T) {
	fp := NewFileProcessor(nil, 0)
	fp.stdin = strings.NewReader(` <html><title>Job</title></html>`)

	files, err := fp.ValidateAndReadFiles(StdinName)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if files[0].Kind != utils.InputHTML {
		t.Errorf("Expected stdin to be sniffed as html, got %s", files[0].Kind)
	}
}

func TestRunCommandWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "listing.json", `{"title":"Engineer","company":"Acme"}`)
	out := filepath.Join(dir, "nested", "result.json")

	cfg := CommandConfig{OutputFile: out, OutputFormat: "json"}
	err := RunCommand(context.Background(), nil, cfg, []string{in},
		func(files []InputFile) (types.JobListing, error) { return DecodeListing(files[0], "") },
		func(_ context.Context, l types.JobListing) (types.JobListing, error) {
			l.Company = strings.ToUpper(l.Company)
			return l, nil
		},
		nil,
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if !strings.Contains(string(content), `"company": "ACME"`) {
		t.Errorf("Unexpected output %s", content)
	}
}

func TestRunCommandStdout(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "listing.txt", "Engineer\nBuild things")

	var buf bytes.Buffer
	cfg := CommandConfig{OutputFormat: "text"}
	err := runCommand(context.Background(), nil, cfg, []string{in},
		func(files []InputFile) (types.JobListing, error) { return DecodeListing(files[0], "") },
		func(_ context.Context, l types.JobListing) (types.JobListing, error) { return l, nil },
		nil,
		NewOutputHandler(nil).WithWriter(&buf),
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Title:    Engineer") {
		t.Errorf("Unexpected stdout %q", buf.String())
	}

	cfg.OutputFormat = "yaml"
	err = runCommand(context.Background(), nil, cfg, []string{in},
		func(files []InputFile) (types.JobListing, error) { return DecodeListing(files[0], "") },
		func(_ context.Context, l types.JobListing) (types.JobListing, error) { return l, nil },
		nil,
		NewOutputHandler(nil).WithWriter(&buf),
	)
	if !errors.HasCode(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Expected invalid format error, got %v", err)
	}
}
