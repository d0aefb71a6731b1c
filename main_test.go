package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

func testParams(t *testing.T, build string) DrawParams {
	t.Helper()
	ref, b := mustBuild(t, build)
	tmpl, err := LoadTemplate("")
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	logger, _ := test.NewNullLogger()
	return DrawParams{Reference: ref, Build: b, Template: tmpl, Logger: logger}
}

// TestSVGGeneration performs SVG comparison testing.
func TestSVGGeneration(t *testing.T) {
	testDataDir := "testdata"

	inputFiles, err := filepath.Glob(filepath.Join(testDataDir, "*.tsv"))
	if err != nil {
		t.Fatalf("Error finding input files: %v", err)
	}
	if len(inputFiles) == 0 {
		t.Fatalf("No input files found in %s", testDataDir)
	}

	for _, inputFile := range inputFiles {
		baseName := strings.TrimSuffix(filepath.Base(inputFile), ".tsv")
		t.Run(baseName, func(t *testing.T) {
			expectedSVGFile := filepath.Join(testDataDir, baseName+".expected.svg")

			generatedSVG, _, err := generateSVGFile(inputFile, testParams(t, "hg38"))
			if err != nil {
				t.Fatalf("Error generating SVG for %s: %v", baseName, err)
			}

			expectedSVGBytes, err := os.ReadFile(expectedSVGFile)
			if err != nil {
				if os.IsNotExist(err) {
					t.Logf("Expected SVG file %s not found. Creating it.", expectedSVGFile)
					if writeErr := os.WriteFile(expectedSVGFile, []byte(generatedSVG), 0644); writeErr != nil {
						t.Errorf("Failed to write new expected SVG %s: %v", expectedSVGFile, writeErr)
					}
					return
				}
				t.Fatalf("Error reading expected SVG file %s: %v", expectedSVGFile, err)
			}

			// Normalize line endings for comparison
			normalizedGenerated := strings.ReplaceAll(generatedSVG, "\r\n", "\n")
			normalizedExpected := strings.ReplaceAll(string(expectedSVGBytes), "\r\n", "\n")

			if normalizedGenerated != normalizedExpected {
				diff := findFirstDifference(normalizedExpected, normalizedGenerated)
				t.Errorf("Generated SVG for %s does not match %s.\nFirst difference near character %d:\nEXPECTED:\n...%s...\nGOT:\n...%s...",
					baseName, expectedSVGFile,
					diff.Index, diff.ExpectedContext, diff.GotContext)
				failedFile := filepath.Join(t.TempDir(), baseName+".failed.svg")
				os.WriteFile(failedFile, []byte(generatedSVG), 0644)
				t.Logf("Wrote differing output to %s", failedFile)
			}
		})
	}
}

func TestGenerateSVGIsDeterministic(t *testing.T) {
	first, _, err := generateSVGFile(filepath.Join("testdata", "basic.tsv"), testParams(t, "hg38"))
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := generateSVGFile(filepath.Join("testdata", "basic.tsv"), testParams(t, "hg38"))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("two runs over the same input produced different documents")
	}
}

func TestGenerateSVGStats(t *testing.T) {
	_, stats, err := generateSVGFile(filepath.Join("testdata", "repairs.tsv"), testParams(t, "hg38"))
	if err != nil {
		t.Fatal(err)
	}
	want := DrawStats{Records: 5, Drawn: 3, Overlay: 0, Skipped: 2}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestGenerateSVGDiagnostics(t *testing.T) {
	params := testParams(t, "hg38")
	logger, hook := test.NewNullLogger()
	params.Logger = logger

	in := strings.Join([]string{
		"1\t0\t10\t0\t1\t#000000\t3",
		"1\t0\t10\t7\t1\t#000000\t1",
		"1\t0\t10\t0\t1\t#000000\t1",
	}, "\n")
	svg, stats, err := GenerateSVG(strings.NewReader(in), params)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Drawn != 1 || stats.Skipped != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if strings.Count(svg, `fill="#000000" width=`) != 1 {
		t.Error("expected exactly one feature rectangle")
	}

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(entries))
	}
	if entries[0].Data["line"] != 1 || entries[1].Data["line"] != 2 {
		t.Errorf("diagnostic lines = %v, %v; want 1, 2", entries[0].Data["line"], entries[1].Data["line"])
	}
	if !strings.Contains(entries[1].Message, "unknown feature shape 7") {
		t.Errorf("shape diagnostic = %q", entries[1].Message)
	}
}

func TestGenerateSVGFatal(t *testing.T) {
	tests := map[string]string{
		"missing column":     "1\t0\t10\t0\t1\t#000000\t1\n1\t0\t10\t0\t1\t#000000\n",
		"unknown chromosome": "1\t0\t10\t0\t1\t#000000\t1\nchrM\t0\t10\t0\t1\t#000000\t1\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			svg, _, err := GenerateSVG(strings.NewReader(in), testParams(t, "hg38"))
			if err == nil {
				t.Fatal("expected a fatal error")
			}
			if svg != "" {
				t.Error("a document was returned despite the fatal error")
			}
			if !strings.Contains(err.Error(), "line 2") {
				t.Errorf("error %q does not name line 2", err)
			}
		})
	}
}

func TestGenerateSVGUnknownKindSkipsBeforeLookup(t *testing.T) {
	params := testParams(t, "hg38")
	logger, hook := test.NewNullLogger()
	params.Logger = logger

	in := "chrM\t0\t10\t9\t1\t#000000\t1\n1\t0\t10\t0\t1\t#000000\t1\n"
	svg, stats, err := GenerateSVG(strings.NewReader(in), params)
	if err != nil {
		t.Fatalf("an undrawable kind on an unknown chromosome stopped the run: %v", err)
	}
	if svg == "" || stats.Drawn != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v", stats)
	}
	entries := hook.AllEntries()
	if len(entries) != 1 || !strings.Contains(entries[0].Message, "unknown feature shape 9") {
		t.Errorf("diagnostics = %v", entries)
	}
}

// --- run() ---

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "features.tsv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunWritesSVGAndPNG(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "1\t1000000\t2000000\t0\t1\t#FF0000\t1\n")
	prefix := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-i", input, "-p", prefix, "-scale", "0.1", "-v"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}
	svg, err := os.ReadFile(prefix + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `fill="#FF0000"`) {
		t.Error("feature missing from SVG")
	}
	if info, err := os.Stat(prefix + ".png"); err != nil || info.Size() == 0 {
		t.Errorf("PNG not written: %v", err)
	}
	if !strings.Contains(stdout.String(), "Successfully created SVG") {
		t.Errorf("missing status line in:\n%s", stdout.String())
	}
}

func TestRunPDFAndBuildFlag(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "chrX\t1000000\t2000000\t2\t1\t#FF0000\t2\n")
	prefix := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--input", input, "--prefix", prefix, "--oformat", "pdf", "--build", "hg19", "-scale", "0.1"},
		strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}
	data, err := os.ReadFile(prefix + ".pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestRunFatalLeavesNoDocument(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "1\t1000000\t2000000\t0\t1\t#FF0000\n")
	prefix := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-i", input, "-p", prefix}, strings.NewReader(""), &stdout, &stderr); code == 0 {
		t.Fatal("expected a non-zero exit code")
	}
	if fileExists(prefix + ".svg") {
		t.Error("SVG written despite the fatal error")
	}
	if !strings.Contains(stderr.String(), "line 1") {
		t.Errorf("diagnostic does not name the line:\n%s", stderr.String())
	}
}

func TestRunOverwritePrompt(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "1\t0\t10\t0\t1\t#FF0000\t1\n")
	prefix := filepath.Join(dir, "out")
	if err := os.WriteFile(prefix+".svg", []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-i", input, "-p", prefix}, strings.NewReader("n\n"), &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if data, _ := os.ReadFile(prefix + ".svg"); string(data) != "keep" {
		t.Error("existing SVG was overwritten after the user declined")
	}
	if !strings.Contains(stdout.String(), "Overwrite") {
		t.Errorf("no prompt shown:\n%s", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"-i", input, "-p", prefix, "-scale", "0.1"}, strings.NewReader("\n"), &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}
	if data, _ := os.ReadFile(prefix + ".svg"); string(data) == "keep" {
		t.Error("existing SVG kept after the user accepted")
	}
}

func TestRunConversionFailureKeepsSVG(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "1\t1000000\t2000000\t0\t1\t#FF0000\t1\n")
	prefix := filepath.Join(dir, "out")

	// Without a viewBox the native converter cannot size the image.
	tmplPath := filepath.Join(dir, "flat.svg")
	tmpl := "<svg xmlns=\"http://www.w3.org/2000/svg\">\n<!-- features -->\n</svg>\n"
	if err := os.WriteFile(tmplPath, []byte(tmpl), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-i", input, "-p", prefix, "-t", tmplPath}, strings.NewReader(""), &stdout, &stderr); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	svg, err := os.ReadFile(prefix + ".svg")
	if err != nil {
		t.Fatalf("SVG removed after the failed conversion: %v", err)
	}
	if !strings.Contains(string(svg), `fill="#FF0000"`) {
		t.Error("feature missing from the kept SVG")
	}
	if fileExists(prefix + ".png") {
		t.Error("PNG written despite the failed conversion")
	}
	if !strings.Contains(stdout.String(), "Conversion failed") {
		t.Errorf("no failure status line in:\n%s", stdout.String())
	}
}

func TestRunUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, strings.NewReader(""), &stdout, &stderr); code != 1 {
		t.Errorf("missing flags: exit code %d, want 1", code)
	}
	if code := run([]string{"-version"}, strings.NewReader(""), &stdout, &stderr); code != 0 || !strings.Contains(stdout.String(), version) {
		t.Errorf("-version: exit code %d, output %q", code, stdout.String())
	}
	dir := t.TempDir()
	input := writeInput(t, dir, "1\t0\t10\t0\t1\t#FF0000\t1\n")
	if code := run([]string{"-i", input, "-p", filepath.Join(dir, "x"), "-b", "hg18"}, strings.NewReader(""), &stdout, &stderr); code != 1 {
		t.Errorf("unknown build: exit code %d, want 1", code)
	}
}

// diffResult helps show context around the first difference.
type diffResult struct {
	Index           int
	ExpectedContext string
	GotContext      string
}

// findFirstDifference finds the first differing character and provides context.
func findFirstDifference(expected, got string) diffResult {
	limit := min(len(expected), len(got))
	idx := -1
	for i := 0; i < limit; i++ {
		if expected[i] != got[i] {
			idx = i
			break
		}
	}
	// One string is a prefix of the other.
	if idx == -1 && len(expected) != len(got) {
		idx = limit
	}
	if idx == -1 {
		return diffResult{ExpectedContext: "(Strings are identical)", GotContext: "(Strings are identical)"}
	}

	const contextSize = 40
	start := max(idx-contextSize, 0)
	return diffResult{
		Index:           idx,
		ExpectedContext: expected[start:min(idx+contextSize, len(expected))],
		GotContext:      got[start:min(idx+contextSize, len(got))],
	}
}
