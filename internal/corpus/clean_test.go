package corpus

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanNormalizesEntries(t *testing.T) {
	input := strings.Join([]string{
		"THE FOX AND THE GRAPES",
		"",
		"  (a note about origin)",
		"A hungry fox saw some grapes.",
		"",
		"THE ANT AND THE GRASSHOPPER",
		"Winter came.",
	}, "\n")

	want := strings.Join([]string{
		"###",
		"THE FOX AND THE GRAPES",
		"",
		"A hungry fox saw some grapes.",
		"",
		"###",
		"THE ANT AND THE GRASSHOPPER",
		"Winter came.",
	}, "\n") + "\n"

	got, rep := Clean([]byte(input))
	if string(got) != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
	if rep.Entries != 2 {
		t.Fatalf("expected 2 entries, got %d", rep.Entries)
	}
	if rep.CommentaryDropped != 1 {
		t.Fatalf("expected 1 commentary line dropped, got %d", rep.CommentaryDropped)
	}
	if len(rep.Titles) != 2 || rep.Titles[0] != "THE FOX AND THE GRAPES" {
		t.Fatalf("unexpected titles: %v", rep.Titles)
	}
}

func TestCleanCollapsesBlankRuns(t *testing.T) {
	input := "THE LION\n\n\n\nHe roared.\n\n\nThe end.\n"
	want := "###\nTHE LION\n\nHe roared.\n\nThe end.\n"

	got, _ := Clean([]byte(input))
	if string(got) != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestCleanNeverRepeatsDelimiter(t *testing.T) {
	// Two titles back to back must share a single delimiter each, and an
	// existing ### line in the input must not be doubled.
	input := "###\nTHE WOLF\nTHE DOG\nThey met.\n"
	want := "###\nTHE WOLF\n###\nTHE DOG\nThey met.\n"

	got, _ := Clean([]byte(input))
	if string(got) != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestCleanDropsLeadingBlankLines(t *testing.T) {
	// Blanks before any title or body line have no preceding entry and
	// must not survive.
	input := "\n\nTHE CROW\nShe flew.\n"
	want := "###\nTHE CROW\nShe flew.\n"

	got, _ := Clean([]byte(input))
	if string(got) != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestCleanOutputInvariants(t *testing.T) {
	input := strings.Join([]string{
		"",
		"  stray note",
		"THE HARE AND THE TORTOISE",
		"",
		"",
		"\tmore commentary",
		"Slow and steady.",
		"",
		"",
		"THE NORTH WIND",
		"A SHOUT!",
		"",
		"",
		"",
	}, "\n")

	got, _ := Clean([]byte(input))

	if !bytes.HasSuffix(got, []byte("\n")) || bytes.HasSuffix(got, []byte("\n\n")) {
		t.Fatalf("output must end with exactly one newline: %q", got)
	}

	lines := strings.Split(strings.TrimSuffix(string(got), "\n"), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			t.Fatalf("line %d is indented: %q", i, line)
		}
		if line == "" && i > 0 && lines[i-1] == "" {
			t.Fatalf("consecutive blank lines at %d", i)
		}
		if line == Delimiter {
			if i+1 >= len(lines) || !isTitleLine(lines[i+1]) {
				t.Fatalf("delimiter at %d not followed by a title", i)
			}
		}
		if isTitleLine(line) && (i == 0 || lines[i-1] != Delimiter) {
			t.Fatalf("title at %d not preceded by a delimiter: %q", i, line)
		}
	}
}

func TestCleanFileRewritesInPlace(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "fables.txt")

	input := "THE FOX\n\n\n  note\nHe ran.\n"
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	res, err := CleanFile(path, Options{})
	if err != nil {
		t.Fatalf("CleanFile returned error: %v", err)
	}
	if !res.Changed {
		t.Fatalf("expected Changed=true for messy input")
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read result: %v", err)
	}
	if !bytes.Equal(onDisk, res.Cleaned) {
		t.Fatalf("file content does not match Result.Cleaned")
	}
	if want := "###\nTHE FOX\n\nHe ran.\n"; string(onDisk) != want {
		t.Fatalf("unexpected file content %q, want %q", onDisk, want)
	}
}

func TestCleanFileIdempotent(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "fables.txt")

	input := "THE DOG\n\n\nA bone.\n\n\nTHE CAT\nA mouse.\n"
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	first, err := CleanFile(path, Options{})
	if err != nil {
		t.Fatalf("first pass returned error: %v", err)
	}
	second, err := CleanFile(path, Options{})
	if err != nil {
		t.Fatalf("second pass returned error: %v", err)
	}

	if second.Changed {
		t.Fatalf("second pass must be a no-op")
	}
	if !bytes.Equal(first.Cleaned, second.Cleaned) {
		t.Fatalf("passes disagree:\nfirst:  %q\nsecond: %q", first.Cleaned, second.Cleaned)
	}
}

func TestCleanFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.txt")

	_, err := CleanFile(path, Options{})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !errors.Is(err, ErrCorpusNotFound) {
		t.Fatalf("expected ErrCorpusNotFound, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("missing-file run must not create the file")
	}
}

func TestCleanFileDryRun(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "fables.txt")

	input := "THE GOAT\n\n\nGrass.\n"
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	res, err := CleanFile(path, Options{DryRun: true})
	if err != nil {
		t.Fatalf("CleanFile returned error: %v", err)
	}
	if !res.Changed {
		t.Fatalf("expected Changed=true")
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(onDisk) != input {
		t.Fatalf("dry run must not touch the file, got %q", onDisk)
	}
	if len(res.Cleaned) == 0 {
		t.Fatalf("dry run must still produce cleaned content")
	}
}

func TestCleanFilePreservesMode(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "fables.txt")

	if err := os.WriteFile(path, []byte("THE OWL\nNight.\n"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := CleanFile(path, Options{}); err != nil {
		t.Fatalf("CleanFile returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat result: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestCleanFileRejectsDirectory(t *testing.T) {
	tmp := t.TempDir()
	if _, err := CleanFile(tmp, Options{}); err == nil {
		t.Fatalf("expected error for directory path")
	}
}
