// Package corpus normalizes the cleaned fable corpus file: every entry is
// rewritten as a delimiter line, a title line, an optional single blank
// line, then body lines. Indented commentary is dropped, blank runs
// collapse to one line, and the file always ends with exactly one newline.
package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrCorpusNotFound reports that the corpus file does not exist. This is
// the only precondition checked before processing; other I/O failures
// propagate wrapped but unclassified.
var ErrCorpusNotFound = errors.New("corpus file not found")

// Options configures a cleaning pass.
type Options struct {
	// DryRun leaves the file untouched. Result.Cleaned still carries the
	// normalized content so callers can inspect or print it.
	DryRun bool
}

// Report counts what a single cleaning pass saw.
type Report struct {
	Entries           int
	BodyLines         int
	BlankKept         int
	CommentaryDropped int

	// Titles lists entry titles in the order they appear in the output.
	Titles []string
}

// Result captures the outcome of cleaning one corpus file.
type Result struct {
	Path    string
	Changed bool
	Cleaned []byte
	Report  Report
}

// CleanFile normalizes the corpus at path in place. The file mode is
// preserved on rewrite. When the content is already canonical the file is
// not touched and Changed is false; the pass is idempotent.
func CleanFile(path string, opts Options) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", ErrCorpusNotFound, path)
		}
		return Result{}, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("%q is a directory, not a corpus file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read %q: %w", path, err)
	}

	cleaned, rep := Clean(data)
	res := Result{
		Path:    path,
		Changed: !bytes.Equal(data, cleaned),
		Cleaned: cleaned,
		Report:  rep,
	}

	if !res.Changed || opts.DryRun {
		return res, nil
	}
	if err := os.WriteFile(path, cleaned, info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("failed to write %q: %w", path, err)
	}
	return res, nil
}

// Clean runs the classification pass over raw corpus bytes and returns the
// canonical content. A BOM is stripped and CRLF pairs are normalized to LF
// before the lines are split.
//
// The pass tracks the category of the most recent non-commentary line to
// decide whether a blank separator may be emitted: blanks are kept only
// after a title or body line, never at the start and never twice in a row.
// The delimiter is likewise never emitted twice in a row.
func Clean(data []byte) ([]byte, Report) {
	content := normalizeCRLF(stripBOM(data))

	lines := strings.Split(string(content), "\n")
	out := make([]string, 0, len(lines))
	state := CategoryNone
	var rep Report

	for _, line := range lines {
		switch classify(line) {
		case CategoryCommentary:
			// Dropped without touching the state: commentary is
			// transparent to the blank-separator rule.
			rep.CommentaryDropped++
		case CategoryTitle:
			if len(out) == 0 || out[len(out)-1] != Delimiter {
				out = append(out, Delimiter)
			}
			title := strings.TrimSpace(line)
			out = append(out, title)
			state = CategoryTitle
			rep.Entries++
			rep.Titles = append(rep.Titles, title)
		case CategoryBlank:
			if (state == CategoryTitle || state == CategoryBody) &&
				(len(out) == 0 || out[len(out)-1] != "") {
				out = append(out, "")
				rep.BlankKept++
			}
			state = CategoryBlank
		default:
			out = append(out, line)
			state = CategoryBody
			rep.BodyLines++
		}
	}

	text := strings.TrimSpace(strings.Join(out, "\n")) + "\n"
	return []byte(text), rep
}
