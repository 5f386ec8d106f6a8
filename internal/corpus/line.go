package corpus

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Delimiter is the marker line emitted before every entry title.
const Delimiter = "###"

// Category classifies a single raw corpus line.
type Category uint8

const (
	// CategoryNone is the initial classification state before any line
	// has been processed.
	CategoryNone Category = iota
	// CategoryTitle is an all-uppercase entry heading.
	CategoryTitle
	// CategoryBody is a regular text line, kept verbatim.
	CategoryBody
	// CategoryBlank is an empty separator line.
	CategoryBlank
	// CategoryCommentary is an indented annotation, dropped entirely.
	CategoryCommentary
)

func (c Category) String() string {
	switch c {
	case CategoryTitle:
		return "title"
	case CategoryBody:
		return "body"
	case CategoryBlank:
		return "blank"
	case CategoryCommentary:
		return "commentary"
	default:
		return "none"
	}
}

// classify assigns a category to a raw line with its terminator already
// stripped. The indent check runs first: an indented line is commentary
// even when its trimmed text would otherwise qualify as a title or blank.
func classify(line string) Category {
	if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
		return CategoryCommentary
	}
	if isTitleLine(line) {
		return CategoryTitle
	}
	if strings.TrimSpace(line) == "" {
		return CategoryBlank
	}
	return CategoryBody
}

// isTitleLine reports whether the trimmed line contains at least one letter
// and no letter other than uppercase ones. Punctuation and spaces are
// allowed; a line with no letters at all never qualifies. A short all-caps
// body line does qualify, which matches the corpus convention.
//
// Classification runs on an NFC-normalized copy so decomposed accents fold
// the same way as precomposed ones; the emitted text is never altered.
func isTitleLine(line string) bool {
	trimmed := norm.NFC.String(strings.TrimSpace(line))
	hasLetter := false
	for _, r := range trimmed {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		hasLetter = true
	}
	return hasLetter
}
