package rst

import (
	"regexp"
	"strings"
)

// SpanKind classifies one inline token.
type SpanKind string

// Inline span kinds.
const (
	SpanText         SpanKind = "text"
	SpanEmphasis     SpanKind = "emphasis"
	SpanStrong       SpanKind = "strong"
	SpanLiteral      SpanKind = "literal"
	SpanRole         SpanKind = "role"
	SpanReference    SpanKind = "reference"
	SpanSubstitution SpanKind = "substitution"
	SpanFootnoteRef  SpanKind = "footnote_reference"
)

// Span is one atomic inline token. Text is the verbatim source of the
// token; the renderer re-emits it unchanged, so wrapping can never break
// inside inline markup.
type Span struct {
	Kind SpanKind
	Text string
}

var (
	escapedRe      = regexp.MustCompile(`\\.`)
	doubleTickRe   = regexp.MustCompile("``[^`]*(?:`[^`]+)*``")
	strongSpanRe   = regexp.MustCompile(`\*\*[^*]+\*\*`)
	emphasisSpanRe = regexp.MustCompile(`\*[^*]+\*`)

	strongFullRe   = regexp.MustCompile(`^\*\*.+\*\*$`)
	emphasisFullRe = regexp.MustCompile(`^\*[^*].*\*$`)
	literalFullRe  = regexp.MustCompile("^``.+``$")
	roleFullRe     = regexp.MustCompile("^:[-\\w.+:]+:`[^`]+`$")
	refFullRe      = regexp.MustCompile("^`[^`]+`__?$")
	substFullRe    = regexp.MustCompile(`^\|[^|]+\|_{0,2}$`)
	footnoteFullRe = regexp.MustCompile(`^\[[#*]?[\w.-]*\]_$`)
)

// Tokenize splits inline text into wrap-safe tokens. Plain text splits at
// whitespace; inline markup spans that contain spaces (``two words``,
// **bold pair**, `link text`_) stay one token. Runs of whitespace carry
// no information and are collapsed by the renderer's single-space join.
func Tokenize(text string) []Span {
	words := strings.Fields(text)
	spans := make([]Span, 0, len(words))
	for i := 0; i < len(words); {
		w := words[i]
		j := i
		for !inlineBalanced(w) && j+1 < len(words) {
			j++
			w += " " + words[j]
		}
		if !inlineBalanced(w) {
			// An unmatched marker to end of text: emit the word as-is
			// rather than gluing the rest of the paragraph together.
			w = words[i]
			j = i
		}
		spans = append(spans, Span{Kind: classifySpan(w), Text: w})
		i = j + 1
	}
	return spans
}

// inlineBalanced reports whether every inline markup span opened in s is
// also closed in s.
func inlineBalanced(s string) bool {
	s = escapedRe.ReplaceAllString(s, "")

	// Literals first: their contents are opaque to other markers.
	if strings.Count(s, "``")%2 != 0 {
		return false
	}
	s = doubleTickRe.ReplaceAllString(s, "")

	if strings.Count(s, "**")%2 != 0 {
		return false
	}
	s = strongSpanRe.ReplaceAllString(s, "")

	if strings.Count(s, "*")%2 != 0 {
		return false
	}
	s = emphasisSpanRe.ReplaceAllString(s, "")

	return strings.Count(s, "`")%2 == 0
}

// classifySpan tags a token that is exactly one markup span; anything
// else, including plain words and words with trailing punctuation around
// a span, is SpanText.
func classifySpan(s string) SpanKind {
	switch {
	case strongFullRe.MatchString(s):
		return SpanStrong
	case literalFullRe.MatchString(s):
		return SpanLiteral
	case emphasisFullRe.MatchString(s):
		return SpanEmphasis
	case roleFullRe.MatchString(s):
		return SpanRole
	case refFullRe.MatchString(s):
		return SpanReference
	case substFullRe.MatchString(s):
		return SpanSubstitution
	case footnoteFullRe.MatchString(s):
		return SpanFootnoteRef
	default:
		return SpanText
	}
}
