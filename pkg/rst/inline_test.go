package rst

import "testing"

func TestTokenizePlainWords(t *testing.T) {
	spans := Tokenize("three plain   words")
	if len(spans) != 3 {
		t.Fatalf("spans = %d, want 3", len(spans))
	}
	for _, s := range spans {
		if s.Kind != SpanText {
			t.Errorf("kind = %q, want text", s.Kind)
		}
	}
}

func TestTokenizeSpansWithSpaces(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Span
	}{
		{
			name: "strong pair",
			in:   "a **bold pair** b",
			want: []Span{
				{SpanText, "a"},
				{SpanStrong, "**bold pair**"},
				{SpanText, "b"},
			},
		},
		{
			name: "literal with spaces",
			in:   "see ``two words`` here",
			want: []Span{
				{SpanText, "see"},
				{SpanLiteral, "``two words``"},
				{SpanText, "here"},
			},
		},
		{
			name: "reference",
			in:   "read `the docs`_ now",
			want: []Span{
				{SpanText, "read"},
				{SpanReference, "`the docs`_"},
				{SpanText, "now"},
			},
		},
		{
			name: "role",
			in:   "call :func:`do_thing` today",
			want: []Span{
				{SpanText, "call"},
				{SpanRole, ":func:`do_thing`"},
				{SpanText, "today"},
			},
		},
		{
			name: "emphasis",
			in:   "*important words* follow",
			want: []Span{
				{SpanEmphasis, "*important words*"},
				{SpanText, "follow"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("spans = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTokenizeUnbalancedMarkerFallsBack(t *testing.T) {
	// A lone asterisk must not glue the rest of the text together.
	spans := Tokenize("5* rating for everything")
	if len(spans) != 4 {
		t.Fatalf("spans = %+v, want 4 words", spans)
	}
	if spans[0].Text != "5*" {
		t.Errorf("first = %q, want 5*", spans[0].Text)
	}
}

func TestTokenizePunctuationAroundSpan(t *testing.T) {
	spans := Tokenize("(**bold**) end")
	if len(spans) != 2 {
		t.Fatalf("spans = %+v, want 2", spans)
	}
	if spans[0].Text != "(**bold**)" {
		t.Errorf("first = %q, want punctuation kept attached", spans[0].Text)
	}
	if spans[0].Kind != SpanText {
		t.Errorf("kind = %q, want text for mixed token", spans[0].Kind)
	}
}

func TestTokenizeEscapedMarker(t *testing.T) {
	spans := Tokenize(`literal \* star`)
	if len(spans) != 3 {
		t.Fatalf("spans = %+v, want 3", spans)
	}
}

func TestTokenizeFootnoteAndSubstitution(t *testing.T) {
	spans := Tokenize("see [1]_ and |name| twice")
	if spans[1].Kind != SpanFootnoteRef {
		t.Errorf("kind = %q, want footnote_reference", spans[1].Kind)
	}
	if spans[3].Kind != SpanSubstitution {
		t.Errorf("kind = %q, want substitution", spans[3].Kind)
	}
}
