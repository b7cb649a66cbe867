package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rstfmt/rstfmt/pkg/document"
	"github.com/rstfmt/rstfmt/pkg/rst"
)

// format runs the full parse/build/render chain once.
func format(t *testing.T, src string, opts Options) string {
	t.Helper()
	tree, err := rst.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	doc, err := document.Build(tree)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	out, err := Render(doc, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return out
}

// checkIdempotent formats src and asserts the output is a fixed point.
func checkIdempotent(t *testing.T, src string, opts Options) string {
	t.Helper()
	first := format(t, src, opts)
	second := format(t, first, opts)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass changed output (-first +second):\n%s", diff)
	}
	return first
}

func TestRenderParagraphRewrap(t *testing.T) {
	src := "This   is a\nparagraph with    odd spacing\nacross lines.\n"
	got := checkIdempotent(t, src, Options{Width: 30})
	want := strings.Join([]string{
		"This is a paragraph with odd",
		"spacing across lines.",
		"",
	}, "\n")
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderLongTokenNotBroken(t *testing.T) {
	src := "See https://example.com/a/very/long/url/that/exceeds/any/reasonable/width here.\n"
	got := format(t, src, Options{Width: 20})
	for _, l := range strings.Split(strings.TrimRight(got, "\n"), "\n") {
		words := strings.Fields(l)
		if len(words) == 1 {
			continue
		}
		if displayWidth(l) > 20 {
			t.Errorf("line %q exceeds width with multiple tokens", l)
		}
	}
	if !strings.Contains(got, "https://example.com/a/very/long/url/that/exceeds/any/reasonable/width") {
		t.Error("long token was broken")
	}
}

func TestRenderInlineMarkupAtomic(t *testing.T) {
	src := "Use the ``very long literal token`` marker and **some bold words** here.\n"
	got := checkIdempotent(t, src, Options{Width: 25})
	if !strings.Contains(got, "``very long literal token``") {
		t.Errorf("literal span was split across lines:\n%s", got)
	}
	if !strings.Contains(got, "**some bold words**") {
		t.Errorf("strong span was split across lines:\n%s", got)
	}
}

func TestRenderSectionCanonicalAdornments(t *testing.T) {
	src := strings.Join([]string{
		"Top",
		"+++",
		"",
		"Inner",
		"~~~~~",
		"",
		"body",
		"",
	}, "\n")
	got := checkIdempotent(t, src, Options{})
	want := strings.Join([]string{
		"#####",
		" Top",
		"#####",
		"",
		"*******",
		" Inner",
		"*******",
		"",
		"body",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("section output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderPreserveAdornments(t *testing.T) {
	src := "Top\n+++\n\nbody\n"
	got := format(t, src, Options{PreserveAdornments: true})
	if !strings.Contains(got, "Top\n+++\n") {
		t.Errorf("source adornment not preserved:\n%s", got)
	}
}

func TestRenderTransition(t *testing.T) {
	src := "before\n\n~~~~~~~~\n\nafter\n"
	got := checkIdempotent(t, src, Options{})
	want := "before\n\n----\n\nafter\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderDirectiveCanonical(t *testing.T) {
	src := strings.Join([]string{
		".. code:: python",
		"    :linenos:",
		"    :caption: demo",
		"",
		"    x  =  1",
		"",
	}, "\n")
	got := checkIdempotent(t, src, Options{})
	want := strings.Join([]string{
		".. code-block:: python",
		"    :caption: demo",
		"    :linenos:",
		"",
		"    x  =  1",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("directive output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDirectiveMarkupBodyRewrapped(t *testing.T) {
	src := ".. note::\n\n   A note   with messy\n   spacing.\n"
	got := checkIdempotent(t, src, Options{})
	want := ".. note::\n\n    A note with messy spacing.\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderBulletList(t *testing.T) {
	src := "* one\n* two with enough words to wrap somewhere\n"
	got := checkIdempotent(t, src, Options{Width: 20})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if lines[0] != "- one" {
		t.Errorf("first item = %q, want canonical dash marker", lines[0])
	}
	for _, l := range lines[1:] {
		if l != "" && !strings.HasPrefix(l, "- ") && !strings.HasPrefix(l, "  ") {
			t.Errorf("continuation %q not aligned under marker", l)
		}
	}
}

func TestRenderLooseList(t *testing.T) {
	src := strings.Join([]string{
		"- first",
		"",
		"  second paragraph",
		"",
		"- short",
		"",
	}, "\n")
	got := checkIdempotent(t, src, Options{})
	want := strings.Join([]string{
		"- first",
		"",
		"  second paragraph",
		"",
		"- short",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loose list mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEnumListRenumbered(t *testing.T) {
	src := "3. three\n5. four\n7. five\n"
	got := checkIdempotent(t, src, Options{})
	want := "3. three\n4. four\n5. five\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderFieldListCanonical(t *testing.T) {
	src := strings.Join([]string{
		":returns: the sum",
		":type b: int",
		":param a: first operand",
		":param b: second operand",
		":type a: int",
		"",
	}, "\n")
	got := checkIdempotent(t, src, Options{})
	want := strings.Join([]string{
		":param int a: first operand",
		":param int b: second operand",
		":returns: the sum",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("field list mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderFieldBodyHangingIndent(t *testing.T) {
	src := ":param x: a parameter described with quite a few words so it wraps\n"
	got := checkIdempotent(t, src, Options{Width: 30})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapped field body, got %q", got)
	}
	align := strings.Repeat(" ", len(":param x: "))
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l, align) {
			t.Errorf("continuation %q not aligned to body column", l)
		}
	}
}

func TestRenderLiteralBlock(t *testing.T) {
	src := "Example::\n\n      x = 1\n      y = 2\n"
	got := checkIdempotent(t, src, Options{})
	want := "Example::\n\n    x = 1\n    y = 2\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderBareLiteralBlock(t *testing.T) {
	src := "::\n\n   raw\n"
	got := checkIdempotent(t, src, Options{})
	want := "::\n\n    raw\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderComment(t *testing.T) {
	src := ".. a single comment\n"
	got := checkIdempotent(t, src, Options{})
	if got != ".. a single comment\n" {
		t.Errorf("output = %q", got)
	}

	src = "..\n   line one\n   line two\n"
	got = checkIdempotent(t, src, Options{})
	want := "..\n    line one\n    line two\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderTargets(t *testing.T) {
	src := ".. _home: https://example.com\n\n.. __: https://anon.example\n"
	got := checkIdempotent(t, src, Options{})
	want := ".. _home: https://example.com\n\n.. __: https://anon.example\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderFootnote(t *testing.T) {
	src := ".. [1] A footnote body that is short.\n"
	got := checkIdempotent(t, src, Options{})
	if got != ".. [1] A footnote body that is short.\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRenderBlankLinePolicy(t *testing.T) {
	src := "one\n\n\n\ntwo\n\n\n"
	got := checkIdempotent(t, src, Options{})
	want := "one\n\ntwo\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderEmbeddedIndent(t *testing.T) {
	tree, err := rst.Parse("one\n\ntwo\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	doc, err := document.BuildEmbedded(tree, "    ")
	if err != nil {
		t.Fatalf("BuildEmbedded() error = %v", err)
	}
	got, err := Render(doc, Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "    one\n\n    two\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderInvalidWidth(t *testing.T) {
	_, err := Render(&document.Document{}, Options{Width: -3})
	if err == nil {
		t.Fatal("Render() with negative width did not fail")
	}
}

func TestRenderIdempotentDocument(t *testing.T) {
	src := strings.Join([]string{
		"#######",
		" Title",
		"#######",
		"",
		"Intro paragraph.",
		"",
		".. note::",
		"",
		"    Nested *content* here.",
		"",
		"- item one",
		"- item two",
		"",
		":param x: something",
		"",
	}, "\n")
	got := format(t, src, Options{})
	if diff := cmp.Diff(src, got); diff != "" {
		t.Errorf("canonical input changed (-want +got):\n%s", diff)
	}
}
