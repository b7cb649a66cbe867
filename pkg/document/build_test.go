package document

import (
	"strings"
	"testing"

	"github.com/rstfmt/rstfmt/pkg/errors"
	"github.com/rstfmt/rstfmt/pkg/rst"
)

func build(t *testing.T, src string) *Document {
	t.Helper()
	tree, err := rst.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	doc, err := Build(tree)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return doc
}

func buildErr(t *testing.T, src string) error {
	t.Helper()
	tree, err := rst.Parse(src)
	if err != nil {
		return err
	}
	_, err = Build(tree)
	if err == nil {
		t.Fatal("Build() error = nil, want malformed input")
	}
	return err
}

func TestBuildSectionNesting(t *testing.T) {
	src := strings.Join([]string{
		"Top",
		"===",
		"",
		"Inner",
		"-----",
		"",
		"text",
		"",
		"Second Top",
		"==========",
		"",
	}, "\n")
	doc := build(t, src)

	if len(doc.Children) != 2 {
		t.Fatalf("top-level children = %d, want 2 sections", len(doc.Children))
	}
	top, ok := doc.Children[0].(*Section)
	if !ok || top.Depth != 1 {
		t.Fatalf("first child = %+v, want depth-1 section", doc.Children[0])
	}
	if len(top.Children) != 1 {
		t.Fatalf("nested children = %d, want inner section", len(top.Children))
	}
	inner := top.Children[0].(*Section)
	if inner.Depth != 2 {
		t.Errorf("inner depth = %d, want 2", inner.Depth)
	}
	if len(doc.Adornments) != 2 || doc.Adornments[0].Char != '=' || doc.Adornments[1].Char != '-' {
		t.Errorf("Adornments = %+v, want [= -]", doc.Adornments)
	}
}

func TestBuildSectionNewMarkerAtShallowDepth(t *testing.T) {
	src := strings.Join([]string{
		"Top",
		"===",
		"",
		"Inner",
		"-----",
		"",
		"Rogue",
		"~~~~~",
		"",
	}, "\n")
	// "~" is unseen; it opens depth 3 under Inner, which is fine.
	build(t, src)

	src = strings.Join([]string{
		"Top",
		"===",
		"",
		"Inner",
		"-----",
		"",
		"Back",
		"====",
		"",
		"Rogue",
		"~~~~~",
		"",
		"Another",
		"%%%%%%%",
		"",
	}, "\n")
	// After popping back to depth 1, "~" opens depth 2 again even though
	// it is depth 3's slot; that must fail.
	err := buildErr(t, src)
	if !errors.IsMalformed(err) {
		t.Errorf("error = %v, want MalformedError", err)
	}
}

func TestBuildSectionDepthJump(t *testing.T) {
	src := strings.Join([]string{
		"Top",
		"===",
		"",
		"Deep",
		"----",
		"",
		"Back at top",
		"===========",
		"",
		"Jump",
		"----",
		"",
		"text",
		"",
	}, "\n")
	// Reusing "-" at depth 2 right under a depth-1 section is valid.
	doc := build(t, src)
	if len(doc.Children) != 2 {
		t.Errorf("children = %d, want 2", len(doc.Children))
	}
}

func TestBuildFieldReordering(t *testing.T) {
	src := strings.Join([]string{
		":returns: the result",
		":param x: the input",
		"",
	}, "\n")
	doc := build(t, src)
	list := doc.Children[0].(*FieldList)
	if len(list.Fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(list.Fields))
	}
	if list.Fields[0].Kind != FieldParam {
		t.Errorf("first field = %q, want param before returns", list.Fields[0].Name)
	}
	if list.Fields[1].Kind != FieldReturns {
		t.Errorf("second field = %q, want returns", list.Fields[1].Name)
	}
}

func TestBuildFieldStableWithinKind(t *testing.T) {
	src := strings.Join([]string{
		":param b: second",
		":param a: first",
		"",
	}, "\n")
	doc := build(t, src)
	list := doc.Children[0].(*FieldList)
	if list.Fields[0].Name != "param b" || list.Fields[1].Name != "param a" {
		t.Errorf("order = %q, %q; want source order within kind", list.Fields[0].Name, list.Fields[1].Name)
	}
}

func TestBuildFieldTypeMerge(t *testing.T) {
	src := strings.Join([]string{
		":type x: str",
		":param x: the input",
		"",
	}, "\n")
	doc := build(t, src)
	list := doc.Children[0].(*FieldList)
	if len(list.Fields) != 1 {
		t.Fatalf("fields = %+v, want type merged into param", list.Fields)
	}
	if list.Fields[0].Name != "param str x" {
		t.Errorf("name = %q, want %q", list.Fields[0].Name, "param str x")
	}
}

func TestBuildFieldAliases(t *testing.T) {
	src := strings.Join([]string{
		":arg x: aliased param",
		":return: aliased returns",
		":exception ValueError: aliased raises",
		"",
	}, "\n")
	doc := build(t, src)
	list := doc.Children[0].(*FieldList)
	want := []string{"param x", "returns", "raises ValueError"}
	for i, f := range list.Fields {
		if f.Name != want[i] {
			t.Errorf("field[%d] = %q, want %q", i, f.Name, want[i])
		}
	}
}

func TestBuildFieldDuplicateReturns(t *testing.T) {
	src := ":returns: one\n:returns: two\n"
	err := buildErr(t, src)
	if !errors.IsMalformed(err) {
		t.Errorf("error = %v, want MalformedError", err)
	}
}

func TestBuildFieldEmptyBody(t *testing.T) {
	src := ":param x:\n"
	err := buildErr(t, src)
	if !errors.IsMalformed(err) {
		t.Errorf("error = %v, want MalformedError", err)
	}
}

func TestBuildDirectiveCodeRewrite(t *testing.T) {
	src := ".. code:: python\n\n   x = 1\n"
	doc := build(t, src)
	d := doc.Children[0].(*Directive)
	if d.Name != "code-block" {
		t.Errorf("Name = %q, want code-block", d.Name)
	}
	if d.Capability != BodyCode {
		t.Errorf("Capability = %v, want BodyCode", d.Capability)
	}
	if len(d.RawBody) != 1 || d.RawBody[0] != "x = 1" {
		t.Errorf("RawBody = %v, want verbatim body", d.RawBody)
	}
	if d.Children != nil {
		t.Errorf("Children = %+v, want nil for verbatim body", d.Children)
	}
}

func TestBuildDirectiveMarkupBody(t *testing.T) {
	src := ".. note::\n\n   A *nested* paragraph.\n"
	doc := build(t, src)
	d := doc.Children[0].(*Directive)
	if d.Capability != BodyMarkup {
		t.Fatalf("Capability = %v, want BodyMarkup", d.Capability)
	}
	if len(d.Children) != 1 {
		t.Fatalf("Children = %+v, want parsed paragraph", d.Children)
	}
	if _, ok := d.Children[0].(*Paragraph); !ok {
		t.Errorf("child = %T, want *Paragraph", d.Children[0])
	}
}

func TestBuildUnknownDirectiveDefaultsToMarkup(t *testing.T) {
	src := ".. custom-thing:: arg\n   :opt: val\n\n   body text\n"
	doc := build(t, src)
	d := doc.Children[0].(*Directive)
	if d.Capability != BodyMarkup {
		t.Errorf("Capability = %v, want BodyMarkup default", d.Capability)
	}
	if d.Name != "custom-thing" || len(d.Args) != 1 || d.Args[0] != "arg" {
		t.Errorf("directive = %+v, want name and args preserved", d)
	}
	if len(d.Options) != 1 || d.Options[0].Name != "opt" {
		t.Errorf("Options = %+v, want preserved", d.Options)
	}
}

func TestBuildTable(t *testing.T) {
	src := strings.Join([]string{
		"+-----+------+",
		"| a   | bb   |",
		"+=====+======+",
		"| ccc | d    |",
		"+-----+------+",
		"",
	}, "\n")
	doc := build(t, src)
	table := doc.Children[0].(*Table)
	if table.Columns != 2 {
		t.Errorf("Columns = %d, want 2", table.Columns)
	}
	if table.HeaderRows != 1 {
		t.Errorf("HeaderRows = %d, want 1", table.HeaderRows)
	}
	if len(table.Rows) != 2 {
		t.Errorf("Rows = %d, want 2", len(table.Rows))
	}
}

func TestDirectiveRuleConflictPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("register() with duplicate name did not panic")
		}
	}()
	register(BodyVerbatim, "", "note")
}
