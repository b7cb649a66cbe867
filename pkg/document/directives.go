package document

import "fmt"

// Capability describes how a directive's body is parsed.
type Capability int

// Directive body capabilities.
const (
	// BodyMarkup bodies are parsed as nested reStructuredText. Unknown
	// directive names default here, with argument and options preserved
	// verbatim.
	BodyMarkup Capability = iota

	// BodyVerbatim bodies are re-indented but otherwise untouched.
	BodyVerbatim

	// BodyCode bodies are foreign-language source; like BodyVerbatim,
	// plus the directive canonicalizes to "code-block".
	BodyCode
)

// rule is one entry of the directive capability table.
type rule struct {
	capability Capability

	// canonical is the name the directive is rewritten to; empty keeps
	// the source name.
	canonical string
}

// directiveRules maps directive names to their body capability. Names
// absent from the table default to BodyMarkup. Name-specific rules take
// strict priority over that fallback; a name registered twice is a
// programming error caught at init.
var directiveRules = map[string]rule{}

func register(capability Capability, canonical string, names ...string) {
	for _, name := range names {
		if _, dup := directiveRules[name]; dup {
			panic(fmt.Sprintf("directive rule for %q registered twice", name))
		}
		directiveRules[name] = rule{capability: capability, canonical: canonical}
	}
}

func init() {
	// Foreign-language blocks. "code" and "sourcecode" rewrite to the
	// canonical "code-block" spelling.
	register(BodyCode, "code-block", "code", "sourcecode", "code-block")

	// Verbatim bodies: re-indent only. parsed-literal keeps its line
	// breaks, so it cannot go through the markup re-wrapper.
	register(BodyVerbatim, "", "math", "raw", "parsed-literal", "testsetup", "testcleanup", "doctest")

	// Bodies that are plain markup. These are listed explicitly even
	// though BodyMarkup is the default, so the admonition set is
	// documented in one place.
	register(BodyMarkup, "",
		"admonition", "attention", "caution", "danger", "error", "hint",
		"important", "note", "tip", "warning", "seealso", "versionadded",
		"versionchanged", "deprecated", "topic", "sidebar", "epigraph",
		"compound", "container", "highlights", "rubric")
}

// capabilityFor resolves a directive name to its capability and canonical
// name.
func capabilityFor(name string) (Capability, string) {
	if r, ok := directiveRules[name]; ok {
		canonical := r.canonical
		if canonical == "" {
			canonical = name
		}
		return r.capability, canonical
	}
	return BodyMarkup, name
}
