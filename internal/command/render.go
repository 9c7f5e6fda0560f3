package command

import (
	"fmt"
	"regexp"
)

// Scope lists what a rule declares, for placeholder validation. Group and
// alias names are in their declared (lower-case) spelling; the renderer maps
// them to placeholder spelling itself.
type Scope struct {
	Rule         string
	Tools        []string
	SourceGroups []string
	OutputGroups []string
}

// TemplateError reports a command placeholder that references a tool alias or
// source/output group not declared on the rule.
type TemplateError struct {
	Rule        string
	Placeholder string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("rule %q: command references undeclared placeholder %s", e.Rule, e.Placeholder)
}

// Ordering matters: the longer alternatives must come first so that e.g.
// $OUTS_JS is not consumed as $OUTS followed by text.
var placeholderRE = regexp.MustCompile(
	`\$TOOLS_([A-Za-z0-9_]+)|\$OUTS_([A-Za-z0-9_]+)|\$SRCS_([A-Za-z0-9_]+)|\$OUTS|\$OUT|\$SRCS`)

// Render joins the fragments and validates every placeholder against the
// scope. The result is byte-identical for identical commands and scopes.
func Render(c Command, s Scope) (string, error) {
	rendered := c.String()

	tools := placeholderSet(s.Tools)
	srcs := placeholderSet(s.SourceGroups)
	outs := placeholderSet(s.OutputGroups)
	_, hasDefaultSrcs := srcs[""]
	_, hasDefaultOuts := outs[""]

	for _, m := range placeholderRE.FindAllStringSubmatch(rendered, -1) {
		switch {
		case m[1] != "":
			if _, ok := tools[m[1]]; !ok {
				return "", &TemplateError{Rule: s.Rule, Placeholder: "$TOOLS_" + m[1]}
			}
		case m[2] != "":
			if _, ok := outs[m[2]]; !ok {
				return "", &TemplateError{Rule: s.Rule, Placeholder: "$OUTS_" + m[2]}
			}
		case m[3] != "":
			if _, ok := srcs[m[3]]; !ok {
				return "", &TemplateError{Rule: s.Rule, Placeholder: "$SRCS_" + m[3]}
			}
		case m[0] == "$SRCS":
			if !hasDefaultSrcs {
				return "", &TemplateError{Rule: s.Rule, Placeholder: "$SRCS"}
			}
		default: // $OUT or $OUTS
			if !hasDefaultOuts {
				return "", &TemplateError{Rule: s.Rule, Placeholder: m[0]}
			}
		}
	}
	return rendered, nil
}

// placeholderSet maps declared names to their placeholder spelling. The
// default group keeps its empty name; it is addressed via $OUT/$OUTS/$SRCS.
func placeholderSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			set[""] = struct{}{}
			continue
		}
		set[placeholderName(n)] = struct{}{}
	}
	return set
}
