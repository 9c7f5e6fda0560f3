// Package command assembles the shell command string of a build node from an
// ordered list of fragments: one or more base fragments plus optional
// conditional fragments such as a patch-application loop or executable
// shebang injection. Conditional fragments are appended, never substituted,
// so the rendered command for identical declarations is byte-identical.
//
// The rendered string carries literal placeholders ($TOOLS_<ALIAS>, $OUT,
// $OUTS, $OUTS_<GROUP>, $SRCS, $SRCS_<GROUP>) that the external build engine
// substitutes with concrete paths at execution time; this package only
// validates that every placeholder is declared on the rule.
package command

import "strings"

// Fragment is one independently constructed piece of a command.
type Fragment struct {
	text string
}

// Command is an ordered, immutable fragment list. The zero value is empty.
type Command struct {
	fragments []Fragment
}

// New builds a command from base shell snippets, joined in order.
func New(base ...string) Command {
	c := Command{}
	for _, s := range base {
		c = c.Append(Raw(s))
	}
	return c
}

// Append returns a new command with the fragment added at the end. The
// receiver is not modified.
func (c Command) Append(f Fragment) Command {
	fragments := make([]Fragment, 0, len(c.fragments)+1)
	fragments = append(fragments, c.fragments...)
	fragments = append(fragments, f)
	return Command{fragments: fragments}
}

// IsZero reports whether the command has no fragments.
func (c Command) IsZero() bool { return len(c.fragments) == 0 }

// String joins the fragments without placeholder validation. Render is the
// validated form.
func (c Command) String() string {
	parts := make([]string, len(c.fragments))
	for i, f := range c.fragments {
		parts[i] = f.text
	}
	return strings.Join(parts, " && ")
}

// Raw wraps a literal shell snippet as a fragment.
func Raw(text string) Fragment {
	return Fragment{text: text}
}

// PatchLoop builds the fragment that applies each patch file from the named
// source group, one invocation of the patch utility per file.
func PatchLoop(group string) Fragment {
	return Raw("for p in $SRCS_" + placeholderName(group) + "; do patch -p1 < $p; done")
}

// Shebang builds the fragment that stages the primary output under a
// temporary name, prepends an interpreter line, reassembles the file and
// marks it executable.
func Shebang(interpreter string) Fragment {
	return Raw("mv $OUT _$OUT" +
		" && echo '#!/usr/bin/env " + interpreter + "' > $OUT" +
		" && cat _$OUT >> $OUT" +
		" && rm _$OUT && chmod +x $OUT")
}

// placeholderName maps a group or alias name to its placeholder spelling.
func placeholderName(name string) string {
	return strings.ToUpper(name)
}
