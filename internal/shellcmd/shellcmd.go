// Package shellcmd turns a recipe command string into argument vectors.
//
// A command is split on the literal "&&" into sub-commands which run one
// after another. This is not shell semantics: there is no short-circuit on
// failure, no subshell and no quote-aware tokenization. Each sub-command is
// split on whitespace and every token that references a variable or starts
// with "~" is expanded as a shell word would be.
package shellcmd

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// Separator delimits sequential sub-commands.
const Separator = "&&"

// ErrEmptyCommand is returned when a sub-command has no executable.
var ErrEmptyCommand = errors.New("empty command")

// Split returns the raw sub-commands of command in order.
func Split(command string) []string {
	return strings.Split(command, Separator)
}

// Expand splits command into sub-commands and expands each one into an
// argument vector. The first element of every vector is the executable.
// getenv resolves variables; unset variables expand to the empty string.
func Expand(command string, getenv func(string) string) ([][]string, error) {
	cfg := &expand.Config{Env: expand.FuncEnviron(getenv)}

	segments := Split(command)
	out := make([][]string, 0, len(segments))
	for i, seg := range segments {
		fields := strings.Fields(seg)
		if len(fields) == 0 {
			return nil, fmt.Errorf("sub-command %d of %q: %w", i+1, command, ErrEmptyCommand)
		}

		argv := make([]string, len(fields))
		for j, tok := range fields {
			s, err := expandToken(cfg, tok)
			if err != nil {
				return nil, fmt.Errorf("expanding %q: %w", tok, err)
			}
			argv[j] = s
		}
		if argv[0] == "" {
			return nil, fmt.Errorf("sub-command %d of %q: %q expands to nothing: %w", i+1, command, fields[0], ErrEmptyCommand)
		}
		out = append(out, argv)
	}
	return out, nil
}

func expandToken(cfg *expand.Config, tok string) (string, error) {
	if !strings.Contains(tok, "$") && !strings.HasPrefix(tok, "~") {
		return tok, nil
	}
	word, err := syntax.NewParser().Document(strings.NewReader(tok))
	if err != nil {
		return "", err
	}
	return expand.Literal(cfg, word)
}
