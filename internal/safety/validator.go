// Package safety is the sole gate between model-generated SQL text and the
// store. The checks are lexical by design: the policy is conservative and
// rejects on ambiguity instead of attempting to parse SQL. Callers treat a
// rejection as final for the request.
package safety

import (
	"fmt"
	"regexp"
	"strings"
)

// Keywords whose presence as a whole word marks a mutating or
// administrative statement.
var denyWords = []string{
	"insert", "update", "delete", "drop", "create",
	"alter", "truncate", "exec", "execute", "attach",
	"detach", "pragma", "vacuum", "reindex",
}

var (
	selectPattern = regexp.MustCompile(`(?i)^select\b`)
	denyPattern   = regexp.MustCompile(`(?i)\b(` + strings.Join(denyWords, "|") + `)\b`)
)

// Verdict is the immutable outcome of validation. Reason is empty when the
// query is accepted.
type Verdict struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

func reject(reason string) Verdict {
	return Verdict{Reason: reason}
}

// Validate accepts a normalized query only if it starts with SELECT,
// contains no deny-listed keyword as a whole word, and contains no
// statement separator followed by anything but whitespace or a comment.
// Single-quoted string literals are masked first, so a semicolon or a
// deny-listed word inside a literal value does not cause a false
// rejection.
func Validate(query string) Verdict {
	trimmed := strings.TrimSpace(query)
	if !selectPattern.MatchString(trimmed) {
		return reject("not a read query")
	}

	masked, ok := maskLiterals(trimmed)
	if !ok {
		return reject("unterminated string literal")
	}

	if strings.Contains(masked, ";") {
		segments := strings.Split(masked, ";")
		for i := 0; i < len(segments)-1; i++ {
			next := strings.TrimSpace(segments[i+1])
			if next != "" && !strings.HasPrefix(next, "--") {
				return reject("multiple statements are not allowed")
			}
		}
	}

	if match := denyPattern.FindString(masked); match != "" {
		return reject(fmt.Sprintf("forbidden keyword %q", strings.ToUpper(match)))
	}

	return Verdict{Accepted: true}
}

// maskLiterals blanks the contents of single-quoted SQLite literals,
// preserving length and everything outside them. A doubled quote inside a
// literal is an escape. Returns false when a literal never closes.
func maskLiterals(query string) (string, bool) {
	runes := []rune(query)
	inLiteral := false
	for i := 0; i < len(runes); i++ {
		if !inLiteral {
			if runes[i] == '\'' {
				inLiteral = true
			}
			continue
		}
		if runes[i] == '\'' {
			if i+1 < len(runes) && runes[i+1] == '\'' {
				runes[i] = ' '
				runes[i+1] = ' '
				i++
				continue
			}
			inLiteral = false
			continue
		}
		runes[i] = ' '
	}
	if inLiteral {
		return "", false
	}
	return string(runes), true
}
