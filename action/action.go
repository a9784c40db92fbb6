// Package action extracts structured action tokens from free-form
// assistant text and routes them to side-effecting handlers.
//
// The token format is a narrow, best-effort protocol: the model is
// instructed (via its system prompt) to emit at most one token per
// response, but nothing enforces that. The parser tolerates zero, one,
// or many tokens and returns them all; callers take the first.
package action

import "regexp"

// tokenRE matches [ACTION:<name>] and [ACTION:<name>:<argument>].
// The argument is non-greedy up to the closing bracket.
var tokenRE = regexp.MustCompile(`\[ACTION:(\w+)(?::(.+?))?\]`)

// Token is one parsed action. Arg is the raw, untrusted argument text.
type Token struct {
	Name string
	Arg  string
}

// Parse scans text for action tokens, returning every match in
// left-to-right order. Names are not validated here — that's the
// router's job.
func Parse(text string) []Token {
	matches := tokenRE.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, Token{Name: m[1], Arg: m[2]})
	}
	return tokens
}
