package service

import "strings"

// guessMatches scores a guess against the free-text answer. Both the guessed
// make and the guessed model must match some whitespace token of the answer,
// case-insensitive, substring in either direction. "golf" matches
// "VW Golf GTI".
func guessMatches(answer, guessMake, guessModel string) bool {
	return tokenMatch(answer, guessMake) && tokenMatch(answer, guessModel)
}

// tokenMatch reports whether any token of answer contains part or vice versa.
func tokenMatch(answer, part string) bool {
	part = strings.ToLower(strings.TrimSpace(part))
	if part == "" {
		return false
	}
	for _, tok := range strings.Fields(strings.ToLower(answer)) {
		if strings.Contains(tok, part) || strings.Contains(part, tok) {
			return true
		}
	}
	return false
}

// splitIdentity derives a structured make/model from the free-text answer:
// first token becomes the make, the remainder the model. An answer with fewer
// than two tokens yields nothing; the spot stays identified by text only.
func splitIdentity(answer string) (carMake, carModel *string) {
	fields := strings.Fields(answer)
	if len(fields) < 2 {
		return nil, nil
	}
	mk := fields[0]
	mdl := strings.Join(fields[1:], " ")
	return &mk, &mdl
}
