package inlinelex

// matchText is the "paragraph of plain text" fallback (§4.5 rule 10): it
// consumes bytes until one starts some other recognized inline token,
// trying each higher-priority matcher at every subsequent byte so that a
// run like "see http://x and more" yields one text token up to "see ",
// stops there for the URI, and resumes as its own text token afterward —
// while a run with no such interruption is returned as a single token,
// which is how successive fallback runs end up concatenated within one
// tokenize() call per the spec's description.
func (tz *Tokenizer) matchText(rest []byte) int {
	n := 1 // rest[0] was already checked by Next and is not a decision byte
	for n < len(rest) {
		if isDecisionPoint(rest[n:]) {
			break
		}
		n++
	}
	return n
}

// isDecisionPoint reports whether s begins a token matchText must not
// swallow.
func isDecisionPoint(s []byte) bool {
	c := s[0]
	if c == '\n' || c == ' ' || c == '\t' {
		return true
	}
	if _, ok := singleCharKind(c); ok {
		return true
	}
	switch c {
	case '&', '`', '*', '_':
		return true
	}
	if _, ok := scanAbsoluteURI(s); ok {
		return true
	}
	if _, ok := scanEmail(s); ok {
		return true
	}
	return false
}
