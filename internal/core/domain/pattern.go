package domain

import "strings"

// MatchesPattern is the authority on whether a domain matches a domain
// pattern.
//
// Patterns are dot-separated labels compared against the domain from the
// root inward. A label is either a literal, a bare "*", or a partial
// wildcard of the form "prefix*suffix". A leading bare "*" label absorbs
// any number of extra labels; everywhere else the label counts must agree.
//
// The first wildcard label reached during the scan decides the whole match:
// labels further from the root are not inspected after it. A label with more
// than one '*' splits at the first and matches the remainder literally.
func MatchesPattern(pattern string, domain DomainName) bool {
	patternLabels := reverseLabels(strings.Split(pattern, "."))
	domainLabels := reverseLabels(strings.Split(string(domain), "."))

	// Unequal label counts only ever match when the pattern opens with a
	// bare wildcard. Note the leading label is the *last* one after the
	// reversal.
	if len(patternLabels) != len(domainLabels) && patternLabels[len(patternLabels)-1] != "*" {
		return false
	}

	n := min(len(patternLabels), len(domainLabels))
	for i := 0; i < n; i++ {
		p, d := patternLabels[i], domainLabels[i]
		if p == d {
			continue
		}

		if head, tail, ok := strings.Cut(p, "*"); ok {
			return strings.HasPrefix(d, head) && strings.HasSuffix(d, tail)
		}

		return false
	}

	return true
}

func reverseLabels(labels []string) []string {
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return labels
}
