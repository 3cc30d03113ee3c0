package service

import (
	"regexp"
	"sort"
)

// mentionPattern matches an email address written with a leading '@', e.g. "@admin@example.com".
// The capture group is the address itself.
var mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)

// ParseMentions returns the distinct email addresses mentioned in text, sorted. Matching is
// case-sensitive; text without mentions yields an empty result.
func ParseMentions(text string) []string {
	if text == "" {
		return []string{}
	}
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	emails := make([]string, 0, len(matches))
	for _, m := range matches {
		email := m[1]
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails
}
