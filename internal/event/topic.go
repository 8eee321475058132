package event

import (
	"slices"
	"strings"
)

// Topic names a kind of event in dot notation, for example
// "storysource.source.replaced".
//
// Subscription patterns may use "*" for exactly one segment and "**" for
// everything after it, including nothing.
type Topic string

const (
	anySegment = "*"
	anyRest    = "**"
)

func (t Topic) segments() []string {
	return strings.Split(string(t), ".")
}

// IsValid reports whether t is non-empty without empty segments.
func (t Topic) IsValid() bool {
	return t != "" && !slices.Contains(t.segments(), "")
}

// Matches reports whether t is matched by pattern.
func (t Topic) Matches(pattern Topic) bool {
	topic, pat := t.segments(), pattern.segments()
	for i, p := range pat {
		if p == anyRest {
			return true
		}
		if i >= len(topic) || (p != anySegment && p != topic[i]) {
			return false
		}
	}
	return len(pat) == len(topic)
}
