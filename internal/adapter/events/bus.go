// internal/adapter/events/bus.go

package events

import (
	"strings"
)

// Handler receives the subject and payload of a delivered event
type Handler func(subject string, data []byte)

// Subscription is an active subscription
type Subscription interface {
	Unsubscribe() error
}

// Bus publishes and subscribes to subject-addressed events. Subjects are
// dot-separated tokens; "*" matches one token and ">" matches the rest.
type Bus interface {
	// Publish sends data to every subscriber of subject
	Publish(subject string, data []byte) error

	// Subscribe registers handler for subject
	Subscribe(subject string, handler Handler) (Subscription, error)

	// Close releases the bus
	Close()
}

// Subject joins tokens into a subject
func Subject(tokens ...string) string {
	return strings.Join(tokens, ".")
}

// matchSubject reports whether subject matches pattern
func matchSubject(pattern, subject string) bool {
	pt := strings.Split(pattern, ".")
	st := strings.Split(subject, ".")
	for i, p := range pt {
		if p == ">" {
			return len(st) > i
		}
		if i >= len(st) {
			return false
		}
		if p != "*" && p != st[i] {
			return false
		}
	}
	return len(pt) == len(st)
}
