package domain

import (
	"regexp"
)

// EventKind identifies the variant of an Event.
type EventKind string

const (
	// EventKindPubSubTopic is a trigger on messages published to a topic.
	EventKindPubSubTopic EventKind = "pubsub_topic"
)

// Event is a declarative trigger that makes the platform invoke a function.
type Event interface {
	Kind() EventKind
}

// topicPathPattern captures the project and topic of a topic resource path.
// The project segment is left open so that a foreign project surfaces as a consistency error.
var topicPathPattern = regexp.MustCompile(`^projects/([^/]+)/topics/([A-Za-z][A-Za-z0-9._~%+-]{2,254})$`)

// ProjectIDPattern is the shape of a cloud project identifier.
var ProjectIDPattern = regexp.MustCompile(`^[a-z][a-z0-9-]{4,28}[a-z0-9]$`)

// PubSubTopicEvent fires when a message is published to Resource.
type PubSubTopicEvent struct {
	EventType string
	// Resource is the topic path, e.g. projects/<project>/topics/<topic>.
	Resource string
}

// Kind implements Event.
func (PubSubTopicEvent) Kind() EventKind {
	return EventKindPubSubTopic
}

// Project returns the project segment of Resource, or "" if Resource is not a topic path.
func (e PubSubTopicEvent) Project() string {
	project, _, _ := SplitTopicPath(e.Resource)
	return project
}

// Topic returns the topic segment of Resource, or "" if Resource is not a topic path.
func (e PubSubTopicEvent) Topic() string {
	_, topic, _ := SplitTopicPath(e.Resource)
	return topic
}

// SplitTopicPath splits projects/<project>/topics/<topic> into its parts.
func SplitTopicPath(path string) (project, topic string, ok bool) {
	m := topicPathPattern.FindStringSubmatch(path)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// IsTopicPath reports whether path is a well-formed topic resource path.
func IsTopicPath(path string) bool {
	return topicPathPattern.MatchString(path)
}
