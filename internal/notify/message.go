package notify

import "fmt"

// SlackMessage is an incoming-webhook payload.
type SlackMessage struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a legacy Slack attachment (used for color bars).
type Attachment struct {
	Color    string `json:"color,omitempty"`
	Fallback string `json:"fallback,omitempty"`
	Text     string `json:"text,omitempty"`
	Footer   string `json:"footer,omitempty"`
	Ts       int64  `json:"ts,omitempty"`
}

// FormatSlackMessage creates a Slack message from an event.
func FormatSlackMessage(event *Event) *SlackMessage {
	text := event.Message
	if event.Subject != "" {
		text = fmt.Sprintf("%s: %s", event.Message, event.Subject)
	}

	return &SlackMessage{
		Text: text,
		Attachments: []Attachment{{
			Color:    getEventColor(event),
			Fallback: text,
			Text:     fmt.Sprintf("*%s*", event.Type),
			Footer:   "doubleblind",
			Ts:       event.Timestamp.Unix(),
		}},
	}
}

// getEventColor returns the color for an event.
func getEventColor(event *Event) string {
	if !event.Success {
		return "#E01E5A" // Red for errors
	}

	switch event.Type {
	case EventProjectCreated:
		return "#2EB67D" // Green
	case EventRepositoryDeployed:
		return "#36C5F0" // Blue
	default:
		return "#ECB22E" // Yellow/Orange
	}
}
