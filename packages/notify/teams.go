package notify

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// TeamsNotifier sends notifications to Microsoft Teams via webhook
type TeamsNotifier struct {
	webhookURL string
	client     *http.Client
}

// TeamsOption is a functional option for TeamsNotifier
type TeamsOption func(*TeamsNotifier)

// WithTeamsClient replaces the HTTP client.
func WithTeamsClient(c *http.Client) TeamsOption {
	return func(t *TeamsNotifier) {
		t.client = c
	}
}

func NewTeamsNotifier(webhookURL string, opts ...TeamsOption) *TeamsNotifier {
	t := &TeamsNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TeamsNotifier) Name() string {
	return "teams"
}

// teamsMessage wraps one Adaptive Card.
type teamsMessage struct {
	Type        string      `json:"type"`
	Attachments []teamsCard `json:"attachments"`
}

type teamsCard struct {
	ContentType string           `json:"contentType"`
	Content     teamsCardContent `json:"content"`
}

type teamsCardContent struct {
	Schema  string       `json:"$schema"`
	Type    string       `json:"type"`
	Version string       `json:"version"`
	Body    []teamsBlock `json:"body"`
}

type teamsBlock struct {
	Type   string      `json:"type"`
	Size   string      `json:"size,omitempty"`
	Weight string      `json:"weight,omitempty"`
	Text   string      `json:"text,omitempty"`
	Color  string      `json:"color,omitempty"`
	Wrap   bool        `json:"wrap,omitempty"`
	Facts  []teamsFact `json:"facts,omitempty"`
}

type teamsFact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

func (t *TeamsNotifier) Notify(summary *RunSummary) error {
	color := "good"
	if !summary.Success() {
		color = "attention"
	}

	body := []teamsBlock{
		{Type: "TextBlock", Size: "Large", Weight: "Bolder", Text: summary.Title(), Color: color},
		{Type: "FactSet", Facts: []teamsFact{
			{Title: "Runs", Value: strings.Join(summary.Runs, ", ")},
			{Title: "Total", Value: fmt.Sprintf("%d", summary.TotalCases)},
			{Title: "Passed", Value: fmt.Sprintf("%d", summary.Passed)},
			{Title: "Failed", Value: fmt.Sprintf("%d", summary.Failed)},
			{Title: "Errored", Value: fmt.Sprintf("%d", summary.Errored)},
			{Title: "Skipped", Value: fmt.Sprintf("%d", summary.Skipped)},
			{Title: "Duration", Value: summary.Duration.Round(time.Millisecond).String()},
		}},
	}
	for _, fc := range summary.FailedCases {
		body = append(body, teamsBlock{
			Type: "TextBlock",
			Text: fmt.Sprintf("**%s** %s: %s", fc.FullName, fc.Status, fc.Message),
			Wrap: true,
		})
	}

	return postJSON(t.client, t.webhookURL, teamsMessage{
		Type: "message",
		Attachments: []teamsCard{{
			ContentType: "application/vnd.microsoft.card.adaptive",
			Content: teamsCardContent{
				Schema:  "http://adaptivecards.io/schemas/adaptive-card.json",
				Type:    "AdaptiveCard",
				Version: "1.4",
				Body:    body,
			},
		}},
	})
}
