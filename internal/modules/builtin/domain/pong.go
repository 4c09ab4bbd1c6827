package domain

import "strings"

// PongTrigger is the emoji that makes the bot answer.
const PongTrigger = "🏓"

// PongResult represents the result of evaluating a pong trigger.
type PongResult struct {
	ShouldRespond bool
	Response      string
}

// NewPongResult evaluates the content and creates a PongResult.
func NewPongResult(content string) *PongResult {
	if !strings.Contains(content, PongTrigger) {
		return &PongResult{}
	}
	return &PongResult{
		ShouldRespond: true,
		Response:      "Pong " + PongTrigger,
	}
}
