// internal/assistant/engine.go
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// KeywordEngine is a small offline Responder with canned replies, enough
// to exercise the whole interaction loop without a language model.
type KeywordEngine struct {
	now func() time.Time
}

// NewKeywordEngine creates the demo engine.
func NewKeywordEngine() *KeywordEngine {
	return &KeywordEngine{now: time.Now}
}

// Respond matches keywords in the query and returns a canned reply.
func (e *KeywordEngine) Respond(_ context.Context, text string) (string, error) {
	query := strings.ToLower(text)

	switch {
	case strings.Contains(query, "hello"), strings.Contains(query, "hi"):
		return "Hello! I'm Rune, your offline assistant. How can I help you today?", nil
	case strings.Contains(query, "time"):
		return fmt.Sprintf("The current time is %s.", e.now().Format("15:04")), nil
	case strings.Contains(query, "morse"):
		return "I can interpret and generate Morse code. Key a message and I will decode it.", nil
	}
	return "I'm an offline assistant running locally on this device, here to help while keeping your privacy.", nil
}
