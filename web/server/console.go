package server

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by queueing console events for the client
type WebLogger struct {
	renderID string
	events   chan<- SSEEvent
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, events chan<- SSEEvent) core.Logger {
	return &WebLogger{
		renderID: renderID,
		events:   events,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Also write to the server log
	log.Printf("[%s] %s", wl.renderID, message)

	if wl.events == nil {
		return
	}

	data, err := json.Marshal(ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     "info",
	})
	if err != nil {
		return
	}

	// Never block rendering on a slow client
	select {
	case wl.events <- SSEEvent{Type: "console", Data: string(data)}:
	default:
	}
}
