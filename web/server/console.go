package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-voxel-raytracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info" or "warning"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Also write to stdout for server logs
	fmt.Printf("[%s] %s", wl.renderID, message)

	level := "info"
	if strings.HasPrefix(message, "Warning") {
		level = "warning"
	}

	// Send to web console if channel is available (non-blocking)
	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- ConsoleMessage{
			RenderID:  wl.renderID,
			Message:   message,
			Timestamp: time.Now(),
			Level:     level,
		}:
		default:
			// Channel full, skip (don't block)
		}
	}
}

// ConsoleBuffer keeps the most recent console messages
type ConsoleBuffer struct {
	mu       sync.Mutex
	messages []ConsoleMessage
	limit    int
}

// NewConsoleBuffer creates a buffer holding at most limit messages
func NewConsoleBuffer(limit int) *ConsoleBuffer {
	return &ConsoleBuffer{limit: limit}
}

// Add appends a message, dropping the oldest once the buffer is full
func (b *ConsoleBuffer) Add(msg ConsoleMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
	if over := len(b.messages) - b.limit; over > 0 {
		b.messages = append([]ConsoleMessage(nil), b.messages[over:]...)
	}
}

// Messages returns the buffered messages, oldest first. A non-empty renderID
// keeps only that render's messages.
func (b *ConsoleBuffer) Messages(renderID string) []ConsoleMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ConsoleMessage, 0, len(b.messages))
	for _, m := range b.messages {
		if renderID == "" || m.RenderID == renderID {
			out = append(out, m)
		}
	}
	return out
}

// Run adds every message received on ch until ch is closed
func (b *ConsoleBuffer) Run(ch <-chan ConsoleMessage) {
	for msg := range ch {
		b.Add(msg)
	}
}

// handleConsole returns recent console messages, optionally for one render
func (s *Server) handleConsole(c echo.Context) error {
	return c.JSON(http.StatusOK, s.console.Messages(c.QueryParam("render")))
}
