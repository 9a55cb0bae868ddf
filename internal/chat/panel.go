// Package chat holds the assistant side panel: an open/closed flag and an
// append-only message log. Questions go to the backend with the current
// prediction attached as context.
package chat

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/josephgoksu/voltsight/internal/logger"
)

// WelcomeText seeds every new panel.
const WelcomeText = "Hello! I'm your EV Health Assistant. Ask me about your battery report, degradation, or maintenance tips."

// FallbackText replaces the reply when the backend cannot be reached.
const FallbackText = "I'm having trouble connecting to the server. Please ensure the backend is running."

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one log entry. IDs increase monotonically per panel.
type Message struct {
	ID     int
	Text   string
	Sender Sender
}

// Asker is the backend the panel forwards questions to.
type Asker interface {
	Ask(ctx context.Context, query string, result json.RawMessage) (string, error)
}

// Panel is safe for concurrent use; replies may arrive after further posts.
type Panel struct {
	mu       sync.Mutex
	client   Asker
	open     bool
	messages []Message
	lastID   int
}

// NewPanel returns a closed panel holding only the welcome message.
func NewPanel(client Asker) *Panel {
	p := &Panel{client: client}
	p.appendLocked(WelcomeText, SenderBot)
	return p
}

func (p *Panel) appendLocked(text string, sender Sender) Message {
	p.lastID++
	m := Message{ID: p.lastID, Text: text, Sender: sender}
	p.messages = append(p.messages, m)
	return m
}

func (p *Panel) append(text string, sender Sender) Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.appendLocked(text, sender)
}

func (p *Panel) Open() {
	p.mu.Lock()
	p.open = true
	p.mu.Unlock()
}

func (p *Panel) Close() {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
}

// Toggle flips the panel and reports the new state.
func (p *Panel) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = !p.open
	return p.open
}

func (p *Panel) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Messages returns a copy of the log in append order.
func (p *Panel) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Post appends the user's message. Blank text is ignored and reports false.
func (p *Panel) Post(text string) (Message, bool) {
	if strings.TrimSpace(text) == "" {
		return Message{}, false
	}
	logger.SetLastInput(text)
	return p.append(text, SenderUser), true
}

// Deliver asks the backend and appends its reply, or the fallback text when
// the request fails. The returned error is informational; the log already
// reflects the outcome and nothing is retried.
func (p *Panel) Deliver(ctx context.Context, text string, result json.RawMessage) (Message, error) {
	reply, err := p.client.Ask(ctx, text, result)
	if err != nil {
		logger.Debugf("chat: %v", err)
		return p.append(FallbackText, SenderBot), err
	}
	return p.append(reply, SenderBot), nil
}

// Send posts text and delivers it. It returns the reply message, or false
// when text was blank and nothing was sent.
func (p *Panel) Send(ctx context.Context, text string, result json.RawMessage) (Message, bool, error) {
	if _, ok := p.Post(text); !ok {
		return Message{}, false, nil
	}
	reply, err := p.Deliver(ctx, text, result)
	return reply, true, err
}
