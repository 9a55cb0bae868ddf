package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/voltsight/internal/api"
)

type mockAsker struct {
	mock.Mock
}

func (m *mockAsker) Ask(ctx context.Context, query string, result json.RawMessage) (string, error) {
	args := m.Called(ctx, query, result)
	return args.String(0), args.Error(1)
}

func TestNewPanel_SeededWithWelcome(t *testing.T) {
	p := NewPanel(&mockAsker{})

	msgs := p.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, 1, msgs[0].ID)
	assert.Equal(t, SenderBot, msgs[0].Sender)
	assert.Equal(t, WelcomeText, msgs[0].Text)
	assert.False(t, p.IsOpen())
}

func TestPanel_OpenCloseToggle(t *testing.T) {
	p := NewPanel(&mockAsker{})

	p.Open()
	assert.True(t, p.IsOpen())
	p.Close()
	assert.False(t, p.IsOpen())
	assert.True(t, p.Toggle())
	assert.False(t, p.Toggle())
}

func TestPanel_BlankTextIgnored(t *testing.T) {
	asker := &mockAsker{}
	p := NewPanel(asker)

	_, sent, err := p.Send(context.Background(), "   \n\t", nil)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Len(t, p.Messages(), 1)
	asker.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
}

func TestPanel_SendAppendsUserThenReply(t *testing.T) {
	result := json.RawMessage(`{"predicted_soh":91.2}`)
	asker := &mockAsker{}
	asker.On("Ask", mock.Anything, "Is my battery ok?", result).Return("Yes, SOH is 91.2%.", nil).Once()
	p := NewPanel(asker)

	reply, sent, err := p.Send(context.Background(), "Is my battery ok?", result)
	require.NoError(t, err)
	require.True(t, sent)
	assert.Equal(t, "Yes, SOH is 91.2%.", reply.Text)

	msgs := p.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, Message{ID: 2, Text: "Is my battery ok?", Sender: SenderUser}, msgs[1])
	assert.Equal(t, Message{ID: 3, Text: "Yes, SOH is 91.2%.", Sender: SenderBot}, msgs[2])
	asker.AssertExpectations(t)
}

func TestPanel_FailureAppendsFallback(t *testing.T) {
	asker := &mockAsker{}
	asker.On("Ask", mock.Anything, "hello", mock.Anything).Return("", errors.New("connection refused")).Once()
	p := NewPanel(asker)

	reply, sent, err := p.Send(context.Background(), "hello", nil)
	require.Error(t, err)
	assert.True(t, sent)
	assert.Equal(t, FallbackText, reply.Text)
	assert.Equal(t, SenderBot, reply.Sender)
	assert.Len(t, p.Messages(), 3)
	asker.AssertNumberOfCalls(t, "Ask", 1)
}

func TestPanel_PostIsSynchronous(t *testing.T) {
	p := NewPanel(&mockAsker{})

	msg, ok := p.Post("first")
	require.True(t, ok)
	assert.Equal(t, 2, msg.ID)

	msgs := p.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, SenderUser, msgs[1].Sender)
}

func TestPanel_IDsNeverReused(t *testing.T) {
	asker := &mockAsker{}
	asker.On("Ask", mock.Anything, mock.Anything, mock.Anything).Return("ok", nil)
	p := NewPanel(asker)

	for range 5 {
		_, _, err := p.Send(context.Background(), "ping", nil)
		require.NoError(t, err)
	}

	seen := map[int]bool{}
	prev := 0
	for _, m := range p.Messages() {
		assert.False(t, seen[m.ID], "duplicate id %d", m.ID)
		assert.Greater(t, m.ID, prev)
		seen[m.ID] = true
		prev = m.ID
	}
}

func TestPanel_SendsExactResultOverHTTP(t *testing.T) {
	const current = `{"estimated_soc":64,"predicted_soh":88.4,"risk_rating":"Low Risk","anomaly_warning":false,"extra":{"k":[1,2]}}`

	var got struct {
		Query   string          `json:"query"`
		Context json.RawMessage `json:"context"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"response":"Looks fine."}`)
	}))
	defer srv.Close()

	client, err := api.NewChatClient(api.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	p := NewPanel(client)

	reply, _, err := p.Send(context.Background(), "Explain my SOH", json.RawMessage(current))
	require.NoError(t, err)
	assert.Equal(t, "Looks fine.", reply.Text)
	assert.Equal(t, "Explain my SOH", got.Query)
	assert.JSONEq(t, current, string(got.Context))
}

func TestPanel_NonSuccessStatusFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := api.NewChatClient(api.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	p := NewPanel(client)

	reply, _, err := p.Send(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Equal(t, FallbackText, reply.Text)
}
