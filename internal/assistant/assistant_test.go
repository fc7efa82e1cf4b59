package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/models"
)

type staticCatalog []models.Product

func (c staticCatalog) GetAllProducts(context.Context) ([]models.Product, error) {
	return c, nil
}

// scriptedModel answers with the queued replies and records every request.
type scriptedModel struct {
	replies  []Reply
	errs     []error
	requests []Request
}

func (m *scriptedModel) Send(_ context.Context, req Request) (Reply, error) {
	m.requests = append(m.requests, req)
	i := len(m.requests) - 1
	if i < len(m.errs) && m.errs[i] != nil {
		return Reply{}, m.errs[i]
	}
	if i >= len(m.replies) {
		return Reply{}, errors.New("no scripted reply")
	}
	return m.replies[i], nil
}

func testCatalog() staticCatalog {
	mk := func(id, name, desc string, cat models.Category) models.Product {
		return models.Product{ID: id, Name: name, Description: desc, Category: cat, Price: 50}
	}
	return staticCatalog{
		mk("S001", "Denim Shirt", "light denim", models.CategorySummer),
		mk("W001", "Leather Jacket", "warm leather jacket", models.CategoryWinter),
		mk("W002", "Wool Jacket", "warm wool", models.CategoryWinter),
		mk("W003", "Fleece Jacket", "warm fleece", models.CategoryWinter),
		mk("W004", "Down Jacket", "very warm", models.CategoryWinter),
		mk("W005", "Rain Jacket", "warm enough", models.CategoryWinter),
	}
}

func newTestAssistant(m Model, defaultKey string) (*Assistant, *[]string) {
	var dialed []string
	dial := func(_ context.Context, key string) (Model, error) {
		dialed = append(dialed, key)
		return m, nil
	}
	return New(testCatalog(), dial, defaultKey, zap.NewNop()), &dialed
}

func TestMessagesStartWithGreeting(t *testing.T) {
	a, _ := newTestAssistant(&scriptedModel{}, "")
	msgs := a.Messages("s1")
	require.Len(t, msgs, 1)
	assert.Equal(t, models.SenderBot, msgs[0].Sender)
	assert.Equal(t, Greeting, msgs[0].Text)
}

func TestSendRejectsBlank(t *testing.T) {
	a, _ := newTestAssistant(&scriptedModel{}, "key")
	_, err := a.Send(context.Background(), "s1", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, a.Messages("s1"), 1)
}

func TestSendWithoutKeyReportsKeyProblem(t *testing.T) {
	a, dialed := newTestAssistant(&scriptedModel{}, "")

	reply, err := a.Send(context.Background(), "s1", "hi")
	require.NoError(t, err)
	assert.True(t, reply.IsAPIKeyError)
	assert.Equal(t, apiKeyProblem, reply.Text)
	assert.Empty(t, *dialed)

	msgs := a.Messages("s1")
	require.Len(t, msgs, 3)
	assert.Equal(t, models.SenderUser, msgs[1].Sender)
	assert.Equal(t, "hi", msgs[1].Text)
}

func TestSendPlainAnswer(t *testing.T) {
	m := &scriptedModel{replies: []Reply{{Text: "Howdy!"}}}
	a, dialed := newTestAssistant(m, "")
	a.SetAPIKey("s1", " k1 ")

	reply, err := a.Send(context.Background(), "s1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Howdy!", reply.Text)
	assert.Empty(t, reply.Products)
	assert.Equal(t, []string{"k1"}, *dialed)

	require.Len(t, m.requests, 1)
	assert.Contains(t, m.requests[0].System, "Leather Jacket")
	require.Len(t, m.requests[0].History, 1)
	assert.Equal(t, "hello", m.requests[0].History[0].Text)
}

func TestSendProductSearch(t *testing.T) {
	m := &scriptedModel{replies: []Reply{
		{Calls: []FunctionCall{{ID: "c1", Name: ProductSearchTool, Args: map[string]any{"query": "jacket"}}}},
		{Text: "Here are some jackets."},
	}}
	a, _ := newTestAssistant(m, "default")

	reply, err := a.Send(context.Background(), "s1", "find me a jacket")
	require.NoError(t, err)
	assert.Equal(t, "Here are some jackets.", reply.Text)
	require.Len(t, reply.Products, MaxSuggestedProducts)
	assert.Equal(t, "W001", reply.Products[0].ID)

	require.Len(t, m.requests, 2)
	second := m.requests[1].History
	require.Len(t, second, 3)
	require.NotNil(t, second[1].Call)
	require.NotNil(t, second[2].Response)
	assert.Equal(t, "c1", second[2].Response.ID)
	assert.Contains(t, second[2].Response.Response["result"], "Down Jacket")
}

func TestSendKeepsHistoryAcrossMessages(t *testing.T) {
	m := &scriptedModel{replies: []Reply{{Text: "one"}, {Text: "two"}}}
	a, dialed := newTestAssistant(m, "key")

	_, err := a.Send(context.Background(), "s1", "first")
	require.NoError(t, err)
	_, err = a.Send(context.Background(), "s1", "second")
	require.NoError(t, err)

	assert.Len(t, *dialed, 1)
	assert.Len(t, m.requests[1].History, 3)
}

func TestChangingKeyResetsConversation(t *testing.T) {
	m := &scriptedModel{replies: []Reply{{Text: "one"}, {Text: "two"}}}
	a, dialed := newTestAssistant(m, "")

	a.SetAPIKey("s1", "k1")
	_, err := a.Send(context.Background(), "s1", "first")
	require.NoError(t, err)

	a.SetAPIKey("s1", "k2")
	_, err = a.Send(context.Background(), "s1", "second")
	require.NoError(t, err)

	assert.Equal(t, []string{"k1", "k2"}, *dialed)
	assert.Len(t, m.requests[1].History, 1)
	assert.Len(t, a.Messages("s1"), 5)
}

func TestSendMapsModelErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		text    string
		keyFlag bool
	}{
		{name: "rejected key", err: errors.New("Error 400, Message: API key not valid. Please pass a valid API key."), text: apiKeyProblem, keyFlag: true},
		{name: "wrapped sentinel", err: ErrAPIKey, text: apiKeyProblem, keyFlag: true},
		{name: "anything else", err: errors.New("boom"), text: genericFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &scriptedModel{errs: []error{tt.err}}
			a, _ := newTestAssistant(m, "key")

			reply, err := a.Send(context.Background(), "s1", "hi")
			require.NoError(t, err)
			assert.Equal(t, tt.text, reply.Text)
			assert.Equal(t, tt.keyFlag, reply.IsAPIKeyError)
		})
	}
}

func TestFailedExchangeLeavesHistoryUntouched(t *testing.T) {
	m := &scriptedModel{
		errs:    []error{errors.New("boom")},
		replies: []Reply{{}, {Text: "ok"}},
	}
	a, _ := newTestAssistant(m, "key")

	_, err := a.Send(context.Background(), "s1", "first")
	require.NoError(t, err)
	_, err = a.Send(context.Background(), "s1", "second")
	require.NoError(t, err)

	assert.Len(t, m.requests[1].History, 1)
}

func TestClearingKeyFallsBackToDefault(t *testing.T) {
	a, _ := newTestAssistant(&scriptedModel{}, "server")
	a.SetAPIKey("s1", "mine")
	key, ok := a.APIKey("s1")
	assert.True(t, ok)
	assert.Equal(t, "mine", key)

	a.SetAPIKey("s1", "")
	key, ok = a.APIKey("s1")
	assert.True(t, ok)
	assert.Equal(t, "server", key)
}

func TestSystemInstructionEmbedsCatalog(t *testing.T) {
	s, err := SystemInstruction(testCatalog())
	require.NoError(t, err)
	assert.Contains(t, s, `"id":"S001"`)
	assert.Contains(t, s, "'productSearch' tool")
}

func TestEvictIdleSessions(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	a, _ := newTestAssistant(&scriptedModel{replies: []Reply{{Text: "Howdy!"}}}, "")
	a.now = func() time.Time { return now }

	a.SetAPIKey("idle", "k-idle")
	now = start.Add(time.Hour)
	a.SetAPIKey("active", "k-active")
	_, err := a.Send(context.Background(), "active", "hello")
	require.NoError(t, err)

	assert.Equal(t, 1, a.Evict(start.Add(time.Minute)))

	_, ok := a.APIKey("idle")
	assert.False(t, ok, "key of an evicted session is gone")
	key, ok := a.APIKey("active")
	assert.True(t, ok)
	assert.Equal(t, "k-active", key)
	assert.Len(t, a.Messages("active"), 3)
	assert.Len(t, a.Messages("idle"), 1, "evicted session starts over with the greeting")
}
