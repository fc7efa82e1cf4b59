// Package assistant runs the AI shopping-assistant chat: one model request per
// user message, plus one follow-up when the model asks for a product search.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/catalog"
	"github.com/drstein77/storefront/internal/models"
)

var ErrEmptyMessage = errors.New("message is empty")

type Log interface {
	Info(string, ...zap.Field)
	Warn(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// Catalog is the product source the assistant answers from.
type Catalog interface {
	GetAllProducts(context.Context) ([]models.Product, error)
}

type chat struct {
	mx       sync.Mutex
	messages []models.ChatMessage
	history  []Turn
	model    Model
	modelKey string
	seen     time.Time
}

func newChat() *chat {
	return &chat{messages: []models.ChatMessage{{Sender: models.SenderBot, Text: Greeting}}}
}

type Assistant struct {
	catalog    Catalog
	dial       Dialer
	defaultKey string
	log        Log

	mx    sync.Mutex
	keys  map[string]string
	chats map[string]*chat
	now   func() time.Time
}

// New creates the assistant. defaultKey, when set, serves sessions that have
// not supplied their own key.
func New(cat Catalog, dial Dialer, defaultKey string, log Log) *Assistant {
	return &Assistant{
		catalog:    cat,
		dial:       dial,
		defaultKey: defaultKey,
		log:        log,
		keys:       make(map[string]string),
		chats:      make(map[string]*chat),
		now:        time.Now,
	}
}

// SetAPIKey stores the session's key; an empty key clears it.
func (a *Assistant) SetAPIKey(session, key string) {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.touchLocked(session)
	key = strings.TrimSpace(key)
	if key == "" {
		delete(a.keys, session)
		return
	}
	a.keys[session] = key
}

// APIKey returns the key used for the session and whether one is set.
func (a *Assistant) APIKey(session string) (string, bool) {
	a.mx.Lock()
	defer a.mx.Unlock()
	return a.keyLocked(session)
}

func (a *Assistant) keyLocked(session string) (string, bool) {
	if k, ok := a.keys[session]; ok {
		return k, true
	}
	return a.defaultKey, a.defaultKey != ""
}

// touchLocked returns the session's chat, creating it when absent, and marks
// it as seen. a.mx must be held.
func (a *Assistant) touchLocked(session string) *chat {
	c, ok := a.chats[session]
	if !ok {
		c = newChat()
		a.chats[session] = c
	}
	c.seen = a.now()
	return c
}

func (a *Assistant) chatFor(session string) (*chat, string, bool) {
	a.mx.Lock()
	defer a.mx.Unlock()

	c := a.touchLocked(session)
	key, hasKey := a.keyLocked(session)
	return c, key, hasKey
}

// Evict drops the chats and keys of sessions last seen before the given time
// and returns how many sessions went.
func (a *Assistant) Evict(before time.Time) int {
	a.mx.Lock()
	defer a.mx.Unlock()

	n := 0
	for id, c := range a.chats {
		if c.seen.Before(before) {
			delete(a.chats, id)
			delete(a.keys, id)
			n++
		}
	}
	return n
}

// Messages is the transcript of the session, greeting first.
func (a *Assistant) Messages(session string) []models.ChatMessage {
	c, _, _ := a.chatFor(session)
	c.mx.Lock()
	defer c.mx.Unlock()
	return slices.Clone(c.messages)
}

// Send posts a user message and returns the bot's answer. Model failures are
// turned into bot messages rather than errors.
func (a *Assistant) Send(ctx context.Context, session, text string) (models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}

	c, key, hasKey := a.chatFor(session)
	c.mx.Lock()
	defer c.mx.Unlock()

	c.messages = append(c.messages, models.ChatMessage{Sender: models.SenderUser, Text: text})

	reply, err := a.exchange(ctx, c, key, hasKey, text)
	if err != nil {
		a.log.Error("assistant request failed", zap.String("session", session), zap.Error(err))
		reply = models.ChatMessage{Sender: models.SenderBot, Text: genericFailure}
		if isAPIKeyError(err) {
			reply = models.ChatMessage{Sender: models.SenderBot, Text: apiKeyProblem, IsAPIKeyError: true}
		}
	}
	c.messages = append(c.messages, reply)
	return reply, nil
}

func (a *Assistant) exchange(ctx context.Context, c *chat, key string, hasKey bool, text string) (models.ChatMessage, error) {
	if !hasKey {
		return models.ChatMessage{}, fmt.Errorf("chat session not initialized: %w", ErrAPIKey)
	}
	if c.model == nil || c.modelKey != key {
		m, err := a.dial(ctx, key)
		if err != nil {
			return models.ChatMessage{}, fmt.Errorf("dial model: %w", err)
		}
		// a new key starts a new conversation
		c.model, c.modelKey, c.history = m, key, nil
	}

	products, err := a.catalog.GetAllProducts(ctx)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("load catalog: %w", err)
	}
	system, err := SystemInstruction(products)
	if err != nil {
		return models.ChatMessage{}, err
	}

	history := append(slices.Clone(c.history), Turn{Role: RoleUser, Text: text})
	first, err := c.model.Send(ctx, Request{System: system, History: history})
	if err != nil {
		return models.ChatMessage{}, err
	}
	history = append(history, first.Turn())

	if len(first.Calls) == 0 || first.Calls[0].Name != ProductSearchTool {
		c.history = history
		return models.ChatMessage{Sender: models.SenderBot, Text: first.Text}, nil
	}

	call := first.Calls[0]
	query := cast.ToString(call.Args["query"])
	hits := catalog.AssistantSearch(products, query)
	a.log.Info("assistant product search", zap.String("query", query), zap.Int("hits", len(hits)))

	result, err := searchResult(hits)
	if err != nil {
		return models.ChatMessage{}, err
	}
	history = append(history, Turn{
		Role:     RoleUser,
		Response: &FunctionResponse{ID: call.ID, Name: call.Name, Response: result},
	})

	final, err := c.model.Send(ctx, Request{System: system, History: history})
	if err != nil {
		return models.ChatMessage{}, err
	}
	c.history = append(history, final.Turn())

	if len(hits) > MaxSuggestedProducts {
		hits = hits[:MaxSuggestedProducts]
	}
	return models.ChatMessage{Sender: models.SenderBot, Text: final.Text, Products: hits}, nil
}
