package assistant

import (
	"context"
	"errors"
	"strings"
)

// ErrAPIKey is returned by models when the API key is missing or rejected.
var ErrAPIKey = errors.New("api key missing or not valid")

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type FunctionCall struct {
	ID   string
	Name string
	Args map[string]any
}

type FunctionResponse struct {
	ID       string
	Name     string
	Response map[string]any
}

// Turn is one entry of the conversation sent to a model. Exactly one of
// Text, Call or Response is meaningful. Raw carries the provider's own
// encoding of a model turn so it can be replayed unchanged.
type Turn struct {
	Role     Role
	Text     string
	Call     *FunctionCall
	Response *FunctionResponse
	Raw      any
}

type Request struct {
	System  string
	History []Turn
}

type Reply struct {
	Text  string
	Calls []FunctionCall
	Raw   any
}

// Turn converts the reply into the history entry that records it.
func (r Reply) Turn() Turn {
	t := Turn{Role: RoleModel, Text: r.Text, Raw: r.Raw}
	if len(r.Calls) > 0 {
		c := r.Calls[0]
		t.Call = &c
	}
	return t
}

// Model is a chat completion backend able to call the productSearch tool.
type Model interface {
	Send(ctx context.Context, req Request) (Reply, error)
}

// Dialer builds a Model bound to an API key.
type Dialer func(ctx context.Context, apiKey string) (Model, error)

func isAPIKeyError(err error) bool {
	return errors.Is(err, ErrAPIKey) || strings.Contains(err.Error(), "API key not valid")
}
