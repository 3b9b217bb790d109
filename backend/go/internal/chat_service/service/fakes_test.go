package service

import (
	"context"
	"errors"
	"sync"

	"Jaffer/backend/go/internal/models"
)

// recorder keeps the order in which collaborators were called.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeLocal struct {
	raw string
	err error
	rec *recorder
}

func (f *fakeLocal) Query(ctx context.Context, message string) (string, error) {
	f.rec.add("local")
	return f.raw, f.err
}

type fakeSearcher struct {
	snippet     string
	err         error
	unavailable bool
	rec         *recorder

	mu      sync.Mutex
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (string, error) {
	f.rec.add("search")
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.snippet, f.err
}

func (f *fakeSearcher) Available() bool { return !f.unavailable }

type fakeModel struct {
	reply string
	err   error
	rec   *recorder

	mu       sync.Mutex
	requests []*models.GenerateContentRequest
}

func (f *fakeModel) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	f.rec.add("model")
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &models.GenerateContentResponse{Content: []models.Content{models.NewTextContent(models.SpeakerModel, f.reply)}}, nil
}

func (f *fakeModel) lastRequest() *models.GenerateContentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// memStore is an in-memory ProfileStore and HistoryStore.
type memStore struct {
	mu      sync.Mutex
	profile map[string]string
	turns   []models.ConversationTurn
	err     error
}

func (m *memStore) GetValue(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.profile[key]
	return v, ok, nil
}

func (m *memStore) All(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]string, len(m.profile))
	for k, v := range m.profile {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) AppendExchange(ctx context.Context, userMessage, reply string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.turns = append(m.turns,
		models.ConversationTurn{ID: uint(len(m.turns) + 1), Role: models.SpeakerUser, Content: userMessage},
		models.ConversationTurn{ID: uint(len(m.turns) + 2), Role: models.SpeakerBot, Content: reply},
	)
	return nil
}

func (m *memStore) RecentUserMessages(ctx context.Context, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []string
	for i := len(m.turns) - 1; i >= 0 && len(out) < limit; i-- {
		if m.turns[i].Role == models.SpeakerUser {
			out = append(out, m.turns[i].Content)
		}
	}
	return out, nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.turns = nil
	return nil
}

func (m *memStore) turnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.ExchangeEvent
	err    error
}

func (f *fakePublisher) PublishExchange(ctx context.Context, event models.ExchangeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

var errBoom = errors.New("boom")
