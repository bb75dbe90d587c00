package articleinfra

import (
	"context"
	"sort"
	"sync"

	"github.com/Abraxas-365/aiwriter/pkg/article"
)

// MemoryStore keeps articles in process memory. Records are cloned on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	articles map[string]*article.Article
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		articles: make(map[string]*article.Article),
	}
}

var _ article.Repository = (*MemoryStore)(nil)

func (s *MemoryStore) Create(_ context.Context, a *article.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[a.ID]; ok {
		return article.ErrDuplicateID(a.ID)
	}
	s.articles[a.ID] = a.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*article.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, article.ErrNotFound(id)
	}
	return a.Clone(), nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, update article.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.articles[id]
	if !ok {
		return article.ErrNotFound(id)
	}
	next := current.Clone()
	if err := update.Apply(next); err != nil {
		return err
	}
	s.articles[id] = next
	return nil
}

func (s *MemoryStore) SaveContent(_ context.Context, id string, content article.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.articles[id]
	if !ok {
		return article.ErrNotFound(id)
	}
	if current.Status != article.StatusCompleted {
		return article.ErrNotReady(id, current.Status)
	}
	next := current.Clone()
	content.Images = append([]string(nil), content.Images...)
	next.Content = &content
	s.articles[id] = next
	return nil
}

func (s *MemoryStore) List(_ context.Context, filter article.ListFilter) ([]*article.Article, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*article.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		items = append(items, a)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	total := len(items)
	start := filter.Offset()
	if start >= total {
		return []*article.Article{}, total, nil
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}

	out := make([]*article.Article, 0, end-start)
	for _, a := range items[start:end] {
		out = append(out, a.Clone())
	}
	return out, total, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.articles, id)
	return nil
}

func (s *MemoryStore) FailStale(_ context.Context, reason string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, a := range s.articles {
		if a.Status.IsTerminal() {
			continue
		}
		next := a.Clone()
		if err := article.Fail(reason).Apply(next); err != nil {
			return n, err
		}
		s.articles[id] = next
		n++
	}
	return n, nil
}
