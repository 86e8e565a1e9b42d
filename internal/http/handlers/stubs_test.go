package handlers

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mannyflugo/holiday-image-generation/internal/domain"
	"github.com/mannyflugo/holiday-image-generation/internal/storage"
)

type stubProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	order    []string
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func (s *stubProductRepo) Create(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	s.products[p.ID] = &copied
	s.order = append(s.order, p.ID)
	return nil
}

func (s *stubProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *stubProductRepo) ListByUser(ctx context.Context, userID string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, id := range s.order {
		if p, ok := s.products[id]; ok && p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubProductRepo) DeleteOwned(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.UserID != userID {
		return domain.ErrNotFoundOrUnauthorized
	}
	delete(s.products, id)
	return nil
}

type stubThemeRepo struct {
	mu     sync.Mutex
	themes []domain.Theme
}

func (s *stubThemeRepo) ListActive(ctx context.Context) ([]domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Theme
	for _, t := range s.themes {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubThemeRepo) GetActiveByName(ctx context.Context, name string) (*domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.themes {
		if t.Name == name && t.IsActive {
			copied := t
			return &copied, nil
		}
	}
	return nil, domain.ErrThemeNotFound
}

func (s *stubThemeRepo) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.themes), nil
}

func (s *stubThemeRepo) InsertAll(ctx context.Context, themes []domain.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes = append(s.themes, themes...)
	return nil
}

type stubGenerationRepo struct {
	mu          sync.Mutex
	generations map[string]*domain.Generation
	seq         int
}

func newStubGenerationRepo() *stubGenerationRepo {
	return &stubGenerationRepo{generations: make(map[string]*domain.Generation)}
}

func (s *stubGenerationRepo) Create(ctx context.Context, g *domain.Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *g
	s.seq++
	copied.CreatedAt = time.Unix(int64(s.seq), 0)
	s.generations[g.ID] = &copied
	return nil
}

func (s *stubGenerationRepo) GetByID(ctx context.Context, id string) (*domain.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.generations[id]
	if !ok {
		return nil, domain.ErrGenerationNotFound
	}
	copied := *g
	return &copied, nil
}

func (s *stubGenerationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Generation
	for _, g := range s.generations {
		if g.UserID == userID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *stubGenerationRepo) ClaimNextPending(ctx context.Context) (string, error) {
	return "", domain.ErrNotFound
}

func (s *stubGenerationRepo) MarkProcessing(ctx context.Context, id string) error {
	return s.setStatus(id, domain.GenerationStatusProcessing)
}

func (s *stubGenerationRepo) MarkCompleted(ctx context.Context, id, resultImageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.generations[id]; ok {
		g.Status = domain.GenerationStatusCompleted
		g.ResultImageID = resultImageID
	}
	return nil
}

func (s *stubGenerationRepo) MarkFailed(ctx context.Context, id, errorMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.generations[id]; ok {
		g.Status = domain.GenerationStatusFailed
		g.ErrorMessage = errorMessage
	}
	return nil
}

func (s *stubGenerationRepo) setStatus(id string, status domain.GenerationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.generations[id]; ok {
		g.Status = status
	}
	return nil
}

type testApp struct {
	app         *App
	products    *stubProductRepo
	themes      *stubThemeRepo
	generations *stubGenerationRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	blobs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	const baseURL = "http://storage.local"
	products := newStubProductRepo()
	themes := &stubThemeRepo{}
	generations := newStubGenerationRepo()
	app := NewApp(
		zerolog.Nop(),
		products,
		themes,
		generations,
		blobs,
		storage.NewClient(storage.ClientOptions{BaseURL: baseURL}),
		baseURL,
	)
	return &testApp{app: app, products: products, themes: themes, generations: generations}
}
