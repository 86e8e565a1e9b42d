package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mannyflugo/holiday-image-generation/internal/domain"
)

type stubGenerations struct {
	mu          sync.Mutex
	generations map[string]*domain.Generation
	transitions []domain.GenerationStatus
}

func newStubGenerations(generations ...*domain.Generation) *stubGenerations {
	s := &stubGenerations{generations: make(map[string]*domain.Generation)}
	for _, g := range generations {
		s.generations[g.ID] = g
	}
	return s
}

func (s *stubGenerations) Create(ctx context.Context, g *domain.Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[g.ID] = g
	return nil
}

func (s *stubGenerations) GetByID(ctx context.Context, id string) (*domain.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.generations[id]
	if !ok {
		return nil, domain.ErrGenerationNotFound
	}
	copied := *g
	return &copied, nil
}

func (s *stubGenerations) ListByUser(ctx context.Context, userID string) ([]domain.Generation, error) {
	return nil, nil
}

func (s *stubGenerations) ClaimNextPending(ctx context.Context) (string, error) {
	return "", domain.ErrNotFound
}

func (s *stubGenerations) MarkProcessing(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.generations[id]; ok {
		g.Status = domain.GenerationStatusProcessing
	}
	s.transitions = append(s.transitions, domain.GenerationStatusProcessing)
	return nil
}

func (s *stubGenerations) MarkCompleted(ctx context.Context, id, resultImageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.generations[id]
	if !ok {
		return domain.ErrGenerationNotFound
	}
	g.Status = domain.GenerationStatusCompleted
	g.ResultImageID = resultImageID
	s.transitions = append(s.transitions, domain.GenerationStatusCompleted)
	return nil
}

func (s *stubGenerations) MarkFailed(ctx context.Context, id, errorMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.generations[id]; ok {
		g.Status = domain.GenerationStatusFailed
		g.ErrorMessage = errorMessage
	}
	s.transitions = append(s.transitions, domain.GenerationStatusFailed)
	return nil
}

type stubProducts struct {
	products map[string]*domain.Product
}

func (s *stubProducts) Create(ctx context.Context, p *domain.Product) error { return nil }

func (s *stubProducts) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubProducts) ListByUser(ctx context.Context, userID string) ([]domain.Product, error) {
	return nil, nil
}

func (s *stubProducts) DeleteOwned(ctx context.Context, userID, id string) error { return nil }

type stubGenerator struct {
	result string
	err    error
	inputs []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, imageURLs []string) (string, error) {
	s.inputs = imageURLs
	if s.err != nil {
		return "", s.err
	}
	return s.result, nil
}

type stubBlobs struct {
	resolve   func(ref string) string
	uploadID  string
	uploadErr error
}

func (s *stubBlobs) IssueUploadURL(ctx context.Context) (string, error) {
	return "http://storage.local/v1/storage/upload/token", nil
}

func (s *stubBlobs) Upload(ctx context.Context, uploadURL, contentType string, data []byte) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return s.uploadID, nil
}

func (s *stubBlobs) ResolveURL(ref string) string {
	if s.resolve != nil {
		return s.resolve(ref)
	}
	return "http://storage.local/v1/storage/" + ref
}

func testGeneration() *domain.Generation {
	return &domain.Generation{
		ID:         "gen-1",
		UserID:     "user-1",
		ProductIDs: []string{"prod-1"},
		Theme:      "Christmas Bundle",
		Style:      "holiday-theme",
		Prompt:     "a festive prompt",
		Status:     domain.GenerationStatusPending,
	}
}

func testProducts() *stubProducts {
	return &stubProducts{products: map[string]*domain.Product{
		"prod-1": {ID: "prod-1", UserID: "user-1", ImageID: "img-1"},
	}}
}

func TestProcessCompletesGeneration(t *testing.T) {
	resultServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer resultServer.Close()

	generations := newStubGenerations(testGeneration())
	generator := &stubGenerator{result: resultServer.URL + "/result.jpg"}
	blobs := &stubBlobs{uploadID: "storage-123"}

	p := NewProcessor(generations, testProducts(), generator, blobs, resultServer.Client(), zerolog.Nop())
	p.Process(context.Background(), "gen-1")

	g := generations.generations["gen-1"]
	if g.Status != domain.GenerationStatusCompleted {
		t.Fatalf("status = %s, want completed (error: %q)", g.Status, g.ErrorMessage)
	}
	if g.ResultImageID != "storage-123" {
		t.Fatalf("ResultImageID = %q, want storage-123", g.ResultImageID)
	}
	if g.ErrorMessage != "" {
		t.Fatalf("ErrorMessage should be empty, got %q", g.ErrorMessage)
	}
	want := []domain.GenerationStatus{domain.GenerationStatusProcessing, domain.GenerationStatusCompleted}
	if len(generations.transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", generations.transitions, want)
	}
	for i := range want {
		if generations.transitions[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", generations.transitions, want)
		}
	}
}

func TestProcessGenerationNotFound(t *testing.T) {
	generations := newStubGenerations()
	// Insert a placeholder so the failure can be recorded.
	_ = generations.Create(context.Background(), &domain.Generation{ID: "missing"})
	delete(generations.generations, "missing")

	p := NewProcessor(generations, testProducts(), &stubGenerator{}, &stubBlobs{}, nil, zerolog.Nop())
	p.Process(context.Background(), "missing")

	last := generations.transitions[len(generations.transitions)-1]
	if last != domain.GenerationStatusFailed {
		t.Fatalf("final transition = %s, want failed", last)
	}
}

func TestProcessNoProductImages(t *testing.T) {
	generations := newStubGenerations(testGeneration())
	blobs := &stubBlobs{resolve: func(string) string { return "" }}

	p := NewProcessor(generations, testProducts(), &stubGenerator{}, blobs, nil, zerolog.Nop())
	p.Process(context.Background(), "gen-1")

	g := generations.generations["gen-1"]
	if g.Status != domain.GenerationStatusFailed {
		t.Fatalf("status = %s, want failed", g.Status)
	}
	if !strings.Contains(g.ErrorMessage, "no product images found") {
		t.Fatalf("ErrorMessage = %q, want no-product-images message", g.ErrorMessage)
	}
}

func TestProcessUnexpectedOutputFormat(t *testing.T) {
	generations := newStubGenerations(testGeneration())
	generator := &stubGenerator{err: fmt.Errorf("%w from Replicate API", domain.ErrUnexpectedResponseFormat)}

	p := NewProcessor(generations, testProducts(), generator, &stubBlobs{}, nil, zerolog.Nop())
	p.Process(context.Background(), "gen-1")

	g := generations.generations["gen-1"]
	if g.Status != domain.GenerationStatusFailed {
		t.Fatalf("status = %s, want failed", g.Status)
	}
	if !strings.Contains(g.ErrorMessage, "unexpected output format") {
		t.Fatalf("ErrorMessage = %q, want unexpected-output-format message", g.ErrorMessage)
	}
	if g.ResultImageID != "" {
		t.Fatalf("ResultImageID should stay empty on failure, got %q", g.ResultImageID)
	}
}

func TestProcessDownloadFailure(t *testing.T) {
	resultServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer resultServer.Close()

	generations := newStubGenerations(testGeneration())
	generator := &stubGenerator{result: resultServer.URL + "/result.jpg"}

	p := NewProcessor(generations, testProducts(), generator, &stubBlobs{}, resultServer.Client(), zerolog.Nop())
	p.Process(context.Background(), "gen-1")

	g := generations.generations["gen-1"]
	if g.Status != domain.GenerationStatusFailed {
		t.Fatalf("status = %s, want failed", g.Status)
	}
	if !strings.Contains(g.ErrorMessage, "failed to fetch generated image") {
		t.Fatalf("ErrorMessage = %q, want download failure message", g.ErrorMessage)
	}
}

func TestProcessUploadFailure(t *testing.T) {
	resultServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer resultServer.Close()

	generations := newStubGenerations(testGeneration())
	generator := &stubGenerator{result: resultServer.URL + "/result.jpg"}
	blobs := &stubBlobs{uploadErr: errors.New("destination rejected upload")}

	p := NewProcessor(generations, testProducts(), generator, blobs, resultServer.Client(), zerolog.Nop())
	p.Process(context.Background(), "gen-1")

	g := generations.generations["gen-1"]
	if g.Status != domain.GenerationStatusFailed {
		t.Fatalf("status = %s, want failed", g.Status)
	}
	if !strings.Contains(g.ErrorMessage, "failed to upload generated image") {
		t.Fatalf("ErrorMessage = %q, want upload failure message", g.ErrorMessage)
	}
}

func TestProcessSkipsUnresolvableProducts(t *testing.T) {
	resultServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer resultServer.Close()

	generation := testGeneration()
	generation.ProductIDs = []string{"deleted", "prod-1"}
	generations := newStubGenerations(generation)
	generator := &stubGenerator{result: resultServer.URL + "/result.jpg"}
	blobs := &stubBlobs{uploadID: "storage-456"}

	p := NewProcessor(generations, testProducts(), generator, blobs, resultServer.Client(), zerolog.Nop())
	p.Process(context.Background(), "gen-1")

	g := generations.generations["gen-1"]
	if g.Status != domain.GenerationStatusCompleted {
		t.Fatalf("status = %s, want completed (error: %q)", g.Status, g.ErrorMessage)
	}
	if len(generator.inputs) != 1 {
		t.Fatalf("generator received %d image urls, want 1 (deleted product skipped)", len(generator.inputs))
	}
}

func TestProcessEmptyErrorMessageFallsBack(t *testing.T) {
	generations := newStubGenerations(testGeneration())
	generator := &stubGenerator{err: errors.New("")}

	p := NewProcessor(generations, testProducts(), generator, &stubBlobs{}, nil, zerolog.Nop())
	p.Process(context.Background(), "gen-1")

	g := generations.generations["gen-1"]
	if g.Status != domain.GenerationStatusFailed {
		t.Fatalf("status = %s, want failed", g.Status)
	}
	if g.ErrorMessage != "Unknown error" {
		t.Fatalf("ErrorMessage = %q, want Unknown error", g.ErrorMessage)
	}
}
