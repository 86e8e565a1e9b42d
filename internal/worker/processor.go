// Package worker executes generation jobs: it resolves a job's product
// images, calls the image-generation API, stores the produced image, and
// writes exactly one terminal status per job.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/mannyflugo/holiday-image-generation/internal/domain"
)

// ImageGenerator produces a result image URL from a prompt and input images.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, imageURLs []string) (string, error)
}

// BlobStore is the storage collaborator used to persist the result image
// and to resolve product image references to display URLs.
type BlobStore interface {
	IssueUploadURL(ctx context.Context) (string, error)
	Upload(ctx context.Context, uploadURL, contentType string, data []byte) (string, error)
	ResolveURL(ref string) string
}

// Processor runs one generation job per invocation. There is no retry: any
// failure inside run is folded into a terminal failed status with the
// failure's message stored on the record.
type Processor struct {
	generations domain.GenerationRepository
	products    domain.ProductRepository
	generator   ImageGenerator
	blobs       BlobStore
	httpClient  *http.Client
	logger      zerolog.Logger
}

func NewProcessor(
	generations domain.GenerationRepository,
	products domain.ProductRepository,
	generator ImageGenerator,
	blobs BlobStore,
	httpClient *http.Client,
	logger zerolog.Logger,
) *Processor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Processor{
		generations: generations,
		products:    products,
		generator:   generator,
		blobs:       blobs,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// Process advances the generation to processing, runs the pipeline, and
// records the terminal outcome. It never returns an error to the caller;
// failures live on the generation record.
func (p *Processor) Process(ctx context.Context, generationID string) {
	if err := p.generations.MarkProcessing(ctx, generationID); err != nil {
		p.logger.Error().Err(err).Str("generation_id", generationID).Msg("worker: mark processing failed")
	}

	if err := p.run(ctx, generationID); err != nil {
		message := err.Error()
		if message == "" {
			message = "Unknown error"
		}
		if markErr := p.generations.MarkFailed(ctx, generationID, message); markErr != nil {
			p.logger.Error().Err(markErr).Str("generation_id", generationID).Msg("worker: mark failed failed")
		}
		p.logger.Error().Err(err).Str("generation_id", generationID).Msg("worker: generation failed")
		return
	}
	p.logger.Info().Str("generation_id", generationID).Msg("worker: generation completed")
}

func (p *Processor) run(ctx context.Context, generationID string) error {
	generation, err := p.generations.GetByID(ctx, generationID)
	if err != nil {
		return err
	}

	// Products deleted since creation, or products whose image reference no
	// longer resolves, are skipped rather than failing the whole job.
	var imageURLs []string
	for _, productID := range generation.ProductIDs {
		product, err := p.products.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return err
		}
		if url := p.blobs.ResolveURL(product.ImageID); url != "" {
			imageURLs = append(imageURLs, url)
		}
	}
	if len(imageURLs) == 0 {
		return domain.ErrNoProductImages
	}

	resultURL, err := p.generator.Generate(ctx, generation.Prompt, imageURLs)
	if err != nil {
		return err
	}

	data, err := p.download(ctx, resultURL)
	if err != nil {
		return err
	}

	uploadURL, err := p.blobs.IssueUploadURL(ctx)
	if err != nil {
		return fmt.Errorf("failed to upload generated image: %w", err)
	}
	storageID, err := p.blobs.Upload(ctx, uploadURL, "image/jpeg", data)
	if err != nil {
		return fmt.Errorf("failed to upload generated image: %w", err)
	}

	return p.generations.MarkCompleted(ctx, generation.ID, storageID)
}

func (p *Processor) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch generated image: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch generated image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch generated image: %w", domain.ErrDownloadFailed)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch generated image: %w", err)
	}
	return data, nil
}
