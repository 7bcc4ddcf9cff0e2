// Package assist provides stand-in clients for content generation and
// referral tracking. Both return canned results after a short delay so
// the API surface can be exercised before the real integrations land.
package assist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/craftline/craftline-backend/pkg/logger"
)

const mockDelay = 300 * time.Millisecond

// GenerateResult is the outcome of a content generation request.
type GenerateResult struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Content   string    `json:"content"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// ReferralResult is the outcome of a referral tracking request.
type ReferralResult struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Accepted   bool      `json:"accepted"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ContentClient generates descriptive content for catalog entries.
type ContentClient struct {
	logger *logger.Logger
}

// NewContentClient creates a new content client
func NewContentClient(log *logger.Logger) *ContentClient {
	return &ContentClient{logger: log}
}

// Generate returns mock content for the prompt. Honors context
// cancellation during the simulated call.
func (c *ContentClient) Generate(ctx context.Context, prompt string) (*GenerateResult, error) {
	select {
	case <-time.After(mockDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	result := &GenerateResult{
		ID:        uuid.New().String(),
		Prompt:    prompt,
		Content:   fmt.Sprintf("Generated description for %q. Replace with a live integration.", prompt),
		Model:     "mock-v1",
		CreatedAt: time.Now().UTC(),
	}

	c.logger.Debug().Str("result_id", result.ID).Msg("generated mock content")
	return result, nil
}

// ReferralClient records referral codes.
type ReferralClient struct {
	logger *logger.Logger
}

// NewReferralClient creates a new referral client
func NewReferralClient(log *logger.Logger) *ReferralClient {
	return &ReferralClient{logger: log}
}

// Track records a referral code. Always accepts in mock mode.
func (c *ReferralClient) Track(ctx context.Context, code string) (*ReferralResult, error) {
	select {
	case <-time.After(mockDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	result := &ReferralResult{
		ID:         uuid.New().String(),
		Code:       code,
		Accepted:   true,
		RecordedAt: time.Now().UTC(),
	}

	c.logger.Debug().Str("code", code).Msg("recorded mock referral")
	return result, nil
}
