/**
 * @description
 * This file contains the generation service for the studio-service. It wraps
 * the generative backend behind one uniform contract covering the text and
 * image capabilities: account-health suggestions, trend reports, post
 * scripts, and still images. Each invocation makes exactly one backend call;
 * failures surface directly to the caller with no automatic retry.
 *
 * Key features:
 * - Niche-tailored prompt templates for every capability.
 * - Local validation of free-text prompts before any backend call.
 * - Citation filtering: grounding entries without a usable URI are dropped.
 * - Image results become self-contained data: URIs; a successful response
 *   with no image data is a failure, not an empty success.
 *
 * @dependencies
 * - context, fmt, strings: Standard Go libraries.
 * - internal/domain: For result models and the error taxonomy.
 * - pkg/geminiclient: For the backend response types.
 */

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/myhandle/studio-service/internal/domain"
	"github.com/myhandle/studio-service/pkg/geminiclient"
)

// GenerativeBackend is the narrow contract the generation services need from
// the backend client. *geminiclient.Client satisfies it.
type GenerativeBackend interface {
	GenerateText(ctx context.Context, model, prompt string, webGrounding bool) (*geminiclient.TextResponse, error)
	GenerateImage(ctx context.Context, model, prompt string) (*geminiclient.InlineImage, error)
	SubmitVideo(ctx context.Context, credential, model, prompt, resolution string, aspectRatio domain.AspectRatio) (domain.VideoJobHandle, error)
	PollVideo(ctx context.Context, credential string, handle domain.VideoJobHandle) (domain.VideoJobHandle, error)
	FetchContent(ctx context.Context, credential, uri string) ([]byte, string, error)
}

// GenerationModels names the backend models each capability targets.
type GenerationModels struct {
	Text  string
	Image string
	Video string
}

// GenerationService implements the text and image generation capabilities.
type GenerationService struct {
	backend GenerativeBackend
	models  GenerationModels
}

// NewGenerationService creates a generation service.
func NewGenerationService(backend GenerativeBackend, models GenerationModels) *GenerationService {
	return &GenerationService{backend: backend, models: models}
}

// AccountSuggestions produces a web-grounded account-health report for the
// given account.
func (s *GenerationService) AccountSuggestions(ctx context.Context, account domain.Account) (*domain.TextResult, error) {
	prompt := fmt.Sprintf(`Act as an expert Instagram growth strategist. My Instagram username is "@%s" and my niche is "%s". Analyze my account (hypothetically, based on common patterns for this niche) and provide a list of actionable suggestions for improvement. Cover these areas:
1.  **Bio Optimization:** Suggest a revised bio with a clear value proposition, call-to-action, and relevant keywords.
2.  **Content Strategy:** Suggest 3 specific content pillars or series ideas that would perform well in this niche.
3.  **Visual Branding:** Recommend improvements to my visual aesthetic (e.g., color palette, photo style, feed layout).
4.  **Engagement Tactics:** Suggest 2-3 ways I can increase engagement with my followers.
Format the output as clean, well-structured markdown.`, account.Username, account.Niche)

	return s.generateGroundedText(ctx, "account suggestions", prompt)
}

// TrendSuggestions produces a web-grounded trend report for the account's niche.
func (s *GenerationService) TrendSuggestions(ctx context.Context, account domain.Account) (*domain.TextResult, error) {
	prompt := fmt.Sprintf(`Analyze the latest Instagram trends for reels and posts, specifically for a content creator in the "%s" niche. Provide 3-5 concrete, actionable ideas. For each idea, specify if it's for a "Reel" or a "Post". Describe the concept, suggest relevant trending audio or music, and list currently trending hashtags. Format the output as clean markdown.`, account.Niche)

	return s.generateGroundedText(ctx, "trend suggestions", prompt)
}

// GenerateScript writes a post script about the given topic, tailored to the
// account's niche. The topic must be non-empty after trimming.
func (s *GenerationService) GenerateScript(ctx context.Context, account domain.Account, topic string) (*domain.TextResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, &domain.ValidationError{Field: "prompt", Reason: "must not be empty"}
	}

	prompt := fmt.Sprintf(`As an expert social media manager for the "%s" niche, write an engaging Instagram post script about "%s". Keep it concise, use emojis relevant to the niche, and include relevant trending hashtags.`, account.Niche, topic)

	return s.generateGroundedText(ctx, "script", prompt)
}

// GeneratePhoto produces a single still image for the given subject, returned
// as a self-contained data: URI.
func (s *GenerationService) GeneratePhoto(ctx context.Context, account domain.Account, subject string) (*domain.ImageResult, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, &domain.ValidationError{Field: "prompt", Reason: "must not be empty"}
	}

	prompt := fmt.Sprintf(`Create a hyper-realistic photo for an Instagram post about "%s". The style should be perfect for a creator in the "%s" niche.`, subject, account.Niche)

	img, err := s.backend.GenerateImage(ctx, s.models.Image, prompt)
	if err != nil {
		return nil, &domain.BackendError{Operation: "image generation", Err: err}
	}
	if img == nil || img.Data == "" {
		return nil, domain.ErrNoImage
	}

	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return &domain.ImageResult{
		ImageDataURI: fmt.Sprintf("data:%s;base64,%s", mimeType, img.Data),
	}, nil
}

func (s *GenerationService) generateGroundedText(ctx context.Context, operation, prompt string) (*domain.TextResult, error) {
	resp, err := s.backend.GenerateText(ctx, s.models.Text, prompt, true)
	if err != nil {
		return nil, &domain.BackendError{Operation: operation, Err: err}
	}
	return &domain.TextResult{
		Text:      resp.Text,
		Citations: filterCitations(resp.Citations),
	}, nil
}

// filterCitations drops grounding entries without a usable URI. Citations are
// informational only and never affect success or failure.
func filterCitations(in []domain.Citation) []domain.Citation {
	out := make([]domain.Citation, 0, len(in))
	for _, c := range in {
		if strings.TrimSpace(c.URI) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
