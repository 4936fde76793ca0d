/**
 * @description
 * This file contains the asynchronous video generation service, the one
 * multi-step protocol in the studio-service: submit a long-running job, poll
 * it on a fixed cadence until done, resolve the result URI, then download the
 * binary content with the session credential.
 *
 * Key features:
 * - One in-flight job per process: overlapping submits are rejected instead
 *   of racing two poll loops.
 * - Bounded polling: a configurable attempt limit replaces the unbounded loop
 *   an unresponsive backend would otherwise hang on.
 * - Context-aware waits: a cancelled request stops the loop at the next tick.
 * - Credential lifecycle: the recognized invalid-credential signature clears
 *   the stored credential so the caller must re-acquire one.
 *
 * @dependencies
 * - context, fmt, log, strings, sync/atomic, time: Standard Go libraries.
 * - github.com/google/uuid: For event identifiers.
 * - internal/domain: For models and the error taxonomy.
 * - pkg/geminiclient: For invalid-credential classification.
 * - pkg/rabbitmq: For the completion event.
 */

package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/myhandle/studio-service/internal/domain"
	"github.com/myhandle/studio-service/pkg/geminiclient"
	"github.com/myhandle/studio-service/pkg/rabbitmq"
)

// VideoService runs the submit/poll/fetch protocol for video generation.
type VideoService struct {
	backend       GenerativeBackend
	credentials   *CredentialManager
	eventProducer *rabbitmq.EventProducer
	eventExchange string

	model           string
	resolution      string
	pollInterval    time.Duration
	maxPollAttempts int

	busy atomic.Bool
}

// VideoServiceOptions configures a VideoService.
type VideoServiceOptions struct {
	Model           string
	Resolution      string
	PollInterval    time.Duration
	MaxPollAttempts int
	EventExchange   string
}

// NewVideoService creates a video service. producer may be nil.
func NewVideoService(backend GenerativeBackend, credentials *CredentialManager, producer *rabbitmq.EventProducer, opts VideoServiceOptions) *VideoService {
	return &VideoService{
		backend:         backend,
		credentials:     credentials,
		eventProducer:   producer,
		eventExchange:   opts.EventExchange,
		model:           opts.Model,
		resolution:      opts.Resolution,
		pollInterval:    opts.PollInterval,
		maxPollAttempts: opts.MaxPollAttempts,
	}
}

// GenerateVideo runs one complete video job for the given account and returns
// the downloaded content. Within one invocation the submit strictly precedes
// every poll and polls never overlap.
func (s *VideoService) GenerateVideo(ctx context.Context, account domain.Account, prompt string, aspectRatio domain.AspectRatio) (*domain.VideoResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, &domain.ValidationError{Field: "prompt", Reason: "must not be empty"}
	}

	credential := s.credentials.Get()
	if credential == "" {
		return nil, domain.ErrNoCredential
	}

	if !s.busy.CompareAndSwap(false, true) {
		return nil, domain.ErrVideoJobInFlight
	}
	defer s.busy.Store(false)

	tailored := fmt.Sprintf(`%s. The video's aesthetic should be tailored for a high-end content creator in the "%s" niche.`, prompt, account.Niche)

	handle, err := s.backend.SubmitVideo(ctx, credential, s.model, tailored, s.resolution, aspectRatio)
	if err != nil {
		return nil, s.classify("video submit", err)
	}
	log.Printf("level=info component=video msg=\"job submitted\" operation=%s aspect_ratio=%s", handle.OperationName, aspectRatio)

	handle, polls, err := s.pollUntilDone(ctx, credential, handle)
	if err != nil {
		return nil, err
	}
	log.Printf("level=info component=video msg=\"job completed\" operation=%s polls=%d", handle.OperationName, polls)

	if handle.ResultURI == "" {
		return nil, domain.ErrNoVideoURI
	}

	data, mimeType, err := s.backend.FetchContent(ctx, credential, handle.ResultURI)
	if err != nil {
		return nil, &domain.FetchError{URI: handle.ResultURI, Err: err}
	}

	s.publishGenerated(ctx, account, aspectRatio, len(data))
	return &domain.VideoResult{
		Data:      data,
		MIMEType:  mimeType,
		SourceURI: handle.ResultURI,
	}, nil
}

// pollUntilDone refreshes the handle on the configured cadence until it
// reports done, the attempt limit is reached, or the context is cancelled.
// A handle that is already done polls zero times.
func (s *VideoService) pollUntilDone(ctx context.Context, credential string, handle domain.VideoJobHandle) (domain.VideoJobHandle, int, error) {
	polls := 0
	for !handle.Done {
		if polls >= s.maxPollAttempts {
			return handle, polls, domain.ErrVideoDeadlineExceeded
		}
		if err := s.wait(ctx); err != nil {
			return handle, polls, err
		}

		refreshed, err := s.backend.PollVideo(ctx, credential, handle)
		polls++
		if err != nil {
			return handle, polls, s.classify("video poll", err)
		}
		handle = refreshed
	}
	return handle, polls, nil
}

func (s *VideoService) wait(ctx context.Context) error {
	timer := time.NewTimer(s.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// classify maps a backend failure onto the error taxonomy. The recognized
// invalid-credential signatures additionally reset the session credential.
func (s *VideoService) classify(operation string, err error) error {
	if geminiclient.IsInvalidCredential(err) {
		s.credentials.Clear()
		log.Printf("level=warn component=video msg=\"credential rejected by backend; cleared\" operation=%q", operation)
		return fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	return &domain.BackendError{Operation: operation, Err: err}
}

func (s *VideoService) publishGenerated(ctx context.Context, account domain.Account, aspectRatio domain.AspectRatio, sizeBytes int) {
	event := domain.VideoGeneratedEvent{
		EventID:     uuid.NewString(),
		AccountID:   account.ID,
		Niche:       account.Niche,
		AspectRatio: string(aspectRatio),
		SizeBytes:   sizeBytes,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.eventProducer.Publish(ctx, s.eventExchange, "studio.video.generated", event); err != nil {
		log.Printf("level=warn component=video msg=\"event publish failed\" err=%v", err)
	}
}
