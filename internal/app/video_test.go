package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/myhandle/studio-service/internal/domain"
)

func newTestVideoService(backend *fakeBackend, credentials *CredentialManager, maxAttempts int) *VideoService {
	return NewVideoService(backend, credentials, nil, VideoServiceOptions{
		Model:           "video-model",
		Resolution:      "720p",
		PollInterval:    time.Millisecond,
		MaxPollAttempts: maxAttempts,
		EventExchange:   "test.events",
	})
}

func credentialsWithKey(key string) *CredentialManager {
	m := NewCredentialManager()
	m.Set(key)
	return m
}

var testAccount = domain.Account{ID: "a-1", Username: "creator", Niche: "Travel"}

func TestGenerateVideo_PollsUntilDone(t *testing.T) {
	const pendingPolls = 3

	backend := &fakeBackend{
		submitFn: func(prompt string, aspectRatio domain.AspectRatio) (domain.VideoJobHandle, error) {
			if aspectRatio != domain.AspectPortrait {
				t.Fatalf("unexpected aspect ratio %q", aspectRatio)
			}
			return domain.VideoJobHandle{OperationName: "operations/job-1"}, nil
		},
		pollFn: func(call int, handle domain.VideoJobHandle) (domain.VideoJobHandle, error) {
			if call <= pendingPolls {
				return domain.VideoJobHandle{OperationName: handle.OperationName}, nil
			}
			return domain.VideoJobHandle{OperationName: handle.OperationName, Done: true, ResultURI: "https://files.example/video-1"}, nil
		},
		fetchFn: func(uri string) ([]byte, string, error) {
			if uri != "https://files.example/video-1" {
				t.Fatalf("expected fetch of the final handle's uri, got %q", uri)
			}
			return []byte("mp4-bytes"), "video/mp4", nil
		},
	}
	s := newTestVideoService(backend, credentialsWithKey("session-key"), 10)

	result, err := s.GenerateVideo(context.Background(), testAccount, "a drone shot of a fjord", domain.AspectPortrait)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.pollCalls != pendingPolls+1 {
		t.Fatalf("expected exactly %d poll calls, got %d", pendingPolls+1, backend.pollCalls)
	}
	if backend.fetchCalls != 1 {
		t.Fatalf("expected exactly one fetch, got %d", backend.fetchCalls)
	}
	if string(result.Data) != "mp4-bytes" || result.MIMEType != "video/mp4" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestGenerateVideo_SynchronousCompletionSkipsPolling(t *testing.T) {
	backend := &fakeBackend{
		submitFn: func(string, domain.AspectRatio) (domain.VideoJobHandle, error) {
			return domain.VideoJobHandle{OperationName: "operations/fast", Done: true, ResultURI: "https://files.example/fast"}, nil
		},
	}
	s := newTestVideoService(backend, credentialsWithKey("session-key"), 10)

	if _, err := s.GenerateVideo(context.Background(), testAccount, "quick clip", domain.AspectLandscape); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.pollCalls != 0 {
		t.Fatalf("expected zero polls for a synchronously done job, got %d", backend.pollCalls)
	}
}

func TestGenerateVideo_EmptyPromptValidation(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestVideoService(backend, credentialsWithKey("session-key"), 10)

	_, err := s.GenerateVideo(context.Background(), testAccount, "   ", domain.AspectPortrait)
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if backend.submitCalls != 0 {
		t.Fatalf("expected no submit for invalid prompt, got %d", backend.submitCalls)
	}
}

func TestGenerateVideo_RequiresCredential(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestVideoService(backend, NewCredentialManager(), 10)

	_, err := s.GenerateVideo(context.Background(), testAccount, "a clip", domain.AspectPortrait)
	if !errors.Is(err, domain.ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	if backend.submitCalls != 0 {
		t.Fatalf("expected no submit without a credential, got %d", backend.submitCalls)
	}
}

func TestGenerateVideo_ErrorClassification(t *testing.T) {
	tests := []struct {
		name            string
		backendErr      error
		wantInvalidCred bool
	}{
		{
			name:            "entity not found signature",
			backendErr:      errors.New("generative api error: status 404, body: Requested entity was not found."),
			wantInvalidCred: true,
		},
		{
			name:            "api key invalid signature",
			backendErr:      errors.New("generative api error: status 400, body: API key not valid. Please pass a valid API key."),
			wantInvalidCred: true,
		},
		{
			name:       "quota failure",
			backendErr: errors.New("generative api error: status 429, body: Resource has been exhausted"),
		},
		{
			name:       "server failure",
			backendErr: errors.New("generative api error: status 500, body: internal error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			credentials := credentialsWithKey("session-key")
			backend := &fakeBackend{
				pollFn: func(int, domain.VideoJobHandle) (domain.VideoJobHandle, error) {
					return domain.VideoJobHandle{}, tt.backendErr
				},
			}
			s := newTestVideoService(backend, credentials, 10)

			_, err := s.GenerateVideo(context.Background(), testAccount, "a clip", domain.AspectPortrait)
			if tt.wantInvalidCred {
				if !errors.Is(err, domain.ErrInvalidCredential) {
					t.Fatalf("expected ErrInvalidCredential, got %v", err)
				}
				if credentials.Has() {
					t.Fatal("expected credential cleared after invalid-credential failure")
				}
				return
			}

			var backendErr *domain.BackendError
			if !errors.As(err, &backendErr) {
				t.Fatalf("expected BackendError, got %v", err)
			}
			if !credentials.Has() {
				t.Fatal("expected credential retained after generic failure")
			}
		})
	}
}

func TestGenerateVideo_NoResultURIIsFailure(t *testing.T) {
	backend := &fakeBackend{
		pollFn: func(int, domain.VideoJobHandle) (domain.VideoJobHandle, error) {
			return domain.VideoJobHandle{OperationName: "operations/empty", Done: true}, nil
		},
	}
	s := newTestVideoService(backend, credentialsWithKey("session-key"), 10)

	_, err := s.GenerateVideo(context.Background(), testAccount, "a clip", domain.AspectPortrait)
	if !errors.Is(err, domain.ErrNoVideoURI) {
		t.Fatalf("expected ErrNoVideoURI, got %v", err)
	}
	if backend.fetchCalls != 0 {
		t.Fatalf("expected no fetch without a result uri, got %d", backend.fetchCalls)
	}
}

func TestGenerateVideo_FetchFailure(t *testing.T) {
	backend := &fakeBackend{
		submitFn: func(string, domain.AspectRatio) (domain.VideoJobHandle, error) {
			return domain.VideoJobHandle{OperationName: "operations/x", Done: true, ResultURI: "https://files.example/x"}, nil
		},
		fetchFn: func(string) ([]byte, string, error) {
			return nil, "", errors.New("connection reset")
		},
	}
	s := newTestVideoService(backend, credentialsWithKey("session-key"), 10)

	_, err := s.GenerateVideo(context.Background(), testAccount, "a clip", domain.AspectPortrait)
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}

func TestGenerateVideo_DeadlineBoundsPolling(t *testing.T) {
	const maxAttempts = 4
	backend := &fakeBackend{
		pollFn: func(_ int, handle domain.VideoJobHandle) (domain.VideoJobHandle, error) {
			// Never completes.
			return domain.VideoJobHandle{OperationName: handle.OperationName}, nil
		},
	}
	s := newTestVideoService(backend, credentialsWithKey("session-key"), maxAttempts)

	_, err := s.GenerateVideo(context.Background(), testAccount, "a clip", domain.AspectPortrait)
	if !errors.Is(err, domain.ErrVideoDeadlineExceeded) {
		t.Fatalf("expected ErrVideoDeadlineExceeded, got %v", err)
	}
	if backend.pollCalls != maxAttempts {
		t.Fatalf("expected polling to stop at %d attempts, got %d", maxAttempts, backend.pollCalls)
	}
}

func TestGenerateVideo_ContextCancellationStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	backend := &fakeBackend{
		pollFn: func(call int, handle domain.VideoJobHandle) (domain.VideoJobHandle, error) {
			if call == 2 {
				cancel()
			}
			return domain.VideoJobHandle{OperationName: handle.OperationName}, nil
		},
	}
	s := newTestVideoService(backend, credentialsWithKey("session-key"), 100)

	_, err := s.GenerateVideo(ctx, testAccount, "a clip", domain.AspectPortrait)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateVideo_RejectsOverlappingJobs(t *testing.T) {
	firstSubmitted := make(chan struct{})
	release := make(chan struct{})

	var submits int32
	backend := &fakeBackend{
		submitFn: func(string, domain.AspectRatio) (domain.VideoJobHandle, error) {
			if atomic.AddInt32(&submits, 1) == 1 {
				close(firstSubmitted)
				<-release
			}
			return domain.VideoJobHandle{OperationName: "operations/slow", Done: true, ResultURI: "https://files.example/slow"}, nil
		},
	}
	s := newTestVideoService(backend, credentialsWithKey("session-key"), 10)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = s.GenerateVideo(context.Background(), testAccount, "first job", domain.AspectPortrait)
	}()

	<-firstSubmitted
	_, err := s.GenerateVideo(context.Background(), testAccount, "second job", domain.AspectPortrait)
	if !errors.Is(err, domain.ErrVideoJobInFlight) {
		t.Fatalf("expected ErrVideoJobInFlight, got %v", err)
	}

	close(release)
	wg.Wait()
	if firstErr != nil {
		t.Fatalf("unexpected error from first job: %v", firstErr)
	}

	// The slot frees once the first job resolves.
	if _, err := s.GenerateVideo(context.Background(), testAccount, "third job", domain.AspectPortrait); err != nil {
		t.Fatalf("expected a new job to be accepted after completion, got %v", err)
	}
}
