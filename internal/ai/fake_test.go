package ai

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errProviderDown = errors.New("provider down")

// fakeProvider returns canned output and records calls.
type fakeProvider struct {
	name  string
	text  string
	err   error
	delay time.Duration

	mu    sync.Mutex
	calls []GenerateRequest
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeProvider) lastCall() GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func failing(name string) *fakeProvider {
	return &fakeProvider{name: name, err: errProviderDown}
}

type recordingObserver struct {
	mu        sync.Mutex
	calls     []string
	fallbacks []string
}

func (r *recordingObserver) ObserveProviderCall(provider, operation string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	outcome := "ok"
	if err != nil {
		outcome = "err"
	}
	r.calls = append(r.calls, provider+"/"+operation+"/"+outcome)
}

func (r *recordingObserver) ObserveFallback(operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks = append(r.fallbacks, operation)
}
