package studio

import (
	"context"
	"sync"
)

// fakeProvider is a scripted Provider. Operations are returned from ops in
// order: the first by SubmitVideo, the rest by RefreshVideo.
type fakeProvider struct {
	mu sync.Mutex

	image    *Media
	imageErr error

	ops         []*Operation
	submitErr   error
	refreshErr  error
	download    *Media
	downloadErr error

	// block, when set, holds every call until it is closed.
	block chan struct{}

	generateCalls int
	editCalls     int
	submitCalls   int
	refreshCalls  int
	downloadCalls int

	lastPrompt string
	lastImages []InlineImage
	lastRatio  AspectRatio
	lastSpec   VideoSpec
	lastURI    string
}

func (f *fakeProvider) wait(ctx context.Context) error {
	if f.block == nil {
		return nil
	}
	select {
	case <-f.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeProvider) GenerateImage(ctx context.Context, prompt string, ratio AspectRatio) (*Media, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateCalls++
	f.lastPrompt = prompt
	f.lastRatio = ratio
	return f.image, f.imageErr
}

func (f *fakeProvider) EditImage(ctx context.Context, prompt string, images []InlineImage) (*Media, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.editCalls++
	f.lastPrompt = prompt
	f.lastImages = images
	return f.image, f.imageErr
}

func (f *fakeProvider) SubmitVideo(ctx context.Context, spec VideoSpec) (*Operation, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls++
	f.lastSpec = spec
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.ops[0], nil
}

func (f *fakeProvider) RefreshVideo(ctx context.Context, op *Operation) (*Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	if f.refreshCalls < len(f.ops) {
		return f.ops[f.refreshCalls], nil
	}
	return op, nil
}

func (f *fakeProvider) DownloadMedia(ctx context.Context, uri string) (*Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloadCalls++
	f.lastURI = uri
	return f.download, f.downloadErr
}

func (f *fakeProvider) networkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generateCalls + f.editCalls + f.submitCalls + f.refreshCalls + f.downloadCalls
}

func pending(name string) *Operation { return &Operation{Name: name} }

func done(name, uri string) *Operation { return &Operation{Name: name, Done: true, MediaURI: uri} }
