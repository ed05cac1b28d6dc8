package widget_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/rpggio/feedback-widget/internal/domain/feedback"
)

type updateCall struct {
	ID  string
	Req feedback.UpdateRequest
}

// fakeClient records calls. Creates block on createGate when set; updates
// carrying a rating block on the matching ratingGates channel.
type fakeClient struct {
	mu          sync.Mutex
	creates     []feedback.CreateRequest
	updates     []updateCall
	applied     []updateCall
	createGate  chan struct{}
	ratingGates map[feedback.Rating]chan struct{}
	createErrs  []error
	updateErrs  []error
	ids         int
}

func newFakeClient() *fakeClient {
	return &fakeClient{ratingGates: map[feedback.Rating]chan struct{}{}}
}

func (f *fakeClient) Create(ctx context.Context, req feedback.CreateRequest) (string, error) {
	f.mu.Lock()
	f.creates = append(f.creates, req)
	gate := f.createGate
	var err error
	if len(f.createErrs) > 0 {
		err, f.createErrs = f.createErrs[0], f.createErrs[1:]
	}
	f.ids++
	id := fmt.Sprintf("fb-%d", f.ids)
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (f *fakeClient) Update(ctx context.Context, id string, req feedback.UpdateRequest) error {
	call := updateCall{ID: id, Req: req}

	f.mu.Lock()
	f.updates = append(f.updates, call)
	var gate chan struct{}
	if req.Helpful != nil {
		gate = f.ratingGates[*req.Helpful]
	}
	var err error
	if len(f.updateErrs) > 0 {
		err, f.updateErrs = f.updateErrs[0], f.updateErrs[1:]
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		return err
	}
	f.applied = append(f.applied, call)
	return nil
}

func (f *fakeClient) gateCreates() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createGate = make(chan struct{})
	return f.createGate
}

func (f *fakeClient) gateRating(r feedback.Rating) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.ratingGates[r] = ch
	return ch
}

func (f *fakeClient) failCreates(errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createErrs = append(f.createErrs, errs...)
}

func (f *fakeClient) failUpdates(errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateErrs = append(f.updateErrs, errs...)
}

func (f *fakeClient) createCalls() []feedback.CreateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]feedback.CreateRequest(nil), f.creates...)
}

func (f *fakeClient) updateCalls() []updateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]updateCall(nil), f.updates...)
}

func (f *fakeClient) appliedUpdates() []updateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]updateCall(nil), f.applied...)
}
