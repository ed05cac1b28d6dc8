package widget

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/rpggio/feedback-widget/internal/domain/feedback"
)

// Settings are read by the coordinator each time it dispatches a request.
type Settings struct {
	RunID     string
	Client    FeedbackClient
	OnSuccess func(id string)
	OnError   func(err error)
}

// pendingCreate is the one outstanding create request. Everyone who needs the
// record id while it runs waits on the same handle.
type pendingCreate struct {
	done chan struct{}
	id   string
	err  error
}

func (p *pendingCreate) wait(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return p.id, p.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Coordinator owns one feedback draft and the remote record it maps to. At
// most one create is ever in flight; once linked, every change becomes an
// update against the same id.
type Coordinator struct {
	logger *slog.Logger

	mu         sync.Mutex
	settings   Settings
	draft      Draft
	phase      Phase
	feedbackID string
	pending    *pendingCreate
	finalizing bool
	onChange   func()

	tasks sync.WaitGroup
}

// NewCoordinator creates an unlinked coordinator.
func NewCoordinator(settings Settings, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{settings: settings, logger: logger}
}

// Reconfigure replaces the settings used by subsequent dispatches.
func (c *Coordinator) Reconfigure(settings Settings) {
	c.mu.Lock()
	c.settings = settings
	c.mu.Unlock()
}

// OnChange installs fn to be called after every draft or state change.
func (c *Coordinator) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Draft returns a snapshot of the draft.
func (c *Coordinator) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.clone()
}

// State returns a snapshot of the record state.
func (c *Coordinator) State() RecordState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return RecordState{Phase: c.phase, FeedbackID: c.feedbackID}
}

// Wait blocks until all background propagation has finished.
func (c *Coordinator) Wait() {
	c.tasks.Wait()
}

// SetRating records r locally and propagates it in the background: an update
// when linked, an update after the outstanding create when creating, or a new
// create seeded with r when unlinked.
func (c *Coordinator) SetRating(r feedback.Rating) error {
	if !r.Valid() {
		return ErrInvalidRating
	}

	c.mu.Lock()
	if c.draft.Submitted {
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}
	c.draft.Rating = r.Ptr()
	c.draft.LastError = ""

	switch c.phase {
	case PhaseLinked:
		id, settings := c.feedbackID, c.settings
		c.spawn(func(ctx context.Context) {
			c.sendRating(ctx, settings, id, r)
		})
	case PhaseCreating:
		p := c.pending
		c.spawn(func(ctx context.Context) {
			id, err := p.wait(ctx)
			if err != nil {
				c.logger.Warn("rating not propagated, create failed",
					"run_id", c.currentSettings().RunID, "error", err)
				return
			}
			c.sendRating(ctx, c.currentSettings(), id, r)
		})
	case PhaseUnlinked:
		c.startCreateLocked(feedback.CreateRequest{
			RunID:   c.settings.RunID,
			Helpful: r.Ptr(),
		})
	}
	c.mu.Unlock()

	c.notify()
	return nil
}

// SetComment records text locally. Comments only reach the service on Finalize.
func (c *Coordinator) SetComment(text string) error {
	c.mu.Lock()
	if c.draft.Submitted {
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}
	c.draft.Comment = text
	c.draft.LastError = ""
	c.mu.Unlock()

	c.notify()
	return nil
}

// Finalize submits the draft. It waits for an outstanding create, then either
// updates the linked record or creates one carrying the full draft. On
// success the draft is sealed and OnSuccess fires once; on failure the error
// is recorded, OnError fires, and Finalize may be retried.
func (c *Coordinator) Finalize(ctx context.Context) (string, error) {
	c.mu.Lock()
	switch {
	case c.draft.Submitted:
		c.mu.Unlock()
		return "", ErrAlreadySubmitted
	case c.finalizing:
		c.mu.Unlock()
		return "", ErrSubmitInProgress
	case !c.draft.HasContent():
		c.draft.LastError = EmptyFeedbackMessage
		c.mu.Unlock()
		c.notify()
		return "", ErrEmptyFeedback
	}
	c.finalizing = true
	c.draft.Submitting = true
	c.draft.LastError = ""
	c.mu.Unlock()
	c.notify()

	id, err := c.finalize(ctx)

	c.mu.Lock()
	c.finalizing = false
	c.draft.Submitting = false
	settings := c.settings
	if err != nil {
		c.draft.LastError = err.Error()
		c.mu.Unlock()
		c.notify()

		c.logger.Warn("feedback submit failed", "run_id", settings.RunID, "error", err)
		if settings.OnError != nil {
			settings.OnError(err)
		}
		return "", err
	}
	c.draft.Submitted = true
	c.draft.FeedbackID = id
	c.mu.Unlock()
	c.notify()

	c.logger.Info("feedback submitted", "run_id", settings.RunID, "feedback_id", id)
	if settings.OnSuccess != nil {
		settings.OnSuccess(id)
	}
	return id, nil
}

func (c *Coordinator) finalize(ctx context.Context) (string, error) {
	for {
		c.mu.Lock()
		switch c.phase {
		case PhaseLinked:
			id, settings := c.feedbackID, c.settings
			req := c.updateRequestLocked()
			c.mu.Unlock()

			if settings.Client == nil {
				return "", ErrNoClient
			}
			if err := settings.Client.Update(ctx, id, req); err != nil {
				return "", err
			}
			return id, nil

		case PhaseCreating:
			p := c.pending
			c.mu.Unlock()

			if _, err := p.wait(ctx); err != nil && ctx.Err() != nil {
				return "", ctx.Err()
			}
			// Re-read the state: the create either linked or failed.

		default:
			req := c.createRequestLocked()
			p := c.startCreateLocked(req)
			c.mu.Unlock()
			return p.wait(ctx)
		}
	}
}

// startCreateLocked moves Unlinked to Creating and dispatches req. The create
// is detached from any caller's context because its handle is shared.
func (c *Coordinator) startCreateLocked(req feedback.CreateRequest) *pendingCreate {
	p := &pendingCreate{done: make(chan struct{})}
	c.phase = PhaseCreating
	c.pending = p
	cl := c.settings.Client

	c.spawn(func(ctx context.Context) {
		var id string
		var err error
		if cl == nil {
			err = ErrNoClient
		} else {
			id, err = cl.Create(ctx, req)
		}

		c.mu.Lock()
		if c.pending == p {
			c.pending = nil
			if err == nil {
				c.phase = PhaseLinked
				c.feedbackID = id
				c.draft.FeedbackID = id
			} else {
				c.phase = PhaseUnlinked
			}
		}
		c.mu.Unlock()

		p.id, p.err = id, err
		close(p.done)

		if err != nil {
			c.logger.Warn("feedback create failed", "run_id", req.RunID, "error", err)
		} else {
			c.logger.Debug("feedback record linked", "run_id", req.RunID, "feedback_id", id)
		}
		c.notify()
	})
	return p
}

func (c *Coordinator) sendRating(ctx context.Context, settings Settings, id string, r feedback.Rating) {
	if settings.Client == nil {
		return
	}
	if err := settings.Client.Update(ctx, id, feedback.UpdateRequest{Helpful: r.Ptr()}); err != nil {
		c.logger.Warn("background rating update failed",
			"run_id", settings.RunID, "feedback_id", id, "error", err)
	}
}

func (c *Coordinator) createRequestLocked() feedback.CreateRequest {
	req := feedback.CreateRequest{
		RunID:        c.settings.RunID,
		UserFeedback: trimmedComment(c.draft.Comment),
	}
	if c.draft.Rating != nil {
		req.Helpful = c.draft.Rating.Ptr()
	}
	return req
}

func (c *Coordinator) updateRequestLocked() feedback.UpdateRequest {
	var req feedback.UpdateRequest
	if c.draft.Rating != nil {
		req.Helpful = c.draft.Rating.Ptr()
	}
	if comment := trimmedComment(c.draft.Comment); comment != "" {
		req.UserFeedback = &comment
	}
	return req
}

func (c *Coordinator) currentSettings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

func (c *Coordinator) dismissError() {
	c.mu.Lock()
	changed := c.draft.LastError != ""
	c.draft.LastError = ""
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

func (c *Coordinator) spawn(fn func(ctx context.Context)) {
	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()
		fn(context.Background())
	}()
}

func (c *Coordinator) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func trimmedComment(s string) string {
	return strings.TrimSpace(s)
}
