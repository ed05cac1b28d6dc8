package widget

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/feedback-widget/internal/domain/feedback"
)

// Options configure how instances are built.
type Options struct {
	Logger  *slog.Logger
	Clients ClientFactory
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Clients == nil {
		o.Clients = DefaultClientFactory
	}
	return o
}

// View is what an instance presents into its boundary.
type View struct {
	RunID       string
	Variant     Variant
	Position    Position
	ColorScheme ColorScheme
	TriggerText string
	Open        bool
	Linked      bool
	Draft       Draft
}

// Instance is one widget bound to one run id. It survives config updates
// with its draft and record state intact.
type Instance struct {
	opts   Options
	logger *slog.Logger
	coord  *Coordinator

	mu        sync.Mutex
	cfg       Config
	client    FeedbackClient
	clientKey clientKey
	boundary  *Boundary
	mounted   bool
	open      bool
}

type clientKey struct {
	baseURL string
	demo    bool
}

// NewInstance validates cfg and creates an unmounted instance.
func NewInstance(cfg Config, opts Options) (*Instance, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	inst := &Instance{
		opts:   opts,
		logger: opts.Logger,
		cfg:    cfg,
	}
	inst.refreshClientLocked()
	inst.coord = NewCoordinator(inst.settingsLocked(), inst.logger)
	inst.coord.OnChange(inst.render)
	return inst, nil
}

// Coordinator returns the record coordinator behind the instance.
func (i *Instance) Coordinator() *Coordinator {
	return i.coord
}

// Mount presents the widget into s, reusing its boundary if one exists.
func (i *Instance) Mount(s Surface) error {
	if s == nil {
		return ErrSurfaceNotFound
	}
	if el, ok := s.(*Element); ok && el == nil {
		return ErrSurfaceNotFound
	}

	b := s.Boundary()
	if b == nil {
		b = s.AttachBoundary()
	}
	b.AdoptStyleSheets(SharedStyleSheet())

	i.mu.Lock()
	i.boundary = b
	i.mounted = true
	i.mu.Unlock()

	i.logger.Debug("widget mounted", "run_id", i.Config().RunID)
	i.render()
	return nil
}

// MountByID mounts into the element of doc with the given id.
func (i *Instance) MountByID(doc *Document, id string) error {
	if doc == nil {
		return ErrSurfaceNotFound
	}
	el := doc.GetElementByID(id)
	if el == nil {
		return fmt.Errorf("%w: #%s", ErrSurfaceNotFound, id)
	}
	return i.Mount(el)
}

// Update merges p into the config and re-renders. The draft and any
// in-flight record operations are unaffected.
func (i *Instance) Update(p Patch) error {
	i.mu.Lock()
	next := i.cfg.Apply(p).WithDefaults()
	if err := next.Validate(); err != nil {
		i.mu.Unlock()
		return err
	}
	i.cfg = next
	i.refreshClientLocked()
	settings := i.settingsLocked()
	if next.Variant == VariantInline {
		i.open = false
	}
	i.mu.Unlock()

	i.coord.Reconfigure(settings)
	i.render()
	return nil
}

// Destroy clears the presentation. It is idempotent and safe before Mount.
func (i *Instance) Destroy() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.mounted {
		return
	}
	i.mounted = false
	i.boundary.Present(nil)
	i.logger.Debug("widget destroyed", "run_id", i.cfg.RunID)
}

// Config returns a copy of the current config.
func (i *Instance) Config() Config {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.cfg
}

// Mounted reports whether the instance is presenting.
func (i *Instance) Mounted() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.mounted
}

// Rate selects a rating. The thumbs variant also opens the flyout.
func (i *Instance) Rate(r feedback.Rating) error {
	i.mu.Lock()
	if i.cfg.Variant == VariantThumbs && r.Valid() {
		i.open = true
	}
	i.mu.Unlock()
	return i.coord.SetRating(r)
}

// Comment replaces the draft comment.
func (i *Instance) Comment(text string) error {
	return i.coord.SetComment(text)
}

// Submit finalizes the draft.
func (i *Instance) Submit(ctx context.Context) (string, error) {
	return i.coord.Finalize(ctx)
}

// Toggle flips the flyout. Inline widgets have no flyout.
func (i *Instance) Toggle() {
	i.setOpen(func(open bool) bool { return !open })
}

// Close hides the flyout.
func (i *Instance) Close() {
	i.setOpen(func(bool) bool { return false })
}

func (i *Instance) setOpen(next func(bool) bool) {
	i.mu.Lock()
	if i.cfg.Variant == VariantInline {
		i.mu.Unlock()
		return
	}
	i.open = next(i.open)
	i.mu.Unlock()

	i.coord.dismissError()
	i.render()
}

// View returns what the instance currently presents.
func (i *Instance) View() View {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.viewLocked()
}

func (i *Instance) viewLocked() View {
	state := i.coord.State()
	return View{
		RunID:       i.cfg.RunID,
		Variant:     i.cfg.Variant,
		Position:    i.cfg.Position,
		ColorScheme: i.cfg.ColorScheme,
		TriggerText: i.cfg.TriggerButtonText,
		Open:        i.open || i.cfg.Variant == VariantInline,
		Linked:      state.Phase == PhaseLinked,
		Draft:       i.coord.Draft(),
	}
}

// render presents the current view. Results arriving after Destroy are dropped.
func (i *Instance) render() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.mounted {
		return
	}
	v := i.viewLocked()
	i.boundary.Present(&v)
}

func (i *Instance) refreshClientLocked() {
	key := clientKey{baseURL: i.cfg.BaseURL, demo: i.cfg.Demo}
	if i.client != nil && key == i.clientKey {
		return
	}
	i.client = i.opts.Clients(i.cfg)
	i.clientKey = key
}

func (i *Instance) settingsLocked() Settings {
	return Settings{
		RunID:     i.cfg.RunID,
		Client:    i.client,
		OnSuccess: i.cfg.OnSuccess,
		OnError:   i.cfg.OnError,
	}
}
