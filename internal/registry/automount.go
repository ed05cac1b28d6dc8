package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rpggio/feedback-widget/internal/widget"
)

// AutoMounter keeps the registry in step with a document: qualifying
// elements get a widget when they appear, are reconfigured when a widget
// attribute changes, and lose it when they leave.
type AutoMounter struct {
	reg    *Registry
	opts   widget.Options
	logger *slog.Logger
}

// NewAutoMounter creates an AutoMounter that builds instances with opts.
func NewAutoMounter(reg *Registry, opts widget.Options, logger *slog.Logger) *AutoMounter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return &AutoMounter{reg: reg, opts: opts, logger: logger}
}

// Watch mounts every qualifying element of doc and then follows its
// mutations until ctx is done.
func (a *AutoMounter) Watch(ctx context.Context, doc *widget.Document) error {
	events, stop := doc.Observe(64)
	defer stop()

	a.MountAll(doc)
	return a.Run(ctx, events)
}

// MountAll mounts every qualifying element currently in doc.
func (a *AutoMounter) MountAll(doc *widget.Document) {
	for _, el := range doc.Body().Descendants() {
		if widget.Qualifies(el) {
			_ = a.Mount(el)
		}
	}
}

// Mount mounts a widget on el unless one is already registered.
func (a *AutoMounter) Mount(el *widget.Element) error {
	_, created, err := a.reg.MountIfAbsent(el, func() (*widget.Instance, error) {
		cfg, err := widget.ConfigFromAttributes(el)
		if err != nil {
			return nil, err
		}
		inst, err := widget.NewInstance(cfg, a.opts)
		if err != nil {
			return nil, err
		}
		if err := inst.Mount(el); err != nil {
			return nil, err
		}
		return inst, nil
	})
	if err != nil {
		a.logger.Error("widget initialization failed", "element_id", el.ID(), "error", err)
		return fmt.Errorf("mounting widget: %w", err)
	}
	if created {
		a.logger.Debug("widget auto-mounted", "element_id", el.ID())
	}
	return nil
}

// Refresh re-reads el's attributes into its mounted widget. Unknown elements
// are ignored.
func (a *AutoMounter) Refresh(el *widget.Element) error {
	inst, ok := a.reg.Lookup(el)
	if !ok {
		return nil
	}
	patch, err := widget.PatchFromAttributes(el)
	if err == nil {
		err = inst.Update(patch)
	}
	if err != nil {
		a.logger.Error("widget update failed", "element_id", el.ID(), "error", err)
		return fmt.Errorf("updating widget: %w", err)
	}
	return nil
}

// Unmount destroys and unregisters el's widget, if any.
func (a *AutoMounter) Unmount(el *widget.Element) {
	if inst, ok := a.reg.Remove(el); ok {
		inst.Destroy()
		a.logger.Debug("widget unmounted", "element_id", el.ID())
	}
}

// Apply routes one mutation.
func (a *AutoMounter) Apply(m widget.Mutation) {
	switch m.Type {
	case widget.MutationChildList:
		for _, n := range m.Added {
			for _, el := range withDescendants(n) {
				if widget.Qualifies(el) {
					_ = a.Mount(el)
				}
			}
		}
		for _, n := range m.Removed {
			for _, el := range withDescendants(n) {
				a.Unmount(el)
			}
		}
	case widget.MutationAttributes:
		if !widget.IsWatchedAttribute(m.AttributeName) || m.Target == nil {
			return
		}
		// Elements without a mounted widget are left alone.
		if _, ok := a.reg.Lookup(m.Target); ok {
			_ = a.Refresh(m.Target)
		}
	}
}

// Run applies mutations from events until ctx is done or events is closed.
func (a *AutoMounter) Run(ctx context.Context, events <-chan widget.Mutation) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-events:
			if !ok {
				return nil
			}
			a.Apply(m)
		}
	}
}

func withDescendants(el *widget.Element) []*widget.Element {
	if el == nil {
		return nil
	}
	return append([]*widget.Element{el}, el.Descendants()...)
}
