package mcp

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rpggio/feedback-widget/internal/registry"
	"github.com/rpggio/feedback-widget/internal/widget"
)

// Host keeps one headless widget per run id, each mounted on its own detached
// element, so tool calls follow the same record rules as an embedded widget.
type Host struct {
	baseURL string
	reg     *registry.Registry
	mounter *registry.AutoMounter
	logger  *slog.Logger

	mu       sync.Mutex
	elements map[string]*widget.Element
}

// NewHost creates a host whose widgets talk to baseURL (empty for the default).
func NewHost(baseURL string, opts widget.Options, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reg := registry.New()
	return &Host{
		baseURL:  strings.TrimSpace(baseURL),
		reg:      reg,
		mounter:  registry.NewAutoMounter(reg, opts, logger),
		logger:   logger,
		elements: make(map[string]*widget.Element),
	}
}

// Instance returns the widget for runID, mounting one on first use.
func (h *Host) Instance(runID string) (*widget.Instance, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, widget.ErrMissingRunID
	}

	h.mu.Lock()
	el, ok := h.elements[runID]
	if !ok {
		attrs := map[string]string{widget.AttrRunID: runID}
		if h.baseURL != "" {
			attrs[widget.AttrBaseURL] = h.baseURL
		}
		el = widget.NewElement("", attrs)
		h.elements[runID] = el
	}
	h.mu.Unlock()

	if err := h.mounter.Mount(el); err != nil {
		return nil, err
	}
	inst, ok := h.reg.Lookup(el)
	if !ok {
		return nil, fmt.Errorf("widget for run %s vanished", runID)
	}
	return inst, nil
}

// Lookup returns the widget for runID without creating one.
func (h *Host) Lookup(runID string) (*widget.Instance, bool) {
	h.mu.Lock()
	el, ok := h.elements[strings.TrimSpace(runID)]
	h.mu.Unlock()
	if !ok {
		return nil, false
	}
	return h.reg.Lookup(el)
}

// Forget unmounts the widget for runID. A later call starts a fresh draft.
func (h *Host) Forget(runID string) bool {
	h.mu.Lock()
	el, ok := h.elements[runID]
	delete(h.elements, runID)
	h.mu.Unlock()
	if !ok {
		return false
	}
	if inst, found := h.reg.Lookup(el); found {
		inst.Coordinator().Wait()
	}
	h.mounter.Unmount(el)
	return true
}

// Len returns how many runs currently have a widget.
func (h *Host) Len() int {
	return h.reg.Len()
}

// Close waits for every widget's background propagation to finish.
func (h *Host) Close() {
	h.mu.Lock()
	elements := make([]*widget.Element, 0, len(h.elements))
	for _, el := range h.elements {
		elements = append(elements, el)
	}
	h.mu.Unlock()

	for _, el := range elements {
		if inst, ok := h.reg.Lookup(el); ok {
			inst.Coordinator().Wait()
		}
	}
	h.logger.Debug("widget host drained", "runs", len(elements))
}
