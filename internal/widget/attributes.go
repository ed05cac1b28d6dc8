package widget

import (
	"slices"
	"strings"
)

// ContainerID marks the page's primary widget container.
const ContainerID = "cobbl-feedback-widget"

// Widget configuration attributes.
const (
	AttrRunID       = "data-run-id"
	AttrVariant     = "data-variant"
	AttrBaseURL     = "data-base-url"
	AttrTriggerText = "data-trigger-button-text"
	AttrPosition    = "data-position"
	AttrColorScheme = "data-color-scheme"
)

// WatchedAttributes are the attributes whose changes reconfigure a mounted widget.
var WatchedAttributes = []string{
	AttrRunID,
	AttrVariant,
	AttrBaseURL,
	AttrTriggerText,
	AttrPosition,
	AttrColorScheme,
}

// IsWatchedAttribute reports whether name is one of WatchedAttributes.
func IsWatchedAttribute(name string) bool {
	return slices.Contains(WatchedAttributes, name)
}

// Qualifies reports whether el should carry a widget: it has the container id
// or declares a run id.
func Qualifies(el *Element) bool {
	if el == nil {
		return false
	}
	if el.ID() == ContainerID {
		return true
	}
	_, ok := el.Attr(AttrRunID)
	return ok
}

// PatchFromAttributes reads the widget attributes present on el. Unknown enum
// values and empty strings are skipped.
func PatchFromAttributes(el *Element) (Patch, error) {
	var p Patch
	if el == nil {
		return p, ErrSurfaceNotFound
	}

	runID, _ := el.Attr(AttrRunID)
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return p, ErrMissingRunID
	}
	p.RunID = &runID

	if v, ok := el.Attr(AttrVariant); ok {
		switch variant := Variant(v); variant {
		case VariantTrigger, VariantThumbs, VariantInline:
			p.Variant = &variant
		}
	}
	if v, ok := el.Attr(AttrBaseURL); ok && v != "" {
		p.BaseURL = &v
	}
	if v, ok := el.Attr(AttrTriggerText); ok && v != "" {
		p.TriggerButtonText = &v
	}
	if v, ok := el.Attr(AttrPosition); ok {
		switch pos := Position(v); pos {
		case PositionTopLeft, PositionTop, PositionTopRight, PositionRight,
			PositionBottomRight, PositionBottom, PositionBottomLeft, PositionLeft:
			p.Position = &pos
		}
	}
	if v, ok := el.Attr(AttrColorScheme); ok {
		switch cs := ColorScheme(v); cs {
		case ColorSchemeAuto, ColorSchemeLight, ColorSchemeDark:
			p.ColorScheme = &cs
		}
	}
	return p, nil
}

// ConfigFromAttributes builds a defaulted config from el's attributes.
func ConfigFromAttributes(el *Element) (Config, error) {
	p, err := PatchFromAttributes(el)
	if err != nil {
		return Config{}, err
	}
	return Config{}.Apply(p).WithDefaults(), nil
}
