package widget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpggio/feedback-widget/internal/client"
)

// Variant selects how the widget presents itself.
type Variant string

const (
	VariantTrigger Variant = "trigger"
	VariantThumbs  Variant = "thumbs"
	VariantInline  Variant = "inline"
)

// ColorScheme selects the widget theme.
type ColorScheme string

const (
	ColorSchemeAuto  ColorScheme = "auto"
	ColorSchemeLight ColorScheme = "light"
	ColorSchemeDark  ColorScheme = "dark"
)

// Position places the flyout relative to its trigger.
type Position string

const (
	PositionTopLeft     Position = "top-left"
	PositionTop         Position = "top"
	PositionTopRight    Position = "top-right"
	PositionRight       Position = "right"
	PositionBottomRight Position = "bottom-right"
	PositionBottom      Position = "bottom"
	PositionBottomLeft  Position = "bottom-left"
	PositionLeft        Position = "left"
)

// DefaultTriggerText labels the trigger button.
const DefaultTriggerText = "Give Feedback"

// Config configures one widget instance.
type Config struct {
	RunID             string      `validate:"required"`
	Variant           Variant     `validate:"oneof=trigger thumbs inline"`
	BaseURL           string      `validate:"omitempty,url"`
	ColorScheme       ColorScheme `validate:"oneof=auto light dark"`
	TriggerButtonText string
	Position          Position `validate:"oneof=top-left top top-right right bottom-right bottom bottom-left left"`
	// OnSuccess fires once with the record id after a successful submit.
	OnSuccess func(id string) `validate:"-"`
	// OnError fires on every failed submit.
	OnError func(err error) `validate:"-"`
	// Demo disables all network traffic.
	Demo bool
}

// Patch is a partial Config. Nil fields are left unchanged.
type Patch struct {
	RunID             *string
	Variant           *Variant
	BaseURL           *string
	ColorScheme       *ColorScheme
	TriggerButtonText *string
	Position          *Position
	OnSuccess         func(id string)
	OnError           func(err error)
	Demo              *bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// WithDefaults fills every unset field with its default.
func (c Config) WithDefaults() Config {
	c.RunID = strings.TrimSpace(c.RunID)
	if c.Variant == "" {
		c.Variant = VariantTrigger
	}
	if c.BaseURL == "" {
		c.BaseURL = client.DefaultBaseURL
	}
	if c.ColorScheme == "" {
		c.ColorScheme = ColorSchemeAuto
	}
	if c.TriggerButtonText == "" {
		c.TriggerButtonText = DefaultTriggerText
	}
	if c.Position == "" {
		c.Position = PositionBottomRight
	}
	return c
}

// Validate checks a defaulted config.
func (c Config) Validate() error {
	if c.RunID == "" {
		return ErrMissingRunID
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, describe(err))
	}
	return nil
}

// Apply merges p over c.
func (c Config) Apply(p Patch) Config {
	if p.RunID != nil {
		c.RunID = *p.RunID
	}
	if p.Variant != nil {
		c.Variant = *p.Variant
	}
	if p.BaseURL != nil {
		c.BaseURL = *p.BaseURL
	}
	if p.ColorScheme != nil {
		c.ColorScheme = *p.ColorScheme
	}
	if p.TriggerButtonText != nil {
		c.TriggerButtonText = *p.TriggerButtonText
	}
	if p.Position != nil {
		c.Position = *p.Position
	}
	if p.OnSuccess != nil {
		c.OnSuccess = p.OnSuccess
	}
	if p.OnError != nil {
		c.OnError = p.OnError
	}
	if p.Demo != nil {
		c.Demo = *p.Demo
	}
	return c
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s=%q failed %s", fe.Field(), fe.Value(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
