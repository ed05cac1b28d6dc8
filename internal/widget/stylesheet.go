package widget

import (
	_ "embed"
	"sync"
)

//go:embed widget.css
var widgetCSS string

// StyleSheet is a parsed stylesheet that boundaries adopt by reference.
type StyleSheet struct {
	css string
}

// CSS returns the sheet text.
func (s *StyleSheet) CSS() string {
	return s.css
}

var (
	sharedSheetOnce sync.Once
	sharedSheet     *StyleSheet
)

// SharedStyleSheet returns the process-wide widget stylesheet, building it on
// first use. Every mounted widget adopts this same pointer.
func SharedStyleSheet() *StyleSheet {
	sharedSheetOnce.Do(func() {
		sharedSheet = &StyleSheet{css: widgetCSS}
	})
	return sharedSheet
}
