// Package ui holds the plain-terminal helpers used by the non-interactive
// commands (colored output, the logo) and desktop notifications for
// finished downloads. The interactive browser lives in pkg/ui/tui.
package ui
