package config

import "fmt"

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.UI.Theme {
	case ThemeUnicode, ThemeASCII:
	default:
		return fmt.Errorf("ui.theme must be %q or %q, got %q", ThemeUnicode, ThemeASCII, c.UI.Theme)
	}
	switch c.UI.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("ui.color must be one of auto, always, never, got %q", c.UI.Color)
	}
	if c.Checklist.File == "" {
		return fmt.Errorf("checklist.file is required")
	}
	if c.Archive.Path == "" {
		return fmt.Errorf("archive.path is required")
	}
	return nil
}
