package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Checklist.File) == "" {
		c.Checklist.File = defaultChecklistFile
	}
	if c.Checklist.File, err = expandPath(strings.TrimSpace(c.Checklist.File)); err != nil {
		return fmt.Errorf("checklist.file: %w", err)
	}
	items := c.Checklist.DefaultItems[:0]
	for _, it := range c.Checklist.DefaultItems {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	c.Checklist.DefaultItems = items

	if strings.TrimSpace(c.Archive.Path) == "" {
		c.Archive.Path = defaultArchivePath
	}
	if c.Archive.Path, err = expandPath(strings.TrimSpace(c.Archive.Path)); err != nil {
		return fmt.Errorf("archive.path: %w", err)
	}

	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))
	if c.UI.Theme == "" {
		c.UI.Theme = defaultTheme
	}
	c.UI.Color = strings.ToLower(strings.TrimSpace(c.UI.Color))
	if c.UI.Color == "" {
		c.UI.Color = defaultColor
	}

	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("log.file: %w", err)
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	return nil
}
