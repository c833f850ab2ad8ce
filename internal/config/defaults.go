package config

const (
	defaultChecklistFile = "RELEASE_CHECKLIST.md"
	defaultArchivePath   = "~/.local/share/relcheck/archive.db"
	defaultTheme         = ThemeUnicode
	defaultColor         = ColorAuto
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
	projectConfigName    = ".relcheck.toml"
)

// DefaultItems are the release-gate rows created by `relcheck init` when the config lists none.
var DefaultItems = []string{
	"Unit tests",
	"Integration tests",
	"Documentation",
	"Changelog",
	"Deploy to staging",
	"Publish",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Checklist: Checklist{
			File:         defaultChecklistFile,
			DefaultItems: append([]string(nil), DefaultItems...),
		},
		Archive: Archive{
			Path: defaultArchivePath,
		},
		UI: UI{
			Theme: defaultTheme,
			Color: defaultColor,
		},
		Logging: Logging{
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
