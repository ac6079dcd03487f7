package core

import (
	"time"

	"github.com/jmylchreest/themecast/internal/adapter/output"
	"github.com/jmylchreest/themecast/internal/theme"
)

var now = time.Now()

func sampleEntries() []output.Entry {
	return []output.Entry{
		{Info: theme.Info{Name: "catppuccin", IsBundled: true}, Kind: "palette"},
		{Info: theme.Info{Name: "dark", IsBundled: true}, Kind: "palette", IsCurrent: true},
		{Info: theme.Info{Name: "default", IsBundled: true, IsDefault: true}, Kind: "palette"},
		{Info: theme.Info{Name: "minimal", IsBundled: true}, Kind: "stylesheet"},
		{Info: theme.Info{
			Name: "ocean", Path: "/home/u/.config/themecast/themes/ocean.toml",
			ModTime: now.Add(-30 * time.Minute), Size: 2048,
		}, Kind: "palette"},
		{Info: theme.Info{
			Name: "Oceanic", Path: "/home/u/.config/themecast/themes/Oceanic.css",
			ModTime: now.Add(-72 * time.Hour), Size: 512,
		}, Kind: "stylesheet"},
		{Info: theme.Info{
			Name: "broken", Path: "/home/u/.config/themecast/themes/broken.yaml",
			ModTime: now.Add(-2 * time.Hour), Size: 10,
		}, Kind: "invalid"},
	}
}

func names(entries []output.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
