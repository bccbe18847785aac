package config

import "sort"

// BoardPreset represents a named board size.
type BoardPreset string

const (
	PresetClassic BoardPreset = "classic"
	PresetCompact BoardPreset = "compact"
	PresetWide    BoardPreset = "wide"
)

// PresetSize is the board geometry behind a preset.
type PresetSize struct {
	Width  int
	Height int
}

var presets = map[BoardPreset]PresetSize{
	PresetClassic: {Width: 12, Height: 20},
	PresetCompact: {Width: 8, Height: 12},
	PresetWide:    {Width: 16, Height: 20},
}

// LookupPreset returns the size of a preset.
func LookupPreset(p BoardPreset) (PresetSize, bool) {
	size, ok := presets[p]
	return size, ok
}

// PresetNames returns all preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for p := range presets {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}

// ApplyPreset switches the board to a preset, dropping explicit size overrides.
// Unknown presets leave the config untouched and return false.
func ApplyPreset(cfg *Config, preset BoardPreset) bool {
	if _, ok := presets[preset]; !ok {
		return false
	}
	cfg.Board.Preset = preset
	cfg.Board.Width = 0
	cfg.Board.Height = 0
	return true
}
