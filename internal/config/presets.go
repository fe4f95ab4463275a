package config

import "sort"

// Presets are named sweep configurations. "baseline" reproduces the
// reference study grid; the others trade resolution for runtime.
var Presets = map[string]*Config{
	"baseline": {
		Gap: 2.0, TxRadius: 0.2, Points: 500, DL: 0.1,
		Frequency: 10.0e6, Load: 50.0,
		Radius:   GridConfig{Min: 0.2167, Max: 0.55, Steps: 7},
		Position: GridConfig{Min: 0.05, Max: 0.975, Steps: 19},
		Workers:  4,
	},
	"coarse": {
		Gap: 2.0, TxRadius: 0.2, Points: 200, DL: 0.1,
		Frequency: 10.0e6, Load: 50.0,
		Radius:   GridConfig{Min: 0.2167, Max: 0.55, Steps: 4},
		Position: GridConfig{Min: 0.1, Max: 0.9, Steps: 9},
		Workers:  4,
	},
	"fine": {
		Gap: 2.0, TxRadius: 0.2, Points: 500, DL: 0.05,
		Frequency: 10.0e6, Load: 50.0,
		Radius:   GridConfig{Min: 0.2167, Max: 0.55, Steps: 14},
		Position: GridConfig{Min: 0.05, Max: 0.975, Steps: 38},
		Workers:  8,
	},
	"close-range": {
		Gap: 1.0, TxRadius: 0.2, Points: 500, DL: 0.1,
		Frequency: 10.0e6, Load: 50.0,
		Radius:   GridConfig{Min: 0.2167, Max: 0.45, Steps: 7},
		Position: GridConfig{Min: 0.05, Max: 0.475, Steps: 10},
		Workers:  4,
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
