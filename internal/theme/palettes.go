package theme

import "museumrewards/internal/models"

var lightPalette = models.Palette{
	Name:             "light",
	Background:       "#f8fafc",
	CardBackground:   "#ffffff",
	CardBorder:       "rgba(0, 0, 0, 0.1)",
	HeaderBorder:     "rgba(0, 0, 0, 0.1)",
	Title:            "#1a2332",
	Subtitle:         "#64748b",
	Category:         "#64748b",
	Accent:           "#4ade80",
	Error:            "#f87171",
	ImagePlaceholder: "#e2e8f0",
	StatusBar:        "dark-content",
	Text:             "#1a2332",
	Tint:             "#4ade80",
	TabIconDefault:   "#687076",
	TabIconSelected:  "#4ade80",
}

var darkPalette = models.Palette{
	Name:             "dark",
	Background:       "#1a2332",
	CardBackground:   "#2d3748",
	CardBorder:       "rgba(255, 255, 255, 0.1)",
	HeaderBorder:     "rgba(255, 255, 255, 0.1)",
	Title:            "#ffffff",
	Subtitle:         "#94a3b8",
	Category:         "#94a3b8",
	Accent:           "#4ade80",
	Error:            "#f87171",
	ImagePlaceholder: "#1a202c",
	StatusBar:        "light-content",
	Text:             "#ECEDEE",
	Tint:             "#4ade80",
	TabIconDefault:   "#9BA1A6",
	TabIconSelected:  "#4ade80",
}

// nightPalette is the violet theme sold as a benefit.
var nightPalette = models.Palette{
	Name:             "night",
	Background:       "#1e1033",
	CardBackground:   "#2e1a4f",
	CardBorder:       "rgba(196, 181, 253, 0.15)",
	HeaderBorder:     "rgba(196, 181, 253, 0.15)",
	Title:            "#f5f3ff",
	Subtitle:         "#c4b5fd",
	Category:         "#a78bfa",
	Accent:           "#a855f7",
	Error:            "#fb7185",
	ImagePlaceholder: "#281645",
	StatusBar:        "light-content",
	Text:             "#ede9fe",
	Tint:             "#a855f7",
	TabIconDefault:   "#8b7fb0",
	TabIconSelected:  "#a855f7",
}
