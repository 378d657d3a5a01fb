package ui

import (
	"fyne.io/fyne/v2"
)

const (
	AppIcon = "ytringtones.png"
)

// LoadLogoResource loads the logo from the working directory. The icon is
// optional; callers fall back to a text-only header.
func LoadLogoResource() (fyne.Resource, error) {
	return fyne.LoadResourceFromPath(AppIcon)
}
