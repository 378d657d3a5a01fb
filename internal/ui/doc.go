// Package ui contains the Fyne desktop front-end. It turns button presses into
// workflow jobs, renders their status messages in a scrolling log and enables
// each ringtone step once the previous file exists. All UI strings are
// localized via Localization.
package ui
