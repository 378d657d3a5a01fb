package ui

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-ringtones/internal/config"
)

// languageOrder keeps the language select stable; preference maps are unordered
var languageOrder = []string{LanguageSystem, LanguageEnglish, LanguageRussian, LanguagePortug}

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	downloadDirEntry *widget.Entry
	presetSelect     *widget.Select
	secondsEntry     *widget.Entry
	ytdlpEntry       *widget.Entry
	ffmpegEntry      *widget.Entry
	languageSelect   *widget.Select
	languageCodes    map[string]string
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// preferences were written.
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	text := sd.localization.GetText

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(text(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	presetOptions := []string{}
	for _, preset := range config.PresetOptions() {
		presetOptions = append(presetOptions, string(preset))
	}
	sd.presetSelect = widget.NewSelect(presetOptions, nil)

	sd.secondsEntry = widget.NewEntry()
	sd.secondsEntry.SetPlaceHolder(strconv.Itoa(config.MinRingtoneSeconds) + "-" + strconv.Itoa(config.MaxRingtoneSeconds))

	sd.ytdlpEntry = widget.NewEntry()
	sd.ytdlpEntry.SetPlaceHolder(config.DefaultYtDlpPath)
	sd.ffmpegEntry = widget.NewEntry()
	sd.ffmpegEntry.SetPlaceHolder(config.DefaultFFmpegPath)

	// The select shows display names; languageCodes maps them back
	labels := sd.settings.GetLanguageOptions()
	sd.languageCodes = make(map[string]string, len(labels))
	languageOptions := []string{}
	for _, code := range languageOrder {
		languageOptions = append(languageOptions, labels[code])
		sd.languageCodes[labels[code]] = code
	}
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	form := widget.NewForm(
		widget.NewFormItem(text(KeyDownloadDirectory), downloadDirRow),
		widget.NewFormItem(text(KeyPreset), sd.presetSelect),
		widget.NewFormItem(text(KeyRingtoneSeconds), sd.secondsEntry),
		widget.NewFormItem(text(KeyYtDlpPath), sd.ytdlpEntry),
		widget.NewFormItem(text(KeyFFmpegPath), sd.ffmpegEntry),
		widget.NewFormItem(text(KeyLanguage), sd.languageSelect),
	)

	sd.dialog = dialog.NewCustomConfirm(
		text(KeySettings),
		text(KeySave),
		text(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsWidth, SettingsHeight))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.presetSelect.SetSelected(string(sd.settings.GetPreset()))
	sd.secondsEntry.SetText(strconv.Itoa(sd.settings.GetRingtoneSeconds()))
	sd.ytdlpEntry.SetText(sd.settings.GetYtDlpPath())
	sd.ffmpegEntry.SetText(sd.settings.GetFFmpegPath())
	sd.languageSelect.SetSelected(sd.settings.GetLanguageOptions()[sd.settings.GetLanguage()])
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave writes the edited values. Blank or unparsable fields keep their
// previous value.
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if dir := strings.TrimSpace(sd.downloadDirEntry.Text); dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}
	if sd.presetSelect.Selected != "" {
		sd.settings.SetPreset(config.Preset(sd.presetSelect.Selected))
	}
	if seconds, err := strconv.Atoi(strings.TrimSpace(sd.secondsEntry.Text)); err == nil {
		sd.settings.SetRingtoneSeconds(seconds)
	}
	sd.settings.SetYtDlpPath(strings.TrimSpace(sd.ytdlpEntry.Text))
	sd.settings.SetFFmpegPath(strings.TrimSpace(sd.ffmpegEntry.Text))
	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
