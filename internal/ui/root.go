package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/yt-ringtones/internal/config"
	"github.com/ytget/yt-ringtones/internal/model"
	"github.com/ytget/yt-ringtones/internal/platform"
	"github.com/ytget/yt-ringtones/internal/workflow"
)

// Workflow is the part of the orchestrator the window drives
type Workflow interface {
	Start(ctx context.Context, op model.Operation, url string, onStatus workflow.StatusFunc, onDone workflow.DoneFunc) (string, error)
	Ready() workflow.Readiness
	Config() config.Config
	SetConfig(cfg config.Config) error
	Report(message string)
}

// RootUI represents the main window
type RootUI struct {
	window       fyne.Window
	clipboard    fyne.Clipboard
	workflow     Workflow
	launcher     platform.Launcher
	settings     *config.Settings
	localization *Localization
	logger       *zap.Logger

	urlEntry       *widget.Entry
	downloadBtn    *widget.Button
	androidBtn     *widget.Button
	iphoneBtn      *widget.Button
	openFolderBtn  *widget.Button
	pasteBtn       *widget.Button
	resetBtn       *widget.Button
	installBtn     *widget.Button
	settingsBtn    *widget.Button
	statusTitle    *widget.Label
	statusText     *widget.Label
	statusScroll   *container.Scroll
	activity       *widget.ProgressBarInfinite
	settingsDialog *SettingsDialog

	// busy is only touched on the UI goroutine
	busy  bool
	lines []string
}

// NewRootUI builds the window content. wf must be configured from the same
// preferences that app exposes.
func NewRootUI(window fyne.Window, app fyne.App, wf Workflow, launcher platform.Launcher, logger *zap.Logger) *RootUI {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		clipboard:    app.Clipboard(),
		workflow:     wf,
		launcher:     launcher,
		settings:     settings,
		localization: localization,
		logger:       logger,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	ui.refreshButtons()

	logger.Debug("main window ready", zap.String("language", localization.GetCurrentLanguage()))
	return ui
}

func (ui *RootUI) setupUI() {
	ui.createMenu()
	text := ui.localization.GetText

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(text(KeyEnterURL))
	ui.urlEntry.Validator = validateURL
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onDownloadClick()
	}

	ui.downloadBtn = widget.NewButton(text(KeyDownloadVideo), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.androidBtn = widget.NewButton(text(KeyAndroidRingtone), ui.onAndroidClick)
	ui.iphoneBtn = widget.NewButton(text(KeyIphoneRingtone), ui.onIphoneClick)
	ui.openFolderBtn = widget.NewButton(text(KeyOpenFolder), ui.onOpenFolderClick)
	ui.pasteBtn = widget.NewButton(text(KeyPasteURL), ui.onPasteClick)
	ui.resetBtn = widget.NewButton(text(KeyReset), ui.onResetClick)
	ui.installBtn = widget.NewButton(text(KeyInstallDownloader), ui.onInstallClick)
	ui.installBtn.Importance = widget.LowImportance

	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance

	left := container.NewHBox(ui.settingsBtn)
	if logo, err := LoadLogoResource(); err == nil {
		logoImage := canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(LogoSize, LogoSize))
		logoImage.FillMode = canvas.ImageFillContain
		left = container.NewHBox(logoImage, ui.settingsBtn)
	}
	urlRow := container.NewBorder(nil, nil, left, ui.pasteBtn, ui.urlEntry)

	steps := container.NewGridWithColumns(3, ui.downloadBtn, ui.androidBtn, ui.iphoneBtn)
	tools := container.NewGridWithColumns(3, ui.openFolderBtn, ui.resetBtn, ui.installBtn)

	ui.activity = widget.NewProgressBarInfinite()
	ui.activity.Stop()
	ui.activity.Hide()

	ui.statusTitle = widget.NewLabelWithStyle(text(KeyStatus), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	ui.statusText = widget.NewLabel("")
	ui.statusText.Wrapping = fyne.TextWrapWord
	ui.statusScroll = container.NewVScroll(ui.statusText)
	ui.statusScroll.SetMinSize(fyne.NewSize(0, StatusMinHeight))

	top := container.NewVBox(urlRow, steps, tools, ui.activity, ui.statusTitle)
	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, ui.statusScroll))
}

func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))

	available := ui.localization.GetAvailableLanguages()
	for _, code := range languageOrder {
		name, ok := available[code]
		if !ok {
			continue
		}
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

func (ui *RootUI) onLanguageChange(code string) {
	ui.localization.SetLanguage(code)
	ui.settings.SetLanguage(code)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	text := ui.localization.GetText
	ui.window.SetTitle(text(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(text(KeyEnterURL))
	ui.downloadBtn.SetText(text(KeyDownloadVideo))
	ui.androidBtn.SetText(text(KeyAndroidRingtone))
	ui.iphoneBtn.SetText(text(KeyIphoneRingtone))
	ui.openFolderBtn.SetText(text(KeyOpenFolder))
	ui.pasteBtn.SetText(text(KeyPasteURL))
	ui.resetBtn.SetText(text(KeyReset))
	ui.installBtn.SetText(text(KeyInstallDownloader))
	ui.statusTitle.SetText(text(KeyStatus))
	ui.settingsDialog = nil
}

// validateURL accepts empty input so the field is not flagged before typing
func validateURL(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return err
	}
	if parsed.Scheme != SchemeHTTP && parsed.Scheme != SchemeHTTPS {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}

// onDownloadClick leaves the empty-URL check to the workflow so the message
// and the status log entry stay identical to the CLI
func (ui *RootUI) onDownloadClick() {
	target := model.CleanURL(ui.urlEntry.Text)
	if target != "" {
		if err := validateURL(target); err != nil {
			ui.report(fmt.Sprintf(ui.localization.GetText(KeyInvalidURL), err))
			return
		}
	}
	ui.startOperation(model.OpDownload, target)
}

func (ui *RootUI) onAndroidClick() {
	ui.startOperation(model.OpAndroidRingtone, "")
}

func (ui *RootUI) onIphoneClick() {
	ui.startOperation(model.OpIphoneRingtone, "")
}

func (ui *RootUI) onInstallClick() {
	ui.startOperation(model.OpInstallDownloader, "")
}

// startOperation marks the window busy before starting, because the done
// callback may run before Start returns
func (ui *RootUI) startOperation(op model.Operation, target string) {
	if ui.busy {
		ui.report(ui.localization.GetText(KeyBusy))
		return
	}

	ui.setBusy(true)
	jobID, err := ui.workflow.Start(context.Background(), op, target, ui.onStatus, ui.onDone)
	if err != nil {
		ui.setBusy(false)
		if errors.Is(err, workflow.ErrBusy) {
			ui.report(ui.localization.GetText(KeyBusy))
			return
		}
		ui.report(err.Error())
		return
	}
	ui.logger.Debug("job started", zap.String("job_id", jobID), zap.String("operation", op.String()))
}

// onStatus runs on the worker goroutine
func (ui *RootUI) onStatus(message string) {
	fyne.Do(func() {
		ui.appendStatus(message)
	})
}

// onDone runs on the worker goroutine
func (ui *RootUI) onDone(outcome model.Outcome) {
	fyne.Do(func() {
		ui.applyOutcome(outcome)
	})
}

// applyOutcome re-enables the window. An installed yt-dlp becomes the
// configured executable.
func (ui *RootUI) applyOutcome(outcome model.Outcome) {
	ui.setBusy(false)
	ui.logger.Debug("job finished",
		zap.String("job_id", outcome.JobID),
		zap.Bool("success", outcome.Success),
		zap.String("kind", outcome.Kind.String()))

	if outcome.Success && outcome.Operation == model.OpInstallDownloader && outcome.OutputPath != "" {
		ui.settings.SetYtDlpPath(outcome.OutputPath)
		ui.applySettings(false)
	}
	ui.refreshButtons()
}

func (ui *RootUI) onOpenFolderClick() {
	dir := ui.workflow.Config().DownloadDir
	err := platform.CreateDirectoryIfNotExists(dir)
	if err == nil {
		err = platform.OpenFolder(ui.launcher, dir)
	}
	if err != nil {
		ui.report(fmt.Sprintf(ui.localization.GetText(KeyOpenFolderFailed), err))
	}
}

// onPasteClick replaces the URL field with the clipboard text. An empty
// clipboard leaves the field untouched.
func (ui *RootUI) onPasteClick() {
	content := ""
	if ui.clipboard != nil {
		content = model.CleanURL(ui.clipboard.Content())
	}
	if content == "" {
		ui.report(ui.localization.GetText(KeyClipboardEmpty))
		return
	}
	ui.urlEntry.SetText(content)
	ui.report(ui.localization.GetText(KeyURLAdded))
}

func (ui *RootUI) onResetClick() {
	ui.urlEntry.SetText("")
	ui.report(ui.localization.GetText(KeyInputCleared))
}

func (ui *RootUI) onShowSettings() {
	if ui.settingsDialog == nil {
		ui.settingsDialog = NewSettingsDialog(ui.settings, ui.localization, ui.window, func() {
			ui.applySettings(true)
		})
	}
	ui.settingsDialog.Show()
}

// applySettings hands the saved preferences to the workflow and switches
// the language when it changed
func (ui *RootUI) applySettings(announce bool) {
	if err := ui.workflow.SetConfig(ui.settings.Config()); err != nil {
		ui.report(fmt.Sprintf(ui.localization.GetText(KeySettingsRejected), err))
		return
	}

	before := ui.localization.GetCurrentLanguage()
	ui.localization.SetLanguage(ui.settings.GetLanguage())
	if ui.localization.GetCurrentLanguage() != before {
		ui.refreshUITexts()
		ui.createMenu()
	}
	ui.refreshButtons()
	if announce {
		ui.report(ui.localization.GetText(KeySettingsSaved))
	}
}

func (ui *RootUI) setBusy(busy bool) {
	ui.busy = busy
	if busy {
		ui.activity.Show()
		ui.activity.Start()
	} else {
		ui.activity.Stop()
		ui.activity.Hide()
	}
	ui.refreshButtons()
}

// refreshButtons enables each ringtone step only when its input exists
func (ui *RootUI) refreshButtons() {
	ready := ui.workflow.Ready()
	busy := ui.busy || ready.Busy

	setEnabled(ui.downloadBtn, !busy)
	setEnabled(ui.installBtn, !busy)
	setEnabled(ui.settingsBtn, !busy)
	setEnabled(ui.androidBtn, !busy && ready.CanMakeAndroid())
	setEnabled(ui.iphoneBtn, !busy && ready.CanMakeIphone())
}

func setEnabled(btn *widget.Button, enabled bool) {
	if enabled {
		btn.Enable()
	} else {
		btn.Disable()
	}
}

// report shows a message produced by the window itself and records it in
// the status log like the workflow's own messages
func (ui *RootUI) report(message string) {
	ui.workflow.Report(message)
	ui.appendStatus(message)
}

func (ui *RootUI) appendStatus(message string) {
	ui.lines = append(ui.lines, message)
	ui.statusText.SetText(strings.Join(ui.lines, "\n"))
	ui.statusScroll.ScrollToBottom()
}
