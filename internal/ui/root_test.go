package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/ytget/yt-ringtones/internal/config"
	"github.com/ytget/yt-ringtones/internal/model"
	"github.com/ytget/yt-ringtones/internal/workflow"
)

// fakeWorkflow finishes every job synchronously inside Start
type fakeWorkflow struct {
	mu         sync.Mutex
	cfg        config.Config
	ready      workflow.Readiness
	readyAfter workflow.Readiness
	statuses   []string
	outcome    model.Outcome
	startErr   error
	started    []model.Operation
	urls       []string
	reports    []string
	configs    []config.Config
}

func (f *fakeWorkflow) Start(_ context.Context, op model.Operation, url string, onStatus workflow.StatusFunc, onDone workflow.DoneFunc) (string, error) {
	f.mu.Lock()
	if f.startErr != nil {
		f.mu.Unlock()
		return "", f.startErr
	}
	f.started = append(f.started, op)
	f.urls = append(f.urls, url)
	f.ready = f.readyAfter
	outcome := f.outcome
	outcome.Operation = op
	statuses := append([]string(nil), f.statuses...)
	f.mu.Unlock()

	for _, status := range statuses {
		onStatus(status)
	}
	onDone(outcome)
	return "job-1", nil
}

func (f *fakeWorkflow) Ready() workflow.Readiness {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *fakeWorkflow) Config() config.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

func (f *fakeWorkflow) SetConfig(cfg config.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs = append(f.configs, cfg)
	f.cfg = cfg
	return nil
}

func (f *fakeWorkflow) Report(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, message)
}

type fakeLauncher struct {
	name string
	args []string
	err  error
}

func (l *fakeLauncher) Start(name string, args ...string) error {
	l.name = name
	l.args = args
	return l.err
}

func newTestUI(t *testing.T, wf *fakeWorkflow) (*RootUI, fyne.App) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	a.Preferences().SetString(config.KeyLanguage, LanguageEnglish)
	if wf.cfg.DownloadDir == "" {
		wf.cfg = config.Config{DownloadDir: t.TempDir()}.WithDefaults()
	}
	w := test.NewWindow(nil)
	t.Cleanup(w.Close)
	return NewRootUI(w, a, wf, &fakeLauncher{}, nil), a
}

func TestRingtoneButtonsDisabledInitially(t *testing.T) {
	ui, _ := newTestUI(t, &fakeWorkflow{})

	if ui.downloadBtn.Disabled() {
		t.Error("download button should be enabled")
	}
	if !ui.androidBtn.Disabled() || !ui.iphoneBtn.Disabled() {
		t.Error("ringtone buttons should start disabled")
	}
}

func TestEmptyURLReportsStatus(t *testing.T) {
	wf := &fakeWorkflow{
		statuses: []string{workflow.MsgNoURL},
		outcome:  model.Outcome{Kind: model.FailureInput, Message: workflow.MsgNoURL},
	}
	ui, _ := newTestUI(t, wf)

	test.Tap(ui.downloadBtn)

	if len(wf.urls) != 1 || wf.urls[0] != "" {
		t.Errorf("Start() urls = %q, expected one empty url", wf.urls)
	}
	if ui.statusText.Text != workflow.MsgNoURL {
		t.Errorf("status = %q, expected %q", ui.statusText.Text, workflow.MsgNoURL)
	}
	if !ui.androidBtn.Disabled() {
		t.Error("android button should stay disabled")
	}
}

func TestDownloadSuccessEnablesAndroid(t *testing.T) {
	wf := &fakeWorkflow{
		statuses:   []string{"Started downloading video for: https://youtu.be/abc", "Video downloaded: /tmp/a.mp4"},
		outcome:    model.Outcome{Success: true, OutputPath: "/tmp/a.mp4"},
		readyAfter: workflow.Readiness{Video: "/tmp/a.mp4"},
	}
	ui, _ := newTestUI(t, wf)

	test.Type(ui.urlEntry, " https://youtu.be/abc ")
	test.Tap(ui.downloadBtn)

	if len(wf.started) != 1 || wf.started[0] != model.OpDownload {
		t.Fatalf("started = %v, expected one download", wf.started)
	}
	if wf.urls[0] != "https://youtu.be/abc" {
		t.Errorf("url = %q, expected trimmed url", wf.urls[0])
	}
	if ui.androidBtn.Disabled() {
		t.Error("android button should be enabled after a download")
	}
	if !ui.iphoneBtn.Disabled() {
		t.Error("iphone button should wait for the android ringtone")
	}
	if ui.downloadBtn.Disabled() || ui.activity.Visible() {
		t.Error("window should be idle after the job finished")
	}
	if !strings.HasSuffix(ui.statusText.Text, "Video downloaded: /tmp/a.mp4") {
		t.Errorf("status = %q", ui.statusText.Text)
	}
}

func TestDownloadFailureKeepsRingtonesDisabled(t *testing.T) {
	message := "Error downloading video: ERROR: Unsupported URL"
	wf := &fakeWorkflow{
		statuses: []string{message},
		outcome:  model.Outcome{Kind: model.FailureExitCode, Message: message},
	}
	ui, _ := newTestUI(t, wf)

	test.Type(ui.urlEntry, "https://example.com/nothing")
	test.Tap(ui.downloadBtn)

	if !ui.androidBtn.Disabled() || !ui.iphoneBtn.Disabled() {
		t.Error("ringtone buttons should stay disabled after a failed download")
	}
	if !strings.Contains(ui.statusText.Text, "Unsupported URL") {
		t.Errorf("status = %q, expected the tool's error text", ui.statusText.Text)
	}
}

func TestAndroidThenIphone(t *testing.T) {
	wf := &fakeWorkflow{
		ready:      workflow.Readiness{Video: "/tmp/a.mp4"},
		outcome:    model.Outcome{Success: true},
		readyAfter: workflow.Readiness{Video: "/tmp/a.mp4", AndroidRingtone: "/tmp/AndroidRingtone.mp3"},
	}
	ui, _ := newTestUI(t, wf)

	test.Tap(ui.androidBtn)
	if ui.iphoneBtn.Disabled() {
		t.Fatal("iphone button should be enabled after the android ringtone")
	}
	test.Tap(ui.iphoneBtn)

	expected := []model.Operation{model.OpAndroidRingtone, model.OpIphoneRingtone}
	if len(wf.started) != 2 || wf.started[0] != expected[0] || wf.started[1] != expected[1] {
		t.Errorf("started = %v, expected %v", wf.started, expected)
	}
}

func TestInvalidURLNotStarted(t *testing.T) {
	wf := &fakeWorkflow{}
	ui, _ := newTestUI(t, wf)

	test.Type(ui.urlEntry, "ftp://example.com/video")
	test.Tap(ui.downloadBtn)

	if len(wf.started) != 0 {
		t.Errorf("started = %v, expected nothing", wf.started)
	}
	if !strings.HasPrefix(ui.statusText.Text, "Invalid URL: ") {
		t.Errorf("status = %q", ui.statusText.Text)
	}
}

func TestBusyRejection(t *testing.T) {
	wf := &fakeWorkflow{startErr: workflow.ErrBusy}
	ui, _ := newTestUI(t, wf)

	test.Type(ui.urlEntry, "https://youtu.be/abc")
	test.Tap(ui.downloadBtn)

	if ui.statusText.Text != ui.localization.GetText(KeyBusy) {
		t.Errorf("status = %q, expected busy message", ui.statusText.Text)
	}
	if ui.downloadBtn.Disabled() {
		t.Error("download button should be enabled again after a rejected start")
	}
}

func TestPasteEmptyClipboard(t *testing.T) {
	wf := &fakeWorkflow{}
	ui, a := newTestUI(t, wf)
	a.Clipboard().SetContent("  ")
	ui.urlEntry.SetText("https://youtu.be/keep")

	test.Tap(ui.pasteBtn)

	if ui.urlEntry.Text != "https://youtu.be/keep" {
		t.Errorf("url entry = %q, expected it unchanged", ui.urlEntry.Text)
	}
	if ui.statusText.Text != "Clipboard is empty or inaccessible" {
		t.Errorf("status = %q", ui.statusText.Text)
	}
	if len(wf.reports) != 1 || wf.reports[0] != "Clipboard is empty or inaccessible" {
		t.Errorf("reports = %v, expected the message in the status log", wf.reports)
	}
}

func TestPasteClipboard(t *testing.T) {
	ui, a := newTestUI(t, &fakeWorkflow{})
	a.Clipboard().SetContent("https://youtu.be/abc\n")

	test.Tap(ui.pasteBtn)

	if ui.urlEntry.Text != "https://youtu.be/abc" {
		t.Errorf("url entry = %q", ui.urlEntry.Text)
	}
	if ui.statusText.Text != "Added URL from clipboard" {
		t.Errorf("status = %q", ui.statusText.Text)
	}
}

func TestResetClearsInput(t *testing.T) {
	ui, _ := newTestUI(t, &fakeWorkflow{})
	ui.urlEntry.SetText("https://youtu.be/abc")

	test.Tap(ui.resetBtn)

	if ui.urlEntry.Text != "" {
		t.Errorf("url entry = %q, expected empty", ui.urlEntry.Text)
	}
	if ui.statusText.Text != "Cleared input field" {
		t.Errorf("status = %q", ui.statusText.Text)
	}
}

func TestStatusAccumulates(t *testing.T) {
	ui, _ := newTestUI(t, &fakeWorkflow{})

	test.Tap(ui.resetBtn)
	test.Tap(ui.resetBtn)

	if ui.statusText.Text != "Cleared input field\nCleared input field" {
		t.Errorf("status = %q, expected two lines", ui.statusText.Text)
	}
}

func TestOpenFolderFailure(t *testing.T) {
	ui, _ := newTestUI(t, &fakeWorkflow{})
	launcher := &fakeLauncher{err: errors.New("no display")}
	ui.launcher = launcher

	test.Tap(ui.openFolderBtn)

	// Either the file manager lookup or the launcher fails; both are reported
	if !strings.HasPrefix(ui.statusText.Text, "Failed to open folder: ") {
		t.Errorf("status = %q, expected folder failure", ui.statusText.Text)
	}
}

func TestInstallSavesExecutable(t *testing.T) {
	wf := &fakeWorkflow{
		outcome: model.Outcome{Success: true, OutputPath: "/home/me/.cache/go-ytdlp/yt-dlp"},
	}
	ui, _ := newTestUI(t, wf)

	test.Tap(ui.installBtn)

	if got := ui.settings.GetYtDlpPath(); got != "/home/me/.cache/go-ytdlp/yt-dlp" {
		t.Errorf("yt-dlp path = %q", got)
	}
	if len(wf.configs) != 1 || wf.configs[0].YtDlpPath != "/home/me/.cache/go-ytdlp/yt-dlp" {
		t.Errorf("SetConfig() calls = %+v, expected the installed executable", wf.configs)
	}
}

func TestLanguageChangeRefreshesTexts(t *testing.T) {
	ui, a := newTestUI(t, &fakeWorkflow{})

	ui.onLanguageChange(LanguageRussian)

	if ui.downloadBtn.Text != "Скачать видео" {
		t.Errorf("download button = %q, expected Russian text", ui.downloadBtn.Text)
	}
	if got := a.Preferences().String(config.KeyLanguage); got != LanguageRussian {
		t.Errorf("stored language = %q", got)
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"   ", false},
		{"https://www.youtube.com/watch?v=abc", false},
		{"http://youtu.be/abc", false},
		{"ftp://example.com", true},
		{"youtube.com/watch?v=abc", true},
	}

	for _, tt := range tests {
		if err := validateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("validateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
