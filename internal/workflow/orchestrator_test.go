package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ytget/yt-ringtones/internal/config"
	"github.com/ytget/yt-ringtones/internal/download"
	"github.com/ytget/yt-ringtones/internal/model"
	"github.com/ytget/yt-ringtones/internal/platform"
	"github.com/ytget/yt-ringtones/internal/runner"
	"github.com/ytget/yt-ringtones/internal/transcode"
)

// fakeDownloader writes the video it claims to download
type fakeDownloader struct {
	mu         sync.Mutex
	calls      int
	result     runner.Result
	fileName   string // created inside req.Dir on success
	reportPath bool
	block      chan struct{}
	installErr error
}

func (f *fakeDownloader) Download(_ context.Context, req download.Request) download.Result {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}

	res := download.Result{Run: f.result}
	if f.result.OK() && f.fileName != "" {
		path := filepath.Join(req.Dir, f.fileName)
		_ = os.WriteFile(path, []byte("video"), 0o644)
		if f.reportPath {
			res.Path = path
		}
	}
	return res
}

func (f *fakeDownloader) Install(_ context.Context, _ bool) (download.Installed, error) {
	if f.installErr != nil {
		return download.Installed{}, f.installErr
	}
	return download.Installed{YtDlp: "/cache/yt-dlp"}, nil
}

func (f *fakeDownloader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeTranscoder writes the ringtone files unless told to fail
type fakeTranscoder struct {
	result      runner.Result
	skipOutput  bool
	androidFrom string
}

func (f *fakeTranscoder) MakeAndroid(_ context.Context, req transcode.Request) (string, runner.Result) {
	f.androidFrom = req.Input
	return f.write(transcode.AndroidRingtonePath(req.OutDir))
}

func (f *fakeTranscoder) MakeIphone(_ context.Context, req transcode.Request) (string, runner.Result) {
	return f.write(transcode.IphoneRingtonePath(req.OutDir))
}

func (f *fakeTranscoder) write(path string) (string, runner.Result) {
	if f.result.OK() && !f.skipOutput {
		_ = os.WriteFile(path, []byte("audio"), 0o644)
	}
	return path, f.result
}

type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) record(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func newTestOrchestrator(t *testing.T, dl *fakeDownloader, tc *fakeTranscoder) (*Orchestrator, *recorder, string) {
	t.Helper()
	dir := t.TempDir()
	rec := &recorder{}
	cfg := config.Config{DownloadDir: dir, Preset: config.PresetRingtone, RingtoneSeconds: 20}
	o := New(cfg, dl, tc, WithStatusListener(rec.record))
	t.Cleanup(func() { _ = o.Close() })
	return o, rec, dir
}

func okDownloader() *fakeDownloader {
	return &fakeDownloader{fileName: "Song Title.mp4", reportPath: true}
}

func TestDownloadEmptyURL(t *testing.T) {
	dl := okDownloader()
	o, rec, _ := newTestOrchestrator(t, dl, &fakeTranscoder{})

	for _, url := range []string{"", "   ", "\n\t"} {
		outcome := o.Download(context.Background(), url)
		if outcome.Success || outcome.Kind != model.FailureInput {
			t.Errorf("Download(%q) = %+v, expected input failure", url, outcome)
		}
		if outcome.Message != MsgNoURL {
			t.Errorf("Download(%q) message = %q, expected %q", url, outcome.Message, MsgNoURL)
		}
	}
	if dl.callCount() != 0 {
		t.Errorf("downloader called %d times, expected none", dl.callCount())
	}
	if msgs := rec.all(); len(msgs) != 3 || msgs[0] != MsgNoURL {
		t.Errorf("status messages = %v", msgs)
	}
}

func TestDownloadSuccess(t *testing.T) {
	o, rec, dir := newTestOrchestrator(t, okDownloader(), &fakeTranscoder{})
	url := "https://www.youtube.com/watch?v=abc"
	video := filepath.Join(dir, "Song Title.mp4")

	outcome := o.Download(context.Background(), url)

	if !outcome.Success {
		t.Fatalf("Download() = %+v, expected success", outcome)
	}
	if outcome.OutputPath != video {
		t.Errorf("OutputPath = %q, expected %q", outcome.OutputPath, video)
	}
	expected := []string{
		fmt.Sprintf(MsgDownloadStarted, url),
		fmt.Sprintf(MsgVideoDownloaded, video),
	}
	if got := rec.all(); strings.Join(got, "\n") != strings.Join(expected, "\n") {
		t.Errorf("status messages = %v, expected %v", got, expected)
	}

	readme, err := os.ReadFile(filepath.Join(dir, platform.ReadmeFileName))
	if err != nil {
		t.Fatalf("readme not written: %v", err)
	}
	if string(readme) != platform.ReadmeText {
		t.Errorf("readme = %q, expected fixed text", string(readme))
	}

	ready := o.Ready()
	if !ready.CanMakeAndroid() || ready.CanMakeIphone() {
		t.Errorf("Ready() = %+v, expected only the Android step", ready)
	}
	if o.State() != StateIdle {
		t.Errorf("State() = %s, expected idle", o.State())
	}
}

func TestDownloadWritesStatusLog(t *testing.T) {
	o, _, dir := newTestOrchestrator(t, okDownloader(), &fakeTranscoder{})

	o.Download(context.Background(), "")
	o.Download(context.Background(), "https://youtu.be/x")
	if err := o.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, config.DefaultStatusLogName))
	if err != nil {
		t.Fatalf("read status log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("status log has %d lines, expected 3:\n%s", len(lines), data)
	}
	if !strings.HasSuffix(lines[0], MsgNoURL) {
		t.Errorf("first entry = %q, expected %q", lines[0], MsgNoURL)
	}
}

func TestReportAppendsToStatusLog(t *testing.T) {
	o, rec, dir := newTestOrchestrator(t, okDownloader(), &fakeTranscoder{})

	o.Report("Cleared input field")
	if err := o.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, config.DefaultStatusLogName))
	if err != nil {
		t.Fatalf("read status log: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(string(data)), "Cleared input field") {
		t.Errorf("status log = %q", data)
	}
	if msgs := rec.all(); len(msgs) != 0 {
		t.Errorf("listener received %v, expected nothing for a report", msgs)
	}
}

func TestJobStatusLoggedOnFinish(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dl := okDownloader()
	cfg := config.Config{DownloadDir: t.TempDir(), Preset: config.PresetRingtone, RingtoneSeconds: 20}
	o := New(cfg, dl, &fakeTranscoder{}, WithLogger(zap.New(core)))
	t.Cleanup(func() { _ = o.Close() })

	o.Download(context.Background(), "https://www.youtube.com/watch?v=abc")
	dl.result = runner.Result{ExitCode: 1, Stderr: "ERROR: Video unavailable"}
	o.Download(context.Background(), "https://www.youtube.com/watch?v=def")

	finished := logs.FilterMessage("job finished").All()
	if len(finished) != 2 {
		t.Fatalf("job finished entries = %d, expected 2", len(finished))
	}
	for i, expected := range []string{"Completed", "Error"} {
		if got := finished[i].ContextMap()["status"]; got != expected {
			t.Errorf("entry %d status = %v, expected %s", i, got, expected)
		}
	}
	if n := logs.FilterMessage("job released before finishing").Len(); n != 0 {
		t.Errorf("released unfinished jobs = %d, expected none", n)
	}
}

func TestDownloadExitError(t *testing.T) {
	dl := &fakeDownloader{result: runner.Result{ExitCode: 1, Stderr: "ERROR: Unsupported URL: x\n"}}
	o, _, _ := newTestOrchestrator(t, dl, &fakeTranscoder{})

	outcome := o.Download(context.Background(), "x")

	if outcome.Success || outcome.Kind != model.FailureExitCode {
		t.Fatalf("Download() = %+v, expected exit code failure", outcome)
	}
	if want := fmt.Sprintf(MsgDownloadError, "ERROR: Unsupported URL: x"); outcome.Message != want {
		t.Errorf("message = %q, expected %q", outcome.Message, want)
	}
	if o.Ready().CanMakeAndroid() {
		t.Error("Android step should stay disabled after a failed download")
	}
}

func TestFailedDownloadForgetsPreviousFiles(t *testing.T) {
	dl := okDownloader()
	o, _, _ := newTestOrchestrator(t, dl, &fakeTranscoder{})
	ctx := context.Background()

	if outcome := o.Download(ctx, "https://youtu.be/first"); !outcome.Success {
		t.Fatalf("first Download() = %+v", outcome)
	}
	if outcome := o.MakeAndroidRingtone(ctx); !outcome.Success {
		t.Fatalf("MakeAndroidRingtone() = %+v", outcome)
	}

	// Rejected before launch: the previous files stay usable
	o.Download(ctx, "  ")
	if ready := o.Ready(); !ready.CanMakeAndroid() || !ready.CanMakeIphone() {
		t.Errorf("Ready() after empty URL = %+v, expected both steps", ready)
	}

	dl.result = runner.Result{ExitCode: 1, Stderr: "ERROR: Video unavailable"}
	if outcome := o.Download(ctx, "https://youtu.be/second"); outcome.Success {
		t.Fatalf("second Download() = %+v, expected failure", outcome)
	}

	ready := o.Ready()
	if ready.CanMakeAndroid() || ready.Video != "" {
		t.Errorf("Ready() after failed download = %+v, expected no video", ready)
	}
	if ready.CanMakeIphone() {
		t.Errorf("Ready() after failed download = %+v, expected no Android ringtone", ready)
	}
}

func TestDownloadToolMissing(t *testing.T) {
	dl := &fakeDownloader{result: runner.Result{
		ExitCode: runner.ExitCodeNotStarted,
		Err:      fmt.Errorf("run yt-dlp: %w", exec.ErrNotFound),
	}}
	o, _, _ := newTestOrchestrator(t, dl, &fakeTranscoder{})

	outcome := o.Download(context.Background(), "https://youtu.be/x")

	if outcome.Kind != model.FailureToolMissing {
		t.Fatalf("Kind = %s, expected tool_missing", outcome.Kind)
	}
	if !strings.HasPrefix(outcome.Message, "Failed to process: ") {
		t.Errorf("message = %q", outcome.Message)
	}
}

func TestDownloadFallsBackToDirectoryScan(t *testing.T) {
	dl := &fakeDownloader{fileName: "only.mp4", reportPath: false}
	o, _, dir := newTestOrchestrator(t, dl, &fakeTranscoder{})

	outcome := o.Download(context.Background(), "https://youtu.be/x")

	if !outcome.Success || outcome.OutputPath != filepath.Join(dir, "only.mp4") {
		t.Errorf("Download() = %+v, expected the single mp4 in the folder", outcome)
	}
}

func TestDownloadVideoNotFound(t *testing.T) {
	dl := &fakeDownloader{}
	o, _, _ := newTestOrchestrator(t, dl, &fakeTranscoder{})

	outcome := o.Download(context.Background(), "https://youtu.be/x")

	if outcome.Kind != model.FailureOutputMissing || outcome.Message != MsgVideoNotFound {
		t.Errorf("Download() = %+v, expected %q", outcome, MsgVideoNotFound)
	}
}

func TestRingtoneChain(t *testing.T) {
	tc := &fakeTranscoder{}
	o, rec, dir := newTestOrchestrator(t, okDownloader(), tc)
	ctx := context.Background()

	if outcome := o.Download(ctx, "https://youtu.be/x"); !outcome.Success {
		t.Fatalf("Download() = %+v", outcome)
	}

	android := o.MakeAndroidRingtone(ctx)
	if !android.Success || android.Message != MsgAndroidCreated {
		t.Fatalf("MakeAndroidRingtone() = %+v", android)
	}
	if android.OutputPath != filepath.Join(dir, transcode.AndroidRingtoneName) {
		t.Errorf("Android OutputPath = %q", android.OutputPath)
	}
	if tc.androidFrom != filepath.Join(dir, "Song Title.mp4") {
		t.Errorf("Android source = %q, expected the downloaded video", tc.androidFrom)
	}
	if !o.Ready().CanMakeIphone() {
		t.Error("iPhone step should be enabled after the Android ringtone")
	}

	iphone := o.MakeIphoneRingtone(ctx)
	if !iphone.Success || iphone.Message != MsgIphoneCreated {
		t.Fatalf("MakeIphoneRingtone() = %+v", iphone)
	}
	if !platform.FileExists(filepath.Join(dir, transcode.IphoneRingtoneName)) {
		t.Error("iPhone ringtone not written")
	}

	msgs := rec.all()
	for _, want := range []string{MsgAndroidStarted, MsgAndroidCreated, MsgIphoneStarted, MsgIphoneCreated} {
		found := false
		for _, m := range msgs {
			if m == want {
				found = true
			}
		}
		if !found {
			t.Errorf("status %q missing from %v", want, msgs)
		}
	}
}

func TestAndroidWithoutVideo(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, okDownloader(), &fakeTranscoder{})

	outcome := o.MakeAndroidRingtone(context.Background())

	if outcome.Kind != model.FailureOutputMissing || outcome.Message != MsgAndroidNoVideo {
		t.Errorf("MakeAndroidRingtone() = %+v, expected %q", outcome, MsgAndroidNoVideo)
	}
}

func TestAndroidUsesExplicitVideo(t *testing.T) {
	tc := &fakeTranscoder{}
	o, _, _ := newTestOrchestrator(t, okDownloader(), tc)
	video := filepath.Join(t.TempDir(), "elsewhere.mp4")
	if err := os.WriteFile(video, []byte("v"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := o.UseVideo(filepath.Join(t.TempDir(), "missing.mp4")); !errors.Is(err, platform.ErrNotFound) {
		t.Errorf("UseVideo(missing) error = %v, expected ErrNotFound", err)
	}
	if err := o.UseVideo(video); err != nil {
		t.Fatalf("UseVideo() error = %v", err)
	}

	if outcome := o.MakeAndroidRingtone(context.Background()); !outcome.Success {
		t.Fatalf("MakeAndroidRingtone() = %+v", outcome)
	}
	if tc.androidFrom != video {
		t.Errorf("Android source = %q, expected %q", tc.androidFrom, video)
	}
}

func TestAndroidFailures(t *testing.T) {
	tests := []struct {
		name string
		tc   *fakeTranscoder
		kind model.FailureKind
		want string
	}{
		{
			name: "exit code",
			tc:   &fakeTranscoder{result: runner.Result{ExitCode: 1, Stderr: "Output file is empty\n"}},
			kind: model.FailureExitCode,
			want: fmt.Sprintf(MsgAndroidError, "Output file is empty"),
		},
		{
			name: "tool missing",
			tc:   &fakeTranscoder{result: runner.Result{ExitCode: runner.ExitCodeNotStarted, Err: exec.ErrNotFound}},
			kind: model.FailureToolMissing,
			want: fmt.Sprintf(MsgFailedToProcess, exec.ErrNotFound),
		},
		{
			name: "no output",
			tc:   &fakeTranscoder{skipOutput: true},
			kind: model.FailureOutputMissing,
			want: fmt.Sprintf(MsgAndroidError, MsgOutputMissing),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _, _ := newTestOrchestrator(t, okDownloader(), tt.tc)
			if outcome := o.Download(context.Background(), "u"); !outcome.Success {
				t.Fatalf("Download() = %+v", outcome)
			}

			outcome := o.MakeAndroidRingtone(context.Background())
			if outcome.Success || outcome.Kind != tt.kind || outcome.Message != tt.want {
				t.Errorf("MakeAndroidRingtone() = %+v, expected %s %q", outcome, tt.kind, tt.want)
			}
			if o.Ready().CanMakeIphone() {
				t.Error("iPhone step should stay disabled")
			}
		})
	}
}

func TestIphoneWithoutAndroid(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, okDownloader(), &fakeTranscoder{})

	outcome := o.MakeIphoneRingtone(context.Background())

	if outcome.Kind != model.FailureOutputMissing || outcome.Message != MsgIphoneNoAndroid {
		t.Errorf("MakeIphoneRingtone() = %+v, expected %q", outcome, MsgIphoneNoAndroid)
	}
}

func TestStartRejectsWhileBusy(t *testing.T) {
	dl := okDownloader()
	dl.block = make(chan struct{})
	o, _, _ := newTestOrchestrator(t, dl, &fakeTranscoder{})

	done := make(chan model.Outcome, 1)
	id, err := o.Start(context.Background(), model.OpDownload, "https://youtu.be/a", nil, func(out model.Outcome) {
		done <- out
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !strings.HasPrefix(id, model.DownloadIDPrefix) {
		t.Errorf("job id = %q, expected download prefix", id)
	}
	if o.State() != StateDownloading {
		t.Errorf("State() = %s, expected downloading", o.State())
	}

	if _, err := o.Start(context.Background(), model.OpAndroidRingtone, "", nil, nil); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start() error = %v, expected ErrBusy", err)
	}
	if outcome := o.Download(context.Background(), "https://youtu.be/b"); outcome.Kind != model.FailureBusy {
		t.Errorf("Download() while busy = %+v, expected busy", outcome)
	}
	if err := o.SetConfig(o.Config()); !errors.Is(err, ErrBusy) {
		t.Errorf("SetConfig() while busy error = %v, expected ErrBusy", err)
	}

	close(dl.block)
	select {
	case out := <-done:
		if !out.Success || out.JobID != id {
			t.Errorf("outcome = %+v, expected success for %s", out, id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("job did not finish")
	}

	if dl.callCount() != 1 {
		t.Errorf("downloader called %d times, expected 1", dl.callCount())
	}
	if _, err := o.Start(context.Background(), model.OpAndroidRingtone, "", nil, func(out model.Outcome) {
		done <- out
	}); err != nil {
		t.Fatalf("Start() after completion error = %v", err)
	}
	select {
	case out := <-done:
		if !out.Success {
			t.Errorf("Android outcome = %+v, expected success", out)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Android job did not finish")
	}
}

func TestStartUnknownOperation(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, okDownloader(), &fakeTranscoder{})

	if _, err := o.Start(context.Background(), model.Operation("compress"), "", nil, nil); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("Start() error = %v, expected ErrUnknownOperation", err)
	}
}

func TestFolderLockedByAnotherProcess(t *testing.T) {
	dl := okDownloader()
	o, _, dir := newTestOrchestrator(t, dl, &fakeTranscoder{})

	other := flock.New(filepath.Join(dir, LockFileName))
	ok, err := other.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock() = %v, %v", ok, err)
	}
	defer other.Unlock()

	outcome := o.Download(context.Background(), "https://youtu.be/x")
	if outcome.Kind != model.FailureBusy || outcome.Message != MsgFolderLocked {
		t.Errorf("Download() = %+v, expected folder locked", outcome)
	}
	if dl.callCount() != 0 {
		t.Error("downloader should not run while the folder is locked")
	}
}

func TestInstallDownloader(t *testing.T) {
	o, rec, _ := newTestOrchestrator(t, okDownloader(), &fakeTranscoder{})

	outcome := o.InstallDownloader(context.Background())
	if !outcome.Success || outcome.Message != MsgInstalled || outcome.OutputPath != "/cache/yt-dlp" {
		t.Errorf("InstallDownloader() = %+v", outcome)
	}
	if msgs := rec.all(); len(msgs) != 2 || msgs[0] != MsgInstallStarted {
		t.Errorf("status messages = %v", msgs)
	}

	failing := &fakeDownloader{installErr: errors.New("no network")}
	o2, _, _ := newTestOrchestrator(t, failing, &fakeTranscoder{})
	outcome = o2.InstallDownloader(context.Background())
	if outcome.Success || outcome.Message != fmt.Sprintf(MsgInstallError, "no network") {
		t.Errorf("InstallDownloader() = %+v, expected install error", outcome)
	}
}

func TestSetConfigSwitchesFolder(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, okDownloader(), &fakeTranscoder{})
	if outcome := o.Download(context.Background(), "u"); !outcome.Success {
		t.Fatalf("Download() = %+v", outcome)
	}

	cfg := o.Config()
	cfg.DownloadDir = t.TempDir()
	if err := o.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	if o.Ready().CanMakeAndroid() {
		t.Error("switching folders should forget the previous video")
	}

	cfg.RingtoneSeconds = 99
	if err := o.SetConfig(cfg); err == nil {
		t.Error("SetConfig() should validate the new config")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateIdle, "idle"},
		{StateDownloading, "downloading"},
		{StateMakingAndroidRingtone, "making_android_ringtone"},
		{StateMakingIphoneRingtone, "making_iphone_ringtone"},
		{StateInstallingDownloader, "installing_downloader"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %q, expected %q", tt.state, got, tt.expected)
		}
	}
}
