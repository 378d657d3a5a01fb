package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/yt-ringtones/internal/config"
	"github.com/ytget/yt-ringtones/internal/download"
	"github.com/ytget/yt-ringtones/internal/logging"
	"github.com/ytget/yt-ringtones/internal/model"
	"github.com/ytget/yt-ringtones/internal/platform"
	"github.com/ytget/yt-ringtones/internal/transcode"
)

// VideoExtension is what the downloader presets produce
const VideoExtension = ".mp4"

var (
	// ErrBusy is returned by Start while another job is active
	ErrBusy = errors.New("another operation is in progress")
	// ErrUnknownOperation is returned for operations the orchestrator does not run
	ErrUnknownOperation = errors.New("unknown operation")
)

// StatusFunc receives status messages as they are produced
type StatusFunc func(message string)

// DoneFunc receives the final outcome of an asynchronous job
type DoneFunc func(outcome model.Outcome)

// Orchestrator runs one operation at a time against a fixed configuration
type Orchestrator struct {
	downloader download.Downloader
	transcoder transcode.Transcoder
	logger     *zap.Logger
	listener   StatusFunc
	withFFmpeg bool

	mu          sync.Mutex
	cfg         config.Config
	statusLog   *logging.StatusLog
	active      *model.Job
	lastVideo   string
	lastAndroid string
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStatusListener receives every status message of every job
func WithStatusListener(fn StatusFunc) Option {
	return func(o *Orchestrator) {
		o.listener = fn
	}
}

// WithFFmpegInstall makes InstallDownloader also install ffmpeg and ffprobe
func WithFFmpegInstall(enabled bool) Option {
	return func(o *Orchestrator) {
		o.withFFmpeg = enabled
	}
}

// New creates an orchestrator for cfg. The status log at cfg.StatusLogPath()
// is opened right away; when that fails messages still reach the logger.
func New(cfg config.Config, downloader download.Downloader, transcoder transcode.Transcoder, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		downloader: downloader,
		transcoder: transcoder,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.cfg = cfg.WithDefaults()
	o.statusLog = o.openStatusLog(o.cfg)
	return o
}

// Config returns the configuration operations run with
func (o *Orchestrator) Config() config.Config {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cfg
}

// SetConfig replaces the configuration between jobs. Switching the downloads
// directory forgets the files produced in the old one.
func (o *Orchestrator) SetConfig(cfg config.Config) error {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil {
		return ErrBusy
	}
	if cfg.DownloadDir != o.cfg.DownloadDir {
		o.lastVideo = ""
		o.lastAndroid = ""
	}
	if cfg.StatusLogPath() != o.cfg.StatusLogPath() {
		_ = o.statusLog.Close()
		o.statusLog = o.openStatusLog(cfg)
	}
	o.cfg = cfg
	return nil
}

// Close releases the status log
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	err := o.statusLog.Close()
	o.statusLog = nil
	return err
}

// State returns what the orchestrator is doing
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return StateIdle
	}
	return stateFor(o.active.Operation)
}

// Ready reports which follow-up steps are currently allowed. Only files this
// orchestrator produced count, so the ringtone steps unlock in order.
func (o *Orchestrator) Ready() Readiness {
	o.mu.Lock()
	defer o.mu.Unlock()

	r := Readiness{State: StateIdle}
	if o.active != nil {
		r.Busy = true
		r.State = stateFor(o.active.Operation)
	}
	if platform.FileExists(o.lastVideo) {
		r.Video = o.lastVideo
	}
	if platform.FileExists(o.lastAndroid) {
		r.AndroidRingtone = o.lastAndroid
	}
	return r
}

// UseVideo selects an existing video as the Android ringtone source
func (o *Orchestrator) UseVideo(path string) error {
	if !platform.FileExists(path) {
		return fmt.Errorf("video %s: %w", path, platform.ErrNotFound)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastVideo = path
	return nil
}

// Download fetches url into the downloads directory
func (o *Orchestrator) Download(ctx context.Context, url string) model.Outcome {
	return o.Do(ctx, model.OpDownload, url, nil)
}

// MakeAndroidRingtone cuts the downloaded video into AndroidRingtone.mp3
func (o *Orchestrator) MakeAndroidRingtone(ctx context.Context) model.Outcome {
	return o.Do(ctx, model.OpAndroidRingtone, "", nil)
}

// MakeIphoneRingtone converts AndroidRingtone.mp3 into iPhoneRingtone.m4r
func (o *Orchestrator) MakeIphoneRingtone(ctx context.Context) model.Outcome {
	return o.Do(ctx, model.OpIphoneRingtone, "", nil)
}

// InstallDownloader installs yt-dlp through go-ytdlp
func (o *Orchestrator) InstallDownloader(ctx context.Context) model.Outcome {
	return o.Do(ctx, model.OpInstallDownloader, "", nil)
}

// Do runs op synchronously. A call made while another job is active fails
// with FailureBusy and launches nothing.
func (o *Orchestrator) Do(ctx context.Context, op model.Operation, url string, onStatus StatusFunc) model.Outcome {
	job := model.NewJob(op, url)
	if !op.Valid() {
		return model.Failed(job, model.FailureInput, fmt.Sprintf("%v: %q", ErrUnknownOperation, op))
	}
	if !o.acquire(job) {
		return o.fail(job, onStatus, model.FailureBusy, MsgBusy)
	}
	defer o.release(job)
	return o.execute(ctx, job, onStatus)
}

// Start runs op on a new goroutine and returns immediately. onStatus and
// onDone are called from that goroutine. ErrBusy means nothing was started.
func (o *Orchestrator) Start(ctx context.Context, op model.Operation, url string, onStatus StatusFunc, onDone DoneFunc) (string, error) {
	if !op.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	job := model.NewJob(op, url)
	if !o.acquire(job) {
		o.logger.Info("operation rejected while busy", zap.String("operation", op.String()))
		return "", ErrBusy
	}

	go func() {
		outcome := o.execute(ctx, job, onStatus)
		o.release(job)
		if onDone != nil {
			onDone(outcome)
		}
	}()
	return job.ID, nil
}

func (o *Orchestrator) acquire(job *model.Job) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil {
		return false
	}
	o.active = job
	return true
}

func (o *Orchestrator) release(job *model.Job) {
	if job.Status.IsActive() {
		o.logger.Warn("job released before finishing",
			zap.String("job_id", job.ID),
			zap.Stringer("status", job.Status))
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil && o.active.ID == job.ID {
		o.active = nil
	}
}

func (o *Orchestrator) execute(ctx context.Context, job *model.Job, onStatus StatusFunc) model.Outcome {
	job.Status = model.TaskStatusRunning
	o.logger.Debug("job started",
		zap.String("job_id", job.ID),
		zap.String("operation", job.Operation.String()))

	var outcome model.Outcome
	switch job.Operation {
	case model.OpDownload:
		outcome = o.download(ctx, job, onStatus)
	case model.OpAndroidRingtone:
		outcome = o.makeAndroid(ctx, job, onStatus)
	case model.OpIphoneRingtone:
		outcome = o.makeIphone(ctx, job, onStatus)
	case model.OpInstallDownloader:
		outcome = o.install(ctx, job, onStatus)
	}

	job.FinishedAt = time.Now()
	job.Status = model.TaskStatusCompleted
	if !outcome.Success {
		job.Status = model.TaskStatusError
	}
	o.logger.Info("job finished",
		zap.String("job_id", job.ID),
		zap.String("operation", job.Operation.String()),
		zap.Stringer("status", job.Status),
		zap.Bool("success", outcome.Success),
		zap.Stringer("failure", outcome.Kind),
		zap.Duration("duration", job.FinishedAt.Sub(job.StartedAt)))
	return outcome
}

func (o *Orchestrator) download(ctx context.Context, job *model.Job, onStatus StatusFunc) model.Outcome {
	if job.URL == "" {
		return o.fail(job, onStatus, model.FailureInput, MsgNoURL)
	}

	cfg := o.Config()
	unlock, outcome, ok := o.prepareFolder(job, onStatus, cfg.DownloadDir)
	if !ok {
		return outcome
	}
	defer unlock()

	// A launched download replaces the session's files whether or not it succeeds
	o.mu.Lock()
	o.lastVideo = ""
	o.lastAndroid = ""
	o.mu.Unlock()

	o.emit(job, onStatus, fmt.Sprintf(MsgDownloadStarted, job.URL))
	res := o.downloader.Download(ctx, download.Request{
		URL:        job.URL,
		Dir:        cfg.DownloadDir,
		Preset:     cfg.Preset,
		Executable: cfg.YtDlpPath,
	})
	if res.Run.Err != nil {
		return o.fail(job, onStatus, model.FailureToolMissing, fmt.Sprintf(MsgFailedToProcess, res.Run.Err))
	}
	if !res.OK() {
		return o.fail(job, onStatus, model.FailureExitCode, fmt.Sprintf(MsgDownloadError, res.Run.Reason()))
	}

	video := res.Path
	if !platform.FileExists(video) {
		found, err := platform.FindByExtension(cfg.DownloadDir, VideoExtension)
		if err != nil {
			o.logger.Warn("downloaded video not found",
				zap.String("reported", res.Path),
				zap.String("dir", cfg.DownloadDir),
				zap.Error(err))
			return o.fail(job, onStatus, model.FailureOutputMissing, MsgVideoNotFound)
		}
		o.logger.Info("using scanned video", zap.String("reported", res.Path), zap.String("found", found))
		video = found
	}

	o.mu.Lock()
	o.lastVideo = video
	o.mu.Unlock()

	if path, err := platform.WriteReadme(cfg.DownloadDir); err != nil {
		o.logger.Warn("failed to write readme", zap.Error(err))
	} else {
		o.logger.Debug("readme written", zap.String("path", path))
	}

	return o.succeed(job, onStatus, fmt.Sprintf(MsgVideoDownloaded, video), video)
}

func (o *Orchestrator) makeAndroid(ctx context.Context, job *model.Job, onStatus StatusFunc) model.Outcome {
	cfg := o.Config()
	o.emit(job, onStatus, MsgAndroidStarted)

	video := o.sourceVideo(cfg.DownloadDir)
	if video == "" {
		return o.fail(job, onStatus, model.FailureOutputMissing, MsgAndroidNoVideo)
	}

	unlock, outcome, ok := o.prepareFolder(job, onStatus, cfg.DownloadDir)
	if !ok {
		return outcome
	}
	defer unlock()

	output, res := o.transcoder.MakeAndroid(ctx, transcodeRequest(cfg, video))
	if res.Err != nil {
		return o.fail(job, onStatus, model.FailureToolMissing, fmt.Sprintf(MsgFailedToProcess, res.Err))
	}
	if !res.OK() {
		return o.fail(job, onStatus, model.FailureExitCode, fmt.Sprintf(MsgAndroidError, res.Reason()))
	}
	if !platform.FileExists(output) {
		return o.fail(job, onStatus, model.FailureOutputMissing, fmt.Sprintf(MsgAndroidError, MsgOutputMissing))
	}

	o.mu.Lock()
	o.lastAndroid = output
	o.mu.Unlock()
	return o.succeed(job, onStatus, MsgAndroidCreated, output)
}

func (o *Orchestrator) makeIphone(ctx context.Context, job *model.Job, onStatus StatusFunc) model.Outcome {
	cfg := o.Config()
	o.emit(job, onStatus, MsgIphoneStarted)

	mp3 := transcode.AndroidRingtonePath(cfg.DownloadDir)
	if !platform.FileExists(mp3) {
		return o.fail(job, onStatus, model.FailureOutputMissing, MsgIphoneNoAndroid)
	}

	unlock, outcome, ok := o.prepareFolder(job, onStatus, cfg.DownloadDir)
	if !ok {
		return outcome
	}
	defer unlock()

	output, res := o.transcoder.MakeIphone(ctx, transcodeRequest(cfg, mp3))
	if res.Err != nil {
		return o.fail(job, onStatus, model.FailureToolMissing, fmt.Sprintf(MsgFailedToProcess, res.Err))
	}
	if !res.OK() {
		return o.fail(job, onStatus, model.FailureExitCode, fmt.Sprintf(MsgIphoneError, res.Reason()))
	}
	if !platform.FileExists(output) {
		return o.fail(job, onStatus, model.FailureOutputMissing, fmt.Sprintf(MsgIphoneError, MsgOutputMissing))
	}
	return o.succeed(job, onStatus, MsgIphoneCreated, output)
}

func transcodeRequest(cfg config.Config, input string) transcode.Request {
	return transcode.Request{
		Input:   input,
		OutDir:  cfg.DownloadDir,
		Seconds: cfg.RingtoneSeconds,
		FFmpeg:  cfg.FFmpegPath,
		FFprobe: cfg.FFprobePath,
	}
}

func (o *Orchestrator) install(ctx context.Context, job *model.Job, onStatus StatusFunc) model.Outcome {
	o.emit(job, onStatus, MsgInstallStarted)
	installed, err := o.downloader.Install(ctx, o.withFFmpeg)
	if err != nil {
		return o.fail(job, onStatus, model.FailureExitCode, fmt.Sprintf(MsgInstallError, err))
	}
	return o.succeed(job, onStatus, MsgInstalled, installed.YtDlp)
}

// sourceVideo prefers the video this orchestrator downloaded and falls back
// to the newest video in dir
func (o *Orchestrator) sourceVideo(dir string) string {
	o.mu.Lock()
	last := o.lastVideo
	o.mu.Unlock()
	if platform.FileExists(last) {
		return last
	}

	found, err := platform.FindByExtension(dir, VideoExtension)
	if err != nil {
		o.logger.Debug("no video for ringtone", zap.String("dir", dir), zap.Error(err))
		return ""
	}
	return found
}

// prepareFolder creates the downloads directory and takes the folder lock.
// On failure the returned outcome is final.
func (o *Orchestrator) prepareFolder(job *model.Job, onStatus StatusFunc, dir string) (func(), model.Outcome, bool) {
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return nil, o.fail(job, onStatus, model.FailureInput, fmt.Sprintf(MsgFolderUnavailable, err)), false
	}
	lock, err := lockFolder(dir)
	if err != nil {
		if errors.Is(err, ErrFolderLocked) {
			return nil, o.fail(job, onStatus, model.FailureBusy, MsgFolderLocked), false
		}
		return nil, o.fail(job, onStatus, model.FailureInput, fmt.Sprintf(MsgFolderUnavailable, err)), false
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			o.logger.Warn("failed to release folder lock", zap.Error(err))
		}
	}, model.Outcome{}, true
}

func (o *Orchestrator) succeed(job *model.Job, onStatus StatusFunc, message, path string) model.Outcome {
	o.emit(job, onStatus, message)
	return model.Succeeded(job, message, path)
}

func (o *Orchestrator) fail(job *model.Job, onStatus StatusFunc, kind model.FailureKind, message string) model.Outcome {
	o.emit(job, onStatus, message)
	return model.Failed(job, kind, message)
}

// emit sends one status message to the status log, the logger, the global
// listener and the per-call callback
func (o *Orchestrator) emit(job *model.Job, onStatus StatusFunc, message string) {
	o.mu.Lock()
	statusLog := o.statusLog
	o.mu.Unlock()

	statusLog.Append(message)
	o.logger.Info("status",
		zap.String("job_id", job.ID),
		zap.String("message", message))
	if o.listener != nil {
		o.listener(message)
	}
	if onStatus != nil {
		onStatus(message)
	}
}

// Report records a status message that does not belong to a job, such as a
// clipboard paste in the GUI
func (o *Orchestrator) Report(message string) {
	o.mu.Lock()
	statusLog := o.statusLog
	o.mu.Unlock()

	statusLog.Append(message)
	o.logger.Info("status", zap.String("message", message))
}

func (o *Orchestrator) openStatusLog(cfg config.Config) *logging.StatusLog {
	statusLog, err := logging.OpenStatusLog(cfg.StatusLogPath())
	if err != nil {
		o.logger.Warn("status log unavailable", zap.Error(err))
		return nil
	}
	return statusLog
}
