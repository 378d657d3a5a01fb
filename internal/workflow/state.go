package workflow

import "github.com/ytget/yt-ringtones/internal/model"

// State is what the orchestrator is doing right now
type State int

const (
	StateIdle State = iota
	StateDownloading
	StateMakingAndroidRingtone
	StateMakingIphoneRingtone
	StateInstallingDownloader
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDownloading:
		return "downloading"
	case StateMakingAndroidRingtone:
		return "making_android_ringtone"
	case StateMakingIphoneRingtone:
		return "making_iphone_ringtone"
	case StateInstallingDownloader:
		return "installing_downloader"
	default:
		return "unknown"
	}
}

func stateFor(op model.Operation) State {
	switch op {
	case model.OpDownload:
		return StateDownloading
	case model.OpAndroidRingtone:
		return StateMakingAndroidRingtone
	case model.OpIphoneRingtone:
		return StateMakingIphoneRingtone
	case model.OpInstallDownloader:
		return StateInstallingDownloader
	default:
		return StateIdle
	}
}

// Readiness reports which follow-up steps are allowed
type Readiness struct {
	State           State
	Busy            bool
	Video           string
	AndroidRingtone string
}

// CanMakeAndroid reports whether a downloaded video is available
func (r Readiness) CanMakeAndroid() bool {
	return !r.Busy && r.Video != ""
}

// CanMakeIphone reports whether the Android ringtone is available
func (r Readiness) CanMakeIphone() bool {
	return !r.Busy && r.AndroidRingtone != ""
}
