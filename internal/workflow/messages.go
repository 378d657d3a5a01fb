package workflow

// Status messages shown in the status area and written to the status log
const (
	MsgNoURL             = "No video URL input"
	MsgDownloadStarted   = "Started downloading video for: %s"
	MsgVideoDownloaded   = "Video downloaded: %s"
	MsgVideoNotFound     = "Error: Video file not found."
	MsgDownloadError     = "Error downloading video: %s"
	MsgFailedToProcess   = "Failed to process: %s"
	MsgBusy              = "Another operation is still running"
	MsgFolderLocked      = "Downloads folder is in use by another ytringtones process"
	MsgFolderUnavailable = "Error: Downloads folder unavailable: %s"

	MsgAndroidStarted  = "Creating Android Ringtone"
	MsgAndroidCreated  = "Android ringtone created successfully"
	MsgAndroidError    = "Error creating Android ringtone: %s"
	MsgAndroidNoVideo  = "Error: Video file not found for Android ringtone."
	MsgIphoneStarted   = "Creating iPhone ringtone"
	MsgIphoneCreated   = "iPhone ringtone created successfully"
	MsgIphoneError     = "Error creating iPhone ringtone: %s"
	MsgIphoneNoAndroid = "Error: Android ringtone not found for iPhone ringtone."
	MsgOutputMissing   = "output file was not created"

	MsgInstallStarted = "Installing yt-dlp"
	MsgInstalled      = "yt-dlp installed successfully"
	MsgInstallError   = "Error installing yt-dlp: %s"
)
