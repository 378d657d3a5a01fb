package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Window
const (
	AppID        = "com.ytget.yt-ringtones"
	WindowWidth  = 720
	WindowHeight = 520
)

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconCopy     = "📋"
	IconMusic    = "🎵"
	IconPhone    = "📱"
)

// Layout sizing
const (
	LogoSize        float32 = 32
	StatusMinHeight float32 = 220
	SettingsWidth   float32 = 500
	SettingsHeight  float32 = 420
)

// URL schemes accepted in the URL field
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)
