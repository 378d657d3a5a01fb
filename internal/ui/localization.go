package ui

import (
	"strings"

	"fyne.io/fyne/v2/lang"
	"golang.org/x/text/language"
)

// Language codes with a full set of texts
const (
	LanguageSystem  = "system"
	LanguageEnglish = "en"
	LanguageRussian = "ru"
	LanguagePortug  = "pt"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyFile              = "file"
	KeySettings          = "settings"
	KeyLanguage          = "language"
	KeyEnterURL          = "enter_url"
	KeyDownloadVideo     = "download_video"
	KeyAndroidRingtone   = "android_ringtone"
	KeyIphoneRingtone    = "iphone_ringtone"
	KeyOpenFolder        = "open_folder"
	KeyPasteURL          = "paste_url"
	KeyReset             = "reset"
	KeyInstallDownloader = "install_downloader"
	KeyStatus            = "status"
	KeyDownloadDirectory = "download_directory"
	KeyPreset            = "preset"
	KeyRingtoneSeconds   = "ringtone_seconds"
	KeyYtDlpPath         = "ytdlp_path"
	KeyFFmpegPath        = "ffmpeg_path"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeySettingsSaved     = "settings_saved"
	KeySettingsRejected  = "settings_rejected"
	KeyInvalidURL        = "invalid_url"
	KeyURLAdded          = "url_added"
	KeyClipboardEmpty    = "clipboard_empty"
	KeyInputCleared      = "input_cleared"
	KeyOpenFolderFailed  = "open_folder_failed"
	KeyBusy              = "busy"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: LanguageEnglish,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" follows the OS locale.
func (l *Localization) SetLanguage(code string) {
	if code == LanguageSystem {
		code = ResolveLanguage(string(lang.SystemLocale()))
	}

	if _, exists := l.texts[code]; exists {
		l.currentLanguage = code
	}
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetText returns localized text for the given key, falling back to English
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, exists := texts[key]; exists {
			return text
		}
	}
	if text, exists := l.texts[LanguageEnglish][key]; exists {
		return text
	}
	return key
}

// GetAvailableLanguages returns language codes with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		LanguageEnglish: "English",
		LanguageRussian: "Русский",
		LanguagePortug:  "Português",
	}
}

var supportedLanguages = language.NewMatcher([]language.Tag{
	language.English,
	language.Russian,
	language.Portuguese,
})

// ResolveLanguage maps a locale such as "pt-BR" or "ru_RU.UTF-8" to one of
// the supported language codes. Unknown locales resolve to English.
func ResolveLanguage(locale string) string {
	locale, _, _ = strings.Cut(locale, ".")
	tag, _ := language.MatchStrings(supportedLanguages, locale)
	base, _ := tag.Base()
	switch base.String() {
	case LanguageRussian:
		return LanguageRussian
	case LanguagePortug:
		return LanguagePortug
	}
	return LanguageEnglish
}

// initializeTexts loads all text translations
func (l *Localization) initializeTexts() {
	l.texts[LanguageEnglish] = map[string]string{
		KeyAppTitle:          "YT Ringtones",
		KeyFile:              "File",
		KeySettings:          "Settings",
		KeyLanguage:          "Language",
		KeyEnterURL:          "Enter YouTube URL (https://youtube.com/watch?v=...)",
		KeyDownloadVideo:     "Download Video",
		KeyAndroidRingtone:   "Android Ringtone",
		KeyIphoneRingtone:    "iPhone Ringtone",
		KeyOpenFolder:        "Open Downloads Folder",
		KeyPasteURL:          "Paste URL from Clipboard",
		KeyReset:             "Reset",
		KeyInstallDownloader: "Install yt-dlp",
		KeyStatus:            "Status",
		KeyDownloadDirectory: "Download Directory",
		KeyPreset:            "Download Preset",
		KeyRingtoneSeconds:   "Ringtone Length (seconds)",
		KeyYtDlpPath:         "yt-dlp Executable",
		KeyFFmpegPath:        "ffmpeg Executable",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeySettingsSaved:     "Settings saved",
		KeySettingsRejected:  "Settings not applied: %s",
		KeyInvalidURL:        "Invalid URL: %s",
		KeyURLAdded:          "Added URL from clipboard",
		KeyClipboardEmpty:    "Clipboard is empty or inaccessible",
		KeyInputCleared:      "Cleared input field",
		KeyOpenFolderFailed:  "Failed to open folder: %s",
		KeyBusy:              "Please wait for the current operation to finish",
	}

	l.texts[LanguageRussian] = map[string]string{
		KeyAppTitle:          "YT Рингтоны",
		KeyFile:              "Файл",
		KeySettings:          "Настройки",
		KeyLanguage:          "Язык",
		KeyEnterURL:          "Введите URL YouTube (https://youtube.com/watch?v=...)",
		KeyDownloadVideo:     "Скачать видео",
		KeyAndroidRingtone:   "Рингтон Android",
		KeyIphoneRingtone:    "Рингтон iPhone",
		KeyOpenFolder:        "Открыть папку загрузок",
		KeyPasteURL:          "Вставить URL из буфера",
		KeyReset:             "Сбросить",
		KeyInstallDownloader: "Установить yt-dlp",
		KeyStatus:            "Статус",
		KeyDownloadDirectory: "Папка загрузок",
		KeyPreset:            "Профиль загрузки",
		KeyRingtoneSeconds:   "Длина рингтона (секунды)",
		KeyYtDlpPath:         "Исполняемый файл yt-dlp",
		KeyFFmpegPath:        "Исполняемый файл ffmpeg",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeySettingsSaved:     "Настройки сохранены",
		KeySettingsRejected:  "Настройки не применены: %s",
		KeyInvalidURL:        "Неверный URL: %s",
		KeyURLAdded:          "URL добавлен из буфера обмена",
		KeyClipboardEmpty:    "Буфер обмена пуст или недоступен",
		KeyInputCleared:      "Поле ввода очищено",
		KeyOpenFolderFailed:  "Не удалось открыть папку: %s",
		KeyBusy:              "Дождитесь завершения текущей операции",
	}

	l.texts[LanguagePortug] = map[string]string{
		KeyAppTitle:          "YT Toques",
		KeyFile:              "Arquivo",
		KeySettings:          "Configurações",
		KeyLanguage:          "Idioma",
		KeyEnterURL:          "Digite URL do YouTube (https://youtube.com/watch?v=...)",
		KeyDownloadVideo:     "Baixar Vídeo",
		KeyAndroidRingtone:   "Toque Android",
		KeyIphoneRingtone:    "Toque iPhone",
		KeyOpenFolder:        "Abrir Pasta de Downloads",
		KeyPasteURL:          "Colar URL da Área de Transferência",
		KeyReset:             "Limpar",
		KeyInstallDownloader: "Instalar yt-dlp",
		KeyStatus:            "Status",
		KeyDownloadDirectory: "Diretório de Download",
		KeyPreset:            "Predefinição de Download",
		KeyRingtoneSeconds:   "Duração do Toque (segundos)",
		KeyYtDlpPath:         "Executável do yt-dlp",
		KeyFFmpegPath:        "Executável do ffmpeg",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeySettingsSaved:     "Configurações salvas",
		KeySettingsRejected:  "Configurações não aplicadas: %s",
		KeyInvalidURL:        "URL inválida: %s",
		KeyURLAdded:          "URL adicionada da área de transferência",
		KeyClipboardEmpty:    "Área de transferência vazia ou inacessível",
		KeyInputCleared:      "Campo de entrada limpo",
		KeyOpenFolderFailed:  "Falha ao abrir pasta: %s",
		KeyBusy:              "Aguarde a operação atual terminar",
	}
}
