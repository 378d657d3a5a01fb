// Package download runs yt-dlp (via github.com/lrstanley/go-ytdlp) for a single
// video URL and reports the file it produced. It also installs yt-dlp and the
// ffmpeg tools through go-ytdlp's managed installers.
package download
