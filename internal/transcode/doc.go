// Package transcode builds ringtones from downloaded videos with ffmpeg.
package transcode
