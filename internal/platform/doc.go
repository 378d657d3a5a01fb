// Package platform contains OS/platform integration: downloads directory
// helpers, file discovery in the downloads folder, the companion readme, and
// opening folders in the system file manager.
package platform
