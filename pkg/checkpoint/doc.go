// Package checkpoint remembers the last search between runs.
//
// The session holds the last submitted query and the deepest page reached,
// so 'screenpapers browse --resume' can reopen where the user left off.
// It is written atomically through a temporary file and carries a version
// number.
//
// Sessions are stored in platform-specific data directories:
//   - Linux: $XDG_DATA_HOME/screenpapers or ~/.local/share/screenpapers
//   - macOS: ~/Library/Application Support/screenpapers
//   - Windows: %APPDATA%/screenpapers
package checkpoint
