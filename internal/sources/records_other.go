//go:build !windows

package sources

// DefaultRecordSource returns the platform's installation record source.
func DefaultRecordSource() RecordSource {
	return NewDesktopSource(XDGApplicationDirs())
}
