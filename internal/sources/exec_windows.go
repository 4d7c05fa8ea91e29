//go:build windows

package sources

import (
	"io/fs"
	"path/filepath"
	"strings"
)

func isExecutableInfo(path string, info fs.FileInfo) bool {
	return info.Mode().IsRegular() && strings.EqualFold(filepath.Ext(path), ".exe")
}
