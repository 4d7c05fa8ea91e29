//go:build !windows

package sources

import "io/fs"

func isExecutableInfo(_ string, info fs.FileInfo) bool {
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
