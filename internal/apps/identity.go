package apps

import "strings"

// Executable returns the executable component of a command-line style
// path: surrounding quotes and trailing launch arguments are removed.
//
// Examples:
//
//	"C:\Program Files\App\app.exe" --flag  -> C:\Program Files\App\app.exe
//	C:\Tools\tool.exe /silent              -> C:\Tools\tool.exe
//	/usr/bin/firefox %u                    -> /usr/bin/firefox
func Executable(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return ""
	}

	if p[0] == '"' {
		if end := strings.IndexByte(p[1:], '"'); end >= 0 {
			return strings.TrimSpace(p[1 : end+1])
		}
		return strings.TrimSpace(strings.Trim(p, `"`))
	}

	lower := strings.ToLower(p)
	for off := 0; ; {
		i := strings.Index(lower[off:], ".exe")
		if i < 0 {
			break
		}
		end := off + i + len(".exe")
		if end == len(p) || p[end] == ' ' || p[end] == '\t' {
			return strings.TrimSpace(p[:end])
		}
		off = end
	}

	cut := len(p)
	markers := []string{" -", " %"}
	if strings.Contains(p, `\`) {
		markers = append(markers, " /")
	}
	for _, m := range markers {
		if i := strings.Index(p, m); i >= 0 && i < cut {
			cut = i
		}
	}

	return strings.TrimSpace(strings.Trim(p[:cut], `" `))
}

// IdentityKey returns the deduplication key for path: the executable
// component, lowercased. Two records with equal keys point at the same
// binary.
func IdentityKey(path string) string {
	return strings.ToLower(Executable(path))
}
