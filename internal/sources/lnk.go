package sources

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf16"
)

// Shell Link (.lnk) binary layout, per the published MS-SHLLINK format.
const (
	lnkHeaderSize = 0x4C

	lnkHasTargetIDList = 1 << 0
	lnkHasLinkInfo     = 1 << 1
	lnkHasName         = 1 << 2
	lnkHasRelativePath = 1 << 3
	lnkHasWorkingDir   = 1 << 4
	lnkHasArguments    = 1 << 5
	lnkHasIconLocation = 1 << 6
	lnkIsUnicode       = 1 << 7

	linkInfoVolumeIDAndLocalBasePath = 1 << 0
)

var lnkCLSID = [16]byte{0x01, 0x14, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}

// ErrInvalidShellLink is returned for data that is not a shell link.
var ErrInvalidShellLink = errors.New("invalid shell link")

// ShellLink is the subset of a .lnk file needed to launch its target.
type ShellLink struct {
	Target       string // local base path + common path suffix
	RelativePath string
	WorkingDir   string
	Arguments    string
	IconLocation string
	Description  string
}

// ReadShellLink parses the .lnk file at path.
func ReadShellLink(path string) (ShellLink, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ShellLink{}, fmt.Errorf("failed to read shell link: %w", err)
	}
	return ParseShellLink(data)
}

// ParseShellLink decodes a shell link. Advertised (installer) shortcuts
// carry no target path and decode with an empty Target.
func ParseShellLink(data []byte) (ShellLink, error) {
	var sl ShellLink
	if len(data) < lnkHeaderSize {
		return sl, fmt.Errorf("%w: short header", ErrInvalidShellLink)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != lnkHeaderSize || !bytes.Equal(data[4:20], lnkCLSID[:]) {
		return sl, fmt.Errorf("%w: bad header", ErrInvalidShellLink)
	}
	flags := binary.LittleEndian.Uint32(data[20:24])
	r := bytes.NewReader(data[lnkHeaderSize:])

	if flags&lnkHasTargetIDList != 0 {
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return sl, fmt.Errorf("%w: id list: %v", ErrInvalidShellLink, err)
		}
		if _, err := r.Seek(int64(n), io.SeekCurrent); err != nil {
			return sl, fmt.Errorf("%w: id list: %v", ErrInvalidShellLink, err)
		}
	}

	if flags&lnkHasLinkInfo != 0 {
		start := len(data) - r.Len()
		target, size, err := parseLinkInfo(data[start:])
		if err != nil {
			return sl, err
		}
		sl.Target = target
		if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
			return sl, fmt.Errorf("%w: link info: %v", ErrInvalidShellLink, err)
		}
	}

	unicode := flags&lnkIsUnicode != 0
	fields := []struct {
		flag uint32
		dst  *string
	}{
		{lnkHasName, &sl.Description},
		{lnkHasRelativePath, &sl.RelativePath},
		{lnkHasWorkingDir, &sl.WorkingDir},
		{lnkHasArguments, &sl.Arguments},
		{lnkHasIconLocation, &sl.IconLocation},
	}
	for _, f := range fields {
		if flags&f.flag == 0 {
			continue
		}
		s, err := readStringData(r, unicode)
		if err != nil {
			return sl, err
		}
		*f.dst = s
	}
	return sl, nil
}

// parseLinkInfo returns the target path stored in a LinkInfo structure and
// the structure's total size.
func parseLinkInfo(b []byte) (string, uint32, error) {
	if len(b) < 28 {
		return "", 0, fmt.Errorf("%w: short link info", ErrInvalidShellLink)
	}
	size := binary.LittleEndian.Uint32(b[0:4])
	headerSize := binary.LittleEndian.Uint32(b[4:8])
	flags := binary.LittleEndian.Uint32(b[8:12])
	if int(size) > len(b) || headerSize > size {
		return "", 0, fmt.Errorf("%w: link info size", ErrInvalidShellLink)
	}
	info := b[:size]
	if flags&linkInfoVolumeIDAndLocalBasePath == 0 {
		return "", size, nil
	}

	baseOff := binary.LittleEndian.Uint32(info[16:20])
	suffixOff := binary.LittleEndian.Uint32(info[24:28])
	if headerSize >= 0x24 && len(info) >= 0x24 {
		ubase := binary.LittleEndian.Uint32(info[28:32])
		usuffix := binary.LittleEndian.Uint32(info[32:36])
		if ubase != 0 {
			base := cStringUTF16(info, ubase)
			return joinLinkPath(base, cStringUTF16(info, usuffix)), size, nil
		}
	}
	base := cStringANSI(info, baseOff)
	return joinLinkPath(base, cStringANSI(info, suffixOff)), size, nil
}

func joinLinkPath(base, suffix string) string {
	if suffix == "" || strings.HasSuffix(base, `\`) {
		return base + suffix
	}
	return base + `\` + suffix
}

func cStringANSI(b []byte, off uint32) string {
	if off == 0 || int(off) >= len(b) {
		return ""
	}
	s := b[off:]
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return string(s)
}

func cStringUTF16(b []byte, off uint32) string {
	if off == 0 || int(off) >= len(b) {
		return ""
	}
	var u []uint16
	for i := int(off); i+1 < len(b); i += 2 {
		c := binary.LittleEndian.Uint16(b[i:])
		if c == 0 {
			break
		}
		u = append(u, c)
	}
	return string(utf16.Decode(u))
}

func readStringData(r *bytes.Reader, unicode bool) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", fmt.Errorf("%w: string data: %v", ErrInvalidShellLink, err)
	}
	if !unicode {
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("%w: string data: %v", ErrInvalidShellLink, err)
		}
		return string(buf), nil
	}
	u := make([]uint16, n)
	if err := binary.Read(r, binary.LittleEndian, u); err != nil {
		return "", fmt.Errorf("%w: string data: %v", ErrInvalidShellLink, err)
	}
	return string(utf16.Decode(u)), nil
}
