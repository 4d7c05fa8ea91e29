//go:build windows

package sources

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const uninstallPath = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`

type registryRoot struct {
	key  registry.Key
	path string
}

// RegistrySource reads the Uninstall keys of the machine and current user.
type RegistrySource struct {
	roots []registryRoot
}

// NewRegistrySource returns a source over HKLM, HKLM\WOW6432Node and HKCU.
func NewRegistrySource() *RegistrySource {
	return &RegistrySource{roots: []registryRoot{
		{registry.LOCAL_MACHINE, uninstallPath},
		{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`},
		{registry.CURRENT_USER, uninstallPath},
	}}
}

// DefaultRecordSource returns the platform's installation record source.
func DefaultRecordSource() RecordSource {
	return NewRegistrySource()
}

func (s *RegistrySource) Records() ([]InstallRecord, error) {
	var (
		out  []InstallRecord
		errs []error
	)
	for _, root := range s.roots {
		recs, err := readUninstallKey(root)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, recs...)
	}
	return out, errors.Join(errs...)
}

func readUninstallKey(root registryRoot) ([]InstallRecord, error) {
	k, err := registry.OpenKey(root.key, root.path, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", root.path, err)
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root.path, err)
	}

	var out []InstallRecord
	for _, name := range names {
		sk, err := registry.OpenKey(k, name, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		rec, ok := readInstallRecord(sk)
		sk.Close()
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// readInstallRecord skips hidden system components and patches, which
// name their parent product in ParentKeyName.
func readInstallRecord(k registry.Key) (InstallRecord, bool) {
	display, _, err := k.GetStringValue("DisplayName")
	if err != nil || display == "" {
		return InstallRecord{}, false
	}
	if v, _, err := k.GetIntegerValue("SystemComponent"); err == nil && v == 1 {
		return InstallRecord{}, false
	}
	if parent, _, err := k.GetStringValue("ParentKeyName"); err == nil && parent != "" {
		return InstallRecord{}, false
	}
	icon, _, _ := k.GetStringValue("DisplayIcon")
	loc, _, _ := k.GetStringValue("InstallLocation")
	return InstallRecord{DisplayName: display, DisplayIcon: icon, InstallLocation: loc}, true
}
