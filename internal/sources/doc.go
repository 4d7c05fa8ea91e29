// Package sources discovers raw application candidates on the local machine.
//
// Three readers contribute candidates, each from one origin:
//   - InstallReader: OS installation records (the Windows Uninstall registry
//     keys, or XDG desktop entries elsewhere)
//   - ShortcutReader: shortcut files (.lnk, .desktop, symlinks) on the
//     desktop and in start-menu style directories
//   - TreeWalker: executables found directly under well-known application
//     roots, for apps that are neither registered nor linked
//
// Readers are read-only. A single unreadable entry is skipped; only a root
// that cannot be opened is reported, wrapped in ErrSourceUnavailable, and
// even then the reader returns whatever the other roots produced.
//
// Every reader applies the same exclusion Policy so that system utilities,
// uninstallers and runtime redistributables never reach the inventory.
package sources
