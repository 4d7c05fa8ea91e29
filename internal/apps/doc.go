// Package apps defines the application inventory data model shared by the
// discovery, merge, cache and query layers.
//
// A Record is identified by an opaque ID that is generated once and never
// derived from content. Deduplication across sources uses the identity key
// instead: the executable path with quoting and launch arguments removed,
// compared case-insensitively (see IdentityKey).
package apps
