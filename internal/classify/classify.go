// Package classify assigns a category to a discovered application from its
// path and display name.
//
// Categorize runs an ordered cascade of rules and returns the category of
// the first rule that matches. Path rules run before name rules so that,
// for example, a media player shipped inside an office suite's directory is
// filed under Office rather than Media.
package classify

import (
	"strings"

	"github.com/blackwell-systems/appdex/internal/apps"
)

// Stage identifies which part of the cascade a rule belongs to.
type Stage int

const (
	StagePath Stage = iota + 1
	StageName
	StageVendor
	StageDirHint
)

// Rule is one entry in the classification cascade.
type Rule struct {
	Stage    Stage
	Category string
	// Tokens are matched as substrings of the normalized path (StagePath,
	// StageDirHint), the lowercased name (StageName), or compared for
	// equality with the vendor directory (StageVendor).
	Tokens []string
}

// rules is evaluated top to bottom. Paths are normalized to lowercase with
// forward slashes before matching, so tokens use "/" on every platform.
var rules = []Rule{
	// 1. Vendor and launcher directories.
	{StagePath, apps.CategorySystemTools, []string{"/system32/", "/windows/system/", "/windows kits/", "/driverstore/"}},
	{StagePath, apps.CategoryGames, []string{"/steam/", "/steamapps/", "/epic games/", "/ubisoft/", "/riot games/", "/gog galaxy/", "/battle.net/"}},
	{StagePath, apps.CategoryOffice, []string{"/microsoft office/", "/libreoffice/", "/openoffice/", "/onlyoffice/"}},
	{StagePath, apps.CategoryMedia, []string{"/spotify/", "/vlc/", "/winamp/", "/itunes/", "/foobar2000/"}},
	{StagePath, apps.CategorySocial, []string{"/discord/", "/slack/", "/whatsapp/", "/telegram/", "/signal/"}},
	{StagePath, apps.CategoryDesign, []string{"/adobe/", "/gimp/", "/blender/", "/corel/", "/inkscape/", "/krita/"}},
	{StagePath, apps.CategoryDevelopment, []string{"/microsoft vs code/", "/jetbrains/", "/github/", "/nodejs/", "/git/"}},

	// 2. Name keywords.
	{StageName, apps.CategoryBrowsers, []string{"browser", "chrome", "firefox", "edge", "brave", "opera", "web"}},
	{StageName, apps.CategoryOffice, []string{"word", "excel", "powerpoint", "outlook", "writer", "calc"}},
	{StageName, apps.CategoryGames, []string{"steam", "launcher", "game"}},
	{StageName, apps.CategoryMedia, []string{"spotify", "player", "music", "video"}},
	{StageName, apps.CategorySocial, []string{"discord", "chat", "message", "mail"}},
	{StageName, apps.CategoryDevelopment, []string{"code", "studio", "dev", "terminal", "git"}},
	{StageName, apps.CategoryDesign, []string{"photo", "paint", "draw"}},
	{StageName, apps.CategoryUtilities, []string{"zip", "cleaner", "tool"}},

	// 3. Vendor directory directly under a program root.
	{StageVendor, apps.CategoryGames, []string{"valve", "epic games", "ubisoft"}},
	{StageVendor, apps.CategoryOffice, []string{"microsoft office", "libreoffice"}},
	{StageVendor, apps.CategoryDesign, []string{"adobe", "corel", "blender foundation"}},
	{StageVendor, apps.CategoryBrowsers, []string{"mozilla", "mozilla firefox", "google"}},
	{StageVendor, apps.CategoryDevelopment, []string{"jetbrains", "github"}},

	// 4. Directory hints.
	{StageDirHint, apps.CategoryGames, []string{"/games/"}},
	{StageDirHint, apps.CategoryDevelopment, []string{"/development/"}},
	{StageDirHint, apps.CategoryDesign, []string{"/creative/"}},
}

// programRoots are directory names whose immediate child is treated as the
// vendor directory.
var programRoots = map[string]bool{
	"program files":       true,
	"program files (x86)": true,
	"opt":                 true,
	"applications":        true,
}

// Rules returns a copy of the classification cascade in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Categorize returns the category for an application. It performs no I/O
// and always returns a category, defaulting to apps.CategoryApplications.
func Categorize(path, name string) string {
	p := normalizePath(path)
	n := strings.ToLower(strings.TrimSpace(name))
	vendor := vendorDir(p)

	for _, r := range rules {
		if r.matches(p, n, vendor) {
			return r.Category
		}
	}
	return apps.CategoryApplications
}

func (r Rule) matches(path, name, vendor string) bool {
	switch r.Stage {
	case StagePath, StageDirHint:
		return containsAny(path, r.Tokens)
	case StageName:
		return containsAny(name, r.Tokens)
	case StageVendor:
		if vendor == "" {
			return false
		}
		for _, t := range r.Tokens {
			if vendor == t {
				return true
			}
		}
	}
	return false
}

// normalizePath lowercases path, converts backslashes to slashes and
// surrounds it with slashes so tokens like "/steam/" match at either end.
func normalizePath(path string) string {
	p := strings.ToLower(strings.ReplaceAll(path, `\`, "/"))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// vendorDir returns the path segment following the first program root, or
// "" if the path is not under one.
func vendorDir(normalized string) string {
	parts := strings.Split(normalized, "/")
	for i := 0; i+2 < len(parts); i++ {
		if programRoots[parts[i]] {
			return parts[i+1]
		}
	}
	return ""
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
