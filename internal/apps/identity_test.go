package apps

import (
	"testing"
	"time"
)

func TestExecutable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain windows path", `C:\Apps\chrome.exe`, `C:\Apps\chrome.exe`},
		{"quoted with args", `"C:\Program Files\App\app.exe" --flag`, `C:\Program Files\App\app.exe`},
		{"unquoted exe with args", `C:\Tools\tool.exe /silent`, `C:\Tools\tool.exe`},
		{"spaces in dir before exe", `C:\Program Files\Foo Bar\foo.exe -x`, `C:\Program Files\Foo Bar\foo.exe`},
		{"unix with field code", `/usr/bin/firefox %u`, `/usr/bin/firefox`},
		{"unix with dash flag", `/opt/app/bin/app --no-sandbox`, `/opt/app/bin/app`},
		{"unix slash is not a marker", `/opt/my app/run`, `/opt/my app/run`},
		{"surrounding whitespace", "  /usr/bin/gimp  ", `/usr/bin/gimp`},
		{"unterminated quote", `"C:\Apps\x.exe`, `C:\Apps\x.exe`},
		{"empty", "", ""},
		{"exe inside dir name", `C:\setup.exeutils\run.exe`, `C:\setup.exeutils\run.exe`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Executable(tt.in); got != tt.want {
				t.Errorf("Executable(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIdentityKey_CaseAndArgsInsensitive(t *testing.T) {
	a := IdentityKey(`"C:\Program Files\Google\Chrome\chrome.exe" --profile=1`)
	b := IdentityKey(`c:\program files\google\chrome\CHROME.EXE`)
	if a != b {
		t.Errorf("IdentityKey mismatch: %q vs %q", a, b)
	}
}

func TestInventory_IsStale(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	inv := NewInventory()
	if !inv.IsStale(now, time.Hour) {
		t.Error("never-built inventory should always be stale")
	}

	inv.LastUpdate = now.Add(-30 * time.Minute).Unix()
	if inv.IsStale(now, time.Hour) {
		t.Error("30m old inventory should not be stale with 1h TTL")
	}

	inv.LastUpdate = now.Add(-time.Hour).Unix()
	if !inv.IsStale(now, time.Hour) {
		t.Error("inventory exactly TTL old should be stale")
	}
}

func TestInventory_CloneIsIndependent(t *testing.T) {
	inv := NewInventory()
	inv.Apps["a"] = Record{ID: "a", Name: "A"}
	inv.LastUpdate = 42

	clone := inv.Clone()
	clone.Apps["b"] = Record{ID: "b"}
	rec := clone.Apps["a"]
	rec.AccessCount = 9
	clone.Apps["a"] = rec

	if len(inv.Apps) != 1 {
		t.Errorf("original inventory grew to %d records", len(inv.Apps))
	}
	if inv.Apps["a"].AccessCount != 0 {
		t.Error("mutating clone changed original record")
	}
	if clone.LastUpdate != 42 {
		t.Errorf("clone LastUpdate = %d, want 42", clone.LastUpdate)
	}
}

func TestRecord_LastAccessedTime(t *testing.T) {
	var r Record
	if !r.LastAccessedTime().IsZero() || r.Accessed() {
		t.Error("zero record should report never accessed")
	}
	r.LastAccessed = 100
	if !r.Accessed() || r.LastAccessedTime().Unix() != 100 {
		t.Error("record with LastAccessed should report accessed time")
	}
}
