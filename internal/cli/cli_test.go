package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauern/cognisync/internal/backup"
	"github.com/klauern/cognisync/internal/config"
	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/util"
)

// runApp runs the CLI against project dir and returns what it printed.
func runApp(t *testing.T, dir string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	argv := append([]string{"cognisync", "--no-color", "--project", dir}, args...)
	err = newApp(&out, &errOut).Run(context.Background(), argv)
	return out.String(), errOut.String(), err
}

// newProject creates a project with one skill in its store.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	util.WriteCognitive(t, filepath.Join(dir, ".cognisync"), "skills", "general", "demo", "SKILL.md",
		"---\nname: demo\nversion: 1.0.0\ndescription: Demo skill\n---\n# Demo\n")
	return dir
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runApp(t, t.TempDir(), "version")
	util.AssertNoError(t, err)
	if !strings.Contains(stdout, "cognisync version dev") {
		t.Errorf("version output = %q", stdout)
	}
}

func TestLoggingFlags(t *testing.T) {
	tests := map[string]struct {
		args     []string
		contains string
		empty    bool
	}{
		"default is quiet": {
			args:  []string{"version"},
			empty: true,
		},
		"debug logs": {
			args:     []string{"--debug", "version"},
			contains: "logging configured",
		},
		"json logs": {
			args:     []string{"--debug", "--log-json", "version"},
			contains: `"msg":"logging configured"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, stderr, err := runApp(t, t.TempDir(), tt.args...)
			util.AssertNoError(t, err)
			if tt.empty && stderr != "" {
				t.Errorf("stderr = %q, want empty", stderr)
			}
			if tt.contains != "" && !strings.Contains(stderr, tt.contains) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.contains)
			}
		})
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runApp(t, dir, "init", "--provider", "cursor")
	util.AssertNoError(t, err)
	if !strings.Contains(stdout, config.FileName) {
		t.Errorf("init output = %q", stdout)
	}

	cfg, err := config.Load(dir)
	util.AssertNoError(t, err)
	got := cfg.EnabledProviders()
	if len(got) != 1 || got[0] != model.Cursor {
		t.Errorf("EnabledProviders() = %v, want [cursor]", got)
	}
	for _, ct := range model.AllCognitiveTypes() {
		if !util.PathExists(filepath.Join(dir, ".cognisync", ct.Plural())) {
			t.Errorf("store directory for %s not created", ct)
		}
	}

	if _, _, err := runApp(t, dir, "init"); err == nil {
		t.Error("second init should fail without --force")
	}
	_, _, err = runApp(t, dir, "init", "--force")
	util.AssertNoError(t, err)

	if _, _, err := runApp(t, t.TempDir(), "init", "--provider", "nope"); err == nil {
		t.Error("init with an unknown provider should fail")
	}
}

func TestInitDetectsProviders(t *testing.T) {
	tests := map[string]struct {
		setup func(t *testing.T, dir string)
		want  []model.Provider
	}{
		"nothing detected": {
			setup: func(*testing.T, string) {},
			want:  []model.Provider{model.Claude},
		},
		"directories and indicator files": {
			setup: func(t *testing.T, dir string) {
				if err := os.MkdirAll(filepath.Join(dir, ".cursor"), 0o750); err != nil {
					t.Fatal(err)
				}
				util.WriteFile(t, filepath.Join(dir, "GEMINI.md"), "# Gemini")
			},
			want: []model.Provider{model.Cursor, model.Gemini},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			_, _, err := runApp(t, dir, "init")
			util.AssertNoError(t, err)

			cfg, err := config.Load(dir)
			util.AssertNoError(t, err)
			if got := cfg.EnabledProviders(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EnabledProviders() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSyncAndStatusCommands(t *testing.T) {
	util.RequireSymlinks(t)
	dir := newProject(t)

	stdout, _, err := runApp(t, dir, "sync")
	util.AssertNoError(t, err)
	for _, want := range []string{"demo", "Added", "Claude"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("sync output missing %q: %q", want, stdout)
		}
	}

	mirror := filepath.Join(dir, ".claude", "skills", "demo")
	info, err := os.Lstat(mirror)
	util.AssertNoError(t, err)
	if info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("%s is not a symlink", mirror)
	}

	stdout, _, err = runApp(t, dir, "status")
	util.AssertNoError(t, err)
	for _, want := range []string{"Store and manifest in sync", "1 entries", "claude: 1 valid"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("status output missing %q: %q", want, stdout)
		}
	}

	util.WriteCognitive(t, filepath.Join(dir, ".cognisync"), "agents", "general", "helper", "AGENT.md", "# Helper\n")
	stdout, _, err = runApp(t, dir, "status")
	util.AssertNoError(t, err)
	if !strings.Contains(stdout, "Store and manifest differ") || !strings.Contains(stdout, "Helper") {
		t.Errorf("status output = %q", stdout)
	}
}

func TestSyncDryRunCommand(t *testing.T) {
	dir := newProject(t)

	stdout, _, err := runApp(t, dir, "sync", "--dry-run")
	util.AssertNoError(t, err)
	if !strings.Contains(stdout, "Dry run") {
		t.Errorf("dry run output = %q", stdout)
	}
	if util.PathExists(filepath.Join(dir, ".cognisync", config.ManifestFileName)) {
		t.Error("dry run wrote the manifest")
	}
	if util.PathExists(filepath.Join(dir, ".claude")) {
		t.Error("dry run created provider mirrors")
	}
}

func TestSyncCommandRejectsBadFlags(t *testing.T) {
	tests := map[string][]string{
		"unknown type":     {"sync", "--type", "widget"},
		"unknown provider": {"sync", "--provider", "nope"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := runApp(t, newProject(t), args...); err == nil {
				t.Errorf("%v: expected error", args)
			}
		})
	}
}

func TestScanCommandJSON(t *testing.T) {
	dir := newProject(t)

	stdout, _, err := runApp(t, dir, "scan", "--json")
	util.AssertNoError(t, err)

	var records []scanRecord
	if err := json.Unmarshal([]byte(stdout), &records); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	util.AssertEqual(t, records[0].Name, "demo")
	util.AssertEqual(t, records[0].Type, "skill")
	util.AssertEqual(t, records[0].Category, "general")
	util.AssertEqual(t, records[0].Version, "1.0.0")
	util.AssertEqual(t, len(records[0].Fingerprint), 16)
}

func TestScanCommandExtraAndDuplicates(t *testing.T) {
	dir := newProject(t)
	store := filepath.Join(dir, ".cognisync")
	util.WriteCognitive(t, store, "skills", "general", "annotated", "SKILL.md",
		"---\nname: annotated\nowner: platform\nreviewed: true\n---\n# Annotated\n")
	util.WriteCognitive(t, store, "agents", "general", "demo", "AGENT.md", "# demo\n")

	stdout, _, err := runApp(t, dir, "scan", "--json")
	util.AssertNoError(t, err)
	var records []scanRecord
	if err := json.Unmarshal([]byte(stdout), &records); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	byName := make(map[string]scanRecord, len(records))
	for _, r := range records {
		byName[r.Name] = r
	}
	util.AssertEqual(t, len(records), 2)
	util.AssertEqual(t, byName["demo"].Type, "skill")
	if got := byName["annotated"].Extra; !reflect.DeepEqual(got, []string{"owner", "reviewed"}) {
		t.Errorf("extra = %v", got)
	}

	stdout, _, err = runApp(t, dir, "scan")
	util.AssertNoError(t, err)
	if !strings.Contains(stdout, "duplicate cognitive name") {
		t.Errorf("scan output missing duplicate warning: %q", stdout)
	}
}

func TestScanCommandFilters(t *testing.T) {
	dir := newProject(t)

	stdout, _, err := runApp(t, dir, "scan", "--type", "agent")
	util.AssertNoError(t, err)
	if !strings.Contains(stdout, "No cognitives found") {
		t.Errorf("filtered scan output = %q", stdout)
	}

	stdout, _, err = runApp(t, dir, "scan")
	util.AssertNoError(t, err)
	if !strings.Contains(stdout, "demo") || !strings.Contains(stdout, "Skills") {
		t.Errorf("scan output = %q", stdout)
	}
}

func TestVerifyAndCleanCommands(t *testing.T) {
	util.RequireSymlinks(t)
	dir := newProject(t)
	_, _, err := runApp(t, dir, "sync")
	util.AssertNoError(t, err)

	ghost := filepath.Join(dir, ".claude", "skills", "ghost")
	if err := os.Symlink(filepath.Join(dir, "missing"), ghost); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runApp(t, dir, "verify", "claude")
	util.AssertNoError(t, err)
	if !strings.Contains(stdout, "1 valid, 1 broken, 0 orphaned") || !strings.Contains(stdout, "ghost") {
		t.Errorf("verify output = %q", stdout)
	}

	stdout, _, err = runApp(t, dir, "clean", "--dry-run", "claude")
	util.AssertNoError(t, err)
	if !strings.Contains(stdout, "Would remove 1 mirror(s)") {
		t.Errorf("clean --dry-run output = %q", stdout)
	}
	if _, err := os.Lstat(ghost); err != nil {
		t.Error("dry run removed the broken mirror")
	}

	stdout, _, err = runApp(t, dir, "clean", "claude")
	util.AssertNoError(t, err)
	if !strings.Contains(stdout, "Removed 1 mirror(s)") {
		t.Errorf("clean output = %q", stdout)
	}
	if _, err := os.Lstat(ghost); !os.IsNotExist(err) {
		t.Error("broken mirror still present after clean")
	}
	if _, err := os.Lstat(filepath.Join(dir, ".claude", "skills", "demo")); err != nil {
		t.Errorf("valid mirror removed by clean: %v", err)
	}
}

func TestProviderArgumentRequired(t *testing.T) {
	tests := map[string][]string{
		"verify without provider": {"verify"},
		"verify unknown provider": {"verify", "nope"},
		"clean without provider":  {"clean"},
		"clean two providers":     {"clean", "claude", "cursor"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := runApp(t, t.TempDir(), args...); err == nil {
				t.Errorf("%v: expected error", args)
			}
		})
	}
}

func TestProvidersCommand(t *testing.T) {
	stdout, _, err := runApp(t, t.TempDir(), "providers")
	util.AssertNoError(t, err)
	for _, p := range model.AllProviders() {
		if !strings.Contains(stdout, string(p)) {
			t.Errorf("providers output missing %q", p)
		}
	}
	if !strings.Contains(stdout, "prompts→commands") {
		t.Errorf("providers output missing claude prompt layout: %q", stdout)
	}
}

func TestBackupCommands(t *testing.T) {
	dir := newProject(t)
	manifestPath := filepath.Join(dir, ".cognisync", config.ManifestFileName)

	stdout, _, err := runApp(t, dir, "backup", "list")
	util.AssertNoError(t, err)
	if !strings.Contains(stdout, "No backups found") {
		t.Errorf("backup list output = %q", stdout)
	}

	_, _, err = runApp(t, dir, "sync", "--manifest-only")
	util.AssertNoError(t, err)
	first := util.ReadFile(t, manifestPath)

	util.WriteCognitive(t, filepath.Join(dir, ".cognisync"), "skills", "general", "demo", "SKILL.md",
		"---\nname: demo\nversion: 1.1.0\n---\n# Demo\nchanged\n")
	_, _, err = runApp(t, dir, "sync", "--manifest-only")
	util.AssertNoError(t, err)
	if util.ReadFile(t, manifestPath) == first {
		t.Fatal("second sync did not change the manifest")
	}

	backups, err := backup.NewStore(filepath.Join(dir, ".cognisync", ".backups")).List(manifestBackupKind)
	util.AssertNoError(t, err)
	if len(backups) != 1 {
		t.Fatalf("got %d backups, want 1", len(backups))
	}
	id := backups[0].ID

	stdout, _, err = runApp(t, dir, "backup", "list")
	util.AssertNoError(t, err)
	if !strings.Contains(stdout, id) {
		t.Errorf("backup list output = %q, want %s", stdout, id)
	}

	_, _, err = runApp(t, dir, "backup", "restore", id)
	util.AssertNoError(t, err)
	util.AssertEqual(t, util.ReadFile(t, manifestPath), first)

	if _, _, err := runApp(t, dir, "backup", "restore"); err == nil {
		t.Error("restore without an id should fail")
	}
	if _, _, err := runApp(t, dir, "backup", "restore", "missing"); err == nil {
		t.Error("restore of an unknown id should fail")
	}
}
