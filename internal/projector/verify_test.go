package projector

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/util"
)

func mirrorNames(mirrors []Mirror) []string {
	names := make([]string, 0, len(mirrors))
	for _, m := range mirrors {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

// setupVerifyProject creates one mirror of each kind under .claude.
func setupVerifyProject(t *testing.T) *testProject {
	t.Helper()
	util.RequireSymlinks(t)
	tp := newTestProject(t)
	tp.addSkill(t, "general", "linked")
	tp.addAgent(t, "general", "copied")

	p := tp.projector()
	p.SyncProvider(model.Claude, tp.scan(t)[:1], Options{})
	p.SyncProvider(model.Claude, tp.scan(t), Options{Copy: true, Types: []model.CognitiveType{model.TypeAgent}})

	skills := filepath.Join(tp.dir, ".claude", "skills")
	if err := os.Symlink(filepath.Join(tp.store, "skills", "general", "deleted"), filepath.Join(skills, "broken")); err != nil {
		t.Fatal(err)
	}
	outside := filepath.Join(tp.dir, "elsewhere")
	util.WriteFile(t, filepath.Join(outside, "SKILL.md"), "# elsewhere\n")
	if err := os.Symlink(outside, filepath.Join(skills, "foreign")); err != nil {
		t.Fatal(err)
	}
	return tp
}

func TestVerifyProvider(t *testing.T) {
	tp := setupVerifyProject(t)

	v, err := tp.projector().VerifyProvider(model.Claude)
	if err != nil {
		t.Fatalf("VerifyProvider() error = %v", err)
	}

	if got := mirrorNames(v.Valid); !reflect.DeepEqual(got, []string{"copied", "linked"}) {
		t.Errorf("Valid = %v", got)
	}
	if got := mirrorNames(v.Broken); !reflect.DeepEqual(got, []string{"broken"}) {
		t.Errorf("Broken = %v", got)
	}
	if got := mirrorNames(v.Orphaned); !reflect.DeepEqual(got, []string{"foreign"}) {
		t.Errorf("Orphaned = %v", got)
	}
	if v.Healthy() {
		t.Error("Healthy() = true with broken mirrors")
	}
	util.AssertEqual(t, v.Total(), 4)
}

func TestVerifyProviderEmptyRoot(t *testing.T) {
	tp := newTestProject(t)
	v, err := tp.projector().VerifyProvider(model.Cursor)
	if err != nil {
		t.Fatalf("VerifyProvider() error = %v", err)
	}
	if !v.Healthy() || v.Total() != 0 {
		t.Errorf("got %+v, want empty healthy verification", v)
	}
}

func TestCleanProvider(t *testing.T) {
	tests := map[string]struct {
		dryRun      bool
		wantRemoved bool
	}{
		"dry run": {dryRun: true, wantRemoved: false},
		"real":    {dryRun: false, wantRemoved: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tp := setupVerifyProject(t)
			p := tp.projector()

			names, err := p.CleanProvider(model.Claude, tt.dryRun)
			if err != nil {
				t.Fatalf("CleanProvider() error = %v", err)
			}
			sort.Strings(names)
			if !reflect.DeepEqual(names, []string{"broken", "foreign"}) {
				t.Errorf("names = %v", names)
			}

			skills := filepath.Join(tp.dir, ".claude", "skills")
			for _, n := range []string{"broken", "foreign"} {
				if util.PathExists(filepath.Join(skills, n)) == tt.wantRemoved {
					t.Errorf("%s present = %v", n, !tt.wantRemoved)
				}
			}
			if !util.PathExists(filepath.Join(tp.dir, "elsewhere", "SKILL.md")) {
				t.Error("clean followed a symlink out of the provider root")
			}

			v, err := p.VerifyProvider(model.Claude)
			if err != nil {
				t.Fatal(err)
			}
			if v.Healthy() != tt.wantRemoved {
				t.Errorf("Healthy() = %v after clean", v.Healthy())
			}
		})
	}
}

func TestVerifyUnknownProvider(t *testing.T) {
	tp := newTestProject(t)
	if _, err := tp.projector().VerifyProvider("emacs"); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("VerifyProvider() error = %v, want ErrUnknownProvider", err)
	}
	if _, err := tp.projector().CleanProvider("emacs", false); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("CleanProvider() error = %v, want ErrUnknownProvider", err)
	}
}

func TestCleanProviderContinuesAfterFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	tp := setupVerifyProject(t)
	agents := filepath.Join(tp.dir, ".claude", "agents")
	stuck := filepath.Join(agents, "stuck.md")
	if err := os.Symlink(filepath.Join(tp.store, "agents", "general", "gone", "AGENT.md"), stuck); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(agents, 0o500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(agents, 0o750) })

	names, err := tp.projector().CleanProvider(model.Claude, false)

	var me *MirrorError
	if !errors.As(err, &me) {
		t.Fatalf("CleanProvider() error = %v, want *MirrorError", err)
	}
	util.AssertEqual(t, me.Name, "stuck")
	sort.Strings(names)
	if !reflect.DeepEqual(names, []string{"broken", "foreign"}) {
		t.Errorf("names = %v, want the mirrors that were removed", names)
	}
	skills := filepath.Join(tp.dir, ".claude", "skills")
	for _, n := range []string{"broken", "foreign"} {
		if util.PathExists(filepath.Join(skills, n)) {
			t.Errorf("%s was not removed", n)
		}
	}
	if _, err := os.Lstat(stuck); err != nil {
		t.Errorf("stuck mirror should remain: %v", err)
	}
}
