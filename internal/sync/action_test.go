package sync

import (
	"errors"
	"testing"
	"time"

	"github.com/klauern/cognisync/internal/manifest"
	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/scanner"
	"github.com/klauern/cognisync/internal/util"
)

func TestBuildActions(t *testing.T) {
	c := scanner.Comparison{
		New:      []scanner.Item{{Name: "fresh", Type: model.TypeSkill}},
		Modified: []scanner.Item{{Name: "changed", Type: model.TypeAgent}},
		Removed:  []manifest.Entry{{Name: "gone", Type: model.TypePrompt}},
	}

	actions := buildActions(c)

	want := []struct {
		op   Operation
		name string
	}{
		{OpAdd, "fresh"},
		{OpUpdate, "changed"},
		{OpRemove, "gone"},
	}
	if len(actions) != len(want) {
		t.Fatalf("got %d actions, want %d", len(actions), len(want))
	}
	for i, w := range want {
		util.AssertEqual(t, actions[i].Operation, w.op)
		util.AssertEqual(t, actions[i].Name, w.name)
	}
	if actions[2].Item != nil {
		t.Error("remove action should not carry an item")
	}
}

func TestApply(t *testing.T) {
	installed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	newManifest := func(t *testing.T) *manifest.Manifest {
		m := manifest.New(t.TempDir() + "/manifest.json")
		util.AssertNoError(t, m.AddEntry(manifest.Entry{
			Name:        "existing",
			Type:        model.TypeSkill,
			InstalledAt: installed,
			Source:      manifest.SourceRegistry,
			Fingerprint: "aaaa",
		}))
		return m
	}

	tests := map[string]struct {
		action  Action
		wantErr error
		check   func(t *testing.T, m *manifest.Manifest)
	}{
		"add": {
			action: Action{Operation: OpAdd, Name: "fresh", Item: &scanner.Item{Name: "fresh", Type: model.TypeSkill}},
			check: func(t *testing.T, m *manifest.Manifest) {
				util.AssertEqual(t, m.EntryCount(), 2)
			},
		},
		"add duplicate": {
			action:  Action{Operation: OpAdd, Name: "existing", Item: &scanner.Item{Name: "existing", Type: model.TypeSkill}},
			wantErr: manifest.ErrEntryExists,
		},
		"update keeps origin": {
			action: Action{Operation: OpUpdate, Name: "existing", Item: &scanner.Item{Name: "existing", Type: model.TypeSkill, Fingerprint: "bbbb"}},
			check: func(t *testing.T, m *manifest.Manifest) {
				e, _ := m.Entry("existing")
				util.AssertEqual(t, e.Fingerprint, "bbbb")
				util.AssertEqual(t, e.Source, manifest.SourceRegistry)
				if !e.InstalledAt.Equal(installed) {
					t.Errorf("InstalledAt = %v", e.InstalledAt)
				}
			},
		},
		"remove": {
			action: Action{Operation: OpRemove, Name: "existing"},
			check: func(t *testing.T, m *manifest.Manifest) {
				util.AssertEqual(t, m.EntryCount(), 0)
			},
		},
		"remove missing": {
			action:  Action{Operation: OpRemove, Name: "missing"},
			wantErr: manifest.ErrEntryNotFound,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := newManifest(t)
			err := apply(m, tt.action)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("apply() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			util.AssertNoError(t, err)
			tt.check(t, m)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("boom")
	tests := map[string]struct {
		err  *Error
		want string
	}{
		"plain":    {err: &Error{Code: ErrCodeScan, Err: base}, want: "SCAN_FAILED: boom"},
		"named":    {err: &Error{Code: ErrCodeApply, Name: "x", Err: base}, want: "MANIFEST_APPLY_FAILED [x]: boom"},
		"provider": {err: &Error{Code: ErrCodeProvider, Provider: model.Claude, Err: base}, want: "PROVIDER_SYNC_FAILED [claude]: boom"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			util.AssertEqual(t, tt.err.Error(), tt.want)
			if !errors.Is(tt.err, base) {
				t.Error("Unwrap does not expose the cause")
			}
		})
	}
}
