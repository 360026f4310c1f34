package model

import "testing"

func TestProviderLayouts(t *testing.T) {
	for _, p := range AllProviders() {
		layout, ok := p.Layout()
		if !ok {
			t.Fatalf("provider %q has no layout", p)
		}
		if layout.Root == "" {
			t.Errorf("provider %q has empty root", p)
		}
		for _, ct := range AllCognitiveTypes() {
			if layout.Dirs[ct] == "" {
				t.Errorf("provider %q has no directory for type %q", p, ct)
			}
		}
	}
}

func TestProviderLayoutDirsUnique(t *testing.T) {
	for _, p := range AllProviders() {
		layout, _ := p.Layout()
		owner := make(map[string]CognitiveType, len(layout.Dirs))
		for _, ct := range AllCognitiveTypes() {
			dir := layout.Dirs[ct]
			if prev, ok := owner[dir]; ok {
				t.Errorf("provider %q maps both %q and %q to %q", p, prev, ct, dir)
			}
			owner[dir] = ct
		}
	}
}

func TestClaudeLayout(t *testing.T) {
	layout, _ := Claude.Layout()
	if layout.Root != ".claude" {
		t.Errorf("Root = %q, want .claude", layout.Root)
	}
	if got := layout.Dirs[TypeSkill]; got != "skills" {
		t.Errorf("skill dir = %q, want skills", got)
	}
	if got := layout.Dirs[TypePrompt]; got != "commands" {
		t.Errorf("prompt dir = %q, want commands", got)
	}
}

func TestUnknownProviderLayout(t *testing.T) {
	if _, ok := Provider("vim").Layout(); ok {
		t.Error("expected no layout for unknown provider")
	}
	if Provider("vim").IsValid() {
		t.Error("expected unknown provider to be invalid")
	}
}

func TestParseProvider(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Provider
		wantErr bool
	}{
		"lowercase": {input: "claude", want: Claude},
		"mixed":     {input: "Cursor", want: Cursor},
		"spaces":    {input: " copilot ", want: Copilot},
		"unknown":   {input: "emacs", wantErr: true},
		"empty":     {input: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProvider(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseProvider(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := map[string]Category{
		"":          CategoryGeneral,
		"  ":        CategoryGeneral,
		"Frontend":  CategoryFrontend,
		"my-custom": Category("my-custom"),
	}
	for input, want := range tests {
		if got := NormalizeCategory(input); got != want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", input, got, want)
		}
	}
	if !CategoryDevOps.IsWellKnown() {
		t.Error("devops should be well known")
	}
	if Category("my-custom").IsWellKnown() {
		t.Error("custom category should not be well known")
	}
	if len(WellKnownCategories()) != 9 {
		t.Errorf("expected 9 well-known categories, got %d", len(WellKnownCategories()))
	}
}

func TestParseSyncMethod(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    SyncMethod
		wantErr bool
	}{
		"empty defaults to symlink": {input: "", want: MethodSymlink},
		"copy":                      {input: "COPY", want: MethodCopy},
		"symlink":                   {input: "symlink", want: MethodSymlink},
		"hardlink":                  {input: "hardlink", wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseSyncMethod(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSyncMethod(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSyncMethod(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
