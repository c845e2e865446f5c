package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/scenery/model"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("o mesh\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveFlat(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "RockBase.obj"))
	touch(t, filepath.Join(dir, "Tree02.obj"))

	r := NewResolver(dir, "")

	tests := []struct {
		name string
		rec  model.PlacementRecord
		want string
	}{
		{
			name: "unit config name first",
			rec:  model.PlacementRecord{ModelName: "Rock01", UnitConfigName: "RockBase"},
			want: "RockBase.obj",
		},
		{
			name: "falls back to model name",
			rec:  model.PlacementRecord{ModelName: "Tree02", UnitConfigName: "TreeActor"},
			want: "Tree02.obj",
		},
		{
			name: "model name only",
			rec:  model.PlacementRecord{ModelName: "Tree02"},
			want: "Tree02.obj",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.rec)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != filepath.Join(dir, tt.want) {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	dir := t.TempDir()
	// directories never satisfy a lookup
	if err := os.Mkdir(filepath.Join(dir, "Ghost.obj"), 0o755); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir, "obj")
	_, err := r.Resolve(model.PlacementRecord{ModelName: "Ghost", UnitConfigName: "GhostActor"})

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if len(nfe.Tried) != 2 ||
		nfe.Tried[0] != filepath.Join(dir, "GhostActor.obj") ||
		nfe.Tried[1] != filepath.Join(dir, "Ghost.obj") {
		t.Errorf("Tried = %v", nfe.Tried)
	}
	if !strings.Contains(err.Error(), "GhostActor.obj") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestResolveNested(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "GateArea", "GateArea.dae"))

	r := NewNestedResolver(dir)
	got, err := r.Resolve(model.PlacementRecord{ModelName: "GateArea", Instance: "GateArea_001"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != filepath.Join(dir, "GateArea", "GateArea.dae") {
		t.Errorf("Resolve() = %q", got)
	}

	cands := r.Candidates(model.PlacementRecord{ModelName: "Rock", UnitConfigName: "RockActor"})
	if len(cands) != 1 || cands[0] != filepath.Join(dir, "Rock", "Rock.dae") {
		t.Errorf("nested layout should use the model name only: %v", cands)
	}
}

func TestCandidatesDeduplicates(t *testing.T) {
	r := NewResolver("models", ".fbx")
	cands := r.Candidates(model.PlacementRecord{ModelName: "Same", UnitConfigName: "Same"})
	if len(cands) != 1 || cands[0] != filepath.Join("models", "Same.fbx") {
		t.Errorf("Candidates() = %v", cands)
	}
}

func TestResolveAll(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Rock01.obj"))

	r := NewResolver(dir, ".obj")
	res := r.ResolveAll([]model.PlacementRecord{
		{ModelName: "Rock01", Instance: "a"},
		{ModelName: "Missing", Instance: "b"},
		{ModelName: "Rock01", Instance: "c"},
	})

	if len(res) != 3 {
		t.Fatalf("got %d resolutions", len(res))
	}
	if res[0].Err != nil || res[2].Err != nil || res[0].Path != res[2].Path {
		t.Errorf("Rock01 resolutions = %+v, %+v", res[0], res[2])
	}
	if res[2].Record.Instance != "c" {
		t.Error("each resolution should carry its own record")
	}
	if !errors.Is(res[1].Err, ErrNotFound) {
		t.Errorf("Missing resolution error = %v", res[1].Err)
	}
}
