package scenery

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/scenery/config"
	"github.com/tsawler/scenery/format"
	"github.com/tsawler/scenery/manifest"
	"github.com/tsawler/scenery/model"
	"github.com/tsawler/scenery/reader"
	"github.com/tsawler/scenery/sink"
	"github.com/tsawler/scenery/stage"
)

const stageDoc = `<?xml version="1.0" encoding="utf-8"?>
<Root>
  <BymlRoot>
    <T192>
      <T193>
        <T192 N="ObjectList">
          <T193>
            <T160 N="Id" V="obj0" />
            <T160 N="ModelName" V="Rock01" />
            <T193 N="Translate"><T210 N="X" V="1" /><T210 N="Y" V="2" /><T210 N="Z" V="3" /></T193>
          </T193>
          <T193>
            <T160 N="Id" V="obj1" />
            <T160 N="UnitConfigName" V="TreeActor" />
            <T193 N="Translate"><T210 N="X" V="4" /><T210 N="Y" V="5" /><T210 N="Z" V="6" /></T193>
            <T193 N="Rotate"><T210 N="X" V="0" /><T210 N="Y" V="90" /><T210 N="Z" V="0" /></T193>
            <T193 N="Scale"><T210 N="X" V="1" /><T210 N="Y" V="2" /><T210 N="Z" V="3" /></T193>
          </T193>
          <T193>
            <T160 N="Id" V="obj2" />
          </T193>
          <T193>
            <T160 N="Id" V="obj3" />
            <T160 N="ModelName" V="Broken" />
            <T193 N="Scale"><T210 N="X" V="1" /><T210 N="Y" V="1" /></T193>
          </T193>
        </T192>
      </T193>
      <T193>
        <T192 N="ObjectList">
          <T193><T160 N="ModelName" V="SecondOnly" /></T193>
        </T192>
      </T193>
    </T192>
  </BymlRoot>
</Root>`

const manifestDoc = `{
  "ExportedModels": ["GateArea"],
  "PlacementInfo": {
    "GateArea_001": {
      "Position": {"X": 1, "Y": 2, "Z": 3},
      "Rotation": {"X": 0, "Y": 90, "Z": 0},
      "Scale": {"X": 1, "Y": 2, "Z": 3}
    },
    "Lamp_004": {"Position": {"X": 0, "Y": 0, "Z": 0}}
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen_NonexistentFile(t *testing.T) {
	_, _, err := Open("nonexistent.xml").Records()
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestOpen_UnsupportedFormat(t *testing.T) {
	_, _, err := Open(writeFile(t, "notes.txt", "hello")).Records()
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported format error, got %v", err)
	}

	_, _, err = Open(writeFile(t, "Stage.byml", "BY\x00\x02\x00\x00\x00\x10")).Records()
	if err == nil || !strings.Contains(err.Error(), "XML") {
		t.Errorf("expected hint to dump BYML to XML, got %v", err)
	}
}

func TestStageRecords(t *testing.T) {
	records, warnings, err := Open(writeFile(t, "Stage.xml", stageDoc)).Records()
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ModelName != "Rock01" || records[0].Instance != "obj0" {
		t.Errorf("record 0 = %+v", records[0])
	}
	// direct convention by default for stage documents
	if records[1].Convention != model.ConventionDirect || records[1].Position != model.Vec3(4, 5, 6) {
		t.Errorf("record 1 = %+v", records[1])
	}
	if records[1].ModelName != "TreeActor" {
		t.Errorf("fallback name = %q, want TreeActor", records[1].ModelName)
	}

	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %s", len(warnings), FormatWarnings(warnings))
	}
	if warnings[0].Code != WarnMissingIdentity || warnings[0].Instance != "obj2" || warnings[0].Index != 2 {
		t.Errorf("warning 0 = %+v", warnings[0])
	}
	if warnings[1].Code != WarnMalformedVector || warnings[1].Instance != "obj3" {
		t.Errorf("warning 1 = %+v", warnings[1])
	}
	var mie *stage.MissingModelIdentityError
	if !errors.As(warnings[0].Err, &mie) {
		t.Error("warning should carry its error")
	}
}

func TestStageExtract_Stats(t *testing.T) {
	res, err := Open(writeFile(t, "Stage.xml", stageDoc)).Exclude("Rock01").Extract()
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := Stats{Entries: 4, Emitted: 1, Excluded: 1, Skipped: 2}
	if res.Stats != want {
		t.Errorf("Stats = %+v, want %+v", res.Stats, want)
	}
	if res.Source != format.StageXML || res.Scenario != 1 || res.Convention != model.ConventionDirect {
		t.Errorf("result = %+v", res)
	}
	if len(res.Records) != 1 || res.Records[0].ModelName != "TreeActor" {
		t.Errorf("records = %+v", res.Records)
	}
}

func TestStageScenarioSelection(t *testing.T) {
	ext := FromNode(Must(reader.Read([]byte(stageDoc))))

	if n := Must(ext.ScenarioCount()); n != 2 {
		t.Errorf("ScenarioCount() = %d, want 2", n)
	}

	records := MustRecords(ext.Scenario(2).Records())
	if len(records) != 1 || records[0].ModelName != "SecondOnly" {
		t.Errorf("scenario 2 records = %+v", records)
	}

	for _, index := range []int{0, 3} {
		_, _, err := ext.Scenario(index).Records()
		var sie *stage.ScenarioIndexError
		if !errors.As(err, &sie) {
			t.Errorf("Scenario(%d) error = %v, want *stage.ScenarioIndexError", index, err)
		}
	}
}

func TestStageRemapConvention(t *testing.T) {
	records, _, err := Open(writeFile(t, "Stage.xml", stageDoc)).
		Convention(model.ConventionRemap).
		Records()
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	tree := records[1]
	if tree.Position != model.Vec3(4, -6, 5) || tree.Scale != model.Vec3(1, 3, 2) {
		t.Errorf("remapped record = %+v", tree)
	}
	if math.Abs(tree.Rotation.Z-math.Pi/2) > 1e-9 {
		t.Errorf("rotation = %v", tree.Rotation)
	}
}

func TestInvalidConvention(t *testing.T) {
	_, _, err := Open("Stage.xml").Convention(model.ConventionUnknown).Records()
	if err == nil || !strings.Contains(err.Error(), "invalid convention") {
		t.Errorf("expected invalid convention error, got %v", err)
	}
}

func TestManifestRecords(t *testing.T) {
	res, err := Open(writeFile(t, "Stage.json", manifestDoc)).Extract()
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if res.Source != format.Manifest || res.Scenario != 0 || res.Convention != model.ConventionRemap {
		t.Errorf("result = %+v", res)
	}
	if len(res.Records) != 2 {
		t.Fatalf("got %d records", len(res.Records))
	}

	gate := res.Records[0]
	if gate.ModelName != "GateArea" || gate.Position != model.Vec3(1, -3, 2) || gate.Scale != model.Vec3(1, 3, 2) {
		t.Errorf("gate = %+v", gate)
	}

	if len(res.Warnings) != 1 || res.Warnings[0].Code != WarnUnlistedModel || res.Warnings[0].Instance != "Lamp_004" {
		t.Errorf("warnings = %s", FormatWarnings(res.Warnings))
	}
	if res.Stats != (Stats{Entries: 2, Emitted: 2}) {
		t.Errorf("Stats = %+v", res.Stats)
	}
}

func TestManifestNaming(t *testing.T) {
	doc := `{"PlacementInfo": {"GateArea_001": {}, "NoUnderscoreHere": {}}}`
	m := Must(manifest.Parse([]byte(doc)))

	_, _, err := FromManifest(m).Records()
	var nce *manifest.NamingConventionError
	if !errors.As(err, &nce) {
		t.Fatalf("strict mode error = %v, want *manifest.NamingConventionError", err)
	}

	records, warnings, err := FromManifest(m).LenientNaming().Records()
	if err != nil {
		t.Fatalf("lenient mode error = %v", err)
	}
	if len(records) != 1 || len(warnings) != 1 || warnings[0].Code != WarnNamingConvention {
		t.Errorf("records = %+v, warnings = %+v", records, warnings)
	}
}

func TestWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.ScenarioIndex = 2
	cfg.StageConvention = model.ConventionRemap
	cfg.ExcludeNames = config.NameList{"SecondOnly"}

	res, err := Open(writeFile(t, "Stage.xml", stageDoc)).WithConfig(cfg).Extract()
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Scenario != 2 || res.Convention != model.ConventionRemap || len(res.Records) != 0 || res.Stats.Excluded != 1 {
		t.Errorf("result = %+v", res)
	}

	bad := config.Default()
	bad.ScenarioIndex = -1
	var ve config.ValidationError
	if _, err := Open("Stage.xml").WithConfig(bad).Extract(); !errors.As(err, &ve) {
		t.Errorf("expected config.ValidationError, got %v", err)
	}
}

func TestExtractFile(t *testing.T) {
	res, err := ExtractFile(writeFile(t, "Stage.json", manifestDoc), config.Default(), nil)
	if err != nil || len(res.Records) != 2 {
		t.Errorf("ExtractFile() = %+v, %v", res, err)
	}
	if _, err := ExtractFile(filepath.Join(t.TempDir(), "none.xml"), nil, nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestImmutableChaining(t *testing.T) {
	base := FromNode(Must(reader.Read([]byte(stageDoc))))
	excluded := base.Exclude("Rock01")
	_ = excluded.Exclude("TreeActor")

	if got := len(MustRecords(base.Records())); got != 2 {
		t.Errorf("base records = %d, want 2", got)
	}
	if got := len(MustRecords(excluded.Records())); got != 1 {
		t.Errorf("excluded records = %d, want 1", got)
	}
}

func TestWriteTo(t *testing.T) {
	var c sink.Collector
	res, err := Open(writeFile(t, "Stage.xml", stageDoc)).WriteTo(&c)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if got := c.Records(); len(got) != len(res.Records) || got[0].ModelName != "Rock01" {
		t.Errorf("sink records = %+v", got)
	}

	c.Close()
	if _, err := Open(writeFile(t, "Stage.xml", stageDoc)).WriteTo(&c); !errors.Is(err, sink.ErrClosed) {
		t.Errorf("expected sink.ErrClosed, got %v", err)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, _, err := Open(writeFile(t, "Stage.xml", stageDoc)).Logger(logger).Records()
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Extracted placements", "emitted=2", "Selected scenario", "Skipping object"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Message: "bad vector", List: "ObjectList", Index: 3, Instance: "obj3"},
		{Message: "bad name", Instance: "NoUnderscoreHere"},
		{Message: "plain"},
	}
	want := "ObjectList[3] obj3: bad vector\nNoUnderscoreHere: bad name\nplain"
	if got := FormatWarnings(warnings); got != want {
		t.Errorf("FormatWarnings() = %q, want %q", got, want)
	}
	if FormatWarnings(nil) != "" {
		t.Error("no warnings should format as empty")
	}
}

func TestMustPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustRecords(Open("nonexistent.xml").Records())
}
