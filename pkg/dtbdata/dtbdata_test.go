package dtbdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/fdtshim-mapping/pkg/fdt"
	"github.com/OpenTraceLab/fdtshim-mapping/pkg/fdt/fdttest"
)

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	file := fdttest.WriteBoard(t, dir, "allwinner/sun50i-a64-pinephone-1.2.dtb",
		"Pine64 PinePhone (1.2)", "pine64,pinephone-1.2", "pine64,pinephone", "allwinner,sun50i-a64")

	rec, err := Extract(file, dir)
	if err != nil {
		t.Fatalf("Failed to extract: %v", err)
	}

	want := &Record{
		Path:        "allwinner/sun50i-a64-pinephone-1.2.dtb",
		Model:       "Pine64 PinePhone (1.2)",
		Compatibles: []string{"pine64,pinephone-1.2", "pine64,pinephone", "allwinner,sun50i-a64"},
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if rec.Compatible() != "pine64,pinephone-1.2" {
		t.Errorf("Expected primary compatible 'pine64,pinephone-1.2', got '%s'", rec.Compatible())
	}
}

func TestExtractTrailingSlashRoot(t *testing.T) {
	dir := t.TempDir()
	file := fdttest.WriteBoard(t, dir, "board.dtb", "Board", "vendor,board")

	rec, err := Extract(file, dir+string(filepath.Separator))
	if err != nil {
		t.Fatalf("Failed to extract: %v", err)
	}
	if rec.Path != "board.dtb" {
		t.Errorf("Expected path 'board.dtb', got '%s'", rec.Path)
	}
}

func TestExtractMissingModel(t *testing.T) {
	dir := t.TempDir()
	file := fdttest.WriteBoard(t, dir, "a/b.dtb", "", "vendor,b")

	rec, err := Extract(file, dir)
	if err != nil {
		t.Fatalf("Failed to extract: %v", err)
	}
	if rec.Model != "" {
		t.Errorf("Expected empty model, got '%s'", rec.Model)
	}
}

func TestExtractErrors(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()

	noCompat := fdttest.WriteBoard(t, dir, "nocompat.dtb", "No compatible")
	emptyCompat := fdttest.WriteBoard(t, dir, "emptycompat.dtb", "Empty compatible", []string{}...)
	garbage := filepath.Join(dir, "garbage.dtb")
	if err := os.WriteFile(garbage, []byte("this is not a device tree blob at all, sorry"), 0o644); err != nil {
		t.Fatal(err)
	}
	outside := fdttest.WriteBoard(t, other, "x.dtb", "X", "vendor,x")
	blankCompat := fdttest.WriteBoard(t, dir, "blankcompat.dtb", "Blank compatible", "")
	unterminated := fdttest.WriteFile(t, dir, "unterminated.dtb", fdttest.Node{
		Props: []fdttest.Prop{
			{Name: "model", Value: []byte("nonul")},
			fdttest.StringList("compatible", "vendor,x"),
		},
	})

	tests := []struct {
		name string
		file string
		want error
	}{
		{"no compatible", noCompat, ErrNoCompatible},
		{"empty compatible", emptyCompat, ErrNoCompatible},
		{"blank primary compatible", blankCompat, ErrNoCompatible},
		{"unterminated model", unterminated, fdt.ErrBadValue},
		{"malformed", garbage, fdt.ErrBadMagic},
		{"outside root", outside, ErrNotUnderRoot},
		{"missing file", filepath.Join(dir, "missing.dtb"), os.ErrNotExist},
		{"root itself", dir, ErrNotUnderRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.file, dir)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNodeName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"sub/dir/board.dtb", "sub@dir_board"},
		{"a/b.dtb", "a@b"},
		{"a/c.dtb", "a@c"},
		{"board.dtb", "board"},
		{"rockchip/rk3399-pinebook-pro.dtb", "rockchip@rk3399-pinebook-pro"},
		// only the first ".dtb" occurrence is removed, wherever it is
		{"x.dtbs/board.dtb", "xs@board.dtb"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := &Record{Path: tt.path, Compatibles: []string{"v,b"}}
			if got := rec.NodeName(); got != tt.want {
				t.Errorf("NodeName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestCompatiblesRendering(t *testing.T) {
	rec := &Record{
		Path:        "a.dtb",
		Compatibles: []string{"pine64,pinephone-1.2", `odd"quote`, "back\\slash", "tab\there"},
	}

	wantSource := `"pine64,pinephone-1.2", "odd\"quote", "back\\slash", "tab\there"`
	if got := rec.CompatiblesSource(); got != wantSource {
		t.Errorf("CompatiblesSource = %s, want %s", got, wantSource)
	}
	if got := rec.CompatiblesDebug(); got != "["+wantSource+"]" {
		t.Errorf("CompatiblesDebug = %s, want [%s]", got, wantSource)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"plain", `"plain"`},
		{"0.1", `"0.1"`},
		{"a\nb", `"a\nb"`},
		{"bell\x07", `"bell\x07"`},
		{"del\x7f", `"del\x7f"`},
		{"Ünïcode", `"Ünïcode"`},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestComparePath(t *testing.T) {
	a := &Record{Path: "a/x.dtb", Model: "Z", Compatibles: []string{"z,z"}}
	b := &Record{Path: "b/y.dtb", Model: "A", Compatibles: []string{"a,a"}}
	same := &Record{Path: "a/x.dtb", Model: "other", Compatibles: []string{"o,o"}}

	if ComparePath(a, b) >= 0 {
		t.Error("Expected a/x.dtb < b/y.dtb")
	}
	if ComparePath(b, a) <= 0 {
		t.Error("Expected b/y.dtb > a/x.dtb")
	}
	if ComparePath(a, same) != 0 {
		t.Error("Expected records with the same path to compare equal")
	}
}
