package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/fdtshim-mapping/pkg/fdt/fdttest"
)

const program = "fdtshim-mapping-generator"

// TestGenerateE2E tests the generator end-to-end
func TestGenerateE2E(t *testing.T) {
	dtbs := t.TempDir()
	fdttest.WriteBoard(t, dtbs, "a/x.dtb", "Board X", "vendor,x")
	fdttest.WriteBoard(t, dtbs, "b/y.dtb", "Board Y", "vendor,y")
	fdttest.WriteBoard(t, dtbs, "c/dup1.dtb", "Dup 1", "vendor,dup")
	fdttest.WriteBoard(t, dtbs, "c/dup2.dtb", "Dup 2", "vendor,dup")

	empty := t.TempDir()

	broken := t.TempDir()
	fdttest.WriteBoard(t, broken, "ok.dtb", "OK", "vendor,ok")
	if err := os.WriteFile(filepath.Join(broken, "bad.dtb"), []byte("not a dtb"), 0o644); err != nil {
		t.Fatal(err)
	}

	file := filepath.Join(empty, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name          string
		args          []string
		wantCode      int
		wantStdout    []string
		wantNotStdout []string
		wantStderr    []string
		wantEmptyOut  bool
	}{
		{
			name:     "mapping with collisions",
			args:     []string{dtbs},
			wantCode: ExitOK,
			wantStdout: []string{
				"/dts-v1/;",
				"\tcompatible = \"fdtshim,mapping\";",
				" * - vendor,dup\n *     - c/dup1.dtb\n *     - c/dup2.dtb\n",
				"\t\ta@x {\n\t\t\tdtb = \"a/x.dtb\";",
				"\t\tb@y {\n\t\t\tdtb = \"b/y.dtb\";",
			},
			wantNotStdout: []string{"c@dup1", "c@dup2", "No warnings"},
			wantStderr:    []string{"INFO", "--- Reading dtb data...", "Writing data..."},
		},
		{
			name:       "empty directory",
			args:       []string{empty},
			wantCode:   ExitOK,
			wantStdout: []string{"/* No warnings during generation */", "\tmapping {\n\t};\n};\n"},
		},
		{
			name:       "no arguments",
			args:       []string{},
			wantCode:   ExitUsage,
			wantStdout: []string{"Usage: " + program + " <path to dtbs output>"},
			wantStderr: []string{"ERRO", "no argument provided"},
		},
		{
			name:       "too many arguments",
			args:       []string{dtbs, empty},
			wantCode:   ExitUsage,
			wantStdout: []string{"Usage: " + program},
			wantStderr: []string{"too many arguments provided"},
		},
		{
			name:       "short help",
			args:       []string{"-h"},
			wantCode:   ExitOK,
			wantStdout: []string{"Usage: " + program + " <path to dtbs output>"},
		},
		{
			name:       "long help",
			args:       []string{"--help"},
			wantCode:   ExitOK,
			wantStdout: []string{"Usage: " + program},
		},
		{
			name:       "dos help",
			args:       []string{"/?"},
			wantCode:   ExitOK,
			wantStdout: []string{"Usage: " + program},
		},
		{
			name:         "missing directory",
			args:         []string{filepath.Join(empty, "nope")},
			wantCode:     ExitNotDir,
			wantStderr:   []string{"not a directory"},
			wantEmptyOut: true,
		},
		{
			name:         "path is a file",
			args:         []string{file},
			wantCode:     ExitNotDir,
			wantEmptyOut: true,
		},
		{
			name:         "broken dtb",
			args:         []string{broken},
			wantCode:     ExitExtraction,
			wantStderr:   []string{"ERRO", "bad.dtb"},
			wantEmptyOut: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := Run(program, tt.args, &stdout, &stderr)

			if code != tt.wantCode {
				t.Fatalf("Expected exit code %d, got %d\nstdout:\n%s\nstderr:\n%s",
					tt.wantCode, code, stdout.String(), stderr.String())
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("Expected stdout to contain %q, got:\n%s", want, stdout.String())
				}
			}
			for _, unwanted := range tt.wantNotStdout {
				if strings.Contains(stdout.String(), unwanted) {
					t.Errorf("Expected stdout not to contain %q, got:\n%s", unwanted, stdout.String())
				}
			}
			for _, want := range tt.wantStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("Expected stderr to contain %q, got:\n%s", want, stderr.String())
				}
			}
			if tt.wantEmptyOut && stdout.Len() != 0 {
				t.Errorf("Expected no stdout, got:\n%s", stdout.String())
			}
		})
	}
}

func TestNilArgsMeansNoArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run(program, nil, &stdout, &stderr); code != ExitUsage {
		t.Errorf("Expected exit code %d, got %d", ExitUsage, code)
	}
}
