package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/repo"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"DataPath", DataPath, "/test/repo/.bibliograph"},
		{"ConfigPath", ConfigPath, "/test/repo/.bibliograph/config.json"},
		{"CachePath", CachePath, "/test/repo/.bibliograph/cache"},
		{"DBPath", DBPath, "/test/repo/.bibliograph/cache/library.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(root)
			if got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, root, got, tt.want)
			}
		})
	}
}

func TestPDFPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		dir  string
		want string
	}{
		{"", "/repo/.bibliograph/pdfs"},
		{".bibliograph/pdfs", "/repo/.bibliograph/pdfs"},
		{"papers", "/repo/papers"},
		{"/abs/pdfs", "/abs/pdfs"},
		{"~/pdfs", filepath.Join(home, "pdfs")},
	}

	for _, tt := range tests {
		c := &Config{PDFDir: tt.dir}
		if got := c.PDFPath("/repo"); got != tt.want {
			t.Errorf("PDFPath() with pdf_dir %q = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestIsRepository(t *testing.T) {
	tmpDir := t.TempDir()

	if IsRepository(tmpDir) {
		t.Error("IsRepository() = true for non-repo directory")
	}

	if err := os.Mkdir(filepath.Join(tmpDir, DataDir), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", DataDir, err)
	}

	if !IsRepository(tmpDir) {
		t.Error("IsRepository() = false for repo directory")
	}
}

func TestIsRepository_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, DataDir), []byte("not a dir"), 0644); err != nil {
		t.Fatalf("Failed to create %s file: %v", DataDir, err)
	}

	if IsRepository(tmpDir) {
		t.Error("IsRepository() = true when data path is a file")
	}
}

func TestFindRepository(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, DataDir), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", DataDir, err)
	}
	nested := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}

	root, err := FindRepository(nested)
	if err != nil {
		t.Fatalf("FindRepository() error = %v", err)
	}
	want, _ := filepath.Abs(tmpDir)
	if root != want {
		t.Errorf("FindRepository() = %q, want %q", root, want)
	}
}

func TestFindRepository_NotFound(t *testing.T) {
	_, err := FindRepository(t.TempDir())
	if err == nil {
		t.Fatal("FindRepository() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "not in a bibliograph repository") {
		t.Errorf("error = %v, want not-in-repository message", err)
	}
}

func TestLoadSave(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, DataDir), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", DataDir, err)
	}

	cfg := &Config{PDFDir: "/pdfs", PDFReader: "skim"}
	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.PDFDir != "/pdfs" || got.PDFReader != "skim" {
		t.Errorf("Load() = %+v, want pdf_dir /pdfs and reader skim", got)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	got, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Default()
	if *got != *want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, DataDir), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", DataDir, err)
	}
	if err := os.WriteFile(ConfigPath(tmpDir), []byte("{invalid"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load() expected error for invalid JSON")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, DataDir), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", DataDir, err)
	}
	if err := os.WriteFile(ConfigPath(tmpDir), []byte(`{"pdf_reader":"zathura"}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	got, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.PDFReader != "zathura" {
		t.Errorf("PDFReader = %q, want zathura", got.PDFReader)
	}
	if got.PDFDir != Default().PDFDir {
		t.Errorf("PDFDir = %q, want default %q", got.PDFDir, Default().PDFDir)
	}
}

func TestConfigGetSet(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("pdf_reader", "okular"); err != nil {
		t.Fatalf("Set(pdf_reader) error = %v", err)
	}
	if v, _ := cfg.Get("pdf_reader"); v != "okular" {
		t.Errorf("Get(pdf_reader) = %q, want okular", v)
	}

	if err := cfg.Set("pdf_dir", "~/papers"); err != nil {
		t.Fatalf("Set(pdf_dir) error = %v", err)
	}
	if v, _ := cfg.Get("pdf_dir"); v != "~/papers" {
		t.Errorf("Get(pdf_dir) = %q, want ~/papers", v)
	}

	if err := cfg.Set("pdf_reader", "acrobat"); err == nil {
		t.Error("Set(pdf_reader, acrobat) expected error")
	}
	if err := cfg.Set("color", "red"); err == nil {
		t.Error("Set(color) expected error")
	}
	if _, err := cfg.Get("color"); err == nil {
		t.Error("Get(color) expected error")
	}
}

func TestValidatePDFReader(t *testing.T) {
	tests := []struct {
		reader  string
		wantErr bool
	}{
		{"", false},
		{"system", false},
		{"skim", false},
		{"preview", false},
		{"zathura", false},
		{"evince", false},
		{"okular", false},
		{"invalid", true},
		{"SKIM", true},
	}

	for _, tt := range tests {
		t.Run(tt.reader, func(t *testing.T) {
			err := ValidatePDFReader(tt.reader)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePDFReader(%q) error = %v, wantErr %v", tt.reader, err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"~", home},
		{"~/Documents", filepath.Join(home, "Documents")},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.input); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
