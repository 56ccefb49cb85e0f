package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func testLayout(t *testing.T) Layout {
	t.Helper()
	l, err := NewLayout(t.TempDir(), "ws")
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	return l
}

func TestEnsureContribution_CreatesFixedSubdirs(t *testing.T) {
	l := testLayout(t)

	dir, err := l.EnsureContribution("sample")
	if err != nil {
		t.Fatalf("EnsureContribution: %v", err)
	}
	if dir != l.ContribDir("sample") {
		t.Errorf("expected dir %q, got %q", l.ContribDir("sample"), dir)
	}

	for _, sub := range []string{DirSourceDocuments, DirConversion, DirChunking, DirAuthoring} {
		path := filepath.Join(dir, sub)
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", sub, err)
		}
		if !info.IsDir() {
			t.Errorf("expected %s to be a directory", sub)
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			t.Fatalf("read %s: %v", sub, err)
		}
		if len(entries) != 0 {
			t.Errorf("expected %s to be empty, found %d entries", sub, len(entries))
		}
	}
}

func TestEnsureContribution_Idempotent(t *testing.T) {
	l := testLayout(t)

	if _, err := l.EnsureContribution("sample"); err != nil {
		t.Fatalf("first EnsureContribution: %v", err)
	}

	// Drop a file in and re-ensure: existing content must survive.
	marker := filepath.Join(l.SourceDocumentsDir("sample"), "keep.txt")
	if err := os.WriteFile(marker, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	if _, err := l.EnsureContribution("sample"); err != nil {
		t.Fatalf("second EnsureContribution: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("expected existing file to survive re-ensure: %v", err)
	}
}

func TestEnsureContribution_EmptyName(t *testing.T) {
	l := testLayout(t)
	if _, err := l.EnsureContribution(""); err == nil {
		t.Error("expected error for empty contribution name")
	}
}

func TestIngest_CopiesByteForByte(t *testing.T) {
	l := testLayout(t)
	if _, err := l.EnsureContribution("sample"); err != nil {
		t.Fatalf("EnsureContribution: %v", err)
	}

	src := filepath.Join(t.TempDir(), "doc.txt")
	content := []byte("hello\x00world\n")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	dst, err := l.Ingest("sample", src)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if filepath.Base(dst) != "doc.txt" {
		t.Errorf("expected filename preserved, got %q", filepath.Base(dst))
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("copy differs from source: %q vs %q", got, content)
	}
}

func TestIngest_OverwritesSilently(t *testing.T) {
	l := testLayout(t)
	if _, err := l.EnsureContribution("sample"); err != nil {
		t.Fatalf("EnsureContribution: %v", err)
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(src, []byte("first"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if _, err := l.Ingest("sample", src); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}

	if err := os.WriteFile(src, []byte("second"), 0o644); err != nil {
		t.Fatalf("rewrite source: %v", err)
	}
	dst, err := l.Ingest("sample", src)
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("expected final copy's contents, got %q", got)
	}

	files, err := l.SourceDocuments("sample")
	if err != nil {
		t.Fatalf("SourceDocuments: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("expected one file after double ingest, got %d", len(files))
	}
}

func TestIngest_MissingSource(t *testing.T) {
	l := testLayout(t)
	if _, err := l.EnsureContribution("sample"); err != nil {
		t.Fatalf("EnsureContribution: %v", err)
	}
	if _, err := l.Ingest("sample", filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("expected not-found error for missing source")
	}
}

func TestRegistry_OrderAndUniqueness(t *testing.T) {
	r := NewRegistry(testLayout(t))

	names := []string{"beta", "alpha", "gamma"}
	for _, n := range names {
		if _, err := r.Register(Contribution{Name: n, Domain: "testing", Summary: "s"}); err != nil {
			t.Fatalf("Register %s: %v", n, err)
		}
	}

	all := r.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 contributions, got %d", len(all))
	}
	for i, n := range names {
		if all[i].Name != n {
			t.Errorf("position %d: expected %q, got %q", i, n, all[i].Name)
		}
		if all[i].Dir == "" {
			t.Errorf("contribution %s: expected Dir populated", n)
		}
	}

	if _, err := r.Register(Contribution{Name: "alpha", Domain: "testing", Summary: "s"}); err == nil {
		t.Error("expected duplicate name to be rejected")
	}
}

func TestContribution_Validate(t *testing.T) {
	tests := []struct {
		name    string
		contrib Contribution
		wantErr bool
	}{
		{"valid", Contribution{Name: "a", Domain: "cloud computing", Summary: "s"}, false},
		{"three word domain", Contribution{Name: "a", Domain: "big data systems", Summary: "s"}, false},
		{"four word domain", Contribution{Name: "a", Domain: "very big data systems", Summary: "s"}, true},
		{"empty name", Contribution{Domain: "d", Summary: "s"}, true},
		{"empty domain", Contribution{Name: "a", Summary: "s"}, true},
		{"empty summary", Contribution{Name: "a", Domain: "d"}, true},
		{"path separator in name", Contribution{Name: "a/b", Domain: "d", Summary: "s"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.contrib.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
