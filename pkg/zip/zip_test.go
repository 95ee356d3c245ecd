package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchive(t *testing.T) {
	data, err := Archive([]Entry{
		{Name: "copy.txt", Data: []byte("Sip sustainably.")},
		{Name: "banner.png", Data: []byte{0x89, 'P', 'N', 'G'}},
	})
	if err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("files = %d, want 2", len(zr.File))
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if zr.File[0].Name != "copy.txt" || string(got) != "Sip sustainably." {
		t.Fatalf("entry = %s %q", zr.File[0].Name, got)
	}
}

func TestArchiveRejectsBadNames(t *testing.T) {
	if _, err := Archive([]Entry{{Name: ""}}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := Archive([]Entry{{Name: "a.txt"}, {Name: "a.txt"}}); err == nil {
		t.Fatal("expected error for duplicate name")
	}
}
