package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.bin")
	want := []byte{0x01, 0x02, 0x03}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewLoader(0).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("bytes mismatch: %v", got)
	}
}

func TestLoadDataURI(t *testing.T) {
	want := []byte("fake image bytes")
	source := "data:image/png;base64," + base64.StdEncoding.EncodeToString(want)

	got, err := NewLoader(0).Load(context.Background(), source)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("bytes mismatch: %q", got)
	}
}

func TestLoadDataURIMalformed(t *testing.T) {
	loader := NewLoader(0)

	if _, err := loader.Load(context.Background(), "data:image/png;base64"); err == nil {
		t.Fatal("expected error for missing payload")
	}
	if _, err := loader.Load(context.Background(), "data:image/png;base64,$$$"); err == nil {
		t.Fatal("expected error for bad base64")
	}
	if _, err := loader.Load(context.Background(), "data:image/png,plain"); err == nil {
		t.Fatal("expected error for non-base64 encoding")
	}
}

func TestLoadHTTP(t *testing.T) {
	want := []byte("remote image")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(want)
	}))
	defer server.Close()

	got, err := NewLoader(time.Second).Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("bytes mismatch: %q", got)
	}
}

func TestLoadHTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	if _, err := NewLoader(time.Second).Load(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := NewLoader(0).Load(context.Background(), "does-not-exist.png"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
