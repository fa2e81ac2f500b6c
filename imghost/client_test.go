package imghost

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m3rciful/catalogbot/core/config"
)

func TestUploadRoundTrip(t *testing.T) {
	const payload = "fake-image-bytes"

	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, payload)
	}))
	defer source.Close()

	var gotAuth, gotName string
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		gotName = header.Filename
		data, _ := io.ReadAll(file)
		if string(data) != payload {
			t.Errorf("payload = %q", data)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://img.example/" + header.Filename})
	}))
	defer host.Close()

	c := New(config.ImageHostConfig{Endpoint: host.URL, APIKey: "secret"})
	hosted, err := c.Upload(context.Background(), source.URL+"/photo.png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if !strings.HasSuffix(gotName, ".png") {
		t.Errorf("filename should keep extension: %q", gotName)
	}
	if !strings.HasPrefix(hosted, "https://img.example/") {
		t.Errorf("hosted url = %q", hosted)
	}
}

func TestUploadRejectsServerError(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "x")
	}))
	defer source.Close()

	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer host.Close()

	c := New(config.ImageHostConfig{Endpoint: host.URL})
	if _, err := c.Upload(context.Background(), source.URL); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestExtensionOf(t *testing.T) {
	if got := extensionOf("https://x/y/photo.webp"); got != ".webp" {
		t.Errorf("extensionOf webp = %q", got)
	}
	if got := extensionOf("https://x/file/12345"); got != ".jpg" {
		t.Errorf("extensionOf default = %q", got)
	}
}
