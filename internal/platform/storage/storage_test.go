package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"hrms/internal/platform/config"
)

func TestCheckExtensions(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{name: "jpg", file: "photo.jpg"},
		{name: "upper jpeg", file: "PHOTO.JPEG"},
		{name: "png", file: "scan.png"},
		{name: "pdf", file: "resume.pdf"},
		{name: "docx", file: "resume.docx", wantErr: true},
		{name: "no extension", file: "resume", wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.file)
			if tc.wantErr && err != ErrUnsupportedType {
				t.Fatalf("expected ErrUnsupportedType, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLocalUploadAndServe(t *testing.T) {
	root := t.TempDir()
	local, err := NewLocal(root, "hrms-uploads", "http://localhost:5000/")
	if err != nil {
		t.Fatalf("new local: %v", err)
	}

	stored, err := local.Upload(context.Background(), File{Name: "cv.pdf", Size: 4, Body: strings.NewReader("%PDF")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if stored.Name != "cv.pdf" || !strings.HasPrefix(stored.URL, "http://localhost:5000/uploads/hrms-uploads/") || !strings.HasSuffix(stored.URL, ".pdf") {
		t.Fatalf("unexpected stored file: %+v", stored)
	}

	path := strings.TrimPrefix(stored.URL, "http://localhost:5000")
	rec := httptest.NewRecorder()
	local.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "%PDF" {
		t.Fatalf("expected stored file to be served, got %d %q", rec.Code, rec.Body.String())
	}

	entries, err := os.ReadDir(filepath.Join(root, "hrms-uploads"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one stored file, got %v (%v)", entries, err)
	}
}

func TestLocalRejectsBadFiles(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "hrms-uploads", "")
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	if _, err := local.Upload(context.Background(), File{Name: "a.exe", Size: 1, Body: strings.NewReader("x")}); err != ErrUnsupportedType {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if _, err := local.Upload(context.Background(), File{Name: "a.png", Size: 0, Body: strings.NewReader("")}); err != ErrEmptyFile {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

type recordingTransport struct {
	mu       sync.Mutex
	paths    []string
	types    []string
	payloads [][]byte
}

func (r *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	r.mu.Lock()
	r.paths = append(r.paths, req.URL.Path)
	r.types = append(r.types, req.Header.Get("Content-Type"))
	r.payloads = append(r.payloads, body)
	r.mu.Unlock()
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Etag": {`"etag"`}},
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Request:    req,
	}, nil
}

func TestS3Upload(t *testing.T) {
	rt := &recordingTransport{}
	uploader, err := NewS3(context.Background(), S3Config{
		Bucket:          "hr-bucket",
		Region:          "us-east-1",
		Endpoint:        "https://mock.s3.local",
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		Folder:          "hrms-uploads",
		HTTPClient:      &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatalf("new s3: %v", err)
	}

	stored, err := uploader.Upload(context.Background(), File{Name: "me.png", Size: 3, Body: bytes.NewReader([]byte("png"))})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(stored.URL, "https://mock.s3.local/hr-bucket/hrms-uploads/") || !strings.HasSuffix(stored.URL, ".png") {
		t.Fatalf("unexpected url %q", stored.URL)
	}
	if len(rt.paths) != 1 || !strings.HasPrefix(rt.paths[0], "/hr-bucket/hrms-uploads/") {
		t.Fatalf("unexpected request paths %v", rt.paths)
	}
	if rt.types[0] != "image/png" {
		t.Fatalf("expected image/png content type, got %q", rt.types[0])
	}
}

func TestPublicBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{name: "aws", cfg: S3Config{Bucket: "b"}, want: "https://b.s3.eu-west-1.amazonaws.com"},
		{name: "path style", cfg: S3Config{Bucket: "b", Endpoint: "http://minio:9000/", PathStyle: true}, want: "http://minio:9000/b"},
		{name: "virtual host", cfg: S3Config{Bucket: "b", Endpoint: "https://objects.example.com"}, want: "https://b.objects.example.com"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := publicBase(tc.cfg, "eu-west-1"); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNewSelectsDriver(t *testing.T) {
	cfg := config.Config{StorageDriver: config.StorageDriverLocal, LocalUploadDir: t.TempDir(), UploadFolder: "hrms-uploads"}
	uploader, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := uploader.(*Local); !ok {
		t.Fatalf("expected local uploader, got %T", uploader)
	}

	cfg.StorageDriver = "ftp"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected unknown driver error")
	}
}
