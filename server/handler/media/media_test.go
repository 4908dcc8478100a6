package media

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/indieinfra/imageupload/config"
	"github.com/indieinfra/imageupload/server/state"
	"github.com/indieinfra/imageupload/storage/disk/filesystem"
	"github.com/indieinfra/imageupload/transform"
	"github.com/indieinfra/imageupload/uploader"
)

const publicURL = "https://example.org/storage/"

func newTestState(t *testing.T) (*state.State, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	cfg := &config.Config{
		Server: config.Server{Limits: config.ServerLimits{MaxPayloadSize: 1 << 20, MaxFileSize: 1 << 20, MaxMultipartMem: 1 << 20}},
	}
	up := uploader.New(filesystem.New(fs, publicURL), transform.NewImaging(), uploader.Options{
		Now: func() time.Time { return time.Unix(1700000000, 0) },
	})

	return &state.State{Cfg: cfg, Uploader: up}, fs
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, x%height, color.Black)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, target string, fields map[string]string, filename string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func imageSize(t *testing.T, fs afero.Fs, p string) (int, int) {
	t.Helper()

	data, err := afero.ReadFile(fs, p)
	if err != nil {
		t.Fatalf("read %s: %v", p, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode %s: %v", p, err)
	}
	return cfg.Width, cfg.Height
}

func TestHandleImageUpload_ResizeAndThumb(t *testing.T) {
	st, fs := newTestState(t)

	req := multipartRequest(t, "/media/image", map[string]string{
		"path":         "photos",
		"thumb":        "true",
		"width":        "200",
		"height":       "150",
		"thumb_width":  "50",
		"thumb_height": "40",
	}, "cat.png", pngBytes(t, 400, 300))
	rr := httptest.NewRecorder()

	HandleImageUpload(st).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	res := decode[uploader.Result](t, rr.Body)
	if res.Name != "1700000000-cat.png" || res.OriginalName != "cat.png" || res.Ext != "png" {
		t.Fatalf("unexpected result %+v", res)
	}
	if rr.Header().Get("Location") != res.URL || res.URL != publicURL+"photos/1700000000-cat.png" {
		t.Fatalf("unexpected url %q / location %q", res.URL, rr.Header().Get("Location"))
	}
	if res.ThumbURL == nil || *res.ThumbURL != publicURL+"photos/thumb/1700000000-cat.png" {
		t.Fatalf("unexpected thumb url %v", res.ThumbURL)
	}

	if w, h := imageSize(t, fs, "/photos/1700000000-cat.png"); w != 200 || h != 150 {
		t.Fatalf("original is %dx%d, want 200x150", w, h)
	}
	if w, h := imageSize(t, fs, "/photos/thumb/1700000000-cat.png"); w != 50 || h != 40 {
		t.Fatalf("thumb is %dx%d, want 50x40", w, h)
	}
}

func TestHandleImageUpload_ThumbUsesConfiguredSize(t *testing.T) {
	st, fs := newTestState(t)
	st.Uploader = uploader.New(filesystem.New(fs, publicURL), transform.NewImaging(), uploader.Options{
		ThumbWidth:  24,
		ThumbHeight: 18,
		Now:         func() time.Time { return time.Unix(1700000000, 0) },
	})

	req := multipartRequest(t, "/media/image", map[string]string{"path": "photos", "thumb": "on"}, "cat.png", pngBytes(t, 120, 90))
	rr := httptest.NewRecorder()

	HandleImageUpload(st).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if w, h := imageSize(t, fs, "/photos/thumb/1700000000-cat.png"); w != 24 || h != 18 {
		t.Fatalf("thumb is %dx%d, want configured 24x18", w, h)
	}
}

func TestHandleImageUpload_NoThumbByDefault(t *testing.T) {
	st, _ := newTestState(t)

	req := multipartRequest(t, "/media/image", map[string]string{"name": "Front Door"}, "IMG_1.png", pngBytes(t, 10, 10))
	rr := httptest.NewRecorder()

	HandleImageUpload(st).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var raw map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw["name"] != "front-door.png" {
		t.Fatalf("unexpected name %v", raw["name"])
	}
	if v, ok := raw["thumbUrl"]; !ok || v != nil {
		t.Fatalf("expected explicit null thumbUrl, got %v (present=%v)", v, ok)
	}
}

func TestHandleImageUpload_BadRequests(t *testing.T) {
	cases := []struct {
		name     string
		fields   map[string]string
		filename string
		data     []byte
		code     int
	}{
		{"non numeric width", map[string]string{"width": "wide"}, "a.png", []byte("x"), http.StatusBadRequest},
		{"bad thumb flag", map[string]string{"thumb": "maybe"}, "a.png", []byte("x"), http.StatusBadRequest},
		{"path traversal", map[string]string{"path": "../etc"}, "a.png", []byte("x"), http.StatusBadRequest},
		{"absolute path", map[string]string{"path": "/etc"}, "a.png", []byte("x"), http.StatusBadRequest},
		{"missing file", map[string]string{"path": "photos"}, "", nil, http.StatusBadRequest},
		{"undecodable with resize", map[string]string{"width": "10"}, "a.png", []byte("not an image"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, _ := newTestState(t)
			rr := httptest.NewRecorder()

			HandleImageUpload(st).ServeHTTP(rr, multipartRequest(t, "/media/image", tc.fields, tc.filename, tc.data))

			if rr.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleImageUpload_RejectsJSON(t *testing.T) {
	st, _ := newTestState(t)
	rr := httptest.NewRecorder()

	HandleImageUpload(st).ServeHTTP(rr, jsonRequest(t, http.MethodPost, "/media/image", map[string]string{}))

	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rr.Code)
	}
}

func TestHandleFileAndVideoUpload(t *testing.T) {
	st, fs := newTestState(t)

	rr := httptest.NewRecorder()
	HandleFileUpload(st).ServeHTTP(rr, multipartRequest(t, "/media/file", map[string]string{"path": "docs"}, "Annual Report.pdf", []byte("%PDF")))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if res := decode[uploader.Result](t, rr.Body); res.Name != "1700000000-annual-report.pdf" {
		t.Fatalf("unexpected file name %q", res.Name)
	}

	rr = httptest.NewRecorder()
	HandleVideoUpload(st).ServeHTTP(rr, multipartRequest(t, "/media/video", map[string]string{"path": "videos", "name": "Launch"}, "clip.mp4", []byte("frames")))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if res := decode[uploader.Result](t, rr.Body); res.Name != "launch.mp4" || res.ThumbURL != nil {
		t.Fatalf("unexpected video result %+v", res)
	}

	data, err := afero.ReadFile(fs, "/videos/launch.mp4")
	if err != nil || string(data) != "frames" {
		t.Fatalf("video not stored verbatim: %q, %v", data, err)
	}
}

func TestHandleBase64Upload(t *testing.T) {
	st, fs := newTestState(t)
	rr := httptest.NewRecorder()

	HandleBase64Upload(st).ServeHTTP(rr, jsonRequest(t, http.MethodPost, "/media/base64", map[string]string{
		"data": "data:image/png;base64,aGVsbG8=",
		"path": "avatars",
		"name": "bob",
	}))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	stored := decode[uploader.Stored](t, rr.Body)
	if !regexp.MustCompile(`^bob_[A-Za-z0-9]{10}\.png$`).MatchString(stored.Name) {
		t.Fatalf("unexpected name %q", stored.Name)
	}

	data, err := afero.ReadFile(fs, "/avatars/"+stored.Name)
	if err != nil || string(data) != "hello" {
		t.Fatalf("unexpected stored content %q, %v", data, err)
	}
}

func TestHandleBase64Upload_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing data":  {"path": "avatars"},
		"malformed uri": {"data": "data:image/png;base64,@@@"},
		"unknown field": {"data": "data:image/png;base64,aGVsbG8=", "colour": "red"},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			st, _ := newTestState(t)
			rr := httptest.NewRecorder()

			HandleBase64Upload(st).ServeHTTP(rr, jsonRequest(t, http.MethodPost, "/media/base64", payload))

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleContentUpload(t *testing.T) {
	st, fs := newTestState(t)
	if err := afero.WriteFile(fs, "/logs/debug.txt", []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	HandleContentUpload(st).ServeHTTP(rr, jsonRequest(t, http.MethodPost, "/media/content", map[string]string{
		"content": "raw-bytes",
		"path":    "logs",
		"name":    "debug.txt",
	}))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if stored := decode[uploader.Stored](t, rr.Body); stored.URL != publicURL+"logs/debug.txt" {
		t.Fatalf("unexpected url %q", stored.URL)
	}

	data, _ := afero.ReadFile(fs, "/logs/debug.txt")
	if string(data) != "raw-bytes" {
		t.Fatalf("expected overwrite, got %q", data)
	}

	rr = httptest.NewRecorder()
	HandleContentUpload(st).ServeHTTP(rr, jsonRequest(t, http.MethodPost, "/media/content", map[string]string{"content": "x"}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without name, got %d", rr.Code)
	}
}

func TestHandleThumb(t *testing.T) {
	st, fs := newTestState(t)
	if err := afero.WriteFile(fs, "/photos/cat.png", pngBytes(t, 100, 100), 0644); err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	HandleThumb(st).ServeHTTP(rr, jsonRequest(t, http.MethodPost, "/media/thumb", map[string]any{
		"path":   "photos",
		"file":   "cat.png",
		"width":  20,
		"height": 10,
	}))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"created":true`) {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
	if w, h := imageSize(t, fs, "/photos/thumb/cat.png"); w != 20 || h != 10 {
		t.Fatalf("thumb is %dx%d, want 20x10", w, h)
	}

	rr = httptest.NewRecorder()
	HandleThumb(st).ServeHTTP(rr, jsonRequest(t, http.MethodPost, "/media/thumb", map[string]any{
		"path": "photos",
		"file": "missing.png",
	}))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing source, got %d", rr.Code)
	}
}

func TestHandleDelete(t *testing.T) {
	st, fs := newTestState(t)
	for _, p := range []string{"/photos/cat.png", "/photos/thumb/cat.png"} {
		if err := afero.WriteFile(fs, p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	del := func(payload map[string]any) deleteResponse {
		rr := httptest.NewRecorder()
		HandleDelete(st).ServeHTTP(rr, jsonRequest(t, http.MethodDelete, "/media", payload))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		return decode[deleteResponse](t, rr.Body)
	}

	if res := del(map[string]any{"file": "cat.png", "path": "photos", "thumb": true}); !res.Deleted {
		t.Fatalf("expected deleted=true")
	}
	if exists, _ := afero.Exists(fs, "/photos/thumb/cat.png"); exists {
		t.Fatalf("thumbnail should be deleted")
	}

	if res := del(map[string]any{"file": "cat.png", "path": "photos"}); res.Deleted {
		t.Fatalf("expected deleted=false for missing file")
	}
}

func TestHandleRemoveDir(t *testing.T) {
	st, fs := newTestState(t)
	if err := afero.WriteFile(fs, "/photos/cat.png", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{"photos", "never-existed"} {
		rr := httptest.NewRecorder()
		HandleRemoveDir(st).ServeHTTP(rr, jsonRequest(t, http.MethodDelete, "/media/dir", map[string]string{"path": p}))

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if res := decode[deleteResponse](t, rr.Body); !res.Deleted {
			t.Fatalf("expected deleted=true for %q", p)
		}
	}

	if exists, _ := afero.Exists(fs, "/photos"); exists {
		t.Fatalf("directory should be removed")
	}

	rr := httptest.NewRecorder()
	HandleRemoveDir(st).ServeHTTP(rr, jsonRequest(t, http.MethodDelete, "/media/dir", map[string]string{"path": ""}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty path, got %d", rr.Code)
	}
}
