package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alws34/DigitalPhotoFrame/internal/database"
	"github.com/alws34/DigitalPhotoFrame/internal/effects"
	"github.com/alws34/DigitalPhotoFrame/internal/library"
	"github.com/alws34/DigitalPhotoFrame/internal/overlay"
	"github.com/alws34/DigitalPhotoFrame/internal/playback"
	"github.com/alws34/DigitalPhotoFrame/internal/render"
	"github.com/alws34/DigitalPhotoFrame/internal/stream"
)

type fixture struct {
	h   *Handlers
	lib *library.Library
	db  *database.Database
	bus *playback.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	lib, err := library.New(filepath.Join(t.TempDir(), "photos"))
	if err != nil {
		t.Fatalf("library.New: %v", err)
	}

	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "guestbook.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ov, err := overlay.New(100, 80, overlay.DefaultStyle())
	if err != nil {
		t.Fatalf("overlay.New: %v", err)
	}

	bus := playback.NewBus()
	sched := playback.New(
		playback.Config{},
		lib,
		render.NewFitter(100, 80, render.BackgroundBlack),
		ov,
		effects.NewSelector(nil, rand.New(rand.NewSource(7))),
		bus,
		rand.New(rand.NewSource(7)),
		db,
	)

	enc := stream.NewEncoder(85)
	mjpeg := stream.NewServer(bus, enc, 30, time.Second)

	return &fixture{
		h:   New(lib, db, sched, bus, enc, mjpeg, nil),
		lib: lib,
		db:  db,
		bus: bus,
	}
}

func (f *fixture) publishFrame(t *testing.T) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 100, 80))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	f.bus.Publish(img)
}

// encodeTestJPEG returns JPEG bytes of a small solid image.
func encodeTestJPEG(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}
	return buf.Bytes()
}

// multipartUpload builds a multipart body with an image part and optional
// form fields.
func multipartUpload(t *testing.T, filename string, payload []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("writing field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func TestHealthLifecycle(t *testing.T) {
	f := newFixture(t)
	router := f.h.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("healthz before frames = %d, want 503", rec.Code)
	}

	f.publishFrame(t)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz after frames = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if resp.Status != statusHealthy || !resp.Ready {
		t.Errorf("health = %+v, want healthy/ready", resp)
	}
	if resp.FramesServed != 1 {
		t.Errorf("FramesServed = %d, want 1", resp.FramesServed)
	}
}

func TestLivenessAlwaysOK(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("livez = %d, want 200", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	f := newFixture(t)
	router := f.h.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz before frames = %d, want 503", rec.Code)
	}

	f.publishFrame(t)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("readyz after frames = %d, want 200", rec.Code)
	}
}

func TestGetVersion(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("version = %d, want 200", rec.Code)
	}
	var info map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decoding version: %v", err)
	}
	if info["version"] == "" {
		t.Error("version field empty")
	}
}

func TestUploadListDelete(t *testing.T) {
	f := newFixture(t)
	router := f.h.Router()

	body, contentType := multipartUpload(t, "sunset.jpg",
		encodeTestJPEG(t, color.NRGBA{R: 250, G: 120}),
		map[string]string{"uploader": "mom", "caption": "golden hour"})

	req := httptest.NewRequest(http.MethodPost, "/api/images", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if !f.lib.Contains("sunset.jpg") {
		t.Fatal("uploaded photo not in library")
	}

	entry, err := f.db.Get(context.Background(), "sunset.jpg")
	if err != nil {
		t.Fatalf("guestbook entry missing: %v", err)
	}
	if entry.Uploader != "mom" || entry.Caption != "golden hour" {
		t.Errorf("guestbook entry = %+v", entry)
	}

	// List should show it.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/images", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d, want 200", rec.Code)
	}
	var listing struct {
		Count  int         `json:"count"`
		Images []ImageInfo `json:"images"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listing); err != nil {
		t.Fatalf("decoding listing: %v", err)
	}
	if listing.Count != 1 || listing.Images[0].Name != "sunset.jpg" {
		t.Errorf("listing = %+v", listing)
	}

	// Delete and verify 404 on repeat.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/images/sunset.jpg", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete = %d, want 200", rec.Code)
	}
	if f.lib.Contains("sunset.jpg") {
		t.Error("photo still in library after delete")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/images/sunset.jpg", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartUpload(t, "script.exe", []byte("MZ"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/images", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("upload .exe = %d, want 415", rec.Code)
	}
}

func TestUploadRejectsDuplicateContent(t *testing.T) {
	f := newFixture(t)
	router := f.h.Router()
	payload := encodeTestJPEG(t, color.NRGBA{B: 200})

	body, contentType := multipartUpload(t, "original.jpg", payload, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/images", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first upload = %d, want 201", rec.Code)
	}

	body, contentType = multipartUpload(t, "copy.jpg", payload, nil)
	req = httptest.NewRequest(http.MethodPost, "/api/images", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate upload = %d, want 409", rec.Code)
	}
	if f.lib.Contains("copy.jpg") {
		t.Error("duplicate copy left in library")
	}
}

func TestMissingImageField(t *testing.T) {
	f := newFixture(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("uploader", "nobody"); err != nil {
		t.Fatalf("writing field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("upload without image = %d, want 400", rec.Code)
	}
}

func TestListGuestbookEmpty(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("guestbook = %d, want 200", rec.Code)
	}
	var resp struct {
		Count  int              `json:"count"`
		Photos []database.Entry `json:"photos"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding guestbook: %v", err)
	}
	if resp.Count != 0 || resp.Photos == nil {
		t.Errorf("empty guestbook = %+v, want count 0 with [] photos", resp)
	}
}

func TestGetFrame(t *testing.T) {
	f := newFixture(t)
	router := f.h.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame.jpg", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("frame before publish = %d, want 503", rec.Code)
	}

	f.publishFrame(t)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame.jpg", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("frame = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %s, want image/jpeg", ct)
	}
	if _, err := jpeg.Decode(bytes.NewReader(rec.Body.Bytes())); err != nil {
		t.Errorf("frame is not a valid JPEG: %v", err)
	}
}

func TestGetStats(t *testing.T) {
	f := newFixture(t)
	seedLibraryPhoto(t, f.lib)

	rec := httptest.NewRecorder()
	f.h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stats = %d, want 200", rec.Code)
	}

	var resp StatsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if resp.PhotoCount != 1 {
		t.Errorf("PhotoCount = %d, want 1", resp.PhotoCount)
	}
	if resp.System == nil || resp.System.MemoryTotalMB == 0 {
		t.Error("system stats missing from response")
	}
}

func seedLibraryPhoto(t *testing.T, lib *library.Library) {
	t.Helper()
	path := filepath.Join(lib.Dir(), "seed.jpg")
	if err := os.WriteFile(path, encodeTestJPEG(t, color.NRGBA{G: 180}), 0o644); err != nil {
		t.Fatalf("seeding photo: %v", err)
	}
	if err := lib.Reload(); err != nil {
		t.Fatalf("reloading library: %v", err)
	}
}
