package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/alws34/DigitalPhotoFrame/internal/database"
	"github.com/alws34/DigitalPhotoFrame/internal/library"
	"github.com/alws34/DigitalPhotoFrame/internal/logging"
)

// maxUploadSize caps photo uploads at 50MB.
const maxUploadSize = 50 << 20

// ImageInfo is one photo in the library listing.
type ImageInfo struct {
	Name    string `json:"name"`
	Current bool   `json:"current,omitempty"`
}

// ListImages returns the current library contents.
func (h *Handlers) ListImages(w http.ResponseWriter, _ *http.Request) {
	paths := h.library.Paths()
	current := filepath.Base(h.scheduler.CurrentPath())

	images := make([]ImageInfo, 0, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		images = append(images, ImageInfo{
			Name:    name,
			Current: name == current,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"count":  len(images),
		"images": images,
	})
}

// UploadImage accepts a multipart photo upload with optional uploader and
// caption fields, stores it in the library, and records it in the
// guestbook. Exact duplicates (by content hash) are rejected.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSONError(w, "missing image field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	path, err := h.library.Add(header.Filename, file)
	if err != nil {
		if errors.Is(err, library.ErrUnsupportedType) {
			writeJSONError(w, err.Error(), http.StatusUnsupportedMediaType)
			return
		}
		logging.Error("photo upload failed: %v", err)
		writeJSONError(w, "failed to store photo", http.StatusInternalServerError)
		return
	}
	name := filepath.Base(path)

	hash, err := database.HashFile(path)
	if err != nil {
		logging.Error("failed to hash uploaded photo %s: %v", name, err)
		writeJSONError(w, "failed to process photo", http.StatusInternalServerError)
		return
	}

	// Same content under a different name: remove the new copy.
	if dupes, err := h.db.FindByHash(r.Context(), hash); err == nil {
		for _, d := range dupes {
			if d.Name != name {
				if rmErr := h.library.Remove(name); rmErr != nil {
					logging.Warn("failed to remove duplicate upload %s: %v", name, rmErr)
				}
				writeJSONError(w, "duplicate of "+d.Name, http.StatusConflict)
				return
			}
		}
	}

	entry := &database.Entry{
		Name:     name,
		Hash:     hash,
		Uploader: r.FormValue("uploader"),
		Caption:  r.FormValue("caption"),
	}
	if err := h.db.Upsert(r.Context(), entry); err != nil {
		logging.Error("failed to record guestbook entry for %s: %v", name, err)
	}

	logging.Info("photo uploaded: %s (by %q)", name, entry.Uploader)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{
		"name": name,
		"hash": hash,
	})
}

// DeleteImage removes a photo from the library and its guestbook entry.
func (h *Handlers) DeleteImage(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(mux.Vars(r)["name"])

	if err := h.library.Remove(name); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeJSONError(w, "photo not found", http.StatusNotFound)
			return
		}
		logging.Error("photo delete failed: %v", err)
		writeJSONError(w, "failed to delete photo", http.StatusInternalServerError)
		return
	}

	if err := h.db.Delete(r.Context(), name); err != nil && !errors.Is(err, database.ErrNotFound) {
		logging.Warn("failed to delete guestbook entry for %s: %v", name, err)
	}

	logging.Info("photo deleted: %s", name)
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"deleted": name})
}

// ListGuestbook returns all guestbook entries, newest first.
func (h *Handlers) ListGuestbook(w http.ResponseWriter, r *http.Request) {
	entries, err := h.db.List(r.Context())
	if err != nil {
		logging.Error("guestbook list failed: %v", err)
		writeJSONError(w, "failed to list guestbook", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []database.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"count":   len(entries),
		"current": filepath.Base(h.scheduler.CurrentPath()),
		"photos":  entries,
	})
}
