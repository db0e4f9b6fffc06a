package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/ecfrdash/ecfr-dashboard/internal/api/respond"
	"github.com/ecfrdash/ecfr-dashboard/internal/localstate"
	"github.com/ecfrdash/ecfr-dashboard/internal/services"
)

// ActivityHandler serves activities, users and stored images.
type ActivityHandler struct {
	activities     *services.ActivityService
	users          *services.UserService
	layout         localstate.Layout
	maxUploadBytes int64
}

func NewActivityHandler(activities *services.ActivityService, users *services.UserService, layout localstate.Layout, maxUploadBytes int64) *ActivityHandler {
	return &ActivityHandler{activities: activities, users: users, layout: layout, maxUploadBytes: maxUploadBytes}
}

// ListActivities handles GET /api/activities
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	recs, err := h.activities.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	respond.WriteJSON(w, http.StatusOK, recs)
}

// ListUsers handles GET /api/users
func (h *ActivityHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	recs, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	respond.WriteJSON(w, http.StatusOK, recs)
}

// UploadActivity handles POST /api/upload-activity (multipart: image + fields).
func (h *ActivityHandler) UploadActivity(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	in := services.UploadInput{Fields: map[string]string{}}

	err := r.ParseMultipartForm(h.maxUploadBytes)
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		// No multipart body means no image; the service reports it.
	case err != nil:
		hlog.FromRequest(r).Warn().Err(err).Msg("upload parse form")
		respond.WriteBadRequest(w, "invalid multipart form")
		return
	default:
		defer func() { _ = r.MultipartForm.RemoveAll() }()
		for k, vs := range r.MultipartForm.Value {
			if len(vs) > 0 {
				in.Fields[k] = vs[0]
			}
		}
		if file, hdr, ferr := r.FormFile(services.ImageField); ferr == nil {
			defer file.Close()
			in.Image = file
			in.ImageName = hdr.Filename
		}
	}

	rec, err := h.activities.Upload(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, rec)
}

// GetImage handles GET /images/{name}
func (h *ActivityHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	path, err := h.layout.ImagePath(mux.Vars(r)["name"])
	if err != nil {
		respond.WriteNotFound(w, "image not found")
		return
	}
	http.ServeFile(w, r, path)
}
