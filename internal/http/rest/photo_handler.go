package rest

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/bwise1/travelog/internal/model"
	"github.com/bwise1/travelog/util"
	"github.com/bwise1/travelog/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const maxUploadSize = 25 << 20

func (api *API) PhotoRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Method(http.MethodPost, "/upload", Handler(api.UploadPhoto))
	return mux
}

// UploadPhoto takes a multipart "file" plus optional "trip_id" and "photo_id"
// fields and returns the hosted image URL to use as a photo's image_url.
func (api *API) UploadPhoto(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	if api.Deps.Cloudinary == nil {
		err := errors.New("no photo storage")
		return respondWithError(err, "photo uploads are not configured", values.Failed, &tc)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return respondWithError(err, "unable to read upload", values.BadRequestBody, &tc)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return respondWithError(err, "file is required", values.BadRequestBody, &tc)
	}
	defer file.Close()

	folder := "unsorted"
	if tripID := r.FormValue("trip_id"); tripID != "" {
		id, err := util.StringToUUID(tripID)
		if err != nil {
			return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
		}
		folder = id.String()
	}

	photoID := strings.TrimSpace(r.FormValue("photo_id"))
	if photoID == "" {
		name := util.Slugify(strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)))
		if name == "" {
			name = "photo"
		}
		photoID = name + "-" + uuid.NewString()[:8]
	}

	url, err := api.Deps.Cloudinary.UploadPhoto(r.Context(), file, folder, photoID)
	if err != nil {
		return respondWithError(err, "unable to upload photo", values.Failed, &tc)
	}

	status := values.Created
	return &ServerResponse{
		Message:    "Photo uploaded",
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       model.UploadedPhoto{PhotoID: photoID, ImageURL: url},
	}
}
