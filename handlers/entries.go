package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/camden-git/traveldiary/media"
	"github.com/camden-git/traveldiary/repository"
	"github.com/camden-git/traveldiary/services"
)

// multipart parts beyond this are spooled to temp files
const multipartMemory = 32 << 20

type EntryHandler struct {
	Service         *services.EntryService
	MediaBaseURL    string
	MaxRequestBytes int64
	Logger          *zap.SugaredLogger
}

type mediaResponse struct {
	Filename  string `json:"filename"`
	MediaType string `json:"media_type"`
	SortOrder int    `json:"sort_order"`
	URL       string `json:"url"`
}

// entryResponse keeps the primary columns at the top level for older
// clients; media[0] repeats the primary.
type entryResponse struct {
	ID           uint            `json:"id"`
	Filename     string          `json:"filename"`
	MediaType    string          `json:"media_type"`
	URL          string          `json:"url"`
	Caption      string          `json:"caption"`
	LocationName string          `json:"location_name"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
	Category     string          `json:"category"`
	Date         string          `json:"date"`
	Media        []mediaResponse `json:"media"`
}

func (eh *EntryHandler) toResponse(e services.Entry) entryResponse {
	primary := e.Primary()
	resp := entryResponse{
		ID:           e.ID,
		Filename:     primary.Ref.String(),
		MediaType:    string(primary.Type),
		URL:          media.PublicURL(primary.Ref, eh.MediaBaseURL),
		Caption:      e.Caption,
		LocationName: e.LocationName,
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		Category:     e.Category,
		Date:         e.Date,
		Media:        make([]mediaResponse, 0, len(e.Media)),
	}
	for _, item := range e.Media {
		resp.Media = append(resp.Media, mediaResponse{
			Filename:  item.Ref.String(),
			MediaType: string(item.Type),
			SortOrder: item.SortOrder,
			URL:       media.PublicURL(item.Ref, eh.MediaBaseURL),
		})
	}
	return resp
}

func parseEntryID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "entry_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid entry id")
	}
	return uint(id), nil
}

func (eh *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.EntryFilter{
		Category: strings.TrimSpace(q.Get("category")),
		From:     strings.TrimSpace(q.Get("from")),
		To:       strings.TrimSpace(q.Get("to")),
	}

	entries, err := eh.Service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, eh.Logger, r, err)
		return
	}

	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, eh.toResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (eh *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := eh.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, eh.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eh.toResponse(*entry))
}

// CreateEntry accepts a multipart form with the files under "files" (the
// older single-file field "file" is read too) plus the metadata fields.
func (eh *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	if eh.MaxRequestBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, eh.MaxRequestBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	latitude, err := formCoordinate(r, "latitude")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	longitude, err := formCoordinate(r, "longitude")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	headers := append(r.MultipartForm.File["files"], r.MultipartForm.File["file"]...)
	uploads := make([]media.Upload, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			eh.Logger.Errorw("failed to open multipart file", "file", fh.Filename, "error", err)
			writeError(w, http.StatusBadRequest, "Could not read uploaded file")
			return
		}
		opened = append(opened, f)
		uploads = append(uploads, media.Upload{Name: fh.Filename, Size: fh.Size, Body: f})
	}

	entry, err := eh.Service.Create(r.Context(), services.CreateInput{
		Files:        uploads,
		Caption:      r.FormValue("caption"),
		LocationName: r.FormValue("location_name"),
		Latitude:     latitude,
		Longitude:    longitude,
		Category:     r.FormValue("category"),
		Date:         r.FormValue("date"),
	})
	if err != nil {
		writeServiceError(w, eh.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, eh.toResponse(*entry))
}

func formCoordinate(r *http.Request, field string) (*float64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	return parseCoordinate(field, raw)
}

func parseCoordinate(field, raw string) (*float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid %s %q", field, raw)
	}
	return &v, nil
}

// UpdateEntry applies a JSON subset of the mutable fields.
func (eh *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch, err := decodeEntryPatch(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := eh.Service.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, eh.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eh.toResponse(*entry))
}

func decodeEntryPatch(body map[string]json.RawMessage) (services.EntryPatch, error) {
	var patch services.EntryPatch
	var err error

	for field, dst := range map[string]**string{
		"caption":       &patch.Caption,
		"location_name": &patch.LocationName,
		"category":      &patch.Category,
		"date":          &patch.Date,
	} {
		if *dst, err = decodeStringField(body, field); err != nil {
			return patch, err
		}
	}
	if patch.Latitude, err = decodeCoordField(body, "latitude"); err != nil {
		return patch, err
	}
	if patch.Longitude, err = decodeCoordField(body, "longitude"); err != nil {
		return patch, err
	}
	return patch, nil
}

// decodeStringField treats absent and null the same: keep the stored value.
func decodeStringField(body map[string]json.RawMessage, field string) (*string, error) {
	raw, ok := body[field]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%s must be a string", field)
	}
	return &s, nil
}

// decodeCoordField: absent keeps, null or "" clears, a number or numeric string sets.
func decodeCoordField(body map[string]json.RawMessage, field string) (services.CoordPatch, error) {
	raw, ok := body[field]
	if !ok {
		return services.CoordPatch{}, nil
	}
	if string(raw) == "null" {
		return services.CoordPatch{Set: true}, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return services.CoordPatch{Set: true}, nil
		}
		v, err := parseCoordinate(field, s)
		if err != nil {
			return services.CoordPatch{}, err
		}
		return services.CoordPatch{Set: true, Value: v}, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return services.CoordPatch{}, fmt.Errorf("invalid %s", field)
	}
	return services.CoordPatch{Set: true, Value: &f}, nil
}

func (eh *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := eh.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, eh.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
