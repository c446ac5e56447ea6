package siteintel

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/siteintel/profile"
)

// RegisterRoutes mounts the HTTP API on a chi router. A scrape always
// answers 200 with the result envelope; only request validation (400)
// and merge validation (422) break out of it.
func (svc *Service) RegisterRoutes(r chi.Router) {
	r.Post("/v1/scrape", svc.handleScrape)
	r.Get("/v1/profiles/{ownerID}", svc.handleGetProfile)
	r.Get("/v1/profiles/{ownerID}/history", svc.handleHistory)
}

func (svc *Service) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := svc.ScrapeBusinessWebsite(r.Context(), req)
	switch {
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, profile.ErrInvalidProfile):
		writeError(w, http.StatusUnprocessableEntity, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (svc *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := svc.GetProfile(r.Context(), chi.URLParam(r, "ownerID"))
	switch {
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, p)
	}
}

func (svc *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := svc.ScrapeHistory(r.Context(), chi.URLParam(r, "ownerID"), limit)
	switch {
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, entries)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
