package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/minhnghia2k3/lumigram/internal/repositories/feedarchive"
	"github.com/minhnghia2k3/lumigram/internal/repositories/storyarchive"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
)

// archivePostsHandler serves the archived posts of one user, queried as
// /archive/posts?username=<name>.
func archivePostsHandler(log logger.Logger, repo feedarchive.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		if username == "" {
			http.Error(w, "username is required", http.StatusBadRequest)
			return
		}

		records, err := repo.GetByUsername(r.Context(), username)
		if err != nil {
			if errors.Is(err, feedarchive.ErrNotFound) {
				http.Error(w, "no archived posts for user", http.StatusNotFound)
				return
			}
			log.Error("Failed to read post archive", "username", username, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, log, records)
	}
}

// archiveStoriesHandler serves the archived stories of one user, queried as
// /archive/stories?username=<name>.
func archiveStoriesHandler(log logger.Logger, repo storyarchive.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		if username == "" {
			http.Error(w, "username is required", http.StatusBadRequest)
			return
		}

		records, err := repo.GetByUsername(r.Context(), username)
		if err != nil {
			if errors.Is(err, storyarchive.ErrNotFound) {
				http.Error(w, "no archived stories for user", http.StatusNotFound)
				return
			}
			log.Error("Failed to read story archive", "username", username, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, log, records)
	}
}

func writeJSON(w http.ResponseWriter, log logger.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}
