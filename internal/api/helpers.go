// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/pavelgr/cinematek/internal/logging"
	"github.com/pavelgr/cinematek/internal/models"
)

// respondJSON writes v with the given status and cache directive. Cacheable
// responses also carry an ETag so shared caches can revalidate cheaply.
func respondJSON(w http.ResponseWriter, status int, directive CacheDirective, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", directive.Header())

	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if directive != CacheNone {
		w.Header().Set("Vary", "Accept-Encoding")
		w.Header().Set("ETag", generateETag(data))
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag hashes the payload with FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError writes the structured error payload. The films array is
// always present and empty so list clients can render an error state
// without a shape change.
func respondError(w http.ResponseWriter, status int, apiErr models.APIError) {
	respondJSON(w, status, CacheNone, models.ErrorResponse{
		Error: apiErr,
		Films: []models.Film{},
	})
}

// getIntParam extracts an integer query parameter with a default.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// parseCommaSeparated splits a comma-separated parameter, dropping empty
// and whitespace-only entries.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
