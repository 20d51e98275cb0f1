package handler

import (
	"net/http"
	"time"
)

func HealthHandler() http.HandlerFunc {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"error":     false,
			"message":   "ok",
			"timestamp": time.Now().In(loc).Format(time.RFC3339),
		})
	}
}
