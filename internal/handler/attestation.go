package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mealorders/internal/model"
	"mealorders/internal/service"
)

type attestationResponse struct {
	Error         bool               `json:"error"`
	OrderID       int64              `json:"orderId"`
	PendingUpload bool               `json:"pendingUpload"`
	Temperatures  map[string]float64 `json:"temperatures"`
	Warnings      []string           `json:"warnings,omitempty"`
	Message       string             `json:"message"`
}

func SubmitAttestationHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid order id")
			return
		}

		var sub model.AttestationSubmission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		if err := validate.Struct(sub); err != nil {
			writeError(w, http.StatusBadRequest, "temperatura_retirada and temperatura_consumo are required")
			return
		}

		res, err := orderSvc.SubmitAttestation(r.Context(), orderID, sub)
		if err != nil {
			if errors.Is(err, service.ErrAttestationRejected) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			slog.Error("attestation failed", "order", orderID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to record attestation")
			return
		}

		writeJSON(w, http.StatusOK, attestationResponse{
			OrderID:       res.OrderID,
			PendingUpload: res.PendingUpload,
			Temperatures: map[string]float64{
				"retirada": res.WithdrawalTemp,
				"consumo":  res.ConsumptionTemp,
			},
			Warnings: res.Warnings,
			Message:  "temperatures recorded, upload in progress",
		})
	}
}

func PendingAttestationHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team := r.URL.Query().Get("team")

		items, err := orderSvc.PendingAttestations(r.Context(), team)
		if err != nil {
			slog.Error("pending attestation list failed", "team", team, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load pending attestations")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"error":      false,
			"total":      len(items),
			"pendencias": items,
		})
	}
}
