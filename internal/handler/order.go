package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"mealorders/internal/model"
	"mealorders/internal/service"
)

type createOrderResponse struct {
	Error             bool                    `json:"error"`
	OrderID           int64                   `json:"orderId"`
	AttestationStatus model.AttestationStatus `json:"attestationStatus"`
	TotalAmount       float64                 `json:"totalAmount"`
	Message           string                  `json:"message"`
}

func CreateOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub model.OrderSubmission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		if err := validate.Struct(sub); err != nil {
			writeError(w, http.StatusBadRequest, "invalid order submission: "+err.Error())
			return
		}

		res, err := orderSvc.Create(r.Context(), sub)
		if err != nil {
			if errors.Is(err, service.ErrInvalidSubmission) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.Error("order create failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save order")
			return
		}

		writeJSON(w, http.StatusOK, createOrderResponse{
			OrderID:           res.OrderID,
			AttestationStatus: res.AttestationStatus,
			TotalAmount:       res.TotalAmount,
			Message:           "order saved",
		})
	}
}

// latestOrderItem mirrors the pre-fill form the front end repeats an
// order from, so field names follow the submission payload.
type latestOrderItem struct {
	ID             int64   `json:"id"`
	WithdrawalDate string  `json:"data_retirada_original"`
	Project        string  `json:"projeto"`
	Coordinator    string  `json:"coordenador"`
	Supervisor     string  `json:"supervisor"`
	TeamCode       string  `json:"equipe"`
	LeaderName     string  `json:"nome_lider"`
	Farm           string  `json:"fazenda"`
	MealType       string  `json:"tipo_refeicao"`
	ServiceCity    string  `json:"cidade_prestacao_servico"`
	Supplier       string  `json:"fornecedor"`
	UnitPrice      float64 `json:"valor_pago"`
	WorkerNames    string  `json:"colaboradores_nomes"`
	TotalWorkers   int     `json:"total_colaboradores"`
	ToHire         int     `json:"a_contratar"`
	CardHolder     string  `json:"responsavel_cartao"`
	CardNumber     string  `json:"pagcorp"`
	Lodged         string  `json:"hospedado"`
	HotelName      string  `json:"nome_hotel"`
	NightlyRate    float64 `json:"valor_diaria"`
	Closing        string  `json:"fechamento"`
}

func LatestOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team := r.URL.Query().Get("team")
		if team == "" {
			writeError(w, http.StatusBadRequest, "team parameter is required")
			return
		}

		orders, day, err := orderSvc.LatestOrders(r.Context(), team)
		if err != nil {
			slog.Error("latest orders lookup failed", "team", team, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load latest orders")
			return
		}

		if len(orders) == 0 {
			writeError(w, http.StatusNotFound, "no orders found for team "+team)
			return
		}

		items := make([]latestOrderItem, 0, len(orders))
		for _, o := range orders {
			items = append(items, latestOrderItem{
				ID:             o.ID,
				WithdrawalDate: o.WithdrawalDate.Format("02/01/2006"),
				Project:        o.Project,
				Coordinator:    o.Coordinator,
				Supervisor:     o.Supervisor,
				TeamCode:       o.TeamCode,
				LeaderName:     o.LeaderName,
				Farm:           o.Farm,
				MealType:       o.MealType,
				ServiceCity:    o.ServiceCity,
				Supplier:       o.Supplier,
				UnitPrice:      o.UnitPrice,
				WorkerNames:    o.WorkerNames,
				TotalWorkers:   o.TotalWorkers,
				ToHire:         o.ToHire,
				CardHolder:     o.CardHolder,
				CardNumber:     o.CardNumber,
				Lodged:         o.Lodged,
				HotelName:      o.HotelName,
				NightlyRate:    o.NightlyRate,
				Closing:        o.Closing,
			})
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"error":         false,
			"total":         len(items),
			"pedidos":       items,
			"data_original": day.Format("02/01/2006"),
		})
	}
}
