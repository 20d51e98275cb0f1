package handler

import (
	"net/http"

	"mealorders/internal/service"
)

func lookupResponse(key string, res *service.LookupResult, extra map[string]any) map[string]any {
	body := map[string]any{
		"error": false,
		"total": len(res.Rows),
		key:     res.Rows,
	}
	if res.Warning != "" {
		body["warning"] = res.Warning
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func SuppliersHandler(lookupSvc *service.LookupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project := r.URL.Query().Get("project")
		if project == "" {
			writeError(w, http.StatusBadRequest, "project parameter is required")
			return
		}

		res := lookupSvc.Suppliers(r.Context(), project)
		writeJSON(w, http.StatusOK, lookupResponse("suppliers", res, map[string]any{"project": project}))
	}
}

func OrgChartHandler(lookupSvc *service.LookupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project := r.URL.Query().Get("project")
		if project == "" {
			writeError(w, http.StatusBadRequest, "project parameter is required")
			return
		}
		team := r.URL.Query().Get("team")

		res := lookupSvc.OrgChart(r.Context(), project, team)
		extra := map[string]any{"project": project}
		if team == "" {
			extra["team"] = "TODAS"
		} else {
			extra["team"] = team
		}
		writeJSON(w, http.StatusOK, lookupResponse("org_chart", res, extra))
	}
}

func EmployeesHandler(lookupSvc *service.LookupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team := r.URL.Query().Get("team")
		if team == "" {
			writeError(w, http.StatusBadRequest, "team parameter is required")
			return
		}

		res := lookupSvc.Employees(r.Context(), team)
		writeJSON(w, http.StatusOK, lookupResponse("employees", res, map[string]any{"team": team}))
	}
}

func CardAccountsHandler(lookupSvc *service.LookupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leader := r.URL.Query().Get("leader")
		if leader == "" {
			writeError(w, http.StatusBadRequest, "leader parameter is required")
			return
		}

		res := lookupSvc.CardAccounts(r.Context(), leader)
		writeJSON(w, http.StatusOK, lookupResponse("accounts", res, map[string]any{"leader": leader}))
	}
}
