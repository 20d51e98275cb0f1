package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"mealorders/internal/database"
)

const (
	warnCached = "serving cached data, database unavailable"
	warnSample = "serving sample data, database unavailable"
)

// RowQuerier is the gateway surface the lookup passthroughs need.
type RowQuerier interface {
	Rows(ctx context.Context, query string, args ...any) (*database.RowSet, error)
}

// LookupResult carries passthrough rows plus a warning when the store
// could not be reached and a cached or sample fallback was served.
type LookupResult struct {
	Rows    []map[string]any
	Warning string
}

// LookupService serves the org-metadata reads: suppliers, org chart,
// team rosters and corporate-card accounts. These are parameterized
// SELECT passthroughs; the only logic is graceful degradation, so a dead
// database never turns a lookup into a failed request.
type LookupService struct {
	gw    RowQuerier
	cache *cache.Cache
}

func NewLookupService(gw RowQuerier) *LookupService {
	return &LookupService{
		gw:    gw,
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *LookupService) lookup(ctx context.Context, key, query string, mock []map[string]any, args ...any) *LookupResult {
	rs, err := s.gw.Rows(ctx, query, args...)
	if err == nil {
		s.cache.Set(key, rs.Rows, cache.DefaultExpiration)
		return &LookupResult{Rows: rs.Rows}
	}

	slog.Error("lookup query failed", "key", key, "error", err)
	if cached, ok := s.cache.Get(key); ok {
		return &LookupResult{Rows: cached.([]map[string]any), Warning: warnCached}
	}
	return &LookupResult{Rows: mock, Warning: warnSample}
}

// Suppliers returns the active suppliers registered for a project.
func (s *LookupService) Suppliers(ctx context.Context, project string) *LookupResult {
	return s.lookup(ctx, "suppliers:"+project, `
		SELECT id, project, site, name, supplier_type, price, status,
		       COALESCE(closing, '') AS closing
		FROM suppliers
		WHERE project = $1 AND status = 'ATIVO'
		ORDER BY supplier_type, name`,
		[]map[string]any{{
			"id": int64(1), "project": project, "site": "FAZENDA TESTE",
			"name": "FORNECEDOR TESTE", "supplier_type": "CM", "price": 5.50,
			"status": "ATIVO", "closing": "TESTE FECHAMENTO",
		}},
		project,
	)
}

// OrgChart returns the org-chart rows for a project, optionally narrowed
// to one team.
func (s *LookupService) OrgChart(ctx context.Context, project, team string) *LookupResult {
	mock := []map[string]any{{
		"id": int64(1), "project": project, "team": "700TA",
		"leader": "TESTE LIDER", "coordinator": "TESTE COORD", "supervisor": "TESTE SUPER",
	}}
	if team != "" {
		return s.lookup(ctx, "org:"+project+":"+team, `
			SELECT id, project, team, leader, coordinator, supervisor
			FROM org_chart
			WHERE project = $1 AND team = $2
			ORDER BY team`,
			mock, project, team,
		)
	}
	return s.lookup(ctx, "org:"+project, `
		SELECT id, project, team, leader, coordinator, supervisor
		FROM org_chart
		WHERE project = $1
		ORDER BY team`,
		mock, project,
	)
}

// Employees returns the team roster alphabetically. Leaders carry the
// LDF class and get an is_leader flag for the front end.
func (s *LookupService) Employees(ctx context.Context, team string) *LookupResult {
	res := s.lookup(ctx, "employees:"+team, `
		SELECT id, team, name, role, project, coordinator, supervisor, class
		FROM employees
		WHERE team = $1
		ORDER BY name`,
		[]map[string]any{{
			"id": int64(1), "team": team, "name": "COLABORADOR TESTE",
			"role": "TESTE", "class": "COL",
		}},
		team,
	)
	for _, row := range res.Rows {
		row["is_leader"] = row["class"] == "LDF"
	}
	return res
}

// CardAccounts returns the corporate-card accounts registered for a
// leader. No sample fallback here: an unreachable store reads as an
// empty list with a warning.
func (s *LookupService) CardAccounts(ctx context.Context, leader string) *LookupResult {
	return s.lookup(ctx, "cards:"+leader, `
		SELECT id, account, cost_center, leader
		FROM card_accounts
		WHERE leader = $1`,
		[]map[string]any{},
		leader,
	)
}
