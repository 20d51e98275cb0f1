package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealorders/internal/database"
)

type fakeRowQuerier struct {
	rs   *database.RowSet
	err  error
	last string
	args []any
}

func (f *fakeRowQuerier) Rows(_ context.Context, query string, args ...any) (*database.RowSet, error) {
	f.last = query
	f.args = args
	return f.rs, f.err
}

func TestSuppliersPassthrough(t *testing.T) {
	gw := &fakeRowQuerier{rs: &database.RowSet{
		Columns: []string{"id", "name"},
		Rows:    []map[string]any{{"id": int64(1), "name": "FORNECEDOR X"}},
	}}
	svc := NewLookupService(gw)

	res := svc.Suppliers(context.Background(), "700")
	assert.Empty(t, res.Warning)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "FORNECEDOR X", res.Rows[0]["name"])
	assert.Equal(t, []any{"700"}, gw.args)
}

func TestSuppliersSampleFallback(t *testing.T) {
	gw := &fakeRowQuerier{err: errors.New("database unavailable")}
	svc := NewLookupService(gw)

	res := svc.Suppliers(context.Background(), "700")
	assert.Equal(t, warnSample, res.Warning)
	require.NotEmpty(t, res.Rows)
	assert.Equal(t, "700", res.Rows[0]["project"])
}

func TestSuppliersCachedFallback(t *testing.T) {
	gw := &fakeRowQuerier{rs: &database.RowSet{
		Rows: []map[string]any{{"id": int64(9), "name": "REAL"}},
	}}
	svc := NewLookupService(gw)

	// warm the cache, then lose the database
	first := svc.Suppliers(context.Background(), "700")
	require.Empty(t, first.Warning)

	gw.rs = nil
	gw.err = errors.New("database unavailable")

	res := svc.Suppliers(context.Background(), "700")
	assert.Equal(t, warnCached, res.Warning)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "REAL", res.Rows[0]["name"])
}

func TestEmployeesLeaderFlag(t *testing.T) {
	gw := &fakeRowQuerier{rs: &database.RowSet{
		Rows: []map[string]any{
			{"name": "ANA", "class": "LDF"},
			{"name": "BRUNO", "class": "COL"},
		},
	}}
	svc := NewLookupService(gw)

	res := svc.Employees(context.Background(), "700AA")
	require.Len(t, res.Rows, 2)
	assert.Equal(t, true, res.Rows[0]["is_leader"])
	assert.Equal(t, false, res.Rows[1]["is_leader"])
}

func TestCardAccountsUnavailableReadsEmpty(t *testing.T) {
	gw := &fakeRowQuerier{err: errors.New("database unavailable")}
	svc := NewLookupService(gw)

	res := svc.CardAccounts(context.Background(), "MARIA")
	assert.Equal(t, warnSample, res.Warning)
	assert.Empty(t, res.Rows)
}

func TestOrgChartTeamFilter(t *testing.T) {
	gw := &fakeRowQuerier{rs: &database.RowSet{Rows: []map[string]any{}}}
	svc := NewLookupService(gw)

	svc.OrgChart(context.Background(), "700", "700TA")
	assert.Equal(t, []any{"700", "700TA"}, gw.args)

	svc.OrgChart(context.Background(), "700", "")
	assert.Equal(t, []any{"700"}, gw.args)
}
