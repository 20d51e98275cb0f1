package database

import (
	"database/sql"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS orders (
    id BIGSERIAL PRIMARY KEY,
    withdrawal_date DATE NOT NULL,
    submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    project TEXT NOT NULL DEFAULT '',
    coordinator TEXT NOT NULL DEFAULT '',
    supervisor TEXT NOT NULL DEFAULT '',
    team_code TEXT NOT NULL,
    leader_name TEXT NOT NULL DEFAULT '',
    farm TEXT NOT NULL DEFAULT '',
    meal_type TEXT NOT NULL,
    service_city TEXT NOT NULL DEFAULT '',
    supplier TEXT NOT NULL DEFAULT '',
    unit_price NUMERIC(10,2) NOT NULL DEFAULT 0,
    worker_names TEXT NOT NULL DEFAULT '',
    total_workers INT NOT NULL DEFAULT 1,
    to_hire INT NOT NULL DEFAULT 0,
    card_holder TEXT NOT NULL DEFAULT '',
    card_number TEXT NOT NULL DEFAULT '',
    lodged TEXT NOT NULL DEFAULT 'NÃO',
    hotel_name TEXT NOT NULL DEFAULT '',
    nightly_rate NUMERIC(10,2) NOT NULL DEFAULT 0,
    total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
    approved_by TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    closing TEXT NOT NULL DEFAULT '',
    attestation_status TEXT NOT NULL DEFAULT 'PENDING',
    withdrawal_temp DOUBLE PRECISION,
    consumption_temp DOUBLE PRECISION,
    withdrawal_time TIMESTAMPTZ,
    consumption_time TIMESTAMPTZ,
    attestation_notes TEXT,
    withdrawal_photo TEXT,
    consumption_photo TEXT
);

CREATE TABLE IF NOT EXISTS suppliers (
    id BIGSERIAL PRIMARY KEY,
    project TEXT NOT NULL,
    site TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    supplier_type TEXT NOT NULL DEFAULT '',
    price NUMERIC(10,2) NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'ATIVO',
    closing TEXT
);

CREATE TABLE IF NOT EXISTS org_chart (
    id BIGSERIAL PRIMARY KEY,
    project TEXT NOT NULL,
    team TEXT NOT NULL,
    leader TEXT NOT NULL DEFAULT '',
    coordinator TEXT NOT NULL DEFAULT '',
    supervisor TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS employees (
    id BIGSERIAL PRIMARY KEY,
    team TEXT NOT NULL,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT '',
    project TEXT NOT NULL DEFAULT '',
    coordinator TEXT NOT NULL DEFAULT '',
    supervisor TEXT NOT NULL DEFAULT '',
    class TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS card_accounts (
    id BIGSERIAL PRIMARY KEY,
    account TEXT NOT NULL,
    cost_center TEXT NOT NULL DEFAULT '',
    leader TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_team_code ON orders(team_code);
CREATE INDEX IF NOT EXISTS idx_orders_attestation_status ON orders(attestation_status);
CREATE INDEX IF NOT EXISTS idx_orders_withdrawal_date ON orders(withdrawal_date);
CREATE INDEX IF NOT EXISTS idx_suppliers_project ON suppliers(project);
CREATE INDEX IF NOT EXISTS idx_org_chart_project ON org_chart(project);
CREATE INDEX IF NOT EXISTS idx_employees_team ON employees(team);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}
