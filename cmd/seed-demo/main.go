// seed-demo loads a small demo organization into the BOM tables so the report,
// CLI and export can be tried locally. It is idempotent: rerunning it restores
// the demo rows without duplicating them.
//
// Usage: go run ./cmd/seed-demo
package main

import (
	"context"
	"log"

	"bizadmin/internal/config"
	"bizadmin/internal/db"
	"bizadmin/internal/logging"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const demoOrg = "0b6f6e0e-5d2c-4a8e-9c1d-2f3a4b5c6d7e"

type seedStep struct {
	name string
	sql  string
	// global steps touch tables without an organization column
	global bool
}

var seedSteps = []seedStep{
	{"organization", `
		INSERT INTO organizations (id, name) VALUES ($1, 'Demo Upholstery Ltd')
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;`, false},
	{"customers", `
		INSERT INTO customers (id, customer_name, organization_id) VALUES
		  ('5a1e0001-0000-4000-8000-000000000001', 'Harbour Hotels', $1),
		  ('5a1e0001-0000-4000-8000-000000000002', 'Northfield Interiors', $1)
		ON CONFLICT (id) DO UPDATE SET customer_name = EXCLUDED.customer_name;`, false},
	{"sales orders", `
		INSERT INTO sales_orders (id, sale_order_no, customer_id, created_at, organization_id) VALUES
		  ('5a1e0002-0000-4000-8000-000000000001', 'SO-1001', '5a1e0001-0000-4000-8000-000000000001', '2026-03-01T10:00:00Z', $1),
		  ('5a1e0002-0000-4000-8000-000000000002', 'SO-1002', '5a1e0001-0000-4000-8000-000000000002', '2026-03-04T09:30:00Z', $1)
		ON CONFLICT (id) DO NOTHING;`, false},
	{"sales order lines", `
		INSERT INTO sales_order_lines (id, sale_order_id, organization_id) VALUES
		  ('5a1e0003-0000-4000-8000-000000000001', '5a1e0002-0000-4000-8000-000000000001', $1),
		  ('5a1e0003-0000-4000-8000-000000000002', '5a1e0002-0000-4000-8000-000000000002', $1)
		ON CONFLICT (id) DO NOTHING;`, false},
	{"manufacturing orders", `
		INSERT INTO manufacturing_orders (id, sale_order_id, organization_id) VALUES
		  ('5a1e0004-0000-4000-8000-000000000001', '5a1e0002-0000-4000-8000-000000000001', $1),
		  ('5a1e0004-0000-4000-8000-000000000002', '5a1e0002-0000-4000-8000-000000000002', $1)
		ON CONFLICT (id) DO NOTHING;`, false},
	{"product types", `
		INSERT INTO product_types (id, name) VALUES
		  ('5a1e0005-0000-4000-8000-000000000001', 'Sofa')
		ON CONFLICT (id) DO NOTHING;`, true},
	{"quote lines", `
		INSERT INTO quote_lines (id, product_type_id) VALUES
		  ('5a1e0006-0000-4000-8000-000000000001', '5a1e0005-0000-4000-8000-000000000001')
		ON CONFLICT (id) DO NOTHING;`, true},
	{"catalog items", `
		INSERT INTO catalog_items (id, sku, item_name, item_type, measure_basis, collection_name, variant_name) VALUES
		  ('5a1e0007-0000-4000-8000-000000000001', 'FAB-22', 'Linen roll', 'fabric', 'fabric', 'Linen', 'Sand'),
		  ('5a1e0007-0000-4000-8000-000000000002', 'HW-7', 'Wood screw 4x40', 'hardware', 'unit', NULL, NULL)
		ON CONFLICT (id) DO NOTHING;`, true},
	{"BOM instances", `
		INSERT INTO bom_instances (id, sale_order_line_id, quote_line_id, organization_id) VALUES
		  ('5a1e0008-0000-4000-8000-000000000001', '5a1e0003-0000-4000-8000-000000000001', '5a1e0006-0000-4000-8000-000000000001', $1)
		ON CONFLICT (id) DO NOTHING;`, false},
	{"BOM instance lines", `
		INSERT INTO bom_instance_lines (id, bom_instance_id, resolved_part_id, resolved_sku, part_role,
		                                category_code, qty, uom, unit_cost_exw, total_cost_exw, organization_id) VALUES
		  ('5a1e0009-0000-4000-8000-000000000001', '5a1e0008-0000-4000-8000-000000000001',
		   '5a1e0007-0000-4000-8000-000000000001', 'FAB-22', 'fabric', NULL, 3.5, 'm', 12, 42, $1),
		  ('5a1e0009-0000-4000-8000-000000000002', '5a1e0008-0000-4000-8000-000000000001',
		   '5a1e0007-0000-4000-8000-000000000002', 'HW-7', 'hardware', 'fixings', 20, 'pcs', 0.5, 10, $1),
		  ('5a1e0009-0000-4000-8000-000000000003', '5a1e0008-0000-4000-8000-000000000001',
		   'LEGACY-FOAM', 'FOAM-30', 'cushion', NULL, 2, 'pcs', NULL, NULL, $1)
		ON CONFLICT (id) DO NOTHING;`, false},
}

func main() {
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect", zap.String("error", logging.SanitizeError(err)))
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		logger.Fatal("failed to begin transaction", zap.Error(err))
	}
	defer tx.Rollback(ctx)

	for _, step := range seedSteps {
		logger.Info("seeding", zap.String("step", step.name))
		if err := execStep(ctx, tx, step); err != nil {
			logger.Fatal("seed step failed", zap.String("step", step.name), zap.Error(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Fatal("failed to commit", zap.Error(err))
	}
	logger.Info("demo organization ready; set DEFAULT_ORGANIZATION_ID to use it",
		zap.String("organization_id", demoOrg))
}

func execStep(ctx context.Context, tx pgx.Tx, step seedStep) error {
	var args []any
	if !step.global {
		args = append(args, demoOrg)
	}
	_, err := tx.Exec(ctx, step.sql, args...)
	return err
}
