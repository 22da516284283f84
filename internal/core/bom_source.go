package core

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BOMSource is the read-only query surface the approved BOM pipeline consumes.
// Every method that takes an id list returns only rows whose id (or parent id)
// is in that list; callers are responsible for batching and validating ids.
type BOMSource interface {
	ListManufacturingOrders(ctx context.Context, orgID string) ([]ManufacturingOrder, error)
	ListSalesOrders(ctx context.Context, orgID string, ids []string) ([]SalesOrder, error)
	ListSalesOrderLines(ctx context.Context, orgID string, saleOrderIDs []string) ([]SalesOrderLine, error)
	ListBomInstances(ctx context.Context, orgID string, saleOrderLineIDs []string) ([]BomInstance, error)
	ListBomInstanceLines(ctx context.Context, orgID string, bomInstanceIDs []string) ([]BomInstanceLine, error)
	ListCatalogItems(ctx context.Context, ids []string) ([]CatalogItem, error)
	ListQuoteLines(ctx context.Context, ids []string) ([]QuoteLine, error)
	ListProductTypes(ctx context.Context, ids []string) ([]ProductType, error)
	ListCustomers(ctx context.Context, orgID string, ids []string) ([]Customer, error)
}

// OrganizationDirectory resolves the organizations known to the data store.
type OrganizationDirectory interface {
	GetOrganization(ctx context.Context, id string) (*Organization, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)
}

// ErrOrganizationNotFound is returned when an organization id has no row.
var ErrOrganizationNotFound = errors.New("organization not found")

// ── Postgres implementation ───────────────────────────────────────────────────

// PostgresBOMSource reads the BOM collections from Postgres over a pgx pool.
type PostgresBOMSource struct {
	pool    *pgxpool.Pool
	builder sq.StatementBuilderType
}

// NewPostgresBOMSource constructs a PostgresBOMSource backed by the given pool.
func NewPostgresBOMSource(pool *pgxpool.Pool) *PostgresBOMSource {
	return &PostgresBOMSource{
		pool:    pool,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var (
	_ BOMSource             = (*PostgresBOMSource)(nil)
	_ OrganizationDirectory = (*PostgresBOMSource)(nil)
)

// selectInto renders q and scans every row into dst.
func (s *PostgresBOMSource) selectInto(ctx context.Context, dst any, q sq.SelectBuilder, what string) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s query: %w", what, err)
	}
	if err := pgxscan.Select(ctx, s.pool, dst, query, args...); err != nil {
		return fmt.Errorf("failed to query %s: %w", what, err)
	}
	return nil
}

func (s *PostgresBOMSource) ListManufacturingOrders(ctx context.Context, orgID string) ([]ManufacturingOrder, error) {
	q := s.builder.
		Select("id", "sale_order_id", "organization_id", "deleted").
		From("manufacturing_orders").
		Where(sq.Eq{"organization_id": orgID, "deleted": false}).
		OrderBy("created_at", "id")

	var rows []ManufacturingOrder
	if err := s.selectInto(ctx, &rows, q, "manufacturing orders"); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostgresBOMSource) ListSalesOrders(ctx context.Context, orgID string, ids []string) ([]SalesOrder, error) {
	q := s.builder.
		Select("id", "sale_order_no", "customer_id", "created_at", "organization_id", "deleted").
		From("sales_orders").
		Where(sq.Eq{"id": ids, "organization_id": orgID, "deleted": false}).
		OrderBy("created_at DESC", "id")

	var rows []SalesOrder
	if err := s.selectInto(ctx, &rows, q, "sales orders"); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostgresBOMSource) ListSalesOrderLines(ctx context.Context, orgID string, saleOrderIDs []string) ([]SalesOrderLine, error) {
	q := s.builder.
		Select("id", "sale_order_id", "organization_id", "deleted").
		From("sales_order_lines").
		Where(sq.Eq{"sale_order_id": saleOrderIDs, "organization_id": orgID, "deleted": false}).
		OrderBy("id")

	var rows []SalesOrderLine
	if err := s.selectInto(ctx, &rows, q, "sales order lines"); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostgresBOMSource) ListBomInstances(ctx context.Context, orgID string, saleOrderLineIDs []string) ([]BomInstance, error) {
	q := s.builder.
		Select("id", "sale_order_line_id", "quote_line_id", "organization_id", "deleted").
		From("bom_instances").
		Where(sq.Eq{"sale_order_line_id": saleOrderLineIDs, "organization_id": orgID, "deleted": false}).
		OrderBy("id")

	var rows []BomInstance
	if err := s.selectInto(ctx, &rows, q, "BOM instances"); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostgresBOMSource) ListBomInstanceLines(ctx context.Context, orgID string, bomInstanceIDs []string) ([]BomInstanceLine, error) {
	q := s.builder.
		Select(
			"id", "bom_instance_id", "resolved_part_id", "resolved_sku", "part_role",
			"category_code", "qty", "uom", "unit_cost_exw", "total_cost_exw",
			"description", "organization_id", "deleted",
		).
		From("bom_instance_lines").
		Where(sq.Eq{"bom_instance_id": bomInstanceIDs, "organization_id": orgID, "deleted": false}).
		OrderBy("bom_instance_id", "id")

	var rows []BomInstanceLine
	if err := s.selectInto(ctx, &rows, q, "BOM instance lines"); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostgresBOMSource) ListCatalogItems(ctx context.Context, ids []string) ([]CatalogItem, error) {
	q := s.builder.
		Select(
			"id", "sku", "item_name", "description", "item_type",
			"measure_basis", "collection_name", "variant_name",
		).
		From("catalog_items").
		Where(sq.Eq{"id": ids}).
		OrderBy("id")

	var rows []CatalogItem
	if err := s.selectInto(ctx, &rows, q, "catalog items"); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostgresBOMSource) ListQuoteLines(ctx context.Context, ids []string) ([]QuoteLine, error) {
	q := s.builder.
		Select("id", "product_type_id", "deleted").
		From("quote_lines").
		Where(sq.Eq{"id": ids, "deleted": false}).
		OrderBy("id")

	var rows []QuoteLine
	if err := s.selectInto(ctx, &rows, q, "quote lines"); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostgresBOMSource) ListProductTypes(ctx context.Context, ids []string) ([]ProductType, error) {
	q := s.builder.
		Select("id", "name", "deleted").
		From("product_types").
		Where(sq.Eq{"id": ids, "deleted": false}).
		OrderBy("id")

	var rows []ProductType
	if err := s.selectInto(ctx, &rows, q, "product types"); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PostgresBOMSource) ListCustomers(ctx context.Context, orgID string, ids []string) ([]Customer, error) {
	q := s.builder.
		Select("id", "customer_name", "organization_id").
		From("customers").
		Where(sq.Eq{"id": ids, "organization_id": orgID}).
		OrderBy("id")

	var rows []Customer
	if err := s.selectInto(ctx, &rows, q, "customers"); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetOrganization returns the organization with the given id.
func (s *PostgresBOMSource) GetOrganization(ctx context.Context, id string) (*Organization, error) {
	q := s.builder.Select("id", "name").From("organizations").Where(sq.Eq{"id": id})

	var rows []Organization
	if err := s.selectInto(ctx, &rows, q, "organization"); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrOrganizationNotFound, id)
	}
	return &rows[0], nil
}

// ListOrganizations returns every organization ordered by name.
func (s *PostgresBOMSource) ListOrganizations(ctx context.Context) ([]Organization, error) {
	q := s.builder.Select("id", "name").From("organizations").OrderBy("name", "id")

	var rows []Organization
	if err := s.selectInto(ctx, &rows, q, "organizations"); err != nil {
		return nil, err
	}
	return rows, nil
}
