package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrInvalidOrganization is returned when the organization id is not a valid UUID.
	ErrInvalidOrganization = errors.New("invalid organization id")
	// ErrReportUnavailable wraps a failure that left no usable report at all.
	ErrReportUnavailable = errors.New("approved BOM report unavailable")
)

// Collection names used in stage warnings.
const (
	stageManufacturingOrders = "manufacturing orders"
	stageSalesOrders         = "sales orders"
	stageSalesOrderLines     = "sales order lines"
	stageBomInstances        = "BOM instances"
	stageBomInstanceLines    = "BOM instance lines"
	stageCatalogItems        = "catalog items"
	stageQuoteLines          = "quote lines"
	stageProductTypes        = "product types"
	stageCustomers           = "customers"
)

// ApprovedBOMService assembles the Sale Order → BOM components report.
type ApprovedBOMService interface {
	// BuildReport runs the full pipeline for one organization. Stage failures are
	// absorbed into report.Warnings; an error is returned only when no usable
	// report could be produced (ErrInvalidOrganization, ErrReportUnavailable).
	BuildReport(ctx context.Context, orgID string) (*ApprovedBOMReport, error)
}

type approvedBOMService struct {
	source    BOMSource
	chunkSize int
	logger    *zap.Logger
}

// NewApprovedBOMService constructs an ApprovedBOMService reading from source.
// chunkSize bounds IN-list batches; <= 0 uses DefaultChunkSize.
func NewApprovedBOMService(source BOMSource, chunkSize int, logger *zap.Logger) ApprovedBOMService {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &approvedBOMService{
		source:    source,
		chunkSize: chunkSize,
		logger:    logger.Named("approved_bom"),
	}
}

// bomReportRun holds the state of one invocation. It is discarded afterwards and
// never shared between invocations.
type bomReportRun struct {
	svc      *approvedBOMService
	orgID    string
	warnings []string
	logger   *zap.Logger
}

func (s *approvedBOMService) BuildReport(ctx context.Context, orgID string) (report *ApprovedBOMReport, err error) {
	if !IsValidUUID(orgID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrganization, orgID)
	}

	run := &bomReportRun{
		svc:    s,
		orgID:  orgID,
		logger: s.logger.With(zap.String("organization_id", orgID)),
	}

	defer func() {
		if rv := recover(); rv != nil {
			run.logger.Error("approved BOM pipeline panicked", zap.Any("panic", rv))
			report = nil
			err = fmt.Errorf("%w: %v", ErrReportUnavailable, rv)
		}
	}()

	report = run.execute(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrReportUnavailable, ctxErr)
	}

	run.logger.Info("approved BOM report built",
		zap.Int("groups", len(report.Groups)),
		zap.Int("warnings", len(report.Warnings)))
	return report, nil
}

// warn records a failed stage. The stage's output is then treated as empty.
func (r *bomReportRun) warn(stage string, err error) {
	r.logger.Warn("approved BOM stage failed", zap.String("stage", stage), zap.Error(err))
	r.warnings = append(r.warnings, "Failed to fetch "+stage)
}

func (r *bomReportRun) result(groups []SaleOrderGroup) *ApprovedBOMReport {
	if groups == nil {
		groups = []SaleOrderGroup{}
	}
	warnings := r.warnings
	if warnings == nil {
		warnings = []string{}
	}
	return &ApprovedBOMReport{OrganizationID: r.orgID, Groups: groups, Warnings: warnings}
}

// execute runs the stages in dependency order. Each stage's queries are issued
// only once the identifier sets it needs are known.
func (r *bomReportRun) execute(ctx context.Context) *ApprovedBOMReport {
	src := r.svc.source
	size := r.svc.chunkSize
	org := r.orgID

	mos, err := src.ListManufacturingOrders(ctx, org)
	if err != nil {
		r.warn(stageManufacturingOrders, err)
	}
	saleOrderIDs := ExtractUnique(mos, func(m ManufacturingOrder) string { return str(m.SaleOrderID) })
	if len(saleOrderIDs) == 0 {
		return r.result(nil)
	}

	orders, err := fetchChunked(ctx, saleOrderIDs, size,
		func(so SalesOrder) string { return so.ID },
		func(ctx context.Context, ids []string) ([]SalesOrder, error) { return src.ListSalesOrders(ctx, org, ids) })
	if err != nil {
		r.warn(stageSalesOrders, err)
	}
	if len(orders) == 0 {
		return r.result(nil)
	}

	customerNames := r.customerNames(ctx, orders)
	components := r.components(ctx, orders)

	return r.result(GroupBySaleOrder(orders, components, customerNames))
}

// customerNames maps customer_id → customer_name for the given orders.
func (r *bomReportRun) customerNames(ctx context.Context, orders []SalesOrder) map[string]string {
	src := r.svc.source
	ids := ExtractUnique(orders, func(so SalesOrder) string { return str(so.CustomerID) })
	customers, err := fetchChunked(ctx, ids, r.svc.chunkSize,
		func(c Customer) string { return c.ID },
		func(ctx context.Context, chunk []string) ([]Customer, error) { return src.ListCustomers(ctx, r.orgID, chunk) })
	if err != nil {
		r.warn(stageCustomers, err)
	}

	names := make(map[string]string, len(customers))
	for _, c := range customers {
		if name := str(c.CustomerName); name != "" {
			names[c.ID] = name
		}
	}
	return names
}

// components resolves the BOM lines of the given orders. An empty or failed
// stage ends resolution early; the orders themselves are still reported.
func (r *bomReportRun) components(ctx context.Context, orders []SalesOrder) []ResolvedComponent {
	src := r.svc.source
	size := r.svc.chunkSize
	org := r.orgID

	soIDs := ExtractUnique(orders, func(so SalesOrder) string { return so.ID })
	soLines, err := fetchChunked(ctx, soIDs, size,
		func(l SalesOrderLine) string { return l.ID },
		func(ctx context.Context, ids []string) ([]SalesOrderLine, error) {
			return src.ListSalesOrderLines(ctx, org, ids)
		})
	if err != nil {
		r.warn(stageSalesOrderLines, err)
	}
	if len(soLines) == 0 {
		return nil
	}

	saleOrderByLine := make(map[string]string, len(soLines))
	for _, l := range soLines {
		saleOrderByLine[l.ID] = l.SaleOrderID
	}

	solIDs := ExtractUnique(soLines, func(l SalesOrderLine) string { return l.ID })
	instances, err := fetchChunked(ctx, solIDs, size,
		func(bi BomInstance) string { return bi.ID },
		func(ctx context.Context, ids []string) ([]BomInstance, error) {
			return src.ListBomInstances(ctx, org, ids)
		})
	if err != nil {
		r.warn(stageBomInstances, err)
	}
	if len(instances) == 0 {
		return nil
	}

	biIDs := ExtractUnique(instances, func(bi BomInstance) string { return bi.ID })
	lines, err := fetchChunked(ctx, biIDs, size,
		func(l BomInstanceLine) string { return l.ID },
		func(ctx context.Context, ids []string) ([]BomInstanceLine, error) {
			return src.ListBomInstanceLines(ctx, org, ids)
		})
	if err != nil {
		r.warn(stageBomInstanceLines, err)
	}
	if len(lines) == 0 {
		return nil
	}

	partIDs := ExtractUnique(lines, func(l BomInstanceLine) string { return str(l.ResolvedPartID) })
	items, err := fetchChunked(ctx, partIDs, size,
		func(ci CatalogItem) string { return ci.ID },
		src.ListCatalogItems)
	if err != nil {
		r.warn(stageCatalogItems, err)
	}

	quoteLineIDs := ExtractUnique(instances, func(bi BomInstance) string { return str(bi.QuoteLineID) })
	quoteLines, err := fetchChunked(ctx, quoteLineIDs, size,
		func(ql QuoteLine) string { return ql.ID },
		src.ListQuoteLines)
	if err != nil {
		r.warn(stageQuoteLines, err)
	}

	productTypeIDs := ExtractUnique(quoteLines, func(ql QuoteLine) string { return str(ql.ProductTypeID) })
	productTypes, err := fetchChunked(ctx, productTypeIDs, size,
		func(pt ProductType) string { return pt.ID },
		src.ListProductTypes)
	if err != nil {
		r.warn(stageProductTypes, err)
	}

	r.logger.Debug("approved BOM sources fetched",
		zap.Int("sales_order_lines", len(soLines)),
		zap.Int("bom_instances", len(instances)),
		zap.Int("bom_instance_lines", len(lines)),
		zap.Int("catalog_items", len(items)),
		zap.Int("quote_lines", len(quoteLines)),
		zap.Int("product_types", len(productTypes)))

	return JoinComponents(JoinInput{
		Lines:           lines,
		BomInstances:    indexByID(instances, func(bi BomInstance) string { return bi.ID }),
		SaleOrderByLine: saleOrderByLine,
		CatalogItems:    indexByID(items, func(ci CatalogItem) string { return ci.ID }),
		QuoteLines:      indexByID(quoteLines, func(ql QuoteLine) string { return ql.ID }),
		ProductTypes:    indexByID(productTypes, func(pt ProductType) string { return pt.ID }),
	})
}
