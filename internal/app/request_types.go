package app

// ApprovedBOMRequest is the input for GetApprovedBOMReport and ExportApprovedBOM.
// String fields are raw caller input; empty values take the documented defaults.
type ApprovedBOMRequest struct {
	OrganizationID string
	Search         string
	SortKey        string // sale_order_no | customer_name | created_at (default)
	SortDirection  string // asc | desc (default)
	Page           int    // 1-based; 0 means 1
	PageSize       int    // 0 means the configured page size
	Consolidate    bool   // merge repeated components within each sale order
}
