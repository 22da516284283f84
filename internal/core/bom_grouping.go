package core

// GroupBySaleOrder builds exactly one group per distinct sale order, in the order
// the orders were fetched, whether or not any component resolved for it.
// customerNames maps customer_id → customer_name; unknown customers show NotAvailable.
func GroupBySaleOrder(orders []SalesOrder, components []ResolvedComponent, customerNames map[string]string) []SaleOrderGroup {
	bySaleOrder := make(map[string][]ResolvedComponent, len(orders))
	for _, c := range components {
		bySaleOrder[c.SaleOrderID] = append(bySaleOrder[c.SaleOrderID], c)
	}

	groups := make([]SaleOrderGroup, 0, len(orders))
	seen := make(map[string]struct{}, len(orders))
	for _, so := range orders {
		if _, dup := seen[so.ID]; dup {
			continue
		}
		seen[so.ID] = struct{}{}

		customer := customerNames[str(so.CustomerID)]
		if customer == "" {
			customer = NotAvailable
		}
		groups = append(groups, newSaleOrderGroup(so.ID, str(so.SaleOrderNo), customer, so.CreatedAt, bySaleOrder[so.ID]))
	}
	return groups
}
