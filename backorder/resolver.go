package backorder

import (
	"fmt"

	"bitbucket.org/mmdatafocus/backorder_backend/models"
)

type transferKey struct {
	orderId          int
	productVariantId int
}

// Snapshot holds the purchase and transfer state every line of one listing is
// resolved against.
type Snapshot struct {
	purchaseLines map[int]models.PurchaseLine
	purchases     map[int]models.Purchase
	transfers     map[transferKey][]models.InventoryTransfer
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		purchaseLines: make(map[int]models.PurchaseLine),
		purchases:     make(map[int]models.Purchase),
		transfers:     make(map[transferKey][]models.InventoryTransfer),
	}
}

func (s *Snapshot) AddPurchaseLines(lines ...models.PurchaseLine) {
	for _, l := range lines {
		s.purchaseLines[l.ID] = l
	}
}

func (s *Snapshot) AddPurchases(purchases ...models.Purchase) {
	for _, p := range purchases {
		s.purchases[p.ID] = p
	}
}

// AddTransfers indexes transfers by (order, variant). Transfers without an order are
// stock rebalancing and never match a line.
func (s *Snapshot) AddTransfers(transfers ...models.InventoryTransfer) {
	for _, t := range transfers {
		if t.OrderId == nil {
			continue
		}
		k := transferKey{*t.OrderId, t.ProductVariantId}
		s.transfers[k] = append(s.transfers[k], t)
	}
}

// HasTransfer reports whether any transfer matches the line's order and variant.
func (s *Snapshot) HasTransfer(line models.OrderLine) bool {
	return len(s.transfers[transferKey{line.OrderId, line.ProductVariantId}]) > 0
}

// Resolution is the fulfillment sources found for one line. Nil fields mean
// "not found", which is a normal outcome.
type Resolution struct {
	PurchaseLine *models.PurchaseLine
	Purchase     *models.Purchase
	Transfer     *models.InventoryTransfer
	// Inconsistencies each wrap ErrDomainInconsistency: a purchase link pointing at a
	// missing row, or several transfers matching the line.
	Inconsistencies []error
}

// Resolve looks up the purchase line, its purchase and the transfer for line.
func (s *Snapshot) Resolve(line models.OrderLine) Resolution {
	var res Resolution
	if line.PurchaseLineId != nil {
		if pl, ok := s.purchaseLines[*line.PurchaseLineId]; ok {
			res.PurchaseLine = &pl
			if p, ok := s.purchases[pl.PurchaseId]; ok {
				res.Purchase = &p
			} else {
				res.Inconsistencies = append(res.Inconsistencies, fmt.Errorf("%w: purchase line %d references missing purchase %d",
					ErrDomainInconsistency, pl.ID, pl.PurchaseId))
			}
		} else {
			res.Inconsistencies = append(res.Inconsistencies, fmt.Errorf("%w: order line %d references missing purchase line %d",
				ErrDomainInconsistency, line.ID, *line.PurchaseLineId))
		}
	}
	t, err := pickTransfer(line, s.transfers[transferKey{line.OrderId, line.ProductVariantId}])
	res.Transfer = t
	if err != nil {
		res.Inconsistencies = append(res.Inconsistencies, err)
	}
	return res
}

// pickTransfer returns the most recently created candidate. More than one candidate
// is reported as ErrDomainInconsistency alongside the pick.
func pickTransfer(line models.OrderLine, candidates []models.InventoryTransfer) (*models.InventoryTransfer, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	newest := candidates[0]
	for _, t := range candidates[1:] {
		if t.IsNewerThan(newest) {
			newest = t
		}
	}
	if len(candidates) > 1 {
		ids := make([]int, 0, len(candidates))
		for _, t := range candidates {
			ids = append(ids, t.ID)
		}
		return &newest, fmt.Errorf("%w: order %d variant %d matches transfers %v, using %d",
			ErrDomainInconsistency, line.OrderId, line.ProductVariantId, ids, newest.ID)
	}
	return &newest, nil
}
