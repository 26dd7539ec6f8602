package book

// PriceLevel holds every resting order at a single price, in time priority.
// It tracks both the true remaining volume and the volume that should be
// displayed to the market (hidden/iceberg orders contribute less to the
// latter than the former).
type PriceLevel struct {
	price         int64
	orders        orderList
	totalVolume   int64
	visibleVolume int64
}

func newPriceLevel(price int64) *PriceLevel {
	return &PriceLevel{price: price}
}

func (pl *PriceLevel) Price() int64      { return pl.price }
func (pl *PriceLevel) Empty() bool       { return pl.orders.Empty() }
func (pl *PriceLevel) OrderCount() int   { return pl.orders.Len() }
func (pl *PriceLevel) TotalVolume() int64 { return pl.totalVolume }
func (pl *PriceLevel) VisibleVolume() int64 { return pl.visibleVolume }
func (pl *PriceLevel) Front() *Order     { return pl.orders.Front() }

func (pl *PriceLevel) AddOrder(o *Order) {
	pl.orders.PushBack(o)
	pl.totalVolume += o.Remaining()
	pl.visibleVolume += o.Visible()
	o.state = StateActive
}

func (pl *PriceLevel) RemoveOrder(o *Order) {
	pl.totalVolume -= o.Remaining()
	if pl.totalVolume < 0 {
		pl.totalVolume = 0
	}
	pl.visibleVolume -= o.Visible()
	if pl.visibleVolume < 0 {
		pl.visibleVolume = 0
	}
	pl.orders.Remove(o)
}

// ApplyFill books qty of execution against o and keeps the level's running
// totals in sync. When an iceberg's visible slice is exhausted and more of
// the order remains, it is moved to the tail of the queue - the slice
// refreshes but gives up its place in time priority.
func (pl *PriceLevel) ApplyFill(o *Order, qty int64) int64 {
	visBefore := o.Visible()
	filled, refreshed := o.Fill(qty)

	pl.totalVolume -= filled
	if pl.totalVolume < 0 {
		pl.totalVolume = 0
	}

	visAfter := o.Visible()
	pl.visibleVolume -= visBefore
	pl.visibleVolume += visAfter
	if pl.visibleVolume < 0 {
		pl.visibleVolume = 0
	}

	if refreshed {
		pl.orders.MoveToBack(o)
	}

	return filled
}

// CanFillAON reports whether this single level alone can satisfy an
// all-or-none requirement of qty.
func (pl *PriceLevel) CanFillAON(qty int64) bool {
	return pl.totalVolume >= qty
}

func (pl *PriceLevel) Stats() LevelStats {
	return LevelStats{Price: pl.price, TotalVolume: pl.totalVolume, OrderCount: pl.orders.Len()}
}

func (pl *PriceLevel) FindOrder(id OrderID) *Order {
	var found *Order
	pl.orders.ForEach(func(o *Order) {
		if o.id == id {
			found = o
		}
	})
	return found
}

func (pl *PriceLevel) ForEachOrder(fn func(*Order)) {
	pl.orders.ForEach(fn)
}

// matchResult is one execution produced while walking a level.
type matchResult struct {
	passive  *Order
	price    int64
	quantity int64
	levelEmptied bool
}

// Match walks the level head to tail (time priority), filling the
// aggressor against resting orders until either the level is exhausted or
// the aggressor's remaining quantity hits zero. AON resting orders are
// skipped unless they can be filled completely by what the aggressor has
// left; whether the aggressor itself is AON is irrelevant here, since
// AON-on-entry is enforced by the book's pre-scan before Match ever runs.
// The returned slice lists each execution in the order it happened.
func (pl *PriceLevel) Match(aggressorRemaining int64, aggressorAON bool) ([]matchResult, int64) {
	var results []matchResult
	remaining := aggressorRemaining

	o := pl.orders.Front()
	for o != nil && remaining > 0 {
		next := o.next
		passiveRemaining := o.Remaining()
		if passiveRemaining <= 0 {
			o = next
			continue
		}

		if o.IsAON() && passiveRemaining > remaining {
			o = next
			continue
		}

		qty := remaining
		if qty > passiveRemaining {
			qty = passiveRemaining
		}

		filled := pl.ApplyFill(o, qty)
		if filled <= 0 {
			o = next
			continue
		}

		remaining -= filled
		results = append(results, matchResult{
			passive:      o,
			price:        ExecutionPrice(o),
			quantity:     filled,
			levelEmptied: o.IsFilled(),
		})

		if o.IsFilled() {
			pl.RemoveOrder(o)
		}
		// A refreshed iceberg slice may have just been moved to the tail
		// by ApplyFill; next was captured before that move, so the walk
		// still proceeds in the order the orders appeared before this fill.
		o = next
	}

	return results, remaining
}
