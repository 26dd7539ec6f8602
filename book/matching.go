package book

// NewOrderRequest is the full-featured entry point payload; AddLimitOrder
// and AddMarketOrder are thin convenience wrappers over AddOrder.
type NewOrderRequest struct {
	ID              OrderID
	Side            Side
	Type            OrderType
	Price           int64
	StopPrice       int64
	Quantity        int64
	DisplayQuantity int64
	TIF             TimeInForce
	Flags           Flags
	ExpireTime      int64
}

func (b *Book) AddLimitOrder(id OrderID, side Side, price, qty int64) Status {
	return b.AddOrder(NewOrderRequest{ID: id, Side: side, Type: OrderTypeLimit, Price: price, Quantity: qty, TIF: TIFGTC})
}

func (b *Book) AddMarketOrder(id OrderID, side Side, qty int64) Status {
	return b.AddOrder(NewOrderRequest{ID: id, Side: side, Type: OrderTypeMarket, Quantity: qty, TIF: TIFIOC})
}

func (b *Book) validateOrder(req NewOrderRequest) Status {
	if req.ID == InvalidOrderID {
		return StatusInvalidParam
	}
	if b.pool.HasOrder(req.ID) || b.stops[req.ID] != nil {
		return StatusDuplicateOrder
	}
	if req.Quantity <= 0 {
		return StatusInvalidQuantity
	}
	switch req.Type {
	case OrderTypeLimit, OrderTypeStopLimit:
		if req.Price <= 0 {
			return StatusInvalidPrice
		}
	}
	switch req.Type {
	case OrderTypeStop, OrderTypeStopLimit:
		if req.StopPrice <= 0 {
			return StatusInvalidPrice
		}
	}
	return StatusOK
}

// AddOrder is the full-featured entry point; it validates, dispatches to
// stop-parking or immediate matching, and after matching drives
// ProcessStops so a top of book moved by this order never leaves a
// trigger un-checked. A rejected order and a freshly parked stop return
// before that step.
func (b *Book) AddOrder(req NewOrderRequest) Status {
	if st := b.validateOrder(req); st != StatusOK {
		b.notifyEvent(req.ID, EventOrderRejected, 0, 0)
		return st
	}

	o := b.pool.CreateOrder(req.ID, req.Side, req.Type, req.Price, req.Quantity, req.TIF, req.Flags, req.DisplayQuantity, req.StopPrice, b.clock(), req.ExpireTime)

	if o.IsStop() {
		if b.shouldTriggerStop(o) {
			o.TriggerStop()
			b.notifyEvent(o.id, EventOrderTriggered, 0, o.Remaining())
		} else {
			b.stops[o.id] = o
			o.state = StateActive
			b.notifyEvent(o.id, EventOrderAccepted, 0, o.Remaining())
			return StatusOK
		}
	}

	st := b.processNewOrder(o)
	b.ProcessStops()
	return st
}

// processNewOrder runs the matching loop for a freshly created (or
// just-triggered) order and settles its post-match lifecycle.
func (b *Book) processNewOrder(o *Order) Status {
	if o.IsPostOnly() && b.wouldMatchImmediately(o) {
		o.Reject()
		b.pool.DestroyOrder(o.id)
		b.notifyEvent(o.id, EventOrderRejected, 0, 0)
		return StatusWouldMatch
	}

	if o.IsFOK() || o.IsAON() {
		if b.availableLiquidity(o) < o.Remaining() {
			o.Reject()
			b.pool.DestroyOrder(o.id)
			b.notifyEvent(o.id, EventOrderRejected, 0, 0)
			return StatusCannotFill
		}
	}

	filledAny := b.matchOrder(o)

	switch {
	case o.Remaining() == 0:
		o.SetState(StateFilled)
		b.notifyEvent(o.id, EventOrderFilled, o.FilledQty(), 0)
		b.pool.DestroyOrder(o.id)
		return StatusOK

	case o.IsMarket() || o.IsIOC() || o.IsFOK():
		o.Cancel()
		b.notifyEvent(o.id, EventOrderCancelled, o.FilledQty(), o.Remaining())
		b.pool.DestroyOrder(o.id)
		return StatusOK

	default: // GTC, DAY, GTD limit residual rests in the book
		b.addToBook(o)
		if filledAny {
			b.notifyEvent(o.id, EventOrderPartial, o.FilledQty(), o.Remaining())
		} else {
			b.notifyEvent(o.id, EventOrderAccepted, 0, o.Remaining())
		}
		return StatusOK
	}
}

// matchOrder walks the opposite side's levels in favorable order, filling o
// against resting orders until o is exhausted or no further matchable
// level remains. Returns whether any fill occurred.
func (b *Book) matchOrder(o *Order) bool {
	opp := o.Side().Opposite()
	filledAny := false

	for o.Remaining() > 0 {
		prices := b.pricesFor(opp)
		if len(prices) == 0 {
			break
		}
		price := prices[0]

		if o.IsLimit() {
			if o.IsBuy() && o.Price() < price {
				break
			}
			if o.IsSell() && o.Price() > price {
				break
			}
		}

		lvl := b.levelsFor(opp)[price]
		results, _ := lvl.Match(o.Remaining(), o.IsAON())
		if len(results) == 0 {
			break
		}

		for _, r := range results {
			filledQty, _ := o.Fill(r.quantity)
			filledAny = filledAny || filledQty > 0

			aggID, passID := o.id, r.passive.id
			b.notifyTrade(aggID, passID, r.price, r.quantity)

			if r.levelEmptied {
				b.notifyEvent(r.passive.id, EventOrderFilled, r.passive.FilledQty(), 0)
				b.pool.DestroyOrder(r.passive.id)
			} else {
				b.notifyEvent(r.passive.id, EventOrderPartial, r.passive.FilledQty(), r.passive.Remaining())
			}
		}

		b.dropLevelIfEmpty(opp, price)
	}

	return filledAny
}

func (b *Book) addToBook(o *Order) {
	lvl := b.getOrCreateLevel(o.Side(), o.Price())
	lvl.AddOrder(o)
	if o.Side() == SideBuy {
		if b.bestBid == 0 || o.Price() > b.bestBid {
			b.bestBid = o.Price()
		}
	} else {
		if b.bestAsk == 0 || o.Price() < b.bestAsk {
			b.bestAsk = o.Price()
		}
	}
}

func (b *Book) removeFromBook(o *Order) {
	if !o.inList {
		return
	}
	lvl, ok := b.levelsFor(o.Side())[o.Price()]
	if !ok {
		return
	}
	lvl.RemoveOrder(o)
	b.dropLevelIfEmpty(o.Side(), o.Price())
}

// wouldMatchImmediately reports whether a limit order would cross the
// current top of book, used by the POST_ONLY gate.
func (b *Book) wouldMatchImmediately(o *Order) bool {
	if !o.IsLimit() {
		return false
	}
	if o.IsBuy() {
		return b.bestAsk != 0 && o.Price() >= b.bestAsk
	}
	return b.bestBid != 0 && o.Price() <= b.bestBid
}

// availableLiquidity sums opposite-side volume at prices acceptable to o,
// used by the FOK/AON-on-entry pre-scan.
func (b *Book) availableLiquidity(o *Order) int64 {
	opp := o.Side().Opposite()
	var total int64
	for _, price := range b.pricesFor(opp) {
		if o.IsLimit() {
			if o.IsBuy() && o.Price() < price {
				break
			}
			if o.IsSell() && o.Price() > price {
				break
			}
		}
		total += b.levelsFor(opp)[price].TotalVolume()
		if total >= o.Remaining() {
			break
		}
	}
	return total
}

func (b *Book) shouldTriggerStop(o *Order) bool {
	if o.IsBuy() {
		return b.bestAsk != 0 && b.bestAsk >= o.StopPrice()
	}
	return b.bestBid != 0 && b.bestBid <= o.StopPrice()
}

// ProcessStops scans parked stop orders and converts+resubmits any whose
// trigger condition now holds against top of book. AddOrder calls it
// automatically after matching; CancelOrder, ModifyOrder and
// ProcessExpirations do not, and it remains public for explicit or
// test-driven invocation.
func (b *Book) ProcessStops() {
	if len(b.stops) == 0 {
		return
	}
	triggered := make([]*Order, 0, len(b.stops))
	for _, o := range b.stops {
		if b.shouldTriggerStop(o) {
			triggered = append(triggered, o)
		}
	}
	for _, o := range triggered {
		delete(b.stops, o.id)
		o.TriggerStop()
		b.notifyEvent(o.id, EventOrderTriggered, 0, o.Remaining())
		b.processNewOrder(o)
	}
}

// CancelOrder transitions id to CANCELLED, removes it from its level or
// the stop map, and destroys it. A second cancel of the same id returns
// ORDER_NOT_FOUND since the first already destroyed the record.
func (b *Book) CancelOrder(id OrderID) Status {
	if o, ok := b.stops[id]; ok {
		delete(b.stops, id)
		o.Cancel()
		b.notifyEvent(id, EventOrderCancelled, o.FilledQty(), o.Remaining())
		b.pool.DestroyOrder(id)
		return StatusOK
	}

	o := b.pool.FindOrder(id)
	if o == nil {
		return StatusOrderNotFound
	}

	b.removeFromBook(o)
	o.Cancel()
	b.notifyEvent(id, EventOrderCancelled, o.FilledQty(), o.Remaining())
	b.pool.DestroyOrder(id)
	return StatusOK
}

// ModifyOrder reduces an order's total quantity in place, preserving its
// position in the FIFO queue. newQty must satisfy filled < newQty < total.
func (b *Book) ModifyOrder(id OrderID, newQty int64) Status {
	o := b.pool.FindOrder(id)
	if o == nil {
		return StatusOrderNotFound
	}

	oldRemaining, oldVisible := o.Remaining(), o.Visible()
	if !o.ReduceQuantity(newQty) {
		return StatusInvalidQuantity
	}

	if o.inList {
		lvl := b.levelsFor(o.Side())[o.Price()]
		lvl.totalVolume -= oldRemaining - o.Remaining()
		lvl.visibleVolume -= oldVisible - o.Visible()
	}
	return StatusOK
}

// ReplaceOrder is cancel-then-add: time priority is lost. The old order's
// side is captured before Cancel runs so the replacement always carries
// the correct side even though Cancel destroys the original record.
func (b *Book) ReplaceOrder(oldID, newID OrderID, newPrice, newQty int64) Status {
	o := b.pool.FindOrder(oldID)
	if o == nil {
		return StatusOrderNotFound
	}

	side := o.Side()
	tif := o.TIF()
	flags := o.FlagBits()
	displayQty := o.DisplayQty()
	expire := o.ExpireTime()

	if st := b.CancelOrder(oldID); st != StatusOK {
		return st
	}

	return b.AddOrder(NewOrderRequest{
		ID:              newID,
		Side:            side,
		Type:            OrderTypeLimit,
		Price:           newPrice,
		Quantity:        newQty,
		DisplayQuantity: displayQty,
		TIF:             tif,
		Flags:           flags,
		ExpireTime:      expire,
	})
}

// ProcessExpirations cancels every order whose expire_time has passed.
func (b *Book) ProcessExpirations(now int64) {
	var expired []*Order
	b.pool.ForEachOrder(func(o *Order) {
		if o.IsExpired(now) && !o.State().IsTerminal() {
			expired = append(expired, o)
		}
	})
	for _, o := range expired {
		if _, parked := b.stops[o.id]; parked {
			delete(b.stops, o.id)
		} else {
			b.removeFromBook(o)
		}
		o.SetState(StateExpired)
		b.notifyEvent(o.id, EventOrderExpired, o.FilledQty(), o.Remaining())
		b.pool.DestroyOrder(o.id)
	}
}
