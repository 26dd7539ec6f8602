package book

// Order is a single resting or in-flight order. The prev/next fields are an
// intrusive doubly-linked list embedded directly on the order so a PriceLevel
// can remove it in O(1) given only the pointer, without scanning its queue -
// the same contract the source gets from its IntrusiveListNode.
//
// Orders are owned by an OrderPool; a PriceLevel only ever holds a borrowed
// *Order. Nothing outside book/ should retain a *Order past a callback that
// reports its destruction.
type Order struct {
	prev, next *Order
	inList     bool

	id        OrderID
	side      Side
	orderType OrderType
	state     OrderState
	tif       TimeInForce
	flags     Flags

	price     int64
	stopPrice int64

	totalQty      int64
	filledQty     int64
	displayQty    int64
	visibleFilled int64

	createdTime int64
	expireTime  int64
}

func (o *Order) ID() OrderID            { return o.id }
func (o *Order) Side() Side             { return o.side }
func (o *Order) OrderType() OrderType   { return o.orderType }
func (o *Order) State() OrderState      { return o.state }
func (o *Order) TIF() TimeInForce       { return o.tif }
func (o *Order) FlagBits() Flags        { return o.flags }
func (o *Order) Price() int64           { return o.price }
func (o *Order) StopPrice() int64       { return o.stopPrice }
func (o *Order) TotalQty() int64        { return o.totalQty }
func (o *Order) FilledQty() int64       { return o.filledQty }
func (o *Order) DisplayQty() int64      { return o.displayQty }
func (o *Order) CreatedTime() int64     { return o.createdTime }
func (o *Order) ExpireTime() int64      { return o.expireTime }

func (o *Order) Remaining() int64 { return o.totalQty - o.filledQty }

// Visible returns how much of the order's remaining quantity should be
// reflected in a level's displayed volume. DisplayQty == 0 means "show
// everything" (a vanilla, non-iceberg order).
func (o *Order) Visible() int64 {
	if o.displayQty == 0 {
		return o.Remaining()
	}
	if o.displayQty > o.visibleFilled {
		return o.displayQty - o.visibleFilled
	}
	return 0
}

func (o *Order) IsBuy() bool  { return o.side == SideBuy }
func (o *Order) IsSell() bool { return o.side == SideSell }

func (o *Order) IsLimit() bool  { return o.orderType == OrderTypeLimit }
func (o *Order) IsMarket() bool { return o.orderType == OrderTypeMarket }
func (o *Order) IsStop() bool {
	return o.orderType == OrderTypeStop || o.orderType == OrderTypeStopLimit
}

func (o *Order) IsActive() bool          { return o.state == StateActive }
func (o *Order) IsFilled() bool          { return o.state == StateFilled }
func (o *Order) IsCancelled() bool       { return o.state == StateCancelled }
func (o *Order) IsPartiallyFilled() bool { return o.state == StatePartiallyFilled }

func (o *Order) IsGTC() bool { return o.tif == TIFGTC }
func (o *Order) IsIOC() bool { return o.tif == TIFIOC }
func (o *Order) IsFOK() bool { return o.tif == TIFFOK }
func (o *Order) IsDay() bool { return o.tif == TIFDAY }
func (o *Order) IsGTD() bool { return o.tif == TIFGTD }

func (o *Order) IsPostOnly() bool   { return o.flags.Has(FlagPostOnly) }
func (o *Order) IsHidden() bool     { return o.flags.Has(FlagHidden) }
func (o *Order) IsIceberg() bool    { return o.displayQty > 0 }
func (o *Order) IsAON() bool        { return o.flags.Has(FlagAON) }
func (o *Order) IsReduceOnly() bool { return o.flags.Has(FlagReduceOnly) }

func (o *Order) HasExpiry() bool { return o.expireTime > 0 }
func (o *Order) IsExpired(now int64) bool {
	return o.HasExpiry() && now >= o.expireTime
}

func (o *Order) SetState(s OrderState) { o.state = s }
func (o *Order) SetPrice(p int64)      { o.price = p }

// Fill applies up to qty of execution against the order, returning the
// quantity actually applied and whether this fill exhausted an iceberg's
// visible slice (triggering a visible_filled reset). Iceberg bookkeeping
// and the terminal-state transition happen here so callers never have to
// duplicate this logic.
func (o *Order) Fill(qty int64) (int64, bool) {
	canFill := qty
	if rem := o.Remaining(); canFill > rem {
		canFill = rem
	}
	if canFill <= 0 {
		return 0, false
	}

	o.filledQty += canFill

	refreshed := false
	if o.IsIceberg() {
		o.visibleFilled += canFill
		if o.visibleFilled >= o.displayQty && o.Remaining() > 0 {
			o.visibleFilled = 0
			refreshed = true
		}
	}

	if o.filledQty >= o.totalQty {
		o.state = StateFilled
	} else {
		o.state = StatePartiallyFilled
	}

	return canFill, refreshed
}

// ReduceQuantity lowers the order's total quantity, used by Modify. It can
// only reduce, and never below what is already filled - time priority in
// the level is untouched.
func (o *Order) ReduceQuantity(newQty int64) bool {
	if newQty >= o.totalQty {
		return false
	}
	if newQty <= o.filledQty {
		return false
	}
	o.totalQty = newQty
	return true
}

func (o *Order) Cancel() { o.state = StateCancelled }
func (o *Order) Reject() { o.state = StateRejected }

// TriggerStop converts a parked stop order into its live counterpart:
// STOP becomes MARKET, STOP_LIMIT becomes LIMIT.
func (o *Order) TriggerStop() {
	switch o.orderType {
	case OrderTypeStop:
		o.orderType = OrderTypeMarket
	case OrderTypeStopLimit:
		o.orderType = OrderTypeLimit
	}
	o.state = StateTriggered
	o.stopPrice = 0
}

func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		OrderID:      o.id,
		Side:         o.side,
		Type:         o.orderType,
		Price:        o.price,
		StopPrice:    o.stopPrice,
		TotalQty:     o.totalQty,
		FilledQty:    o.filledQty,
		RemainingQty: o.Remaining(),
		DisplayQty:   o.displayQty,
		TIF:          o.tif,
		Flags:        o.flags,
		State:        o.state,
		CreatedTime:  o.createdTime,
		ExpireTime:   o.expireTime,
	}
}

// ExecutionPrice implements the passive-price rule of price-time priority:
// a trade always executes at the resting (passive) order's price.
func ExecutionPrice(passive *Order) int64 { return passive.price }
