package book

import "sync"

// OrderPool is the arena that owns every Order's storage. Price levels and
// the stop map only ever hold non-owning *Order pointers handed out by
// the pool; the pool is the sole place allocation and destruction happen.
// Like Book itself, a pool is single-threaded per book: all access must
// already be serialized by whatever dispatches orders into the owning
// Book, so the pool carries no lock of its own.
//
// Freed orders return to a sync.Pool free-list instead of being handed to
// the garbage collector, keeping the hot path (accept -> match -> cancel)
// allocation-light the way the library this is modeled on keeps a fixed
// capacity-hinted arena. sync.Pool itself is safe for concurrent use, but
// that's an internal implementation detail of the free-list, not a
// guarantee extended to the rest of OrderPool's state.
type OrderPool struct {
	orders   map[OrderID]*Order
	freelist sync.Pool
	nextID   OrderID
}

// NewOrderPool creates a pool pre-sized for expectedOrders resident orders.
func NewOrderPool(expectedOrders int) *OrderPool {
	p := &OrderPool{
		orders: make(map[OrderID]*Order, expectedOrders),
	}
	p.freelist.New = func() any { return &Order{} }
	return p
}

// NextOrderID returns a fresh, book-scoped monotonic identifier.
func (p *OrderPool) NextOrderID() OrderID {
	p.nextID++
	return p.nextID
}

// CreateOrder allocates and registers a new limit/stop order.
func (p *OrderPool) CreateOrder(id OrderID, side Side, orderType OrderType, price int64, qty int64, tif TimeInForce, flags Flags, displayQty int64, stopPrice int64, createdTime, expireTime int64) *Order {
	o := p.freelist.Get().(*Order)
	*o = Order{
		id:          id,
		side:        side,
		orderType:   orderType,
		state:       StatePendingNew,
		tif:         tif,
		flags:       flags,
		price:       price,
		stopPrice:   stopPrice,
		totalQty:    qty,
		displayQty:  displayQty,
		createdTime: createdTime,
		expireTime:  expireTime,
	}

	p.orders[id] = o
	return o
}

// CreateMarketOrder allocates a market order (no price, no display slicing).
func (p *OrderPool) CreateMarketOrder(id OrderID, side Side, qty int64, tif TimeInForce, flags Flags, createdTime int64) *Order {
	return p.CreateOrder(id, side, OrderTypeMarket, 0, qty, tif, flags, 0, 0, createdTime, 0)
}

// FindOrder returns the order for id, or nil if it is unknown or already
// destroyed.
func (p *OrderPool) FindOrder(id OrderID) *Order {
	return p.orders[id]
}

func (p *OrderPool) HasOrder(id OrderID) bool {
	return p.FindOrder(id) != nil
}

// DestroyOrder removes the order from the pool and returns its storage to
// the free-list. Callers must have already unlinked it from any PriceLevel
// list before calling this.
func (p *OrderPool) DestroyOrder(id OrderID) {
	o, ok := p.orders[id]
	if !ok {
		return
	}
	delete(p.orders, id)
	p.freelist.Put(o)
}

// ForEachOrder visits every resident order. fn must not mutate the pool.
func (p *OrderPool) ForEachOrder(fn func(*Order)) {
	snapshot := make([]*Order, 0, len(p.orders))
	for _, o := range p.orders {
		snapshot = append(snapshot, o)
	}
	for _, o := range snapshot {
		fn(o)
	}
}

func (p *OrderPool) ActiveOrderCount() int {
	return len(p.orders)
}

func (p *OrderPool) GetOrderSnapshot(id OrderID) (Snapshot, bool) {
	o := p.FindOrder(id)
	if o == nil {
		return Snapshot{}, false
	}
	return o.Snapshot(), true
}

// Clear destroys every order in the pool, returning them all to the
// free-list.
func (p *OrderPool) Clear() {
	for id, o := range p.orders {
		delete(p.orders, id)
		p.freelist.Put(o)
	}
}
