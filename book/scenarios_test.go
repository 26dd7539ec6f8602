package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	trades []tradeEvent
	events []orderEvent
}

type tradeEvent struct {
	aggID, passID OrderID
	price, qty    int64
}

type orderEvent struct {
	id               OrderID
	kind             OrderEvent
	filled, remaining int64
}

func newRecordingBook(symbol string) (*Book, *recorder) {
	r := &recorder{}
	b := NewBook(symbol, 64, 8,
		WithTradeCallback(func(aggID, passID OrderID, price, qty, ts int64) {
			r.trades = append(r.trades, tradeEvent{aggID, passID, price, qty})
		}),
		WithOrderEventCallback(func(id OrderID, kind OrderEvent, filled, remaining int64) {
			r.events = append(r.events, orderEvent{id, kind, filled, remaining})
		}),
	)
	return b, r
}

func (r *recorder) hasEventKind(id OrderID, kind OrderEvent) bool {
	for _, ev := range r.events {
		if ev.id == id && ev.kind == kind {
			return true
		}
	}
	return false
}

func (r *recorder) lastEventFor(id OrderID) (orderEvent, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].id == id {
			return r.events[i], true
		}
	}
	return orderEvent{}, false
}

// Scenario 1: simple match fully consumes both sides.
func TestSimpleMatch(t *testing.T) {
	b, r := newRecordingBook("AAPL")

	assert.Equal(t, b.AddLimitOrder(1, SideSell, 15000, 100), StatusOK)
	assert.Equal(t, b.AddLimitOrder(2, SideBuy, 15000, 100), StatusOK)

	assert.Equal(t, len(r.trades), 1)
	assert.Equal(t, r.trades[0].price, int64(15000))
	assert.Equal(t, r.trades[0].qty, int64(100))

	ev1, ok1 := r.lastEventFor(1)
	assert.Equal(t, ok1, true)
	assert.Equal(t, ev1.kind, EventOrderFilled)

	ev2, ok2 := r.lastEventFor(2)
	assert.Equal(t, ok2, true)
	assert.Equal(t, ev2.kind, EventOrderFilled)

	assert.Equal(t, b.BestBid(), int64(0))
	assert.Equal(t, b.BestAsk(), int64(0))
}

// Scenario 2: IOC partial fill cancels the unfilled remainder.
func TestIOCPartial(t *testing.T) {
	b, r := newRecordingBook("AAPL")

	assert.Equal(t, b.AddLimitOrder(1, SideSell, 5000000, 50), StatusOK)
	assert.Equal(t, b.AddLimitOrder(2, SideSell, 5010000, 50), StatusOK)

	st := b.AddOrder(NewOrderRequest{ID: 3, Side: SideBuy, Type: OrderTypeLimit, Price: 5010000, Quantity: 75, TIF: TIFIOC})
	assert.Equal(t, st, StatusOK)

	assert.Equal(t, len(r.trades), 2)
	assert.Equal(t, r.trades[0].price, int64(5000000))
	assert.Equal(t, r.trades[0].qty, int64(50))
	assert.Equal(t, r.trades[1].price, int64(5010000))
	assert.Equal(t, r.trades[1].qty, int64(25))

	ev1, _ := r.lastEventFor(1)
	assert.Equal(t, ev1.kind, EventOrderFilled)

	ev2, _ := r.lastEventFor(2)
	assert.Equal(t, ev2.kind, EventOrderPartial)
	assert.Equal(t, ev2.remaining, int64(25))

	ev3, _ := r.lastEventFor(3)
	assert.Equal(t, ev3.kind, EventOrderCancelled)
	assert.Equal(t, ev3.filled, int64(75))
	assert.Equal(t, ev3.remaining, int64(0))

	assert.Equal(t, b.VolumeAtPrice(SideSell, 5010000), int64(25))
}

// Scenario 3: FOK rejects without touching the book when liquidity is short.
func TestFOKReject(t *testing.T) {
	b, r := newRecordingBook("AAPL")

	assert.Equal(t, b.AddLimitOrder(1, SideSell, 5000000, 30), StatusOK)
	assert.Equal(t, b.AddLimitOrder(2, SideSell, 5000000, 30), StatusOK)

	st := b.AddOrder(NewOrderRequest{ID: 3, Side: SideBuy, Type: OrderTypeLimit, Price: 5000000, Quantity: 100, TIF: TIFFOK})
	assert.Equal(t, st, StatusCannotFill)

	ev3, ok := r.lastEventFor(3)
	assert.Equal(t, ok, true)
	assert.Equal(t, ev3.kind, EventOrderRejected)

	assert.Equal(t, b.VolumeAtPrice(SideSell, 5000000), int64(60))
	assert.Equal(t, len(r.trades), 0)
}

// Scenario 4: post-only accepts when it does not cross the book.
func TestPostOnlyAccept(t *testing.T) {
	b, r := newRecordingBook("AAPL")

	assert.Equal(t, b.AddLimitOrder(1, SideSell, 5000000, 100), StatusOK)

	st := b.AddOrder(NewOrderRequest{ID: 2, Side: SideBuy, Type: OrderTypeLimit, Price: 4990000, Quantity: 50, TIF: TIFGTC, Flags: FlagPostOnly})
	assert.Equal(t, st, StatusOK)

	ev2, _ := r.lastEventFor(2)
	assert.Equal(t, ev2.kind, EventOrderAccepted)
	assert.Equal(t, b.BestBid(), int64(4990000))
}

func TestPostOnlyRejectsWhenCrossing(t *testing.T) {
	b, r := newRecordingBook("AAPL")

	assert.Equal(t, b.AddLimitOrder(1, SideSell, 5000000, 100), StatusOK)

	st := b.AddOrder(NewOrderRequest{ID: 2, Side: SideBuy, Type: OrderTypeLimit, Price: 5000000, Quantity: 50, TIF: TIFGTC, Flags: FlagPostOnly})
	assert.Equal(t, st, StatusWouldMatch)

	ev2, _ := r.lastEventFor(2)
	assert.Equal(t, ev2.kind, EventOrderRejected)
	assert.Equal(t, b.BestBid(), int64(0))
}

// Scenario 5: an iceberg order refreshes its visible slice after each
// matching pass and remains resting at its level.
func TestIcebergRefresh(t *testing.T) {
	b, r := newRecordingBook("AAPL")

	st := b.AddOrder(NewOrderRequest{ID: 1, Side: SideSell, Type: OrderTypeLimit, Price: 5000000, Quantity: 500, DisplayQuantity: 100, TIF: TIFGTC})
	assert.Equal(t, st, StatusOK)
	assert.Equal(t, b.VolumeAtPrice(SideSell, 5000000), int64(500))

	lvl := b.askLevels[5000000]
	assert.Equal(t, lvl.VisibleVolume(), int64(100))

	assert.Equal(t, b.AddLimitOrder(2, SideBuy, 5000000, 100), StatusOK)

	ev1, _ := r.lastEventFor(1)
	assert.Equal(t, ev1.kind, EventOrderPartial)
	assert.Equal(t, ev1.remaining, int64(400))
	assert.Equal(t, lvl.VisibleVolume(), int64(100))
	assert.Equal(t, lvl.TotalVolume(), int64(400))

	assert.Equal(t, b.AddLimitOrder(3, SideBuy, 5000000, 100), StatusOK)
	ev1b, _ := r.lastEventFor(1)
	assert.Equal(t, ev1b.kind, EventOrderPartial)
	assert.Equal(t, ev1b.remaining, int64(300))
	assert.Equal(t, lvl.TotalVolume(), int64(300))
}

// Scenario 6: modifying a resting order preserves its place in the FIFO
// queue; a reduced order can still be fully consumed before the order
// behind it.
func TestModifyPreservesPriority(t *testing.T) {
	b, _ := newRecordingBook("AAPL")

	assert.Equal(t, b.AddLimitOrder(1, SideBuy, 4950000, 100), StatusOK)
	assert.Equal(t, b.AddLimitOrder(2, SideBuy, 4950000, 100), StatusOK)

	assert.Equal(t, b.ModifyOrder(1, 50), StatusOK)

	assert.Equal(t, b.AddLimitOrder(3, SideSell, 4950000, 60), StatusOK)

	snapA, okA := b.OrderSnapshot(1)
	assert.Equal(t, okA, false)

	snapB, okB := b.OrderSnapshot(2)
	assert.Equal(t, okB, true)
	assert.Equal(t, snapB.FilledQty, int64(10))
	assert.Equal(t, snapB.RemainingQty, int64(90))
	_ = snapA
}
