package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tembolo1284/MatchX/protocol"
)

type capturedFrames struct {
	frames []frame
}

type frame struct {
	header protocol.Header
	raw    []byte
}

func (c *capturedFrames) send(raw []byte) {
	h, err := protocol.UnmarshalHeader(raw)
	if err != nil {
		panic(err)
	}
	c.frames = append(c.frames, frame{header: h, raw: raw})
}

func (c *capturedFrames) last() frame { return c.frames[len(c.frames)-1] }

func (c *capturedFrames) firstOfType(t protocol.MessageType) (frame, bool) {
	for _, f := range c.frames {
		if f.header.Type == t {
			return f, true
		}
	}
	return frame{}, false
}

func (c *capturedFrames) countOfType(t protocol.MessageType) int {
	n := 0
	for _, f := range c.frames {
		if f.header.Type == t {
			n++
		}
	}
	return n
}

func newTestManager() (*Manager, *capturedFrames) {
	cf := &capturedFrames{}
	m := New(cf.send, nil)
	m.AddSymbol("AAPL", 64, 8)
	return m, cf
}

func TestNewOrderAcceptedAndAcked(t *testing.T) {
	m, cf := newTestManager()

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol:        "AAPL",
		ClientOrderID: 1,
		UserID:        100,
		Side:          protocol.SideBuy,
		OrderType:     protocol.OrderTypeLimit,
		Price:         15000,
		Quantity:      10,
	})

	ack, ok := cf.firstOfType(protocol.TypeOrderAck)
	assert.Equal(t, ok, true)

	decoded, err := protocol.UnmarshalOrderAck(ack.raw)
	assert.Nil(t, err)
	assert.Equal(t, decoded.ClientOrderID, uint64(1))
	assert.Equal(t, decoded.UserID, uint64(100))

	order, found := m.GetOrder(1)
	assert.Equal(t, found, true)
	assert.Equal(t, order.Status, StatusActive)
	assert.Equal(t, order.RemainingQty, int64(10))
}

func TestNewOrderRejectsUnknownSymbol(t *testing.T) {
	m, cf := newTestManager()

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol:        "ZZZZ",
		ClientOrderID: 1,
		UserID:        100,
		Side:          protocol.SideBuy,
		OrderType:     protocol.OrderTypeLimit,
		Price:         15000,
		Quantity:      10,
	})

	rej, ok := cf.firstOfType(protocol.TypeOrderReject)
	assert.Equal(t, ok, true)

	decoded, err := protocol.UnmarshalOrderReject(rej.raw)
	assert.Nil(t, err)
	assert.Equal(t, decoded.Reason, protocol.ReasonInvalidSymbol)

	_, found := m.GetOrder(1)
	assert.Equal(t, found, false)
}

func TestNewOrderRejectsZeroQuantity(t *testing.T) {
	m, cf := newTestManager()

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol:        "AAPL",
		ClientOrderID: 1,
		UserID:        100,
		Side:          protocol.SideBuy,
		OrderType:     protocol.OrderTypeLimit,
		Price:         15000,
		Quantity:      0,
	})

	rej, ok := cf.firstOfType(protocol.TypeOrderReject)
	assert.Equal(t, ok, true)
	decoded, _ := protocol.UnmarshalOrderReject(rej.raw)
	assert.Equal(t, decoded.Reason, protocol.ReasonInvalidQuantity)
}

func TestNewOrderRejectsZeroUserID(t *testing.T) {
	m, cf := newTestManager()

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol:        "AAPL",
		ClientOrderID: 1,
		UserID:        0,
		Side:          protocol.SideBuy,
		OrderType:     protocol.OrderTypeLimit,
		Price:         15000,
		Quantity:      10,
	})

	rej, ok := cf.firstOfType(protocol.TypeOrderReject)
	assert.Equal(t, ok, true)
	decoded, _ := protocol.UnmarshalOrderReject(rej.raw)
	assert.Equal(t, decoded.Reason, protocol.ReasonSystemError)
}

// TestNewOrderRejectsPostOnlyCrossing drives an order past validation and
// into the book, where it is rejected for a reason only book.AddOrder can
// detect: a POST_ONLY order that would cross the resting book. The client
// already has an ORDER_ACK by this point, so the manager must follow it
// with an ORDER_REJECT rather than leaving the order believed ACTIVE.
func TestNewOrderRejectsPostOnlyCrossing(t *testing.T) {
	m, cf := newTestManager()

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 1, UserID: 100,
		Side: protocol.SideSell, OrderType: protocol.OrderTypeLimit, Price: 15000, Quantity: 10,
	})

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 2, UserID: 200,
		Side: protocol.SideBuy, OrderType: protocol.OrderTypeLimit, Price: 15000, Quantity: 10,
		Flags: protocol.FlagPostOnly,
	})

	_, ackOk := cf.firstOfType(protocol.TypeOrderAck)
	assert.Equal(t, ackOk, true)
	assert.Equal(t, cf.countOfType(protocol.TypeOrderAck), 2)

	rej, rejOk := cf.firstOfType(protocol.TypeOrderReject)
	assert.Equal(t, rejOk, true)
	decoded, err := protocol.UnmarshalOrderReject(rej.raw)
	assert.Nil(t, err)
	assert.Equal(t, decoded.ClientOrderID, uint64(2))
	assert.Equal(t, decoded.Reason, protocol.ReasonWouldMatch)

	order, found := m.GetOrder(2)
	assert.Equal(t, found, true)
	assert.Equal(t, order.Status, StatusRejected)

	stats := m.Stats()
	assert.Equal(t, stats.TotalOrdersRejected, int64(1))
	assert.Equal(t, stats.TotalOrdersAccepted, int64(1))
}

// TestNewOrderRejectsFOKInsufficientLiquidity covers the other book-level
// rejection path: a fill-or-kill order with no resting liquidity to fully
// satisfy it.
func TestNewOrderRejectsFOKInsufficientLiquidity(t *testing.T) {
	m, cf := newTestManager()

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 1, UserID: 100,
		Side: protocol.SideSell, OrderType: protocol.OrderTypeLimit, Price: 15000, Quantity: 5,
	})

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 2, UserID: 200,
		Side: protocol.SideBuy, OrderType: protocol.OrderTypeLimit, Price: 15000, Quantity: 10,
		TimeInForce: protocol.TIFFOK,
	})

	rej, ok := cf.firstOfType(protocol.TypeOrderReject)
	assert.Equal(t, ok, true)
	decoded, err := protocol.UnmarshalOrderReject(rej.raw)
	assert.Nil(t, err)
	assert.Equal(t, decoded.ClientOrderID, uint64(2))
	assert.Equal(t, decoded.Reason, protocol.ReasonCannotFill)

	order, found := m.GetOrder(2)
	assert.Equal(t, found, true)
	assert.Equal(t, order.Status, StatusRejected)
}

func TestMatchingOrdersProduceTradeAndExecutions(t *testing.T) {
	m, cf := newTestManager()

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 1, UserID: 100,
		Side: protocol.SideSell, OrderType: protocol.OrderTypeLimit, Price: 15000, Quantity: 100,
	})
	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 2, UserID: 200,
		Side: protocol.SideBuy, OrderType: protocol.OrderTypeLimit, Price: 15000, Quantity: 100,
	})

	assert.Equal(t, cf.countOfType(protocol.TypeTrade), 1)
	assert.Equal(t, cf.countOfType(protocol.TypeExecution), 2)

	buyOrder, _ := m.GetOrder(2)
	assert.Equal(t, buyOrder.Status, StatusFilled)
	assert.Equal(t, buyOrder.RemainingQty, int64(0))

	sellOrder, _ := m.GetOrder(1)
	assert.Equal(t, sellOrder.Status, StatusFilled)

	stats := m.Stats()
	assert.Equal(t, stats.TotalExecutions, int64(2))
	assert.Equal(t, stats.TotalVolume, int64(200))
}

func TestCancelOrderRemovesFromBook(t *testing.T) {
	m, cf := newTestManager()

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 1, UserID: 100,
		Side: protocol.SideBuy, OrderType: protocol.OrderTypeLimit, Price: 15000, Quantity: 10,
	})

	m.HandleCancelOrder(protocol.CancelOrderMessage{ClientOrderID: 1, UserID: 100})

	_, ok := cf.firstOfType(protocol.TypeOrderCancelled)
	assert.Equal(t, ok, true)

	order, _ := m.GetOrder(1)
	assert.Equal(t, order.Status, StatusCancelled)

	bids, _, _, _ := m.BookDepth("AAPL", 10)
	assert.Equal(t, len(bids), 0)
}

func TestCancelOrderRejectsWrongOwner(t *testing.T) {
	m, cf := newTestManager()

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 1, UserID: 100,
		Side: protocol.SideBuy, OrderType: protocol.OrderTypeLimit, Price: 15000, Quantity: 10,
	})

	m.HandleCancelOrder(protocol.CancelOrderMessage{ClientOrderID: 1, UserID: 999})

	rej, ok := cf.firstOfType(protocol.TypeOrderReject)
	assert.Equal(t, ok, true)
	decoded, _ := protocol.UnmarshalOrderReject(rej.raw)
	assert.Equal(t, decoded.Reason, protocol.ReasonUnknownOrder)

	order, _ := m.GetOrder(1)
	assert.Equal(t, order.Status, StatusActive)
}

func TestReplaceOrderSwapsClientOrderID(t *testing.T) {
	m, cf := newTestManager()

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 1, UserID: 100,
		Side: protocol.SideBuy, OrderType: protocol.OrderTypeLimit, Price: 15000, Quantity: 10,
	})

	m.HandleReplaceOrder(protocol.ReplaceOrderMessage{
		ClientOrderID: 1, NewClientOrderID: 2, UserID: 100, NewPrice: 15100, NewQuantity: 20,
	})

	_, ok := cf.firstOfType(protocol.TypeOrderReplaced)
	assert.Equal(t, ok, true)

	oldOrder, _ := m.GetOrder(1)
	assert.Equal(t, oldOrder.Status, StatusCancelled)

	newOrder, found := m.GetOrder(2)
	assert.Equal(t, found, true)
	assert.Equal(t, newOrder.Status, StatusActive)
	assert.Equal(t, newOrder.Price, int64(15100))
	assert.Equal(t, newOrder.RemainingQty, int64(20))
}

// TestReplaceOrderCrossingBookFillsImmediately drives a replace whose new
// price crosses the opposite side of the book. book.Book.ReplaceOrder
// cancels the old order and re-adds the replacement in one call, and if
// that replacement matches immediately the trade/execution callbacks fire
// synchronously, inside the call, before HandleReplaceOrder would otherwise
// have registered the new client/exchange id mapping. The replacement's own
// fill must still be reported and reflected in its bookkeeping.
func TestReplaceOrderCrossingBookFillsImmediately(t *testing.T) {
	m, cf := newTestManager()

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 1, UserID: 100,
		Side: protocol.SideSell, OrderType: protocol.OrderTypeLimit, Price: 15000, Quantity: 10,
	})
	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 2, UserID: 200,
		Side: protocol.SideBuy, OrderType: protocol.OrderTypeLimit, Price: 14000, Quantity: 10,
	})

	m.HandleReplaceOrder(protocol.ReplaceOrderMessage{
		ClientOrderID: 2, NewClientOrderID: 3, UserID: 200, NewPrice: 15000, NewQuantity: 10,
	})

	assert.Equal(t, cf.countOfType(protocol.TypeTrade), 1)
	assert.Equal(t, cf.countOfType(protocol.TypeExecution), 2)

	newOrder, found := m.GetOrder(3)
	assert.Equal(t, found, true)
	assert.Equal(t, newOrder.Status, StatusFilled)
	assert.Equal(t, newOrder.FilledQuantity, int64(10))
	assert.Equal(t, newOrder.RemainingQty, int64(0))

	sellOrder, _ := m.GetOrder(1)
	assert.Equal(t, sellOrder.Status, StatusFilled)
	assert.Equal(t, sellOrder.FilledQuantity, int64(10))
}

func TestGetUserOrdersReturnsAllForUser(t *testing.T) {
	m, _ := newTestManager()

	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 1, UserID: 100,
		Side: protocol.SideBuy, OrderType: protocol.OrderTypeLimit, Price: 15000, Quantity: 10,
	})
	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 2, UserID: 100,
		Side: protocol.SideBuy, OrderType: protocol.OrderTypeLimit, Price: 14000, Quantity: 5,
	})
	m.HandleNewOrder(protocol.NewOrderMessage{
		Symbol: "AAPL", ClientOrderID: 3, UserID: 200,
		Side: protocol.SideSell, OrderType: protocol.OrderTypeLimit, Price: 16000, Quantity: 5,
	})

	orders := m.GetUserOrders(100)
	assert.Equal(t, len(orders), 2)
}
