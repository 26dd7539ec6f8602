// Package manager implements the order-manager overlay: it translates
// exchange-wide client order identifiers to book-local exchange order
// ids, tracks order state across its lifecycle, validates incoming
// requests, and synthesizes outbound protocol messages from book
// callbacks.
package manager

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tembolo1284/MatchX/book"
	"github.com/tembolo1284/MatchX/protocol"
)

// Status is an order's exchange-wide lifecycle status, independent of
// (but kept in sync with) the underlying book.OrderState.
type Status uint8

const (
	StatusPending Status = iota
	StatusActive
	StatusPartiallyFilled
	StatusFilled
	StatusCancelled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusActive:
		return "ACTIVE"
	case StatusPartiallyFilled:
		return "PARTIALLY_FILLED"
	case StatusFilled:
		return "FILLED"
	case StatusCancelled:
		return "CANCELLED"
	case StatusRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// OrderState is the manager's authoritative record for one client order,
// keyed by client_order_id.
type OrderState struct {
	ClientOrderID    uint64
	ExchangeOrderID  book.OrderID
	UserID           uint64
	Symbol           string
	Side             book.Side
	OrderType        book.OrderType
	Price            int64
	OriginalQuantity int64
	FilledQuantity   int64
	RemainingQty     int64
	Status           Status
	Timestamp        int64
}

// Statistics mirrors order_manager.h's running counters, surfaced to the
// httpapi debug endpoint and the periodic statistics-reporter goroutine.
type Statistics struct {
	TotalOrdersReceived  int64
	TotalOrdersAccepted  int64
	TotalOrdersRejected  int64
	TotalOrdersCancelled int64
	TotalExecutions      int64
	TotalVolume          int64
}

// OutboundSender is invoked once per synthesized outbound message. The
// caller (transport) owns delivery; the manager only builds frames.
type OutboundSender func(msg []byte)

// Manager owns every book it has been given and the client-order-id ↔
// exchange-order-id mapping across all of them. Every exported method
// takes mu, so a Manager is safe to call concurrently from the engine's
// inbound dispatch goroutine and the debug HTTP server at once, even
// though each individual book.Book underneath it is not.
type Manager struct {
	mu sync.Mutex

	books map[string]*book.Book

	orders          map[uint64]*OrderState
	exchangeToOrder map[book.OrderID]uint64
	userOrders      map[uint64][]uint64

	lastTradeID map[string]uint64

	nextExchangeID book.OrderID
	nextExecID     uint64
	nextSequence   uint64

	stats Statistics

	send OutboundSender
	log  *zap.Logger
}

// New creates an empty manager. send receives every outbound frame this
// manager produces, in emission order.
func New(send OutboundSender, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		books:           make(map[string]*book.Book),
		orders:          make(map[uint64]*OrderState),
		exchangeToOrder: make(map[book.OrderID]uint64),
		userOrders:      make(map[uint64][]uint64),
		lastTradeID:     make(map[string]uint64),
		nextExchangeID:  0,
		nextExecID:      0,
		nextSequence:    0,
		send:            send,
		log:             log,
	}
}

// AddSymbol creates a fresh book for symbol, wiring the manager's own
// trade/order-event callbacks into it. Returns false if the symbol
// already has a book.
func (m *Manager) AddSymbol(symbol string, expectedOrders, expectedLevels int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[symbol]; ok {
		return false
	}

	b := book.NewBook(symbol, expectedOrders, expectedLevels,
		book.WithTradeCallback(func(aggID, passID book.OrderID, price, qty, ts int64) {
			m.onTrade(symbol, aggID, passID, price, qty, ts)
		}),
		book.WithOrderEventCallback(func(id book.OrderID, evt book.OrderEvent, filled, remaining int64) {
			m.onOrderEvent(id, evt, filled, remaining)
		}),
		book.WithLogger(m.log),
	)
	m.books[symbol] = b
	m.log.Info("symbol added", zap.String("symbol", symbol))
	return true
}

// BookDepth snapshots a symbol's aggregated depth and spread under the
// manager's lock. book.Book has no locking of its own; every mutation
// reaches it through HandleNewOrder/HandleCancelOrder/HandleReplaceOrder
// while m.mu is held, so a caller outside the manager must never read a
// *book.Book directly without that same lock protecting it.
func (m *Manager) BookDepth(symbol string, depth int) (bids, asks []book.LevelStats, spread int64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, found := m.books[symbol]
	if !found {
		return nil, nil, 0, false
	}
	return b.AggregateDepth(book.SideBuy, depth), b.AggregateDepth(book.SideSell, depth), b.Spread(), true
}

func (m *Manager) Symbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.books))
	for s := range m.books {
		out = append(out, s)
	}
	return out
}

func (m *Manager) Stats() Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *Manager) generateExchangeOrderID() book.OrderID {
	m.nextExchangeID++
	return m.nextExchangeID
}

func (m *Manager) generateExecutionID() uint64 {
	m.nextExecID++
	return m.nextExecID
}

func (m *Manager) generateSequence() uint64 {
	m.nextSequence++
	return m.nextSequence
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// HandleNewOrder validates, allocates an exchange order id, records
// state, emits ORDER_ACK, and submits the order to its book.
func (m *Manager) HandleNewOrder(msg protocol.NewOrderMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalOrdersReceived++

	if reason := m.validateNewOrder(msg); reason != protocol.ReasonNone {
		m.stats.TotalOrdersRejected++
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, reason, "order validation failed")
		return
	}

	if _, exists := m.orders[msg.ClientOrderID]; exists {
		m.stats.TotalOrdersRejected++
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, protocol.ReasonDuplicateOrderID, "order id already exists")
		return
	}

	b, ok := m.books[msg.Symbol]
	if !ok {
		m.stats.TotalOrdersRejected++
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, protocol.ReasonInvalidSymbol, "symbol not found")
		return
	}

	exchangeID := m.generateExchangeOrderID()
	order := &OrderState{
		ClientOrderID:    msg.ClientOrderID,
		ExchangeOrderID:  exchangeID,
		UserID:           msg.UserID,
		Symbol:           msg.Symbol,
		Side:             wireSideToBook(msg.Side),
		OrderType:        wireOrderTypeToBook(msg.OrderType),
		Price:            int64(msg.Price),
		OriginalQuantity: int64(msg.Quantity),
		RemainingQty:     int64(msg.Quantity),
		Status:           StatusPending,
		Timestamp:        nowMillis(),
	}

	m.orders[order.ClientOrderID] = order
	m.exchangeToOrder[exchangeID] = order.ClientOrderID
	m.userOrders[order.UserID] = append(m.userOrders[order.UserID], order.ClientOrderID)

	m.sendOrderAck(order)

	req := book.NewOrderRequest{
		ID:              exchangeID,
		Side:            order.Side,
		Type:            order.OrderType,
		Price:           order.Price,
		StopPrice:       int64(msg.StopPrice),
		Quantity:        order.OriginalQuantity,
		DisplayQuantity: int64(msg.DisplayQuantity),
		TIF:             wireTIFToBook(msg.TimeInForce),
		Flags:           wireFlagsToBook(msg.Flags),
		ExpireTime:      int64(msg.ExpireTime),
	}
	if st := b.AddOrder(req); st != book.StatusOK {
		order.Status = StatusRejected
		m.stats.TotalOrdersRejected++
		delete(m.exchangeToOrder, exchangeID)
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, bookStatusToReason(st), st.String())
		return
	}

	// The book's event callback has already set the order's status while
	// AddOrder ran (FILLED, PARTIALLY_FILLED, ...); only an order that no
	// event reached is still pending here.
	if order.Status == StatusPending {
		order.Status = StatusActive
	}
	m.stats.TotalOrdersAccepted++
	m.sendQuote(b)
}

// HandleCancelOrder locates the order by client_order_id, verifies
// ownership, and cancels it in its book.
func (m *Manager) HandleCancelOrder(msg protocol.CancelOrderMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[msg.ClientOrderID]
	if !ok {
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, protocol.ReasonUnknownOrder, "order not found")
		return
	}
	if order.UserID != msg.UserID {
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, protocol.ReasonUnknownOrder, "order does not belong to user")
		return
	}
	if order.Status == StatusFilled || order.Status == StatusCancelled || order.Status == StatusRejected {
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, protocol.ReasonUnknownOrder, "order cannot be cancelled")
		return
	}

	b, ok := m.books[order.Symbol]
	if !ok {
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, protocol.ReasonSystemError, "order book not found")
		return
	}

	if st := b.CancelOrder(order.ExchangeOrderID); st != book.StatusOK {
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, protocol.ReasonUnknownOrder, "order not found in book")
		return
	}

	order.Status = StatusCancelled
	m.stats.TotalOrdersCancelled++
	m.sendCancelAck(order)
	m.sendQuote(b)
}

// HandleReplaceOrder cancels the existing order and submits a new one
// under the incoming new_client_order_id, mirroring book.Book.ReplaceOrder
// at the manager's level of bookkeeping.
func (m *Manager) HandleReplaceOrder(msg protocol.ReplaceOrderMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[msg.ClientOrderID]
	if !ok {
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, protocol.ReasonUnknownOrder, "order not found")
		return
	}
	if order.UserID != msg.UserID {
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, protocol.ReasonUnknownOrder, "order does not belong to user")
		return
	}

	b, ok := m.books[order.Symbol]
	if !ok {
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, protocol.ReasonSystemError, "order book not found")
		return
	}

	side := order.Side
	orderType := order.OrderType
	symbol := order.Symbol
	userID := order.UserID

	newExchangeID := m.generateExchangeOrderID()
	newOrder := &OrderState{
		ClientOrderID:    msg.NewClientOrderID,
		ExchangeOrderID:  newExchangeID,
		UserID:           userID,
		Symbol:           symbol,
		Side:             side,
		OrderType:        orderType,
		Price:            int64(msg.NewPrice),
		OriginalQuantity: int64(msg.NewQuantity),
		RemainingQty:     int64(msg.NewQuantity),
		Status:           StatusPending,
		Timestamp:        nowMillis(),
	}

	// Registered before b.ReplaceOrder runs: the replacement can cross
	// the opposite book immediately, and the trade/fill callbacks that
	// follow arrive synchronously, inside this call, looking up
	// newExchangeID against m.exchangeToOrder.
	m.orders[newOrder.ClientOrderID] = newOrder
	m.exchangeToOrder[newExchangeID] = newOrder.ClientOrderID

	st := b.ReplaceOrder(order.ExchangeOrderID, newExchangeID, int64(msg.NewPrice), int64(msg.NewQuantity))
	if st != book.StatusOK {
		delete(m.orders, newOrder.ClientOrderID)
		delete(m.exchangeToOrder, newExchangeID)
		if st != book.StatusOrderNotFound {
			// The old order's cancel leg inside ReplaceOrder already
			// succeeded; only the new order's AddOrder leg failed, so
			// the old order is gone from the book either way.
			delete(m.exchangeToOrder, order.ExchangeOrderID)
			order.Status = StatusCancelled
		}
		m.sendOrderReject(msg.ClientOrderID, msg.UserID, protocol.ReasonUnknownOrder, "replace failed: "+st.String())
		return
	}

	delete(m.exchangeToOrder, order.ExchangeOrderID)
	order.Status = StatusCancelled
	if newOrder.Status == StatusPending {
		newOrder.Status = StatusActive
	}
	m.userOrders[userID] = append(m.userOrders[userID], newOrder.ClientOrderID)

	m.sendOrderReplaced(order.ClientOrderID, newOrder.ClientOrderID, newOrder.ExchangeOrderID, userID)
	m.sendQuote(b)
}

func (m *Manager) validateNewOrder(msg protocol.NewOrderMessage) protocol.RejectReason {
	if msg.Symbol == "" || len(msg.Symbol) > 15 {
		return protocol.ReasonInvalidSymbol
	}
	if (msg.OrderType == protocol.OrderTypeLimit || msg.OrderType == protocol.OrderTypeStopLimit) && msg.Price == 0 {
		return protocol.ReasonInvalidPrice
	}
	if msg.Quantity == 0 {
		return protocol.ReasonInvalidQuantity
	}
	if msg.UserID == 0 {
		return protocol.ReasonSystemError
	}
	return protocol.ReasonNone
}

func (m *Manager) GetOrder(clientOrderID uint64) (OrderState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[clientOrderID]
	if !ok {
		return OrderState{}, false
	}
	return *o, true
}

func (m *Manager) GetUserOrders(userID uint64) []OrderState {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.userOrders[userID]
	out := make([]OrderState, 0, len(ids))
	for _, id := range ids {
		if o, ok := m.orders[id]; ok {
			out = append(out, *o)
		}
	}
	return out
}
