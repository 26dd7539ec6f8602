package manager

import (
	"go.uber.org/zap"

	"github.com/tembolo1284/MatchX/book"
	"github.com/tembolo1284/MatchX/protocol"
)

func (m *Manager) header(t protocol.MessageType) protocol.Header {
	size, err := protocol.SizeOf(t)
	if err != nil {
		size = protocol.HeaderSize
	}
	return protocol.Header{
		Version:  protocol.ProtocolVersion,
		Type:     t,
		Length:   uint32(size),
		Sequence: m.generateSequence(),
	}
}

func (m *Manager) sendOrderAck(o *OrderState) {
	msg := protocol.OrderAckMessage{
		Header:          m.header(protocol.TypeOrderAck),
		ClientOrderID:   o.ClientOrderID,
		ExchangeOrderID: uint64(o.ExchangeOrderID),
		UserID:          o.UserID,
		Timestamp:       uint64(nowMillis()),
	}
	m.send(msg.Marshal())
}

func (m *Manager) sendOrderReject(clientOrderID, userID uint64, reason protocol.RejectReason, text string) {
	msg := protocol.OrderRejectMessage{
		Header:        m.header(protocol.TypeOrderReject),
		ClientOrderID: clientOrderID,
		UserID:        userID,
		Reason:        reason,
		Text:          text,
		Timestamp:     uint64(nowMillis()),
	}
	m.send(msg.Marshal())
}

// sendCancelAck reuses OrderRejectMessage's layout with TypeOrderCancelled
// and Reason left at ReasonNone, per the wire table's shared-layout note.
func (m *Manager) sendCancelAck(o *OrderState) {
	msg := protocol.OrderRejectMessage{
		Header:        m.header(protocol.TypeOrderCancelled),
		ClientOrderID: o.ClientOrderID,
		UserID:        o.UserID,
		Reason:        protocol.ReasonNone,
		Timestamp:     uint64(nowMillis()),
	}
	m.send(msg.Marshal())
}

func (m *Manager) sendOrderReplaced(oldClientOrderID, newClientOrderID uint64, newExchangeID book.OrderID, userID uint64) {
	msg := protocol.OrderReplacedMessage{
		Header:           m.header(protocol.TypeOrderReplaced),
		ClientOrderID:    oldClientOrderID,
		NewClientOrderID: newClientOrderID,
		ExchangeOrderID:  uint64(newExchangeID),
		UserID:           userID,
		Timestamp:        uint64(nowMillis()),
	}
	m.send(msg.Marshal())
}

func (m *Manager) sendExecution(o *OrderState, fillPrice, fillQty, leavesQty int64) {
	msg := protocol.ExecutionMessage{
		Header:          m.header(protocol.TypeExecution),
		Symbol:          o.Symbol,
		ClientOrderID:   o.ClientOrderID,
		ExchangeOrderID: uint64(o.ExchangeOrderID),
		ExecutionID:     m.generateExecutionID(),
		UserID:          o.UserID,
		Side:            bookSideToWire(o.Side),
		FillPrice:       uint64(fillPrice),
		FillQuantity:    uint64(fillQty),
		LeavesQuantity:  uint64(leavesQty),
		Timestamp:       uint64(nowMillis()),
	}
	m.stats.TotalExecutions++
	m.stats.TotalVolume += fillQty
	m.send(msg.Marshal())
}

func (m *Manager) sendTrade(symbol string, price, qty int64) {
	m.lastTradeID[symbol]++
	msg := protocol.TradeMessage{
		Header:    m.header(protocol.TypeTrade),
		Symbol:    symbol,
		TradeID:   m.lastTradeID[symbol],
		Price:     uint64(price),
		Quantity:  uint64(qty),
		Timestamp: uint64(nowMillis()),
	}
	m.send(msg.Marshal())
}

func (m *Manager) sendQuote(b *book.Book) {
	bid := b.BestBid()
	ask := b.BestAsk()
	msg := protocol.QuoteMessage{
		Header:      m.header(protocol.TypeQuote),
		Symbol:      b.Symbol(),
		BidPrice:    uint64(bid),
		BidQuantity: uint64(b.VolumeAtPrice(book.SideBuy, bid)),
		AskPrice:    uint64(ask),
		AskQuantity: uint64(b.VolumeAtPrice(book.SideSell, ask)),
		Timestamp:   uint64(nowMillis()),
	}
	m.send(msg.Marshal())
}

// onTrade is wired as every book's TradeCallback. It looks the aggressor
// and passive orders up by their book-local exchange id, updates both
// OrderStates' filled/remaining bookkeeping, and emits the one TRADE
// broadcast plus two EXECUTION reports the original fan-out produces.
func (m *Manager) onTrade(symbol string, aggressorID, passiveID book.OrderID, price, qty, _ int64) {
	aggClientID, aggOK := m.exchangeToOrder[aggressorID]
	passClientID, passOK := m.exchangeToOrder[passiveID]

	m.sendTrade(symbol, price, qty)

	if aggOK {
		if agg, ok := m.orders[aggClientID]; ok {
			agg.FilledQuantity += qty
			agg.RemainingQty -= qty
			m.sendExecution(agg, price, qty, agg.RemainingQty)
		}
	} else {
		m.log.Warn("trade callback: aggressor exchange id not tracked", zap.Uint64("exchange_order_id", uint64(aggressorID)))
	}

	if passOK {
		if pass, ok := m.orders[passClientID]; ok {
			pass.FilledQuantity += qty
			pass.RemainingQty -= qty
			m.sendExecution(pass, price, qty, pass.RemainingQty)
		}
	} else {
		m.log.Warn("trade callback: passive exchange id not tracked", zap.Uint64("exchange_order_id", uint64(passiveID)))
	}
}

// onOrderEvent is wired as every book's OrderEventCallback. It mutates
// the tracked OrderState's status to match the book's own lifecycle
// transition; the book destroys its own copy once it has reported
// FILLED/CANCELLED/EXPIRED/REJECTED, so after that this is the only
// remaining record of the order's final state.
func (m *Manager) onOrderEvent(id book.OrderID, evt book.OrderEvent, filled, remaining int64) {
	clientID, ok := m.exchangeToOrder[id]
	if !ok {
		return
	}
	o, ok := m.orders[clientID]
	if !ok {
		return
	}

	o.FilledQuantity = filled
	o.RemainingQty = remaining

	switch evt {
	case book.EventOrderFilled:
		o.Status = StatusFilled
	case book.EventOrderPartial:
		o.Status = StatusPartiallyFilled
	case book.EventOrderCancelled, book.EventOrderExpired:
		o.Status = StatusCancelled
	case book.EventOrderRejected:
		o.Status = StatusRejected
	case book.EventOrderAccepted, book.EventOrderTriggered:
		o.Status = StatusActive
	}
}
