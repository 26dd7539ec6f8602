package protocol

import "encoding/binary"

const (
	sizeNewOrder       = HeaderSize + 16 + 8 + 8 + 1 + 1 + 2 + 8 + 8 + 8 + 1 + 4 + 8 + 8 + 8
	sizeCancelOrder    = HeaderSize + 16 + 8 + 8 + 8
	sizeReplaceOrder   = HeaderSize + 16 + 8 + 8 + 8 + 8 + 8 + 8
	sizeOrderAck       = HeaderSize + 8 + 8 + 8 + 8
	sizeOrderReject    = HeaderSize + 8 + 8 + 1 + 7 + 64 + 8
	sizeOrderReplaced  = HeaderSize + 8 + 8 + 8 + 8 + 8
	sizeExecution      = HeaderSize + 16 + 8 + 8 + 8 + 8 + 1 + 7 + 8 + 8 + 8 + 8
	sizeTrade          = HeaderSize + 16 + 8 + 8 + 8 + 8
	sizeQuote          = HeaderSize + 16 + 8 + 8 + 8 + 8 + 8
	sizeHeartbeat      = HeaderSize + 8
	sizeLogon          = HeaderSize + 8 + 8
	sizeLogout         = HeaderSize + 8 + 8
)

// SizeOf returns the total wire size (header included) of the fixed
// payload associated with t, so a caller building a Header can set
// Length without duplicating the per-message byte count.
// TypeOrderCancelled, which borrows OrderReject's layout, reports
// OrderReject's size; any code not listed returns ErrUnknownType.
func SizeOf(t MessageType) (int, error) {
	switch t {
	case TypeNewOrder:
		return sizeNewOrder, nil
	case TypeCancelOrder:
		return sizeCancelOrder, nil
	case TypeReplaceOrder:
		return sizeReplaceOrder, nil
	case TypeOrderAck:
		return sizeOrderAck, nil
	case TypeOrderReject, TypeOrderCancelled:
		return sizeOrderReject, nil
	case TypeOrderReplaced:
		return sizeOrderReplaced, nil
	case TypeExecution:
		return sizeExecution, nil
	case TypeTrade:
		return sizeTrade, nil
	case TypeQuote:
		return sizeQuote, nil
	case TypeHeartbeat:
		return sizeHeartbeat, nil
	case TypeLogon:
		return sizeLogon, nil
	case TypeLogout:
		return sizeLogout, nil
	default:
		return 0, ErrUnknownType
	}
}

// NewOrderMessage is client->engine order entry. Beyond the source's
// side/order_type/price/quantity, it carries the full entry surface the
// book package accepts: time_in_force, flags, stop_price,
// display_quantity, and expire_time, so STOP/STOP_LIMIT, IOC/FOK/GTD, and
// iceberg/AON/post_only/reduce_only orders are all reachable over the wire.
type NewOrderMessage struct {
	Header          Header
	Symbol          string
	ClientOrderID   uint64
	UserID          uint64
	Side            Side
	OrderType       OrderType
	Price           uint64
	Quantity        uint64
	Timestamp       uint64
	TimeInForce     TimeInForce
	Flags           OrderFlags
	StopPrice       uint64
	DisplayQuantity uint64
	ExpireTime      uint64
}

func (m NewOrderMessage) Marshal() []byte {
	buf := make([]byte, sizeNewOrder)
	copy(buf[:HeaderSize], m.Header.Marshal())
	o := HeaderSize
	sym := symbolToBytes(m.Symbol)
	copy(buf[o:o+16], sym[:])
	o += 16
	binary.LittleEndian.PutUint64(buf[o:o+8], m.ClientOrderID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.UserID)
	o += 8
	buf[o] = uint8(m.Side)
	o++
	buf[o] = uint8(m.OrderType)
	o++
	o += 2 // reserved alignment field
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Price)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Quantity)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Timestamp)
	o += 8
	buf[o] = uint8(m.TimeInForce)
	o++
	binary.LittleEndian.PutUint32(buf[o:o+4], uint32(m.Flags))
	o += 4
	binary.LittleEndian.PutUint64(buf[o:o+8], m.StopPrice)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.DisplayQuantity)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.ExpireTime)
	return buf
}

func UnmarshalNewOrder(buf []byte) (NewOrderMessage, error) {
	if len(buf) < sizeNewOrder {
		return NewOrderMessage{}, ErrShortBuffer
	}
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return NewOrderMessage{}, err
	}
	m := NewOrderMessage{Header: h}
	o := HeaderSize
	m.Symbol = bytesToSymbol(buf[o : o+16])
	o += 16
	m.ClientOrderID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.UserID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Side = Side(buf[o])
	o++
	m.OrderType = OrderType(buf[o])
	o++
	o += 2
	m.Price = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Quantity = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Timestamp = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.TimeInForce = TimeInForce(buf[o])
	o++
	m.Flags = OrderFlags(binary.LittleEndian.Uint32(buf[o : o+4]))
	o += 4
	m.StopPrice = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.DisplayQuantity = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.ExpireTime = binary.LittleEndian.Uint64(buf[o : o+8])
	return m, nil
}

// CancelOrderMessage is client->engine order cancellation.
type CancelOrderMessage struct {
	Header        Header
	Symbol        string
	ClientOrderID uint64
	UserID        uint64
	Timestamp     uint64
}

func (m CancelOrderMessage) Marshal() []byte {
	buf := make([]byte, sizeCancelOrder)
	copy(buf[:HeaderSize], m.Header.Marshal())
	o := HeaderSize
	sym := symbolToBytes(m.Symbol)
	copy(buf[o:o+16], sym[:])
	o += 16
	binary.LittleEndian.PutUint64(buf[o:o+8], m.ClientOrderID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.UserID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Timestamp)
	return buf
}

func UnmarshalCancelOrder(buf []byte) (CancelOrderMessage, error) {
	if len(buf) < sizeCancelOrder {
		return CancelOrderMessage{}, ErrShortBuffer
	}
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return CancelOrderMessage{}, err
	}
	m := CancelOrderMessage{Header: h}
	o := HeaderSize
	m.Symbol = bytesToSymbol(buf[o : o+16])
	o += 16
	m.ClientOrderID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.UserID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Timestamp = binary.LittleEndian.Uint64(buf[o : o+8])
	return m, nil
}

// ReplaceOrderMessage is client->engine cancel-and-replace, supplementing
// the source's NEW_ORDER/CANCEL_ORDER pair with the wire form of
// book.Book.ReplaceOrder.
type ReplaceOrderMessage struct {
	Header           Header
	Symbol           string
	ClientOrderID    uint64
	NewClientOrderID uint64
	UserID           uint64
	NewPrice         uint64
	NewQuantity      uint64
	Timestamp        uint64
}

func (m ReplaceOrderMessage) Marshal() []byte {
	buf := make([]byte, sizeReplaceOrder)
	copy(buf[:HeaderSize], m.Header.Marshal())
	o := HeaderSize
	sym := symbolToBytes(m.Symbol)
	copy(buf[o:o+16], sym[:])
	o += 16
	binary.LittleEndian.PutUint64(buf[o:o+8], m.ClientOrderID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.NewClientOrderID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.UserID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.NewPrice)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.NewQuantity)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Timestamp)
	return buf
}

func UnmarshalReplaceOrder(buf []byte) (ReplaceOrderMessage, error) {
	if len(buf) < sizeReplaceOrder {
		return ReplaceOrderMessage{}, ErrShortBuffer
	}
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return ReplaceOrderMessage{}, err
	}
	m := ReplaceOrderMessage{Header: h}
	o := HeaderSize
	m.Symbol = bytesToSymbol(buf[o : o+16])
	o += 16
	m.ClientOrderID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.NewClientOrderID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.UserID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.NewPrice = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.NewQuantity = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Timestamp = binary.LittleEndian.Uint64(buf[o : o+8])
	return m, nil
}

// OrderAckMessage is engine->client order acceptance.
type OrderAckMessage struct {
	Header           Header
	ClientOrderID    uint64
	ExchangeOrderID  uint64
	UserID           uint64
	Timestamp        uint64
}

func (m OrderAckMessage) Marshal() []byte {
	buf := make([]byte, sizeOrderAck)
	copy(buf[:HeaderSize], m.Header.Marshal())
	o := HeaderSize
	binary.LittleEndian.PutUint64(buf[o:o+8], m.ClientOrderID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.ExchangeOrderID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.UserID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Timestamp)
	return buf
}

func UnmarshalOrderAck(buf []byte) (OrderAckMessage, error) {
	if len(buf) < sizeOrderAck {
		return OrderAckMessage{}, ErrShortBuffer
	}
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return OrderAckMessage{}, err
	}
	m := OrderAckMessage{Header: h}
	o := HeaderSize
	m.ClientOrderID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.ExchangeOrderID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.UserID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Timestamp = binary.LittleEndian.Uint64(buf[o : o+8])
	return m, nil
}

// OrderRejectMessage is engine->client order rejection. ORDER_CANCELLED
// reuses this exact layout with Reason left at ReasonNone, per the wire
// table's "same layout as ORDER_REJECT" note.
type OrderRejectMessage struct {
	Header        Header
	ClientOrderID uint64
	UserID        uint64
	Reason        RejectReason
	Text          string
	Timestamp     uint64
}

func (m OrderRejectMessage) Marshal() []byte {
	buf := make([]byte, sizeOrderReject)
	copy(buf[:HeaderSize], m.Header.Marshal())
	o := HeaderSize
	binary.LittleEndian.PutUint64(buf[o:o+8], m.ClientOrderID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.UserID)
	o += 8
	buf[o] = uint8(m.Reason)
	o += 1 + 7 // reason + alignment padding
	textBuf := make([]byte, 64)
	copy(textBuf, m.Text)
	copy(buf[o:o+64], textBuf)
	o += 64
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Timestamp)
	return buf
}

func UnmarshalOrderReject(buf []byte) (OrderRejectMessage, error) {
	if len(buf) < sizeOrderReject {
		return OrderRejectMessage{}, ErrShortBuffer
	}
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return OrderRejectMessage{}, err
	}
	m := OrderRejectMessage{Header: h}
	o := HeaderSize
	m.ClientOrderID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.UserID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Reason = RejectReason(buf[o])
	o += 1 + 7
	m.Text = bytesToSymbol(buf[o : o+64])
	o += 64
	m.Timestamp = binary.LittleEndian.Uint64(buf[o : o+8])
	return m, nil
}

// OrderReplacedMessage is engine->client acknowledgement of a REPLACE_ORDER.
type OrderReplacedMessage struct {
	Header           Header
	ClientOrderID    uint64
	NewClientOrderID uint64
	ExchangeOrderID  uint64
	UserID           uint64
	Timestamp        uint64
}

func (m OrderReplacedMessage) Marshal() []byte {
	buf := make([]byte, sizeOrderReplaced)
	copy(buf[:HeaderSize], m.Header.Marshal())
	o := HeaderSize
	binary.LittleEndian.PutUint64(buf[o:o+8], m.ClientOrderID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.NewClientOrderID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.ExchangeOrderID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.UserID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Timestamp)
	return buf
}

func UnmarshalOrderReplaced(buf []byte) (OrderReplacedMessage, error) {
	if len(buf) < sizeOrderReplaced {
		return OrderReplacedMessage{}, ErrShortBuffer
	}
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return OrderReplacedMessage{}, err
	}
	m := OrderReplacedMessage{Header: h}
	o := HeaderSize
	m.ClientOrderID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.NewClientOrderID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.ExchangeOrderID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.UserID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Timestamp = binary.LittleEndian.Uint64(buf[o : o+8])
	return m, nil
}

// ExecutionMessage is engine->client per-fill execution report.
type ExecutionMessage struct {
	Header          Header
	Symbol          string
	ClientOrderID   uint64
	ExchangeOrderID uint64
	ExecutionID     uint64
	UserID          uint64
	Side            Side
	FillPrice       uint64
	FillQuantity    uint64
	LeavesQuantity  uint64
	Timestamp       uint64
}

func (m ExecutionMessage) Marshal() []byte {
	buf := make([]byte, sizeExecution)
	copy(buf[:HeaderSize], m.Header.Marshal())
	o := HeaderSize
	sym := symbolToBytes(m.Symbol)
	copy(buf[o:o+16], sym[:])
	o += 16
	binary.LittleEndian.PutUint64(buf[o:o+8], m.ClientOrderID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.ExchangeOrderID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.ExecutionID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.UserID)
	o += 8
	buf[o] = uint8(m.Side)
	o += 1 + 7
	binary.LittleEndian.PutUint64(buf[o:o+8], m.FillPrice)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.FillQuantity)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.LeavesQuantity)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Timestamp)
	return buf
}

func UnmarshalExecution(buf []byte) (ExecutionMessage, error) {
	if len(buf) < sizeExecution {
		return ExecutionMessage{}, ErrShortBuffer
	}
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return ExecutionMessage{}, err
	}
	m := ExecutionMessage{Header: h}
	o := HeaderSize
	m.Symbol = bytesToSymbol(buf[o : o+16])
	o += 16
	m.ClientOrderID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.ExchangeOrderID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.ExecutionID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.UserID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Side = Side(buf[o])
	o += 1 + 7
	m.FillPrice = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.FillQuantity = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.LeavesQuantity = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Timestamp = binary.LittleEndian.Uint64(buf[o : o+8])
	return m, nil
}

// TradeMessage is the engine's market-data broadcast for one executed trade.
type TradeMessage struct {
	Header    Header
	Symbol    string
	TradeID   uint64
	Price     uint64
	Quantity  uint64
	Timestamp uint64
}

func (m TradeMessage) Marshal() []byte {
	buf := make([]byte, sizeTrade)
	copy(buf[:HeaderSize], m.Header.Marshal())
	o := HeaderSize
	sym := symbolToBytes(m.Symbol)
	copy(buf[o:o+16], sym[:])
	o += 16
	binary.LittleEndian.PutUint64(buf[o:o+8], m.TradeID)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Price)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Quantity)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Timestamp)
	return buf
}

func UnmarshalTrade(buf []byte) (TradeMessage, error) {
	if len(buf) < sizeTrade {
		return TradeMessage{}, ErrShortBuffer
	}
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return TradeMessage{}, err
	}
	m := TradeMessage{Header: h}
	o := HeaderSize
	m.Symbol = bytesToSymbol(buf[o : o+16])
	o += 16
	m.TradeID = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Price = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Quantity = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Timestamp = binary.LittleEndian.Uint64(buf[o : o+8])
	return m, nil
}

// QuoteMessage is the engine's top-of-book broadcast.
type QuoteMessage struct {
	Header      Header
	Symbol      string
	BidPrice    uint64
	BidQuantity uint64
	AskPrice    uint64
	AskQuantity uint64
	Timestamp   uint64
}

func (m QuoteMessage) Marshal() []byte {
	buf := make([]byte, sizeQuote)
	copy(buf[:HeaderSize], m.Header.Marshal())
	o := HeaderSize
	sym := symbolToBytes(m.Symbol)
	copy(buf[o:o+16], sym[:])
	o += 16
	binary.LittleEndian.PutUint64(buf[o:o+8], m.BidPrice)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.BidQuantity)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.AskPrice)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.AskQuantity)
	o += 8
	binary.LittleEndian.PutUint64(buf[o:o+8], m.Timestamp)
	return buf
}

func UnmarshalQuote(buf []byte) (QuoteMessage, error) {
	if len(buf) < sizeQuote {
		return QuoteMessage{}, ErrShortBuffer
	}
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return QuoteMessage{}, err
	}
	m := QuoteMessage{Header: h}
	o := HeaderSize
	m.Symbol = bytesToSymbol(buf[o : o+16])
	o += 16
	m.BidPrice = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.BidQuantity = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.AskPrice = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.AskQuantity = binary.LittleEndian.Uint64(buf[o : o+8])
	o += 8
	m.Timestamp = binary.LittleEndian.Uint64(buf[o : o+8])
	return m, nil
}

// HeartbeatMessage flows in either direction to keep a connection alive.
type HeartbeatMessage struct {
	Header    Header
	Timestamp uint64
}

func (m HeartbeatMessage) Marshal() []byte {
	buf := make([]byte, sizeHeartbeat)
	copy(buf[:HeaderSize], m.Header.Marshal())
	binary.LittleEndian.PutUint64(buf[HeaderSize:HeaderSize+8], m.Timestamp)
	return buf
}

func UnmarshalHeartbeat(buf []byte) (HeartbeatMessage, error) {
	if len(buf) < sizeHeartbeat {
		return HeartbeatMessage{}, ErrShortBuffer
	}
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return HeartbeatMessage{}, err
	}
	return HeartbeatMessage{Header: h, Timestamp: binary.LittleEndian.Uint64(buf[HeaderSize : HeaderSize+8])}, nil
}

// LogonMessage/LogoutMessage are client->gateway session bookkeeping
// frames, supplementing the source's bare HEARTBEAT with an explicit
// session lifecycle so the gateway can bind a user_id to a connection
// before forwarding its traffic.
type LogonMessage struct {
	Header    Header
	UserID    uint64
	Timestamp uint64
}

func (m LogonMessage) Marshal() []byte {
	buf := make([]byte, sizeLogon)
	copy(buf[:HeaderSize], m.Header.Marshal())
	binary.LittleEndian.PutUint64(buf[HeaderSize:HeaderSize+8], m.UserID)
	binary.LittleEndian.PutUint64(buf[HeaderSize+8:HeaderSize+16], m.Timestamp)
	return buf
}

func UnmarshalLogon(buf []byte) (LogonMessage, error) {
	if len(buf) < sizeLogon {
		return LogonMessage{}, ErrShortBuffer
	}
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return LogonMessage{}, err
	}
	return LogonMessage{
		Header:    h,
		UserID:    binary.LittleEndian.Uint64(buf[HeaderSize : HeaderSize+8]),
		Timestamp: binary.LittleEndian.Uint64(buf[HeaderSize+8 : HeaderSize+16]),
	}, nil
}

type LogoutMessage struct {
	Header    Header
	UserID    uint64
	Timestamp uint64
}

func (m LogoutMessage) Marshal() []byte {
	buf := make([]byte, sizeLogout)
	copy(buf[:HeaderSize], m.Header.Marshal())
	binary.LittleEndian.PutUint64(buf[HeaderSize:HeaderSize+8], m.UserID)
	binary.LittleEndian.PutUint64(buf[HeaderSize+8:HeaderSize+16], m.Timestamp)
	return buf
}

func UnmarshalLogout(buf []byte) (LogoutMessage, error) {
	if len(buf) < sizeLogout {
		return LogoutMessage{}, ErrShortBuffer
	}
	h, err := UnmarshalHeader(buf)
	if err != nil {
		return LogoutMessage{}, err
	}
	return LogoutMessage{
		Header:    h,
		UserID:    binary.LittleEndian.Uint64(buf[HeaderSize : HeaderSize+8]),
		Timestamp: binary.LittleEndian.Uint64(buf[HeaderSize+8 : HeaderSize+16]),
	}, nil
}
