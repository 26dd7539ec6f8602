package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Version: ProtocolVersion, Type: TypeNewOrder, Length: sizeNewOrder, Sequence: 42}
	buf := h.Marshal()
	assert.Equal(t, len(buf), HeaderSize)

	got, err := UnmarshalHeader(buf)
	assert.Nil(t, err)
	assert.Equal(t, got, h)
}

func TestNewOrderRoundTrip(t *testing.T) {
	m := NewOrderMessage{
		Header:          Header{Version: ProtocolVersion, Type: TypeNewOrder, Length: sizeNewOrder, Sequence: 7},
		Symbol:          "AAPL",
		ClientOrderID:   123,
		UserID:          456,
		Side:            SideBuy,
		OrderType:       OrderTypeStopLimit,
		Price:           150000,
		Quantity:        10,
		Timestamp:       999,
		TimeInForce:     TIFGTD,
		Flags:           FlagPostOnly | FlagAON,
		StopPrice:       149000,
		DisplayQuantity: 5,
		ExpireTime:      12345,
	}

	buf := m.Marshal()
	assert.Equal(t, len(buf), sizeNewOrder)

	got, err := UnmarshalNewOrder(buf)
	assert.Nil(t, err)
	assert.Equal(t, got, m)
}

func TestCancelOrderRoundTrip(t *testing.T) {
	m := CancelOrderMessage{
		Header:        Header{Version: ProtocolVersion, Type: TypeCancelOrder, Length: sizeCancelOrder},
		Symbol:        "GOOGL",
		ClientOrderID: 1,
		UserID:        2,
		Timestamp:     3,
	}
	got, err := UnmarshalCancelOrder(m.Marshal())
	assert.Nil(t, err)
	assert.Equal(t, got, m)
}

func TestReplaceOrderRoundTrip(t *testing.T) {
	m := ReplaceOrderMessage{
		Header:           Header{Version: ProtocolVersion, Type: TypeReplaceOrder, Length: sizeReplaceOrder},
		Symbol:           "MSFT",
		ClientOrderID:    10,
		NewClientOrderID: 11,
		UserID:           20,
		NewPrice:         30000,
		NewQuantity:      40,
		Timestamp:        50,
	}
	got, err := UnmarshalReplaceOrder(m.Marshal())
	assert.Nil(t, err)
	assert.Equal(t, got, m)
}

func TestExecutionRoundTrip(t *testing.T) {
	m := ExecutionMessage{
		Header:          Header{Version: ProtocolVersion, Type: TypeExecution, Length: sizeExecution},
		Symbol:          "TSLA",
		ClientOrderID:   1,
		ExchangeOrderID: 2,
		ExecutionID:     3,
		UserID:          4,
		Side:            SideSell,
		FillPrice:       1000,
		FillQuantity:    5,
		LeavesQuantity:  6,
		Timestamp:       7,
	}
	got, err := UnmarshalExecution(m.Marshal())
	assert.Nil(t, err)
	assert.Equal(t, got, m)
}

func TestQuoteRoundTrip(t *testing.T) {
	m := QuoteMessage{
		Header:      Header{Version: ProtocolVersion, Type: TypeQuote, Length: sizeQuote},
		Symbol:      "AMZN",
		BidPrice:    100,
		BidQuantity: 10,
		AskPrice:    110,
		AskQuantity: 20,
		Timestamp:   30,
	}
	got, err := UnmarshalQuote(m.Marshal())
	assert.Nil(t, err)
	assert.Equal(t, got, m)
}

func TestOrderRejectRoundTrip(t *testing.T) {
	m := OrderRejectMessage{
		Header:        Header{Version: ProtocolVersion, Type: TypeOrderReject, Length: sizeOrderReject},
		ClientOrderID: 1,
		UserID:        2,
		Reason:        ReasonInvalidPrice,
		Text:          "invalid price",
		Timestamp:     3,
	}
	got, err := UnmarshalOrderReject(m.Marshal())
	assert.Nil(t, err)
	assert.Equal(t, got, m)
}

func TestLogonLogoutRoundTrip(t *testing.T) {
	logon := LogonMessage{Header: Header{Version: ProtocolVersion, Type: TypeLogon, Length: sizeLogon}, UserID: 9, Timestamp: 10}
	got, err := UnmarshalLogon(logon.Marshal())
	assert.Nil(t, err)
	assert.Equal(t, got, logon)

	logout := LogoutMessage{Header: Header{Version: ProtocolVersion, Type: TypeLogout, Length: sizeLogout}, UserID: 9, Timestamp: 11}
	gotOut, err := UnmarshalLogout(logout.Marshal())
	assert.Nil(t, err)
	assert.Equal(t, gotOut, logout)
}

func TestValidateFramingBounds(t *testing.T) {
	assert.Equal(t, ValidateFraming(Header{Length: MaxFrameSize + 1}), ErrFrameTooLarge)
	assert.Equal(t, ValidateFraming(Header{Length: HeaderSize - 1}), ErrFrameTooSmall)
	assert.Nil(t, ValidateFraming(Header{Length: HeaderSize}))
}

func TestUnmarshalHeaderRejectsShortBuffer(t *testing.T) {
	_, err := UnmarshalHeader(make([]byte, 4))
	assert.Equal(t, err, ErrShortBuffer)
}
