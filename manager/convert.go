package manager

import (
	"github.com/tembolo1284/MatchX/book"
	"github.com/tembolo1284/MatchX/protocol"
)

func wireSideToBook(s protocol.Side) book.Side {
	if s == protocol.SideSell {
		return book.SideSell
	}
	return book.SideBuy
}

func bookSideToWire(s book.Side) protocol.Side {
	if s == book.SideSell {
		return protocol.SideSell
	}
	return protocol.SideBuy
}

func wireOrderTypeToBook(t protocol.OrderType) book.OrderType {
	switch t {
	case protocol.OrderTypeMarket:
		return book.OrderTypeMarket
	case protocol.OrderTypeStop:
		return book.OrderTypeStop
	case protocol.OrderTypeStopLimit:
		return book.OrderTypeStopLimit
	default:
		return book.OrderTypeLimit
	}
}

func wireTIFToBook(t protocol.TimeInForce) book.TimeInForce {
	switch t {
	case protocol.TIFIOC:
		return book.TIFIOC
	case protocol.TIFFOK:
		return book.TIFFOK
	case protocol.TIFDAY:
		return book.TIFDAY
	case protocol.TIFGTD:
		return book.TIFGTD
	default:
		return book.TIFGTC
	}
}

// bookStatusToReason maps a non-OK book.Status from AddOrder into the
// wire-level reject reason the client sees, covering the statuses a
// post-validation AddOrder call can still return (a post-only order
// that would cross, or FOK/AON insufficient resting liquidity).
func bookStatusToReason(st book.Status) protocol.RejectReason {
	switch st {
	case book.StatusWouldMatch:
		return protocol.ReasonWouldMatch
	case book.StatusCannotFill:
		return protocol.ReasonCannotFill
	case book.StatusInvalidPrice:
		return protocol.ReasonInvalidPrice
	case book.StatusInvalidQuantity:
		return protocol.ReasonInvalidQuantity
	case book.StatusDuplicateOrder:
		return protocol.ReasonDuplicateOrderID
	case book.StatusOrderNotFound:
		return protocol.ReasonUnknownOrder
	default:
		return protocol.ReasonSystemError
	}
}

func wireFlagsToBook(f protocol.OrderFlags) book.Flags {
	var out book.Flags
	if f&protocol.FlagPostOnly != 0 {
		out |= book.FlagPostOnly
	}
	if f&protocol.FlagHidden != 0 {
		out |= book.FlagHidden
	}
	if f&protocol.FlagAON != 0 {
		out |= book.FlagAON
	}
	if f&protocol.FlagReduceOnly != 0 {
		out |= book.FlagReduceOnly
	}
	return out
}
