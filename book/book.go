package book

import (
	"sort"

	"go.uber.org/zap"
)

// Book is a single symbol's limit order book: two price-keyed level maps in
// price-time priority, a stop-order park, and the running best-of-book
// caches. A *Book is owned by exactly one goroutine; it holds no internal
// lock, matching the single-threaded-per-book cooperative model it is
// grounded on.
type Book struct {
	symbol string
	pool   *OrderPool

	bidLevels map[int64]*PriceLevel
	askLevels map[int64]*PriceLevel
	bidPrices []int64 // descending
	askPrices []int64 // ascending

	stops map[OrderID]*Order

	bestBid, bestAsk int64

	totalTrades int64
	totalVolume int64

	onTrade      TradeCallback
	onOrderEvent OrderEventCallback

	log *zap.Logger

	now int64 // injected clock for deterministic tests; wallClock() if zero
}

// Option configures a Book at construction time.
type Option func(*Book)

func WithTradeCallback(cb TradeCallback) Option { return func(b *Book) { b.onTrade = cb } }
func WithOrderEventCallback(cb OrderEventCallback) Option {
	return func(b *Book) { b.onOrderEvent = cb }
}
func WithLogger(l *zap.Logger) Option { return func(b *Book) { b.log = l } }

// NewBook creates an empty book for symbol, pre-sizing its order pool and
// level maps using the expected-capacity hints.
func NewBook(symbol string, expectedOrders, expectedLevels int, opts ...Option) *Book {
	b := &Book{
		symbol:    symbol,
		pool:      NewOrderPool(expectedOrders),
		bidLevels: make(map[int64]*PriceLevel, expectedLevels),
		askLevels: make(map[int64]*PriceLevel, expectedLevels),
		stops:     make(map[OrderID]*Order),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Book) Symbol() string { return b.symbol }

func (b *Book) clock() int64 {
	if b.now != 0 {
		return b.now
	}
	return wallClock()
}

// SetClock pins the book's notion of "now" for deterministic tests. Passing
// 0 restores the wall clock.
func (b *Book) SetClock(ts int64) { b.now = ts }

func (b *Book) levelsFor(side Side) map[int64]*PriceLevel {
	if side == SideBuy {
		return b.bidLevels
	}
	return b.askLevels
}

func (b *Book) pricesFor(side Side) []int64 {
	if side == SideBuy {
		return b.bidPrices
	}
	return b.askPrices
}

// insertPrice keeps bidPrices descending and askPrices ascending without a
// full re-sort on every insert.
func (b *Book) insertPrice(side Side, price int64) {
	if side == SideBuy {
		idx := sort.Search(len(b.bidPrices), func(i int) bool { return b.bidPrices[i] < price })
		b.bidPrices = append(b.bidPrices, 0)
		copy(b.bidPrices[idx+1:], b.bidPrices[idx:])
		b.bidPrices[idx] = price
	} else {
		idx := sort.Search(len(b.askPrices), func(i int) bool { return b.askPrices[i] > price })
		b.askPrices = append(b.askPrices, 0)
		copy(b.askPrices[idx+1:], b.askPrices[idx:])
		b.askPrices[idx] = price
	}
}

func (b *Book) removePrice(side Side, price int64) {
	prices := b.pricesFor(side)
	for i, p := range prices {
		if p == price {
			prices = append(prices[:i], prices[i+1:]...)
			break
		}
	}
	if side == SideBuy {
		b.bidPrices = prices
	} else {
		b.askPrices = prices
	}
}

func (b *Book) getOrCreateLevel(side Side, price int64) *PriceLevel {
	levels := b.levelsFor(side)
	if lvl, ok := levels[price]; ok {
		return lvl
	}
	lvl := newPriceLevel(price)
	levels[price] = lvl
	b.insertPrice(side, price)
	return lvl
}

// dropLevelIfEmpty removes an exhausted level and keeps best-of-book caches
// in sync.
func (b *Book) dropLevelIfEmpty(side Side, price int64) {
	levels := b.levelsFor(side)
	lvl, ok := levels[price]
	if !ok || !lvl.Empty() {
		return
	}
	delete(levels, price)
	b.removePrice(side, price)
	b.refreshBestOfBook()
}

func (b *Book) refreshBestOfBook() {
	if len(b.bidPrices) > 0 {
		b.bestBid = b.bidPrices[0]
	} else {
		b.bestBid = 0
	}
	if len(b.askPrices) > 0 {
		b.bestAsk = b.askPrices[0]
	} else {
		b.bestAsk = 0
	}
}

func (b *Book) BestBid() int64 { return b.bestBid }
func (b *Book) BestAsk() int64 { return b.bestAsk }

func (b *Book) Spread() int64 {
	if b.bestBid == 0 || b.bestAsk == 0 {
		return 0
	}
	return b.bestAsk - b.bestBid
}

func (b *Book) MidPrice() int64 {
	if b.bestBid == 0 || b.bestAsk == 0 {
		return 0
	}
	return (b.bestBid + b.bestAsk) / 2
}

func (b *Book) VolumeAtPrice(side Side, price int64) int64 {
	if lvl, ok := b.levelsFor(side)[price]; ok {
		return lvl.TotalVolume()
	}
	return 0
}

// AggregateDepth returns up to n price levels per side, best-price first,
// as LevelStats.
func (b *Book) AggregateDepth(side Side, n int) []LevelStats {
	prices := b.pricesFor(side)
	levels := b.levelsFor(side)
	if n > len(prices) {
		n = len(prices)
	}
	out := make([]LevelStats, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, levels[prices[i]].Stats())
	}
	return out
}

func (b *Book) HasOrder(id OrderID) bool { return b.pool.HasOrder(id) || b.stops[id] != nil }

func (b *Book) OrderSnapshot(id OrderID) (Snapshot, bool) {
	if o := b.pool.FindOrder(id); o != nil {
		return o.Snapshot(), true
	}
	if o, ok := b.stops[id]; ok {
		return o.Snapshot(), true
	}
	return Snapshot{}, false
}

func (b *Book) Stats() BookStats {
	stats := BookStats{
		TotalOrders: b.pool.ActiveOrderCount(),
		BidLevels:   len(b.bidPrices),
		AskLevels:   len(b.askPrices),
		BestBid:     b.bestBid,
		BestAsk:     b.bestAsk,
	}
	for _, p := range b.bidPrices {
		stats.TotalBidVolume += b.bidLevels[p].TotalVolume()
	}
	for _, p := range b.askPrices {
		stats.TotalAskVolume += b.askLevels[p].TotalVolume()
	}
	return stats
}

// Clear resets the book to its initial empty state.
func (b *Book) Clear() {
	b.pool.Clear()
	b.bidLevels = make(map[int64]*PriceLevel)
	b.askLevels = make(map[int64]*PriceLevel)
	b.bidPrices = nil
	b.askPrices = nil
	b.stops = make(map[OrderID]*Order)
	b.bestBid, b.bestAsk = 0, 0
	b.totalTrades, b.totalVolume = 0, 0
}

func (b *Book) notifyTrade(aggID, passID OrderID, price, qty int64) {
	b.totalTrades++
	b.totalVolume += qty
	if b.onTrade != nil {
		b.onTrade(aggID, passID, price, qty, b.clock())
	}
}

func (b *Book) notifyEvent(id OrderID, evt OrderEvent, filled, remaining int64) {
	if b.onOrderEvent != nil {
		b.onOrderEvent(id, evt, filled, remaining)
	}
}
