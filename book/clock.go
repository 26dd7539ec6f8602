package book

import "time"

// wallClock is the default timestamp source (milliseconds since epoch).
// Tests pin Book.now instead of depending on real time.
func wallClock() int64 { return time.Now().UnixMilli() }
