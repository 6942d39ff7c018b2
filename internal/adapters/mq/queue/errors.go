package queue

import "errors"

// ErrBackpressure is returned by callers when Enqueue rejects an item.
var ErrBackpressure = errors.New("queue full")
