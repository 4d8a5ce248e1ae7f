package jsonrpc

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces request ids. Ids must be unique among outstanding
// calls on one client and must be strings or int64.
type IDGenerator interface {
	NextID() any
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() any

// NextID calls fn.
func (fn IDFunc) NextID() any { return fn() }

// UUIDs generates random UUID string ids. It is the default.
func UUIDs() IDGenerator {
	return IDFunc(func() any { return uuid.NewString() })
}

// Sequential generates increasing integer ids starting at 1.
func Sequential() IDGenerator {
	var n atomic.Int64
	return IDFunc(func() any { return n.Add(1) })
}

func idString(id any) string { return fmt.Sprint(id) }
