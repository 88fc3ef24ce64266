// Package nav holds the client-side route table and the Navigator
// abstraction that view controllers and the session layer use to move
// between views without knowing how navigation is rendered.
package nav

import (
	"fmt"
	"sync"
)

const (
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteCatalog  = "/products"
	RouteCart     = "/cart"
	RouteCheckout = "/checkout"
	RouteOrders   = "/orders"
	RouteProfile  = "/profile"
)

func RouteProduct(id int64) string {
	return fmt.Sprintf("/products/%d", id)
}

func RouteOrder(id int64) string {
	return fmt.Sprintf("/orders/%d", id)
}

type Navigator interface {
	// To moves the client to the given route.
	To(route string)
	// Current reports the route the client is presently on.
	Current() string
}

// Tracker is the default Navigator: it records the current route so
// collaborators can guard against redundant redirects.
type Tracker struct {
	mu      sync.RWMutex
	current string
}

func NewTracker(start string) *Tracker {
	return &Tracker{current: start}
}

func (t *Tracker) To(route string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = route
}

func (t *Tracker) Current() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}
