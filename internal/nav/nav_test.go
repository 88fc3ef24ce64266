package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerStartsAtInitialRoute(t *testing.T) {
	tracker := NewTracker(RouteCatalog)
	assert.Equal(t, RouteCatalog, tracker.Current())
}

func TestTrackerFollowsNavigation(t *testing.T) {
	tracker := NewTracker(RouteCatalog)
	tracker.To(RouteCart)
	assert.Equal(t, RouteCart, tracker.Current())
	tracker.To(RouteLogin)
	assert.Equal(t, RouteLogin, tracker.Current())
}

func TestParameterizedRoutes(t *testing.T) {
	assert.Equal(t, "/products/101", RouteProduct(101))
	assert.Equal(t, "/orders/7", RouteOrder(7))
}
