package view

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/alienx5499/Shopifyr/internal/domain"
)

type OrdersAPI interface {
	Orders(ctx context.Context) ([]domain.Order, error)
	Order(ctx context.Context, id int64) (*domain.Order, error)
}

// Orders is the order history view.
type Orders struct {
	api    OrdersAPI
	closed atomic.Bool
}

func NewOrders(backend OrdersAPI) *Orders {
	return &Orders{api: backend}
}

func (v *Orders) Load(ctx context.Context) ([]domain.Order, error) {
	return v.api.Orders(ctx)
}

func (v *Orders) Detail(ctx context.Context, id int64) (*domain.Order, error) {
	return v.api.Order(ctx, id)
}

// Watch polls the order list and pushes each successful read to fn,
// so the view can track status transitions. It returns when ctx ends
// or the view closes. Failed polls are skipped; the next tick retries.
func (v *Orders) Watch(ctx context.Context, every time.Duration, fn func([]domain.Order)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if v.closed.Load() {
				return
			}
			orders, err := v.api.Orders(ctx)
			if err != nil {
				continue
			}
			if !v.closed.Load() {
				fn(orders)
			}
		}
	}
}

func (v *Orders) Close() {
	v.closed.Store(true)
}
