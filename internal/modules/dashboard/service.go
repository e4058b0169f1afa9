package dashboard

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/mkj2903/finalshowmo/internal/modules/order"
	"golang.org/x/sync/errgroup"
)

const recentOrderCount = 5

// Stats is the admin dashboard snapshot.
type Stats struct {
	TotalProducts       int                  `json:"totalProducts"`
	TotalUsers          int                  `json:"totalUsers"`
	TotalOrders         int                  `json:"totalOrders"`
	PendingVerification int                  `json:"pendingVerification"`
	Revenue             int64                `json:"revenue"`
	RevenueDisplay      string               `json:"revenueDisplay"`
	LowStockProducts    int                  `json:"lowStockProducts"`
	OrdersByStatus      map[order.Status]int `json:"ordersByStatus"`
	RecentOrders        []*order.Order       `json:"recentOrders"`
}

type ProductCounter interface {
	CountProducts(ctx context.Context) (int, error)
}

type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int, error)
}

type UserCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

type OrderReader interface {
	Summary(ctx context.Context) (*order.Summary, error)
	ListOrders(ctx context.Context, f order.ListFilter) ([]*order.Order, error)
}

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	products ProductCounter
	stock    LowStockCounter
	users    UserCounter
	orders   OrderReader
}

func NewService(products ProductCounter, stock LowStockCounter, users UserCounter, orders OrderReader) Service {
	return &service{products: products, stock: stock, users: users, orders: orders}
}

// Stats runs the underlying queries concurrently and fails if any of them fails.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	var (
		st      Stats
		summary *order.Summary
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalProducts, err = s.products.CountProducts(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.LowStockProducts, err = s.stock.CountLowStock(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.TotalUsers, err = s.users.CountUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		summary, err = s.orders.Summary(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.RecentOrders, err = s.orders.ListOrders(ctx, order.ListFilter{Limit: recentOrderCount})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st.TotalOrders = summary.TotalOrders
	st.PendingVerification = summary.PendingVerification
	st.Revenue = summary.Revenue
	st.RevenueDisplay = "₹" + humanize.Comma(summary.Revenue)
	st.OrdersByStatus = summary.ByStatus
	return &st, nil
}
