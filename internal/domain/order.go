package domain

import "time"

type OrderStatus string

const (
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
)

type OrderItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

type Order struct {
	ID                    int64       `json:"id"`
	UserID                int64       `json:"userId"`
	Items                 []OrderItem `json:"items"`
	TotalAmount           float64     `json:"totalAmount"`
	Status                OrderStatus `json:"status"`
	CreatedAt             time.Time   `json:"createdAt"`
	EstimatedDeliveryDate time.Time   `json:"estimatedDeliveryDate"`
}
