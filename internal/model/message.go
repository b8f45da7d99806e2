package model

import "time"

// SaleNoticeMessage queue payload telling a seller their goods were bought.
// Published fire-and-forget during order placement and consumed
// asynchronously into the notices table.
type SaleNoticeMessage struct {
	SellerID  uint64    `json:"seller_id"`
	BuyerID   uint64    `json:"buyer_id"`
	GoodsID   uint64    `json:"goods_id"`
	GoodsName string    `json:"goods_name"`
	OrderNo   string    `json:"order_no"`
	SoldAt    time.Time `json:"sold_at"`
}
