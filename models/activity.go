package models

import "time"

// Activity types mirror the admin audit trail.
const (
	ActivityUserRegister      = "USER_REGISTER"
	ActivityUserLogin         = "USER_LOGIN"
	ActivityUserUpdate        = "USER_UPDATE"
	ActivityUserDelete        = "USER_DELETE"
	ActivityUserVerify        = "USER_VERIFY"
	ActivityNewOrder          = "NEW_ORDER"
	ActivityOrderUpdate       = "ORDER_UPDATE"
	ActivityOrderStatusChange = "ORDER_STATUS_CHANGE"
	ActivityProductCreate     = "PRODUCT_CREATE"
	ActivityProductUpdate     = "PRODUCT_UPDATE"
	ActivityProductDelete     = "PRODUCT_DELETE"
	ActivityProductStock      = "PRODUCT_STOCK_UPDATE"
)

// Activity is an append-only audit record. It is observational only;
// writes are best-effort and never authoritative.
type Activity struct {
	Type      string         `json:"type" bson:"type"`
	Message   string         `json:"message" bson:"message"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
	Data      map[string]any `json:"data,omitempty" bson:"data,omitempty"`
}
