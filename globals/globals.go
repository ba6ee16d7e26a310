package globals

import (
	"context"
	"os"
)

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const RoleKey ContextKey = "role"

var Ctx = context.Background()

var JwtSecret = []byte(Getenv("JWT_SECRET", "change_me_in_env"))

// PromptPayID is the merchant PromptPay identifier (phone number or national id).
var PromptPayID = Getenv("PROMPTPAY_ID", "0899999999")

// Currency for card payment intents, ISO 4217 lowercase.
var Currency = Getenv("CURRENCY", "thb")

func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
