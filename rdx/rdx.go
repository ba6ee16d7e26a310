package rdx

import (
	"log"
	"os"
	"time"

	"brewhouse/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Init dials Redis. Redis is best-effort infrastructure here (activity
// fan-out, confirm locks); a failed ping is logged, not fatal.
func Init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
	if err := Conn.Ping(globals.Ctx).Err(); err != nil {
		log.Println("Redis ping failed:", err)
	}
}

func RdxSetNX(key, value string, ttl time.Duration) (bool, error) {
	return Conn.SetNX(globals.Ctx, key, value, ttl).Result()
}

func RdxDel(key string) {
	if err := Conn.Del(globals.Ctx, key).Err(); err != nil {
		log.Printf("Redis DEL %s failed: %v\n", key, err)
	}
}

func RdxPublish(channel string, payload []byte) error {
	return Conn.Publish(globals.Ctx, channel, payload).Err()
}
