package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tixxety/tixxety/internal/adapter/storage"
)

const (
	redisAddr     = "localhost:6379"
	eventID       = "stress-test-event"
	capacity      = 20
	totalRequests = 50
)

// Hammers the Redis capacity gate with concurrent reservations and checks
// that exactly `capacity` of them win.
func main() {
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	ledger := storage.NewRedisAdapter(rdb)

	rdb.Del(ctx, "capacity:"+eventID)
	if err := ledger.SetCapacity(ctx, eventID, capacity); err != nil {
		log.Fatalf("failed to seed capacity: %v", err)
	}

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ok, err := ledger.TryReserve(ctx, eventID)
			if err != nil {
				log.Printf("try reserve error: %v", err)
				failCount.Add(1)
				return
			}
			if ok {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Capacity:         %d\n", capacity)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Sold Out:         %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == capacity && fail == totalRequests-capacity {
		fmt.Printf("PASS: Exactly %d reservations succeeded, %d rejected\n", capacity, totalRequests-capacity)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d fail, got %d/%d\n",
			capacity, totalRequests-capacity, success, fail)
	}

	remaining, _ := rdb.Get(ctx, "capacity:"+eventID).Int()
	fmt.Printf("Final Remaining Capacity: %d\n", remaining)

	if remaining == 0 {
		fmt.Println("PASS: Capacity depleted to 0")
	} else {
		fmt.Printf("FAIL: Expected remaining 0, got %d\n", remaining)
	}
}
