package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const monthlyCacheTTL = 5 * time.Minute

// Cache keeps rendered monthly payroll DTOs in redis for a short window.
// Clock events and imports invalidate entries through the Kafka consumer.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func monthlyKey(userID string, year int, month time.Month) string {
	return fmt.Sprintf("report:monthly:%s:%04d-%02d", userID, year, int(month))
}

func (c *Cache) GetMonthly(ctx context.Context, userID string, year int, month time.Month) (*MonthlyPayrollDTO, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, monthlyKey(userID, year, month)).Bytes()
	if err != nil {
		return nil, false
	}

	var dto MonthlyPayrollDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, false
	}
	return &dto, true
}

func (c *Cache) SetMonthly(ctx context.Context, dto MonthlyPayrollDTO, year int, month time.Month) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	raw, err := json.Marshal(dto)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, monthlyKey(dto.UserID, year, month), raw, monthlyCacheTTL).Err()
}

// InvalidateMonth drops the cached record. A missing key is not an error.
func (c *Cache) InvalidateMonth(ctx context.Context, userID string, year int, month time.Month) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	err := c.rdb.Del(ctx, monthlyKey(userID, year, month)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
