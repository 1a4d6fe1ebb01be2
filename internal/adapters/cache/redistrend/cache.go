// Package redistrend guarda en Redis la tendencia de 7 días ya calculada.
package redistrend

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"pet-care-backend/internal/domain/habits"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "trend:"
	genPrefix = "trend-gen:"
)

// entry es lo que se serializa: el reporte, el día para el que se calculó y
// la generación del pet vigente cuando empezó el cálculo.
type entry struct {
	Day    string             `json:"day"`
	Gen    int64              `json:"gen"`
	Report habits.TrendReport `json:"report"`
}

// Cache implementa habits.TrendCache.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func New(client redis.Cmdable, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

// Connect crea el cliente y verifica la conexión con un PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func key(petID string) string    { return keyPrefix + petID }
func genKey(petID string) string { return genPrefix + petID }

// Get lee reporte y generación en un solo MGET.
func (c *Cache) Get(ctx context.Context, petID, day string) (habits.TrendReport, int64, bool, error) {
	vals, err := c.client.MGet(ctx, key(petID), genKey(petID)).Result()
	if err != nil {
		return habits.TrendReport{}, 0, false, err
	}

	gen, err := parseGen(vals[1])
	if err != nil {
		return habits.TrendReport{}, 0, false, err
	}

	raw, ok := vals[0].(string)
	if !ok {
		return habits.TrendReport{}, gen, false, nil
	}
	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return habits.TrendReport{}, gen, false, fmt.Errorf("decode cached trend: %w", err)
	}
	// calculado otro día (la ventana ya se movió) o antes del último check-in
	if e.Day != day || e.Gen != gen {
		return habits.TrendReport{}, gen, false, nil
	}
	return e.Report, gen, true, nil
}

func (c *Cache) Set(ctx context.Context, day string, gen int64, report habits.TrendReport) error {
	raw, err := json.Marshal(entry{Day: day, Gen: gen, Report: report})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(report.PetID), raw, c.ttl).Err()
}

// Invalidate avanza la generación y borra el reporte en una transacción.
func (c *Cache) Invalidate(ctx context.Context, petID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(petID))
		pipe.Del(ctx, key(petID))
		return nil
	})
	return err
}

func parseGen(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode trend generation: %w", err)
	}
	return gen, nil
}
