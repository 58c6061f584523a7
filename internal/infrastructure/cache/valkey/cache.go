package valkey

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

// PredictionCache keeps model output in Valkey as JSON.
type PredictionCache struct {
	client valkey.Client
}

func New(ctx context.Context, addr, password string) (*PredictionCache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{addr},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}

	slog.Info("valkey_connected", "addr", addr)
	return &PredictionCache{client: client}, nil
}

func (c *PredictionCache) Close() {
	c.client.Close()
}

func (c *PredictionCache) Get(ctx context.Context, key string) ([]domain.LabelScore, bool, error) {
	raw, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("valkey get: %w", err)
	}

	candidates, err := decode(raw)
	if err != nil {
		return nil, false, err
	}
	return candidates, true, nil
}

func (c *PredictionCache) Set(ctx context.Context, key string, candidates []domain.LabelScore, ttl time.Duration) error {
	raw, err := encode(candidates)
	if err != nil {
		return err
	}

	commands := []valkey.Completed{c.client.B().Set().Key(key).Value(raw).Build()}
	if seconds := int64(ttl / time.Second); seconds > 0 {
		commands = append(commands, c.client.B().Expire().Key(key).Seconds(seconds).Build())
	}
	for _, resp := range c.client.DoMulti(ctx, commands...) {
		if err := resp.Error(); err != nil {
			return fmt.Errorf("valkey set: %w", err)
		}
	}
	return nil
}

func encode(candidates []domain.LabelScore) (string, error) {
	raw, err := json.Marshal(candidates)
	if err != nil {
		return "", fmt.Errorf("encode cached prediction: %w", err)
	}
	return string(raw), nil
}

func decode(raw string) ([]domain.LabelScore, error) {
	var candidates []domain.LabelScore
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		return nil, fmt.Errorf("decode cached prediction: %w", err)
	}
	return candidates, nil
}
