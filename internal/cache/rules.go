package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/eksporyuk/commission/internal/rule"
)

const (
	ruleKeyPrefix = "commission:rule:"
	missingMarker = "-"
	maxMissingTTL = time.Minute
)

type cachedRule struct {
	ProductRef string          `json:"product_ref"`
	Kind       string          `json:"kind"`
	Value      decimal.Decimal `json:"value"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// RuleCache stores commission rules as JSON with a fixed TTL. Products without
// a rule are remembered for at most a minute.
type RuleCache struct {
	client     *Client
	ttl        time.Duration
	missingTTL time.Duration
}

func NewRuleCache(client *Client, ttl time.Duration) *RuleCache {
	return &RuleCache{client: client, ttl: ttl, missingTTL: min(ttl, maxMissingTTL)}
}

func ruleKey(productRef string) string {
	return ruleKeyPrefix + productRef
}

func (c *RuleCache) GetRule(ctx context.Context, productRef string) (*rule.Rule, error) {
	raw, err := c.client.Redis.Get(ctx, ruleKey(productRef)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading cached rule: %w", err)
	}

	if string(raw) == missingMarker {
		return nil, fmt.Errorf("%w: %s (cached)", rule.ErrNotFound, productRef)
	}

	var cr cachedRule
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("decoding cached rule: %w", err)
	}

	return &rule.Rule{
		ProductRef: cr.ProductRef,
		Kind:       rule.Kind(cr.Kind),
		Value:      cr.Value,
		UpdatedAt:  cr.UpdatedAt,
	}, nil
}

func (c *RuleCache) SetRule(ctx context.Context, r *rule.Rule) error {
	raw, err := json.Marshal(cachedRule{
		ProductRef: r.ProductRef,
		Kind:       string(r.Kind),
		Value:      r.Value,
		UpdatedAt:  r.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("encoding rule: %w", err)
	}

	if err := c.client.Redis.Set(ctx, ruleKey(r.ProductRef), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching rule: %w", err)
	}

	return nil
}

func (c *RuleCache) SetMissing(ctx context.Context, productRef string) error {
	if err := c.client.Redis.Set(ctx, ruleKey(productRef), missingMarker, c.missingTTL).Err(); err != nil {
		return fmt.Errorf("caching missing rule: %w", err)
	}

	return nil
}

func (c *RuleCache) DeleteRule(ctx context.Context, productRef string) error {
	if err := c.client.Redis.Del(ctx, ruleKey(productRef)).Err(); err != nil {
		return fmt.Errorf("evicting rule: %w", err)
	}

	return nil
}
