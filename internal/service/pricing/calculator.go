package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RoyceAzure/lab/medmarket/internal/infra/geo"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Tier 距離級距對應固定運費，依MaxKm遞增
type Tier struct {
	MaxKm float64
	Cost  decimal.Decimal
}

// Quote 一張訂單的完整費用拆解
type Quote struct {
	Subtotal      decimal.Decimal
	ShippingCost  decimal.Decimal
	Tax           decimal.Decimal
	TotalWithFees decimal.Decimal
}

type Calculator struct {
	tiers       []Tier
	defaultCost decimal.Decimal
	taxRate     decimal.Decimal
}

func NewCalculator(tiers []Tier, defaultCost, taxRate decimal.Decimal) *Calculator {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MaxKm < sorted[j].MaxKm })
	return &Calculator{tiers: sorted, defaultCost: defaultCost, taxRate: taxRate}
}

// ParseTiers 解析設定字串 "5:5.00,20:10.00,50:15.00"
func ParseTiers(raw string) ([]Tier, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var tiers []Tier
	for _, part := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid shipping tier %q", part)
		}
		maxKm, err := decimal.NewFromString(kv[0])
		if err != nil {
			return nil, fmt.Errorf("invalid shipping tier distance %q: %w", kv[0], err)
		}
		cost, err := decimal.NewFromString(kv[1])
		if err != nil {
			return nil, fmt.Errorf("invalid shipping tier cost %q: %w", kv[1], err)
		}
		tiers = append(tiers, Tier{MaxKm: maxKm.InexactFloat64(), Cost: cost})
	}
	return tiers, nil
}

// ShippingCost 依店家到客戶的大圓距離查級距
// 座標缺漏或距離計算失敗時退回預設運費
func (c *Calculator) ShippingCost(storeLoc, clientLoc *geo.Coord) decimal.Decimal {
	distanceKm, err := geo.Distance(storeLoc, clientLoc)
	if err != nil {
		log.Debug().Err(err).Msg("distance lookup failed, using default shipping cost")
		return c.defaultCost
	}
	return c.costForDistance(distanceKm)
}

func (c *Calculator) costForDistance(distanceKm float64) decimal.Decimal {
	for _, tier := range c.tiers {
		if distanceKm <= tier.MaxKm {
			return tier.Cost
		}
	}
	return c.defaultCost
}

// Tax round(subtotal × rate, 2)，half-up，只對運費前的subtotal課一次
func (c *Calculator) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(c.taxRate).Round(2)
}

// QuoteOrder 算出最終應收金額，收的是TotalWithFees不是subtotal
func (c *Calculator) QuoteOrder(subtotal decimal.Decimal, storeLoc, clientLoc *geo.Coord) Quote {
	shipping := c.ShippingCost(storeLoc, clientLoc)
	tax := c.Tax(subtotal)
	return Quote{
		Subtotal:      subtotal,
		ShippingCost:  shipping,
		Tax:           tax,
		TotalWithFees: subtotal.Add(shipping).Add(tax),
	}
}
