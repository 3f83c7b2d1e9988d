// Package simulator implements the wealth price source as a per-asset
// random walk. Every read advances the walk, so consecutive quotes for
// the same asset differ; tests inject a fixed seed for determinism.
package simulator

import (
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/summitwealth/ledger"
)

const walkVolatility = 0.01

var initialPrice = decimal.NewFromInt(100)

type PriceSource struct {
	mutex  sync.Mutex
	rand   *rand.Rand
	prices map[ledger.AssetClass]decimal.Decimal
}

func NewPriceSource(seed int64) *PriceSource {
	return &PriceSource{
		rand: rand.New(rand.NewSource(seed)),
		prices: map[ledger.AssetClass]decimal.Decimal{
			ledger.AssetStock: initialPrice,
			ledger.AssetBond:  initialPrice,
		},
	}
}

func (ps *PriceSource) CurrentPrice(
	asset ledger.AssetClass,
) decimal.Decimal {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	change := 1 + ps.rand.NormFloat64()*walkVolatility

	price := ps.prices[asset].
		Mul(decimal.NewFromFloat(change)).
		Round(2)

	ps.prices[asset] = price

	return price
}
