package ledger

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const (
	// TransferReferencePrefix and TradeReferencePrefix distinguish the two
	// ledger entry families in the reference namespace.
	TransferReferencePrefix = "TXN"
	TradeReferencePrefix    = "STK"

	referenceSuffixLength  = 6
	referenceSuffixCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// referenceAttemptsLimit bounds the regenerate-and-retry loop run by
	// the engines when an append collides on an existing reference.
	referenceAttemptsLimit = 5
)

// ReferenceGenerator produces human-readable ledger references of the
// shape PREFIX-YYYYMMDD-XXXXXX. The random suffix gives probabilistic
// uniqueness only; collisions are resolved by the engines retrying the
// append against the store's uniqueness constraint.
type ReferenceGenerator struct {
	mutex sync.Mutex
	rand  *rand.Rand
}

func NewReferenceGenerator() *ReferenceGenerator {
	return &ReferenceGenerator{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (rg *ReferenceGenerator) Generate(prefix string) string {
	rg.mutex.Lock()
	defer rg.mutex.Unlock()

	suffix := make([]byte, referenceSuffixLength)
	for i := range suffix {
		index := rg.rand.Intn(len(referenceSuffixCharset))
		suffix[i] = referenceSuffixCharset[index]
	}

	return fmt.Sprintf(
		"%s-%s-%s",
		prefix,
		time.Now().Format("20060102"),
		suffix,
	)
}
