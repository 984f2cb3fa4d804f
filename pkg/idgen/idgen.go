// Package idgen produces human readable identifiers of the form
// PREFIX-yyyyMMddHHmmss-NNN.
package idgen

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	Address   = "ADDR"
	Order     = "ORD"
	OrderItem = "OI"
	Payment   = "PAY"
	User      = "USER"
	Product   = "PROD"
	Variant   = "VAR"
	Cart      = "CART"
	CartItem  = "CITEM"
	Category  = "CAT"
	Brand     = "BR"
)

const (
	suffixMin   = 100
	suffixRange = 900
	stampLayout = "20060102150405"
)

type Generator struct {
	mu     sync.Mutex
	now    func() time.Time
	intn   func(n int) int
	second string
	issued map[string]map[int]struct{}
	seq    map[string]int
}

func New() *Generator {
	return NewWith(time.Now, rand.IntN)
}

// NewWith builds a generator over an explicit clock and random source.
func NewWith(now func() time.Time, intn func(n int) int) *Generator {
	return &Generator{
		now:    now,
		intn:   intn,
		issued: make(map[string]map[int]struct{}),
		seq:    make(map[string]int),
	}
}

func (g *Generator) Generate(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	stamp := g.now().Format(stampLayout)
	if stamp != g.second {
		g.second = stamp
		clear(g.issued)
		clear(g.seq)
	}

	used := g.issued[prefix]
	if used == nil {
		used = make(map[int]struct{}, 4)
		g.issued[prefix] = used
	}

	if len(used) < suffixRange {
		n := suffixMin + g.intn(suffixRange)
		for {
			if _, taken := used[n]; !taken {
				break
			}
			n = suffixMin + (n-suffixMin+1)%suffixRange
		}
		used[n] = struct{}{}
		return fmt.Sprintf("%s-%s-%d", prefix, stamp, n)
	}

	g.seq[prefix]++
	n := suffixMin + g.intn(suffixRange)
	return fmt.Sprintf("%s-%s-%d-%d", prefix, stamp, n, g.seq[prefix])
}

var std = New()

// Generate uses the process-wide generator.
func Generate(prefix string) string {
	return std.Generate(prefix)
}
