package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePrice reads a starting price such as "$7.25" or "$1,200/mo".
// Labels like "Free", "Custom" and "Contact Sales" are not prices and
// report false.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "/mo")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// PriceRange summarizes the numeric starting prices of a competitor set.
type PriceRange struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Priced int     `json:"priced"`
}

type priceStats struct {
	PriceRange
	sum float64
}

func collectPrices(competitors []Competitor) priceStats {
	var st priceStats
	for _, c := range competitors {
		v, ok := ParsePrice(c.Pricing.StartingPrice)
		if !ok {
			continue
		}
		if st.Priced == 0 || v < st.Min {
			st.Min = v
		}
		if st.Priced == 0 || v > st.Max {
			st.Max = v
		}
		st.sum += v
		st.Priced++
	}
	return st
}

// floorMean is the mean of the numeric prices floored to whole dollars.
func (st priceStats) floorMean() int {
	if st.Priced == 0 {
		return 0
	}
	return int(math.Floor(st.sum / float64(st.Priced)))
}
