package aggregation

import (
	"cmp"
	"slices"

	"github.com/mamadbah2/meatledger/internal/domain/models"
)

// Margin is profit as a percentage of cost, 0 when cost is not positive.
func Margin(profit, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return profit / cost * 100
}

// MarginPercent is the bucket margin; zero-cost buckets report 0.
func MarginPercent[T models.Record](b Bucket[T]) float64 {
	return Margin(b.TotalProfit, b.TotalCost)
}

// AverageProfit is profit per record, 0 for an empty bucket.
func AverageProfit[T models.Record](b Bucket[T]) float64 {
	if b.Count == 0 {
		return 0
	}
	return b.TotalProfit / float64(b.Count)
}

// AverageUnitCost is total cost per unit of weight for purchase rollups.
// ok is false when the bucket carries no weight.
func AverageUnitCost[T models.Record](b Bucket[T]) (value float64, ok bool) {
	if b.TotalWeight <= 0 {
		return 0, false
	}
	return b.TotalCost / b.TotalWeight, true
}

// Rank selects the numeric field buckets are ordered by.
type Rank[T models.Record] func(Bucket[T]) float64

func ByCount[T models.Record](b Bucket[T]) float64   { return float64(b.Count) }
func ByRevenue[T models.Record](b Bucket[T]) float64 { return b.TotalSelling }
func ByProfit[T models.Record](b Bucket[T]) float64  { return b.TotalProfit }
func ByCost[T models.Record](b Bucket[T]) float64    { return b.TotalCost }
func ByWeight[T models.Record](b Bucket[T]) float64  { return b.TotalWeight }
func ByMargin[T models.Record](b Bucket[T]) float64  { return MarginPercent(b) }

// ByRelatedCount ranks by the number of distinct related names.
func ByRelatedCount[T models.Record](b Bucket[T]) float64 { return float64(b.RelatedCount()) }

// SortBuckets returns a copy of buckets ordered by rank. The sort is stable, so
// equal ranks keep their first-seen order in either direction.
func SortBuckets[T models.Record](buckets []Bucket[T], by Rank[T], descending bool) []Bucket[T] {
	out := slices.Clone(buckets)
	slices.SortStableFunc(out, func(a, b Bucket[T]) int {
		if descending {
			return cmp.Compare(by(b), by(a))
		}
		return cmp.Compare(by(a), by(b))
	})
	return out
}

// TopN returns the n highest-ranked buckets, ties kept in first-seen order.
func TopN[T models.Record](buckets []Bucket[T], n int, by Rank[T]) []Bucket[T] {
	if n <= 0 {
		return []Bucket[T]{}
	}
	sorted := SortBuckets(buckets, by, true)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
