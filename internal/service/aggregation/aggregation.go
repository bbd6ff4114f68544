// Package aggregation groups sales and purchases into buckets and derives ratios
// and rankings from them. Buckets are built per call and never cached.
package aggregation

import (
	"slices"

	"github.com/mamadbah2/meatledger/internal/domain/models"
)

// KeyFunc extracts a grouping key from a record.
type KeyFunc[T models.Record] func(T) string

// ByDate keys a record by its calendar date.
func ByDate[T models.Record](r T) string { return r.RecordDate() }

// ByProduct keys a record by its product name.
func ByProduct[T models.Record](r T) string { return r.Product() }

// ByParty keys a record by its customer or supplier name.
func ByParty[T models.Record](r T) string { return r.Party() }

// Bucket holds the totals of one group.
type Bucket[T models.Record] struct {
	Key          string  `json:"key"`
	Count        int     `json:"count"`
	TotalWeight  float64 `json:"totalWeight"`
	TotalCost    float64 `json:"totalCost"`
	TotalSelling float64 `json:"totalSelling"`
	TotalProfit  float64 `json:"totalProfit"`
	// FirstDate and LastDate are the min and max record dates seen; zero-padded
	// YYYY-MM-DD strings order chronologically.
	FirstDate string `json:"firstDate,omitempty"`
	LastDate  string `json:"lastDate,omitempty"`
	Members   []T    `json:"members"`
	// Related lists the distinct co-occurring names (customers of a product,
	// products of a customer) in first-seen order.
	Related []string `json:"related,omitempty"`

	relatedSet map[string]struct{}
}

// RelatedCount is the number of distinct co-occurring names.
func (b Bucket[T]) RelatedCount() int {
	return len(b.Related)
}

func newBucket[T models.Record](key string) Bucket[T] {
	return Bucket[T]{Key: key, Members: []T{}}
}

func (b *Bucket[T]) add(r T, related KeyFunc[T]) {
	a := r.Amounts()
	b.Count++
	b.TotalWeight += a.Weight
	b.TotalCost += a.Cost
	b.TotalSelling += a.Selling
	b.TotalProfit += a.Profit
	b.Members = append(b.Members, r)

	d := r.RecordDate()
	if b.FirstDate == "" || d < b.FirstDate {
		b.FirstDate = d
	}
	if d > b.LastDate {
		b.LastDate = d
	}

	if related == nil {
		return
	}
	name := related(r)
	if b.relatedSet == nil {
		b.relatedSet = make(map[string]struct{})
	}
	if _, seen := b.relatedSet[name]; !seen {
		b.relatedSet[name] = struct{}{}
		b.Related = append(b.Related, name)
	}
}

// GroupBy is the single rollup routine behind every view.
//
// With seed == nil, a bucket is created for each key present in records, in
// first-seen order. With a seed, exactly the seeded keys are emitted, in seed order,
// starting from zero; records whose key is not seeded are dropped. related may be
// nil when co-occurrence is not needed.
func GroupBy[T models.Record](records []T, key KeyFunc[T], related KeyFunc[T], seed []string) []Bucket[T] {
	buckets := make([]Bucket[T], 0, len(seed))
	index := make(map[string]int, len(seed))
	for _, k := range seed {
		if _, dup := index[k]; dup {
			continue
		}
		index[k] = len(buckets)
		buckets = append(buckets, newBucket[T](k))
	}

	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			if seed != nil {
				continue
			}
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, newBucket[T](k))
		}
		buckets[i].add(r, related)
	}

	return buckets
}

// GroupByCalendarDate emits one bucket per day of [start, end], most recent day
// first. Days without records are present with zero totals and records dated
// outside the range are ignored. An inverted range yields no buckets.
func GroupByCalendarDate[T models.Record](records []T, start, end string) ([]Bucket[T], error) {
	days, err := models.DateSpan(start, end)
	if err != nil {
		return nil, err
	}
	buckets := GroupBy(records, ByDate[T], nil, days)
	slices.Reverse(buckets)
	return buckets, nil
}

// GroupByField rolls records up by key, tracking the distinct related names.
func GroupByField[T models.Record](records []T, key, related KeyFunc[T]) []Bucket[T] {
	return GroupBy(records, key, related, nil)
}

// Totals sums a set of buckets or records.
type Totals struct {
	Count         int     `json:"count"`
	TotalWeight   float64 `json:"totalWeight"`
	TotalCost     float64 `json:"totalCost"`
	TotalSelling  float64 `json:"totalSelling"`
	TotalProfit   float64 `json:"totalProfit"`
	ActiveBuckets int     `json:"activeBuckets"`
}

// SumBuckets adds bucket totals; ActiveBuckets counts buckets holding records.
func SumBuckets[T models.Record](buckets []Bucket[T]) Totals {
	var t Totals
	for _, b := range buckets {
		t.Count += b.Count
		t.TotalWeight += b.TotalWeight
		t.TotalCost += b.TotalCost
		t.TotalSelling += b.TotalSelling
		t.TotalProfit += b.TotalProfit
		if b.Count > 0 {
			t.ActiveBuckets++
		}
	}
	return t
}

// SumRecords adds the amounts of records directly.
func SumRecords[T models.Record](records []T) Totals {
	var t Totals
	for _, r := range records {
		a := r.Amounts()
		t.Count++
		t.TotalWeight += a.Weight
		t.TotalCost += a.Cost
		t.TotalSelling += a.Selling
		t.TotalProfit += a.Profit
	}
	if t.Count > 0 {
		t.ActiveBuckets = 1
	}
	return t
}
