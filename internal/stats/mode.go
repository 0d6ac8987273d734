package stats

import (
	"cmp"
	"sort"
)

// Count is a value and how often it occurs.
type Count[K comparable] struct {
	Value K
	Count int
}

// ValueCounts counts each distinct value, most frequent first. Equal counts
// are ordered by value.
func ValueCounts[K cmp.Ordered](values []K) []Count[K] {
	return countBy(values, cmp.Less[K])
}

// Mode returns every value that shares the highest frequency, in ascending order.
func Mode[K cmp.Ordered](values []K) []K {
	return ModeFunc(values, cmp.Less[K])
}

// ModeFunc is Mode for values ordered by less.
func ModeFunc[K comparable](values []K, less func(a, b K) bool) []K {
	counts := countBy(values, less)
	if len(counts) == 0 {
		return nil
	}
	top := counts[0].Count
	var out []K
	for _, c := range counts {
		if c.Count != top {
			break
		}
		out = append(out, c.Value)
	}
	return out
}

func countBy[K comparable](values []K, less func(a, b K) bool) []Count[K] {
	if len(values) == 0 {
		return nil
	}
	index := map[K]int{}
	var counts []Count[K]
	for _, v := range values {
		i, ok := index[v]
		if !ok {
			i = len(counts)
			index[v] = i
			counts = append(counts, Count[K]{Value: v})
		}
		counts[i].Count++
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count == counts[j].Count {
			return less(counts[i].Value, counts[j].Value)
		}
		return counts[i].Count > counts[j].Count
	})
	return counts
}
