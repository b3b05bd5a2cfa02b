package report

import (
	"sort"
	"time"
)

// optionalKey is a grouping key for a nullable categorical field. The
// sentinel spelling is applied only when a row is produced.
type optionalKey struct {
	value   string
	present bool
}

// keyOf treats a stored value equal to sentinel as absent, so the field's
// rows never carry the same key twice.
func keyOf(p *string, sentinel string) optionalKey {
	if p == nil || *p == "" || *p == sentinel {
		return optionalKey{}
	}
	return optionalKey{value: *p, present: true}
}

func (k optionalKey) orSentinel(sentinel string) string {
	if !k.present {
		return sentinel
	}
	return k.value
}

// buckets accumulates values per key and remembers first-seen order so
// that equal totals come out in a deterministic order.
type buckets[K comparable, V any] struct {
	order []K
	items map[K]*V
}

func newBuckets[K comparable, V any]() *buckets[K, V] {
	return &buckets[K, V]{items: make(map[K]*V)}
}

func (b *buckets[K, V]) get(k K) *V {
	if v, ok := b.items[k]; ok {
		return v
	}
	v := new(V)
	b.items[k] = v
	b.order = append(b.order, k)
	return v
}

// rows materialises the buckets in first-seen order.
func rows[K comparable, V any, R any](b *buckets[K, V], build func(K, *V) R) []R {
	out := make([]R, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, build(k, b.items[k]))
	}
	return out
}

func sortDesc[R any](rs []R, volume func(R) float64) {
	sort.SliceStable(rs, func(i, j int) bool {
		return volume(rs[i]) > volume(rs[j])
	})
}

// mondayFirst maps Sunday=0..Saturday=6 onto Monday=0..Sunday=6.
func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
