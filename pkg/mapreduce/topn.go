package mapreduce

import (
	"fmt"
	"io"
	"sort"

	"github.com/dtnitsch/citylink/pkg/category"
	"github.com/dtnitsch/citylink/pkg/linktable"
	"github.com/dtnitsch/citylink/pkg/universe"
)

// AllCategories ranks links by the sum over every category.
const AllCategories = -1

// Link is a ranked entry from a link table.
type Link struct {
	Key   universe.PairKey
	Count int64
}

func (l Link) String() string {
	return fmt.Sprintf("%s:%d", l.Key, l.Count)
}

// TopLinks returns the n pairs with the highest count in category cat, or in
// the sum of all categories when cat is AllCategories. Zero counts are left
// out and ties keep canonical pair order.
func TopLinks(table *linktable.Table, n, cat int) ([]Link, error) {
	if cat != AllCategories && (cat < 0 || cat >= table.N()) {
		return nil, fmt.Errorf("category index %d out of range [0,%d)", cat, table.N())
	}

	var ss []Link
	err := table.Each(func(key universe.PairKey, v category.Vector) error {
		var count int64
		if cat == AllCategories {
			count = v.Sum()
		} else {
			count = v[cat]
		}
		if count > 0 {
			ss = append(ss, Link{Key: key, Count: count})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].Count > ss[j].Count
	})

	if n >= 0 && len(ss) > n {
		ss = ss[:n]
	}
	return ss, nil
}

// PrintTopLinks writes links as a numbered list.
func PrintTopLinks(w io.Writer, links []Link) {
	for i, l := range links {
		fmt.Fprintf(w, "%d. %s: %d\n", i+1, l.Key, l.Count)
	}
}
