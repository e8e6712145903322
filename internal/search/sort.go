package search

import (
	"sort"

	"github.com/helixir/paper-search-service/internal/domain"
)

// SortPapers orders papers newest first, breaking ties by citation count.
// Papers without a year sort as year 0. The sort is stable, so papers that
// tie on both keys keep their source order.
func SortPapers(papers []domain.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		yi, yj := papers[i].SortYear(), papers[j].SortYear()
		if yi != yj {
			return yi > yj
		}
		return papers[i].Citations > papers[j].Citations
	})
}
