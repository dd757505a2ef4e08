package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/ports"
	"github.com/memendex/mx/pkg/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Long: `Walk every page of the catalog and summarize it.

Includes:
  - Item counts per kind
  - Most common file extensions
  - Untagged items
  - Top tags distribution`,
	RunE: runStats,
}

// catalogStats aggregates counts over a set of items
type catalogStats struct {
	Total      int
	Kinds      map[domain.Kind]int
	Extensions map[string]int
	Tags       map[string]int
	Untagged   int
	NoDesc     int
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	fmt.Println(ui.FormatInfo("Analyzing catalog..."))

	items, err := fetchAllItems(ctx, catalogClient, 100)
	if err != nil {
		return reportError(ctx, "list the catalog", err)
	}
	stats := collectStats(items)

	fmt.Println()
	fmt.Println(ui.FormatTitle("Catalog Analytics"))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Total Items:"), stats.Total)
	for _, kind := range []domain.Kind{domain.KindFile, domain.KindLink, domain.KindNote} {
		fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render(ui.KindIcon(kind)+" "+string(kind)+"s:"), stats.Kinds[kind])
	}
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Untagged:"), stats.Untagged)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("No Description:"), stats.NoDesc)
	w.Flush()

	fmt.Println()
	renderTopCounts("Top Extensions", stats.Extensions)
	fmt.Println()
	renderTopCounts("Top Tags", stats.Tags)

	return nil
}

// fetchAllItems reads page 1 for the total, then the remaining pages concurrently
func fetchAllItems(ctx context.Context, catalog ports.Catalog, pageSize int) ([]domain.Item, error) {
	first, err := catalog.List(ctx, 1, pageSize)
	if err != nil {
		return nil, err
	}

	pages := first.TotalPages()
	if pages <= 1 {
		return first.Data, nil
	}

	results := make([][]domain.Item, pages)
	results[0] = first.Data

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for p := 2; p <= pages; p++ {
		p := p
		g.Go(func() error {
			env, err := catalog.List(gctx, p, pageSize)
			if err != nil {
				return fmt.Errorf("page %d: %w", p, err)
			}
			results[p-1] = env.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []domain.Item
	for _, page := range results {
		items = append(items, page...)
	}
	return items, nil
}

func collectStats(items []domain.Item) catalogStats {
	stats := catalogStats{
		Total:      len(items),
		Kinds:      make(map[domain.Kind]int),
		Extensions: make(map[string]int),
		Tags:       make(map[string]int),
	}

	for _, item := range items {
		stats.Kinds[item.Kind]++
		if item.Kind == domain.KindFile && item.Extension != "" {
			stats.Extensions[strings.ToLower(item.Extension)]++
		}
		if len(item.Tags) == 0 {
			stats.Untagged++
		}
		for _, tag := range item.Tags {
			stats.Tags[tag]++
		}
		if strings.TrimSpace(item.Description) == "" {
			stats.NoDesc++
		}
	}
	return stats
}

type countPair struct {
	Name  string
	Count int
}

// topCounts sorts counts descending, ties by name, and keeps at most limit entries
func topCounts(counts map[string]int, limit int) []countPair {
	sorted := make([]countPair, 0, len(counts))
	for k, v := range counts {
		sorted = append(sorted, countPair{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Name < sorted[j].Name
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// renderTopCounts displays a horizontal bar chart
func renderTopCounts(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	fmt.Println(ui.StyleHeader.Render(title))

	top := topCounts(counts, 5)
	maxCount := top[0].Count
	barWidth := 20

	for _, t := range top {
		length := int(math.Ceil(float64(t.Count) / float64(maxCount) * float64(barWidth)))
		bar := strings.Repeat("█", length)

		fmt.Printf("%s %-15s %s\n",
			ui.StyleAccent.Render(bar),
			t.Name,
			ui.StyleMuted.Render(fmt.Sprintf("%d", t.Count)),
		)
	}
}
