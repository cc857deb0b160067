package backends

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/olapbench/olapbench/internal/registry"
)

// arrowEngine reads the dataset into Arrow record batches and evaluates
// each operation over the typed column arrays.
type arrowEngine struct {
	datasetPath string
	out         io.Writer
}

// datasetSchema matches the generated eCommerce CSV column for column.
var datasetSchema = arrow.NewSchema([]arrow.Field{
	{Name: "event_time", Type: arrow.BinaryTypes.String},
	{Name: "event_type", Type: arrow.BinaryTypes.String},
	{Name: "product_id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "category_id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "category_code", Type: arrow.BinaryTypes.String},
	{Name: "brand", Type: arrow.BinaryTypes.String},
	{Name: "price", Type: arrow.PrimitiveTypes.Float64},
	{Name: "user_id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "user_session", Type: arrow.BinaryTypes.String},
}, nil)

func (e *arrowEngine) register(reg *registry.Registry) error {
	ops := map[registry.Operation]registry.OpFunc{
		registry.OpFilterCount:           e.filterCount,
		registry.OpFilterGroupSum:        e.filterGroupSum,
		registry.OpGroupConditionalCount: e.groupConditionalCount,
	}
	for op, fn := range ops {
		if err := reg.Register(registry.BackendArrow, op, fn); err != nil {
			return err
		}
	}
	return nil
}

// scan streams the dataset as Arrow record batches and calls visit for
// each batch. Records are released as soon as the visit returns.
func (e *arrowEngine) scan(visit func(rec arrow.Record) error) error {
	f, err := os.Open(e.datasetPath)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f, datasetSchema,
		csv.WithHeader(true),
		csv.WithChunk(8192),
		csv.WithAllocator(memory.DefaultAllocator),
	)
	defer r.Release()

	for r.Next() {
		rec := r.Record()
		if err := visit(rec); err != nil {
			return err
		}
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("failed to decode dataset as arrow: %w", err)
	}
	return nil
}

func (e *arrowEngine) filterCount() error {
	count := 0
	err := e.scan(func(rec arrow.Record) error {
		events := rec.Column(colEventType).(*array.String)
		for i := 0; i < events.Len(); i++ {
			if events.Value(i) == "purchase" {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "purchase_count: %d\n", count)
	return nil
}

func (e *arrowEngine) filterGroupSum() error {
	totals := make(map[string]float64)
	err := e.scan(func(rec arrow.Record) error {
		events := rec.Column(colEventType).(*array.String)
		categories := rec.Column(colCategoryCode).(*array.String)
		prices := rec.Column(colPrice).(*array.Float64)
		for i := 0; i < events.Len(); i++ {
			if events.Value(i) == "purchase" {
				totals[categories.Value(i)] += prices.Value(i)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, category := range sortedByValueDesc(totals) {
		fmt.Fprintf(e.out, "%s: total_sales=%.2f\n", category, totals[category])
	}
	return nil
}

func (e *arrowEngine) groupConditionalCount() error {
	counts := make(map[string]*eventCounts)
	err := e.scan(func(rec arrow.Record) error {
		events := rec.Column(colEventType).(*array.String)
		categories := rec.Column(colCategoryCode).(*array.String)
		for i := 0; i < events.Len(); i++ {
			category := categories.Value(i)
			c := counts[category]
			if c == nil {
				c = &eventCounts{}
				counts[category] = c
			}
			c.tally(events.Value(i))
		}
		return nil
	})
	if err != nil {
		return err
	}
	printEventCounts(e.out, counts)
	return nil
}

// eventCounts accumulates the conditional aggregation for one category.
type eventCounts struct {
	Views     int
	Carts     int
	Purchases int
}

func (c *eventCounts) tally(eventType string) {
	switch eventType {
	case "view":
		c.Views++
	case "cart":
		c.Carts++
	case "purchase":
		c.Purchases++
	}
}

// sortedByValueDesc returns map keys ordered by descending value, with
// key order as tie-breaker so output is deterministic.
func sortedByValueDesc(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func printEventCounts(w io.Writer, counts map[string]*eventCounts) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]].Purchases != counts[keys[j]].Purchases {
			return counts[keys[i]].Purchases > counts[keys[j]].Purchases
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		c := counts[k]
		fmt.Fprintf(w, "%s: views=%d carts=%d purchases=%d\n", k, c.Views, c.Carts, c.Purchases)
	}
}
