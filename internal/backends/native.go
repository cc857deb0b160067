package backends

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olapbench/olapbench/internal/registry"
)

// nativeEngine is the dependency-free baseline: a streaming CSV scan
// with hand-rolled filtering and grouping. It exists to show what the
// library-backed engines buy, the same role the JSONL baseline plays in
// storage benchmarks.
type nativeEngine struct {
	datasetPath string
	out         io.Writer
}

func (e *nativeEngine) register(reg *registry.Registry) error {
	ops := map[registry.Operation]registry.OpFunc{
		registry.OpFilterCount:           e.filterCount,
		registry.OpFilterGroupSum:        e.filterGroupSum,
		registry.OpGroupConditionalCount: e.groupConditionalCount,
	}
	for op, fn := range ops {
		if err := reg.Register(registry.BackendNative, op, fn); err != nil {
			return err
		}
	}
	return nil
}

// scan streams the dataset row by row, skipping the header.
func (e *nativeEngine) scan(visit func(row []string) error) error {
	f, err := os.Open(e.datasetPath)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = columnCount
	r.ReuseRecord = true
	if _, err := r.Read(); err != nil { // header
		return fmt.Errorf("failed to read dataset header: %w", err)
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read dataset row: %w", err)
		}
		if err := visit(row); err != nil {
			return err
		}
	}
}

func (e *nativeEngine) filterCount() error {
	count := 0
	err := e.scan(func(row []string) error {
		if row[colEventType] == "purchase" {
			count++
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "purchase_count: %d\n", count)
	return nil
}

func (e *nativeEngine) filterGroupSum() error {
	totals := make(map[string]float64)
	err := e.scan(func(row []string) error {
		if row[colEventType] != "purchase" {
			return nil
		}
		price, err := strconv.ParseFloat(row[colPrice], 64)
		if err != nil {
			return fmt.Errorf("bad price %q: %w", row[colPrice], err)
		}
		totals[row[colCategoryCode]] += price
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

func (e *nativeEngine) groupConditionalCount() error {
	counts := make(map[string]*eventCounts)
	err := e.scan(func(row []string) error {
		category := row[colCategoryCode]
		c := counts[category]
		if c == nil {
			c = &eventCounts{}
			counts[category] = c
		}
		c.tally(row[colEventType])
		return nil
	})
	if err != nil {
		return err
	}
	printEventCounts(e.out, counts)
	return nil
}
