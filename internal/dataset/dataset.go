// Package dataset generates the synthetic eCommerce event CSV the
// backends query, so the harness is runnable without external data.
// Generation is deterministic for a given seed and row count.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Header is the dataset column order. Every backend depends on it.
var Header = []string{
	"event_time", "event_type", "product_id", "category_id",
	"category_code", "brand", "price", "user_id", "user_session",
}

// Event type distribution: views dominate, purchases are rare, the way
// real clickstream data skews.
var eventTypes = []string{
	"view", "view", "view", "view", "view", "view", "view",
	"cart", "cart",
	"purchase",
}

var categories = []string{
	"electronics.smartphone",
	"electronics.audio.headphone",
	"electronics.video.tv",
	"appliances.kitchen.refrigerator",
	"appliances.environment.vacuum",
	"computers.notebook",
	"computers.peripherals.mouse",
	"apparel.shoes",
	"furniture.living_room.sofa",
	"sport.bicycle",
}

var brands = []string{
	"samsung", "apple", "xiaomi", "huawei", "sony",
	"lg", "bosch", "asus", "lenovo", "acer",
}

// Generate writes rows synthetic events to path, creating parent
// directories as needed. The same (rows, seed) pair always produces an
// identical file.
func Generate(path string, rows int, seed int64) error {
	if rows <= 0 {
		return fmt.Errorf("row count must be positive, got %d", rows)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("failed to write dataset header: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	baseTime := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < rows; i++ {
		eventTime := baseTime.Add(time.Duration(i) * time.Second)
		row := []string{
			eventTime.Format("2006-01-02 15:04:05 MST"),
			eventTypes[rng.Intn(len(eventTypes))],
			strconv.Itoa(1000000 + rng.Intn(9000000)),
			strconv.Itoa(2000000000 + rng.Intn(100000000)),
			categories[rng.Intn(len(categories))],
			brands[rng.Intn(len(brands))],
			strconv.FormatFloat(1+rng.Float64()*2499, 'f', 2, 64),
			strconv.Itoa(500000000 + rng.Intn(100000000)),
			fmt.Sprintf("%08x-%04x", rng.Uint32(), rng.Intn(0x10000)),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write dataset row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset: %w", err)
	}
	return nil
}
