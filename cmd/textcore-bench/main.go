// textcore-bench is a benchmark and stress test for the textcore engine.
// It generates a lorem ipsum document and measures position lookups, edits
// and measurement cache queries.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"strings"
	"time"

	lorem "github.com/drhodes/golorem"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine"
)

const (
	defaultLines = 100000
	defaultOps   = 10000
)

type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
	Extra    string
}

func (r BenchResult) String() string {
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		if r.Extra != "" {
			return fmt.Sprintf("%-40s %12v  (%d ops, %.0f ops/sec) %s", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.0f ops/sec)", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Microsecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", r.Name, r.Duration.Round(time.Microsecond))
}

func main() {
	lines := flag.Int("lines", defaultLines, "Number of generated lines")
	ops := flag.Int("ops", defaultOps, "Operations per benchmark")
	seed := flag.Int64("seed", 1, "Random seed for edit positions")
	flag.Parse()

	fmt.Println("textcore Benchmark and Stress Test")
	fmt.Println("==================================")
	fmt.Printf("Lines: %d, operations: %d\n", *lines, *ops)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	var results []BenchResult

	fmt.Println("Generating document...")
	text, result := generateDocument(*lines)
	results = append(results, result)
	fmt.Println(result)
	fmt.Println()

	cfg := config.Default()
	cfg.Measure.MaxOffset = true

	var e *engine.Engine
	result = timed("Open engine", 0, func() {
		e = engine.New(engine.WithContent(text), engine.WithConfig(cfg))
	})
	results = append(results, result)
	defer e.Close()
	fmt.Printf("Engine ready: %d characters, %d lines\n\n", e.Len(), e.LineCount())

	rng := rand.New(rand.NewSource(*seed))

	runBench := func(name string, fn func() BenchResult) {
		fmt.Printf("  %-40s ", name+"...")
		result := fn()
		fmt.Printf("%v\n", result.Duration.Round(time.Microsecond))
		results = append(results, result)
	}

	fmt.Println("Position lookups:")
	runBench("Random index lookups (cached)", func() BenchResult {
		return benchRandomLookups(e, rng, *ops, "Random index lookups (cached)")
	})
	runBench("Local index lookups (cached)", func() BenchResult {
		return benchLocalLookups(e, rng, *ops, "Local index lookups (cached)")
	})
	runBench("Line/column lookups (cached)", func() BenchResult {
		return benchLineLookups(e, rng, *ops, "Line/column lookups (cached)")
	})

	off := cfg
	off.Editor.IndexerCache = false
	if err := e.ApplyConfig(off); err != nil {
		fmt.Printf("Failed to disable indexer cache: %v\n", err)
		os.Exit(1)
	}
	runBench("Random index lookups (uncached)", func() BenchResult {
		return benchRandomLookups(e, rng, *ops/10, "Random index lookups (uncached)")
	})
	if err := e.ApplyConfig(cfg); err != nil {
		fmt.Printf("Failed to enable indexer cache: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nEdit operations:")
	runBench("Small inserts", func() BenchResult { return benchSmallInserts(e, rng, *ops) })
	runBench("Small deletes", func() BenchResult { return benchSmallDeletes(e, rng, *ops) })
	runBench("Multi-line inserts", func() BenchResult { return benchMultiLineInserts(e, rng, *ops/10) })
	runBench("Cursor typing", func() BenchResult { return benchTyping(e, rng, *ops) })

	fmt.Println("\nMeasurement:")
	runBench("Offset queries", func() BenchResult { return benchOffsets(e, rng, *ops) })
	runBench("Max offset", func() BenchResult { return benchMaxOffset(e, *ops/100) })
	runBench("Full rebuild", func() BenchResult { return benchRebuild(e) })

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	for _, r := range results {
		fmt.Println(r)
	}

	s := e.Stats()
	fmt.Println()
	fmt.Printf("Document: %d lines, %d characters, revision %d\n", s.Lines, s.Length, s.Revision)
	fmt.Printf("Indexer: %d hits, %d misses, %d cached\n", s.Indexer.Hits, s.Indexer.Misses, s.Indexer.Size)
	fmt.Printf("Widest line: %.0f cells\n", s.MaxOffset)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Printf("Heap in use: %d MB\n", m.HeapInuse/(1024*1024))
	fmt.Printf("Total allocations: %d MB\n", m.TotalAlloc/(1024*1024))
}

func timed(name string, ops int, fn func()) BenchResult {
	start := time.Now()
	fn()
	return BenchResult{Name: name, Duration: time.Since(start), Ops: ops}
}

func generateDocument(lines int) (string, BenchResult) {
	start := time.Now()
	var sb strings.Builder
	for i := 0; i < lines; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if i%10 == 0 {
			sb.WriteByte('\t')
		}
		sb.WriteString(lorem.Sentence(5, 30))
	}
	return sb.String(), BenchResult{
		Name:     "Generate document",
		Duration: time.Since(start),
		Extra:    fmt.Sprintf("%d bytes", sb.Len()),
	}
}

func benchRandomLookups(e *engine.Engine, rng *rand.Rand, ops int, name string) BenchResult {
	n := e.Len()
	return timed(name, ops, func() {
		for i := 0; i < ops; i++ {
			_, _ = e.Position(rng.Intn(n + 1))
		}
	})
}

// benchLocalLookups resolves indexes near the previous one, the access
// pattern of a cursor moving through a document.
func benchLocalLookups(e *engine.Engine, rng *rand.Rand, ops int, name string) BenchResult {
	n := e.Len()
	index := rng.Intn(n + 1)
	return timed(name, ops, func() {
		for i := 0; i < ops; i++ {
			index += rng.Intn(201) - 100
			index = min(max(index, 0), n)
			_, _ = e.Position(index)
		}
	})
}

func benchLineLookups(e *engine.Engine, rng *rand.Rand, ops int, name string) BenchResult {
	lines := e.LineCount()
	return timed(name, ops, func() {
		for i := 0; i < ops; i++ {
			_, _ = e.Index(rng.Intn(lines)+1, 0)
		}
	})
}

func benchSmallInserts(e *engine.Engine, rng *rand.Rand, ops int) BenchResult {
	return timed("Small inserts", ops, func() {
		for i := 0; i < ops; i++ {
			_, _ = e.Insert(rng.Intn(e.Len()+1), "lorem")
		}
	})
}

func benchSmallDeletes(e *engine.Engine, rng *rand.Rand, ops int) BenchResult {
	return timed("Small deletes", ops, func() {
		for i := 0; i < ops && e.Len() > 5; i++ {
			start := rng.Intn(e.Len() - 5)
			_ = e.Delete(start, start+5)
		}
	})
}

func benchMultiLineInserts(e *engine.Engine, rng *rand.Rand, ops int) BenchResult {
	block := lorem.Sentence(3, 8) + "\n" + lorem.Sentence(3, 8) + "\n"
	return timed("Multi-line inserts", ops, func() {
		for i := 0; i < ops; i++ {
			_, _ = e.Insert(rng.Intn(e.Len()+1), block)
		}
	})
}

func benchTyping(e *engine.Engine, rng *rand.Rand, ops int) BenchResult {
	if err := e.Cursor().Set(rng.Intn(e.Len() + 1)); err != nil {
		return BenchResult{Name: "Cursor typing", Extra: fmt.Sprintf("ERROR: %v", err)}
	}
	return timed("Cursor typing", ops, func() {
		for i := 0; i < ops; i++ {
			if i%8 == 7 {
				_ = e.Backspace()
				continue
			}
			_, _ = e.InsertAtCursor("x")
		}
	})
}

func benchOffsets(e *engine.Engine, rng *rand.Rand, ops int) BenchResult {
	lines := e.LineCount()
	m := e.Model()
	return timed("Offset queries", ops, func() {
		for i := 0; i < ops; i++ {
			line := rng.Intn(lines) + 1
			n, err := m.LineLen(line)
			if err != nil {
				continue
			}
			_, _ = e.OffsetAt(line, rng.Intn(n+1))
		}
	})
}

func benchMaxOffset(e *engine.Engine, ops int) BenchResult {
	mc := e.Measure()
	var widest float32
	r := timed("Max offset", ops, func() {
		for i := 0; i < ops; i++ {
			widest, _ = mc.MaxOffset()
		}
	})
	r.Extra = fmt.Sprintf("%.0f cells", widest)
	return r
}

func benchRebuild(e *engine.Engine) BenchResult {
	r := timed("Full rebuild", 0, func() {
		if err := e.Measure().Rebuild(); err != nil {
			fmt.Printf("rebuild failed: %v\n", err)
		}
	})
	r.Extra = fmt.Sprintf("%d rows", e.LineCount())
	return r
}
