// Package workloads provides the built-in benchmark set. The payloads
// are interchangeable; they exist to exercise the harness across
// arithmetic, allocation, hashing, encoding and compression shapes.
package workloads

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"strings"
	"sync"

	"benchkit/internal/harness"
)

// Builtins returns the built-in benchmarks in their fixed registration
// order.
func Builtins() []harness.Builtin {
	return []harness.Builtin{
		{Name: "math", Fn: mathOps},
		{Name: "strings", Fn: stringOps},
		{Name: "hash", Fn: hashOps},
		{Name: "json", Fn: jsonOps},
		{Name: "sort", Fn: sortOps},
		{Name: "compress", Fn: compressOps},
		{Name: "parallel", Fn: parallelOps},
	}
}

func mathOps(b *harness.B) (float64, error) {
	n := b.Scale(2_000_000)
	var sum float64
	for i := 1; i <= n; i++ {
		sum += math.Sqrt(float64(i)) * math.Sin(float64(i)/1000)
	}
	return sum, nil
}

func stringOps(b *harness.B) (float64, error) {
	n := b.Scale(50_000)
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "item-%d;", i)
	}
	s := strings.ReplaceAll(sb.String(), ";", ",")
	s = strings.ToUpper(s)
	return float64(len(s)), nil
}

func hashOps(b *harness.B) (float64, error) {
	rounds := b.Scale(200)
	buf := make([]byte, 64*1024)
	rnd := rand.New(rand.NewSource(1))
	rnd.Read(buf)

	var digest [32]byte
	for i := 0; i < rounds; i++ {
		digest = sha256.Sum256(buf)
		buf[0] = digest[0]
	}

	b.ReportExtra("rounds", float64(rounds))
	b.ReportExtra("bytes_hashed", float64(rounds*len(buf)))
	return float64(binary.BigEndian.Uint32(digest[:4])), nil
}

type jsonRecord struct {
	ID     int       `json:"id"`
	Name   string    `json:"name"`
	Tags   []string  `json:"tags"`
	Scores []float64 `json:"scores"`
}

func jsonOps(b *harness.B) (float64, error) {
	n := b.Scale(10_000)
	record := jsonRecord{
		ID:     7,
		Name:   "benchmark-record",
		Tags:   []string{"a", "b", "c", "d"},
		Scores: []float64{1.5, 2.5, 3.5, 4.5},
	}

	var total int
	for i := 0; i < n; i++ {
		record.ID = i
		data, err := json.Marshal(record)
		if err != nil {
			return 0, err
		}
		var back jsonRecord
		if err := json.Unmarshal(data, &back); err != nil {
			return 0, err
		}
		total += len(data)
	}
	return float64(total), nil
}

func sortOps(b *harness.B) (float64, error) {
	n := b.Scale(200_000)
	rnd := rand.New(rand.NewSource(42))
	values := make([]int, n)
	for i := range values {
		values[i] = rnd.Int()
	}
	sort.Ints(values)
	return float64(values[len(values)/2]), nil
}

func compressOps(b *harness.B) (float64, error) {
	n := b.Scale(50)
	payload := bytes.Repeat([]byte("benchkit compressible payload "), 4096)

	var compressed int
	for i := 0; i < n; i++ {
		var out bytes.Buffer
		w := gzip.NewWriter(&out)
		if _, err := w.Write(payload); err != nil {
			return 0, err
		}
		if err := w.Close(); err != nil {
			return 0, err
		}
		compressed = out.Len()
	}

	b.ReportExtra("ratio", float64(len(payload))/float64(compressed))
	return float64(compressed), nil
}

// parallelOps skips on single-CPU hosts where a fan-out measurement
// says nothing useful.
func parallelOps(b *harness.B) (float64, error) {
	workers := runtime.NumCPU()
	if workers < 2 {
		return 0, harness.ErrSkip
	}

	n := b.Scale(1_000_000)
	per := n / workers
	sums := make([]float64, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var sum float64
			for i := w * per; i < (w+1)*per; i++ {
				sum += math.Log1p(float64(i))
			}
			sums[w] = sum
		}(w)
	}
	wg.Wait()

	var total float64
	for _, s := range sums {
		total += s
	}
	return total, nil
}
