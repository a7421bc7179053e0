// Copyright (C) 2026 Sibuge. All Rights Reserved.

package jfeed_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/Sibuge/jfeed"
	"github.com/Sibuge/jfeed/ast"
)

// benchString generates n bytes where quotePct percent are quotation marks
// and specialPct percent are control characters, so that the escaper's
// run-copying fast path can be measured against escape-heavy input.
func benchString(rng *rand.Rand, n, quotePct, specialPct int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		r := rng.Intn(100)
		switch {
		case r < specialPct:
			sb.WriteByte(byte(1 + rng.Intn(31)))
		case r < specialPct+quotePct:
			sb.WriteByte('"')
		default:
			sb.WriteByte(byte(32 + rng.Intn(224)))
		}
	}
	return sb.String()
}

func BenchmarkQuote(b *testing.B) {
	configs := []struct {
		n, quotePct, specialPct int
	}{
		{64, 0, 0},
		{64, 10, 5},
		{4096, 0, 0},
		{4096, 2, 1},
		{4096, 10, 5},
		{4096, 50, 30},
	}
	for _, c := range configs {
		name := fmt.Sprintf("n=%d/quote=%d/special=%d", c.n, c.quotePct, c.specialPct)
		b.Run(name, func(b *testing.B) {
			rng := rand.New(rand.NewSource(1))
			s := ast.String(benchString(rng, c.n, c.quotePct, c.specialPct))
			b.SetBytes(int64(c.n))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = s.JSON()
			}
		})
	}
}

// benchDocument builds one moderately nested document of objects, arrays,
// strings and numbers, rendered as compact JSON text.
func benchDocument(records int) []byte {
	rng := rand.New(rand.NewSource(2))
	recs := make(ast.Array, records)
	for i := range recs {
		recs[i] = ast.Object{
			{Key: "id", Value: ast.Number(i)},
			{Key: "name", Value: ast.String(benchString(rng, 20, 5, 0))},
			{Key: "live", Value: ast.Bool(i%3 == 0)},
			{Key: "tags", Value: ast.Array{
				ast.String("alpha"), ast.String("beta"), ast.Null{},
			}},
			{Key: "pos", Value: ast.Object{
				{Key: "x", Value: ast.Number(rng.Float64())},
				{Key: "y", Value: ast.Number(rng.Float64())},
			}},
		}
	}
	return ast.Formatter{}.Append(nil, recs)
}

func BenchmarkParse(b *testing.B) {
	input := benchDocument(200)
	b.Logf("Benchmark input: %d bytes", len(input))

	b.Run("Stdlib", func(b *testing.B) {
		b.SetBytes(int64(len(input)))
		for i := 0; i < b.N; i++ {
			var v any
			if err := json.Unmarshal(input, &v); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})

	b.Run("Parser", func(b *testing.B) {
		b.SetBytes(int64(len(input)))
		for i := 0; i < b.N; i++ {
			p := jfeed.NewParser()
			p.Feed(input)
			if _, err := p.Finish(); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})
}

func BenchmarkStream(b *testing.B) {
	input := benchDocument(200)
	sink := jfeed.HandlerFunc(func(ast.Value) error { return nil })
	b.SetBytes(int64(len(input)))
	for i := 0; i < b.N; i++ {
		s := jfeed.NewStream(bytes.NewReader(input))
		if err := s.Parse(sink); err != nil {
			b.Fatalf("Unexpected error: %v", err)
		}
	}
}
