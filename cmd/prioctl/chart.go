package main

import (
	"fmt"
	"io"
	"math/big"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"prio-field/field"
	"prio-field/prng"
)

const sampleBuckets = 32

// bucketCounts splits [0, p) into n equal buckets and counts the draws in each.
func bucketCounts[D field.Descriptor](draws []field.Elem[D], n int) []int {
	counts := make([]int, n)
	p := field.Modulus[D]()
	nb := big.NewInt(int64(n))
	var t big.Int
	for _, x := range draws {
		t.Mul(x.Big(), nb)
		t.Quo(&t, p)
		counts[t.Int64()]++
	}
	return counts
}

// chiSquare is Pearson's statistic of counts against a uniform expectation.
func chiSquare(counts []int, total int) float64 {
	exp := float64(total) / float64(len(counts))
	var s float64
	for _, c := range counts {
		d := float64(c) - exp
		s += d * d / exp
	}
	return s
}

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newHistogramChart(title string, counts []int, st prng.Stats) *charts.Bar {
	xLabels := make([]string, len(counts))
	for i := range counts {
		xLabels[i] = fmt.Sprintf("%d/%d", i, len(counts))
	}
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("blocks=%d, rejected=%d", st.Draws, st.Rejections)
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func renderHistogram(w io.Writer, title string, counts []int, st prng.Stats) error {
	page := components.NewPage()
	page.AddCharts(newHistogramChart(title, counts, st))
	return page.Render(w)
}
