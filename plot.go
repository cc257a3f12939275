// Figure rendering. The engine only hands a Summary to a Plotter; the
// default implementation below renders go-echarts charts into a zip
// archive of standalone HTML files.

package main

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Plotter consumes a finished Summary and writes a packaged artifact.
// Plotter failure is independent of the metrics contract: callers warn
// and move on.
type Plotter interface {
	Plot(s *Summary) error
}

// echartsPlotter writes <Output>.zip containing one HTML chart per
// figure.
type echartsPlotter struct {
	Output string
}

func (p *echartsPlotter) Plot(s *Summary) error {
	fh, err := os.Create(p.Output + ".zip")
	if err != nil {
		return fmt.Errorf("error creating figure archive: %v", err)
	}
	defer fh.Close()

	archive := zip.NewWriter(fh)
	defer archive.Close()

	figures := []struct {
		name   string
		render func(s *Summary) renderer
	}{
		{"qualplot.html", qualPlot},
		{"qualmap.html", qualMap},
		{"qualdist.html", qualDist},
		{"nucplot.html", nucPlot},
		{"gcplot.html", gcPlot},
		{"gcdist.html", gcDist},
		{"depthplot.html", depthPlot},
		{"kmerplot.html", kmerPlot},
		{"adaptermerplot.html", adapterMerPlot},
	}
	if s.Aligned {
		figures = append(figures, struct {
			name   string
			render func(s *Summary) renderer
		}{"mismatchplot.html", mismatchPlot})
	}

	for _, fig := range figures {
		w, err := archive.Create(fig.name)
		if err != nil {
			return fmt.Errorf("error adding %s: %v", fig.name, err)
		}
		if err := fig.render(s).Render(w); err != nil {
			return fmt.Errorf("error rendering %s: %v", fig.name, err)
		}
	}
	return nil
}

type renderer interface {
	Render(w io.Writer) error
}

func newLine(title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
	)
	return line
}

func newBar(title, subtitle string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
	)
	return bar
}

func lineItems(values []float64) []opts.LineData {
	items := make([]opts.LineData, len(values))
	for i, v := range values {
		items[i] = opts.LineData{Value: v}
	}
	return items
}

func barItems(values []int) []opts.BarData {
	items := make([]opts.BarData, len(values))
	for i, v := range values {
		items[i] = opts.BarData{Value: v}
	}
	return items
}

// histogramAxes expands a histogram into a dense ascending key range.
func histogramAxes(h Histogram) (keys []int, counts []int) {
	if len(h) == 0 {
		return nil, nil
	}
	min, max := -1, 0
	for k := range h {
		if min < 0 || k < min {
			min = k
		}
		if k > max {
			max = k
		}
	}
	for k := min; k <= max; k++ {
		keys = append(keys, k)
		counts = append(counts, h[k])
	}
	return keys, counts
}

func qualPlot(s *Summary) renderer {
	line := newLine("Quality score quantiles by cycle", s.Sample)
	line.SetXAxis(s.Positions)
	for j, column := range quantileColumns {
		values := make([]float64, len(s.Positions))
		for i := range s.Positions {
			values[i] = s.Quantiles[i][j]
		}
		line.AddSeries(column, lineItems(values))
	}
	return line
}

// qualMap renders base counts over the (cycle, Phred score) grid.
func qualMap(s *Summary) renderer {
	minScore, maxScore := 0, 0
	found := false
	for _, pos := range s.Positions {
		for score := range qualityHistogram(s.CycleQual[pos]) {
			if !found || score < minScore {
				minScore = score
			}
			if !found || score > maxScore {
				maxScore = score
			}
			found = true
		}
	}

	var data []opts.HeatMapData
	maxCount := 0
	for i, pos := range s.Positions {
		for score, count := range qualityHistogram(s.CycleQual[pos]) {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{i, score - minScore, count}})
			if count > maxCount {
				maxCount = count
			}
		}
	}

	var scores []int
	if found {
		for score := minScore; score <= maxScore; score++ {
			scores = append(scores, score)
		}
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Quality by cycle", Subtitle: s.Sample}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: scores}),
		charts.WithVisualMapOpts(opts.VisualMap{Calculable: opts.Bool(true), Min: 0, Max: float32(maxCount)}),
	)
	heatmap.SetXAxis(s.Positions).AddSeries("bases", data)
	return heatmap
}

func qualDist(s *Summary) renderer {
	combined := make(Histogram)
	for _, symbols := range s.CycleQual {
		for sym, count := range symbols {
			if len(sym) > 0 {
				combined[int(sym[0])-PHRED_OFFSET] += count
			}
		}
	}
	scores, counts := histogramAxes(combined)
	bar := newBar("Quality score distribution", s.Sample)
	bar.SetXAxis(scores).AddSeries("bases", barItems(counts))
	return bar
}

func nucPlot(s *Summary) renderer {
	line := newLine("Base calls by cycle", s.Sample)
	line.SetXAxis(s.Positions)
	for _, base := range s.Bases {
		values := make([]float64, len(s.Positions))
		for i, pos := range s.Positions {
			values[i] = float64(s.CycleNuc[pos][base])
		}
		line.AddSeries(base, lineItems(values))
	}
	return line
}

func gcPlot(s *Summary) renderer {
	line := newLine("GC content by cycle", s.Sample)
	line.SetXAxis(s.Positions).AddSeries("GC%", lineItems(s.PosGC))
	return line
}

func gcDist(s *Summary) renderer {
	counts := make([]int, 101)
	pcts := make([]int, 101)
	for pct := 0; pct <= 100; pct++ {
		pcts[pct] = pct
		counts[pct] = s.ReadGC[pct]
	}
	bar := newBar("Read GC content distribution", s.Sample)
	bar.SetXAxis(pcts).AddSeries("reads", barItems(counts))
	return bar
}

func depthPlot(s *Summary) renderer {
	lengths, counts := histogramAxes(s.ReadLen)
	bar := newBar("Read length distribution", s.Sample)
	bar.SetXAxis(lengths).AddSeries("reads", barItems(counts))
	return bar
}

func kmerSeries(line *charts.Line, s *Summary, kmer string) {
	values := make([]float64, len(s.Positions))
	for i, pos := range s.Positions {
		values[i] = float64(s.CycleKmer[pos][kmer])
	}
	line.AddSeries(kmer, lineItems(values))
}

func kmerPlot(s *Summary) renderer {
	line := newLine("Kmers with non-uniform profiles", s.Sample)
	line.SetXAxis(s.Positions)
	for _, bias := range s.BiasedKmers {
		kmerSeries(line, s, bias.Kmer)
	}
	return line
}

func adapterMerPlot(s *Summary) renderer {
	line := newLine("Adapter kmer positions", s.Sample)
	line.SetXAxis(s.Positions)

	observed := make(map[string]bool)
	for _, symbols := range s.CycleKmer {
		for kmer := range symbols {
			if s.AdapterKmers[kmer] {
				observed[kmer] = true
			}
		}
	}
	kmers := make([]string, 0, len(observed))
	for kmer := range observed {
		kmers = append(kmers, kmer)
	}
	sort.Strings(kmers)
	for _, kmer := range kmers {
		kmerSeries(line, s, kmer)
	}
	return line
}

func mismatchPlot(s *Summary) renderer {
	line := newLine("Reference mismatches by cycle", s.Sample)
	line.SetXAxis(s.Positions)
	for _, refBase := range []byte{'A', 'C', 'G', 'T'} {
		tally := s.CycleMismatch[refBase]
		values := make([]float64, len(s.Positions))
		for i, pos := range s.Positions {
			values[i] = float64(tally.Total(pos))
		}
		line.AddSeries("ref "+string(refBase), lineItems(values))
	}
	return line
}
