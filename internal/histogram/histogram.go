// Package histogram computes per-channel intensity distributions of a
// canvas image for display and inspection. It only ever reads the
// image.
package histogram

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// Bins is the number of intensity levels per channel.
const Bins = 256

// Histogram holds per-channel intensity counts for an image.
type Histogram struct {
	R [Bins]int `json:"r"`
	G [Bins]int `json:"g"`
	B [Bins]int `json:"b"`

	// Pixels is the total number of pixels counted.
	Pixels int `json:"pixels"`
}

// ChannelStats summarizes one channel's distribution.
type ChannelStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
}

// Stats holds per-channel summary statistics.
type Stats struct {
	R ChannelStats `json:"r"`
	G ChannelStats `json:"g"`
	B ChannelStats `json:"b"`
}

// Compute counts the red, green, and blue intensities of every pixel.
// A nil image yields an empty histogram.
func Compute(img *image.RGBA) *Histogram {
	h := &Histogram{}
	if img == nil {
		return h
	}
	for i := 0; i < len(img.Pix); i += 4 {
		h.R[img.Pix[i]]++
		h.G[img.Pix[i+1]]++
		h.B[img.Pix[i+2]]++
	}
	h.Pixels = len(img.Pix) / 4
	return h
}

// Stats computes the mean, standard deviation, and median intensity of
// each channel, weighting the 0-255 levels by their counts.
func (h *Histogram) Stats() Stats {
	return Stats{
		R: channelStats(h.R[:]),
		G: channelStats(h.G[:]),
		B: channelStats(h.B[:]),
	}
}

// levels is the sorted 0..255 axis shared by every channel.
var levels = func() []float64 {
	xs := make([]float64, Bins)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}()

func channelStats(counts []int) ChannelStats {
	weights := make([]float64, Bins)
	total := 0.0
	for i, c := range counts {
		weights[i] = float64(c)
		total += float64(c)
	}
	if total == 0 {
		return ChannelStats{}
	}

	mean, std := stat.MeanStdDev(levels, weights)
	return ChannelStats{
		Mean:   mean,
		StdDev: std,
		Median: stat.Quantile(0.5, stat.Empirical, levels, weights),
	}
}
