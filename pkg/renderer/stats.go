package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about a rendered frame
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of primary rays traced
	SamplesPerPixel int           // Samples requested per pixel
	Rows            int           // Number of row tasks
	Duration        time.Duration // Wall time from first submission to last result
}

// SamplesPerSecond returns primary-ray throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image
// in [0, 1], computed on the stored (gamma-encoded) values
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	count := bounds.Dx() * bounds.Dy()
	if count == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += 0.2126*float64(r)/65535.0 + 0.7152*float64(g)/65535.0 + 0.0722*float64(b)/65535.0
		}
	}
	return total / float64(count)
}

// FrameRateCounter counts frames and reports the rate once per interval
type FrameRateCounter struct {
	Interval time.Duration
	frames   int
	start    time.Time
}

// NewFrameRateCounter creates a counter reporting once per second
func NewFrameRateCounter(now time.Time) *FrameRateCounter {
	return &FrameRateCounter{Interval: time.Second, start: now}
}

// Tick records a frame. When an interval has elapsed it returns the frames
// per second over that interval and starts a new one.
func (c *FrameRateCounter) Tick(now time.Time) (fps float64, ok bool) {
	c.frames++
	elapsed := now.Sub(c.start)
	if elapsed < c.Interval {
		return 0, false
	}
	fps = float64(c.frames) / elapsed.Seconds()
	c.frames = 0
	c.start = now
	return fps, true
}
