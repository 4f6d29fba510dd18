package format

import (
	"fmt"
	"strings"
	"time"
)

// maxETA caps estimates produced from very slow early rates.
const maxETA = 24 * time.Hour

// etaSmoothing is the weight of the newest rate sample in the exponential
// moving average.
const etaSmoothing = 0.3

// ProgressWithETA tracks the completed fraction of one run and estimates the
// remaining time from a smoothed progress rate. It is not safe for
// concurrent use.
type ProgressWithETA struct {
	fraction     float64
	progressRate float64 // fraction per second
	startTime    time.Time
	lastUpdate   time.Time
	lastFraction float64
}

// NewProgressWithETA creates a tracker starting now.
func NewProgressWithETA() *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{startTime: now, lastUpdate: now}
}

// Update records the completed fraction, clamped to [0, 1].
func (p *ProgressWithETA) Update(fraction float64) {
	p.fraction = min(max(fraction, 0), 1)
}

// Fraction returns the last recorded fraction.
func (p *ProgressWithETA) Fraction() float64 { return p.fraction }

// UpdateWithETA records the fraction, folds the progress made since the
// previous call into the rate estimate and returns the fraction and ETA.
func (p *ProgressWithETA) UpdateWithETA(fraction float64) (float64, time.Duration) {
	p.Update(fraction)

	now := time.Now()
	elapsed := now.Sub(p.lastUpdate).Seconds()
	if elapsed > 0 && p.fraction > p.lastFraction {
		rate := (p.fraction - p.lastFraction) / elapsed
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = etaSmoothing*rate + (1-etaSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastFraction = p.fraction
	}
	return p.fraction, p.GetETA()
}

// GetETA returns the estimated remaining time, or 0 while no rate is known.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 || p.fraction >= 1 {
		return 0
	}
	remaining := (1 - p.fraction) / p.progressRate
	if remaining >= maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(remaining * float64(time.Second))
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration { return time.Since(p.startTime) }

// FormatETA renders an ETA compactly: "< 1s", "45s", "2m30s", "1h15m".
// Non-positive values render as "calculating...".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		s := int(eta.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		h := int(eta.Hours())
		m := int(eta.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// ProgressBar renders a bar of the given width for a fraction in [0, 1].
func ProgressBar(fraction float64, width int) string {
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction * float64(width))
	var b strings.Builder
	b.Grow(width * 3)
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// FormatProgressBarWithETA renders "[bar] 42.00% ETA: 1m5s".
func FormatProgressBarWithETA(fraction float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %6.2f%% ETA: %s",
		ProgressBar(fraction, width), min(max(fraction, 0), 1)*100, FormatETA(eta))
}
