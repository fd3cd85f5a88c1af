// Text exposition encoder — renders a registry snapshot into the
// Prometheus text format (version 0.0.4).
package metrics

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ContentType identifies the text exposition format in HTTP responses.
const ContentType = "text/plain; version=0.0.4; charset=utf-8"

// WriteText renders points into w in the text exposition format:
// # HELP and # TYPE comment lines per metric, then one sample line for
// gauges/counters, or per-bucket lines plus _sum and _count for
// histograms. An empty snapshot produces an empty body.
func WriteText(w io.Writer, points []Point) error {
	for _, p := range points {
		if p.Desc.Help != "" {
			if _, err := fmt.Fprintf(w, "# HELP %s %s\n", p.Desc.Name, escapeHelp(p.Desc.Help)); err != nil {
				return fmt.Errorf("writing help for %s: %w", p.Desc.Name, err)
			}
		}
		if _, err := fmt.Fprintf(w, "# TYPE %s %s\n", p.Desc.Name, p.Desc.Kind); err != nil {
			return fmt.Errorf("writing type for %s: %w", p.Desc.Name, err)
		}

		switch p.Desc.Kind {
		case KindHistogram:
			if err := writeHistogram(w, p); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(w, "%s %s\n", p.Desc.Name, formatValue(p.Value)); err != nil {
				return fmt.Errorf("writing sample for %s: %w", p.Desc.Name, err)
			}
		}
	}
	return nil
}

func writeHistogram(w io.Writer, p Point) error {
	for _, b := range p.Buckets {
		_, err := fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n",
			p.Desc.Name, formatValue(b.UpperBound), b.Count)
		if err != nil {
			return fmt.Errorf("writing bucket for %s: %w", p.Desc.Name, err)
		}
	}
	if _, err := fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n", p.Desc.Name, p.Count); err != nil {
		return fmt.Errorf("writing +Inf bucket for %s: %w", p.Desc.Name, err)
	}
	if _, err := fmt.Fprintf(w, "%s_sum %s\n", p.Desc.Name, formatValue(p.Sum)); err != nil {
		return fmt.Errorf("writing sum for %s: %w", p.Desc.Name, err)
	}
	if _, err := fmt.Fprintf(w, "%s_count %d\n", p.Desc.Name, p.Count); err != nil {
		return fmt.Errorf("writing count for %s: %w", p.Desc.Name, err)
	}
	return nil
}

func formatValue(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// escapeHelp escapes backslashes and newlines, the two characters the
// format disallows in help text.
func escapeHelp(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "\n", `\n`)
}
