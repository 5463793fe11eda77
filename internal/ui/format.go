package ui

import (
	"fmt"
	"strings"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatBytes renders a byte count with automatic 1024-based unit scaling.
// Whole bytes print without decimals ("512 B"); scaled values print with
// two ("1.50 MB"). Negative input clamps to "0 B".
func FormatBytes(b int64) string {
	if b < 0 {
		b = 0
	}
	v := float64(b)
	unit := 0
	for v >= 1024.0 && unit < len(byteUnits)-1 {
		v /= 1024.0
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", int64(v), byteUnits[unit])
	}
	return fmt.Sprintf("%.2f %s", v, byteUnits[unit])
}

// gaugeBar draws a fixed-width usage bar tagged with its percentage.
func gaugeBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", bar, colorize(pct, fmt.Sprintf("%5.1f%%", pct)))
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
