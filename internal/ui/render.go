package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"macmon/internal/loop"
	"macmon/internal/model"
)

const (
	minRenderWidth = 80
	maxProcName    = 30
)

const unavailableRow = "unavailable"

// Render converts one tick into the dashboard text. It is a pure function
// of its inputs: no I/O, no clock reads, no mutation of the snapshot.
//
// Layout is a fixed two-row grid: CPU and Memory split the top row equally;
// the bottom row pairs a wide process table with a narrow column of stacked
// Temperature and Network panels. A panel whose input is unavailable shows
// an explicit placeholder row instead of disappearing.
func Render(tick loop.Tick, width int) string {
	if width < minRenderWidth {
		width = minRenderWidth
	}

	snap := tick.Snapshot
	header := titleStyle.Render("macmon") + "  " +
		subtleStyle.Render(snap.Timestamp.Format("Mon Jan 2 15:04:05 2006"))

	if tick.Err != nil {
		// The tick failed wholesale; show the error where the panels would
		// be and let the loop try again next interval.
		errPanel := panel("Error",
			errorStyle.Render("✗ "+tick.Err.Error())+"\n"+
				subtleStyle.Render("retrying next refresh"))
		return lipgloss.JoinVertical(lipgloss.Left, header, errPanel)
	}

	halfW := width/2 - 4
	procW := (width*2)/3 - 4
	sideW := width - procW - 10

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		panelSized("CPU", cpuBody(snap.CPU, halfW), halfW),
		panelSized("Memory", memoryBody(snap.Memory), halfW),
	)
	sideCol := lipgloss.JoinVertical(lipgloss.Left,
		panelSized("Temperature", temperatureBody(snap.Temperature), sideW),
		panelSized("Network", networkBody(snap.Network), sideW),
	)
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		panelSized("Processes", processBody(snap.Processes, procW), procW),
		sideCol,
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, topRow, bottomRow)
}

func panel(title, body string) string {
	return panelStyle.Render(labelStyle.Render(title) + "\n" + body)
}

func panelSized(title, body string, width int) string {
	return panelStyle.Width(width).Render(labelStyle.Render(title) + "\n" + body)
}

func cpuBody(info *model.CPUInfo, width int) string {
	if info == nil {
		return unavailableStyle.Render(unavailableRow)
	}
	barW := width - 14
	if barW < 10 {
		barW = 10
	}
	lines := []string{
		"Overall " + gaugeBar(info.OverallPercent, barW),
		fmt.Sprintf("Cores   %d logical", info.LogicalCores),
	}
	if info.Frequency.CurrentMHz > 0 {
		lines = append(lines, fmt.Sprintf("Clock   %.0f MHz", info.Frequency.CurrentMHz))
	}
	for i, pct := range info.PerCorePercent {
		lines = append(lines, fmt.Sprintf("Core %-2d %s", i, gaugeBar(pct, barW)))
	}
	return strings.Join(lines, "\n")
}

func memoryBody(info *model.MemoryInfo) string {
	if info == nil {
		return unavailableStyle.Render(unavailableRow)
	}
	used := fmt.Sprintf("%s (%.1f%%)", FormatBytes(int64(info.Used)), info.UsedPercent)
	lines := []string{
		"Total      " + FormatBytes(int64(info.Total)),
		"Used       " + colorize(info.UsedPercent, used),
		"Available  " + FormatBytes(int64(info.Available)),
	}
	if info.SwapTotal > 0 {
		swapPct := float64(info.SwapUsed) * 100 / float64(info.SwapTotal)
		swapUsed := fmt.Sprintf("%s (%.1f%%)", FormatBytes(int64(info.SwapUsed)), swapPct)
		lines = append(lines,
			"Swap Total "+FormatBytes(int64(info.SwapTotal)),
			"Swap Used  "+colorize(swapPct, swapUsed),
		)
	}
	return strings.Join(lines, "\n")
}

func processBody(records []model.ProcessRecord, width int) string {
	if records == nil {
		return unavailableStyle.Render(unavailableRow)
	}
	if len(records) == 0 {
		return subtleStyle.Render("no processes")
	}

	nameW := width - 52
	if nameW < 12 {
		nameW = 12
	}
	if nameW > maxProcName {
		nameW = maxProcName
	}
	columns := []table.Column{
		{Title: "PID", Width: 7},
		{Title: "Name", Width: nameW},
		{Title: "CPU %", Width: 7},
		{Title: "Memory", Width: 11},
		{Title: "Status", Width: 9},
		{Title: "User", Width: 10},
	}
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.PID),
			truncate(r.Name, nameW),
			// Plain text: the table truncates cells by display width and
			// would cut escape sequences apart.
			fmt.Sprintf("%.1f", r.CPUPercent),
			FormatBytes(int64(r.MemoryBytes)),
			r.Status,
			truncate(r.Owner, 10),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return t.View()
}

func temperatureBody(info *model.TemperatureInfo) string {
	if info == nil || !info.Available {
		return unavailableStyle.Render(unavailableRow)
	}
	lines := []string{"CPU      " + tempValue(info.CPUTemp)}
	if info.GPUTemp != nil {
		lines = append(lines, "GPU      "+tempValue(info.GPUTemp))
	}
	if info.BatteryTemp != nil {
		lines = append(lines, "Battery  "+tempValue(info.BatteryTemp))
	}
	return strings.Join(lines, "\n")
}

func tempValue(t *float64) string {
	if t == nil {
		return subtleStyle.Render("unknown")
	}
	return colorize(*t, fmt.Sprintf("%.1f°C", *t))
}

func networkBody(info *model.NetworkInfo) string {
	if info == nil {
		return unavailableStyle.Render(unavailableRow)
	}
	return strings.Join([]string{
		"Sent      " + FormatBytes(int64(info.BytesSent)),
		"Received  " + FormatBytes(int64(info.BytesRecv)),
		"Pkts Out  " + humanize.Comma(int64(info.PacketsSent)),
		"Pkts In   " + humanize.Comma(int64(info.PacketsRecv)),
	}, "\n")
}
