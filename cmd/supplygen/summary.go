package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-supplygen/pkg/config"
	"github.com/dd0wney/cluso-supplygen/pkg/synth"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

func renderSummary(cfg config.Config, res *runResult) string {
	var files strings.Builder
	for _, f := range res.Files {
		if f.Skipped {
			fmt.Fprintf(&files, "%-18s %s\n", f.Table, dimStyle.Render("skipped (no rows)"))
			continue
		}
		fmt.Fprintf(&files, "%-18s %6d rows %9d bytes\n", f.Table, f.Rows, f.Bytes)
	}

	b := res.Bottleneck
	bottleneck := fmt.Sprintf("%s\n%d of %d shipments (%.1f%%)\n%.1f%% to battery makers (configured %.0f%%)\nexposes %d vendors, %d materials",
		synth.BottleneckShipper,
		b.Shipments, len(res.Dataset.TradeFlows), b.TradeShare*100,
		b.BatteryShare*100, synth.Bottleneck().Concentration*100,
		res.Exposure.DependentCount(), len(res.Exposure.Materials),
	)
	if res.DetectedOK && res.Detected.Shipper != synth.BottleneckShipper {
		bottleneck += "\n" + alertStyle.Render("top concentration: "+res.Detected.Shipper)
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Synthetic data generated"))
	s.WriteString("\n")
	s.WriteString(dimStyle.Render(fmt.Sprintf("run %s  seed %d  dir %s", res.Manifest.RunID, cfg.Seed, cfg.OutputDir)))
	s.WriteString("\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(strings.TrimRight(files.String(), "\n")),
		" ",
		boxStyle.Render(bottleneck),
	))
	if len(res.S3Keys) > 0 {
		fmt.Fprintf(&s, "\nuploaded %d objects to s3://%s", len(res.S3Keys), cfg.S3.Bucket)
	}
	if res.PGCounts != nil {
		fmt.Fprintf(&s, "\nloaded %d tables into postgres", len(res.PGCounts))
	}
	return s.String()
}
