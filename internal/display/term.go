package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/lorawatch/lorawatch/internal/scan"
	"github.com/lorawatch/lorawatch/internal/upload"
)

var barGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// TermRenderer draws the current mode as a single status line, overwriting
// itself on every refresh. It stands in for the device screen on host runs.
type TermRenderer struct {
	w io.Writer
}

// NewTermRenderer creates a renderer writing to w.
func NewTermRenderer(w io.Writer) *TermRenderer {
	return &TermRenderer{w: w}
}

func (r *TermRenderer) Render(s Snapshot) {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] ", s.ModeLabel)

	switch {
	case s.ScannerFault:
		b.WriteString("RADIO FAULT - scanning halted")

	case s.UploadState != upload.Idle:
		fmt.Fprintf(&b, "upload: %s", s.UploadState)

	default:
		r.renderMode(&b, s)
	}

	fmt.Fprintf(r.w, "\r\033[K%s", b.String())
}

func (r *TermRenderer) renderMode(b *strings.Builder, s Snapshot) {
	mark := " "
	if s.LastSampleDetected {
		mark = "*"
	}

	switch s.ModeIndex {
	case 0: // Overview
		fmt.Fprintf(b, "act %3d%% peak %3d%% det %s ch%d%s",
			s.GlobalActivityPct, s.PeakActivityPct,
			humanize.Comma(int64(s.TotalDetections)), s.CurrentChannel, mark)

	case 1: // Channel Bars
		b.WriteString("ch ")
		for _, pct := range s.ChannelActivityPct {
			b.WriteRune(barGlyphs[glyphIndex(pct)])
		}
		fmt.Fprintf(b, " %3d%%", s.GlobalActivityPct)

	case 2: // Activity Graph
		fmt.Fprintf(b, "activity %3d%% %s", s.GlobalActivityPct,
			strings.Repeat("#", s.GlobalActivityPct/5))

	case 3: // Session Stats
		fmt.Fprintf(b, "up %s det %s rate %d/min",
			formatUptime(s.UpSeconds),
			humanize.Comma(int64(s.TotalDetections)), s.DetectionsPerMinute)

	case 4: // Peak Meter
		fmt.Fprintf(b, "now %3d%% peak %3d%%", s.GlobalActivityPct, s.PeakActivityPct)

	case 5: // Detections
		fmt.Fprintf(b, "detections %s (%d/min)",
			humanize.Comma(int64(s.TotalDetections)), s.DetectionsPerMinute)

	case 6: // Channel Map
		for i, ch := range scan.Channels() {
			cur := " "
			if i == s.CurrentChannel {
				cur = ">"
			}
			fmt.Fprintf(b, "%s%d:%d%% ", cur, ch.Index, s.ChannelActivityPct[i])
		}

	case 7: // About
		fmt.Fprintf(b, "lorawatch 915MHz band monitor, %d channels", scan.NumChannels)

	default: // per-channel detail
		idx := s.ModeIndex - NumGeneralModes
		ch := scan.ChannelAt(idx)
		fmt.Fprintf(b, "%s act %3d%% det %s",
			ch.Label, s.ChannelActivityPct[idx],
			humanize.Comma(int64(s.ChannelDetections[idx])))
	}
}

func glyphIndex(pct int) int {
	i := pct * (len(barGlyphs) - 1) / 100
	if i >= len(barGlyphs) {
		i = len(barGlyphs) - 1
	}
	return i
}

func formatUptime(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
