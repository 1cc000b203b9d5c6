package display

import (
	"strings"
	"testing"

	"github.com/lorawatch/lorawatch/internal/scan"
	"github.com/lorawatch/lorawatch/internal/upload"
)

func TestSelector_WrapsAroundFullCycle(t *testing.T) {
	var s Selector

	if s.Index() != 0 {
		t.Fatalf("expected initial mode 0, got %d", s.Index())
	}

	for i := 1; i < NumModes; i++ {
		if got := s.Advance(); got != i {
			t.Fatalf("advance %d: expected mode %d, got %d", i, i, got)
		}
	}
	if got := s.Advance(); got != 0 {
		t.Errorf("expected wraparound to mode 0, got %d", got)
	}
}

func TestModeLabels(t *testing.T) {
	if got := ModeLabel(0); got != "Overview" {
		t.Errorf("mode 0: expected Overview, got %q", got)
	}
	if got := ModeLabel(NumGeneralModes - 1); got != "About" {
		t.Errorf("last general mode: expected About, got %q", got)
	}

	// Detail modes carry the channel number and center frequency.
	if got := ModeLabel(NumGeneralModes); got != "CH0 903.9 MHz" {
		t.Errorf("first detail mode: got %q", got)
	}
	if got := ModeLabel(NumModes - 1); got != "CH7 922.9 MHz" {
		t.Errorf("last detail mode: got %q", got)
	}
}

func TestTermRenderer_OverwritesStatusLine(t *testing.T) {
	var out strings.Builder
	r := NewTermRenderer(&out)

	r.Render(Snapshot{
		ModeLabel:          ModeLabel(0),
		GlobalActivityPct:  12,
		PeakActivityPct:    23,
		TotalDetections:    1234,
		CurrentChannel:     5,
		LastSampleDetected: true,
	})

	line := out.String()
	if !strings.HasPrefix(line, "\r\033[K") {
		t.Error("expected the renderer to rewrite the status line in place")
	}
	if !strings.Contains(line, "[Overview]") {
		t.Errorf("expected mode label in %q", line)
	}
	if !strings.Contains(line, "1,234") {
		t.Errorf("expected grouped detection count in %q", line)
	}
}

func TestTermRenderer_FaultOverridesMode(t *testing.T) {
	var out strings.Builder
	r := NewTermRenderer(&out)

	r.Render(Snapshot{ModeLabel: ModeLabel(3), ScannerFault: true})

	if !strings.Contains(out.String(), "RADIO FAULT") {
		t.Errorf("expected fault banner in %q", out.String())
	}
}

func TestTermRenderer_UploadStateOverridesMode(t *testing.T) {
	var out strings.Builder
	r := NewTermRenderer(&out)

	r.Render(Snapshot{ModeLabel: ModeLabel(0), UploadState: upload.Transmitting})

	if !strings.Contains(out.String(), "upload: transmitting") {
		t.Errorf("expected upload state in %q", out.String())
	}
}

func TestTermRenderer_DetailModeShowsChannel(t *testing.T) {
	var out strings.Builder
	r := NewTermRenderer(&out)

	idx := NumGeneralModes + 2
	snap := Snapshot{ModeIndex: idx, ModeLabel: ModeLabel(idx)}
	snap.ChannelActivityPct[2] = 40
	snap.ChannelDetections[2] = 17
	r.Render(snap)

	line := out.String()
	if !strings.Contains(line, scan.ChannelAt(2).Label) {
		t.Errorf("expected channel label in %q", line)
	}
	if !strings.Contains(line, "17") {
		t.Errorf("expected detection count in %q", line)
	}
}
