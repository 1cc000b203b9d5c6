package upload

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/lorawatch/lorawatch/internal/session"
)

type fakeLink struct {
	connectErr error
	upAfter    int // Connected polls before the link reports up

	connects    int
	polls       int
	disconnects int
}

func (l *fakeLink) Connect() error {
	l.connects++
	return l.connectErr
}

func (l *fakeLink) Connected() bool {
	l.polls++
	return l.polls > l.upAfter
}

func (l *fakeLink) Disconnect() {
	l.disconnects++
}

// newTestSequencer builds a sequencer with sleeps stubbed out and every state
// transition captured.
func newTestSequencer(t *testing.T, link Link, endpoint string, states *[]State) *Sequencer {
	t.Helper()

	s := NewSequencer(link, endpoint, "bench-node",
		WithConnectBudget(time.Millisecond, 5),
		WithResultHold(time.Millisecond),
		WithProgress(func(state State, _, _ int) {
			if n := len(*states); n == 0 || (*states)[n-1] != state {
				*states = append(*states, state)
			}
		}),
	)
	s.sleep = func(time.Duration) {}
	return s
}

func TestSequencer_Success(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	link := &fakeLink{upAfter: 2}
	var states []State
	s := newTestSequencer(t, link, srv.URL, &states)

	stats := session.Stats{
		UpSeconds:       1847,
		TotalDetections: 386,
		PeakActivityPct: 23,
	}
	stats.ChannelDetections[0] = 300
	stats.ChannelDetections[5] = 86

	if err := s.Run(stats); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []State{Connecting, Connected, Transmitting, Succeeded, Idle}
	if !reflect.DeepEqual(states, want) {
		t.Errorf("state sequence %v, want %v", states, want)
	}

	if got.DeviceID != "bench-node" || got.UptimeSeconds != 1847 ||
		got.TotalDetections != 386 || got.PeakActivityPct != 23 {
		t.Errorf("unexpected payload: %+v", got)
	}
	if got.FreqDetections[0] != 300 || got.FreqDetections[5] != 86 {
		t.Errorf("unexpected channel counts: %v", got.FreqDetections)
	}

	if link.disconnects != 1 {
		t.Errorf("expected 1 disconnect, got %d", link.disconnects)
	}
	if s.State() != Idle {
		t.Errorf("expected sequencer back in idle, got %v", s.State())
	}
}

func TestSequencer_ServerErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database is locked", http.StatusInternalServerError)
	}))
	defer srv.Close()

	link := &fakeLink{}
	var states []State
	s := newTestSequencer(t, link, srv.URL, &states)

	if err := s.Run(session.Stats{}); err == nil {
		t.Fatal("expected an error on non-2xx response")
	}

	want := []State{Connecting, Connected, Transmitting, Failed, Idle}
	if !reflect.DeepEqual(states, want) {
		t.Errorf("state sequence %v, want %v", states, want)
	}
	if link.disconnects != 1 {
		t.Errorf("expected the link released on failure, got %d disconnects", link.disconnects)
	}
}

func TestSequencer_ConnectBudgetExhausted(t *testing.T) {
	link := &fakeLink{upAfter: 100}
	var states []State
	s := newTestSequencer(t, link, "http://collector.invalid/upload", &states)

	err := s.Run(session.Stats{})
	if !errors.Is(err, ErrConnectTimeout) {
		t.Fatalf("expected ErrConnectTimeout, got %v", err)
	}

	if link.polls != 5 {
		t.Errorf("expected 5 connect polls, got %d", link.polls)
	}
	want := []State{Connecting, Failed, Idle}
	if !reflect.DeepEqual(states, want) {
		t.Errorf("state sequence %v, want %v", states, want)
	}
	if link.disconnects != 1 {
		t.Errorf("expected the link released on timeout, got %d disconnects", link.disconnects)
	}
}

func TestSequencer_AssociationErrorFails(t *testing.T) {
	link := &fakeLink{connectErr: errors.New("modem not responding")}
	var states []State
	s := newTestSequencer(t, link, "http://collector.invalid/upload", &states)

	if err := s.Run(session.Stats{}); err == nil {
		t.Fatal("expected association error")
	}
	if link.polls != 0 {
		t.Errorf("expected no connectivity polls after association failure, got %d", link.polls)
	}
	if link.disconnects != 1 {
		t.Errorf("expected the link released, got %d disconnects", link.disconnects)
	}
}

func TestPayload_WireFormat(t *testing.T) {
	stats := session.Stats{
		UpSeconds:           1847,
		TotalDetections:     386,
		DetectionsPerMinute: 12,
		CurrentActivityPct:  9,
		PeakActivityPct:     23,
	}
	stats.ChannelDetections[2] = 386

	body, err := json.Marshal(NewPayload("bench-node", stats))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	wantFields := []string{
		"device_id", "uptime_seconds", "total_detections",
		"detections_per_min", "current_activity_pct", "peak_activity_pct",
		"freq_detections",
	}
	if len(fields) != len(wantFields) {
		t.Errorf("expected %d fields, got %d: %s", len(wantFields), len(fields), body)
	}
	for _, name := range wantFields {
		if _, ok := fields[name]; !ok {
			t.Errorf("missing field %q in %s", name, body)
		}
	}

	var freqs []int
	if err := json.Unmarshal(fields["freq_detections"], &freqs); err != nil {
		t.Fatalf("decoding freq_detections: %v", err)
	}
	if len(freqs) != 8 {
		t.Errorf("expected freq_detections length 8, got %d", len(freqs))
	}
	if freqs[2] != 386 {
		t.Errorf("expected 386 detections on channel 2, got %d", freqs[2])
	}
}
