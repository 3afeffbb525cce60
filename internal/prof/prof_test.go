package prof

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTrackAndReset(t *testing.T) {
	var r Recorder
	r.Track(time.Now().Add(-time.Millisecond), "split")
	r.Track(time.Now(), "store")

	got := r.SnapshotAndReset()
	if len(got) != 2 || got[0].Label != "split" || got[1].Label != "store" {
		t.Fatalf("got %+v", got)
	}
	if got[0].Dur < time.Millisecond {
		t.Fatalf("split duration %v", got[0].Dur)
	}
	if again := r.SnapshotAndReset(); len(again) != 0 {
		t.Fatalf("not reset: %+v", again)
	}
}

func TestFlushLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var r Recorder
	r.Track(time.Now(), "roots")
	r.Flush(zap.New(core))
	entries := logs.FilterMessage("timing").All()
	if len(entries) != 1 || entries[0].ContextMap()["op"] != "roots" {
		t.Fatalf("got %+v", entries)
	}
}
