package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/irifrance/gigen/cnfio"
	"github.com/irifrance/gigen/config"
	"github.com/irifrance/gigen/unigen"
)

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestMergeSumsCounts(t *testing.T) {
	dst := unigen.SolutionMultiset{"1 2": 1}
	src := unigen.SolutionMultiset{"1 2": 2, "1 -2": 1}
	merge(dst, src)
	if dst["1 2"] != 3 || dst["1 -2"] != 1 {
		t.Fatalf("got %v", dst)
	}
}

func TestSampleRejectsStartIterationBeyondS(t *testing.T) {
	f := &cnfio.Formula{MaxVar: 2}
	d := New(f, quietLog())
	cfg := config.Default()
	cfg.StartIteration = 10
	if _, err := d.Sample(cfg); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestCountRejectsStartIterationBeyondS(t *testing.T) {
	f := &cnfio.Formula{MaxVar: 2}
	d := New(f, quietLog())
	cfg := config.Default()
	cfg.StartIteration = 10
	if _, err := d.Count(cfg); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestTrialLoggerWritesToLogSink(t *testing.T) {
	f := &cnfio.Formula{MaxVar: 2}
	d := New(f, quietLog())
	var sink bytes.Buffer
	d.LogSink = &sink

	d.trialLogger().WithField("hashCount", 3).Debug("approxmc: bounded count")

	if !strings.Contains(sink.String(), "hashCount=3") {
		t.Fatalf("LogSink got %q, want it to contain the logged field", sink.String())
	}
}

func TestTrialLoggerWithoutLogSinkReturnsLog(t *testing.T) {
	f := &cnfio.Formula{MaxVar: 2}
	d := New(f, quietLog())
	if d.trialLogger() != d.Log {
		t.Fatal("expected trialLogger to return Log unchanged when LogSink is nil")
	}
}
