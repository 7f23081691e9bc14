package logging

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureRetainsLines(t *testing.T) {
	logger, capture := NewCapturedLogger(logrus.DebugLevel)
	logger.Info("order created")
	logger.WithField("id", "o-1").Warn("slow lookup")

	lines := capture.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "INFO order created", lines[0])
	assert.Equal(t, "WARNING slow lookup id=o-1", lines[1])
}

func TestCaptureRendersFieldsInKeyOrder(t *testing.T) {
	logger, capture := NewCapturedLogger(logrus.DebugLevel)
	logger.WithFields(logrus.Fields{"b": 2, "a": 1}).Info("msg")

	lines := capture.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "INFO msg a=1 b=2", lines[0])
}

func TestCaptureHonorsLevel(t *testing.T) {
	logger, capture := NewCapturedLogger(logrus.InfoLevel)
	logger.Debug("hidden")
	logger.Info("shown")

	lines := capture.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "shown")
}

func TestCaptureReset(t *testing.T) {
	logger, capture := NewCapturedLogger(logrus.DebugLevel)
	logger.Info("first")
	capture.Reset()
	assert.Empty(t, capture.Lines())

	logger.Info("second")
	require.Len(t, capture.Lines(), 1)
}

func TestCaptureConcurrentWriters(t *testing.T) {
	logger, capture := NewCapturedLogger(logrus.DebugLevel)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				logger.Info("tick")
			}
		}()
	}
	wg.Wait()
	assert.Len(t, capture.Lines(), 200)
}

func TestRecordsCarryTimestamps(t *testing.T) {
	logger, capture := NewCapturedLogger(logrus.DebugLevel)
	logger.Info("stamped")
	records := capture.Records()
	require.Len(t, records, 1)
	assert.False(t, records[0].Time.IsZero())
	assert.Equal(t, "info", records[0].Level)
}
