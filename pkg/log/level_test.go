package log_test

import (
	"testing"

	"github.com/gruntwork-io/terradeps/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		str           string
		expectedLevel log.Level
		expectedErr   bool
	}{
		{str: "error", expectedLevel: log.ErrorLevel},
		{str: "warn", expectedLevel: log.WarnLevel},
		{str: "info", expectedLevel: log.InfoLevel},
		{str: "DEBUG", expectedLevel: log.DebugLevel},
		{str: "trace", expectedLevel: log.TraceLevel},
		{str: "fatal", expectedErr: true},
		{str: "", expectedErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.str, func(t *testing.T) {
			t.Parallel()

			level, err := log.ParseLevel(tc.str)
			if tc.expectedErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedLevel, level)
		})
	}
}

func TestLevelLogrusConversion(t *testing.T) {
	t.Parallel()

	for _, level := range log.AllLevels {
		assert.Equal(t, level, log.FromLogrusLevel(level.ToLogrusLevel()))
	}

	assert.Equal(t, logrus.ErrorLevel, log.ErrorLevel.ToLogrusLevel())
	assert.Equal(t, logrus.TraceLevel, log.TraceLevel.ToLogrusLevel())
}

func TestLevelNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "warn", log.WarnLevel.String())
	assert.Equal(t, "wrn", log.WarnLevel.ShortName())
	assert.Contains(t, log.AllLevels.String(), "debug")
}
