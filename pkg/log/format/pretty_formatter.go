// Package format provides logrus formatters for terradeps log output.
package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/pkg/log"
	"github.com/sirupsen/logrus"
)

const defaultTimestampFormat = "15:04:05.000"

// PrettyFormatter formats entries as `15:04:05.000 LEVEL  [prefix] message key=value`.
type PrettyFormatter struct {
	// DisableTimestamp allows disabling automatic timestamps in output.
	DisableTimestamp bool

	// TimestampFormat to use for display when a full timestamp is printed.
	TimestampFormat string

	// DisableColors forces disabling colors.
	DisableColors bool

	// Color scheme to use.
	colorScheme log.CompiledColorScheme
}

// NewPrettyFormatter returns a new PrettyFormatter instance with default values.
func NewPrettyFormatter() *PrettyFormatter {
	return &PrettyFormatter{
		TimestampFormat: defaultTimestampFormat,
		colorScheme:     log.DefaultColorScheme(),
	}
}

// Format implements logrus.Formatter.
func (formatter *PrettyFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	buf := entry.Buffer
	if buf == nil {
		buf = new(bytes.Buffer)
	}

	var (
		level     = fmt.Sprintf("%-6s ", strings.ToUpper(log.FromLogrusLevel(entry.Level).String()))
		fields    = log.Fields(entry.Data)
		prefix    string
		timestamp string
	)

	if val, ok := fields[log.FieldKeyPrefix]; ok && val != nil {
		if val, ok := val.(string); ok && val != "" {
			prefix = fmt.Sprintf("[%s] ", val)
		}
	}

	if !formatter.DisableTimestamp && formatter.TimestampFormat != "" {
		timestamp = entry.Time.Format(formatter.TimestampFormat) + " "
	}

	if !formatter.DisableColors {
		level = formatter.colorScheme.LevelColorFunc(log.FromLogrusLevel(entry.Level))(level)
		prefix = formatter.colorScheme.ColorFunc(log.PrefixStyle)(prefix)
		timestamp = formatter.colorScheme.ColorFunc(log.TimestampStyle)(timestamp)
	}

	if _, err := fmt.Fprintf(buf, "%s%s%s%s", timestamp, level, prefix, entry.Message); err != nil {
		return nil, errors.WithStackTrace(err)
	}

	for _, key := range fields.Keys(log.FieldKeyPrefix) {
		if _, err := fmt.Fprintf(buf, " %s=%v", key, fields[key]); err != nil {
			return nil, errors.WithStackTrace(err)
		}
	}

	if err := buf.WriteByte('\n'); err != nil {
		return nil, errors.WithStackTrace(err)
	}

	return buf.Bytes(), nil
}
