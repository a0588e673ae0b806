package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/bjaus/colfmt/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextWithLogger(t *testing.T) {
	t.Parallel()
	ctx, rlog := logger.ContextWithLogger(context.Background())
	require.NotNil(t, rlog)
	id := logger.RunID(ctx)
	assert.Len(t, id, 36)
	assert.Same(t, rlog, logger.FromContext(ctx))

	// A second call keeps the existing entry.
	ctx2, rlog2 := logger.ContextWithLogger(ctx)
	assert.Equal(t, ctx, ctx2)
	assert.Same(t, rlog, rlog2)

	ctx3, _ := logger.ContextWithLogger(nil)
	assert.NotEqual(t, id, logger.RunID(ctx3))
}

func TestFromContextDefault(t *testing.T) {
	t.Parallel()
	rlog := logger.FromContext(context.Background())
	require.NotNil(t, rlog)
	assert.Empty(t, logger.RunID(context.Background()))
}

func TestWithLogger(t *testing.T) {
	t.Parallel()
	log, hook := test.NewNullLogger()
	ctx := logger.WithLogger(context.Background(), logrus.NewEntry(log).WithField("runID", "abc"))
	logger.FromContext(ctx).Info("hello")

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "abc", hook.LastEntry().Data["runID"])
	assert.Equal(t, "abc", logger.RunID(ctx))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input   string
		want    logrus.Level
		wantErr require.ErrorAssertionFunc
	}{
		"empty":   {input: "", want: logrus.InfoLevel, wantErr: require.NoError},
		"debug":   {input: "debug", want: logrus.DebugLevel, wantErr: require.NoError},
		"warn":    {input: "warn", want: logrus.WarnLevel, wantErr: require.NoError},
		"unknown": {input: "loud", wantErr: require.Error},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := logger.ParseLevel(tt.input)
			tt.wantErr(t, err)
			if err == nil {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// Init mutates the standard logger, so it runs serially.
func TestInit(t *testing.T) {
	std := logrus.StandardLogger()
	prevOut, prevFormatter, prevLevel := std.Out, std.Formatter, std.GetLevel()
	t.Cleanup(func() {
		std.SetOutput(prevOut)
		std.SetFormatter(prevFormatter)
		std.SetLevel(prevLevel)
	})

	var buf bytes.Buffer
	logger.Init(logrus.WarnLevel)
	std.SetOutput(&buf)
	logrus.Info("hidden")
	logrus.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Regexp(t, `time="\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}"`, buf.String())
}
