package utils

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logMessageKey = "message"

// NewApplicationLogger builds the console logger shared by every component.
// Entries go to stderr as bare messages followed by their fields; debug
// entries are kept only when verbose is set.
func NewApplicationLogger(verbose bool) (*zap.Logger, error) {
	minimumLevel := zapcore.InfoLevel
	if verbose {
		minimumLevel = zapcore.DebugLevel
	}
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:     logMessageKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(minimumLevel))
	return zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr))), nil
}
