package random

import "go.uber.org/zap"

// Logged wraps a Source and logs every draw at debug level, so a winner can
// be traced back to the value that produced it.
type Logged struct {
	src    Source
	logger *zap.Logger
}

// NewLogged returns a Source drawing from src and logging each value to logger.
//
// Precondition: src and logger must be non-nil.
func NewLogged(src Source, logger *zap.Logger) *Logged {
	return &Logged{src: src, logger: logger}
}

// Intn implements Source.
func (l *Logged) Intn(n int) int {
	v := l.src.Intn(n)
	l.logger.Debug("random draw",
		zap.String("kind", "intn"),
		zap.Int("n", n),
		zap.Int("value", v),
	)
	return v
}

// Float64 implements Source.
func (l *Logged) Float64() float64 {
	v := l.src.Float64()
	l.logger.Debug("random draw",
		zap.String("kind", "float64"),
		zap.Float64("value", v),
	)
	return v
}
