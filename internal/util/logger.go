package util

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const consoleTimeFormat = time.RFC3339

var pkgLogger atomic.Pointer[zerolog.Logger]

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	nop := zerolog.Nop()
	pkgLogger.Store(&nop)
}

// NewLogger creates a console logger writing to w at the named level.
// Writes to w are serialized, so the logger may be shared by goroutines.
func NewLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "parse log level %q", level)
	}
	out := zerolog.ConsoleWriter{Out: zerolog.SyncWriter(w), TimeFormat: consoleTimeFormat, NoColor: true}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// SetLogger replaces the logger used by Log and ProgressLogger.
func SetLogger(l zerolog.Logger) {
	pkgLogger.Store(&l)
}

// Logger returns the current package logger.
func Logger() *zerolog.Logger {
	return pkgLogger.Load()
}

// Log logs a message at debug level if verbose is true.
func Log(verbose bool, format string, args ...any) {
	if verbose {
		Logger().Debug().Msgf(format, args...)
	}
}

// ProgressLogger tracks and reports progress.
type ProgressLogger struct {
	totalEvents    uint64
	prefix         string
	loggedEvents   atomic.Uint64
	logStep        uint64
	nextEventToLog atomic.Uint64
	enabled        bool
	startTime      time.Time
}

// NewProgressLogger creates a new progress logger.
func NewProgressLogger(totalEvents uint64, prefix string, enable bool) *ProgressLogger {
	pl := &ProgressLogger{
		totalEvents: totalEvents,
		prefix:      prefix,
		enabled:     enable,
		startTime:   time.Now(),
	}

	percFraction := uint64(20) // 5% steps
	if totalEvents >= 100_000_000 {
		percFraction = 100 // 1% steps for large counts
	}
	pl.logStep = (totalEvents + percFraction - 1) / percFraction
	if pl.logStep == 0 {
		pl.logStep = 1
	}

	if enable {
		pl.nextEventToLog.Store(pl.logStep)
		pl.update(0, false)
	} else {
		pl.nextEventToLog.Store(^uint64(0))
	}
	return pl
}

// Add records n completed events. Safe for concurrent use.
func (pl *ProgressLogger) Add(n uint64) {
	if !pl.enabled {
		return
	}
	done := pl.loggedEvents.Add(n)
	next := pl.nextEventToLog.Load()
	if done >= next && pl.nextEventToLog.CompareAndSwap(next, next+pl.logStep) {
		pl.update(done, false)
	}
}

// Done returns the number of events recorded so far.
func (pl *ProgressLogger) Done() uint64 {
	return pl.loggedEvents.Load()
}

// Finalize reports the 100% progress update.
func (pl *ProgressLogger) Finalize() {
	if !pl.enabled {
		return
	}
	pl.loggedEvents.Store(pl.totalEvents)
	pl.update(pl.totalEvents, true)
}

func (pl *ProgressLogger) update(done uint64, final bool) {
	perc := uint64(0)
	if pl.totalEvents > 0 {
		perc = (100 * done) / pl.totalEvents
		if perc > 100 {
			perc = 100
		}
	}
	ev := Logger().Info().Str("stage", pl.prefix).Uint64("percent", perc)
	if final {
		ev = ev.Dur("elapsed", time.Since(pl.startTime))
	}
	ev.Msg("progress")
}
