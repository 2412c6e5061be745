package ndstats

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/hupe1980/ndstats/resource"
)

// DefaultParallelThreshold is the array size below which lanes are
// evaluated on the calling goroutine's single worker.
const DefaultParallelThreshold = 1 << 15

// envWorkers is the worker count from NDSTATS_WORKERS, read once at init.
// Zero means unset.
var envWorkers int

func init() {
	if v := os.Getenv("NDSTATS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			envWorkers = n
		}
	}
}

type options struct {
	workers           int
	parallelThreshold int
	logger            *Logger
	metricsCollector  MetricsCollector
	rc                *resource.Controller
}

// Option configures an axis computation.
type Option func(*options)

// WithWorkers caps the number of goroutines evaluating lanes. Values <= 0
// restore the default: NDSTATS_WORKERS if set, otherwise GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithParallelThreshold sets the array size from which lanes are spread
// over several workers. Zero parallelizes every call.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		o.parallelThreshold = n
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
//
// Example:
//
//	logger := ndstats.NewJSONLogger(slog.LevelDebug)
//	q, err := ndstats.QuantileAxis(ctx, a, 0, 0.9, ndstats.Linear, ndstats.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel is WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector. Pass nil to disable
// metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithResourceController shares scratch memory and worker budgets across
// calls. A nil controller imposes no limits.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		workers:           envWorkers,
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = envWorkers
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}

// workersFor returns how many workers evaluate lanes lanes of an array of
// size elements.
func (o *options) workersFor(lanes, size int) int {
	if lanes <= 1 || size < o.parallelThreshold {
		return 1
	}
	w := o.workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if m := o.rc.MaxWorkers(); m > 0 && int64(w) > m {
		w = int(m)
	}
	return max(1, min(w, lanes))
}
