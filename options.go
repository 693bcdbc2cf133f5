package epubdoc

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Option configures a Book at open time.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	maxEntrySize int64
}

func defaultOptions() options {
	return options{
		logger:       slog.New(slog.DiscardHandler),
		maxEntrySize: defaultMaxEntrySize,
	}
}

// WithLogger sets the logger that receives warnings about recoverable
// problems (unreadable content items, dangling TOC links, and so on).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxEntrySize caps the decompressed size of any single archive entry.
func WithMaxEntrySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEntrySize = n
		}
	}
}

// reporter logs recoverable problems and keeps them for Book.Warnings.
type reporter struct {
	logger *slog.Logger

	mu       sync.Mutex
	warnings []string
}

func (r *reporter) warn(msg string, args ...any) {
	r.logger.Warn(msg, args...)

	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	r.mu.Lock()
	r.warnings = append(r.warnings, b.String())
	r.mu.Unlock()
}

func (r *reporter) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warnings...)
}
