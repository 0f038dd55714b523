package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"production-ledger/internal/config"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// errorTeeHandler writes every enabled record to out and copies records at
// Error and above to errs, so the error log keeps failures even when stdout
// is filtered.
type errorTeeHandler struct {
	out  slog.Handler
	errs slog.Handler
}

func (h *errorTeeHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.out.Enabled(ctx, lvl) || (lvl >= slog.LevelError && h.errs.Enabled(ctx, lvl))
}

func (h *errorTeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var outErr, errsErr error

	if h.out.Enabled(ctx, r.Level) {
		outErr = h.out.Handle(ctx, r)
	}
	if r.Level >= slog.LevelError && h.errs.Enabled(ctx, r.Level) {
		errsErr = h.errs.Handle(ctx, r.Clone())
	}

	return errors.Join(outErr, errsErr)
}

func (h *errorTeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errorTeeHandler{out: h.out.WithAttrs(attrs), errs: h.errs.WithAttrs(attrs)}
}

func (h *errorTeeHandler) WithGroup(name string) slog.Handler {
	return &errorTeeHandler{out: h.out.WithGroup(name), errs: h.errs.WithGroup(name)}
}

func newLogger(env string, out, errs io.Writer) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	var core slog.Handler
	switch env {
	case envDev, envProd:
		core = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	default:
		core = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}

	if errs == nil {
		return slog.New(core)
	}

	return slog.New(&errorTeeHandler{
		out:  core,
		errs: slog.NewJSONHandler(errs, &slog.HandlerOptions{Level: slog.LevelError}),
	})
}

// setupLogger logs to stdout and, when cfg.ErrorLog is set, appends errors
// to that file. The returned func closes the file.
func setupLogger(cfg config.Config) (*slog.Logger, func()) {
	if cfg.ErrorLog == "" {
		return newLogger(cfg.Env, os.Stdout, nil), func() {}
	}

	f, err := os.OpenFile(cfg.ErrorLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		log := newLogger(cfg.Env, os.Stdout, nil)
		log.Warn("cannot open error log", slog.String("path", cfg.ErrorLog), slog.String("error", err.Error()))
		return log, func() {}
	}

	log := newLogger(cfg.Env, os.Stdout, f)
	return log, func() {
		if err := f.Close(); err != nil {
			log.Warn("cannot close error log", slog.String("path", cfg.ErrorLog), slog.String("error", err.Error()))
		}
	}
}
