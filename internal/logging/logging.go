// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package logging builds the process-wide slog logger. Development gets a
// text handler on stdout; every other environment gets JSON. When a log
// file is configured, output is also written to a size-rotated file.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"pressdesk/internal/config"
)

// Options controls logger construction. It mirrors the logging section of
// config.Config so tests can build a logger without loading the environment.
type Options struct {
	Level      string // debug, info, warn, error; empty picks a default
	Dev        bool
	File       string // empty = stdout only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// FromConfig extracts logger options from the application config.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Level:      cfg.LogLevel,
		Dev:        cfg.IsDev(),
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	}
}

// Setup builds a logger writing to stdout (and the rotated file, if any),
// installs it as the slog default and returns it together with a close
// function for the file writer.
func Setup(opts Options) (*slog.Logger, func() error) {
	var (
		w       io.Writer = os.Stdout
		closeFn           = func() error { return nil }
	)
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stdout, rotator)
		closeFn = rotator.Close
	}

	logger := New(w, opts)
	slog.SetDefault(logger)
	return logger, closeFn
}

// New builds a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level, opts.Dev)}
	if opts.Dev {
		return slog.New(slog.NewTextHandler(w, handlerOpts))
	}
	return slog.New(slog.NewJSONHandler(w, handlerOpts))
}

// ParseLevel maps a level name to a slog.Level. An empty or unknown name
// yields debug in development and info elsewhere.
func ParseLevel(name string, dev bool) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if dev {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
