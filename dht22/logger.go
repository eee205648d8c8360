// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht22

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface used by Dev.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NullLogger discards everything. It is the default.
type NullLogger struct{}

func (NullLogger) Debugf(format string, args ...interface{}) {}
func (NullLogger) Infof(format string, args ...interface{})  {}
func (NullLogger) Warnf(format string, args ...interface{})  {}
func (NullLogger) Errorf(format string, args ...interface{}) {}

// NewDefaultLogger returns a console Logger backed by zap. Debug messages are
// only emitted when debug is true.
func NewDefaultLogger(debug bool) Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return NullLogger{}
	}
	return l.Sugar()
}

var _ Logger = NullLogger{}
var _ Logger = (*zap.SugaredLogger)(nil)
