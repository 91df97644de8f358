// Copyright 2021 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultLogFile is where the JSON log is kept unless LogFileEnv says
	// otherwise. An empty LogFileEnv disables the file.
	DefaultLogFile = "/tmp/batchident.log"
	LogFileEnv     = "BATCHIDENT_LOG"
)

var (
	LogContainer     = logContainer{logFile: logFile(), console: os.Stderr}
	loggerInit       sync.Once
	simpleLoggerInit sync.Once
)

type logContainer struct {
	logger       *zap.Logger
	simpleLogger *zap.SugaredLogger
	logFile      string
	console      zapcore.WriteSyncer
}

func logFile() string {
	if p, ok := os.LookupEnv(LogFileEnv); ok {
		return p
	}
	return DefaultLogFile
}

// GetLogger returns the pointer to the logger and creates one if none exists
func (l *logContainer) GetLogger() *zap.Logger {
	loggerInit.Do(func() {
		l.logger = zap.New(l.getCombinedCore())
	})
	return l.logger
}

// GetSimpleLogger returns the pointer to the sugared logger and creates one
// if none exists
func (l *logContainer) GetSimpleLogger() *zap.SugaredLogger {
	simpleLoggerInit.Do(func() {
		l.simpleLogger = l.GetLogger().Sugar()
	})
	return l.simpleLogger
}

// String mirrors zap.String
func (l *logContainer) String(key string, val string) zap.Field {
	return zap.String(key, val)
}

// Int mirrors zap.Int
func (l *logContainer) Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

func getConsoleEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func getJsonEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.EpochTimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

func (l *logContainer) getLogWriter() (zapcore.WriteSyncer, error) {
	f, err := os.OpenFile(l.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(f), nil
}

func (l *logContainer) getConsoleCore() zapcore.Core {
	return zapcore.NewCore(getConsoleEncoder(), l.console, zapcore.InfoLevel)
}

// Early userspace may not have a writable /tmp yet, so the console core
// stands alone when the file cannot be opened.
func (l *logContainer) getCombinedCore() zapcore.Core {
	if l.logFile == "" {
		return l.getConsoleCore()
	}
	w, err := l.getLogWriter()
	if err != nil {
		return l.getConsoleCore()
	}
	return zapcore.NewTee(l.getConsoleCore(), zapcore.NewCore(getJsonEncoder(), w, zapcore.InfoLevel))
}
