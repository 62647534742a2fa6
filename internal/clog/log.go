// Copyright 2023 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package clog provides structured, leveled logging with the call shape
// log.Warn("msg", "key", val, ...) on top of logrus.
package clog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var root = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

func fields(ctx []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		key, ok := ctx[i].(string)
		if !ok {
			continue
		}
		f[key] = ctx[i+1]
	}
	return f
}

func Trace(msg string, ctx ...interface{}) { root.WithFields(fields(ctx)).Trace(msg) }
func Debug(msg string, ctx ...interface{}) { root.WithFields(fields(ctx)).Debug(msg) }
func Info(msg string, ctx ...interface{})  { root.WithFields(fields(ctx)).Info(msg) }
func Warn(msg string, ctx ...interface{})  { root.WithFields(fields(ctx)).Warn(msg) }
func Error(msg string, ctx ...interface{}) { root.WithFields(fields(ctx)).Error(msg) }
