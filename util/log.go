// Copyright 2016, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"errors"
	"os"
	"sync"

	"github.com/google/uuid"
	log "github.com/inconshreveable/log15"
)

// Severity is the severity of an audit message
type Severity string

// Audit severities
const (
	DEBUG  Severity = "Debug"
	INFO   Severity = "Informational"
	NOTICE Severity = "Notice"
	WARN   Severity = "Warning"
	ERROR  Severity = "Error"
	FATAL  Severity = "Fatal"
)

// LogContext is the minimal information every log line is tagged with
type LogContext interface {
	AppName() string
	SessionID() string
	LogRootDir() string
}

// BasicLogContext is a LogContext for code running outside any operation
type BasicLogContext struct {
	sessionID string
}

// AppName returns the application name
func (c *BasicLogContext) AppName() string {
	return AppName
}

// SessionID returns a Session ID, creating one if needed
func (c *BasicLogContext) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = PsuUUID()
	}
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *BasicLogContext) LogRootDir() string {
	return ""
}

// AppName is reported by every LogContext in this application
const AppName = "bf-planet"

// LogAuditInput describes who did what to whom
type LogAuditInput struct {
	Actor    string
	Action   string
	Actee    string
	Message  string
	Severity Severity
}

var setupOnce sync.Once

// SetupLogging configures the root logger with the given level name.
// Unknown levels fall back to info.
func SetupLogging(level string) {
	lvl, err := log.LvlFromString(level)
	if err != nil {
		lvl = log.LvlInfo
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.LogfmtFormat())))
}

func logger(ctx LogContext) log.Logger {
	setupOnce.Do(func() { SetupLogging(GetLogLevel()) })
	if ctx == nil {
		ctx = &BasicLogContext{}
	}
	return log.New("app", ctx.AppName(), "session", ctx.SessionID())
}

// LogAudit records an auditable action
func LogAudit(ctx LogContext, input LogAuditInput) {
	l := logger(ctx)
	fields := []interface{}{"actor", input.Actor, "action", input.Action, "actee", input.Actee}
	switch input.Severity {
	case DEBUG:
		l.Debug(input.Message, fields...)
	case WARN, NOTICE:
		l.Warn(input.Message, fields...)
	case ERROR:
		l.Error(input.Message, fields...)
	case FATAL:
		l.Crit(input.Message, fields...)
	default:
		l.Info(input.Message, fields...)
	}
}

// LogInfo logs an informational message
func LogInfo(ctx LogContext, message string) {
	logger(ctx).Info(message)
}

// LogAlert logs a message that needs someone's attention but is not an error
func LogAlert(ctx LogContext, message string) {
	logger(ctx).Warn(message)
}

// LogSimpleErr logs the message and the underlying error and returns
// an error carrying the message
func LogSimpleErr(ctx LogContext, message string, err error) error {
	if err == nil {
		err = errors.New(message)
		logger(ctx).Error(message)
		return err
	}
	logger(ctx).Error(message, "err", err)
	return &wrappedErr{message: message, err: err}
}

type wrappedErr struct {
	message string
	err     error
}

func (w *wrappedErr) Error() string {
	return w.message + " " + w.err.Error()
}

func (w *wrappedErr) Unwrap() error {
	return w.err
}

// PsuUUID returns a random session identifier
func PsuUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
