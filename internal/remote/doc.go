// Package remote gives the publisher a "list directory / fetch file" view of
// a session-oriented FTP archive that drops idle sessions.
//
// # Overview
//
// Client wraps a Transport (normally FTPTransport over github.com/jlaffaye/ftp).
// Every command goes through one choke point which:
//
//  1. logs the command (passwords redacted),
//  2. on a transient failure, re-dials, logs in again with the same
//     Credentials and resends the command exactly once,
//  3. surfaces the failure without reconnecting when the same command
//     fails transiently again right after a reconnect.
//
// Permanent failures (5xx replies, unknown paths) are never retried.
//
// # Errors
//
// All failures are *Error values. Match the class with
// errors.Is(err, ErrTransient) or errors.Is(err, ErrPermanent).
//
// Client is not safe for concurrent use; the publisher drives it from a
// single goroutine.
package remote
