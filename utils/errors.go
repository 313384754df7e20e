package utils

import (
	"fmt"
	"strings"
)

// ConfigurationError reports missing or invalid configuration. It is
// raised before any network activity and is fatal for the process.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ConnectionError reports a transport-level failure reaching the mail
// server. Fatal for the current operation; never retried.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// AuthenticationError reports rejected mailbox credentials.
type AuthenticationError struct {
	User string
	Err  error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("login failed for %s: %v", e.User, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// NotFoundError reports a message id that no longer resolves, e.g. the
// message was deleted in another session.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("message %s not found", e.ID)
}

// FolderNotFoundError reports that none of the probed folder-name
// candidates was accepted by the server. The candidate list is kept for
// diagnosis because drafts/trash naming varies across providers.
type FolderNotFoundError struct {
	Candidates []string
}

func (e *FolderNotFoundError) Error() string {
	return "no usable folder among candidates: " + strings.Join(e.Candidates, ", ")
}

// ParseError reports a header or date that could not be interpreted.
// Always recovered locally by substituting a safe default; never
// propagated past the decoder.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError reports a rejected draft append.
type WriteError struct {
	Folder string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("append to %s rejected: %v", e.Folder, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
