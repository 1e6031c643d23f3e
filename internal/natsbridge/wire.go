// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package natsbridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/cmdhost/internal/peer"
)

// InstanceHeader carries the facade instance id on every request.
const InstanceHeader = "Cmdhost-Instance"

// Error kinds on the wire.
const (
	kindRetry    = "retry"
	kindNotFound = "not_found"
	kindRemote   = "remote"
)

// ErrDecode is returned when a message cannot be decoded.
var ErrDecode = errors.New("failed to decode message")

// Subjects derives every subject name from a prefix.
type Subjects struct {
	Prefix string
}

// Register is the subject facades use to announce a command.
func (s Subjects) Register() string { return s.Prefix + ".host.register" }

// Unregister is the subject facades use to withdraw a command.
func (s Subjects) Unregister() string { return s.Prefix + ".host.unregister" }

// Execute is the subject facades use to execute a command on the host.
func (s Subjects) Execute() string { return s.Prefix + ".host.execute" }

// List is the subject facades use to list the host's commands.
func (s Subjects) List() string { return s.Prefix + ".host.list" }

// Bye is the subject a facade uses to end its session.
func (s Subjects) Bye() string { return s.Prefix + ".host.bye" }

// Contributed is the subject on which the facade instance serves its own commands.
func (s Subjects) Contributed(instanceID string) string {
	return s.Prefix + ".contrib." + instanceID + ".execute"
}

type idRequest struct {
	ID string `json:"id"`
}

type executeRequest struct {
	ID    string `json:"id"`
	Args  []any  `json:"args,omitempty"`
	Retry bool   `json:"retry,omitempty"`
}

type reply struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *wireError      `json:"error,omitempty"`
}

type wireError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// kindError keeps the peer's message while matching the sentinel of its kind.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func toWireError(err error) *wireError {
	var re *peer.RemoteError

	switch {
	case peer.IsRetryable(err):
		return &wireError{Kind: kindRetry, Message: err.Error()}
	case errors.Is(err, peer.ErrCommandNotFound):
		return &wireError{Kind: kindNotFound, Message: err.Error()}
	case errors.As(err, &re):
		return &wireError{Kind: kindRemote, Message: re.Message}
	default:
		return &wireError{Kind: kindRemote, Message: err.Error()}
	}
}

func (w *wireError) toError() error {
	switch w.Kind {
	case kindRetry:
		return &kindError{msg: w.Message, kind: peer.ErrRetryable}
	case kindNotFound:
		return &kindError{msg: w.Message, kind: peer.ErrCommandNotFound}
	default:
		return peer.NewRemoteError(w.Message)
	}
}

func encodeReply(result any, err error) []byte {
	r := reply{}

	if err != nil {
		r.Error = toWireError(err)
	} else if result != nil {
		raw, merr := json.Marshal(result)
		if merr != nil {
			r.Error = &wireError{Kind: kindRemote, Message: fmt.Sprintf("result not encodable: %s", merr)}
		} else {
			r.Result = raw
		}
	}

	data, _ := json.Marshal(r) // reply only holds encodable fields

	return data
}

func decodeReply(data []byte) (json.RawMessage, error) {
	var r reply
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}

	if r.Error != nil {
		return nil, r.Error.toError()
	}

	return r.Result, nil
}

func decodeResult(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}

	return v, nil
}
