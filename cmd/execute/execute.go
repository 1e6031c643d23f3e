// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package execute implements the exec subcommand.
package execute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/cmdhost/cmd/cmdstate"
	"github.com/matt-FFFFFF/cmdhost/internal/color"
	"github.com/urfave/cli/v3"
)

var (
	// ErrMissingCommand is returned when no command id is given.
	ErrMissingCommand = errors.New("missing command id")
	// ErrWriteResult is returned when the result cannot be written.
	ErrWriteResult = errors.New("failed to write result")
)

// ExecCmd executes a command on the host.
var ExecCmd = &cli.Command{
	Name:      "exec",
	Usage:     "Execute a command by id",
	ArgsUsage: "ID [ARGS...]",
	Description: `Execute a command on the host and print its result as JSON.
Each argument that is valid JSON is passed as the decoded value, anything else as a string.
A command the host does not know yet is retried once after the host had the chance to
activate it.`,
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return cli.Exit(ErrMissingCommand.Error(), 1)
	}

	f, closeFn, err := cmdstate.Facade(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer closeFn()

	res, err := f.ExecuteCommand(ctx, id, ParseArgs(cmd.Args().Tail())...)
	if err != nil {
		return cli.Exit(fmt.Sprintf("command %s failed: %s", id, err), 1)
	}

	w := cmd.Root().Writer

	return WriteResult(w, res, color.EnabledFor(w))
}

// ParseArgs decodes each argument that is valid JSON and keeps the others as strings.
func ParseArgs(raw []string) []any {
	args := make([]any, 0, len(raw))

	for _, a := range raw {
		var v any
		if json.Valid([]byte(a)) && json.Unmarshal([]byte(a), &v) == nil {
			args = append(args, v)
			continue
		}

		args = append(args, a)
	}

	return args
}

// WriteResult writes res as indented JSON followed by a newline.
func WriteResult(w io.Writer, res any, colour bool) error {
	f := colorjson.NewFormatter()
	f.Indent = 2
	f.DisabledColor = !colour

	out, err := f.Marshal(res)
	if err != nil {
		return errors.Join(ErrWriteResult, err)
	}

	if _, err := fmt.Fprintln(w, string(out)); err != nil {
		return errors.Join(ErrWriteResult, err)
	}

	return nil
}
