/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package livestatus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	perrors "github.com/davejbarnes/pyngctl/pkg/errors"
)

// Querier runs a Livestatus query and returns the raw reply.
type Querier interface {
	Query(ctx context.Context, statements []string) (string, error)
}

// CommandWriter delivers one external command line.
type CommandWriter interface {
	WriteCommand(ctx context.Context, line string) error
}

// SocketQuerier queries Livestatus over a unix socket. Each query uses its
// own connection: the request is written, the write side closed, and the
// reply read until EOF.
type SocketQuerier struct {
	Path        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// Query implements Querier.
func (q *SocketQuerier) Query(ctx context.Context, statements []string) (string, error) {
	start := time.Now()
	defer func() {
		queryDuration.Observe(time.Since(start).Seconds())
	}()

	d := net.Dialer{Timeout: q.DialTimeout}
	conn, err := d.DialContext(ctx, "unix", q.Path)
	if err != nil {
		return "", classify(fmt.Sprintf("failed to connect to livestatus socket %s", q.Path), err)
	}
	defer conn.Close()

	var deadline time.Time
	if q.ReadTimeout > 0 {
		deadline = time.Now().Add(q.ReadTimeout)
	}
	if dl, ok := ctx.Deadline(); ok && (deadline.IsZero() || dl.Before(deadline)) {
		deadline = dl
	}
	if !deadline.IsZero() {
		if err := conn.SetDeadline(deadline); err != nil {
			return "", perrors.Wrap(perrors.ErrCodeInternal, "failed to set socket deadline", err)
		}
	}

	if _, err := io.WriteString(conn, strings.Join(statements, "\n")+"\n"); err != nil {
		return "", classify("failed to send livestatus query", err)
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		if err := uc.CloseWrite(); err != nil {
			return "", classify("failed to finish livestatus query", err)
		}
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return "", classify("failed to read livestatus reply", err)
	}
	return string(reply), nil
}

// PipeWriter appends command lines to the external command pipe.
type PipeWriter struct {
	Path string
}

// WriteCommand implements CommandWriter.
func (w *PipeWriter) WriteCommand(_ context.Context, line string) error {
	f, err := os.OpenFile(w.Path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return classify(fmt.Sprintf("failed to open command pipe %s", w.Path), err)
	}
	if _, err := io.WriteString(f, line); err != nil {
		_ = f.Close()
		return classify("failed to write command", err)
	}
	if err := f.Close(); err != nil {
		return classify("failed to close command pipe", err)
	}
	return nil
}

// classify wraps an I/O error with a timeout or unavailable code.
func classify(msg string, err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return perrors.Wrap(perrors.ErrCodeTimeout, msg, err)
	}
	return perrors.Wrap(perrors.ErrCodeUnavailable, msg, err)
}
