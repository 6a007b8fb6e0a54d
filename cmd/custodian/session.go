// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package main

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

var errPeerGone = errors.New("peer closed the connection")

// pipe is one side of an in-process, message-oriented connection.
type pipe struct {
	in  <-chan []byte
	out chan<- []byte
}

func (p *pipe) send(ctx context.Context, msg []byte) error {
	select {
	case p.out <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pipe) receive(ctx context.Context) ([]byte, error) {
	select {
	case msg, ok := <-p.in:
		if !ok {
			return nil, errPeerGone
		}

		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// converse runs both halves concurrently, connected to each other. Each half closes its sending end when it returns,
// so a half that fails unblocks its peer.
func converse(ctx context.Context, client, server func(ctx context.Context, p *pipe) error) error {
	toServer := make(chan []byte)
	toClient := make(chan []byte)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(toServer)
		return client(ctx, &pipe{in: toClient, out: toServer})
	})

	g.Go(func() error {
		defer close(toClient)
		return server(ctx, &pipe{in: toServer, out: toClient})
	})

	return g.Wait()
}
