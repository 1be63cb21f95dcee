// server/websocket.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aerosurvey/pathgen/flightpath"
	"github.com/aerosurvey/pathgen/util"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// websocketHandler serves a connection on which each text message is a
// request and is answered by one Response message, in order.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{EnableCompression: false}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.lg.Errorf("Unable to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	s.wsConnections.Add(1)
	lg := s.lg.With(slog.String("remote", r.RemoteAddr))
	lg.Info("websocket connected")

	for {
		ty, msg, err := conn.ReadMessage()
		if err != nil {
			var cerr *websocket.CloseError
			if !errors.As(err, &cerr) {
				lg.Warnf("websocket read: %v", err)
			}
			lg.Info("websocket closed")
			return
		}
		if ty != websocket.TextMessage {
			lg.Warnf("ignoring websocket message of type %d", ty)
			continue
		}

		id := uuid.NewString()
		rlg := lg.With(slog.String("request_id", id))

		var resp Response
		var req flightpath.Request
		if err := util.UnmarshalJSONBytes(msg, &req); err != nil {
			resp, _ = makeResponse(id, nil, fmt.Errorf("%w: %v", ErrBadRequestBody, err))
		} else {
			res, err := s.Generate(req, rlg)
			resp, _ = makeResponse(id, res, err)
		}
		if resp.Error != "" {
			rlg.Info("request failed", slog.String("error", resp.Error))
		}

		if err := conn.WriteJSON(resp); err != nil {
			lg.Warnf("websocket write: %v", err)
			return
		}
	}
}
