package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"clc-quiz-service/internal/app"
	"clc-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.GameService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Tier string `json:"tier"`
}

type answerPayload struct {
	Option string `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one game per connection.
// playerId, name and avatarSeed query parameters identify the player; without playerId
// the game is anonymous and earned experience is not persisted.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	player := playerFromQuery(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", slog.Any("err", err))
		return
	}
	defer conn.Close()

	game, err := h.service.Open(r.Context(), player)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Close(game.ID())

	updates, cancel := game.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer: gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", slog.Any("err", err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case state, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: state}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	sendError := func(msg string) {
		select {
		case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}:
		case <-writerDone:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendError("invalid start payload")
				continue
			}
			tier, err := domain.ParseTier(payload.Tier)
			if err != nil {
				sendError(err.Error())
				continue
			}
			if err := game.Start(r.Context(), tier); err != nil {
				sendError(err.Error())
			}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendError("invalid answer payload")
				continue
			}
			game.Answer(payload.Option)
		case "replay":
			if err := game.Replay(r.Context()); err != nil {
				sendError(err.Error())
			}
		case "menu":
			game.Menu()
		default:
			sendError("unsupported message type")
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func playerFromQuery(r *http.Request) *domain.Player {
	q := r.URL.Query()
	id := q.Get("playerId")
	if id == "" {
		return nil
	}
	name := q.Get("name")
	if name == "" {
		name = id
	}
	return &domain.Player{ID: id, Name: name, AvatarSeed: q.Get("avatarSeed")}
}
