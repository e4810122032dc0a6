package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/appcurator/internal/domain/curator"
	"github.com/GriffinCanCode/appcurator/internal/infrastructure/monitoring"
)

const (
	writeWait    = 10 * time.Second
	outboundSize = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Counts are the view sizes carried by a frame
type Counts struct {
	Available  int `json:"available"`
	Installed  int `json:"installed"`
	Upgradable int `json:"upgradable"`
}

// Frame is one JSON message sent to stream clients
type Frame struct {
	Type          string  `json:"type"`
	ConnectionID  string  `json:"connection_id,omitempty"`
	PassID        string  `json:"pass_id,omitempty"`
	Category      string  `json:"category,omitempty"`
	UpgradeCount  int     `json:"upgrade_count"`
	Counts        *Counts `json:"counts,omitempty"`
	HostRefreshed bool    `json:"host_refreshed,omitempty"`
	Error         string  `json:"error,omitempty"`
	Timestamp     int64   `json:"timestamp"`
}

// ClientMessage is a message received from a stream client
type ClientMessage struct {
	Type string `json:"type"`
}

// Handler streams curator events over WebSocket
type Handler struct {
	curator *curator.Curator
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(cur *curator.Curator, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{curator: cur, metrics: metrics, logger: logger}
}

// FrameFor converts a curator event into a stream frame
func FrameFor(ev curator.Event) Frame {
	frame := Frame{
		Type:          string(ev.Type),
		PassID:        ev.PassID.String(),
		HostRefreshed: ev.HostRefreshed,
		Timestamp:     time.Now().Unix(),
	}
	if ev.Views != nil {
		frame.Category = ev.Views.Category
		frame.UpgradeCount = ev.Views.UpgradeCount
		frame.Counts = countsOf(ev.Views)
	}
	if ev.Err != nil {
		frame.Error = ev.Err.Error()
	}
	return frame
}

func countsOf(v *curator.ViewSet) *Counts {
	return &Counts{
		Available:  len(v.Available),
		Installed:  len(v.Installed),
		Upgradable: len(v.Upgradable),
	}
}

func snapshotFrame(v *curator.ViewSet) Frame {
	return Frame{
		Type:         "snapshot",
		PassID:       v.PassID.String(),
		Category:     v.Category,
		UpgradeCount: v.UpgradeCount,
		Counts:       countsOf(v),
		Timestamp:    time.Now().Unix(),
	}
}

// HandleConnection upgrades the request and streams events until the
// client goes away
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	logger := h.logger.With(zap.String("connection_id", connID))
	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	outbound := make(chan Frame, outboundSize)
	outbound <- Frame{Type: "system", ConnectionID: connID, Timestamp: time.Now().Unix()}

	done := make(chan struct{})
	defer close(done)

	// curator callbacks must never block a pass
	unsubscribe := h.curator.Subscribe(func(ev curator.Event) {
		select {
		case outbound <- FrameFor(ev):
		case <-done:
		default:
			logger.Warn("Dropping frame for slow client", zap.String("type", string(ev.Type)))
		}
	})
	defer unsubscribe()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case frame := <-outbound:
				if err := h.write(conn, frame); err != nil {
					logger.Debug("WebSocket write failed", zap.Error(err))
					return
				}
			case <-done:
				return
			}
		}
	}()

	if v := h.curator.Views(); v != nil {
		select {
		case outbound <- snapshotFrame(v):
		default:
		}
	}

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket closed", zap.Error(err))
			break
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		var reply Frame
		switch msg.Type {
		case "ping":
			reply = Frame{Type: "pong", Timestamp: time.Now().Unix()}
		case "snapshot":
			v := h.curator.Views()
			if v == nil {
				reply = Frame{Type: "error", Error: "no views yet", Timestamp: time.Now().Unix()}
			} else {
				reply = snapshotFrame(v)
			}
		default:
			reply = Frame{Type: "error", Error: "unknown message type", Timestamp: time.Now().Unix()}
		}

		select {
		case outbound <- reply:
		case <-writerDone:
			return
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, frame Frame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := conn.WriteJSON(frame); err != nil {
		return err
	}
	if h.metrics != nil {
		h.metrics.RecordWSMessage("out", frame.Type)
	}
	return nil
}
