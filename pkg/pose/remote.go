package pose

import (
	"fmt"
	"sync"
	"time"

	"github.com/AChakka/LiftMate/internal/entity"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IRemoteEstimator interface {
	IPoseEstimator
	Connect() error
	IsConnected() bool
	Close()
}

type RemoteOption func(*remoteEstimator)

func WithPingInterval(d time.Duration) RemoteOption {
	return func(r *remoteEstimator) { r.pingInterval = d }
}

func WithTimeouts(read, write time.Duration) RemoteOption {
	return func(r *remoteEstimator) {
		r.readTimeout = read
		r.writeTimeout = write
	}
}

// poseReply is what the pose service sends back for every frame.
type poseReply struct {
	Keypoints [][]float64 `json:"keypoints"`
	Error     string      `json:"error,omitempty"`
}

type remoteEstimator struct {
	url  string
	log  *logrus.Logger
	conn *websocket.Conn
	// held for a whole request/response round trip
	mu sync.Mutex

	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewRemoteEstimator talks to an external pose model over a websocket. The
// connection is opened lazily on the first Extract, or eagerly via Connect.
func NewRemoteEstimator(url string, logger *logrus.Logger, opts ...RemoteOption) IRemoteEstimator {
	r := &remoteEstimator{
		url:          url,
		log:          logger,
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *remoteEstimator) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connect()
}

func (r *remoteEstimator) IsConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn != nil
}

func (r *remoteEstimator) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drop()
}

func (r *remoteEstimator) Extract(ctx context.Context, image []byte) (entity.Keypoints, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		if err := r.connect(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
	}
	conn := r.conn

	_ = conn.SetWriteDeadline(deadline(ctx, r.writeTimeout))
	if err := conn.WriteMessage(websocket.BinaryMessage, image); err != nil {
		r.drop()
		return nil, fmt.Errorf("%w: sending frame: %v", ErrModelUnavailable, err)
	}

	_ = conn.SetReadDeadline(deadline(ctx, r.readTimeout))
	_, message, err := conn.ReadMessage()
	if err != nil {
		r.drop()
		return nil, fmt.Errorf("%w: reading reply: %v", ErrModelUnavailable, err)
	}
	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})

	return decodeReply(message)
}

// connect replaces the current connection. Callers hold r.mu.
func (r *remoteEstimator) connect() error {
	r.drop()

	if r.url == "" {
		return fmt.Errorf("pose service URL not configured")
	}

	r.log.WithField("url", r.url).Info("Connecting to pose service")

	dialer := websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(r.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", r.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		if err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(r.writeTimeout)); err != nil {
			r.log.WithField("error", err.Error()).Warn("Error sending pong to pose service")
		}
		return nil
	})

	r.conn = conn
	if r.pingInterval > 0 {
		go r.keepAlive(conn)
	}
	return nil
}

// drop closes the current connection. Callers hold r.mu.
func (r *remoteEstimator) drop() {
	if r.conn != nil {
		_ = r.conn.Close()
		r.conn = nil
	}
}

func (r *remoteEstimator) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(r.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		r.mu.Lock()
		if r.conn != conn {
			r.mu.Unlock()
			return
		}

		if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(r.writeTimeout)); err != nil {
			r.log.WithField("error", err.Error()).Warn("Ping to pose service failed, marking connection as dead")
			r.drop()
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
	}
}

func deadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}

func decodeReply(message []byte) (entity.Keypoints, error) {
	var reply poseReply
	if err := jsoniter.Unmarshal(message, &reply); err != nil {
		return nil, fmt.Errorf("error unmarshaling pose reply: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("pose service: %s", reply.Error)
	}
	if len(reply.Keypoints) == 0 {
		return nil, ErrNoDetection
	}

	kp := make(entity.Keypoints, len(reply.Keypoints))
	for i, pt := range reply.Keypoints {
		if len(pt) < 2 {
			return nil, fmt.Errorf("pose reply: keypoint %d has %d coordinates", i, len(pt))
		}
		kp[i] = entity.Keypoint{pt[0], pt[1]}
	}
	return kp, nil
}
