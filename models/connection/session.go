package connection

import (
	"bufio"
	"encoding/base64"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
)

// Transports a Link can run over.
const (
	TransportTCP = "tcp"
	TransportWs  = "ws"
)

const (
	frameTerminator  = '\n'
	closeGracePeriod = time.Second
)

// Link moves whole frames over one connection. ReadFrame blocks and must
// only be called from a single goroutine; WriteFrame is safe for
// concurrent use.
type Link interface {
	ReadFrame() (string, error)
	WriteFrame(frame string) error
	Close() error
	RemoteAddr() string
}

// lineLink frames messages as newline-terminated lines on a byte stream.
type lineLink struct {
	conn         net.Conn
	reader       *bufio.Reader
	writeTimeout time.Duration
	mu           sync.Mutex
}

func NewLineLink(conn net.Conn, writeTimeout time.Duration) Link {
	return &lineLink{
		conn:         conn,
		reader:       bufio.NewReader(conn),
		writeTimeout: writeTimeout,
	}
}

func (l *lineLink) ReadFrame() (string, error) {
	line, err := l.reader.ReadString(frameTerminator)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (l *lineLink) WriteFrame(frame string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writeTimeout > 0 {
		if err := l.conn.SetWriteDeadline(time.Now().Add(l.writeTimeout)); err != nil {
			return err
		}
	}
	_, err := l.conn.Write([]byte(frame + string(frameTerminator)))
	return err
}

func (l *lineLink) Close() error {
	return l.conn.Close()
}

func (l *lineLink) RemoteAddr() string {
	return l.conn.RemoteAddr().String()
}

// wsLink carries one message per websocket text frame.
type wsLink struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
}

func NewWsLink(conn *websocket.Conn, writeTimeout time.Duration) Link {
	return &wsLink{conn: conn, writeTimeout: writeTimeout}
}

func (l *wsLink) ReadFrame() (string, error) {
	// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
	// Control frames are handled by the library; only text is accepted here.
	messageType, payload, err := l.conn.ReadMessage()
	if err != nil {
		return "", err
	}
	if messageType != websocket.TextMessage {
		return "", cerr.ErrNonTextFrame(messageType)
	}
	return strings.TrimRight(string(payload), "\r\n"), nil
}

func (l *wsLink) WriteFrame(frame string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writeTimeout > 0 {
		if err := l.conn.SetWriteDeadline(time.Now().Add(l.writeTimeout)); err != nil {
			return err
		}
	}
	return l.conn.WriteMessage(websocket.TextMessage, []byte(frame))
}

func (l *wsLink) Close() error {
	l.mu.Lock()
	_ = l.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeGracePeriod),
	)
	l.mu.Unlock()
	return l.conn.Close()
}

func (l *wsLink) RemoteAddr() string {
	return l.conn.RemoteAddr().String()
}

// Session is one connected opponent. The id only labels logs and
// traces; the protocol never sends it.
type Session struct {
	id        string
	link      Link
	createdAt time.Time
}

func NewSession(link Link) *Session {
	return &Session{
		id:        base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String())),
		link:      link,
		createdAt: time.Now(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) RemoteAddr() string {
	return s.link.RemoteAddr()
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Send writes one message. There is no retry; a failed write is reported
// as a transport error.
func (s *Session) Send(m Message) error {
	if err := s.link.WriteFrame(Encode(m)); err != nil {
		return cerr.ErrSendFailed(s.RemoteAddr(), err)
	}
	return nil
}

// Receive blocks for the next frame and decodes it. Classify failures with
// OnConnErr.
func (s *Session) Receive() (Message, error) {
	frame, err := s.link.ReadFrame()
	if err != nil {
		return Message{}, err
	}
	return Decode(frame)
}

func (s *Session) Close() error {
	return s.link.Close()
}
