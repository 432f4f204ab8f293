package ws

import (
	"sync"

	"github.com/avvvet/poketracker/internal/comm"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type socket struct {
	mu   sync.Mutex // gorilla connections allow one concurrent writer
	conn Conn
}

type Ws struct {
	connMap sync.Map // socketId -> *socket
}

func NewWs() *Ws {
	return &Ws{}
}

func (s *Ws) StoreConnection(socketId string, conn Conn) {
	s.connMap.Store(socketId, &socket{conn: conn})
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
}

// Count returns the number of open sockets.
func (s *Ws) Count() int {
	count := 0
	s.connMap.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

// Broadcast sends msg to every socket. Sockets that fail to accept it are dropped.
func (s *Ws) Broadcast(msg *comm.WSMessage) {
	s.connMap.Range(func(key, value any) bool {
		socketId := key.(string)
		sk := value.(*socket)

		sk.mu.Lock()
		err := sk.conn.WriteJSON(msg)
		sk.mu.Unlock()

		if err != nil {
			log.Warnf("dropping socket %s after write error: %v", socketId, err)
			sk.conn.Close()
			s.HandleDisconnect(socketId)
		}
		return true // continue iterating
	})
}

var _ Conn = (*websocket.Conn)(nil)
