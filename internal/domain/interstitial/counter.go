// Package interstitial decide cuándo mostrar un anuncio intersticial:
// cada N interacciones de escritura del usuario.
package interstitial

import (
	"sync"
	"time"
)

const DefaultEvery = 5

// Counter cuenta interacciones y dispara cada `every`.
// Es seguro para uso concurrente.
type Counter struct {
	mu    sync.Mutex
	every int
	count int
}

func NewCounter(every int) *Counter {
	if every <= 0 {
		every = DefaultEvery
	}
	return &Counter{every: every}
}

// Record registra una interacción y devuelve true cuando toca mostrar.
// El contador vuelve a 0 al disparar.
func (c *Counter) Record() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.count++
	if c.count >= c.every {
		c.count = 0
		return true
	}
	return false
}

// pending devuelve las interacciones desde el último disparo.
func (c *Counter) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Sessions mantiene un Counter por usuario.
// Las sesiones sin actividad durante idleTTL se descartan (el conteo reinicia)
// y se barren del mapa como mucho una vez por idleTTL.
type Sessions struct {
	mu        sync.Mutex
	every     int
	idleTTL   time.Duration
	now       func() time.Time
	byUser    map[string]*session
	lastSweep time.Time
}

type session struct {
	counter  *Counter
	lastSeen time.Time
}

func NewSessions(every int, idleTTL time.Duration) *Sessions {
	return &Sessions{
		every:   every,
		idleTTL: idleTTL,
		now:     time.Now,
		byUser:  map[string]*session{},
	}
}

// Record registra una interacción de userID.
func (s *Sessions) Record(userID string) bool {
	return s.counterFor(userID).Record()
}

func (s *Sessions) counterFor(userID string) *Counter {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(now)

	if sess, ok := s.byUser[userID]; ok {
		if s.idleTTL <= 0 || now.Sub(sess.lastSeen) < s.idleTTL {
			sess.lastSeen = now
			return sess.counter
		}
	}

	sess := &session{counter: NewCounter(s.every), lastSeen: now}
	s.byUser[userID] = sess
	return sess.counter
}

// sweep borra las sesiones vencidas. Requiere lock tomado.
func (s *Sessions) sweep(now time.Time) {
	if s.idleTTL <= 0 {
		return
	}
	if s.lastSweep.IsZero() {
		s.lastSweep = now
		return
	}
	if now.Sub(s.lastSweep) < s.idleTTL {
		return
	}
	for uid, sess := range s.byUser {
		if now.Sub(sess.lastSeen) >= s.idleTTL {
			delete(s.byUser, uid)
		}
	}
	s.lastSweep = now
}

// size devuelve cuántas sesiones hay en memoria.
func (s *Sessions) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byUser)
}
