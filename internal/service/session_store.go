package service

import "sync"

// SessionStore отделяет хранение сессий от логики диалога,
// чтобы in-memory реализацию можно было заменить на постоянную
type SessionStore interface {
	Get(userID int64) *Session
	Put(userID int64, session *Session)
}

// MemorySessionStore хранит сессии в памяти процесса.
// Данные теряются при рестарте.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[int64]*Session),
	}
}

// Get возвращает сессию пользователя, создавая новую при первом обращении
func (ms *MemorySessionStore) Get(userID int64) *Session {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	session, exists := ms.sessions[userID]
	if !exists {
		session = &Session{
			UserID: userID,
			State:  StateSelectSubject,
		}
		ms.sessions[userID] = session
	}

	return session
}

func (ms *MemorySessionStore) Put(userID int64, session *Session) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.sessions[userID] = session
}
