package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pickyrec/picky/core"
)

// SessionStore 是会话持久化的领域接口：进程内用 MemoryStore，
// 多实例部署用 KVStore（Redis 等）共享会话。
type SessionStore interface {
	// Create 保存新会话，ID 已存在时报错
	Create(ctx context.Context, s *Session) error

	// Get 读取会话，不存在时返回 NOT_FOUND
	Get(ctx context.Context, id string) (*Session, error)

	// Save 回写已有会话
	Save(ctx context.Context, s *Session) error

	// Delete 删除会话，不存在时静默成功
	Delete(ctx context.Context, id string) error
}

// ErrSessionNotFound 表示会话不存在。
var ErrSessionNotFound = core.NewDomainError(core.ModuleSession, core.ErrorCodeNotFound, "session: not found")

// MemoryStore 是进程内会话存储。
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return core.ErrInvalidContext
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; ok {
		return core.NewDomainError(core.ModuleSession, core.ErrorCodeInvalidInput, "session: id already exists")
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return core.ErrInvalidContext
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

var _ SessionStore = (*MemoryStore)(nil)

// KVStore 把会话 JSON 序列化后放进 core.Store，供多实例共享。
// TTLSeconds > 0 时会话随 TTL 过期，过期等同于不存在。
type KVStore struct {
	Store core.Store
	// KeyPrefix 默认 "session:"。
	KeyPrefix string
	// TTLSeconds 会话过期时间（秒），<=0 表示不过期。
	TTLSeconds int
}

func NewKVStore(store core.Store) *KVStore {
	return &KVStore{Store: store, KeyPrefix: "session:"}
}

func (k *KVStore) key(id string) string {
	prefix := k.KeyPrefix
	if prefix == "" {
		prefix = "session:"
	}
	return prefix + id
}

func (k *KVStore) Create(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return core.ErrInvalidContext
	}
	if _, err := k.Get(ctx, s.ID); err == nil {
		return core.NewDomainError(core.ModuleSession, core.ErrorCodeInvalidInput, "session: id already exists")
	}
	return k.Save(ctx, s)
}

func (k *KVStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := k.Store.Get(ctx, k.key(id))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session: load %q: %w", id, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: decode %q: %w", id, err)
	}
	return &s, nil
}

func (k *KVStore) Save(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return core.ErrInvalidContext
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode %q: %w", s.ID, err)
	}
	if k.TTLSeconds > 0 {
		return k.Store.Set(ctx, k.key(s.ID), data, k.TTLSeconds)
	}
	return k.Store.Set(ctx, k.key(s.ID), data)
}

func (k *KVStore) Delete(ctx context.Context, id string) error {
	return k.Store.Delete(ctx, k.key(id))
}

var _ SessionStore = (*KVStore)(nil)
