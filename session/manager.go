package session

import (
	"context"
	"sync"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/engine"
	"github.com/pickyrec/picky/profile"
)

// ErrSessionClosed 表示对已关闭会话的轮次/反馈操作。
var ErrSessionClosed = core.NewDomainError(core.ModuleSession, core.ErrorCodeSessionClosed, "session: already closed")

// RoundRequest 是一轮推荐的输入：候选目录加可选的位置/城市条件。
// 位置条件缺省时沿用会话创建时的 Target。
type RoundRequest struct {
	Restaurants []*core.Restaurant

	Origin   *core.GeoPoint
	RadiusKm float64
	City     string
	State    string

	// Visited 用户已到访集合，供去重过滤。
	Visited []*core.Restaurant

	// Limit 每轮返回条数，<=0 取引擎默认值。
	Limit int
}

// Feedback 是一轮展示后的用户反馈。
// 同一 ID 同时出现在 Liked 与 Disliked 时按不喜欢处理。
type Feedback struct {
	Liked    []string
	Disliked []string

	// ExplicitTags 是用户主动点名的口味（"想吃辣的"），
	// 画像里对应标签会被抬到当前权重最高档。
	ExplicitTags []string
}

// Manager 驱动多轮会话：出一轮、收反馈、在线调画像、关会话。
// 同一会话上的操作按会话粒度加锁串行化，不同会话互不阻塞。
type Manager struct {
	Engine *engine.Engine
	Store  SessionStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(eng *engine.Engine, store SessionStore) *Manager {
	if eng == nil {
		eng = engine.NewEngine()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{
		Engine: eng,
		Store:  store,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Start 创建并启动会话（CREATED→ACTIVE）：画像深拷贝为会话快照，
// target 作为默认位置条件。
func (m *Manager) Start(ctx context.Context, userID string, p *core.PreferenceProfile, target Target) (*Session, error) {
	if userID == "" {
		return nil, core.ErrInvalidContext
	}
	s := NewSession(userID, p, target)
	s.State = StateActive
	if err := m.Store.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// NextRound 出一轮推荐：会话内已展示过的餐厅不会再出现。
// 候选集全部展示完时返回空切片，调用方据此提示"没有更多了"。
func (m *Manager) NextRound(ctx context.Context, sessionID string, req *RoundRequest) ([]*core.Recommendation, error) {
	if req == nil {
		return nil, core.ErrInvalidContext
	}

	unlock := m.lock(sessionID)
	defer unlock()

	s, err := m.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Closed() {
		return nil, ErrSessionClosed
	}

	target := Target{
		Origin:   req.Origin,
		RadiusKm: req.RadiusKm,
		City:     req.City,
		State:    req.State,
	}
	if target.Empty() {
		target = s.Target
	}

	rctx := &core.RecommendContext{
		UserID:   s.UserID,
		Profile:  s.Profile,
		Origin:   target.Origin,
		RadiusKm: target.RadiusKm,
		City:     target.City,
		State:    target.State,
		Visited:  req.Visited,
		Shown:    s.Shown,
	}

	recs, err := m.Engine.Recommend(ctx, rctx, req.Restaurants, req.Limit)
	if err != nil {
		return nil, err
	}

	s.MarkShown(recs)
	if err := m.Store.Save(ctx, s); err != nil {
		return nil, err
	}
	return recs, nil
}

// ApplyFeedback 吸收一轮反馈：按 Nudge 调整会话画像快照。
// 只认会话内展示过的餐厅 ID，其余忽略。
func (m *Manager) ApplyFeedback(ctx context.Context, sessionID string, fb *Feedback) (*core.PreferenceProfile, error) {
	if fb == nil {
		return nil, core.ErrInvalidContext
	}

	unlock := m.lock(sessionID)
	defer unlock()

	s, err := m.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Closed() {
		return nil, ErrSessionClosed
	}

	// 冲突反馈按不喜欢处理
	dislikedSet := make(map[string]struct{}, len(fb.Disliked))
	for _, id := range fb.Disliked {
		dislikedSet[id] = struct{}{}
	}
	var likedIDs []string
	for _, id := range fb.Liked {
		if _, conflict := dislikedSet[id]; conflict {
			continue
		}
		likedIDs = append(likedIDs, id)
	}

	liked := s.Resolve(likedIDs)
	disliked := s.Resolve(fb.Disliked)

	s.Profile = profile.Nudge(s.Profile, liked, disliked, fb.ExplicitTags)

	for _, r := range liked {
		s.Liked[r.ID] = struct{}{}
	}
	for _, r := range disliked {
		s.Disliked[r.ID] = struct{}{}
		delete(s.Liked, r.ID)
	}

	if err := m.Store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s.Profile, nil
}

// Close 关闭会话：之后的轮次与反馈都返回 SESSION_CLOSED。
// 重复关闭静默成功。
func (m *Manager) Close(ctx context.Context, sessionID string) error {
	unlock := m.lock(sessionID)
	defer unlock()

	s, err := m.Store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if s.Closed() {
		m.forget(sessionID)
		return nil
	}
	s.State = StateClosed
	if err := m.Store.Save(ctx, s); err != nil {
		return err
	}
	m.forget(sessionID)
	return nil
}

// Get 读取会话快照：持会话锁做深拷贝，返回的副本可安全地
// 与并发的轮次/反馈操作同时使用。
func (m *Manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	unlock := m.lock(sessionID)
	defer unlock()

	s, err := m.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

// lock 获取会话粒度的互斥锁。
func (m *Manager) lock(sessionID string) func() {
	m.mu.Lock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[sessionID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// forget 释放会话粒度锁的登记项，关闭后的会话不再占用锁表。
func (m *Manager) forget(sessionID string) {
	m.mu.Lock()
	delete(m.locks, sessionID)
	m.mu.Unlock()
}
