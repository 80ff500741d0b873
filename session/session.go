// Package session 管理"帮我挑今晚吃哪家"式的多轮推荐会话：
// 每轮展示一批候选，吸收喜欢/不喜欢反馈在线调整画像快照，下一轮不重复。
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/pickyrec/picky/core"
)

// State 是会话生命周期状态。
type State string

const (
	// StateCreated 会话刚构建，还未由 Manager 启动
	StateCreated State = "CREATED"
	// StateActive 会话已启动，可出轮次、收反馈
	StateActive State = "ACTIVE"
	// StateClosed 会话已关闭，拒绝后续轮次与反馈
	StateClosed State = "CLOSED"
)

// Target 是会话的目标位置条件：坐标+半径检索或城市检索。
// 每轮请求可临时覆盖，未覆盖时沿用会话目标。
type Target struct {
	Origin   *core.GeoPoint `json:"origin,omitempty"`
	RadiusKm float64        `json:"radius_km,omitempty"`
	City     string         `json:"city,omitempty"`
	State    string         `json:"state,omitempty"`
}

// Empty 判断目标是否未设置任何位置条件。
func (t Target) Empty() bool {
	return t.Origin == nil && t.City == ""
}

// Session 是一次多轮推荐会话的全部状态。
//
// Profile 是会话内的画像快照：反馈通过 Nudge 作用在快照上，
// 不回写用户的长期画像。Shown/Liked/Disliked 是餐厅 ID 集合；
// Seen 记录展示过的餐厅实体，反馈阶段按 ID 还原标签。
//
// Session 自身不做并发保护，串行化由 Manager 按会话加锁完成。
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	State  State  `json:"state"`
	Target Target `json:"target"`

	Profile *core.PreferenceProfile `json:"profile"`

	Shown    map[string]struct{} `json:"shown"`
	Liked    map[string]struct{} `json:"liked"`
	Disliked map[string]struct{} `json:"disliked"`

	// Seen 是会话内展示过的餐厅目录（ID -> 实体）。
	Seen map[string]*core.Restaurant `json:"seen"`

	Rounds     int       `json:"rounds"`
	CreateTime time.Time `json:"create_time"`
	UpdateTime time.Time `json:"update_time"`
}

// NewSession 创建会话：画像做深拷贝快照。
func NewSession(userID string, profile *core.PreferenceProfile, target Target) *Session {
	now := time.Now()
	if profile == nil {
		profile = core.NewPreferenceProfile(userID)
	}
	return &Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		State:      StateCreated,
		Target:     target,
		Profile:    profile.Clone(),
		Shown:      make(map[string]struct{}),
		Liked:      make(map[string]struct{}),
		Disliked:   make(map[string]struct{}),
		Seen:       make(map[string]*core.Restaurant),
		CreateTime: now,
		UpdateTime: now,
	}
}

// Closed 判断会话是否已关闭。
func (s *Session) Closed() bool {
	return s == nil || s.State == StateClosed
}

// Clone 返回会话的深拷贝快照，供只读展示侧使用：
// 副本与原会话不共享画像和 ID 集合，改动互不可见。
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Profile = s.Profile.Clone()
	if s.Target.Origin != nil {
		origin := *s.Target.Origin
		cp.Target.Origin = &origin
	}
	cp.Shown = cloneIDSet(s.Shown)
	cp.Liked = cloneIDSet(s.Liked)
	cp.Disliked = cloneIDSet(s.Disliked)
	cp.Seen = make(map[string]*core.Restaurant, len(s.Seen))
	for id, r := range s.Seen {
		cp.Seen[id] = r
	}
	return &cp
}

func cloneIDSet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for id := range in {
		out[id] = struct{}{}
	}
	return out
}

// MarkShown 记录一轮展示结果。
func (s *Session) MarkShown(recs []*core.Recommendation) {
	for _, rec := range recs {
		if rec == nil || rec.Restaurant == nil {
			continue
		}
		s.Shown[rec.Restaurant.ID] = struct{}{}
		s.Seen[rec.Restaurant.ID] = rec.Restaurant
	}
	s.Rounds++
	s.UpdateTime = time.Now()
}

// Resolve 按 ID 还原会话内展示过的餐厅，未展示过的 ID 忽略。
func (s *Session) Resolve(ids []string) []*core.Restaurant {
	var out []*core.Restaurant
	for _, id := range ids {
		if r, ok := s.Seen[id]; ok {
			out = append(out, r)
		}
	}
	return out
}
