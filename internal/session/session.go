// Package session holds the transient per-chat state: the recent-turn window,
// the pending-turns buffer feeding summarization, the selected language, the
// last delivered answer, and the places pagination cache.
//
// Nothing here is persisted; a process restart starts every chat from a clean
// session while the durable history and summary live in the store.
package session

import (
	"sync"

	"github.com/sancris/concierge/internal/places"
)

// PageSize is how many cached places results a single "more" page shows.
const PageSize = 5

// staleAfterTurns bounds how long a pagination cache can be continued. A
// "more" arriving this many turns after the search started is treated as
// exhausted instead of resuming a long-dead result list.
const staleAfterTurns = 20

// Session is the transient state of one chat. The embedded mutex guards the
// state; arrival-order handling of a chat's updates comes from the
// dispatcher's per-chat queue.
type Session struct {
	sync.Mutex

	ChatID int64
	Lang   string // "" until the user picks one

	recentCap int
	recent    []string // newest last, capped at recentCap
	pending   []string // turns since the last summarization
	turns     int      // lifetime user-turn counter

	lastMsgID  int
	lastAnswer string

	search *activeSearch
}

type activeSearch struct {
	query     string
	results   []places.Venue
	shown     int
	startTurn int
}

// AddTurn records one user turn in both the recent window and the pending
// buffer.
func (s *Session) AddTurn(text string) {
	s.turns++
	s.recent = append(s.recent, text)
	if len(s.recent) > s.recentCap {
		s.recent = s.recent[len(s.recent)-s.recentCap:]
	}
	s.pending = append(s.pending, text)
}

// Recent returns a copy of the recent-turn window, oldest first.
func (s *Session) Recent() []string {
	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}

// PendingCount reports how many turns have accumulated since the last
// summarization.
func (s *Session) PendingCount() int {
	return len(s.pending)
}

// TakePending returns the pending turns and clears the buffer. The clear is
// unconditional: callers must not re-add the turns when the summary write
// fails, or the buffer grows without bound.
func (s *Session) TakePending() []string {
	out := s.pending
	s.pending = nil
	return out
}

// SetLastAnswer records the delivered message identity and its full text for
// feedback correlation and for "translate that" requests.
func (s *Session) SetLastAnswer(messageID int, text string) {
	s.lastMsgID = messageID
	s.lastAnswer = text
}

// LastAnswer returns the tracked last-delivered message id and text. A zero
// id means nothing has been delivered yet.
func (s *Session) LastAnswer() (int, string) {
	return s.lastMsgID, s.lastAnswer
}

// StartSearch caches a full places result list, discarding any previous
// search. The shown cursor resets to zero.
func (s *Session) StartSearch(query string, results []places.Venue) {
	s.search = &activeSearch{
		query:     query,
		results:   results,
		startTurn: s.turns,
	}
}

// SearchActive reports whether a non-stale places search is cached.
func (s *Session) SearchActive() bool {
	return s.search != nil && s.turns-s.search.startTurn <= staleAfterTurns
}

// SearchQuery returns the original wording of the cached search. Downstream
// rendering frames results with the user's own words, never a reconstruction.
func (s *Session) SearchQuery() string {
	if s.search == nil {
		return ""
	}
	return s.search.query
}

// NextPage advances the cursor and returns up to PageSize unseen results.
// Exhausted (or stale) caches return (nil, false): an outcome, not an error.
// The cursor only moves forward; no page is ever returned twice.
func (s *Session) NextPage() ([]places.Venue, bool) {
	if !s.SearchActive() {
		s.search = nil
		return nil, false
	}
	sr := s.search
	if sr.shown >= len(sr.results) {
		return nil, false
	}
	end := sr.shown + PageSize
	if end > len(sr.results) {
		end = len(sr.results)
	}
	page := sr.results[sr.shown:end]
	sr.shown = end
	return page, true
}

// HasMore reports whether unseen cached results remain.
func (s *Session) HasMore() bool {
	return s.SearchActive() && s.search.shown < len(s.search.results)
}

// Shown reports how many cached results have been paged out so far. Renderers
// use it to continue numbering across pages.
func (s *Session) Shown() int {
	if s.search == nil {
		return 0
	}
	return s.search.shown
}

// Reset wipes all transient state except the chat identity. The persisted
// history and summary are untouched.
func (s *Session) Reset() {
	s.Lang = ""
	s.recent = nil
	s.pending = nil
	s.turns = 0
	s.lastMsgID = 0
	s.lastAnswer = ""
	s.search = nil
}

// Manager hands out sessions keyed by chat id, creating them on first use.
type Manager struct {
	mu        sync.Mutex
	sessions  map[int64]*Session
	recentCap int
}

// NewManager creates a session manager whose sessions keep a recent-turn
// window of recentCap entries.
func NewManager(recentCap int) *Manager {
	return &Manager{
		sessions:  make(map[int64]*Session),
		recentCap: recentCap,
	}
}

// Get returns the session for a chat, creating it implicitly on first
// message. The returned session is not locked.
func (m *Manager) Get(chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok {
		s = &Session{ChatID: chatID, recentCap: m.recentCap}
		m.sessions[chatID] = s
	}
	return s
}
