package generator

import (
	"sync"
	"time"

	"github.com/ideaforge/ideaforge/internal/models"
)

// AnalysisRevision is one entry in the session's analysis edit history,
// recorded each time the Analysis content changes (initial generation and
// every quoted revision).
type AnalysisRevision struct {
	Content   string
	Title     string
	Timestamp time.Time
}

// session holds the per-session mutable state: the active idea, its latest
// Analysis content plus edit history, and the owning user. The Analysis
// cache is a read-through copy of the persisted Analysis document and is
// invalidated whenever a new Analysis is persisted; storage stays
// authoritative.
type session struct {
	mu             sync.Mutex
	userID         string
	idea           *models.Idea
	latestAnalysis string
	revisions      []AnalysisRevision
}

func (s *session) start(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.idea = nil
	s.latestAnalysis = ""
	s.revisions = nil
}

func (s *session) user() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *session) currentIdea() *models.Idea {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idea
}

func (s *session) setIdea(idea *models.Idea) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idea = idea
}

func (s *session) analysis() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestAnalysis
}

func (s *session) setAnalysis(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if content == s.latestAnalysis {
		return
	}
	s.latestAnalysis = content

	title := ""
	if s.idea != nil {
		title = s.idea.Title
	}
	s.revisions = append(s.revisions, AnalysisRevision{
		Content:   content,
		Title:     title,
		Timestamp: time.Now(),
	})
}

func (s *session) history() []AnalysisRevision {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AnalysisRevision, len(s.revisions))
	copy(out, s.revisions)
	return out
}
