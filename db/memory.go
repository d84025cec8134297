// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"sort"
	"sync"
	"time"

	"github.com/danielhkuo/classpoll/models"
)

// MemoryStore is an in-memory implementation of the persistence
// boundary, behavior-identical to Store. Used by tests and by the
// "memory" database type for zero-setup runs; nothing survives a
// restart.
type MemoryStore struct {
	mu       sync.RWMutex
	polls    map[string]*models.Poll
	votes    map[string]*models.Vote // keyed by poll_id + "\x00" + session_id
	students map[string]*models.Student
	chat     []models.ChatMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		polls:    make(map[string]*models.Poll),
		votes:    make(map[string]*models.Vote),
		students: make(map[string]*models.Student),
	}
}

func voteKey(pollID, sessionID string) string {
	return pollID + "\x00" + sessionID
}

func clonePoll(p *models.Poll) *models.Poll {
	cp := *p
	cp.Options = make([]models.Option, len(p.Options))
	copy(cp.Options, p.Options)
	return &cp
}

// Polls

func (s *MemoryStore) CreatePoll(p *models.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.polls[p.ID] = clonePoll(p)
	return nil
}

func (s *MemoryStore) PollByID(id string) (*models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.polls[id]
	if !ok {
		return nil, nil
	}
	return clonePoll(p), nil
}

func (s *MemoryStore) ActivePoll(now time.Time) (*models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Poll
	for _, p := range s.polls {
		if p.Status != models.StatusActive || !p.EndTime.After(now) {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	return clonePoll(latest), nil
}

func (s *MemoryStore) CompletedPolls() ([]models.Poll, error) {
	return s.PollsByStatus(models.StatusCompleted)
}

func (s *MemoryStore) PollsByStatus(status string) ([]models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var polls []models.Poll
	for _, p := range s.polls {
		if p.Status == status {
			polls = append(polls, *clonePoll(p))
		}
	}
	sort.Slice(polls, func(i, j int) bool {
		return polls[i].CreatedAt.After(polls[j].CreatedAt)
	})
	return polls, nil
}

func (s *MemoryStore) UpdatePoll(p *models.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[p.ID]; !ok {
		return nil
	}
	s.polls[p.ID] = clonePoll(p)
	return nil
}

// Votes

func (s *MemoryStore) CreateVote(v *models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey(v.PollID, v.SessionID)
	if _, exists := s.votes[key]; exists {
		return ErrDuplicate
	}

	cp := *v
	s.votes[key] = &cp
	return nil
}

func (s *MemoryStore) VoteExists(pollID, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.votes[voteKey(pollID, sessionID)]
	return exists, nil
}

func (s *MemoryStore) VotesForPoll(pollID string) ([]models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var votes []models.Vote
	for _, v := range s.votes {
		if v.PollID == pollID {
			votes = append(votes, *v)
		}
	}
	return votes, nil
}

func (s *MemoryStore) CountVotes(pollID string) (int, error) {
	votes, _ := s.VotesForPoll(pollID)
	return len(votes), nil
}

// Students

func (s *MemoryStore) UpsertStudent(st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.students[st.SessionID]; ok {
		existing.Name = st.Name
		existing.IsActive = st.IsActive
		return nil
	}

	cp := *st
	s.students[st.SessionID] = &cp
	return nil
}

func (s *MemoryStore) StudentBySession(sessionID string) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (s *MemoryStore) ActiveStudents() ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var students []models.Student
	for _, st := range s.students {
		if st.IsActive {
			students = append(students, *st)
		}
	}
	sort.Slice(students, func(i, j int) bool {
		return students[i].JoinedAt.After(students[j].JoinedAt)
	})
	return students, nil
}

func (s *MemoryStore) DeactivateStudent(sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[sessionID]
	if !ok {
		return false, nil
	}
	st.IsActive = false
	return true, nil
}

// Chat

func (s *MemoryStore) CreateChatMessage(m *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chat = append(s.chat, *m)
	return nil
}

func (s *MemoryStore) RecentChatMessages(limit int) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.chat) - limit
	if start < 0 {
		start = 0
	}

	messages := make([]models.ChatMessage, len(s.chat)-start)
	copy(messages, s.chat[start:])
	return messages, nil
}
