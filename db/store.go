// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/classpoll/models"
)

// ErrDuplicate is returned when an insert hits a uniqueness constraint,
// such as a second vote for the same (poll, session) pair.
var ErrDuplicate = errors.New("duplicate record")

// Store is the SQL implementation of the persistence boundary.
// It works against both PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite);
// all statements use $N placeholders, which both drivers accept.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// isUniqueViolation recognizes uniqueness errors from either driver.
// lib/pq reports "duplicate key value violates unique constraint ...",
// modernc.org/sqlite reports "UNIQUE constraint failed: ...".
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

func encodeOptions(opts []models.Option) (string, error) {
	data, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}
	return string(data), nil
}

func decodeOptions(data string) ([]models.Option, error) {
	var opts []models.Option
	if err := json.Unmarshal([]byte(data), &opts); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return opts, nil
}

// Polls

func (s *Store) CreatePoll(p *models.Poll) error {
	opts, err := encodeOptions(p.Options)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO poll (id, question, options, duration, start_time, end_time, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.Question, opts, p.Duration, p.StartTime, p.EndTime, p.Status, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert poll: %w", err)
	}

	return nil
}

func (s *Store) scanPoll(row *sql.Row) (*models.Poll, error) {
	var p models.Poll
	var opts string
	err := row.Scan(&p.ID, &p.Question, &opts, &p.Duration, &p.StartTime, &p.EndTime, &p.Status, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan poll: %w", err)
	}

	p.Options, err = decodeOptions(opts)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PollByID returns the poll or nil when no poll has that id.
func (s *Store) PollByID(id string) (*models.Poll, error) {
	row := s.db.QueryRow(`
		SELECT id, question, options, duration, start_time, end_time, status, created_at
		FROM poll WHERE id = $1
	`, id)
	return s.scanPoll(row)
}

// ActivePoll returns the most recently created poll that is active and
// whose voting window has not yet closed, or nil.
func (s *Store) ActivePoll(now time.Time) (*models.Poll, error) {
	row := s.db.QueryRow(`
		SELECT id, question, options, duration, start_time, end_time, status, created_at
		FROM poll
		WHERE status = $1 AND end_time > $2
		ORDER BY created_at DESC
		LIMIT 1
	`, models.StatusActive, now)
	return s.scanPoll(row)
}

// CompletedPolls returns poll history, newest first.
func (s *Store) CompletedPolls() ([]models.Poll, error) {
	rows, err := s.db.Query(`
		SELECT id, question, options, duration, start_time, end_time, status, created_at
		FROM poll
		WHERE status = $1
		ORDER BY created_at DESC
	`, models.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("query completed polls: %w", err)
	}
	defer rows.Close()

	var polls []models.Poll
	for rows.Next() {
		var p models.Poll
		var opts string
		if err := rows.Scan(&p.ID, &p.Question, &opts, &p.Duration, &p.StartTime, &p.EndTime, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		p.Options, err = decodeOptions(opts)
		if err != nil {
			return nil, err
		}
		polls = append(polls, p)
	}
	return polls, rows.Err()
}

// PollsByStatus returns every poll in the given status regardless of its
// voting window. Used for deadline recovery at startup.
func (s *Store) PollsByStatus(status string) ([]models.Poll, error) {
	rows, err := s.db.Query(`
		SELECT id, question, options, duration, start_time, end_time, status, created_at
		FROM poll
		WHERE status = $1
		ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("query polls by status: %w", err)
	}
	defer rows.Close()

	var polls []models.Poll
	for rows.Next() {
		var p models.Poll
		var opts string
		if err := rows.Scan(&p.ID, &p.Question, &opts, &p.Duration, &p.StartTime, &p.EndTime, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		p.Options, err = decodeOptions(opts)
		if err != nil {
			return nil, err
		}
		polls = append(polls, p)
	}
	return polls, rows.Err()
}

func (s *Store) UpdatePoll(p *models.Poll) error {
	opts, err := encodeOptions(p.Options)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE poll
		SET question = $1, options = $2, duration = $3, start_time = $4, end_time = $5, status = $6
		WHERE id = $7
	`, p.Question, opts, p.Duration, p.StartTime, p.EndTime, p.Status, p.ID)
	if err != nil {
		return fmt.Errorf("update poll: %w", err)
	}

	return nil
}

// Votes

// CreateVote inserts a vote. Returns ErrDuplicate when the (poll,
// session) pair already voted; the unique index is the backstop for the
// coordinator's in-memory duplicate check.
func (s *Store) CreateVote(v *models.Vote) error {
	_, err := s.db.Exec(`
		INSERT INTO vote (id, poll_id, student_name, option_index, session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.ID, v.PollID, v.StudentName, v.OptionIndex, v.SessionID, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert vote: %w", err)
	}

	return nil
}

func (s *Store) VoteExists(pollID, sessionID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM vote WHERE poll_id = $1 AND session_id = $2
		)
	`, pollID, sessionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query vote exists: %w", err)
	}
	return exists, nil
}

func (s *Store) VotesForPoll(pollID string) ([]models.Vote, error) {
	rows, err := s.db.Query(`
		SELECT id, poll_id, student_name, option_index, session_id, created_at
		FROM vote WHERE poll_id = $1
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	var votes []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.PollID, &v.StudentName, &v.OptionIndex, &v.SessionID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (s *Store) CountVotes(pollID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM vote WHERE poll_id = $1`, pollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return count, nil
}

// Students

// UpsertStudent inserts a student or, when the session id is already
// registered, overwrites the name and reactivates in place. The original
// id and joined_at survive re-registration.
func (s *Store) UpsertStudent(st *models.Student) error {
	_, err := s.db.Exec(`
		INSERT INTO student (id, name, session_id, is_active, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE SET name = excluded.name, is_active = excluded.is_active
	`, st.ID, st.Name, st.SessionID, st.IsActive, st.JoinedAt)
	if err != nil {
		return fmt.Errorf("upsert student: %w", err)
	}

	return nil
}

// StudentBySession returns the student or nil when unknown.
func (s *Store) StudentBySession(sessionID string) (*models.Student, error) {
	var st models.Student
	err := s.db.QueryRow(`
		SELECT id, name, session_id, is_active, joined_at
		FROM student WHERE session_id = $1
	`, sessionID).Scan(&st.ID, &st.Name, &st.SessionID, &st.IsActive, &st.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query student: %w", err)
	}
	return &st, nil
}

// ActiveStudents returns active students, most recently joined first.
func (s *Store) ActiveStudents() ([]models.Student, error) {
	rows, err := s.db.Query(`
		SELECT id, name, session_id, is_active, joined_at
		FROM student
		WHERE is_active = TRUE
		ORDER BY joined_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query active students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var st models.Student
		if err := rows.Scan(&st.ID, &st.Name, &st.SessionID, &st.IsActive, &st.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// DeactivateStudent soft-deletes by session id, reporting whether the
// student existed.
func (s *Store) DeactivateStudent(sessionID string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE student SET is_active = FALSE WHERE session_id = $1
	`, sessionID)
	if err != nil {
		return false, fmt.Errorf("deactivate student: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deactivate student: %w", err)
	}
	return n > 0, nil
}

// Chat

func (s *Store) CreateChatMessage(m *models.ChatMessage) error {
	_, err := s.db.Exec(`
		INSERT INTO chat_message (id, sender_name, message, sender_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, m.ID, m.SenderName, m.Message, m.SenderType, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}

	return nil
}

// RecentChatMessages returns the last limit messages in chronological
// order.
func (s *Store) RecentChatMessages(limit int) ([]models.ChatMessage, error) {
	rows, err := s.db.Query(`
		SELECT id, sender_name, message, sender_type, created_at
		FROM chat_message
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SenderName, &m.Message, &m.SenderType, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; flip to chronological for display.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
