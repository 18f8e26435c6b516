package state

import (
	"sync"
	"time"

	"telesim/pkg/botapi"
)

// PollStore owns every poll and its per-voter option sets. Vote accounting
// counts distinct voters: a repeat vote replaces the previous contribution.
type PollStore struct {
	mu    sync.Mutex
	clock *Clock
	seq   *Sequence
	polls map[string]*pollRecord
}

type pollRecord struct {
	poll     botapi.Poll
	votes    map[int64][]int
	closesAt time.Time
}

// NewPollStore creates an empty poll store bound to the shared clock and
// sequencer.
func NewPollStore(clock *Clock, seq *Sequence) *PollStore {
	return &PollStore{
		clock: clock,
		seq:   seq,
		polls: make(map[string]*pollRecord),
	}
}

// PollParams carries the validated createPoll attributes.
type PollParams struct {
	Question              string
	Options               []string
	IsAnonymous           bool
	Type                  botapi.PollType
	AllowsMultipleAnswers bool
	CorrectOptionID       *int
	Explanation           string
	ExplanationEntities   []botapi.MessageEntity
	OpenPeriod            int
	CloseDate             int64
	IsClosed              bool
}

// Create registers a poll. Field validation happens at the dispatch boundary;
// the store derives the close instant from open_period or close_date.
func (s *PollStore) Create(params PollParams) botapi.Poll {
	s.mu.Lock()
	defer s.mu.Unlock()

	options := make([]botapi.PollOption, 0, len(params.Options))
	for _, text := range params.Options {
		options = append(options, botapi.PollOption{Text: text})
	}
	poll := botapi.Poll{
		ID:                    s.seq.NextPollID(),
		Question:              params.Question,
		Options:               options,
		IsAnonymous:           params.IsAnonymous,
		Type:                  params.Type,
		AllowsMultipleAnswers: params.AllowsMultipleAnswers,
		CorrectOptionID:       params.CorrectOptionID,
		Explanation:           params.Explanation,
		ExplanationEntities:   params.ExplanationEntities,
		OpenPeriod:            params.OpenPeriod,
		CloseDate:             params.CloseDate,
		IsClosed:              params.IsClosed,
	}
	record := &pollRecord{poll: poll, votes: make(map[int64][]int)}
	if params.OpenPeriod > 0 {
		record.closesAt = s.clock.Now().Add(time.Duration(params.OpenPeriod) * time.Second)
		record.poll.CloseDate = record.closesAt.Unix()
	} else if params.CloseDate > 0 {
		record.closesAt = time.Unix(params.CloseDate, 0)
	}
	s.polls[poll.ID] = record

	return record.snapshotLocked()
}

// Get returns a poll snapshot, closing it first when its open period ended.
func (s *PollStore) Get(pollID string) (botapi.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.polls[pollID]
	if !exists {
		return botapi.Poll{}, ErrPollNotFound
	}
	s.expireLocked(record)

	return record.snapshotLocked(), nil
}

// Vote applies one user's option selection. A vote on a closed poll or with
// an out-of-range option index is a silent no-op, as on the real platform.
// The previous contribution of the same voter is removed first, so the total
// voter count reflects distinct voters.
func (s *PollStore) Vote(pollID string, userID int64, optionIDs []int) (botapi.Poll, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.polls[pollID]
	if !exists {
		return botapi.Poll{}, false
	}
	s.expireLocked(record)
	if record.poll.IsClosed {
		return record.snapshotLocked(), false
	}
	for _, optionID := range optionIDs {
		if optionID < 0 || optionID >= len(record.poll.Options) {
			return record.snapshotLocked(), false
		}
	}
	if !record.poll.AllowsMultipleAnswers && len(optionIDs) > 1 {
		return record.snapshotLocked(), false
	}

	if previous, voted := record.votes[userID]; voted {
		for _, optionID := range previous {
			record.poll.Options[optionID].VoterCount--
		}
		delete(record.votes, userID)
	}
	if len(optionIDs) > 0 {
		record.votes[userID] = append([]int(nil), optionIDs...)
		for _, optionID := range optionIDs {
			record.poll.Options[optionID].VoterCount++
		}
	}
	record.poll.TotalVoterCount = len(record.votes)

	return record.snapshotLocked(), true
}

// Stop closes a poll and freezes further votes. Stopping is idempotent.
func (s *PollStore) Stop(pollID string) (botapi.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.polls[pollID]
	if !exists {
		return botapi.Poll{}, ErrPollNotFound
	}
	record.poll.IsClosed = true

	return record.snapshotLocked(), nil
}

func (s *PollStore) expireLocked(record *pollRecord) {
	if record.poll.IsClosed || record.closesAt.IsZero() {
		return
	}
	if !s.clock.Now().Before(record.closesAt) {
		record.poll.IsClosed = true
	}
}

func (r *pollRecord) snapshotLocked() botapi.Poll {
	poll := r.poll
	poll.Options = append([]botapi.PollOption(nil), r.poll.Options...)
	poll.ExplanationEntities = append([]botapi.MessageEntity(nil), r.poll.ExplanationEntities...)

	return poll
}
