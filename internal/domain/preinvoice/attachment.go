package preinvoice

import (
	"strings"

	"github.com/google/uuid"
	"github.com/preinvoice/backend/internal/domain/shared"
)

// AttachmentMeta is metadata for one attachment. Binary content lifecycle
// is external; it is transported separately and correlated by sequence.
type AttachmentMeta struct {
	ID          uuid.UUID `json:"id"`
	Sequence    int       `json:"sequence"`
	Filename    string    `json:"filename"`
	Description string    `json:"description"`
}

// NewAttachmentMeta creates attachment metadata
func NewAttachmentMeta(sequence int, filename, description string) (AttachmentMeta, error) {
	if sequence <= 0 {
		return AttachmentMeta{}, shared.NewDomainError("INVALID_SEQUENCE", "Attachment sequence must be positive")
	}
	if strings.TrimSpace(filename) == "" {
		return AttachmentMeta{}, shared.NewDomainError("INVALID_FILENAME", "Attachment filename cannot be empty")
	}
	return AttachmentMeta{
		ID:          uuid.New(),
		Sequence:    sequence,
		Filename:    strings.TrimSpace(filename),
		Description: strings.TrimSpace(description),
	}, nil
}

// AttachmentDiff is the added/removed/updated sets between the working copy
// and the last committed copy, keyed by sequence.
type AttachmentDiff struct {
	Added   []AttachmentMeta
	Removed []AttachmentMeta
	Updated []AttachmentMeta
}

// IsEmpty returns true when nothing changed
func (diff AttachmentDiff) IsEmpty() bool {
	return len(diff.Added) == 0 && len(diff.Removed) == 0 && len(diff.Updated) == 0
}

// AttachmentStage holds a working copy of the attachment list next to the
// last committed copy. Edits accumulate on the working copy only; at save
// time the diff is computed and the whole working set is applied to the
// draft in one step, so an interrupted save never leaves a partial state.
type AttachmentStage struct {
	committed []AttachmentMeta
	working   []AttachmentMeta
}

// NewAttachmentStage opens a stage over the currently committed attachments
func NewAttachmentStage(committed []AttachmentMeta) *AttachmentStage {
	working := make([]AttachmentMeta, len(committed))
	copy(working, committed)
	stage := &AttachmentStage{working: working}
	stage.committed = make([]AttachmentMeta, len(committed))
	copy(stage.committed, committed)
	return stage
}

// Working returns the current working copy
func (s *AttachmentStage) Working() []AttachmentMeta {
	working := make([]AttachmentMeta, len(s.working))
	copy(working, s.working)
	return working
}

// Add appends a new attachment to the working copy
func (s *AttachmentStage) Add(meta AttachmentMeta) error {
	for _, existing := range s.working {
		if existing.Sequence == meta.Sequence {
			return shared.NewDomainError("DUPLICATE_SEQUENCE", "Attachment sequence already exists")
		}
	}
	s.working = append(s.working, meta)
	return nil
}

// Update replaces the attachment with the same sequence in the working copy
func (s *AttachmentStage) Update(meta AttachmentMeta) error {
	for idx, existing := range s.working {
		if existing.Sequence == meta.Sequence {
			meta.ID = existing.ID
			s.working[idx] = meta
			return nil
		}
	}
	return shared.ErrRowNotFound
}

// Remove deletes the attachment with the given sequence from the working copy
func (s *AttachmentStage) Remove(sequence int) error {
	for idx, existing := range s.working {
		if existing.Sequence == sequence {
			s.working = append(s.working[:idx], s.working[idx+1:]...)
			return nil
		}
	}
	return shared.ErrRowNotFound
}

// Diff compares the working copy against the last committed copy
func (s *AttachmentStage) Diff() AttachmentDiff {
	diff := AttachmentDiff{}

	committedBySeq := make(map[int]AttachmentMeta, len(s.committed))
	for _, meta := range s.committed {
		committedBySeq[meta.Sequence] = meta
	}
	workingBySeq := make(map[int]AttachmentMeta, len(s.working))
	for _, meta := range s.working {
		workingBySeq[meta.Sequence] = meta
	}

	for _, meta := range s.working {
		previous, ok := committedBySeq[meta.Sequence]
		switch {
		case !ok:
			diff.Added = append(diff.Added, meta)
		case previous.Filename != meta.Filename || previous.Description != meta.Description:
			diff.Updated = append(diff.Updated, meta)
		}
	}
	for _, meta := range s.committed {
		if _, ok := workingBySeq[meta.Sequence]; !ok {
			diff.Removed = append(diff.Removed, meta)
		}
	}

	return diff
}

// Commit applies the working copy to the draft atomically and returns the
// diff for callers that need to move binary content accordingly.
func (s *AttachmentStage) Commit(draft *Draft) AttachmentDiff {
	diff := s.Diff()
	committed := make([]AttachmentMeta, len(s.working))
	copy(committed, s.working)
	draft.SetAttachments(committed)
	s.committed = committed
	return diff
}
