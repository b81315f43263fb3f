package upload

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNameRequired = errors.New("display name is required")
	ErrBadDateRange = errors.New("effective end date must be after the start date")
	ErrStepperDone  = errors.New("all files already have metadata")
	ErrNotFinalized = errors.New("metadata collection is not finished")
)

// FileMetadata is the per-file input collected before a batch is submitted.
type FileMetadata struct {
	FileName           string     `json:"fileName"`
	Name               string     `json:"name"`
	EffectiveStartDate *time.Time `json:"effectiveStartDate"`
	EffectiveEndDate   *time.Time `json:"effectiveEndDate"`
}

// Validate enforces the pre-submission rules: a non-empty display name and a
// well-ordered effective date range. These reject locally, before any
// persistence happens for the file.
func (m FileMetadata) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrNameRequired
	}
	if m.EffectiveStartDate != nil && m.EffectiveEndDate != nil &&
		!m.EffectiveEndDate.After(*m.EffectiveStartDate) {
		return ErrBadDateRange
	}
	return nil
}

// ValidateDateRange applies the same ordering rule on its own; used by the
// endorsement flow.
func ValidateDateRange(start time.Time, end *time.Time) error {
	if end != nil && !end.After(start) {
		return ErrBadDateRange
	}
	return nil
}

// Stepper walks a batch of selected files one at a time collecting metadata.
// State is the current index plus the collected map; Submit either advances
// or finalizes. File order is preserved throughout.
type Stepper struct {
	files     []string
	index     int
	collected map[int]FileMetadata
}

func NewStepper(files []string) *Stepper {
	return &Stepper{
		files:     append([]string(nil), files...),
		collected: make(map[int]FileMetadata, len(files)),
	}
}

// Current returns the file awaiting metadata, or "" when done.
func (s *Stepper) Current() string {
	if s.Done() {
		return ""
	}
	return s.files[s.index]
}

// Done reports whether every file has metadata.
func (s *Stepper) Done() bool {
	return s.index >= len(s.files)
}

// Submit validates and records metadata for the current file, then advances.
func (s *Stepper) Submit(meta FileMetadata) error {
	if s.Done() {
		return ErrStepperDone
	}
	if err := meta.Validate(); err != nil {
		return err
	}
	meta.FileName = s.files[s.index]
	s.collected[s.index] = meta
	s.index++
	return nil
}

// Collected returns the metadata in original file order. It fails until every
// file has been stepped through, so a batch can never be submitted half
// collected.
func (s *Stepper) Collected() ([]FileMetadata, error) {
	if !s.Done() {
		return nil, ErrNotFinalized
	}
	out := make([]FileMetadata, 0, len(s.files))
	for i := range s.files {
		out = append(out, s.collected[i])
	}
	return out, nil
}
