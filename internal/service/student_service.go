package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JKhoa/TieuLuanMTK/internal/model"
	"github.com/JKhoa/TieuLuanMTK/internal/repository"
	"github.com/rs/zerolog"
)

var (
	ErrStudentNotFound = repository.ErrStudentNotFound
	// ErrScoreMissing means the payload carried "score": null.
	ErrScoreMissing = errors.New("score is required")
	// ErrScoreCoercion means score could not be read as a finite number.
	ErrScoreCoercion = errors.New("could not convert score to float")
)

// StudentService handles student business logic.
type StudentService struct {
	studentRepo *repository.StudentRepository
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, log zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

// ParseScore coerces a raw JSON score (number, numeric string or boolean) to float64.
// Booleans count as 1 and 0.
func ParseScore(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, ErrScoreMissing
	}

	switch {
	case bytes.Equal(raw, []byte("true")):
		return 1, nil
	case bytes.Equal(raw, []byte("false")):
		return 0, nil
	}

	var score float64
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: %s", ErrScoreCoercion, raw)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrScoreCoercion, s)
		}
		score = f
	} else if err := json.Unmarshal(raw, &score); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrScoreCoercion, raw)
	}

	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("%w: %s is not finite", ErrScoreCoercion, raw)
	}
	return score, nil
}

func studentFromRequest(req model.StudentRequest) (*model.Student, error) {
	score, err := ParseScore(req.Score)
	if err != nil {
		return nil, err
	}
	return &model.Student{
		Name:       strings.TrimSpace(req.Name),
		ClassLabel: strings.TrimSpace(req.ClassLabel),
		Score:      score,
	}, nil
}

// List retrieves all students ordered by ID.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	return s.studentRepo.List(ctx)
}

// Search trims q and class, treats blanks as absent, and returns matches ordered by ID.
func (s *StudentService) Search(ctx context.Context, q, class string) ([]model.Student, error) {
	return s.studentRepo.Search(ctx, model.StudentFilter{
		Query: strings.TrimSpace(q),
		Class: strings.TrimSpace(class),
	})
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// Create validates the score and inserts a new student.
func (s *StudentService) Create(ctx context.Context, req model.StudentRequest) (*model.Student, error) {
	student, err := studentFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		s.log.Error().Err(err).Str("name", student.Name).Msg("failed to create student")
		return nil, err
	}

	s.log.Debug().Int64("id", student.ID).Msg("student created")
	return student, nil
}

// Update replaces every mutable field of the student with the given ID
// and returns the stored row.
func (s *StudentService) Update(ctx context.Context, id int64, req model.StudentRequest) (*model.Student, error) {
	student, err := studentFromRequest(req)
	if err != nil {
		return nil, err
	}
	student.ID = id

	if err := s.studentRepo.Update(ctx, student); err != nil {
		if !errors.Is(err, repository.ErrStudentNotFound) {
			s.log.Error().Err(err).Int64("id", id).Msg("failed to update student")
		}
		return nil, err
	}

	// Fetch updated to pick up the stored created_at.
	return s.studentRepo.GetByID(ctx, id)
}

// Delete removes a student by ID.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrStudentNotFound) {
			s.log.Error().Err(err).Int64("id", id).Msg("failed to delete student")
		}
		return err
	}
	return nil
}
