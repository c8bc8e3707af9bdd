package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/JKhoa/TieuLuanMTK/internal/database"
	"github.com/JKhoa/TieuLuanMTK/internal/model"
)

var ErrStudentNotFound = errors.New("student not found")

const studentColumns = `id, name, class_label, score, created_at`

// likeEscaper makes a user string match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// StudentRepository handles student data access.
type StudentRepository struct {
	db *database.DB
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db *database.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func scanStudent(row database.Scanner) (model.Student, error) {
	var s model.Student
	var createdAt database.Timestamp
	if err := row.Scan(&s.ID, &s.Name, &s.ClassLabel, &s.Score, &createdAt); err != nil {
		return s, err
	}
	s.CreatedAt = createdAt.Time
	return s, nil
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	var s model.Student
	err := r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = ?`,
		func(row database.Scanner) (err error) {
			s, err = scanStudent(row)
			return err
		}, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List retrieves every student ordered by ID.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	return r.Search(ctx, model.StudentFilter{})
}

// Search retrieves students matching the filter, ordered by ID.
// Query is matched case-insensitively against name or class label;
// Class must equal the class label exactly. Both conditions must hold when set.
func (r *StudentRepository) Search(ctx context.Context, f model.StudentFilter) ([]model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	var conds []string
	var args []any

	if f.Query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Query)) + "%"
		conds = append(conds, fmt.Sprintf(
			`(%[1]s(name) LIKE ? ESCAPE '\' OR %[1]s(class_label) LIKE ? ESCAPE '\')`,
			r.db.Dialect().Lower,
		))
		args = append(args, pattern, pattern)
	}
	if f.Class != "" {
		conds = append(conds, `class_label = ?`)
		args = append(args, f.Class)
	}

	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY id`

	students := []model.Student{}
	err := r.db.Query(ctx, query, func(row database.Scanner) error {
		s, err := scanStudent(row)
		if err != nil {
			return err
		}
		students = append(students, s)
		return nil
	}, args...)
	if err != nil {
		return nil, err
	}
	return students, nil
}

// Create inserts a new student and fills in the assigned ID and creation time.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO students (name, class_label, score)
		 VALUES (?, ?, ?)
		 RETURNING id, created_at`,
		func(row database.Scanner) error {
			var createdAt database.Timestamp
			if err := row.Scan(&s.ID, &createdAt); err != nil {
				return err
			}
			s.CreatedAt = createdAt.Time
			return nil
		},
		s.Name, s.ClassLabel, s.Score,
	)
}

// Update replaces name, class label and score in a single statement.
// Returns ErrStudentNotFound when no row has the given ID.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	res, err := r.db.Exec(ctx,
		`UPDATE students SET name = ?, class_label = ?, score = ? WHERE id = ?`,
		s.Name, s.ClassLabel, s.Score, s.ID,
	)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// Delete removes a student by ID.
// Returns ErrStudentNotFound when no row has the given ID.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}
