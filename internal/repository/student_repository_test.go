package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JKhoa/TieuLuanMTK/internal/config"
	"github.com/JKhoa/TieuLuanMTK/internal/database"
	"github.com/JKhoa/TieuLuanMTK/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *StudentRepository {
	t.Helper()

	ctx := context.Background()
	cfg := &config.Config{DatabaseURL: filepath.Join(t.TempDir(), "students.db")}
	db, err := database.Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Initialize(ctx)
	require.NoError(t, err)
	return NewStudentRepository(db)
}

func ids(students []model.Student) []int64 {
	out := make([]int64, 0, len(students))
	for _, s := range students {
		out = append(out, s.ID)
	}
	return out
}

func TestListReturnsSeedOrderedByID(t *testing.T) {
	repo := newTestRepository(t)

	students, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(students))
	assert.Equal(t, "Nguyễn Văn An", students[0].Name)
	assert.Equal(t, "CTK46", students[0].ClassLabel)
	assert.InDelta(t, 3.5, students[0].Score, 1e-9)
	assert.False(t, students[0].CreatedAt.IsZero())
}

func TestSearch(t *testing.T) {
	repo := newTestRepository(t)

	cases := []struct {
		name   string
		filter model.StudentFilter
		want   []int64
	}{
		{"no filter", model.StudentFilter{}, []int64{1, 2, 3, 4, 5}},
		{"query matches name case-insensitively", model.StudentFilter{Query: "An"}, []int64{1}},
		{"query folds non-ascii", model.StudentFilter{Query: "NGUYỄN"}, []int64{1}},
		{"query matches class label", model.StudentFilter{Query: "ctk47"}, []int64{3, 4}},
		{"class is exact", model.StudentFilter{Class: "CTK46"}, []int64{1, 2}},
		{"class is case-sensitive", model.StudentFilter{Class: "ctk46"}, []int64{}},
		{"query and class combine", model.StudentFilter{Query: "ctk", Class: "CTK48"}, []int64{5}},
		{"query and class with no overlap", model.StudentFilter{Query: "An", Class: "CTK47"}, []int64{}},
		{"wildcards are literal", model.StudentFilter{Query: "%"}, []int64{}},
		{"underscore is literal", model.StudentFilter{Query: "_"}, []int64{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			students, err := repo.Search(context.Background(), tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(students))
		})
	}
}

func TestCreateAssignsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	s := &model.Student{Name: "Đặng Văn Phúc", ClassLabel: "CTK49", Score: 2.75}
	require.NoError(t, repo.Create(ctx, s))
	assert.Equal(t, int64(6), s.ID)
	assert.False(t, s.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Name, got.Name)
	assert.Equal(t, s.ClassLabel, got.ClassLabel)
	assert.InDelta(t, s.Score, got.Score, 1e-9)
	assert.True(t, s.CreatedAt.Equal(got.CreatedAt))
}

func TestGetByIDMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	before, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, &model.Student{ID: 2, Name: "Trần Thị B", ClassLabel: "CTK50", Score: 1.5}))

	after, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Trần Thị B", after.Name)
	assert.Equal(t, "CTK50", after.ClassLabel)
	assert.InDelta(t, 1.5, after.Score, 1e-9)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))

	untouched, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Nguyễn Văn An", untouched.Name)

	err = repo.Update(ctx, &model.Student{ID: 99, Name: "x", ClassLabel: "y", Score: 1})
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Delete(ctx, 3))
	assert.ErrorIs(t, repo.Delete(ctx, 3), ErrStudentNotFound)

	students, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4, 5}, ids(students))
}
