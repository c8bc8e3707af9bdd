package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JKhoa/TieuLuanMTK/internal/model"
	"github.com/JKhoa/TieuLuanMTK/internal/response"
	"github.com/JKhoa/TieuLuanMTK/internal/service"
	"github.com/JKhoa/TieuLuanMTK/internal/validator"
	"github.com/gin-gonic/gin"
)

// StudentHandler serves the student records API.
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// ListStudents godoc
// GET /api/students
// Lists every student ordered by ID.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.studentService.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, students)
}

// SearchStudents godoc
// GET /api/students/search?q=&class=
// q matches name or class label (case-insensitive substring); class matches exactly.
func (h *StudentHandler) SearchStudents(c *gin.Context) {
	students, err := h.studentService.Search(c.Request.Context(), c.Query("q"), c.Query("class"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, students)
}

// GetStudent godoc
// GET /api/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// CreateStudent godoc
// POST /api/students
// Creates a student and echoes it with the assigned ID.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.StudentRequest
	if !bindStudent(c, &req) {
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, student)
}

// UpdateStudent godoc
// PUT /api/students/:id
// Replaces name, class label and score of an existing student.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.StudentRequest
	if !bindStudent(c, &req) {
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// DeleteStudent godoc
// DELETE /api/students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Student deleted successfully")
}

// fail maps service errors onto status codes. Anything unrecognised is a
// store error and is reported with its own message.
func (h *StudentHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrScoreMissing):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"score": err.Error()})
	default:
		response.FailWithMessage(c, http.StatusInternalServerError, response.ErrInternal, err.Error())
	}
}

// bindStudent reports malformed JSON separately from missing fields.
func bindStudent(c *gin.Context, req *model.StudentRequest) bool {
	fields := validator.Bind(c, req)
	if fields == nil {
		return true
	}
	if detail, ok := fields["detail"]; ok {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidPayload, detail)
		return false
	}
	response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
	return false
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
