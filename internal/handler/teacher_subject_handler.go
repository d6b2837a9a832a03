package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/school-portal/admin-api/internal/service"
	appErrors "github.com/school-portal/admin-api/pkg/errors"
	"github.com/school-portal/admin-api/pkg/response"
)

// TeacherSubjectHandler exposes instructor subject assignment endpoints.
type TeacherSubjectHandler struct {
	subjects *service.TeacherSubjectService
}

// NewTeacherSubjectHandler constructs TeacherSubjectHandler.
func NewTeacherSubjectHandler(subjects *service.TeacherSubjectService) *TeacherSubjectHandler {
	return &TeacherSubjectHandler{subjects: subjects}
}

// ListByInstructor godoc
// @Summary List active subject assignments of an instructor
// @Tags TeacherSubjects
// @Produce json
// @Param instructorId path string true "Instructor user ID"
// @Success 200 {object} response.Envelope
// @Router /instructors/{instructorId}/subjects [get]
func (h *TeacherSubjectHandler) ListByInstructor(c *gin.Context) {
	details, err := h.subjects.ListByInstructor(c.Request.Context(), c.Param("instructorId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Create godoc
// @Summary Assign an instructor to a course section
// @Tags TeacherSubjects
// @Accept json
// @Produce json
// @Param payload body service.CreateTeacherSubjectRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /teacher-subjects [post]
func (h *TeacherSubjectHandler) Create(c *gin.Context) {
	var req service.CreateTeacherSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.subjects.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// Delete godoc
// @Summary Remove a subject assignment
// @Tags TeacherSubjects
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204
// @Router /teacher-subjects/{id} [delete]
func (h *TeacherSubjectHandler) Delete(c *gin.Context) {
	if err := h.subjects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
