package server

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhyrak/smart-timetable/internal/csvio"
	"github.com/rhyrak/smart-timetable/internal/service"
	appErrors "github.com/rhyrak/smart-timetable/pkg/errors"
	"github.com/rhyrak/smart-timetable/pkg/model"
)

// Upload field names, one per record file.
var uploadFields = []string{"subjects", "faculty", "classrooms", "timeslots", "batches"}

type timetableService interface {
	Generate(ctx context.Context, src csvio.Sources) (*service.GenerateResult, error)
	List(ctx context.Context) ([]model.ScheduleRun, error)
	Get(ctx context.Context, id string) (*model.ScheduleRun, error)
	CSV(ctx context.Context, id string) (string, error)
	PDF(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	service timetableService
}

func NewHandler(svc timetableService) *Handler {
	return &Handler{service: svc}
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handlePostSchedule generates a timetable from the five uploaded CSV files.
func (h *Handler) handlePostSchedule(c *gin.Context) {
	files := make(map[string]multipart.File, len(uploadFields))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	for _, field := range uploadFields {
		header, err := c.FormFile(field)
		if err != nil {
			respondError(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("missing %s file", field)))
			return
		}
		f, err := header.Open()
		if err != nil {
			respondError(c, appErrors.WrapAs(appErrors.ErrValidation, err, fmt.Sprintf("unreadable %s file", field)))
			return
		}
		files[field] = f
	}

	result, err := h.service.Generate(c.Request.Context(), csvio.Sources{
		Subjects:   files["subjects"],
		Faculty:    files["faculty"],
		Classrooms: files["classrooms"],
		TimeSlots:  files["timeslots"],
		Batches:    files["batches"],
	})
	if err != nil {
		respondError(c, err)
		return
	}

	summary := *result
	run := *result.Run
	run.Data = ""
	summary.Run = &run
	respondJSON(c, http.StatusCreated, summary)
}

func (h *Handler) handleGetSchedule(c *gin.Context) {
	runs, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, runs)
}

func (h *Handler) handleGetScheduleWithId(c *gin.Context) {
	run, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, run)
}

func (h *Handler) handleGetScheduleCSV(c *gin.Context) {
	data, err := h.service.CSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", c.Param("id")+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(data))
}

func (h *Handler) handleGetSchedulePDF(c *gin.Context) {
	data, err := h.service.PDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", c.Param("id")+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) handleDeleteSchedule(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}
