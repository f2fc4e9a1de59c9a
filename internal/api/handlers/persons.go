package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/lookout/internal/models"
	"github.com/your-org/lookout/internal/records"
	"github.com/your-org/lookout/internal/storage"
	"github.com/your-org/lookout/pkg/dto"
)

type PersonHandler struct {
	db    *records.PostgresStore
	minio *storage.MinIOStore
}

func NewPersonHandler(db *records.PostgresStore, minio *storage.MinIOStore) *PersonHandler {
	return &PersonHandler{db: db, minio: minio}
}

// Create registers a missing person: form fields plus a reference photo.
func (h *PersonHandler) Create(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference photo required"})
		return
	}
	defer file.Close()

	photoData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read photo failed"})
		return
	}

	person := &models.Person{
		ID:           uuid.New(),
		Name:         req.Name,
		LastSeenAt:   req.LastSeenAt,
		LastSeenDate: req.LastSeenDate,
		Attire:       req.Attire,
		Description:  req.Description,
		Status:       models.StatusMissing,
	}
	person.PhotoKey = "photos/" + person.ID.String() + "/" + header.Filename

	if err := h.minio.PutObject(c.Request.Context(), person.PhotoKey, photoData, header.Header.Get("Content-Type")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store photo failed"})
		return
	}

	if err := h.db.Create(c.Request.Context(), person); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, personToResponse(person))
}

func (h *PersonHandler) List(c *gin.Context) {
	var (
		persons []models.Person
		err     error
	)
	if c.Query("status") == string(models.StatusMissing) {
		persons, err = h.db.ListMissing(c.Request.Context())
	} else {
		persons, err = h.db.List(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.PersonResponse, 0, len(persons))
	for i := range persons {
		resp = append(resp, personToResponse(&persons[i]))
	}

	c.JSON(http.StatusOK, dto.PersonListResponse{Persons: resp, Total: len(resp)})
}

func (h *PersonHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid person id"})
		return
	}

	person, err := h.db.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, personToResponse(person))
}

// Photo serves the reference image.
func (h *PersonHandler) Photo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid person id"})
		return
	}

	person, err := h.db.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}

	data, err := h.minio.GetObject(c.Request.Context(), person.PhotoKey)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}

// UpdateStatus applies an operator status transition. The scan engine
// only ever requests FOUND; SIGHTED and MISSING come through here.
func (h *PersonHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid person id"})
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.RequestStatusChange(c.Request.Context(), id, models.PersonStatus(req.Status)); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func personToResponse(p *models.Person) dto.PersonResponse {
	return dto.PersonResponse{
		ID:           p.ID,
		Name:         p.Name,
		LastSeenAt:   p.LastSeenAt,
		LastSeenDate: p.LastSeenDate,
		Attire:       p.Attire,
		Description:  p.Description,
		Status:       string(p.Status),
		PhotoURL:     "/v1/persons/" + p.ID.String() + "/photo",
		CreatedAt:    p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
