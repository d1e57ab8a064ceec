package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/szymekpro/ztpai-mfs/services"
)

type TrainerController struct {
	Trainers     *services.TrainerDirectory
	Availability *services.AvailabilityService
}

func NewTrainerController(trainers *services.TrainerDirectory, availability *services.AvailabilityService) *TrainerController {
	return &TrainerController{Trainers: trainers, Availability: availability}
}

type SetServicesInput struct {
	Services []uint `json:"services"`
}

func (tc *TrainerController) List(c *gin.Context) {
	gymID, ok := queryID(c, "gym_id")
	if !ok {
		return
	}
	trainers, err := tc.Trainers.List(c.Request.Context(), gymID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainers)
}

func (tc *TrainerController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := tc.Trainers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (tc *TrainerController) Create(c *gin.Context) {
	var input services.TrainerInput
	if !bindJSON(c, &input) {
		return
	}
	t, err := tc.Trainers.Create(c.Request.Context(), principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (tc *TrainerController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.TrainerInput
	if !bindJSON(c, &input) {
		return
	}
	t, err := tc.Trainers.Update(c.Request.Context(), principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (tc *TrainerController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := tc.Trainers.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (tc *TrainerController) SetServices(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input SetServicesInput
	if !bindJSON(c, &input) {
		return
	}
	t, err := tc.Trainers.SetServices(c.Request.Context(), principal(c), id, input.Services)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// BookedHours handles GET /trainers/:id/booked-hours?date=YYYY-MM-DD.
func (tc *TrainerController) BookedHours(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	hours, err := tc.Availability.BookedHours(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booked_hours": hours})
}

func (tc *TrainerController) BookedHoursRange(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	byDay, err := tc.Availability.BookedHoursRange(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, byDay)
}

// Trainer services

func (tc *TrainerController) ListServices(c *gin.Context) {
	out, err := tc.Trainers.ListServices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (tc *TrainerController) GetService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	svc, err := tc.Trainers.GetService(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (tc *TrainerController) CreateService(c *gin.Context) {
	var input services.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := tc.Trainers.CreateService(c.Request.Context(), principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (tc *TrainerController) UpdateService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := tc.Trainers.UpdateService(c.Request.Context(), principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (tc *TrainerController) DeleteService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := tc.Trainers.DeleteService(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Availabilities

func (tc *TrainerController) ListAvailabilities(c *gin.Context) {
	trainerID, ok := queryID(c, "trainer_id")
	if !ok {
		return
	}
	out, err := tc.Trainers.ListAvailabilities(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (tc *TrainerController) CreateAvailability(c *gin.Context) {
	var input services.AvailabilityInput
	if !bindJSON(c, &input) {
		return
	}
	a, err := tc.Trainers.CreateAvailability(c.Request.Context(), principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (tc *TrainerController) UpdateAvailability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.AvailabilityInput
	if !bindJSON(c, &input) {
		return
	}
	a, err := tc.Trainers.UpdateAvailability(c.Request.Context(), principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (tc *TrainerController) DeleteAvailability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := tc.Trainers.DeleteAvailability(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
