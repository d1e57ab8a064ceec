package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/szymekpro/ztpai-mfs/services"
)

type TrainingController struct {
	Trainings *services.TrainingService
}

func NewTrainingController(trainings *services.TrainingService) *TrainingController {
	return &TrainingController{Trainings: trainings}
}

func (tc *TrainingController) List(c *gin.Context) {
	out, err := tc.Trainings.List(c.Request.Context(), principal(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (tc *TrainingController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := tc.Trainings.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (tc *TrainingController) Create(c *gin.Context) {
	var input services.CreateTrainingInput
	if !bindJSON(c, &input) {
		return
	}
	t, err := tc.Trainings.Create(c.Request.Context(), principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (tc *TrainingController) Patch(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.PatchTrainingInput
	if !bindJSON(c, &input) {
		return
	}
	t, err := tc.Trainings.Patch(c.Request.Context(), principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (tc *TrainingController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := tc.Trainings.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
