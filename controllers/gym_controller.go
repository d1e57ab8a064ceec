package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/szymekpro/ztpai-mfs/services"
)

type GymController struct {
	Gyms *services.GymService
}

func NewGymController(gyms *services.GymService) *GymController {
	return &GymController{Gyms: gyms}
}

func (gc *GymController) List(c *gin.Context) {
	gyms, err := gc.Gyms.List(c.Request.Context(), c.Query("city"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gyms)
}

func (gc *GymController) Cities(c *gin.Context) {
	cities, err := gc.Gyms.Cities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

func (gc *GymController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	gym, err := gc.Gyms.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gym)
}

func (gc *GymController) Create(c *gin.Context) {
	var input services.GymInput
	if !bindJSON(c, &input) {
		return
	}
	gym, err := gc.Gyms.Create(c.Request.Context(), principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gym)
}

func (gc *GymController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.GymInput
	if !bindJSON(c, &input) {
		return
	}
	gym, err := gc.Gyms.Update(c.Request.Context(), principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gym)
}

func (gc *GymController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := gc.Gyms.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
