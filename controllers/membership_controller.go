package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/szymekpro/ztpai-mfs/services"
)

type MembershipController struct {
	Types       *services.MembershipTypeService
	Memberships *services.MembershipService
}

func NewMembershipController(types *services.MembershipTypeService, memberships *services.MembershipService) *MembershipController {
	return &MembershipController{Types: types, Memberships: memberships}
}

func (mc *MembershipController) ListTypes(c *gin.Context) {
	types, err := mc.Types.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (mc *MembershipController) GetType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	mt, err := mc.Types.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mt)
}

func (mc *MembershipController) CreateType(c *gin.Context) {
	var input services.MembershipTypeInput
	if !bindJSON(c, &input) {
		return
	}
	mt, err := mc.Types.Create(c.Request.Context(), principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mt)
}

func (mc *MembershipController) UpdateType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.MembershipTypeInput
	if !bindJSON(c, &input) {
		return
	}
	mt, err := mc.Types.Update(c.Request.Context(), principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mt)
}

func (mc *MembershipController) DeleteType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := mc.Types.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MyMemberships handles GET /membership-types/my-memberships.
func (mc *MembershipController) MyMemberships(c *gin.Context) {
	out, err := mc.Memberships.Mine(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (mc *MembershipController) List(c *gin.Context) {
	out, err := mc.Memberships.List(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (mc *MembershipController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := mc.Memberships.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (mc *MembershipController) Active(c *gin.Context) {
	has, err := mc.Memberships.HasActive(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_membership": has})
}

func (mc *MembershipController) Purchase(c *gin.Context) {
	var input services.PurchaseMembershipInput
	if !bindJSON(c, &input) {
		return
	}
	m, err := mc.Memberships.Purchase(c.Request.Context(), principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (mc *MembershipController) Patch(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.MembershipPatch
	if !bindJSON(c, &input) {
		return
	}
	m, err := mc.Memberships.AdminPatch(c.Request.Context(), principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (mc *MembershipController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := mc.Memberships.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
