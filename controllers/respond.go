package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/szymekpro/ztpai-mfs/middlewares"
	"github.com/szymekpro/ztpai-mfs/services"
	"github.com/szymekpro/ztpai-mfs/utils"
)

// respondError writes the JSON error body for err and picks the status from its kind.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrUploadsDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	kind, ok := services.KindOf(err)
	if !ok {
		log.Printf("request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error(), "code": kind.String()}
	var appErr *services.AppError
	if errors.As(err, &appErr) {
		body["error"] = appErr.Message
		if len(appErr.Fields) > 0 {
			body["fields"] = appErr.Fields
		}
	}

	status := http.StatusInternalServerError
	switch kind {
	case services.KindValidation, services.KindConflict:
		status = http.StatusBadRequest
	case services.KindPermissionDenied:
		status = http.StatusForbidden
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindAuthenticationFailed:
		status = http.StatusUnauthorized
	}
	c.JSON(status, body)
}

// bindJSON binds the request body and answers 400 itself when that fails.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			msg, ok := utils.ValidationMessages[fe.Tag()]
			if !ok {
				msg = "Invalid value."
			}
			fields[fe.Field()] = msg
		}
		return &services.AppError{Kind: services.KindValidation, Message: "invalid request body", Fields: fields}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return services.FieldError(typeErr.Field, "Invalid type.")
	}
	return services.ValidationError("invalid request body: " + err.Error())
}

func principal(c *gin.Context) services.Principal {
	v, _ := c.Get(middlewares.PrincipalKey)
	p, _ := v.(services.Principal)
	return p
}

// pathID parses a positive numeric path parameter; it answers 404 itself on failure.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found.", "code": services.KindNotFound.String()})
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional numeric filter; zero means absent.
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondError(c, services.FieldError(name, "A valid integer is required."))
		return 0, false
	}
	return uint(id), true
}
