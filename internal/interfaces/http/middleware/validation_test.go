package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rentdesk/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestStatusValidators(t *testing.T) {
	SetupValidator()
	v := binding.Validator.Engine().(*validator.Validate)

	type statuses struct {
		Room    string  `json:"room" binding:"omitempty,room_status"`
		Tenant  *string `json:"tenant" binding:"omitempty,tenant_status"`
		Payment string  `json:"payment" binding:"omitempty,payment_status"`
	}

	active := "ACTIVE"
	assert.NoError(t, v.Struct(statuses{Room: "OCCUPIED", Tenant: &active, Payment: "PAID"}))
	assert.NoError(t, v.Struct(statuses{}))

	lower := "active"
	err := v.Struct(statuses{Room: "DEMOLISHED", Tenant: &lower, Payment: "REFUNDED"})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.Equal(t, "room", verrs[0].Field())
	assert.Equal(t, "Must be one of: AVAILABLE, OCCUPIED, MAINTENANCE, RESERVED", getValidationMessage(verrs[0]))
}

func TestHandleValidationError(t *testing.T) {
	type input struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name" binding:"required,max=5"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req input
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
	})

	t.Run("returns flat error envelope with details", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/test", strings.NewReader(`{"email":"invalid","name":"toolongname"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "VALIDATION_ERROR", resp.Code)
		assert.Equal(t, "email: Invalid email format", resp.Error)
		require.Len(t, resp.Details, 2)
		assert.Equal(t, "name", resp.Details[1].Field)
		assert.Equal(t, "Must be at most 5 characters", resp.Details[1].Message)
	})

	t.Run("valid input passes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/test", strings.NewReader(`{"email":"a@example.com","name":"Ada"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError)

	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Equal(t, "Request validation failed", resp.Error)
	assert.Empty(t, resp.Details)
}
