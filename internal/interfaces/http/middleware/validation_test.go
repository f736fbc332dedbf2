package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/interfaces/http/dto"
	"github.com/societyhub/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	SocietyCode string `json:"society_code" binding:"required,society_code"`
	Email       string `json:"email" binding:"required,email"`
	Month       int    `json:"month" binding:"omitempty,gte=1,lte=12"`
	Role        string `json:"role" binding:"omitempty,oneof=owner tenant"`
}

func validationEngine() *gin.Engine {
	SetupValidator()
	r := gin.New()
	r.POST("/test", func(c *gin.Context) {
		var req loginForm
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestValidation(t *testing.T) {
	r := validationEngine()

	t.Run("valid input", func(t *testing.T) {
		w := testutil.Do(t, r, http.MethodPost, "/test", map[string]any{"society_code": "acme", "email": "a@b.co"}, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("field errors use json names", func(t *testing.T) {
		w := testutil.Do(t, r, http.MethodPost, "/test", map[string]any{
			"society_code": "ac me", "email": "nope", "month": 13, "role": "admin",
		}, nil)

		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		details := testutil.JSONResponse(t, w)["error"].(map[string]any)["details"].([]any)
		require.Len(t, details, 4)

		messages := map[string]string{}
		for _, d := range details {
			m := d.(map[string]any)
			messages[m["field"].(string)] = m["message"].(string)
		}
		assert.Equal(t, "Society code may not be blank or contain spaces, '/' or ':'", messages["society_code"])
		assert.Equal(t, "Invalid email format", messages["email"])
		assert.Equal(t, "Must be less than or equal to 12", messages["month"])
		assert.Equal(t, "Must be one of: owner tenant", messages["role"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w := testutil.Do(t, r, http.MethodPost, "/test", "not an object", nil)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidJSON)
	})
}
