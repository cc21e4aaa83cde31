package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_SetupRegistersUnderVersionPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	r := NewRouter(engine)
	r.Register(RegistrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
	}))
	r.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouter_WithAPIVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	r := NewRouter(engine, WithAPIVersion("v2"))
	r.Register(RegistrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	}))
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterCustomValidators_OrderStatus(t *testing.T) {
	require.NoError(t, RegisterCustomValidators())

	type payload struct {
		Status string `binding:"required,orderstatus"`
	}

	assert.NoError(t, binding.Validator.ValidateStruct(&payload{Status: "shipped"}))
	assert.Error(t, binding.Validator.ValidateStruct(&payload{Status: "teleported"}))
}
