package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetify-crm/internal/caja"
)

func respond(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondCajaError(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondCajaError(t *testing.T) {
	code, body := respond(t, &caja.ValidationError{Message: "monto inválido"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION", body["code"])

	code, body = respond(t, &caja.NotFoundError{Entity: "turno", ID: 7})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	code, body = respond(t, &caja.ConflictError{Resource: "drawer", Message: "caja ocupada"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", body["code"])
	assert.Equal(t, "drawer", body["resource"])

	code, body = respond(t, &caja.StateError{Message: "el turno no está activo"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "STATE", body["code"])

	code, body = respond(t, &caja.AtomicityError{Op: "entrega de turno", Err: assert.AnError})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "ATOMICITY", body["code"])

	code, _ = respond(t, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&pageSize=50", nil)
	page, pageSize := pageParams(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, pageSize)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=-1&pageSize=9999", nil)
	page, pageSize = pageParams(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, MaxPageSize, pageSize)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	page, pageSize = pageParams(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, pageSize)
}
