package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrwiki/backend/internal/domain/hr"
)

func setupEmployeeRouter(employees map[int]*hr.Employee) *gin.Engine {
	handler := NewEmployeeHandler(&stubEmployeeRepo{employees: employees})
	router := gin.New()
	router.GET("/api/v1/employees/:id", handler.Get)
	return router
}

func getEmployee(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testEmployeeRecord() *hr.Employee {
	return &hr.Employee{
		EmployeeID:     1503,
		Name:           "Dana Kim",
		Position:       "Software Developer",
		ContractType:   "Full-Time",
		JoinDate:       "2021-04-12",
		Salary:         95000,
		VisaType:       "H-1B",
		VisaExpiration: "2026-03-01",
	}
}

func TestEmployeeHandler_LeadView(t *testing.T) {
	router := setupEmployeeRouter(map[int]*hr.Employee{1503: testEmployeeRecord()})

	w := getEmployee(router, "/api/v1/employees/1503?role=hr_lead")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data EmployeeView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Dana Kim", resp.Data.Name)
	assert.Equal(t, "95000.00", resp.Data.Salary)
	assert.Equal(t, "H-1B", resp.Data.VisaType)
	assert.Equal(t, "2026-03-01", resp.Data.VisaExpiration)
}

func TestEmployeeHandler_JuniorViewRedacted(t *testing.T) {
	router := setupEmployeeRouter(map[int]*hr.Employee{1503: testEmployeeRecord()})

	w := getEmployee(router, "/api/v1/employees/1503?role=hr_junior")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data EmployeeView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Salary)
	assert.Equal(t, "visa on file", resp.Data.VisaType)
	assert.Empty(t, resp.Data.VisaExpiration)
	// 角色缺省也走受限视图
	wDefault := getEmployee(router, "/api/v1/employees/1503")
	assert.Equal(t, w.Body.String(), wDefault.Body.String())
}

func TestEmployeeHandler_NotFound(t *testing.T) {
	router := setupEmployeeRouter(map[int]*hr.Employee{})

	w := getEmployee(router, "/api/v1/employees/9999")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No employee record found for employee ID 9999.")
}

func TestEmployeeHandler_InvalidID(t *testing.T) {
	router := setupEmployeeRouter(map[int]*hr.Employee{})

	w := getEmployee(router, "/api/v1/employees/abc")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmployeeHandler_StoreError(t *testing.T) {
	handler := NewEmployeeHandler(&stubEmployeeRepo{
		failWith: fmt.Errorf("%w: database locked", hr.ErrStoreUnavailable),
	})
	router := gin.New()
	router.GET("/api/v1/employees/:id", handler.Get)

	w := getEmployee(router, "/api/v1/employees/1503")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
