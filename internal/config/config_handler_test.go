package config_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-faceattend/internal/authz/errors"
	"go-faceattend/internal/config"
	configMock "go-faceattend/internal/config/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := configMock.NewMockService(ctrl)
	svc.EXPECT().Get(gomock.Any()).Return(config.ConfigResponse{MaxMasterAdmins: 2, MatchThreshold: 0.7}, nil)

	h := config.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/config", nil)
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"max_master_admins\":2")
}

func TestHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := configMock.NewMockService(ctrl)
	svc.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx any, req config.UpdateConfigRequest) (config.ConfigResponse, error) {
			assert.Equal(t, "root", req.AdminUsername)
			assert.Equal(t, 3, req.MaxMasterAdmins)
			return config.ConfigResponse{MaxMasterAdmins: 3, MatchThreshold: 0.8}, nil
		},
	)

	h := config.NewHandler(svc)

	body := `{"admin_username":"root","admin_password":"secret","max_master_admins":3,"match_threshold":0.8}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/config", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0.8")
}

func TestHandler_Update_Forbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := configMock.NewMockService(ctrl)
	svc.EXPECT().Update(gomock.Any(), gomock.Any()).Return(config.ConfigResponse{}, authzerrors.ErrInsufficientRole)

	h := config.NewHandler(svc)

	body := `{"admin_username":"admin","admin_password":"secret","max_master_admins":3,"match_threshold":0.8}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/config", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Update(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_Update_BadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := config.NewHandler(configMock.NewMockService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/config", strings.NewReader(`{"admin_username":"root"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
