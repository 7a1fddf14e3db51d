package slip_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blair-ops/internal/slip"
	sliperrors "blair-ops/internal/slip/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type fakeSlipService struct {
	slip.Service
	createFn func(ctx context.Context, req slip.SlipRequest) (slip.SlipResponse, error)
	getAllFn func(ctx context.Context, filter slip.SlipFilter) (slip.SlipListResponse, error)
	getByFn  func(ctx context.Context, id string) (slip.SlipResponse, error)
}

func (f *fakeSlipService) Create(ctx context.Context, req slip.SlipRequest) (slip.SlipResponse, error) {
	return f.createFn(ctx, req)
}

func (f *fakeSlipService) GetAll(ctx context.Context, filter slip.SlipFilter) (slip.SlipListResponse, error) {
	return f.getAllFn(ctx, filter)
}

func (f *fakeSlipService) GetByID(ctx context.Context, id string) (slip.SlipResponse, error) {
	return f.getByFn(ctx, id)
}

func TestSlipHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := slip.NewHandler(&fakeSlipService{
		createFn: func(ctx context.Context, req slip.SlipRequest) (slip.SlipResponse, error) {
			assert.Equal(t, "2024-05-01", req.SlipDate)
			assert.Equal(t, int64(12000), req.Total)
			assert.Equal(t, "2", req.SetInfo)
			return slip.SlipResponse{ID: "1", SlipDate: req.SlipDate, Total: req.Total}, nil
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"date":"2024-05-01","name1":"Aya","total":12000,"set":"2","mine_ice":""}`
	c.Request = httptest.NewRequest(http.MethodPost, "/slips", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSlipHandler_GetAll_Paginates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := slip.NewHandler(&fakeSlipService{
		getAllFn: func(ctx context.Context, filter slip.SlipFilter) (slip.SlipListResponse, error) {
			assert.Equal(t, "2024-05-01", filter.StartDate)
			return slip.SlipListResponse{
				Slips: []slip.SlipResponse{{ID: "1"}, {ID: "2"}, {ID: "3"}},
				Count: 3,
				Total: 300,
			}, nil
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/slips?start_date=2024-05-01&page=2&page_size=2", nil)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var data slip.SlipListResponse
	assert.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Slips, 1)
	assert.Equal(t, int64(300), data.Total)
	assert.Equal(t, int64(3), env.Meta.Total)
}

func TestSlipHandler_GetByID_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := slip.NewHandler(&fakeSlipService{
		getByFn: func(ctx context.Context, id string) (slip.SlipResponse, error) {
			return slip.SlipResponse{}, sliperrors.ErrSlipNotFound
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/slips/x", nil)
	c.Params = []gin.Param{{Key: "id", Value: "x"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
