package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smartworkshop/workshopcost/pkg/storage"
	"github.com/smartworkshop/workshopcost/pkg/storage/storagemock"
	"github.com/smartworkshop/workshopcost/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandleGetTariff(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		handler := New(storage.NewMemory()).setupHandler()

		req := httptest.NewRequest("GET", "/api/tariff", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"peakRate":0.15,"offPeakRate":0.08}`, w.Body.String())
	})

	t.Run("Storage failure", func(t *testing.T) {
		mockS := &storagemock.MockDatabase{}
		mockS.On("GetTariff", mock.Anything).Return(types.Tariff{}, errors.New("boom"))
		srv := New(mockS)

		req := httptest.NewRequest("GET", "/api/tariff", nil)
		w := httptest.NewRecorder()
		srv.handleGetTariff(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHandleUpdateTariff(t *testing.T) {
	db := storage.NewMemory()
	handler := New(db).setupHandler()

	t.Run("Replaces both rates", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/api/tariff", strings.NewReader(`{"peakRate":0.3,"offPeakRate":0.1}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got types.Tariff
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, types.Tariff{PeakRate: 0.3, OffPeakRate: 0.1}, got)

		stored, err := db.GetTariff(t.Context())
		require.NoError(t, err)
		assert.Equal(t, got, stored)
	})

	t.Run("Keeps omitted rate", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/api/tariff", strings.NewReader(`{"offPeakRate":0.05}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		stored, err := db.GetTariff(t.Context())
		require.NoError(t, err)
		assert.Equal(t, types.Tariff{PeakRate: 0.3, OffPeakRate: 0.05}, stored)
	})

	t.Run("Rejects negative rate", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/api/tariff", strings.NewReader(`{"peakRate":-1}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "peak rate")

		stored, err := db.GetTariff(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 0.3, stored.PeakRate)
	})

	t.Run("Rejects invalid body", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/api/tariff", strings.NewReader(`{"peakRate":"cheap"}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Storage failure on save", func(t *testing.T) {
		mockS := &storagemock.MockDatabase{}
		mockS.On("GetTariff", mock.Anything).Return(types.DefaultTariff(), nil)
		mockS.On("SetTariff", mock.Anything, types.Tariff{PeakRate: 0.2, OffPeakRate: 0.08}).Return(errors.New("boom"))
		srv := New(mockS)

		req := httptest.NewRequest("PUT", "/api/tariff", strings.NewReader(`{"peakRate":0.2}`))
		w := httptest.NewRecorder()
		srv.handleUpdateTariff(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		mockS.AssertExpectations(t)
	})
}
