package rest

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golfcoachpro/backend/internal/common"
	"github.com/golfcoachpro/backend/internal/server/models"
	"github.com/golfcoachpro/backend/internal/server/services"
)

func multipartUpload(t *testing.T, fileName string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if fileName != "" {
		part, err := writer.CreateFormFile("video", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func doUpload(t *testing.T, s *Server, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/swings/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestUploadSwing(t *testing.T) {
	swings := &fakeSwings{uploadOut: &models.Swing{
		ID: 1, UserID: 7, Status: models.SwingStatusProcessing,
	}}
	s := newTestServer(t, Deps{Users: &fakeUsers{}, Swings: swings})

	body, contentType := multipartUpload(t, "drive.mp4", []byte("video bytes"), map[string]string{
		"club_type":      "driver",
		"intended_shape": "draw",
	})
	w := doUpload(t, s, body, contentType)

	require.Equal(t, http.StatusAccepted, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, models.SwingStatusProcessing, resp["status"])

	assert.Equal(t, "drive.mp4", swings.lastUpload.FileName)
	require.NotNil(t, swings.lastUpload.ClubType)
	assert.Equal(t, "driver", *swings.lastUpload.ClubType)
	require.NotNil(t, swings.lastUpload.IntendedShape)
	assert.Equal(t, "draw", *swings.lastUpload.IntendedShape)
	assert.Nil(t, swings.lastUpload.Notes)
}

func TestUploadSwing_MissingFile(t *testing.T) {
	s := newTestServer(t, Deps{Users: &fakeUsers{}, Swings: &fakeSwings{}})

	body, contentType := multipartUpload(t, "", nil, map[string]string{"club_type": "driver"})
	w := doUpload(t, s, body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadSwing_TooLarge(t *testing.T) {
	s := newTestServer(t, Deps{Users: &fakeUsers{}, Swings: &fakeSwings{}, MaxUploadBytes: 4})

	body, contentType := multipartUpload(t, "drive.mp4", []byte("more than four bytes"), nil)
	w := doUpload(t, s, body, contentType)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "file_too_large", decodeBody(t, w)["error"])
}

func TestUploadSwing_BadFormat(t *testing.T) {
	s := newTestServer(t, Deps{
		Users:  &fakeUsers{},
		Swings: &fakeSwings{uploadErr: common.ErrorValidation},
	})

	body, contentType := multipartUpload(t, "drive.gif", []byte("gif"), nil)
	w := doUpload(t, s, body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSwing(t *testing.T) {
	thumbURL := "https://example.com/thumb.jpg"
	swings := &fakeSwings{getOut: &services.SwingDetail{
		Swing:        &models.Swing{ID: 1, UserID: 7, Status: models.SwingStatusCompleted},
		VideoURL:     "https://example.com/video.mp4",
		ThumbnailURL: &thumbURL,
	}}
	s := newTestServer(t, Deps{Users: &fakeUsers{}, Swings: swings})

	w := doJSON(t, s, http.MethodGet, "/api/v1/swings/1", "", "good-token")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "https://example.com/video.mp4", body["video_url"])
	assert.Equal(t, thumbURL, body["thumbnail_url"])
}

func TestGetSwing_NotFound(t *testing.T) {
	s := newTestServer(t, Deps{
		Users:  &fakeUsers{},
		Swings: &fakeSwings{getErr: common.ErrorNotFound},
	})

	w := doJSON(t, s, http.MethodGet, "/api/v1/swings/99", "", "good-token")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Non-numeric ids look like missing swings too.
	w = doJSON(t, s, http.MethodGet, "/api/v1/swings/abc", "", "good-token")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyzeSwing(t *testing.T) {
	swings := &fakeSwings{analyzeOut: &models.Swing{
		ID: 1, UserID: 7, Status: models.SwingStatusProcessing,
	}}
	s := newTestServer(t, Deps{Users: &fakeUsers{}, Swings: swings})

	w := doJSON(t, s, http.MethodPost, "/api/v1/swings/1/analyze", "", "good-token")

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, models.SwingStatusProcessing, decodeBody(t, w)["status"])
}
