package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/golfcoachpro/backend/internal/common"
	"github.com/golfcoachpro/backend/internal/server/services"
)

func (s *Server) uploadSwing(c *gin.Context) {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{
			Error:   "validation_error",
			Message: "video file is required",
		})
		return
	}
	if fileHeader.Size > s.deps.MaxUploadBytes {
		respondError(c, common.ErrorFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, common.ErrorInternal)
		return
	}
	defer file.Close()

	upload := services.SwingUpload{
		FileName:      fileHeader.Filename,
		Size:          fileHeader.Size,
		ContentType:   fileHeader.Header.Get("Content-Type"),
		Body:          file,
		ClubType:      formValue(c, "club_type"),
		IntendedShape: formValue(c, "intended_shape"),
		Notes:         formValue(c, "notes"),
	}

	swing, err := s.deps.Swings.Upload(c.Request.Context(), currentUserID(c), upload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, toSwingResponse(swing))
}

func (s *Server) getSwing(c *gin.Context) {
	swingID, ok := swingIDParam(c)
	if !ok {
		return
	}

	detail, err := s.deps.Swings.Get(c.Request.Context(), currentUserID(c), swingID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := toSwingResponse(detail.Swing)
	resp.VideoURL = detail.VideoURL
	resp.ThumbnailURL = detail.ThumbnailURL
	c.JSON(http.StatusOK, resp)
}

func (s *Server) analyzeSwing(c *gin.Context) {
	swingID, ok := swingIDParam(c)
	if !ok {
		return
	}

	swing, err := s.deps.Swings.Analyze(c.Request.Context(), currentUserID(c), swingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, toSwingResponse(swing))
}

func swingIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, common.ErrorNotFound)
		return 0, false
	}
	return id, true
}

func formValue(c *gin.Context, field string) *string {
	if v, ok := c.GetPostForm(field); ok && v != "" {
		return &v
	}
	return nil
}
