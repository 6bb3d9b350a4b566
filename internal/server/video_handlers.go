package server

import (
	"vidtube/internal/models"
	"vidtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListVideos godoc
// @Summary List published videos
// @Description Home is newest first; trending is most viewed first and capped at 50.
// @Tags videos
// @Produce json
// @Param q query string false "Case-insensitive match on title or description"
// @Param view query string false "home or trending" Enums(home, trending)
// @Success 200 {array} models.Video
// @Failure 400 {object} models.ErrorResponse
// @Router /videos [get]
func (s *Server) ListVideos(c *fiber.Ctx) error {
	view, err := service.ParseView(c.Query("view"))
	if err != nil {
		return respondError(c, err)
	}

	videos, err := s.catalog.ListVideos(c.UserContext(), service.ListFilter{
		Query: c.Query("q"),
		View:  view,
	})
	if err != nil {
		return respondError(c, err)
	}
	if videos == nil {
		videos = []*models.Video{}
	}
	return c.JSON(videos)
}

// GetCategories godoc
// @Summary List upload categories
// @Tags videos
// @Produce json
// @Success 200 {array} string
// @Router /videos/categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	return c.JSON(s.catalog.Categories())
}

// GetDemoCatalog godoc
// @Summary List the pre-hosted demo videos an upload can publish
// @Tags videos
// @Produce json
// @Success 200 {array} catalog.DemoVideo
// @Router /videos/demo [get]
func (s *Server) GetDemoCatalog(c *fiber.Ctx) error {
	return c.JSON(s.catalog.DemoCatalog())
}

// GetVideo godoc
// @Summary Get a video with its channel
// @Tags videos
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {object} service.VideoDetail
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /videos/{id} [get]
func (s *Server) GetVideo(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.catalog.GetVideo(c.UserContext(), s.sessionFrom(c), videoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// PublishVideo godoc
// @Summary Publish a demo video under the caller's channel
// @Tags videos
// @Accept json
// @Produce json
// @Param request body service.UploadInput true "Upload form"
// @Success 201 {object} models.Video
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /videos [post]
func (s *Server) PublishVideo(c *fiber.Ctx) error {
	var req service.UploadInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	video, err := s.catalog.PublishDemo(c.UserContext(), s.sessionFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(video)
}
