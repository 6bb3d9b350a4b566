package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetReactionState godoc
// @Summary The caller's reaction and subscription for a video
// @Description Anonymous callers always get reaction "none" and subscribed false.
// @Tags engagement
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {object} service.ReactionState
// @Failure 404 {object} models.ErrorResponse
// @Router /videos/{id}/reaction [get]
func (s *Server) GetReactionState(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	state, err := s.engagement.LoadReactionState(c.UserContext(), s.sessionFrom(c), videoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

// RecordView godoc
// @Summary Count a view and append to the caller's watch history
// @Tags engagement
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {object} service.ViewResult
// @Failure 404 {object} models.ErrorResponse
// @Router /videos/{id}/views [post]
func (s *Server) RecordView(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagement.RecordView(c.UserContext(), s.sessionFrom(c), videoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// LikeVideo godoc
// @Summary Toggle a like on a video
// @Description Liking an already liked video clears the reaction; liking a disliked video switches it.
// @Tags engagement
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {object} service.ReactResult
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /videos/{id}/like [post]
func (s *Server) LikeVideo(c *fiber.Ctx) error {
	return s.react(c, true)
}

// DislikeVideo godoc
// @Summary Toggle a dislike on a video
// @Tags engagement
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {object} service.ReactResult
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /videos/{id}/dislike [post]
func (s *Server) DislikeVideo(c *fiber.Ctx) error {
	return s.react(c, false)
}

func (s *Server) react(c *fiber.Ctx, like bool) error {
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagement.React(c.UserContext(), s.sessionFrom(c), videoID, like)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// ToggleSubscription godoc
// @Summary Subscribe to or unsubscribe from a channel
// @Tags engagement
// @Produce json
// @Param id path int true "Channel (profile) ID"
// @Success 200 {object} service.SubscriptionResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /channels/{id}/subscription [post]
func (s *Server) ToggleSubscription(c *fiber.Ctx) error {
	channelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagement.ToggleSubscription(c.UserContext(), s.sessionFrom(c), channelID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
