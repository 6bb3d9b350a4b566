package server

import (
	"vidtube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile godoc
// @Summary Channel profile
// @Tags profiles
// @Produce json
// @Param id path int true "Profile ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{id} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profileID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.catalog.Profile(c.UserContext(), profileID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetMyHistory godoc
// @Summary The caller's watch history, newest first
// @Tags profiles
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.WatchHistory
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /me/history [get]
func (s *Server) GetMyHistory(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	entries, err := s.catalog.History(c.UserContext(), s.sessionFrom(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	if entries == nil {
		entries = []*models.WatchHistory{}
	}
	return c.JSON(entries)
}

// GetMyFeatureFlags godoc
// @Summary Feature flags as evaluated for the caller
// @Tags profiles
// @Produce json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /me/feature-flags [get]
func (s *Server) GetMyFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(s.featureFlags.Snapshot(s.sessionFrom(c).ViewerID))
}
