package server

import (
	"vidtube/internal/models"
	"vidtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments godoc
// @Summary Comment thread for a video
// @Description Roots newest first, each with its replies oldest first.
// @Tags comments
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {array} service.RootComment
// @Failure 404 {object} models.ErrorResponse
// @Router /videos/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	thread, err := s.comments.LoadThread(c.UserContext(), videoID)
	if err != nil {
		return respondError(c, err)
	}
	if thread == nil {
		thread = []service.RootComment{}
	}
	return c.JSON(thread)
}

// CreateComment godoc
// @Summary Post a comment or a reply
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Video ID"
// @Param request body object{content=string,parent_id=int} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /videos/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.comments.PostComment(c.UserContext(), s.sessionFrom(c), service.PostCommentInput{
		VideoID:  videoID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// LikeComment godoc
// @Summary Toggle a like on a comment
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} service.CommentLikeResult
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{id}/like [post]
func (s *Server) LikeComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.comments.ToggleCommentLike(c.UserContext(), s.sessionFrom(c), commentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
