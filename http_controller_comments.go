package blog

import (
	"github.com/gofiber/fiber/v2"
)

// CommentsController covers comments, replies, and their likes. All stubs,
// like the post surface.
type CommentsController struct {
	Logger Logger
}

func NewCommentsController(logger Logger) *CommentsController {
	if logger == nil {
		logger = defLogger{}
	}
	return &CommentsController{Logger: logger}
}

// RegisterCommentRoutes mounts comment and reply routes. Reads are public;
// everything that writes goes through the auth guard.
func RegisterCommentRoutes(app fiber.Router, controller *CommentsController, guard fiber.Handler) {
	app.Get("/comments/:commentId", controller.GetComment)
	app.Get("/comments/:commentId/replies", controller.GetCommentReplies)
	app.Get("/comments/:commentId/likes", controller.GetCommentLikes)
	app.Post("/comments/:commentId/replies", guard, controller.CreateReply)
	app.Put("/comments/:commentId/replies/:replyId", guard, controller.UpdateReply)
	app.Delete("/comments/:commentId/replies/:replyId", guard, controller.DeleteReply)
	app.Post("/comments/:commentId/likes", guard, controller.LikeComment)
	app.Delete("/comments/:commentId/likes/:likeId", guard, controller.DeleteCommentLike)

	app.Post("/replies/:replyId/likes", guard, controller.LikeReply)
	app.Delete("/replies/:replyId/likes/:likeId", guard, controller.DeleteReplyLike)
}

func (p *CommentsController) GetComment(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Get comment not implemented",
		"id":  c.Params("commentId"),
	})
}

func (p *CommentsController) GetCommentReplies(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Get comment replies not implemented",
		"id":  c.Params("commentId"),
	})
}

func (p *CommentsController) GetCommentLikes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Get comment likes not implemented",
		"id":  c.Params("commentId"),
	})
}

func (p *CommentsController) CreateReply(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Reply to comment not implemented",
		"id":  c.Params("commentId"),
	})
}

func (p *CommentsController) UpdateReply(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Update reply to comment not implemented",
		"id":  c.Params("replyId"),
	})
}

func (p *CommentsController) DeleteReply(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Delete reply to comment not implemented",
		"id":  c.Params("replyId"),
	})
}

func (p *CommentsController) LikeComment(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Like a comment not implemented",
		"id":  c.Params("commentId"),
	})
}

func (p *CommentsController) DeleteCommentLike(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Delete like on comment not implemented",
		"id":  c.Params("likeId"),
	})
}

func (p *CommentsController) LikeReply(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Like reply not implemented",
		"id":  c.Params("replyId"),
	})
}

func (p *CommentsController) DeleteReplyLike(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Delete like on reply not implemented",
		"id":  c.Params("likeId"),
	})
}
