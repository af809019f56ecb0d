package blog

import (
	"github.com/gofiber/fiber/v2"
)

// PostsController is the post surface. Every handler is a stub until the
// post features land; routes and auth gating are already in their final
// shape.
type PostsController struct {
	Logger Logger
}

func NewPostsController(logger Logger) *PostsController {
	if logger == nil {
		logger = defLogger{}
	}
	return &PostsController{Logger: logger}
}

// RegisterPostRoutes mounts the post surface. Reads are public; writes and
// likes sit behind the auth guard.
func RegisterPostRoutes(app fiber.Router, controller *PostsController, guard fiber.Handler) {
	app.Get("/posts", controller.GetPosts)
	app.Post("/posts", guard, controller.CreatePost)
	app.Get("/posts/:id", controller.GetPostByID)
	app.Put("/posts/:id", guard, controller.UpdatePostByID)
	app.Delete("/posts/:id", guard, controller.DeletePostByID)
	app.Post("/posts/:id/likes", guard, controller.LikePostByID)
}

func (p *PostsController) GetPosts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"msg": "Get post list not implemented"})
}

func (p *PostsController) CreatePost(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"msg": "Create post not implemented"})
}

func (p *PostsController) GetPostByID(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Get post by id not implemented",
		"id":  c.Params("id"),
	})
}

func (p *PostsController) UpdatePostByID(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Update post by id not implemented",
		"id":  c.Params("id"),
	})
}

func (p *PostsController) DeletePostByID(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Delete post by id not implemented",
		"id":  c.Params("id"),
	})
}

func (p *PostsController) LikePostByID(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"msg": "Like post not implemented",
		"id":  c.Params("id"),
	})
}
