package blog

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// UserContextKey is the locals key the auth guard uses to attach the
// resolved identity to a request.
const UserContextKey = "user"

// CurrentUser returns the identity the guard attached to the request.
func CurrentUser(c *fiber.Ctx) (*User, bool) {
	user, ok := c.Locals(UserContextKey).(*User)
	return user, ok
}

type AccountControllerRoutes struct {
	Register string
	Login    string
	Account  string
}

// AccountController exposes the account HTTP surface: registration, login,
// account read, and the authenticated self-service update.
type AccountController struct {
	Logger Logger
	Repo   RepositoryManager
	Auther Authenticator
	Tokens TokenIssuer
	Hasher *Hasher
	Routes *AccountControllerRoutes
}

type AccountControllerOption func(*AccountController) *AccountController

func NewAccountController(opts ...AccountControllerOption) *AccountController {
	c := &AccountController{
		Logger: defLogger{},
		Routes: &AccountControllerRoutes{
			Register: "/register",
			Login:    "/login",
			Account:  "/account",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in account controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in account controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenIssuer in account controller...")
	}

	if c.Hasher == nil {
		panic("Missing Hasher in account controller...")
	}

	return c
}

func WithAccountLogger(logger Logger) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithAccountRepo(repo RepositoryManager) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Repo = repo
		return c
	}
}

func WithAccountAuther(auther Authenticator) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Auther = auther
		return c
	}
}

func WithAccountTokens(tokens TokenIssuer) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Tokens = tokens
		return c
	}
}

func WithAccountHasher(hasher *Hasher) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Hasher = hasher
		return c
	}
}

// RegisterAccountRoutes mounts the account surface. The guard fronts the
// account read and update routes.
func RegisterAccountRoutes(app fiber.Router, controller *AccountController, guard fiber.Handler) {
	app.Post(controller.Routes.Register, controller.Register)
	app.Post(controller.Routes.Login, controller.Login)
	app.Get(controller.Routes.Account, guard, controller.GetAccount)
	app.Put(controller.Routes.Account, guard, controller.UpdateAccount)
}

// RegisterRequest payload
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AccountController) Register(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(FieldErrors{
			"form": FieldError{Msg: "Failed to parse request body"},
		})
	}

	var resp *RegisterUserResponse
	msg := RegisterUserMessage{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		OnResponse: func(r *RegisterUserResponse) {
			resp = r
		},
	}

	handler := NewRegisterUserHandler(a.Repo, a.Tokens)
	if err := handler.Execute(c.UserContext(), msg); err != nil {
		var fieldErrs FieldErrors
		if goerrors.As(err, &fieldErrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fieldErrs)
		}

		a.Logger.Error("register execute: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"msg": MsgCreateAccountFail,
		})
	}

	return c.JSON(fiber.Map{"token": resp.Token})
}

// LoginRequest payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate only checks presence; credential verification happens against
// the directory and must not leak which part was wrong.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required.Error(MsgUsernameMissing),
		),
		validation.Field(
			&r.Password,
			validation.Required.Error(MsgPasswordMissing),
		),
	)
}

func (a *AccountController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(FieldErrors{
			"form": FieldError{Msg: "Failed to parse request body"},
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(FormatValidationErrorToMap(err))
	}

	token, err := a.Auther.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		if goerrors.Is(err, ErrMismatchedHashAndPassword) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"msg": MsgWrongCredentials,
			})
		}

		a.Logger.Error("login execute: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"msg": MsgAuthFailure,
		})
	}

	return c.JSON(fiber.Map{"token": token})
}

func (a *AccountController) GetAccount(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"msg": MsgAuthFailure,
		})
	}

	details, err := GetAccountDetails(c.UserContext(), a.Repo, user)
	if err != nil {
		a.Logger.Error("get account details: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"msg": MsgGetAccountFail,
		})
	}

	return c.JSON(details)
}

// UpdateAccountRequest payload. Absent fields stay untouched; the current
// password is always required.
type UpdateAccountRequest struct {
	NewUsername     *string `json:"newUsername"`
	NewEmail        *string `json:"newEmail"`
	NewPassword     *string `json:"newPassword"`
	CurrentPassword string  `json:"currentPassword"`
}

func (a *AccountController) UpdateAccount(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"msg": MsgAuthFailure,
		})
	}

	payload := new(UpdateAccountRequest)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("update account parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(FieldErrors{
			"form": FieldError{Msg: "Failed to parse request body"},
		})
	}

	var resp *UpdateAccountResponse
	msg := UpdateAccountMessage{
		User:            user,
		NewUsername:     payload.NewUsername,
		NewEmail:        payload.NewEmail,
		NewPassword:     payload.NewPassword,
		CurrentPassword: payload.CurrentPassword,
		OnResponse: func(r *UpdateAccountResponse) {
			resp = r
		},
	}

	handler := NewUpdateAccountHandler(a.Repo, a.Hasher)
	if err := handler.Execute(c.UserContext(), msg); err != nil {
		var fieldErrs FieldErrors
		if goerrors.As(err, &fieldErrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fieldErrs)
		}

		a.Logger.Error("update account execute: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"msg": MsgAccountUpdateFail,
		})
	}

	return c.JSON(fiber.Map{
		"message":       MsgAccountUpdated,
		"fieldsUpdated": resp.FieldsUpdated,
	})
}
