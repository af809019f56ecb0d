package blog

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	OnResponse func(resp *RegisterUserResponse)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate runs the format rules. Uniqueness is checked by the handler so
// every failure lands in one field-keyed map.
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(
			&e.Username,
			validation.Required.Error(MsgUsernameLength),
			validation.RuneLength(UsernameMinLength, UsernameMaxLength).Error(MsgUsernameLength),
		),
		validation.Field(
			&e.Email,
			validation.Required.Error(MsgInvalidEmail),
			is.Email.Error(MsgInvalidEmail),
		),
		validation.Field(
			&e.Password,
			validation.Required.Error(MsgPasswordLength),
			validation.RuneLength(PasswordMinLength, PasswordMaxLength).Error(MsgPasswordLength),
		),
	)
}

type RegisterUserResponse struct {
	User  *User
	Token string
}

type RegisterUserHandler struct {
	repo   RepositoryManager
	tokens TokenIssuer
}

func NewRegisterUserHandler(repo RepositoryManager, tokens TokenIssuer) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo, tokens: tokens}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	event.Username = strings.TrimSpace(event.Username)
	event.Email = strings.TrimSpace(event.Email)

	fieldErrs, err := h.validate(ctx, event)
	if err != nil {
		return err
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	var user *User
	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = h.repo.Users().RegisterTx(ctx, tx, event.Username, event.Email, event.Password)
		return err
	})

	if err != nil {
		// A concurrent insert can slip past the existence checks; the store
		// constraint catches it and we report it like any other taken field.
		if fe := duplicateToFieldErrors(err, "username", "email"); fe != nil {
			return fe
		}

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	token, err := h.tokens.Generate(user.ID.String())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue token after registration")
	}

	if event.OnResponse != nil {
		event.OnResponse(&RegisterUserResponse{User: user, Token: token})
	}

	return nil
}

// validate collects every failure: format rules and uniqueness checks are
// reported together, never short-circuited.
func (h *RegisterUserHandler) validate(ctx context.Context, event RegisterUserMessage) (FieldErrors, error) {
	fieldErrs := FormatValidationErrorToMap(event.Validate())

	if !fieldErrs.Has("username") {
		existing, err := h.repo.Users().FindByUsername(ctx, event.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			fieldErrs.Add("username", MsgUsernameTaken)
		}
	}

	if !fieldErrs.Has("email") {
		existing, err := h.repo.Users().FindByEmail(ctx, event.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			fieldErrs.Add("email", MsgEmailTaken)
		}
	}

	return fieldErrs, nil
}

// duplicateToFieldErrors maps a store-level duplicate error onto the taken
// message for the offending field, when that field is in the allowed set.
func duplicateToFieldErrors(err error, allowed ...string) FieldErrors {
	field := DuplicateField(err)
	if field == "" {
		return nil
	}

	for _, name := range allowed {
		if name != field {
			continue
		}
		fe := FieldErrors{}
		switch field {
		case "username":
			fe.Add("username", MsgUsernameTaken)
		case "email":
			fe.Add("email", MsgEmailTaken)
		}
		return fe
	}

	return nil
}
