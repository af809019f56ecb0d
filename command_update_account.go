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

// UpdateAccountMessage is a self-service account mutation. The caller has
// already been authenticated by the guard; CurrentPassword re-proves the
// credential before anything is touched.
type UpdateAccountMessage struct {
	User            *User   `json:"-"`
	NewUsername     *string `json:"newUsername,omitempty"`
	NewEmail        *string `json:"newEmail,omitempty"`
	NewPassword     *string `json:"newPassword,omitempty"`
	CurrentPassword string  `json:"currentPassword"`
	OnResponse      func(resp *UpdateAccountResponse)
}

func (e UpdateAccountMessage) Type() string { return "user.update_account" }

type UpdateAccountResponse struct {
	FieldsUpdated []string
}

type UpdateAccountHandler struct {
	repo   RepositoryManager
	hasher *Hasher
}

func NewUpdateAccountHandler(repo RepositoryManager, hasher *Hasher) *UpdateAccountHandler {
	return &UpdateAccountHandler{repo: repo, hasher: hasher}
}

func (h *UpdateAccountHandler) Execute(ctx context.Context, event UpdateAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdateAccountHandler) execute(ctx context.Context, event UpdateAccountMessage) error {
	if event.User == nil {
		return goerrors.New("account update requires an authenticated user", goerrors.CategoryBadInput)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	fieldErrs, err := h.validate(ctx, event)
	if err != nil {
		return err
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	update := UserUpdate{
		Username: trimmed(event.NewUsername),
		Email:    trimmed(event.NewEmail),
		Password: event.NewPassword,
	}

	var updated []string
	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		updated, err = h.repo.Users().ApplyUpdateTx(ctx, tx, event.User, update)
		return err
	})

	if err != nil {
		if fe := duplicateToFieldErrors(err, "username", "email"); fe != nil {
			// Report under the request's field names.
			return renameDuplicateFields(fe)
		}

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account update transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(&UpdateAccountResponse{FieldsUpdated: updated})
	}

	return nil
}

// validate collects every failure before anything mutates: optional field
// rules, uniqueness excluding the caller, and the current-password proof.
func (h *UpdateAccountHandler) validate(ctx context.Context, event UpdateAccountMessage) (FieldErrors, error) {
	fieldErrs := FieldErrors{}

	if event.NewUsername != nil {
		username := strings.TrimSpace(*event.NewUsername)
		if err := validation.Validate(username,
			validation.Required.Error(MsgUsernameLength),
			validation.RuneLength(UsernameMinLength, UsernameMaxLength).Error(MsgUsernameLength),
		); err != nil {
			fieldErrs.Add("newUsername", err.Error())
		} else {
			existing, err := h.repo.Users().FindByUsername(ctx, username, event.User.ID)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				fieldErrs.Add("newUsername", MsgUsernameTaken)
			}
		}
	}

	if event.NewEmail != nil {
		email := strings.TrimSpace(*event.NewEmail)
		if err := validation.Validate(email,
			validation.Required.Error(MsgInvalidEmail),
			is.Email.Error(MsgInvalidEmail),
		); err != nil {
			fieldErrs.Add("newEmail", err.Error())
		} else {
			existing, err := h.repo.Users().FindByEmail(ctx, email, event.User.ID)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				fieldErrs.Add("newEmail", MsgEmailTaken)
			}
		}
	}

	if event.NewPassword != nil {
		if err := validation.Validate(*event.NewPassword,
			validation.Required.Error(MsgPasswordLength),
			validation.RuneLength(PasswordMinLength, PasswordMaxLength).Error(MsgPasswordLength),
		); err != nil {
			fieldErrs.Add("newPassword", err.Error())
		}
	}

	if event.CurrentPassword == "" {
		fieldErrs.Add("currentPassword", MsgIncorrectPassword)
	} else if err := h.hasher.ComparePasswordAndHash(event.CurrentPassword, event.User.PasswordHash); err != nil {
		if !goerrors.Is(err, ErrMismatchedHashAndPassword) {
			return nil, err
		}
		fieldErrs.Add("currentPassword", MsgIncorrectPassword)
	}

	return fieldErrs, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// renameDuplicateFields moves store-level duplicate reports from the model
// field names onto the update request's field names.
func renameDuplicateFields(fe FieldErrors) FieldErrors {
	out := FieldErrors{}
	for field, ferr := range fe {
		switch field {
		case "username":
			out["newUsername"] = ferr
		case "email":
			out["newEmail"] = ferr
		default:
			out[field] = ferr
		}
	}
	return out
}
