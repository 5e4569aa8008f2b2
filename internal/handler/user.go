package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-it/internal/model"
	"github.com/iliyamo/share-it/internal/repository"
)

// UserHandler implements registration and CRUD for users. Users are
// not authenticated; the registry exists so that every other
// component can resolve the X-Sharer-User-Id header to a real user.
type UserHandler struct {
	Users    UserStore
	Validate *validator.Validate
}

// NewUserHandler constructs a UserHandler. The store must be non-nil.
func NewUserHandler(users UserStore) *UserHandler {
	if users == nil {
		panic("nil store passed to NewUserHandler")
	}
	return &UserHandler{Users: users, Validate: validator.New()}
}

// Create handles POST /users. The body must carry a non-blank name
// and a well-formed email; a taken email yields 409.
func (h *UserHandler) Create(c echo.Context) error {
	var body struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a valid email are required"})
	}
	u := model.User{Name: body.Name, Email: body.Email}
	if err := h.Users.Create(c.Request().Context(), &u); err != nil {
		if err == repository.ErrDuplicateEmail {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, toUserDto(&u))
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toUserDto(u))
}

// Patch handles PATCH /users/:id. It applies a partial update: only
// the fields present in the body change. A new email is checked for
// format and for collisions with other users.
func (h *UserHandler) Patch(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var body struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if body.Email != nil {
		if err := h.Validate.Var(*body.Email, "required,email"); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
		}
		taken, err := h.Users.EmailTaken(ctx, *body.Email, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if taken {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		u.Email = *body.Email
	}
	if body.Name != nil {
		if *body.Name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be blank"})
		}
		u.Name = *body.Name
	}
	if err := h.Users.Update(ctx, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toUserDto(u))
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
