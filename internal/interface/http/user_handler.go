package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/my-maps-api/internal/application"
	"github.com/oksasatya/my-maps-api/internal/domain/entity"
	repo "github.com/oksasatya/my-maps-api/internal/domain/repository"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/search"
	"github.com/oksasatya/my-maps-api/pkg/helpers"
	"github.com/oksasatya/my-maps-api/pkg/response"
	"github.com/oksasatya/my-maps-api/pkg/validation"
)

// UserSearcher looks up public user profiles.
type UserSearcher interface {
	Search(ctx context.Context, q string, size int) ([]search.UserHit, error)
}

type UserHandler struct {
	Svc    *userapp.Service
	Search UserSearcher
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, searcher UserSearcher, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Search: searcher, Logger: logger}
}

type loginQuery struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

// Login answers GET /login?email=&password=. A miss never says which of the
// two credentials was wrong.
func (h *UserHandler) Login(c *gin.Context) {
	var q loginQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.String(http.StatusUnauthorized, msgUserNotFound)
		return
	}
	u, err := h.Svc.Login(c.Request.Context(), q.Email, q.Password)
	if errors.Is(err, repo.ErrUserNotFound) {
		c.String(http.StatusUnauthorized, msgUserNotFound)
		return
	}
	if err != nil {
		helpers.LogError(h.Logger, "login failed", err, requestFields(c))
		c.String(http.StatusInternalServerError, msgFailure)
		return
	}
	c.JSON(http.StatusOK, loginView(u))
}

// Signup answers POST /signup. Fields other than the known ones are stored
// on the user as profile data.
func (h *UserHandler) Signup(c *gin.Context) {
	body, err := decodeBody(c)
	if err != nil {
		helpers.LogError(h.Logger, "signup: bad body", err, requestFields(c))
		c.String(bodyStatus(err), msgFailure)
		return
	}
	in, err := signupInput(body)
	if err != nil {
		helpers.LogError(h.Logger, "signup: bad body", err, requestFields(c))
		c.String(http.StatusInternalServerError, msgFailure)
		return
	}
	u, err := h.Svc.Signup(c.Request.Context(), in)
	if err != nil {
		f := requestFields(c)
		f["username"] = in.Username
		helpers.LogError(h.Logger, "signup failed", err, f)
		c.String(http.StatusInternalServerError, msgFailure)
		return
	}
	helpers.LogInfo(h.Logger, "user signed up", logrus.Fields{"user_id": u.ID, "request_id": c.GetString("request_id")})
	c.String(http.StatusOK, msgSuccess)
}

// EditProfil answers POST /editProfil, replacing the stored user named by id.
func (h *UserHandler) EditProfil(c *gin.Context) {
	body, err := decodeBody(c)
	if err != nil {
		helpers.LogError(h.Logger, "edit profile: bad body", err, requestFields(c))
		c.String(bodyStatus(err), msgFailure)
		return
	}
	in, err := editProfileInput(body)
	if err != nil {
		helpers.LogError(h.Logger, "edit profile: bad body", err, requestFields(c))
		c.String(http.StatusInternalServerError, msgFailure)
		return
	}
	if _, err := h.Svc.EditProfile(c.Request.Context(), in); err != nil {
		f := requestFields(c)
		f["user_id"] = in.ID
		helpers.LogError(h.Logger, "edit profile failed", err, f)
		c.String(http.StatusInternalServerError, msgFailure)
		return
	}
	c.String(http.StatusOK, msgSuccess)
}

// SearchUsers answers GET /searchUsers?q=&size= from the user index.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	if h.Search == nil {
		response.Success(c, http.StatusOK, []search.UserHit{}, "users", map[string]any{"count": 0})
		return
	}
	hits, err := h.Search.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		helpers.LogError(h.Logger, "user search failed", err, requestFields(c))
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "users", map[string]any{"count": len(hits)})
}

func signupInput(body map[string]any) (userapp.SignupInput, error) {
	var (
		in  userapp.SignupInput
		err error
	)
	if in.Password, err = requiredString(body, "password"); err != nil {
		return in, err
	}
	if in.Username, err = stringField(body, "username"); err != nil {
		return in, err
	}
	if in.Email, err = stringField(body, "email"); err != nil {
		return in, err
	}
	if in.Avatar, err = stringField(body, "avatar"); err != nil {
		return in, err
	}
	in.Profile = profileFields(body)
	return in, nil
}

func editProfileInput(body map[string]any) (userapp.EditProfileInput, error) {
	var (
		in  userapp.EditProfileInput
		err error
	)
	if in.ID, err = parseID(body["id"]); err != nil {
		return in, err
	}
	s, err := signupInput(body)
	if err != nil {
		return in, err
	}
	in.Username, in.Email, in.Password, in.Avatar, in.Profile = s.Username, s.Email, s.Password, s.Avatar, s.Profile
	return in, nil
}

func loginView(u *entity.User) gin.H {
	out := gin.H{}
	for k, v := range u.Profile {
		out[k] = v
	}
	out["avatar"] = u.Avatar
	out["username"] = u.Username
	out["email"] = u.Email
	out["id"] = formatID(u.ID)
	return out
}

func requestFields(c *gin.Context) logrus.Fields {
	return logrus.Fields{
		"request_id": c.GetString("request_id"),
		"ip":         c.GetString("real_ip"),
		"path":       c.Request.URL.Path,
	}
}
