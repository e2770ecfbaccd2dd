package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/rbac"
	"github.com/smkpelita/backend/core/user"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	LoginResponse struct {
		Token string `json:"token"`
	}
)

type userAPI struct {
	deps ServerDeps
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := userAPI{deps: deps}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/signup", api.signup)
	ug.POST("/login", api.login)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.GET("/me", api.me)
	ag.PUT("/me", api.updateMe)

	// admin endpoints
	adm := ug.Group("", jwt, adminMiddleware())
	adm.GET("", api.query)
	adm.PUT("/:id/role", api.changeRole)
	adm.PUT("/:id", api.update)
	adm.DELETE("/:id", api.destroy)
}

// signup is public registration. The first registrant bootstraps the panel
// as SuperAdmin; the role field of the request body is ignored.
func (api *userAPI) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	data.Role = ""
	if err := data.Validate(api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.Register(data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userAPI) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	claims, err := authenticate(data.Email, data.Password, api.deps.UserSvc, api.deps.Conf)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return core.NewValidationError(errors.New("invalid credentials"))
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.deps.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userAPI) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.deps.UserSvc, api.deps.Conf)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userAPI) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

// updateMe lets a user edit their own profile. Activation and role changes
// stay on the admin endpoints.
func (api *userAPI) updateMe(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data user.UpdateUser
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if data.IsActive != nil {
		return errHttpForbidden
	}
	if err = data.Validate(usr, api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	usr, err = api.deps.UserSvc.Update(usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userAPI) query(ctx echo.Context) error {
	users, err := api.deps.UserSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userAPI) changeRole(ctx echo.Context) error {
	id := ctx.Param("id")

	var data user.ChangeUserRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeUserRole")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	target, err := api.deps.UserSvc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding user by ID")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	actor := claims.Actor()
	if err = requireDecision(ctx, rbac.ActorTarget(target.ID, target.Role), rbac.ActionChangeRole); err != nil {
		return err
	}
	newRole := rbac.ParseRole(data.Role)
	if !rbac.CanAssign(actor.Role, newRole) {
		return core.NewPermissionError(string(rbac.ReasonInsufficientRole))
	}

	usr, err := api.deps.UserSvc.ChangeRole(id, newRole)
	if err != nil {
		return errors.Wrap(err, "changing role")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userAPI) update(ctx echo.Context) error {
	id := ctx.Param("id")

	target, err := api.deps.UserSvc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding user by ID")
	}
	if err = requireDecision(ctx, rbac.ActorTarget(target.ID, target.Role), rbac.ActionEdit); err != nil {
		return err
	}

	var data user.UpdateUser
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err = data.Validate(target, api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userAPI) destroy(ctx echo.Context) error {
	id := ctx.Param("id")

	target, err := api.deps.UserSvc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding user by ID")
	}
	if err = requireDecision(ctx, rbac.ActorTarget(target.ID, target.Role), rbac.ActionDelete); err != nil {
		return err
	}

	if err = api.deps.UserSvc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}
