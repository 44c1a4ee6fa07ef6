package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/my-maps-api/internal/interface/http"
)

// UserModule wires the account routes:
// GET /login, POST /signup, POST /editProfil, GET /searchUsers
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.GET("/login", m.Handler.Login)
	rg.POST("/signup", m.Handler.Signup)
	rg.POST("/editProfil", m.Handler.EditProfil)
	rg.GET("/searchUsers", m.Handler.SearchUsers)
}
