package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/my-maps-api/internal/interface/http"
)

type HomeModule struct{}

func NewHomeModule() *HomeModule { return &HomeModule{} }

func (m *HomeModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", handlers.Hello)
}
