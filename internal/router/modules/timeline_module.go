package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/my-maps-api/internal/interface/http"
)

type TimelineModule struct {
	Handler *handlers.TimelineHandler
}

func NewTimelineModule(h *handlers.TimelineHandler) *TimelineModule {
	return &TimelineModule{Handler: h}
}

func (m *TimelineModule) Register(rg *gin.RouterGroup) {
	rg.GET("/getTimelines", m.Handler.GetTimelines)
	rg.POST("/addTimeline", m.Handler.AddTimeline)
}
