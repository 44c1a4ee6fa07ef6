package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/my-maps-api/internal/application"
	"github.com/oksasatya/my-maps-api/internal/domain/entity"
	"github.com/oksasatya/my-maps-api/pkg/helpers"
	"github.com/oksasatya/my-maps-api/pkg/validation"
)

type TimelineHandler struct {
	Svc    *application.TimelineService
	Logger *logrus.Logger
}

func NewTimelineHandler(svc *application.TimelineService, logger *logrus.Logger) *TimelineHandler {
	return &TimelineHandler{Svc: svc, Logger: logger}
}

type timelinesQuery struct {
	UserID string `form:"userId" binding:"required"`
}

type timelineView struct {
	Time        any    `json:"time"`
	Sub         bool   `json:"sub"`
	Destination string `json:"destination"`
	Origin      string `json:"origin"`
	ID          string `json:"id"`
}

// GetTimelines answers GET /getTimelines?userId=. An unknown user and a user
// without timelines both get 401.
func (h *TimelineHandler) GetTimelines(c *gin.Context) {
	var q timelinesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.Logger.WithFields(requestFields(c)).WithField("details", validation.ToDetails(err)).Debug("get timelines: bad query")
		c.String(http.StatusUnauthorized, msgTimelinesNotFound)
		return
	}
	userID, err := parseID(q.UserID)
	if err != nil {
		c.String(http.StatusUnauthorized, msgTimelinesNotFound)
		return
	}
	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		f := requestFields(c)
		f["user_id"] = userID
		helpers.LogError(h.Logger, "list timelines failed", err, f)
		c.String(http.StatusInternalServerError, msgFailure)
		return
	}
	if len(list) == 0 {
		c.String(http.StatusUnauthorized, msgTimelinesNotFound)
		return
	}
	c.JSON(http.StatusOK, timelineViews(list))
}

// AddTimeline answers POST /addTimeline.
func (h *TimelineHandler) AddTimeline(c *gin.Context) {
	body, err := decodeBody(c)
	if err != nil {
		helpers.LogError(h.Logger, "add timeline: bad body", err, requestFields(c))
		c.String(bodyStatus(err), msgFailure)
		return
	}
	in, err := addTimelineInput(body)
	if err != nil {
		helpers.LogError(h.Logger, "add timeline: bad body", err, requestFields(c))
		c.String(http.StatusInternalServerError, msgFailure)
		return
	}
	if _, err := h.Svc.Add(c.Request.Context(), in); err != nil {
		f := requestFields(c)
		f["user_id"] = in.UserID
		helpers.LogError(h.Logger, "add timeline failed", err, f)
		c.String(http.StatusInternalServerError, msgFailure)
		return
	}
	c.String(http.StatusOK, msgSuccess)
}

func addTimelineInput(body map[string]any) (application.AddTimelineInput, error) {
	var (
		in  application.AddTimelineInput
		err error
	)
	if in.UserID, err = parseID(body["userId"]); err != nil {
		return in, err
	}
	if in.Origin, err = stringField(body, "origin"); err != nil {
		return in, err
	}
	if in.Destination, err = stringField(body, "destination"); err != nil {
		return in, err
	}
	in.Time = body["time"]
	return in, nil
}

func timelineViews(list []entity.Timeline) []timelineView {
	out := make([]timelineView, 0, len(list))
	for _, t := range list {
		out = append(out, timelineView{
			Time:        t.Time,
			Sub:         t.Sub,
			Destination: t.Destination,
			Origin:      t.Origin,
			ID:          formatID(t.ID),
		})
	}
	return out
}
