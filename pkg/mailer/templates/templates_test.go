package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/my-maps-api/config"
)

func TestRenderWelcome(t *testing.T) {
	cfg := &config.Config{AppName: "My Maps", CompanyName: "Maps Inc"}
	data := NewWelcomeData(cfg, "ann", "a@x.com")

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to My Maps", subject)
	assert.Contains(t, text, "Hi ann,")
	assert.Contains(t, html, "<strong>a@x.com</strong>")
}

func TestRenderProfileUpdatedListsChanges(t *testing.T) {
	cfg := &config.Config{}
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	data := NewProfileUpdatedData(cfg, "ann", "a@x.com", map[string]string{"username": "ann2"}, WithTime(at))

	subject, text, _, err := Render(ProfileUpdated, data)
	require.NoError(t, err)
	assert.Equal(t, "Your My Maps profile was updated", subject)
	assert.Contains(t, text, "- username: ann2")
	assert.Contains(t, text, "01 January 2024, 10:00")
}
