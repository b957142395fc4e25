package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationID(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background())

	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestIsDebugField(t *testing.T) {
	assert.True(t, isDebugField("correlation_id"))
	assert.True(t, isDebugField("user_id"))
	assert.True(t, isDebugField("auth0_endpoint"))
	assert.False(t, isDebugField("movements"))
}

func TestWithFields_Development(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	SetupTestLogger()

	l := L.WithFields(Fields{"movements": 3}).(*logger)
	assert.NotContains(t, l.entry.Data, "movements")

	l = L.WithFields(Fields{"user_id": "abc", "movements": 3}).(*logger)
	assert.Equal(t, "abc", l.entry.Data["user_id"])
	assert.NotContains(t, l.entry.Data, "movements")
}

func TestWithFields_Production(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	SetupTestLogger()

	l := L.WithFields(Fields{"movements": 3}).(*logger)

	assert.Equal(t, 3, l.entry.Data["movements"])
}
