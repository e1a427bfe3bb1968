package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		ctx := NewContext(context.Background())
		l := FromContext(ctx)

		assert.NotNil(t, l)
		assert.Same(t, l, FromContext(ctx))
	})

	t.Run("returns fresh logger when none stored", func(t *testing.T) {
		l := FromContext(context.Background())
		assert.NotNil(t, l)
		assert.NotEmpty(t, l.Trace())
	})
}

func TestLoggerLabels(t *testing.T) {
	l := newDefaultLogger()
	l.SetLabel("startup", "acme")
	l.SetLabels(map[string]string{"provider": "aws"})

	assert.Equal(t, "acme", l.labels["startup"])
	assert.Equal(t, "aws", l.labels["provider"])
}
