package email

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksvarts/classroom-auth/internal/logging"
)

func TestDevDispatcher_Send(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	d := NewDevDispatcher(l)
	res, err := d.Send(context.Background(), "a@b.com", "verify-email", "Alice", "123456")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "verify-email", res.Subject)

	out := buf.String()
	for _, s := range []string{"a@b.com", "verify-email", "123456"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in log output:\n%s", s, out)
		}
	}
}
