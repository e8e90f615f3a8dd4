package qrcode_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuhub/entitlement/pkg/qrcode"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("generates png bytes", func(t *testing.T) {
		t.Parallel()
		png, err := qrcode.Generate("https://pay.example.com/txn_123", 0)
		require.NoError(t, err)
		// PNG magic bytes
		assert.True(t, len(png) > 8)
		assert.Equal(t, "\x89PNG", string(png[:4]))
	})

	t.Run("rejects empty content", func(t *testing.T) {
		t.Parallel()
		_, err := qrcode.Generate("   ", 128)
		assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
	})
}

func TestGenerateBase64Image(t *testing.T) {
	t.Parallel()

	img, err := qrcode.GenerateBase64Image("https://pay.example.com/txn_123", 128)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img, "data:image/png;base64,"))
}
