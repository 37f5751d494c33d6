package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	t.Run("warn level by default", func(t *testing.T) {
		var buf bytes.Buffer
		Initialize(&buf, false)

		Logger.Debug("exit code mismatch", "fixture", "if/if1.wacc")
		assert.Empty(t, buf.String())

		Logger.Warn("execution failure", "fixture", "if/if1.wacc")
		assert.Contains(t, buf.String(), "execution failure")
		assert.Contains(t, buf.String(), "fixture=if/if1.wacc")
	})

	t.Run("debug level", func(t *testing.T) {
		var buf bytes.Buffer
		Initialize(&buf, true)

		Logger.Debug("exit code mismatch", "got", 1, "want", 200)
		assert.Contains(t, buf.String(), "got=1")
		assert.Contains(t, buf.String(), "want=200")
	})
}
