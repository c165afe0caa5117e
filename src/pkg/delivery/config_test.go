package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitializeConfigFillsMissingFields(t *testing.T) {
	t.Cleanup(func() { Cfg = DefaultValueConfig() })

	InitializeConfig(&Config{OutputDir: "./reports", EmailSender: "reports@example.com"})
	assert.Equal(t, "./reports", Cfg.OutputDir)
	assert.Equal(t, "reports@example.com", Cfg.EmailSender)
	assert.Equal(t, "mailgun", Cfg.EmailProvider)
	assert.Equal(t, DefaultValueConfig().EmailSubject, Cfg.EmailSubject)

	InitializeConfig(nil)
	assert.Equal(t, "./reports", Cfg.OutputDir)
}
