package llmclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClient_Gemini(t *testing.T) {
	cfg := validLLMConfig()

	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.IsType(t, &GeminiClient{}, client)
	assert.NoError(t, client.Close())
}

func TestNewClient_UnknownProvider(t *testing.T) {
	cfg := validLLMConfig()
	cfg.Provider = "watson"

	client, err := NewClient(cfg, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "unknown or unsupported LLM provider")
}
