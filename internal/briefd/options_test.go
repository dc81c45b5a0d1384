package briefd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrust-io/briefd/internal/briefd/biz"
	"github.com/thrust-io/briefd/internal/pkg/textutil"
)

func TestNewOptionsDefaults(t *testing.T) {
	opts := NewOptions()

	assert.Equal(t, biz.DefaultChunkTokens, opts.Briefs.ChunkTokens)
	assert.Equal(t, biz.DefaultMetaThreshold, opts.Briefs.MetaThreshold)
	assert.InDelta(t, textutil.DefaultEnglishRatio, opts.Briefs.EnglishRatio, 0.001)
	assert.Equal(t, "text-embedding-3-small", opts.Embedding.Model)
	assert.Equal(t, "gpt-4", opts.Chat.Model)

	// The ask cache stays off until a deployment opts in.
	assert.False(t, opts.Cache.Enabled)
}

func TestValidateBriefTunables(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	base := func() *Options {
		opts := NewOptions()
		opts.Postgres.Database = "briefd"
		return opts
	}

	require.NoError(t, base().Validate())

	opts := base()
	opts.Briefs.MetaThreshold = 0
	require.Error(t, opts.Validate())

	opts = base()
	opts.Briefs.EnglishRatio = 1.5
	require.Error(t, opts.Validate())
}
