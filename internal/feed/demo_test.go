package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostsEmbedTopic(t *testing.T) {
	posts := Posts("Bitcoin")
	require.Len(t, posts, 5)
	for _, post := range posts {
		assert.Contains(t, post, "Bitcoin")
	}
}

func TestPostsDeterministic(t *testing.T) {
	assert.Equal(t, Posts("ETH"), Posts("ETH"))
}
