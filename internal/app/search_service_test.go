package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledgevault/internal/model"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0, 0}, []float32{1, 0, 0}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)

	// mismatched or empty vectors score zero
	assert.Equal(t, float32(0), cosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Equal(t, float32(0), cosineSimilarity(nil, nil))
	assert.Equal(t, float32(0), cosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}

func TestRankChunks(t *testing.T) {
	mk := func(docID uint, emb []float32) model.DocumentChunk {
		c := model.DocumentChunk{DocumentID: docID}
		c.SetEmbedding(emb)
		return c
	}
	chunks := []model.DocumentChunk{
		mk(1, []float32{0, 1}),
		mk(2, []float32{1, 0}),
		mk(3, []float32{0.7, 0.7}),
	}
	query := []float32{1, 0}

	top := rankChunks(chunks, query, 2)
	require.Len(t, top, 2)
	assert.Equal(t, uint(2), top[0].chunk.DocumentID)
	assert.Equal(t, uint(3), top[1].chunk.DocumentID)

	// k larger than the pool returns everything
	all := rankChunks(chunks, query, 10)
	assert.Len(t, all, 3)
}
