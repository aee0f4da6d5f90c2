package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenSourcesIdempotent(t *testing.T) {
	parts := []Part{
		NewText("before"),
		NewSource("https://example.com", "Example", []Part{
			NewText("cited"),
			NewSource("https://nested.example", "Nested", []Part{NewText("deep")}),
		}),
		NewText("after"),
	}

	once := FlattenSources(parts)
	twice := FlattenSources(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, []Part{NewText("before"), NewText("cited"), NewText("deep"), NewText("after")}, once)
}

func TestFlattenDocumentsIdempotent(t *testing.T) {
	parts := []Part{
		NewDocument([]Part{NewText("a"), NewDocument([]Part{NewText("b")})}),
	}

	once := FlattenDocuments(parts)
	twice := FlattenDocuments(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, []Part{NewText("a"), NewText("b")}, once)
}

func TestFlattenSourcesPreservesNonSourceParts(t *testing.T) {
	parts := []Part{NewText("plain"), NewDocument([]Part{NewText("doc")})}
	assert.Equal(t, parts, FlattenSources(parts))
}
