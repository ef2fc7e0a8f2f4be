package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://localhost:27017", buildMongoURI("mongodb://localhost:27017", ""))
	assert.Equal(t, "mongodb://localhost:27017?retryWrites=true", buildMongoURI("mongodb://localhost:27017", "retryWrites=true"))
	assert.Equal(t, "mongodb://h/?authSource=admin&w=majority", buildMongoURI("mongodb://h/?authSource=admin", "w=majority"))
}
