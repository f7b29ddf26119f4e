package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrMissingReadmeService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingReadmeService.Error(), "readme service")
}
