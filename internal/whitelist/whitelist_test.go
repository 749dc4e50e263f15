package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestChecker(t *testing.T) {
	c := NewChecker([]string{"@MyCompany.example", " partner.example ", ""}, zap.NewNop())

	assert.True(t, c.Contains("mycompany.example"))
	assert.True(t, c.Contains("PARTNER.example"))
	assert.False(t, c.Contains("other.example"))
}

func TestEmptyChecker(t *testing.T) {
	var nilChecker *Checker
	assert.False(t, nilChecker.Contains("a.example"))
	assert.False(t, NewChecker(nil, nil).Contains("a.example"))
}
