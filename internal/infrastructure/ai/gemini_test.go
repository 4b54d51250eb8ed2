package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"stationery/internal/domain/catalog"
)

func TestPrompt(t *testing.T) {
	p := Prompt("Ann took 3 pens", catalog.New([]string{"Pen", "Card"}, []string{"Main Campus"}))

	assert.Contains(t, p, `"reports"`)
	assert.Contains(t, p, `"stock"`)
	assert.Contains(t, p, "Known item names: Pen, Card.")
	assert.Contains(t, p, "one of: Main Campus")
	assert.Contains(t, p, "Ann took 3 pens")
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "", nil, nil)
	assert.Error(t, err)
}
