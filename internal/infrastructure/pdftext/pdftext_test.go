package pdftext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7\n...")))
	assert.False(t, IsPDF([]byte("{\"reports\": []}")))
	assert.False(t, IsPDF(nil))
}

func TestText_RejectsNonPDF(t *testing.T) {
	_, err := New(nil).Text(context.Background(), []byte("hello"))
	assert.Error(t, err)
}
