package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	t.Setenv("EMAIL_USER", "enfermeria@school.ed.cr")

	m := newMessage("student@school.ed.cr", "Reminder", "<p>See you soon</p>")

	assert.Equal(t, []string{"student@school.ed.cr"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Reminder"}, m.GetHeader("Subject"))

	from := m.GetHeader("From")
	require.Len(t, from, 1)
	assert.Contains(t, from[0], "enfermeria@school.ed.cr")
	assert.Contains(t, from[0], senderName)
}
