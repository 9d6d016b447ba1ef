package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentValidation(t *testing.T) {
	svc := NewCommentService(newFakeCommentRepo(), nil)

	_, err := svc.Add(context.Background(), "user-1", "", "hello")
	require.Error(t, err)

	_, err = svc.Add(context.Background(), "user-1", "ticket-1", "   ")
	require.Error(t, err)
}

func TestAddAndListComments(t *testing.T) {
	svc := NewCommentService(newFakeCommentRepo(), nil)

	first, err := svc.Add(context.Background(), "user-1", "ticket-1", "first")
	require.NoError(t, err)
	second, err := svc.Add(context.Background(), "user-2", "ticket-1", "second")
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "user-1", "ticket-2", "elsewhere")
	require.NoError(t, err)

	comments, err := svc.List(context.Background(), "ticket-1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID, "oldest first")
	assert.Equal(t, second.ID, comments[1].ID)
	assert.Equal(t, "user-2", comments[1].UserID)
}
