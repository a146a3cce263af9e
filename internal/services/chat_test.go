package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/models"
)

func TestChat_UnreadFlow(t *testing.T) {
	db, ctx := testDB(t)
	svc := NewChatService(db)

	session, err := svc.CreateSession(ctx, 1, models.CreateChatSessionRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, session.ID)
	assert.Equal(t, defaultChatTitle, session.Title)

	_, err = svc.PostUserMessage(ctx, 1, session.ID, models.PostChatMessageRequest{Content: "Do you have blue-light lenses?"})
	require.NoError(t, err)
	_, err = svc.PostAgentMessage(ctx, session.ID, models.PostChatMessageRequest{Content: "Yes, on every frame."})
	require.NoError(t, err)
	_, err = svc.PostAgentMessage(ctx, session.ID, models.PostChatMessageRequest{Content: "Anything else?"})
	require.NoError(t, err)

	total, err := svc.TotalUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	messages, err := svc.GetMessages(ctx, 1, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, models.ChatSenderUser, messages[0].Sender)
	for _, m := range messages {
		assert.True(t, m.IsRead)
	}

	total, err = svc.TotalUnread(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestChat_Ownership(t *testing.T) {
	db, ctx := testDB(t)
	svc := NewChatService(db)

	session, err := svc.CreateSession(ctx, 1, models.CreateChatSessionRequest{Title: "Sizing"})
	require.NoError(t, err)

	_, err = svc.PostUserMessage(ctx, 2, session.ID, models.PostChatMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.GetMessages(ctx, 2, session.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.ArchiveSession(ctx, 2, session.ID), apperrors.ErrNotFound)

	_, err = svc.PostAgentMessage(ctx, uuid.New(), models.PostChatMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.PostUserMessage(ctx, 1, session.ID, models.PostChatMessageRequest{Content: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestChat_ArchiveAndList(t *testing.T) {
	db, ctx := testDB(t)
	svc := NewChatService(db)

	a, err := svc.CreateSession(ctx, 1, models.CreateChatSessionRequest{Title: "A"})
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, 1, models.CreateChatSessionRequest{Title: "B"})
	require.NoError(t, err)

	require.NoError(t, svc.ArchiveSession(ctx, 1, a.ID))

	active, err := svc.ListSessions(ctx, 1, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "B", active[0].Title)

	all, err := svc.ListSessions(ctx, 1, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// a new reply brings an archived session back
	_, err = svc.PostAgentMessage(ctx, a.ID, models.PostChatMessageRequest{Content: "Following up"})
	require.NoError(t, err)
	active, err = svc.ListSessions(ctx, 1, false)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
