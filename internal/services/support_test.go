package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
)

func TestSupport_UnreadCounters(t *testing.T) {
	db, ctx := testDB(t)
	notifier := &recordingNotifier{}
	svc := NewSupportService(db, notifier)

	ticket, err := svc.OpenTicket(ctx, 1, "ana@example.com", models.OpenTicketRequest{Subject: "Bent hinge", Message: "My frame arrived bent."})
	require.NoError(t, err)
	assert.Equal(t, models.TicketOpen, ticket.Status)
	assert.Equal(t, 1, ticket.UnreadByAdmin)
	assert.Equal(t, []string{"My frame arrived bent."}, notifier.support)

	_, err = svc.PostMessage(ctx, 99, utils.RoleAdmin, ticket.ID, models.PostMessageRequest{Body: "Sorry! Sending a new one."})
	require.NoError(t, err)
	_, err = svc.PostMessage(ctx, 99, utils.RoleAdmin, ticket.ID, models.PostMessageRequest{Body: "Tracking to follow."})
	require.NoError(t, err)
	assert.Len(t, notifier.support, 1)

	unread, err := svc.UnreadCount(ctx, 1, utils.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	thread, err := svc.GetTicket(ctx, 1, utils.RoleCustomer, ticket.ID)
	require.NoError(t, err)
	require.Len(t, thread.Messages, 3)
	assert.Equal(t, models.SenderCustomer, thread.Messages[0].SenderRole)
	assert.Equal(t, models.SenderAdmin, thread.Messages[2].SenderRole)
	assert.Zero(t, thread.UnreadByUser)
	assert.Equal(t, 1, thread.UnreadByAdmin)

	adminView, err := svc.GetTicket(ctx, 99, utils.RoleAdmin, ticket.ID)
	require.NoError(t, err)
	assert.Zero(t, adminView.UnreadByAdmin)

	_, err = svc.GetTicket(ctx, 2, utils.RoleCustomer, ticket.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSupport_CustomerReplyReopens(t *testing.T) {
	db, ctx := testDB(t)
	notifier := &recordingNotifier{}
	svc := NewSupportService(db, notifier)

	ticket, err := svc.OpenTicket(ctx, 1, "", models.OpenTicketRequest{Subject: "Refund", Message: "Where is it?"})
	require.NoError(t, err)

	closed, err := svc.CloseTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketClosed, closed.Status)

	open, err := svc.ListTickets(ctx, 1, utils.RoleCustomer, models.TicketOpen)
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = svc.PostMessage(ctx, 1, utils.RoleCustomer, ticket.ID, models.PostMessageRequest{Body: "Still waiting"})
	require.NoError(t, err)
	assert.Len(t, notifier.support, 2)

	open, err = svc.ListTickets(ctx, 1, utils.RoleCustomer, models.TicketOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, 2, open[0].UnreadByAdmin)

	_, err = svc.PostMessage(ctx, 2, utils.RoleCustomer, ticket.ID, models.PostMessageRequest{Body: "hijack"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.PostMessage(ctx, 1, utils.RoleCustomer, ticket.ID, models.PostMessageRequest{Body: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CloseTicket(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSupport_ListTicketsScopesByRole(t *testing.T) {
	db, ctx := testDB(t)
	svc := NewSupportService(db, nil)

	_, err := svc.OpenTicket(ctx, 1, "", models.OpenTicketRequest{Subject: "A", Message: "a"})
	require.NoError(t, err)
	_, err = svc.OpenTicket(ctx, 2, "", models.OpenTicketRequest{Subject: "B", Message: "b"})
	require.NoError(t, err)

	mine, err := svc.ListTickets(ctx, 1, utils.RoleCustomer, "")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.ListTickets(ctx, 99, utils.RoleAdmin, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	unread, err := svc.UnreadCount(ctx, 99, utils.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)
}
