package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/personnel-api/models"
	"github.com/yeremiapane/personnel-api/repository"
	"github.com/yeremiapane/personnel-api/services"
	"github.com/yeremiapane/personnel-api/testutil"
	"gorm.io/gorm"
)

type published struct {
	userID uint
	count  int64
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) PublishUnreadCount(userID uint, count int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{userID: userID, count: count})
}

func (p *recordingPublisher) last() (published, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return published{}, false
	}
	return p.events[len(p.events)-1], true
}

func newNotificationService(t *testing.T) (*services.NotificationService, *recordingPublisher, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	pub := &recordingPublisher{}
	svc := services.NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		pub,
	)
	svc.Clock = func() time.Time { return time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC) }
	return svc, pub, db
}

func TestMarkAllReadClearsUnreadCount(t *testing.T) {
	svc, pub, db := newNotificationService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, models.User{})
	other := testutil.CreateUser(t, db, models.User{})

	for i := 0; i < 5; i++ {
		testutil.CreateNotification(t, db, user.ID, false)
	}
	testutil.CreateNotification(t, db, user.ID, true)
	testutil.CreateNotification(t, db, other.ID, false)

	count, err := svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)

	updated, err := svc.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, updated)

	count, err = svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	ev, ok := pub.last()
	require.True(t, ok)
	assert.Equal(t, published{userID: user.ID, count: 0}, ev)

	otherCount, err := svc.UnreadCount(ctx, other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, otherCount)

	// Nothing left to change: no publish.
	pub.events = nil
	updated, err = svc.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, updated)
	_, ok = pub.last()
	assert.False(t, ok)
}

func TestNotificationsAreScopedToCaller(t *testing.T) {
	svc, _, db := newNotificationService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, models.User{})
	stranger := testutil.CreateUser(t, db, models.User{})
	notif := testutil.CreateNotification(t, db, owner.ID, false)

	_, err := svc.Get(ctx, stranger.ID, notif.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.MarkRead(ctx, stranger.ID, notif.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	err = svc.Delete(ctx, stranger.ID, notif.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	list, err := svc.List(ctx, stranger.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.Get(ctx, owner.ID, notif.ID)
	require.NoError(t, err)
	assert.False(t, got.IsRead)
}

func TestMarkReadPublishesRemainingCount(t *testing.T) {
	svc, pub, db := newNotificationService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, models.User{})
	first := testutil.CreateNotification(t, db, user.ID, false)
	testutil.CreateNotification(t, db, user.ID, false)

	notif, err := svc.MarkRead(ctx, user.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, notif.IsRead)
	require.NotNil(t, notif.ReadAt)
	assert.True(t, notif.ReadAt.Equal(svc.Clock()))

	ev, ok := pub.last()
	require.True(t, ok)
	assert.Equal(t, published{userID: user.ID, count: 1}, ev)

	unread := false
	list, err := svc.List(ctx, user.ID, &unread)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, user.ID, first.ID))
	_, err = svc.Get(ctx, user.ID, first.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCreateNotification(t *testing.T) {
	svc, pub, db := newNotificationService(t)
	ctx := context.Background()
	staff := testutil.CreateUser(t, db, models.User{IsStaff: true})
	member := testutil.CreateUser(t, db, models.User{})

	t.Run("staff creates for recipient", func(t *testing.T) {
		link := "/tasks/12"
		notif, err := svc.Create(ctx, staff.ID, services.CreateNotificationInput{
			RecipientID: member.ID,
			Title:       "  Sprint planning  ",
			Message:     "Planning starts at 10:00.",
			Link:        &link,
		})
		require.NoError(t, err)
		assert.NotZero(t, notif.ID)
		assert.Equal(t, "Sprint planning", notif.Title)
		assert.Equal(t, models.NotificationTypeGeneral, notif.Type)
		assert.False(t, notif.IsRead)

		ev, ok := pub.last()
		require.True(t, ok)
		assert.Equal(t, published{userID: member.ID, count: 1}, ev)
	})

	t.Run("non staff is forbidden", func(t *testing.T) {
		_, err := svc.Create(ctx, member.ID, services.CreateNotificationInput{
			RecipientID: staff.ID,
			Title:       "Hi",
			Message:     "Hello",
		})
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := svc.Create(ctx, staff.ID, services.CreateNotificationInput{
			RecipientID: member.ID,
			Title:       "   ",
			Message:     "Hello",
		})
		assert.ErrorIs(t, err, services.ErrInvalidInput)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		_, err := svc.Create(ctx, staff.ID, services.CreateNotificationInput{
			RecipientID: 424242,
			Title:       "Hi",
			Message:     "Hello",
		})
		assert.ErrorIs(t, err, services.ErrNotFound)
	})
}

func TestNotificationServiceWithoutPublisher(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewNotificationService(repository.NewNotificationRepository(db), repository.NewUserRepository(db), nil)
	user := testutil.CreateUser(t, db, models.User{})
	notif := testutil.CreateNotification(t, db, user.ID, false)

	_, err := svc.MarkRead(context.Background(), user.ID, notif.ID)
	require.NoError(t, err)
	_, err = svc.MarkAllRead(context.Background(), user.ID)
	require.NoError(t, err)
}

// arrivingNotificationRepo delivers a new notification to the recipient right
// after the bulk update, as a concurrent Create would.
type arrivingNotificationRepo struct {
	repository.NotificationRepository
	t  *testing.T
	db *gorm.DB
}

func (r *arrivingNotificationRepo) MarkAllRead(ctx context.Context, recipientID uint, at time.Time) (int64, error) {
	updated, err := r.NotificationRepository.MarkAllRead(ctx, recipientID, at)
	testutil.CreateNotification(r.t, r.db, recipientID, false)
	return updated, err
}

func TestMarkAllReadPublishesStoredCount(t *testing.T) {
	db := testutil.NewDB(t)
	pub := &recordingPublisher{}
	svc := services.NewNotificationService(
		&arrivingNotificationRepo{NotificationRepository: repository.NewNotificationRepository(db), t: t, db: db},
		repository.NewUserRepository(db),
		pub,
	)
	user := testutil.CreateUser(t, db, models.User{})
	testutil.CreateNotification(t, db, user.ID, false)
	testutil.CreateNotification(t, db, user.ID, false)

	updated, err := svc.MarkAllRead(context.Background(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	ev, ok := pub.last()
	require.True(t, ok)
	assert.Equal(t, published{userID: user.ID, count: 1}, ev)
}

func TestSetReadTogglesAndPublishes(t *testing.T) {
	svc, pub, db := newNotificationService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, models.User{})
	other := testutil.CreateUser(t, db, models.User{})
	n := testutil.CreateNotification(t, db, user.ID, true)
	testutil.CreateNotification(t, db, user.ID, false)

	got, err := svc.SetRead(ctx, user.ID, n.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsRead)
	assert.Nil(t, got.ReadAt)
	ev, ok := pub.last()
	require.True(t, ok)
	assert.Equal(t, published{userID: user.ID, count: 2}, ev)

	got, err = svc.SetRead(ctx, user.ID, n.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	require.NotNil(t, got.ReadAt)
	ev, _ = pub.last()
	assert.Equal(t, published{userID: user.ID, count: 1}, ev)

	_, err = svc.SetRead(ctx, other.ID, n.ID, false)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
