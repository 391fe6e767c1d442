package alerts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetracker/database"
	"pricetracker/internal/testutil"
	"pricetracker/models"
	"pricetracker/notify"
)

func f(v float64) *float64 { return &v }

func TestDiscountPercent(t *testing.T) {
	assert.InDelta(t, 20.0, DiscountPercent(100, 80), 0.001)
	assert.InDelta(t, 0.0, DiscountPercent(100, 120), 0.001)
	assert.InDelta(t, 0.0, DiscountPercent(0, 50), 0.001)
}

func TestEvaluateTargetAndDiscount(t *testing.T) {
	productAlerts := []models.Alert{
		{ID: "a1", TargetPrice: f(100), IsActive: true},
		{ID: "a2", DiscountThreshold: f(20), IsActive: true},
	}

	// 120 -> 95: target 100 hit, discount 20.8% over the 20% threshold
	triggered := Evaluate(productAlerts, 95, f(120), "NGN")
	require.Len(t, triggered, 2)
	assert.Contains(t, triggered[0].Reasons[0], "target 100")
	assert.Contains(t, triggered[1].Reasons[0], "Discount")
}

func TestEvaluateNoFireOnFirstObservation(t *testing.T) {
	productAlerts := []models.Alert{
		{ID: "a1", TargetPrice: f(1000000), IsActive: true},
		{ID: "a2", DiscountThreshold: f(1), IsActive: true},
	}

	// previousPrice nil means this is the first-ever observation
	assert.Nil(t, Evaluate(productAlerts, 5, nil, "NGN"))
}

func TestEvaluateSkipsInactiveAndSpentOneShots(t *testing.T) {
	productAlerts := []models.Alert{
		{ID: "off", TargetPrice: f(100), IsActive: false},
		{ID: "spent", TargetPrice: f(100), IsActive: true, NotifyOnce: true, HasNotifiedOnce: true},
		{ID: "live", TargetPrice: f(100), IsActive: true, NotifyOnce: false},
	}

	triggered := Evaluate(productAlerts, 90, f(95), "NGN")
	require.Len(t, triggered, 1)
	assert.Equal(t, "live", triggered[0].Alert.ID)
}

func TestEvaluateBothConditionsOneAlert(t *testing.T) {
	productAlerts := []models.Alert{
		{ID: "a1", TargetPrice: f(100), DiscountThreshold: f(10), IsActive: true},
	}

	triggered := Evaluate(productAlerts, 80, f(100), "NGN")
	require.Len(t, triggered, 1)
	assert.Len(t, triggered[0].Reasons, 2)
}

func setupFireTest(t *testing.T) (*Engine, *notify.MockProvider, models.TrackedProduct) {
	t.Helper()
	testutil.ConnectDB(t)

	user := models.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, database.DB.Create(&user).Error)

	title := "Apple iPhone 15"
	product := models.TrackedProduct{
		UserID:   user.ID,
		Platform: "jumia",
		URL:      "https://www.jumia.com.ng/iphone-15.html",
		Title:    &title,
		Currency: "NGN",
		Status:   models.ProductStatusActive,
	}
	require.NoError(t, database.DB.Create(&product).Error)

	mock := notify.NewMockProvider(testutil.Logger(t))
	return NewEngine(mock, testutil.Logger(t)), mock, product
}

func TestFireCreatesNotificationsAndEmail(t *testing.T) {
	engine, mock, product := setupFireTest(t)

	alert := models.Alert{
		UserID:           product.UserID,
		TrackedProductID: product.ID,
		TargetPrice:      f(100),
		NotifyOnce:       true,
		IsActive:         true,
	}
	require.NoError(t, database.DB.Create(&alert).Error)

	require.NoError(t, engine.Fire(context.Background(), &product, 95, f(120)))

	var notifications []models.Notification
	require.NoError(t, database.DB.Where("user_id = ?", product.UserID).Find(&notifications).Error)
	require.Len(t, notifications, 2)

	channels := map[string]string{}
	for _, n := range notifications {
		channels[n.Channel] = n.Status
		assert.Contains(t, n.Message, "Deal alert")
		assert.Equal(t, models.NotificationTypePriceAlert, n.Type)
	}
	assert.Equal(t, models.NotificationStatusSent, channels[models.ChannelInApp])
	assert.Equal(t, models.NotificationStatusSent, channels[models.ChannelEmail])

	sent := mock.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ada@example.com", sent[0].To)
	assert.Contains(t, sent[0].Subject, "Price Alert")

	var stored models.Alert
	require.NoError(t, database.DB.First(&stored, "id = ?", alert.ID).Error)
	assert.True(t, stored.HasNotifiedOnce)
}

func TestFireNotifyOnceDoesNotRefire(t *testing.T) {
	engine, mock, product := setupFireTest(t)

	alert := models.Alert{
		UserID:           product.UserID,
		TrackedProductID: product.ID,
		TargetPrice:      f(100),
		NotifyOnce:       true,
		IsActive:         true,
	}
	require.NoError(t, database.DB.Create(&alert).Error)

	require.NoError(t, engine.Fire(context.Background(), &product, 95, f(120)))
	require.NoError(t, engine.Fire(context.Background(), &product, 90, f(95)))

	assert.Len(t, mock.Sent(), 1, "one-shot alert must not fire twice")
}

func TestFireEmailFailureStillRecordsInApp(t *testing.T) {
	engine, mock, product := setupFireTest(t)
	mock.FailWith(assert.AnError)

	alert := models.Alert{
		UserID:           product.UserID,
		TrackedProductID: product.ID,
		TargetPrice:      f(100),
		NotifyOnce:       false,
		IsActive:         true,
	}
	require.NoError(t, database.DB.Create(&alert).Error)

	require.NoError(t, engine.Fire(context.Background(), &product, 95, f(120)))

	var notifications []models.Notification
	require.NoError(t, database.DB.Find(&notifications).Error)
	require.Len(t, notifications, 2)

	for _, n := range notifications {
		if n.Channel == models.ChannelEmail {
			assert.Equal(t, models.NotificationStatusFailed, n.Status)
		} else {
			assert.Equal(t, models.NotificationStatusSent, n.Status)
		}
	}
}
