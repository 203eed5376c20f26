package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/service"
)

const chromeOnWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestDeviceLabel(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		contains  []string
	}{
		{"empty", "", []string{"Unknown Device"}},
		{"desktop chrome", chromeOnWindows, []string{"Chrome", " on ", "Windows"}},
		{"iphone safari", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", []string{"Safari", "iPhone"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label := service.DeviceLabel(tt.userAgent)
			for _, part := range tt.contains {
				assert.Contains(t, label, part)
			}
		})
	}
}

func TestActivityService_Record_ClientContext(t *testing.T) {
	e := newEnv(t)
	ctx := logger.WithClientContext(context.Background(), "203.0.113.7", chromeOnWindows)

	require.NoError(t, e.activity.Record(ctx, 7, domain.ActionAuthLogout, domain.ResourceAuth, "op@tracker.test",
		map[string]interface{}{"reason": "manual"}))

	rows, err := e.activity.ListForUser(context.Background(), 7, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, domain.ActionAuthLogout, row.Action)
	assert.Equal(t, "op@tracker.test", row.ResourceID)
	require.NotNil(t, row.IPAddress)
	assert.Equal(t, "203.0.113.7", *row.IPAddress)
	require.NotNil(t, row.UserAgent)
	assert.Equal(t, chromeOnWindows, *row.UserAgent)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(row.Details, &details))
	assert.Equal(t, "manual", details["reason"])
	assert.Equal(t, service.DeviceLabel(chromeOnWindows), details["device"])
}

func TestActivityService_Record_WithoutClient(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.activity.Record(context.Background(), 1, domain.ActionAuditCreate, domain.ResourceAudit, "3", nil))

	rows, err := e.activity.ListForUser(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].IPAddress)
	assert.Nil(t, rows[0].UserAgent)
	assert.Empty(t, rows[0].Details)
}

func TestActivityService_RecordTx_RollsBackWithTransaction(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := e.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := e.activity.RecordTx(ctx, tx, 5, domain.ActionAccountDisable, domain.ResourceUser, "9", nil); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = e.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		return e.activity.RecordTx(ctx, tx, 5, domain.ActionAccountEnable, domain.ResourceUser, "9", nil)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{domain.ActionAccountEnable}, e.activityActions(t, domain.ResourceUser, "9"))
}

func TestActivityService_ListRecent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, e.activity.Record(ctx, int64(i+1), domain.ActionAuthLoginSuccess, domain.ResourceAuth, "a@tracker.test", nil))
	}

	rows, total, err := e.activity.ListRecent(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(5), rows[0].UserID)

	rows, _, err = e.activity.ListRecent(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].UserID)

	rows, _, err = e.activity.ListRecent(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}
