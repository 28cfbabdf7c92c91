package service

import (
	"context"
	"testing"

	"github.com/ComePicard/Cooloc/internal/config"
	"github.com/ComePicard/Cooloc/internal/invite"
	"github.com/ComePicard/Cooloc/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the full schema. A
// single connection keeps every query on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Membership{},
		&model.Spending{},
		&model.Reimbursement{},
		&model.Document{},
		&model.OutboxMessage{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Kafka: config.KafkaConfig{
			Topic: config.KafkaTopicConfig{
				SpendingEvents: "cooloc.spending.events",
				GroupEvents:    "cooloc.group.events",
			},
		},
		Auth: config.AuthConfig{
			Secret:             "test-secret",
			AccessTokenMinutes: 15,
			RefreshTokenDays:   7,
		},
		Business: config.BusinessConfig{
			InvitationTTLMinutes:   60,
			InvitationSweepSeconds: 300,
			OutboxMaxRetryCount:    5,
		},
	}
}

func seedUser(t *testing.T, db *gorm.DB, firstname, email string) *model.User {
	t.Helper()
	user := &model.User{
		Firstname: firstname,
		Lastname:  "Test",
		Email:     email,
		Password:  "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedGroup creates a group owned by the first user and joins the rest.
func seedGroup(t *testing.T, db *gorm.DB, cfg *config.Config, members ...*model.User) *model.Group {
	t.Helper()
	require.NotEmpty(t, members)

	svc := NewGroupService(db, invite.NewRegistry(), cfg)
	group, err := svc.Create(context.Background(), &CreateGroupRequest{Name: "flat"}, members[0].ID)
	require.NoError(t, err)

	for _, member := range members[1:] {
		require.NoError(t, svc.AddMember(context.Background(), member.ID, group.ID))
	}
	return group
}

func outboxEvents(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var messages []*model.OutboxMessage
	require.NoError(t, db.Order("id ASC").Find(&messages).Error)
	events := make([]string, 0, len(messages))
	for _, msg := range messages {
		events = append(events, msg.Payload)
	}
	return events
}
