package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuryaSekhar14/s3rd-chat/internal/entity"
	"github.com/SuryaSekhar14/s3rd-chat/internal/repository/specification"
	"github.com/SuryaSekhar14/s3rd-chat/internal/repository/unitofwork"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/database"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ConversationRepository())
	assert.NotNil(t, uow.MessageRepository())
	assert.NotNil(t, uow.APIKeyRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Transactional Replace Messages", func(t *testing.T) {
		ctx := context.Background()

		userId := uuid.New()
		user := &entity.User{
			Id:           userId,
			Username:     "integration-" + uuid.New().String()[:8],
			Email:        "test-integration-" + uuid.New().String() + "@example.com",
			PasswordHash: "not-a-real-hash",
			CreatedAt:    time.Now(),
		}
		require.NoError(t, uow.UserRepository().Create(ctx, user))

		conversationId := uuid.New()
		conversation := &entity.Conversation{
			Id:        conversationId,
			UserId:    userId,
			Title:     "Integration Conversation",
			Persona:   "none",
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.ConversationRepository().Create(ctx, conversation))

		// Transaction: wipe and rewrite the message list
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		require.NoError(t, uow.MessageRepository().DeleteAllByConversationId(ctx, conversationId))

		base := time.Now()
		messages := []*entity.ConversationMessage{
			{
				Id:             uuid.New(),
				ConversationId: conversationId,
				Seq:            0,
				Content:        "hello",
				IsUser:         true,
				CreatedAt:      base,
			},
			{
				Id:             uuid.New(),
				ConversationId: conversationId,
				Seq:            1,
				Content:        "hi there",
				IsUser:         false,
				CreatedAt:      base.Add(time.Millisecond),
			},
		}
		require.NoError(t, uow.MessageRepository().CreateMany(ctx, messages))
		require.NoError(t, uow.ConversationRepository().Touch(ctx, conversationId))
		require.NoError(t, uow.Commit())

		// Order must come back by seq
		stored, err := uow.MessageRepository().FindAll(ctx,
			specification.ByConversationID{ConversationID: conversationId},
			specification.OrderBy{Field: "seq", Desc: false},
		)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, "hello", stored[0].Content)
		assert.Equal(t, "hi there", stored[1].Content)

		t.Log("Successfully replaced message list in transaction")
	})
}
