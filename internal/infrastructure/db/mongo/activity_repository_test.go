package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/finanzapp/finance-api/internal/core/domain"
)

func TestToMongoActivity_OmitsEmptyFields(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc := toMongoActivity(&domain.Activity{
		Kind:    domain.ActivityTransactionAdded,
		Subject: "tx-1",
		At:      at,
	})

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.Equal(t, "transaction_added", m["kind"])
	assert.Equal(t, "tx-1", m["subject"])
	assert.NotContains(t, m, "_id")
	assert.NotContains(t, m, "account_id")
	assert.NotContains(t, m, "email")
	assert.NotContains(t, m, "session_id")
	assert.True(t, doc.At.Time().Equal(at))
}

func TestActivityRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		repo := NewActivityRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.Insert(context.Background(), &domain.Activity{
			Kind:      domain.ActivitySignInSucceeded,
			AccountID: 1,
			Email:     "ana@example.com",
			SessionID: "sid-1",
			At:        time.Now(),
		})
		assert.NoError(mt, err)
	})

	mt.Run("insert error is wrapped", func(mt *mtest.T) {
		repo := NewActivityRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    121,
			Message: "document failed validation",
		}))

		err := repo.Insert(context.Background(), &domain.Activity{Kind: domain.ActivitySessionEnded})
		assert.ErrorContains(mt, err, "insert activity")
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := NewActivityRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, repo.EnsureIndexes(context.Background()))
	})
}
