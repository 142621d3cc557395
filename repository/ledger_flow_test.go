package repository

import (
	"context"
	"testing"
	"time"

	"adboard/application"
	"adboard/domain/entities"
	"adboard/domain/services"
	"adboard/domain/testhelpers"
	"adboard/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLedgerFlow_GrantThenCrossChannelSpending replays a full advertiser
// lifecycle against real repositories: a publisher grant, a spend on the
// grantor's own channel, a spend on an unrelated channel funded by the
// global balance alone, and finally an over-budget spend that must bounce.
func TestLedgerFlow_GrantThenCrossChannelSpending(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	accountRepo := NewAccountRepository(testDB.DB)
	channelRepo := NewChannelRepository(testDB.DB)

	grantor, err := accountRepo.Create(ctx, "grantor-publisher", entities.AccountRolePublisher)
	require.NoError(t, err)
	otherPublisher, err := accountRepo.Create(ctx, "other-publisher", entities.AccountRolePublisher)
	require.NoError(t, err)
	advertiser, err := accountRepo.Create(ctx, "advertiser", entities.AccountRoleAdvertiser)
	require.NoError(t, err)

	grantorChannel := testutil.CreateTestChannelWithPrice(grantor.ID, 4001, 30)
	require.NoError(t, channelRepo.Create(ctx, grantorChannel))
	unrelatedChannel := testutil.CreateTestChannelWithPrice(otherPublisher.ID, 4002, 50)
	require.NoError(t, channelRepo.Create(ctx, unrelatedChannel))

	factory := NewUnitOfWorkFactory(testDB.DB, &testhelpers.NoopEventPublisher{})

	// Reads between steps go through a non-transactional ledger service.
	reader := services.NewLedgerService(accountRepo, NewLedgerEntryRepository(testDB.DB), &testhelpers.NoopEventPublisher{})

	schedule := func(uow application.UnitOfWork, channelID int64) error {
		ledgerSvc := services.NewLedgerService(uow.AccountRepository(), uow.LedgerEntryRepository(), uow.EventBus())
		schedulingSvc := services.NewSchedulingService(uow.PostRepository(), uow.ChannelRepository(), uow.AccountRepository(), ledgerSvc, uow.EventBus())

		post, err := schedulingSvc.CreateDraft(ctx, advertiser.ID, channelID, "ad content")
		if err != nil {
			return err
		}
		_, err = schedulingSvc.Schedule(ctx, post.ID, advertiser.ID, []time.Time{time.Now().Add(time.Hour)})
		return err
	}

	t.Run("publisher grant funds the advertiser", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		ledgerSvc := services.NewLedgerService(uow.AccountRepository(), uow.LedgerEntryRepository(), uow.EventBus())
		_, err := ledgerSvc.Grant(ctx, grantor.ID, advertiser.ID, 100, entities.EntryKindPublisherGrant, "campaign budget")
		require.NoError(t, err)
		require.NoError(t, uow.Commit())

		balance, err := reader.GlobalBalance(ctx, advertiser.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), balance)

		available, err := reader.AvailableFrom(ctx, advertiser.ID, grantor.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), available)
	})

	t.Run("spending on the grantor's channel draws down the sub-balance", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, schedule(uow, grantorChannel.ID))
		require.NoError(t, uow.Commit())

		balance, err := reader.GlobalBalance(ctx, advertiser.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(70), balance)

		available, err := reader.AvailableFrom(ctx, advertiser.ID, grantor.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(70), available)
	})

	t.Run("global balance alone funds an unrelated channel", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, schedule(uow, unrelatedChannel.ID))
		require.NoError(t, uow.Commit())

		balance, err := reader.GlobalBalance(ctx, advertiser.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(20), balance)

		// The spend went to another publisher's channel, so the grantor's
		// sub-balance is untouched.
		available, err := reader.AvailableFrom(ctx, advertiser.ID, grantor.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(70), available)
	})

	t.Run("spend past the remaining balance is rejected", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		err := schedule(uow, unrelatedChannel.ID)
		require.Error(t, err)
		require.NoError(t, uow.Rollback())

		var insufficient *entities.InsufficientCreditError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, advertiser.ID, insufficient.AccountID)
		assert.Equal(t, int64(50), insufficient.Requested)
		assert.Equal(t, int64(20), insufficient.GlobalBalance)

		// Nothing committed: balance and earnings are as they were.
		balance, err := reader.GlobalBalance(ctx, advertiser.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(20), balance)

		ownerBalance, err := reader.GlobalBalance(ctx, otherPublisher.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), ownerBalance)
	})
}
