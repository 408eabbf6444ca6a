package db_test

import (
	"testing"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/core/ports"
	dbbadger "github.com/numi-network/numi-wallet/internal/infrastructure/storage/db/badger"
	"github.com/numi-network/numi-wallet/internal/infrastructure/storage/db/inmemory"
	"github.com/numi-network/numi-wallet/pkg/zaddr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"
)

type repoManagerFixture struct {
	name string
	rm   ports.RepoManager
}

func createRepoManagers(t *testing.T) []repoManagerFixture {
	badgerRm, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)

	t.Cleanup(badgerRm.Close)

	return []repoManagerFixture{
		{name: "inmemory", rm: inmemory.NewRepoManager()},
		{name: "badger", rm: badgerRm},
	}
}

func randomViewingKey() domain.ViewingKey {
	return domain.ViewingKey{
		Encoded: "xpub" + randstr.Base62(100),
		Network: zaddr.Regtest,
	}
}

func randomHash() string {
	return randstr.Hex(32)
}

func randomSubmission() domain.Submission {
	fee := decimal.RequireFromString("0.0001")
	return *domain.NewSubmission(
		"opid-"+randstr.Hex(16),
		"zregtestsapling1"+randstr.String(20),
		[]domain.Payment{
			{Address: "tm" + randstr.Base62(33), Amount: decimal.NewFromInt(2)},
			{Address: "zregtestsapling1" + randstr.String(20), Amount: decimal.RequireFromString("0.5"), Memo: []byte("memo")},
		},
		1, &fee,
	)
}
