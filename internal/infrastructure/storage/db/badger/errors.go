package dbbadger

import (
	"fmt"

	"github.com/numi-network/numi-wallet/internal/core/domain"
)

func storageError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrStorage, err)
}
