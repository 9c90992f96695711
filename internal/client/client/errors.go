package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/evidencevault/internal/api"
	"github.com/dmitrijs2005/evidencevault/internal/common"
)

var ErrUnavailable = errors.New("server unavailable")

// mapError turns an API error body into an error matching the common sentinels.
func mapError(status int, e api.Error) error {
	msg := e.Error
	if msg == "" {
		msg = fmt.Sprintf("status %d", status)
	}

	switch e.Kind {
	case api.KindValidation:
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	case api.KindNotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, msg)
	case api.KindStorage:
		return fmt.Errorf("%w: %s", common.ErrStorage, msg)
	case api.KindMetadata:
		return fmt.Errorf("%w: %s", common.ErrMetadata, msg)
	case api.KindCompensation:
		return fmt.Errorf("%w: %w: %s", common.ErrMetadata, common.ErrCompensation, msg)
	default:
		return fmt.Errorf("%w: %s", common.ErrorInternal, msg)
	}
}
