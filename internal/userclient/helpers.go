package userclient

import (
	"errors"
	"fmt"
)

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("study hub service unavailable at %s", serverURL)
	}
	return err
}
