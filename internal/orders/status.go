package orders

import (
	"fmt"

	"github.com/mcharvet/boutik/internal/apperr"
	"github.com/mcharvet/boutik/internal/models"
)

// ValidateTransition rejects status updates not allowed by the transition
// table
func ValidateTransition(current, next models.Status) error {
	if !models.CanUpdateStatus(current, next) {
		return apperr.New(apperr.KindIllegalTransition,
			fmt.Sprintf("cannot update status from %s to %s", current, next))
	}
	return nil
}
