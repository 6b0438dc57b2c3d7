package server

import (
	"errors"
	"net/http"

	billdomain "github.com/aquabill-labs/aquabill/internal/bill/domain"
	settingsdomain "github.com/aquabill-labs/aquabill/internal/settings/domain"
	tenantdomain "github.com/aquabill-labs/aquabill/internal/tenant/domain"
	"github.com/gin-gonic/gin"
)

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// AbortWithError maps domain errors to HTTP statuses. Anything unrecognized
// is a storage failure and reported as such, so clients can tell "this bill
// is invalid" apart from "the store is unavailable".
func AbortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "storage_error"

	switch {
	case errors.Is(err, tenantdomain.ErrTenantNotFound),
		errors.Is(err, billdomain.ErrBillNotFound),
		errors.Is(err, settingsdomain.ErrSettingNotFound):
		status, code = http.StatusNotFound, err.Error()

	case errors.Is(err, tenantdomain.ErrCodeAlreadyUsed),
		errors.Is(err, billdomain.ErrOverlappingPeriod),
		errors.Is(err, billdomain.ErrAlreadyPaid),
		errors.Is(err, billdomain.ErrBillClosed):
		status, code = http.StatusConflict, err.Error()

	case errors.Is(err, tenantdomain.ErrTenantInactive),
		errors.Is(err, billdomain.ErrInvalidPeriod),
		errors.Is(err, billdomain.ErrInsufficientData),
		errors.Is(err, billdomain.ErrNegativeConsumption),
		errors.Is(err, settingsdomain.ErrInvalidValue):
		status, code = http.StatusUnprocessableEntity, rootCode(err)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
	})
}

func abortBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error": gin.H{
			"code":    "bad_request",
			"message": err.Error(),
		},
	})
}

// rootCode unwraps to the sentinel so wrapped errors keep a stable code.
func rootCode(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}
