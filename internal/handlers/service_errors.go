package handlers

import (
	stderrors "errors"

	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// serviceErrorCodes maps domain sentinel errors to API error codes. Errors
// listed with detail=true carry the service message in the response details.
var serviceErrorCodes = []struct {
	err    error
	code   errors.ErrorCode
	detail bool
}{
	{services.ErrUserNotFound, errors.UserNotFound, false},
	{services.ErrEmailAlreadyExists, errors.UserEmailAlreadyTaken, false},
	{services.ErrPasswordNotSet, errors.UserNoPasswordSet, false},
	{services.ErrCurrentPasswordWrong, errors.AuthInvalidCredentials, false},
	{services.ErrSamePassword, errors.UserSamePassword, false},
	{services.ErrPasswordEmpty, errors.ValidationWeakPassword, true},
	{services.ErrPasswordTooShort, errors.ValidationWeakPassword, true},
	{services.ErrPasswordTooLong, errors.ValidationWeakPassword, true},
	{services.ErrCategoryNotFound, errors.CategoryNotFound, false},
	{services.ErrCategoryInUse, errors.CategoryInUse, true},
	{services.ErrExpenseNotFound, errors.ExpenseNotFound, false},
	{services.ErrSubscriptionNotFound, errors.SubscriptionNotFound, false},
	{services.ErrInvalidCategory, errors.ValidationGeneral, true},
	{services.ErrInvalidExpense, errors.ValidationGeneral, true},
	{services.ErrInvalidSubscription, errors.ValidationGeneral, true},
	{services.ErrInvalidYear, errors.ValidationOutOfRange, true},
	{services.ErrInvalidGenerateCount, errors.ValidationOutOfRange, true},
	{services.ErrNoCategories, errors.CategoryNotFound, true},
}

// sendServiceError answers with the API error matching err, or a system error
// when err is not a known domain error.
func sendServiceError(c echo.Context, err error) error {
	for _, m := range serviceErrorCodes {
		if !stderrors.Is(err, m.err) {
			continue
		}
		if m.detail {
			return SendError(c, m.code, errors.WithDetails(err.Error()))
		}
		return SendError(c, m.code)
	}
	return SendSystemError(c, err)
}

func sendInvalidBody(c echo.Context) error {
	return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
}

func sendInvalidID(c echo.Context) error {
	return SendError(c, errors.ValidationInvalidID)
}

func sendInvalidMonth(c echo.Context) error {
	return SendError(c, errors.ValidationInvalidMonth)
}
