package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

// CodesTestSuite defines the test suite for error codes
type CodesTestSuite struct {
	suite.Suite
}

func TestCodesTestSuite(t *testing.T) {
	suite.Run(t, new(CodesTestSuite))
}

func allCodes() []ErrorCode {
	return []ErrorCode{
		AuthInvalidCredentials, AuthMissingToken, AuthExpiredToken, AuthInvalidTokenFormat,
		AuthInsufficientPermission, AuthAccountLocked, AuthPasswordNotSet,
		ValidationGeneral, ValidationRequiredField, ValidationInvalidMonth, ValidationOutOfRange,
		ValidationInvalidEmail, ValidationInvalidAmount, ValidationInvalidDate, ValidationInvalidID,
		ValidationWeakPassword,
		UserNotFound, UserAlreadyExists, UserNoPasswordSet, UserSamePassword, UserEmailAlreadyTaken,
		CategoryNotFound, CategoryInUse,
		ExpenseNotFound, ExpenseEmptyUpdate,
		SubscriptionNotFound, SubscriptionInvalidRecurrence, SubscriptionEmptyUpdate,
		SystemInternalError, SystemDatabaseError, SystemServiceUnavailable, SystemConfigurationError,
		SystemUnexpectedError, SystemRateLimitExceeded, SystemFeatureDisabled,
	}
}

func (s *CodesTestSuite) TestGetErrorMessage_ValidCode() {
	testCases := []struct {
		name     string
		code     ErrorCode
		expected string
	}{
		{"Auth Invalid Credentials", AuthInvalidCredentials, "Invalid email or password"},
		{"Validation Invalid Month", ValidationInvalidMonth, "Month must be in YYYY-MM format"},
		{"Category In Use", CategoryInUse, "Category is still used by expenses or subscriptions"},
		{"Expense Not Found", ExpenseNotFound, "Expense not found"},
		{"Subscription Invalid Recurrence", SubscriptionInvalidRecurrence, "Recurrence must be MONTHLY or ANNUALLY"},
		{"System Internal Error", SystemInternalError, "An unexpected error occurred. Please contact support with trace ID"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, GetErrorMessage(tc.code))
		})
	}
}

func (s *CodesTestSuite) TestGetErrorMessage_InvalidCode() {
	s.Equal("An error occurred", GetErrorMessage("INVALID_CODE"))
}

func (s *CodesTestSuite) TestEveryCodeHasMessage() {
	for _, code := range allCodes() {
		s.True(IsValidErrorCode(code), string(code))
		s.NotEqual("An error occurred", GetErrorMessage(code), string(code))
	}
}

func (s *CodesTestSuite) TestCodesAreUnique() {
	seen := make(map[ErrorCode]bool)
	for _, code := range allCodes() {
		s.False(seen[code], "duplicate code %s", code)
		seen[code] = true
	}
	s.Len(errorMessages, len(seen))
}

func (s *CodesTestSuite) TestCodeFormat() {
	prefixes := []string{"AUTH_", "VALIDATION_", "USER_", "CATEGORY_", "EXPENSE_", "SUBSCRIPTION_", "SYSTEM_"}
	for _, code := range allCodes() {
		matched := false
		for _, p := range prefixes {
			if strings.HasPrefix(string(code), p) {
				matched = true
				break
			}
		}
		s.True(matched, string(code))
	}
}

func (s *CodesTestSuite) TestIsValidErrorCode_InvalidCodes() {
	for _, code := range []ErrorCode{"", "INVALID", "AUTH_999", "CUSTOMER_001"} {
		s.False(IsValidErrorCode(code), string(code))
	}
}
