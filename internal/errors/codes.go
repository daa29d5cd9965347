package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials     ErrorCode = "AUTH_001"
	AuthMissingToken           ErrorCode = "AUTH_002"
	AuthExpiredToken           ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat     ErrorCode = "AUTH_004"
	AuthInsufficientPermission ErrorCode = "AUTH_005"
	AuthAccountLocked          ErrorCode = "AUTH_006"
	AuthPasswordNotSet         ErrorCode = "AUTH_007"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidMonth  ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail  ErrorCode = "VALIDATION_005"
	ValidationInvalidAmount ErrorCode = "VALIDATION_006"
	ValidationInvalidDate   ErrorCode = "VALIDATION_007"
	ValidationInvalidID     ErrorCode = "VALIDATION_008"
	ValidationWeakPassword  ErrorCode = "VALIDATION_009"
)

// User error codes (USER_*)
const (
	UserNotFound          ErrorCode = "USER_001"
	UserAlreadyExists     ErrorCode = "USER_002"
	UserNoPasswordSet     ErrorCode = "USER_003"
	UserSamePassword      ErrorCode = "USER_004"
	UserEmailAlreadyTaken ErrorCode = "USER_005"
)

// Category error codes (CATEGORY_*)
const (
	CategoryNotFound ErrorCode = "CATEGORY_001"
	CategoryInUse    ErrorCode = "CATEGORY_002"
)

// Expense error codes (EXPENSE_*)
const (
	ExpenseNotFound    ErrorCode = "EXPENSE_001"
	ExpenseEmptyUpdate ErrorCode = "EXPENSE_002"
)

// Subscription error codes (SUBSCRIPTION_*)
const (
	SubscriptionNotFound          ErrorCode = "SUBSCRIPTION_001"
	SubscriptionInvalidRecurrence ErrorCode = "SUBSCRIPTION_002"
	SubscriptionEmptyUpdate       ErrorCode = "SUBSCRIPTION_003"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemFeatureDisabled    ErrorCode = "SYSTEM_007"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthInvalidCredentials:     "Invalid email or password",
	AuthMissingToken:           "Authorization token is required",
	AuthExpiredToken:           "Authorization token has expired",
	AuthInvalidTokenFormat:     "Invalid authorization token format",
	AuthInsufficientPermission: "Insufficient permissions to access this resource",
	AuthAccountLocked:          "Account is locked after too many failed sign-in attempts",
	AuthPasswordNotSet:         "This account signs in through an external provider",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidMonth:  "Month must be in YYYY-MM format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidEmail:  "Invalid email address format",
	ValidationInvalidAmount: "Amount must be greater than zero with at most two decimal places",
	ValidationInvalidDate:   "Date must be in YYYY-MM-DD format",
	ValidationInvalidID:     "Invalid identifier format",
	ValidationWeakPassword:  "Password does not meet requirements",

	// User errors
	UserNotFound:          "User not found",
	UserAlreadyExists:     "An account with this email already exists",
	UserNoPasswordSet:     "No password is set for this account",
	UserSamePassword:      "New password must differ from the current password",
	UserEmailAlreadyTaken: "Email address is already in use",

	// Category errors
	CategoryNotFound: "Category not found",
	CategoryInUse:    "Category is still used by expenses or subscriptions",

	// Expense errors
	ExpenseNotFound:    "Expense not found",
	ExpenseEmptyUpdate: "No expense fields to update",

	// Subscription errors
	SubscriptionNotFound:          "Subscription not found",
	SubscriptionInvalidRecurrence: "Recurrence must be MONTHLY or ANNUALLY",
	SubscriptionEmptyUpdate:       "No subscription fields to update",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemFeatureDisabled:    "This feature is not enabled",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
