// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthAccessDenied       = "auth.access_denied"
	KeyAuthStaffOnly          = "auth.staff_only"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"

	// Credit products
	KeyProductCreated  = "product.created"
	KeyProductUpdated  = "product.updated"
	KeyProductDeleted  = "product.deleted"
	KeyProductNotFound = "product.not_found"
	KeyProductInUse    = "product.in_use"

	// Applications
	KeyApplicationSubmitted     = "application.submitted"
	KeyApplicationNotFound      = "application.not_found"
	KeyApplicationStatusUpdated = "application.status_updated"
	KeyApplicationRejected      = "application.rejected"
	KeyApplicationBlacklisted   = "application.blacklisted"
	KeyApplicationAmountTooHigh = "application.amount_too_high"

	// Scoring
	KeyScoringCalculated = "scoring.calculated"
	KeyScoringNotFound   = "scoring.not_found"

	// Blacklist
	KeyBlacklistAdded     = "blacklist.added"
	KeyBlacklistRemoved   = "blacklist.removed"
	KeyBlacklistRestored  = "blacklist.restored"
	KeyBlacklistNotFound  = "blacklist.not_found"
	KeyBlacklistDuplicate = "blacklist.duplicate"

	// Reports
	KeyReportGenerated = "report.generated"
	KeyReportArchived  = "report.archived"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationPassword = "validation.invalid_password"
)
