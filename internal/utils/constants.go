package utils

import "time"

// Application Constants
const (
	AppName = "PickupApp"

	// Authentication
	JWTAccessTokenTTL = 24 * time.Hour
	TokenTypeBearer   = "bearer"

	// Listing caps
	DefaultListLimit       = 100
	DefaultNotificationCap = 20
	RecentActivityLimit    = 5

	// Rating
	MinRatingScore = 1
	MaxRatingScore = 5

	// File Upload
	MaxImageSize = 5 * 1024 * 1024 // 5MB

	// Cache
	DriverCacheTTL = 15 * time.Minute
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrMsgInvalidCredentials  = "Incorrect email or password"
	ErrMsgEmailRegistered     = "Email already registered"
	ErrMsgInvalidToken        = "Could not validate credentials"
	ErrMsgMissingToken        = "Authentication credentials were not provided."
	ErrMsgInternalServer      = "Internal server error"
	ErrMsgValidationFailed    = "Validation failed"
	ErrMsgUserRoleRequired    = "Access forbidden: User role required."
	ErrMsgDriverRoleRequired  = "Access forbidden: Driver role required."
	ErrMsgTooManyAttempts     = "Too many login attempts, try again later"
	ErrMsgNotEnoughCapacity   = "Not enough capacity on this tour."
	ErrMsgBookingNotFound     = "Booking not found or access denied."
	ErrMsgBookingCompleted    = "This ride has already been completed and cannot be cancelled."
	ErrMsgNotTourDriver       = "You are not the driver for this tour."
	ErrMsgRequestHandled      = "Request not found or already handled."
	ErrMsgRequestNotCancel    = "Request not found or you cannot cancel it."
	ErrMsgRequestNotComplete  = "Request not found or you cannot complete it."
	ErrMsgAlreadyRated        = "This booking has already been rated."
	ErrMsgDriverMismatch      = "This booking does not belong to the specified driver."
	ErrMsgRateOnlyCompleted   = "You can only rate completed rides."
	ErrMsgInvalidDiscountCode = "Invalid or expired discount code."
	ErrMsgNotificationMissing = "Notification not found or you don't have permission to update it."
)

// Cache Keys
const (
	CacheDriverPrefix    = "driver:"
	CacheRateLimitPrefix = "rate_limit:login:"
)

// Event Types
const (
	EventUserRegistered   = "user_registered"
	EventDriverRegistered = "driver_registered"
	EventLogin            = "login"
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventBookingCompleted = "booking_completed"
	EventPickupCreated    = "pickup_created"
	EventPickupCancelled  = "pickup_cancelled"
	EventPickupAccepted   = "pickup_accepted"
	EventPickupReopened   = "pickup_reopened"
	EventPickupCompleted  = "pickup_completed"
)

// Request context keys
const (
	ContextPrincipalID   = "principal_id"
	ContextPrincipalKind = "principal_kind"
	ContextRequestID     = "request_id"
)
