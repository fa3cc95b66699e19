package domain

type EmailRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type MagicLinkLogin struct {
	Token string `json:"token" binding:"required"`
}

// SetPasswordRequest carries the reset token and the new password. Length
// bounds are checked before submission; the BFF only requires presence.
type SetPasswordRequest struct {
	Token           string `json:"token" binding:"required" validate:"required"`
	Password        string `json:"password" binding:"required" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"required" validate:"required,eqfield=Password"`
}

type StaffLogin struct {
	Code string `json:"code" binding:"required"`
}

type ScanRequest struct {
	Token string `json:"token" binding:"required"`
}

// Session is the login result handed back to ticket holders.
type Session struct {
	Success      bool   `json:"success"`
	SessionToken string `json:"sessionToken"`
	Message      string `json:"message,omitempty"`
}
