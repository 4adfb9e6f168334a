package models

// RegistrationInput is the data collected by the registration form
type RegistrationInput struct {
	FullName     string `form:"full_name" json:"full_name" validate:"min=3"`
	Email        string `form:"email" json:"email" validate:"contactemail"`
	PhoneNumber  string `form:"phone_number" json:"phone_number" validate:"min=10"`
	ReferralCode string `form:"referral_code" json:"referral_code"`
}

// CreateUserRequest is the body sent to the backend when registering
type CreateUserRequest struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	ReferrerCode string `json:"referrer_code,omitempty"`
}

// NewCreateUserRequest maps form input onto the backend request body.
// The form's referral code is the code of whoever referred this user.
func NewCreateUserRequest(input RegistrationInput) CreateUserRequest {
	return CreateUserRequest{
		FullName:     input.FullName,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		ReferrerCode: input.ReferralCode,
	}
}
