package dto

// LoginRequest is the credential payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token handed back after a login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}
