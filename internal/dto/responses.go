package dto

// Envelope is the JSON shape of every response: a status code mirror, a
// payload, and a human-readable message.
type Envelope struct {
	Status  int    `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

// LoginResponse pairs the sanitized user with the issued tokens.
type LoginResponse struct {
	User         any    `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
