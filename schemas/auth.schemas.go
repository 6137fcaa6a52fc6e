package schemas

// RegisterSchema struct
type RegisterSchema struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"max=60"`
}

// LoginSchema struct
type LoginSchema struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshSchema struct
type RefreshSchema struct {
	SessionID    string `json:"sessionId" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokensSchema is the payload returned on login/refresh
type TokensSchema struct {
	SessionID    string `json:"sessionId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}
