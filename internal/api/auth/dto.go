package auth

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type LoginUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginUserResponse struct {
	AccessToken      string  `json:"accessToken"`
	ExpiresInMinutes float64 `json:"expiresInMinutes"`
}

type ActivityResponse struct {
	Username  string `json:"username"`
	Activity  string `json:"activity"`
	Timestamp string `json:"timestamp"`
}

type ActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
}
