package handler

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=20"`
	Email    string   `json:"email"    validate:"required,email,max=50"`
	Password string   `json:"password" validate:"required,min=6,max=40"`
	Role     []string `json:"role"`
}

type jwtResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type messageResponse struct {
	Message string `json:"message"`
}
