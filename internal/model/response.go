package model

type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
	Role  Role   `json:"role"`
}

type RegisterResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	Type  string    `json:"type"`
	User  LoginUser `json:"user"`
}

type LoginUser struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
